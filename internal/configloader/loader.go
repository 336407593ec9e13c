// Package configloader resolves the sokki configuration from its layers:
// built-in defaults, the system, user and project files, an explicit file,
// SOKKI_* environment variables and command-line flags.
package configloader

import (
	"context"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/sokki/pkg/config"
)

// LoadOptions controls configuration loading.
type LoadOptions struct {
	// WorkingDir is where the project config search starts. Empty means
	// the process working directory.
	WorkingDir string

	// ExplicitPath is the file named by --config. It is applied on top of
	// the discovered files.
	ExplicitPath string

	IgnoreSystemConfig  bool
	IgnoreUserConfig    bool
	IgnoreProjectConfig bool
	IgnoreEnv           bool

	// CLIConfig holds values set by flags. Its non-zero fields win over
	// every other layer.
	CLIConfig *config.Config
}

// LoadResult is the resolved configuration and where it came from.
type LoadResult struct {
	Config *config.Config
	Paths  *ConfigPaths

	// LoadedFrom lists the files applied, lowest precedence first.
	LoadedFrom []string

	// Warnings are problems that did not stop loading, such as unknown
	// settings or an unknown chroma style.
	Warnings []string
}

// fileLayer is one config file and the layer it belongs to.
type fileLayer struct {
	name string
	path string
}

// Load resolves the configuration. Later layers override earlier ones:
// defaults, system file, user file, project file, explicit file,
// environment, flags.
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	paths, err := DiscoverPaths(ctx, opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	paths.Explicit = opts.ExplicitPath

	result := &LoadResult{Paths: paths}
	cfg := config.NewConfig()

	for _, file := range opts.fileLayers(paths) {
		layer, unknown, err := loadConfigFile(file.path)
		if err != nil {
			return nil, fmt.Errorf("load %s config: %w", file.name, err)
		}
		for _, key := range unknown {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: unknown setting %q", file.path, key))
		}
		cfg = merge(cfg, layer)
		result.LoadedFrom = append(result.LoadedFrom, file.path)
	}

	if !opts.IgnoreEnv {
		if err := LoadFromEnv(cfg); err != nil {
			return nil, fmt.Errorf("load environment: %w", err)
		}
	}
	if opts.CLIConfig != nil {
		cfg = merge(cfg, opts.CLIConfig)
	}

	validation := Validate(cfg)
	if !validation.Valid() {
		return nil, &validation.Errors[0]
	}
	for _, warning := range validation.Warnings {
		result.Warnings = append(result.Warnings, warning.Message)
	}

	result.Config = cfg
	return result, nil
}

func (o LoadOptions) fileLayers(paths *ConfigPaths) []fileLayer {
	var layers []fileLayer
	add := func(name, path string, skip bool) {
		if path != "" && !skip {
			layers = append(layers, fileLayer{name: name, path: path})
		}
	}
	add("system", paths.System, o.IgnoreSystemConfig)
	add("user", paths.User, o.IgnoreUserConfig)
	add("project", paths.Project, o.IgnoreProjectConfig)
	add("explicit", paths.Explicit, false)
	return layers
}

// settings lists the keys of each config file section. Top-level keys
// without sections map to nil.
//
//nolint:gochecknoglobals // Read-only schema.
var settings = map[string][]string{
	"flavor":    nil,
	"log_level": nil,
	"ignore":    nil,
	"history":   {"limit", "coalesce_window"},
	"autosave":  {"enabled", "debounce", "dir"},
	"preview":   {"highlight", "style", "detect_language", "classes"},
	"watch":     {"delay"},
	"backups":   {"enabled", "mode"},
}

// loadConfigFile reads and validates one config file. It also returns the
// dotted names of settings sokki does not know.
func loadConfigFile(path string) (*config.Config, []string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read file: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, nil, fmt.Errorf("parse YAML: %w", err)
	}

	cfg := &config.Config{}
	if len(doc.Content) == 0 {
		return cfg, nil, nil
	}
	if err := doc.Decode(cfg); err != nil {
		return nil, nil, fmt.Errorf("parse YAML: %w", err)
	}

	if result := ValidateWithFile(cfg, path); !result.Valid() {
		return nil, nil, &result.Errors[0]
	}
	return cfg, unknownSettings(doc.Content[0]), nil
}

func unknownSettings(root *yaml.Node) []string {
	if root.Kind != yaml.MappingNode {
		return nil
	}

	var unknown []string
	for idx := 0; idx+1 < len(root.Content); idx += 2 {
		key, value := root.Content[idx].Value, root.Content[idx+1]
		fields, known := settings[key]
		if !known {
			unknown = append(unknown, key)
			continue
		}
		if fields == nil || value.Kind != yaml.MappingNode {
			continue
		}
		for sub := 0; sub+1 < len(value.Content); sub += 2 {
			if name := value.Content[sub].Value; !slices.Contains(fields, name) {
				unknown = append(unknown, key+"."+name)
			}
		}
	}
	return unknown
}
