package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/yaklabco/sokki/pkg/config"
)

// envVarPrefix is the prefix for all sokki environment variables.
const envVarPrefix = "SOKKI_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
	envTypeDuration
	envTypeSlice
)

// envMapping defines environment variable to config field mappings.
type envMapping struct {
	field       string
	typ         envFieldType
	description string
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"FLAVOR":                  {field: "flavor", typ: envTypeString, description: "Markdown flavor: commonmark or gfm"},
	"LOG_LEVEL":               {field: "log_level", typ: envTypeString, description: "Log level: debug, info, warn, or error"},
	"HISTORY_LIMIT":           {field: "history.limit", typ: envTypeInt, description: "Maximum number of undo steps"},
	"HISTORY_COALESCE_WINDOW": {field: "history.coalesce_window", typ: envTypeDuration, description: "Typing pause that ends an undo step, e.g. 600ms"},
	"AUTOSAVE_ENABLED":        {field: "autosave.enabled", typ: envTypeBool, description: "Keep a crash-recovery snapshot: true or false"},
	"AUTOSAVE_DEBOUNCE":       {field: "autosave.debounce", typ: envTypeDuration, description: "Delay before the snapshot is written, e.g. 500ms"},
	"AUTOSAVE_DIR":            {field: "autosave.dir", typ: envTypeString, description: "Snapshot directory"},
	"PREVIEW_HIGHLIGHT":       {field: "preview.highlight", typ: envTypeBool, description: "Highlight fenced code: true or false"},
	"PREVIEW_STYLE":           {field: "preview.style", typ: envTypeString, description: "Highlighting style, e.g. github or monokai"},
	"PREVIEW_DETECT_LANGUAGE": {field: "preview.detect_language", typ: envTypeBool, description: "Guess the language of unlabelled code: true or false"},
	"WATCH_DELAY":             {field: "watch.delay", typ: envTypeDuration, description: "Quiet period before an external change is reloaded"},
	"BACKUPS_ENABLED":         {field: "backups.enabled", typ: envTypeBool, description: "Back up files before edit --write: true or false"},
	"BACKUPS_MODE":            {field: "backups.mode", typ: envTypeString, description: "Backup mode: sidecar or none"},
	"IGNORE":                  {field: "ignore", typ: envTypeSlice, description: "Comma-separated list of ignore patterns"},
	"JOBS":                    {field: "jobs", typ: envTypeInt, description: "Number of parallel render workers (0 = auto)"},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with SOKKI_ (e.g., SOKKI_FLAVOR).
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for envSuffix, mapping := range envMappings {
		envVar := envVarPrefix + envSuffix
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}

		if err := applyEnvValue(cfg, mapping, value, envVar); err != nil {
			return err
		}
	}

	return nil
}

// applyEnvValue applies a single environment variable value to the config.
func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(cfg, mapping.field, i)
	case envTypeDuration:
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for %s: %q (e.g. 500ms)", envVar, value)
		}
		return setDurationField(cfg, mapping.field, d)
	case envTypeSlice:
		return setSliceField(cfg, mapping.field, parseSliceValue(value))
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// parseSliceValue parses a comma-separated string into a slice.
// Each element is trimmed of whitespace.
func parseSliceValue(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// setStringField sets a string field on the config by field path.
func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "flavor":
		cfg.Flavor = config.Flavor(value)
	case "log_level":
		cfg.LogLevel = value
	case "autosave.dir":
		cfg.Autosave.Dir = value
	case "preview.style":
		cfg.Preview.Style = value
	case "backups.mode":
		cfg.Backups.Mode = value
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

// setBoolField sets a boolean field on the config by field path.
func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "autosave.enabled":
		cfg.Autosave.Enabled = config.Bool(value)
	case "preview.highlight":
		cfg.Preview.Highlight = config.Bool(value)
	case "preview.detect_language":
		cfg.Preview.DetectLanguage = config.Bool(value)
	case "backups.enabled":
		cfg.Backups.Enabled = config.Bool(value)
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

// setIntField sets an integer field on the config by field path.
func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "history.limit":
		cfg.History.Limit = value
	case "jobs":
		cfg.Jobs = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

// setDurationField sets a duration field on the config by field path.
func setDurationField(cfg *config.Config, field string, value time.Duration) error {
	switch field {
	case "history.coalesce_window":
		cfg.History.CoalesceWindow = value
	case "autosave.debounce":
		cfg.Autosave.Debounce = value
	case "watch.delay":
		cfg.Watch.Delay = value
	default:
		return fmt.Errorf("unknown duration field: %s", field)
	}
	return nil
}

// setSliceField sets a slice field on the config by field path.
func setSliceField(cfg *config.Config, field string, value []string) error {
	switch field {
	case "ignore":
		cfg.Ignore = value
	default:
		return fmt.Errorf("unknown slice field: %s", field)
	}
	return nil
}

// GetEnvVarName returns the full environment variable name for a config field.
func GetEnvVarName(field string) string {
	for suffix, mapping := range envMappings {
		if mapping.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// ListEnvVars returns all supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	vars := make(map[string]string, len(envMappings))
	for suffix, mapping := range envMappings {
		vars[envVarPrefix+suffix] = mapping.description
	}
	return vars
}
