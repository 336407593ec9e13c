package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/sokki/internal/configloader"
	"github.com/yaklabco/sokki/internal/logging"
	"github.com/yaklabco/sokki/internal/ui/pretty"
	"github.com/yaklabco/sokki/pkg/autosave"
	"github.com/yaklabco/sokki/pkg/config"
	"github.com/yaklabco/sokki/pkg/history"
	"github.com/yaklabco/sokki/pkg/preview"
)

// commandContext returns the command's context, or a background context
// when the command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// usageArgs wraps a positional argument validator so its failures map to
// ExitInvalidUsage.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return fmt.Errorf("%w: %w", ErrUsage, err)
		}
		return nil
	}
}

// loadConfig resolves the configuration for a command. Values set in cliCfg
// take precedence over every other source. A logger writing to the
// command's stderr at the resolved level is attached to the command's
// context; see logging.FromContext.
func loadConfig(cmd *cobra.Command, cliCfg *config.Config) (*config.Config, error) {
	if cliCfg == nil {
		cliCfg = &config.Config{}
	}

	if cmd.Flags().Changed("log-level") {
		level, err := cmd.Flags().GetString("log-level")
		if err != nil {
			return nil, fmt.Errorf("get log-level flag: %w", err)
		}
		cliCfg.LogLevel = level
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(commandContext(cmd), configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, errors.Join(errors.New("failed to load configuration"), err))
	}

	cfg := loadResult.Config

	level := cfg.LogLevel
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		level = "debug"
	}
	logging.SetLevel(level)
	logger := logging.NewWithWriter(cmd.ErrOrStderr(), level)

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldFiles, loadResult.LoadedFrom)
	}

	logger.Debug("configuration loaded",
		logging.FieldFlavor, cfg.Flavor,
		logging.FieldStyle, cfg.Preview.Style,
		logging.FieldJobs, cfg.Jobs,
	)

	cmd.SetContext(logging.WithLogger(commandContext(cmd), logger))
	return cfg, nil
}

// commandStyles returns output styles for the command's stdout.
func commandStyles(cmd *cobra.Command) *pretty.Styles {
	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}
	return pretty.NewStyles(pretty.IsColorEnabled(colorMode, cmd.OutOrStdout()))
}

// previewOptions maps the preview configuration to renderer options.
func previewOptions(cfg *config.Config) preview.Options {
	return preview.Options{
		Flavor:         string(cfg.Flavor),
		Highlight:      config.IsSet(cfg.Preview.Highlight),
		Style:          cfg.Preview.Style,
		DetectLanguage: config.IsSet(cfg.Preview.DetectLanguage),
		Classes:        cfg.Preview.Classes,
	}
}

// historyOptions maps the history configuration to engine options.
func historyOptions(cfg *config.Config) []history.Option {
	return []history.Option{
		history.WithLimit(cfg.History.Limit),
		history.WithCoalesceWindow(cfg.History.CoalesceWindow),
	}
}

// stateDirs lists the directories where sokki keeps its own state, which
// render never treats as sources.
func stateDirs(cfg *config.Config) []string {
	dir, err := configloader.DefaultLayout().AutosaveDir(cfg.Autosave.Dir)
	if err != nil {
		return nil
	}
	return []string{dir}
}

// autosaveStore opens the snapshot store named by the configuration.
func autosaveStore(cfg *config.Config) (*autosave.Store, error) {
	dir, err := configloader.DefaultLayout().AutosaveDir(cfg.Autosave.Dir)
	if err != nil {
		return nil, err
	}
	return autosave.NewStore(dir), nil
}
