// Package cli provides the Cobra command structure for sokki.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/sokki/internal/ui/pretty"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root sokki command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var configPath string
	var color string
	var logLevel string
	var debug bool

	rootCmd := &cobra.Command{
		Use:   "sokki",
		Short: "A structure-aware Markdown editing core",
		Long: `sokki edits Markdown the way a writer expects: Enter continues lists and
tables, Tab moves between table cells and indents list items, and short
shortcuts expand into headings, tables and task items. Every change lands in
an undo history that groups fast typing into single steps.

The command line drives the same editor headlessly. Replay scripted key
presses against a file, render Markdown to HTML with highlighted code, keep a
preview page in sync with a file on disk, or recover unsaved edits from the
autosave snapshot.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if _, err := pretty.ParseColorMode(color); err != nil {
				return fmt.Errorf("%w: %w", ErrUsage, err)
			}
			return nil
		},
	}

	// Global flags.
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level: debug, info, warn, error (default from config)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	// Add subcommands.
	rootCmd.AddCommand(newEditCommand())
	rootCmd.AddCommand(newRenderCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newRestoreCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	// Apply styled help formatting.
	helpFormatter := NewHelpFormatter(color)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}
