package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/yaklabco/sokki/internal/logging"
	"github.com/yaklabco/sokki/internal/ui/pretty"
	"github.com/yaklabco/sokki/pkg/config"
	"github.com/yaklabco/sokki/pkg/preview"
	"github.com/yaklabco/sokki/pkg/runner"
)

type renderFlags struct {
	output         string
	include        []string
	ignore         []string
	fragment       bool
	force          bool
	dryRun         bool
	followSymlinks bool
	quiet          bool
	summary        bool
}

func newRenderCommand() *cobra.Command {
	var cfg config.Config
	flags := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "render [paths...]",
		Short: "Render Markdown files to HTML",
		Long:  renderLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args, &cfg, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "directory for rendered pages (default: next to each source)")
	cmd.Flags().IntVarP(&cfg.Jobs, "jobs", "j", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.include, "include", nil, "only render files matching these glob patterns")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to skip")
	cmd.Flags().BoolVar(&flags.fragment, "fragment", false, "write HTML fragments instead of full pages")
	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "render even when a page is newer than its source")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "render without writing any page")
	cmd.Flags().BoolVar(&flags.followSymlinks, "follow-symlinks", false, "follow symbolic links during discovery")
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "print only the one-line summary")
	cmd.Flags().BoolVar(&flags.summary, "summary", false, "print a detailed summary block")

	return cmd
}

const renderLongDescription = `Render Markdown files to HTML pages.

By default, renders all .md and .markdown files in the current directory
and subdirectories, writing each page next to its source. Pages that are
newer than their source are skipped unless --force is given.

Fenced code is highlighted with the configured chroma style. Fences without
a language are detected from their content.

Examples:
  sokki render                         # Render current directory
  sokki render docs/ -o site           # Mirror docs/ into site/
  sokki render README.md --fragment    # Body HTML only
  sokki render --ignore "drafts/**"    # Skip drafts
  sokki render --dry-run               # Report without writing`

func runRender(cmd *cobra.Command, args []string, cliCfg *config.Config, flags *renderFlags) error {
	cliCfg.Ignore = flags.ignore

	cfg, err := loadConfig(cmd, cliCfg)
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	renderer := preview.New(previewOptions(cfg))
	renderRunner := runner.New(renderer)

	runOpts := runner.Options{
		Paths:          args,
		WorkingDir:     workDir,
		Extensions:     runner.DefaultExtensions(),
		IncludeGlobs:   flags.include,
		ExcludeGlobs:   cfg.Ignore,
		SkipDirs:       stateDirs(cfg),
		FollowSymlinks: flags.followSymlinks,
		Jobs:           cfg.Jobs,
		OutputDir:      flags.output,
		Fragment:       flags.fragment,
		Force:          flags.force,
		DryRun:         flags.dryRun,
	}

	logger.Debug("starting render run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
	)

	start := time.Now()
	result, err := renderRunner.Run(ctx, runOpts)
	if err != nil {
		return errors.Join(errors.New("render run failed"), err)
	}

	logger.Debug("render run finished",
		logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
		logging.FieldFilesRendered, result.Stats.FilesRendered,
		logging.FieldFilesSkipped, result.Stats.FilesSkipped,
		logging.FieldFilesErrored, result.Stats.FilesErrored,
		logging.FieldDuration, time.Since(start),
	)

	for _, file := range result.Files {
		if file.Error != nil {
			logger.Error("render failed", logging.FieldPath, file.Path, logging.FieldError, file.Error)
		}
	}

	out := cmd.OutOrStdout()
	styles := commandStyles(cmd)

	if !flags.quiet {
		table := pretty.NewTableFormatter(styles, terminalWidth(out))
		fmt.Fprint(out, table.FormatTable(result, workDir))
	}
	if flags.summary {
		fmt.Fprint(out, styles.FormatSummary(result.Stats))
	} else {
		fmt.Fprint(out, styles.FormatSummaryOneLine(result.Stats))
	}

	if ExitCodeFromResult(result) != ExitSuccess {
		return ErrRenderFailed
	}
	return nil
}
