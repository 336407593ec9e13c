package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/sokki/internal/logging"
	"github.com/yaklabco/sokki/pkg/fsutil"
	"github.com/yaklabco/sokki/pkg/preview"
	"github.com/yaklabco/sokki/pkg/runner"
	"github.com/yaklabco/sokki/pkg/session"
)

type watchFlags struct {
	output   string
	fragment bool
}

func newWatchCommand() *cobra.Command {
	flags := &watchFlags{}

	cmd := &cobra.Command{
		Use:   "watch FILE",
		Short: "Keep an HTML preview in sync with a Markdown file",
		Long: `Render FILE to HTML and render it again every time the file changes on
disk. Changes are picked up after the configured watch delay, so a burst of
writes from another editor produces one render.

The command runs until interrupted.

Examples:
  sokki watch README.md                  # Writes README.html
  sokki watch notes.md -o /tmp/notes.html
  sokki watch notes.md --fragment -o body.html`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "page to write (default: FILE with .html extension)")
	cmd.Flags().BoolVar(&flags.fragment, "fragment", false, "write the HTML fragment instead of a full page")

	return cmd
}

func runWatch(cmd *cobra.Command, path string, flags *watchFlags) error {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	// Renders are the output of this command, so info is the quietest level.
	level := "info"
	if logging.FromContext(commandContext(cmd)).GetLevel() <= log.DebugLevel {
		level = "debug"
	}
	ctx := logging.WithLogger(commandContext(cmd), logging.NewInteractive(cmd.ErrOrStderr(), level))
	ctx, logger := logging.ForDocument(ctx, absPath)

	output := flags.output
	if output == "" {
		output = runner.OutputPath(absPath, filepath.Dir(absPath), "")
	}

	renderer := preview.New(previewOptions(cfg))
	title := strings.TrimSuffix(filepath.Base(absPath), filepath.Ext(absPath))

	opts := session.Options{
		History:    historyOptions(cfg),
		Watch:      true,
		WatchDelay: cfg.Watch.Delay,
		OnError: func(err error) {
			logger.Error("watch error", logging.FieldError, err)
		},
	}

	var sess *session.Session
	writePage := func(ctx context.Context) {
		page, err := renderer.Page(ctx, title, []byte(sess.Text()), filepath.Dir(absPath))
		if err == nil {
			err = fsutil.WriteAtomic(ctx, output, page, fsutil.DefaultFileMode)
		}
		if err != nil {
			logger.Error("render failed", logging.FieldError, err)
			return
		}
		logger.Info("rendered", logging.FieldOutput, output, logging.FieldBytes, len(page))
	}

	if flags.fragment {
		// The session renders on every document change and hands the
		// fragment over while it holds its lock.
		opts.Preview = renderer
		opts.OnRender = func(html []byte) {
			if err := fsutil.WriteAtomic(ctx, output, html, fsutil.DefaultFileMode); err != nil {
				logger.Error("write fragment", logging.FieldOutput, output, logging.FieldError, err)
				return
			}
			logger.Info("rendered", logging.FieldOutput, output, logging.FieldBytes, len(html))
		}
	} else {
		opts.OnReload = func(string) { writePage(ctx) }
	}

	sess = session.New(opts)
	if err := sess.Open(ctx, absPath); err != nil {
		return fmt.Errorf("open document: %w", err)
	}
	if !flags.fragment {
		writePage(ctx)
	}

	logger.Info("watching for changes", logging.FieldDelay, cfg.Watch.Delay)

	<-ctx.Done()

	logger.Info("stopping")
	if err := sess.Close(context.WithoutCancel(ctx)); err != nil {
		return fmt.Errorf("close session: %w", err)
	}
	return nil
}
