package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/sokki/internal/logging"
	"github.com/yaklabco/sokki/pkg/autosave"
	"github.com/yaklabco/sokki/pkg/config"
	"github.com/yaklabco/sokki/pkg/fsutil"
	"github.com/yaklabco/sokki/pkg/history"
	"github.com/yaklabco/sokki/pkg/script"
	"github.com/yaklabco/sokki/pkg/session"
	"github.com/yaklabco/sokki/pkg/textedit"
)

type editFlags struct {
	script string
	write  bool
	diff   bool
	backup bool
}

func newEditCommand() *cobra.Command {
	flags := &editFlags{}

	cmd := &cobra.Command{
		Use:   "edit FILE --script SCRIPT",
		Short: "Replay scripted key presses against a Markdown file",
		Long:  editLongDescription,
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.script, "script", "s", "", "YAML script of editing steps (required)")
	cmd.Flags().BoolVarP(&flags.write, "write", "w", false, "write the result back to FILE")
	cmd.Flags().BoolVarP(&flags.diff, "diff", "d", false, "print a unified diff instead of the document")
	cmd.Flags().BoolVar(&flags.backup, "backup", false, "keep a backup of FILE before writing (default from config)")

	return cmd
}

const editLongDescription = `Replay a script of key presses, typed text and editor commands against a
Markdown file, exactly as the interactive editor would handle them.

The script is a YAML document:

  select: [0]            # initial caret, or [start, end]
  steps:
    - type: "- [ ] buy milk\n"
    - key: Tab
    - key: b
      mod: true          # Ctrl or Cmd
    - pause: 1s          # ends the current undo step
    - command: toggle-task
      index: 0

By default the edited document is printed to stdout.

Examples:
  sokki edit notes.md -s steps.yaml           # Print the result
  sokki edit notes.md -s steps.yaml --diff    # Show what would change
  sokki edit notes.md -s steps.yaml --write   # Apply the edits in place`

func runEdit(cmd *cobra.Command, path string, flags *editFlags) error {
	if flags.script == "" {
		return fmt.Errorf("%w: --script is required", ErrUsage)
	}

	cliCfg := &config.Config{}
	if cmd.Flags().Changed("backup") {
		cliCfg.Backups.Enabled = config.Bool(flags.backup)
	}

	cfg, err := loadConfig(cmd, cliCfg)
	if err != nil {
		return err
	}

	steps, err := script.Load(flags.script)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	ctx, _ := logging.ForDocument(commandContext(cmd), path)
	original, _, err := fsutil.ReadDocument(ctx, path)
	if err != nil {
		return fmt.Errorf("open document: %w", err)
	}

	clock := script.NewClock()
	sess, err := newEditSession(ctx, cfg, clock, flags.write)
	if err != nil {
		return err
	}
	if err := sess.Open(ctx, path); err != nil {
		return errors.Join(err, sess.Close(ctx))
	}

	surface := script.NewSurface(sess, sess.Buffer(), clock)
	result := surface.Replay(steps)
	logReplay(ctx, sess, result)

	edited := sess.Text()
	out := cmd.OutOrStdout()
	styles := commandStyles(cmd)

	if flags.diff {
		diff := textedit.GenerateDiff(filepath.ToSlash(path), original, edited)
		if diff.HasChanges() {
			fmt.Fprint(out, styles.FormatDiff(diff))
		}
		fmt.Fprint(cmd.ErrOrStderr(), styles.FormatDiffStat(diff))
	}

	if flags.write {
		err := writeEdited(ctx, cmd, cfg, sess, path, edited != original)
		return errors.Join(err, sess.Close(ctx))
	}

	if !flags.diff {
		fmt.Fprint(out, edited)
	}

	dirty := sess.Dirty()
	if err := sess.Close(ctx); err != nil {
		return fmt.Errorf("close session: %w", err)
	}
	if dirty && config.IsSet(cfg.Autosave.Enabled) {
		fmt.Fprintln(cmd.ErrOrStderr(), styles.Dim.Render("Unsaved edits kept in the autosave snapshot; run 'sokki restore' to recover them"))
	}
	return nil
}

// newEditSession creates the session a script runs in. Unless the result
// is written, unsaved edits go to the autosave snapshot on close.
func newEditSession(ctx context.Context, cfg *config.Config, clock *script.Clock, write bool) (*session.Session, error) {
	logger := logging.FromContext(ctx)
	opts := session.Options{
		History: append(historyOptions(cfg), history.WithClock(clock.Now)),
		OnError: func(err error) {
			logger.Warn("session error", logging.FieldError, err)
		},
	}

	if config.IsSet(cfg.Autosave.Enabled) && !write {
		store, err := autosaveStore(cfg)
		if err != nil {
			return nil, err
		}
		opts.Store = store
		opts.Autosave = []autosave.SchedulerOption{autosave.WithDebounce(cfg.Autosave.Debounce)}
	}

	return session.New(opts), nil
}

func logReplay(ctx context.Context, sess *session.Session, result script.Result) {
	logger := logging.FromContext(ctx)
	for _, action := range result.Actions {
		logger.Debug("script requested action", logging.FieldAction, action)
	}
	buf := sess.Buffer()
	logger.Debug("replayed script",
		logging.FieldEvent, result.Events,
		logging.FieldHandled, result.Handled,
		logging.FieldUndoDepth, sess.UndoDepth(),
		logging.FieldDirty, sess.Dirty(),
		logging.FieldCursor, fmt.Sprintf("%d-%d", buf.Sel.Start, buf.Sel.End),
	)
}

func writeEdited(
	ctx context.Context, cmd *cobra.Command, cfg *config.Config,
	sess *session.Session, path string, changed bool,
) error {
	styles := commandStyles(cmd)

	if !changed {
		fmt.Fprintln(cmd.OutOrStdout(), styles.Dim.Render("No changes to "+path))
		return nil
	}

	backupCfg := fsutil.BackupConfig{
		Enabled: config.IsSet(cfg.Backups.Enabled),
		Mode:    fsutil.BackupMode(cfg.Backups.Mode),
	}
	created, err := fsutil.CreateBackup(ctx, path, backupCfg)
	if err != nil {
		return fmt.Errorf("back up document: %w", err)
	}
	if created {
		logging.FromContext(ctx).Info("created backup", logging.FieldBackup, fsutil.BackupPath(path, backupCfg.Mode))
	}

	if err := sess.Save(ctx); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), styles.Success.Render("Wrote")+" "+styles.FilePath.Render(path))
	return nil
}
