package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/yaklabco/sokki/internal/logging"
	"github.com/yaklabco/sokki/internal/ui/pretty"
	"github.com/yaklabco/sokki/pkg/autosave"
	"github.com/yaklabco/sokki/pkg/fsutil"
	"github.com/yaklabco/sokki/pkg/session"
	"github.com/yaklabco/sokki/pkg/textedit"
)

type restoreFlags struct {
	discard bool
	yes     bool
	output  string
	print   bool
}

func newRestoreCommand() *cobra.Command {
	flags := &restoreFlags{}

	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Recover unsaved edits from the autosave snapshot",
		Long: `Inspect and recover the autosave snapshot left behind by an editing
session that ended without saving.

The snapshot is compared with the file it was taken from. Restoring writes
the snapshot over that file (or to --output) and removes the snapshot.
Without a terminal and without --yes, the snapshot is printed instead.

Examples:
  sokki restore                 # Show the changes and ask before writing
  sokki restore --yes           # Restore without asking
  sokki restore -o recovered.md # Write the snapshot somewhere else
  sokki restore --print         # Print the snapshot text
  sokki restore --discard       # Throw the snapshot away`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRestore(cmd, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.discard, "discard", false, "delete the snapshot without restoring it")
	cmd.Flags().BoolVarP(&flags.yes, "yes", "y", false, "restore without asking")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write the snapshot to this file instead")
	cmd.Flags().BoolVar(&flags.print, "print", false, "print the snapshot text and keep the snapshot")

	return cmd
}

func runRestore(cmd *cobra.Command, flags *restoreFlags) error {
	if flags.discard && (flags.yes || flags.output != "" || flags.print) {
		return fmt.Errorf("%w: --discard cannot be combined with other flags", ErrUsage)
	}

	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}

	store, err := autosaveStore(cfg)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	out := cmd.OutOrStdout()
	styles := commandStyles(cmd)

	snapshot, err := store.Load(ctx)
	if errors.Is(err, autosave.ErrNoSnapshot) {
		fmt.Fprintln(out, styles.Dim.Render("No autosave snapshot found"))
		return nil
	}
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	logging.FromContext(ctx).Debug("found snapshot",
		logging.FieldSnapshot, store.Dir(),
		logging.FieldPath, snapshot.CurrentPath,
		logging.FieldBytes, len(snapshot.Text),
	)

	if flags.discard {
		if err := store.Clear(ctx); err != nil {
			return fmt.Errorf("discard snapshot: %w", err)
		}
		fmt.Fprintln(out, styles.Success.Render("Discarded")+" autosave snapshot")
		return nil
	}

	if flags.print {
		fmt.Fprint(out, snapshot.Text)
		return nil
	}

	target := flags.output
	if target == "" {
		target = snapshot.CurrentPath
	}
	if target == "" {
		return fmt.Errorf("%w: the snapshot belongs to an unsaved document; use --output", ErrUsage)
	}

	fmt.Fprint(out, describeSnapshot(ctx, styles, snapshot, target))

	if !flags.yes {
		if !isInteractive(cmd.InOrStdin()) {
			fmt.Fprint(out, snapshot.Text)
			return nil
		}
		ok, err := confirm(cmd.InOrStdin(), out, "Restore unsaved edits to "+target+"?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, styles.Dim.Render("Snapshot kept"))
			return nil
		}
	}

	if err := restoreSnapshot(ctx, store, target, snapshot.CurrentPath); err != nil {
		return err
	}

	fmt.Fprintln(out, styles.Success.Render("Restored")+" "+styles.FilePath.Render(target))
	return nil
}

// describeSnapshot summarizes the snapshot and its difference from target.
func describeSnapshot(ctx context.Context, styles *pretty.Styles, snapshot autosave.Snapshot, target string) string {
	header := fmt.Sprintf("%s saved %s\n",
		styles.FormatFileHeader(target, true),
		snapshot.SavedAt.Local().Format(time.DateTime),
	)

	current, _, err := fsutil.ReadDocument(ctx, target)
	if err != nil {
		return header
	}
	return header + styles.FormatDiff(textedit.GenerateDiff(filepath.ToSlash(target), current, snapshot.Text))
}

// restoreSnapshot writes the snapshot through a session, which also clears
// the snapshot once the document is saved.
func restoreSnapshot(ctx context.Context, store *autosave.Store, target, snapshotPath string) error {
	sess := session.New(session.Options{Store: store})

	restored, err := sess.Restore(ctx)
	if err != nil {
		return err
	}
	if !restored {
		return errors.New("snapshot disappeared before it could be restored")
	}

	absTarget, err := filepath.Abs(target)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", target, err)
	}
	if absTarget == snapshotPath {
		err = sess.Save(ctx)
	} else {
		err = sess.SaveAs(ctx, absTarget)
	}
	return errors.Join(err, sess.Close(ctx))
}
