package logging

// Structured logging keys shared by the commands.
const (
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"
	FieldDuration   = "duration"
	FieldDelay      = "delay"

	// Resolved configuration.
	FieldFlavor = "flavor"
	FieldJobs   = "jobs"
	FieldStyle  = "style"

	// Script replay and editor state.
	FieldEvent     = "events"
	FieldHandled   = "handled"
	FieldAction    = "action"
	FieldUndoDepth = "undo_depth"
	FieldDirty     = "dirty"
	FieldCursor    = "cursor"

	// Snapshots, backups and pages.
	FieldSnapshot = "snapshot"
	FieldBackup   = "backup"
	FieldBytes    = "bytes"

	// Render runs.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesRendered   = "files_rendered"
	FieldFilesSkipped    = "files_skipped"
	FieldFilesErrored    = "files_errored"

	// Build information.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
	FieldGo      = "go"
)
