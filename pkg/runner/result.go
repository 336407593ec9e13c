package runner

// FileOutcome is the result of rendering one file.
type FileOutcome struct {
	// Path is the source file.
	Path string

	// Output is the page written, or that would have been written in a
	// dry run.
	Output string

	// Bytes is the size of the rendered page.
	Bytes int

	// Skipped is set when the page was newer than its source.
	Skipped bool

	// Error is set if the file could not be rendered.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesDiscovered is the total number of files found during discovery.
	FilesDiscovered int

	// FilesRendered is the number of pages rendered.
	FilesRendered int

	// FilesSkipped is the number of pages that were already up to date.
	FilesSkipped int

	// FilesErrored is the number of files that encountered errors.
	FilesErrored int

	// BytesWritten is the total size of the rendered pages.
	BytesWritten int
}

// Result is the overall runner result.
type Result struct {
	// Files contains the outcome for each processed file.
	// Files are ordered deterministically (by path).
	Files []FileOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats
}

// HasFailures reports whether any file failed to render.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesErrored > 0
}

// accumulate updates the result with a file outcome.
func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	switch {
	case outcome.Error != nil:
		r.Stats.FilesErrored++
	case outcome.Skipped:
		r.Stats.FilesSkipped++
	default:
		r.Stats.FilesRendered++
		r.Stats.BytesWritten += outcome.Bytes
	}
}
