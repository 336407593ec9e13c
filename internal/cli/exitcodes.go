package cli

import (
	"context"
	"errors"

	"github.com/yaklabco/sokki/pkg/fsutil"
	"github.com/yaklabco/sokki/pkg/runner"
)

// Exit codes for sokki.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitRenderErrors indicates a render run completed but some files failed.
	ExitRenderErrors = 1

	// ExitInvalidUsage indicates invalid command-line usage or an invalid script.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74

	// ExitInterrupted indicates the command was cancelled by a signal.
	ExitInterrupted = 130
)

// Sentinel errors that select an exit code.
var (
	// ErrRenderFailed is returned when at least one file failed to render.
	ErrRenderFailed = errors.New("some files failed to render")

	// ErrUsage marks invalid arguments, flags or scripts.
	ErrUsage = errors.New("invalid usage")

	// ErrConfig marks configuration that could not be loaded or validated.
	ErrConfig = errors.New("invalid configuration")
)

// ExitCodeFromResult determines the exit code of a render run.
func ExitCodeFromResult(result *runner.Result) int {
	if result.HasFailures() {
		return ExitRenderErrors
	}
	return ExitSuccess
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrRenderFailed):
		return ExitRenderErrors
	case errors.Is(err, ErrUsage):
		return ExitInvalidUsage
	case errors.Is(err, ErrConfig):
		return ExitConfigError
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	case errors.Is(err, fsutil.ErrNotFound),
		errors.Is(err, fsutil.ErrPermissionDenied),
		errors.Is(err, fsutil.ErrIsDirectory),
		errors.Is(err, fsutil.ErrModifiedConcurrently):
		return ExitIOError
	default:
		return ExitInternalError
	}
}
