// Package logging builds the charmbracelet/log loggers used by the sokki
// commands. Library packages under pkg/ never log; they report through
// callbacks and returned errors, and the commands log what they receive.
package logging

import (
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

//nolint:gochecknoglobals // Process-wide fallback for code without a command context.
var defaultLogger atomic.Pointer[log.Logger]

// ParseLevel maps a configured level name to a log level. Names are case
// insensitive and "warning" is accepted for warn. Unknown names select info.
func ParseLevel(name string) log.Level {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "warning" {
		return log.WarnLevel
	}
	level, err := log.ParseLevel(name)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// New creates a logger writing to stderr at level.
func New(level string) *log.Logger {
	return NewWithWriter(os.Stderr, level)
}

// NewWithWriter creates a plain logger writing to w at level.
func NewWithWriter(w io.Writer, level string) *log.Logger {
	return log.NewWithOptions(w, log.Options{Level: ParseLevel(level)})
}

// NewInteractive creates a logger for long-running commands such as watch.
// Each line carries the time and a "sokki" prefix.
func NewInteractive(w io.Writer, level string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           ParseLevel(level),
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "sokki",
	})
}

// Default returns the process-wide logger, creating an info logger on
// stderr the first time.
func Default() *log.Logger {
	if logger := defaultLogger.Load(); logger != nil {
		return logger
	}
	defaultLogger.CompareAndSwap(nil, New("info"))
	return defaultLogger.Load()
}

// SetDefault replaces the process-wide logger.
func SetDefault(logger *log.Logger) {
	defaultLogger.Store(logger)
}

// SetLevel changes the level of the process-wide logger.
func SetLevel(level string) {
	Default().SetLevel(ParseLevel(level))
}
