// Package config defines core configuration types for sokki.
// These types are pure data structures with no dependency on the loader.
package config

import "time"

// Flavor specifies the Markdown flavor used by the preview.
type Flavor string

const (
	FlavorCommonMark Flavor = "commonmark"
	FlavorGFM        Flavor = "gfm"
)

// Backup modes.
const (
	BackupModeSidecar = "sidecar"
	BackupModeNone    = "none"
)

// Defaults.
const (
	DefaultHistoryLimit    = 200
	DefaultCoalesceWindow  = 600 * time.Millisecond
	DefaultAutosaveDelay   = 500 * time.Millisecond
	DefaultWatchDelay      = 500 * time.Millisecond
	DefaultPreviewStyle    = "github"
	DefaultLogLevel        = "warn"
	DefaultBackupMode      = BackupModeSidecar
	DefaultTemplateComment = "# sokki configuration"
)

// HistoryConfig controls the undo history.
type HistoryConfig struct {
	// Limit is the maximum number of undo steps kept.
	Limit int `yaml:"limit"`

	// CoalesceWindow is the longest pause between typed characters that
	// still merges them into one undo step.
	CoalesceWindow time.Duration `yaml:"coalesce_window"`
}

// AutosaveConfig controls the crash-recovery snapshot.
type AutosaveConfig struct {
	Enabled *bool `yaml:"enabled"`

	// Debounce is how long the document must stay unchanged before the
	// snapshot is written.
	Debounce time.Duration `yaml:"debounce"`

	// Dir overrides the snapshot directory. Empty uses the XDG data home.
	Dir string `yaml:"dir"`
}

// PreviewConfig controls HTML rendering.
type PreviewConfig struct {
	Highlight *bool `yaml:"highlight"`

	// Style is the chroma style used for code blocks.
	Style string `yaml:"style"`

	// DetectLanguage guesses the language of fenced code without an info
	// string.
	DetectLanguage *bool `yaml:"detect_language"`

	// Classes emits CSS classes and a style sheet instead of inline styles.
	Classes bool `yaml:"classes"`
}

// WatchConfig controls reloading on external changes.
type WatchConfig struct {
	// Delay is the quiet period after a change before the file is reread.
	Delay time.Duration `yaml:"delay"`
}

// BackupsConfig controls backup behavior when edit --write overwrites a file.
type BackupsConfig struct {
	Enabled *bool  `yaml:"enabled"`
	Mode    string `yaml:"mode"` // "sidecar" or "none"
}

// Config is the root configuration structure for sokki.
type Config struct {
	// Flavor specifies the Markdown flavor ("commonmark" or "gfm").
	Flavor Flavor `yaml:"flavor"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	History  HistoryConfig  `yaml:"history"`
	Autosave AutosaveConfig `yaml:"autosave"`
	Preview  PreviewConfig  `yaml:"preview"`
	Watch    WatchConfig    `yaml:"watch"`
	Backups  BackupsConfig  `yaml:"backups"`

	// Ignore contains glob patterns for files skipped by render.
	Ignore []string `yaml:"ignore"`

	// CLI-level options (not persisted to config files).

	// Jobs specifies the number of parallel render workers.
	Jobs int `yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Flavor:   FlavorGFM,
		LogLevel: DefaultLogLevel,
		History: HistoryConfig{
			Limit:          DefaultHistoryLimit,
			CoalesceWindow: DefaultCoalesceWindow,
		},
		Autosave: AutosaveConfig{
			Enabled:  Bool(true),
			Debounce: DefaultAutosaveDelay,
		},
		Preview: PreviewConfig{
			Highlight:      Bool(true),
			Style:          DefaultPreviewStyle,
			DetectLanguage: Bool(true),
		},
		Watch: WatchConfig{
			Delay: DefaultWatchDelay,
		},
		Backups: BackupsConfig{
			Enabled: Bool(false),
			Mode:    DefaultBackupMode,
		},
		Jobs: 0, // 0 means use GOMAXPROCS
	}
}

// Bool returns a pointer to b.
func Bool(b bool) *bool {
	return &b
}

// IsSet reports whether an optional flag is set to true.
func IsSet(b *bool) bool {
	return b != nil && *b
}
