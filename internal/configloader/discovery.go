package configloader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// appName names the per-user and system directories.
const appName = "sokki"

// ErrNoDataDir is returned when neither XDG_DATA_HOME nor a home directory
// is available to hold the autosave snapshot.
var ErrNoDataDir = errors.New("no data directory available")

// Layout is where sokki keeps files outside a project.
type Layout struct {
	// SystemDir holds the machine-wide config, /etc/sokki or
	// %ProgramData%\sokki.
	SystemDir string

	// ConfigDir holds the user config, $XDG_CONFIG_HOME/sokki.
	ConfigDir string

	// DataDir holds per-user state, $XDG_DATA_HOME/sokki. The autosave
	// snapshot lives in its autosave subdirectory.
	DataDir string

	home string
}

// DefaultLayout resolves the layout from the environment. XDG variables win;
// otherwise the directories fall back to ~/.config and ~/.local/share.
// Directories that cannot be resolved are left empty.
func DefaultLayout() Layout {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}

	layout := Layout{
		SystemDir: filepath.Join("/etc", appName),
		ConfigDir: xdgDir("XDG_CONFIG_HOME", home, ".config"),
		DataDir:   xdgDir("XDG_DATA_HOME", home, ".local", "share"),
		home:      home,
	}
	if runtime.GOOS == "windows" {
		programData := os.Getenv("ProgramData")
		if programData == "" {
			programData = `C:\ProgramData`
		}
		layout.SystemDir = filepath.Join(programData, appName)
	}
	return layout
}

func xdgDir(env, home string, fallback ...string) string {
	if dir := os.Getenv(env); dir != "" {
		return filepath.Join(dir, appName)
	}
	if home == "" {
		return ""
	}
	return filepath.Join(append(append([]string{home}, fallback...), appName)...)
}

// AutosaveDir resolves the snapshot directory. A configured directory may
// start with "~/"; an empty one selects the autosave directory under
// DataDir.
func (l Layout) AutosaveDir(configured string) (string, error) {
	if configured == "" {
		if l.DataDir == "" {
			return "", fmt.Errorf("locate autosave directory: %w", ErrNoDataDir)
		}
		return filepath.Join(l.DataDir, "autosave"), nil
	}

	if configured != "~" && !strings.HasPrefix(configured, "~/") {
		return configured, nil
	}
	if l.home == "" {
		return "", fmt.Errorf("expand %q: no home directory", configured)
	}
	return filepath.Join(l.home, strings.TrimPrefix(configured, "~")), nil
}

// ConfigPaths are the config files found for one working directory. Empty
// fields mean no file was found at that level.
type ConfigPaths struct {
	System   string
	User     string
	Project  string
	Explicit string
}

// projectConfigFiles are the names looked for in each directory, in order
// of preference.
//
//nolint:gochecknoglobals // Read-only lookup table.
var projectConfigFiles = []string{".sokki.yml", ".sokki.yaml", "sokki.yml", "sokki.yaml"}

// userConfigFiles are the names looked for in SystemDir and ConfigDir.
//
//nolint:gochecknoglobals // Read-only lookup table.
var userConfigFiles = []string{"config.yaml", "config.yml"}

// DiscoverPaths finds the system, user and project config files for workDir.
func DiscoverPaths(ctx context.Context, workDir string) (*ConfigPaths, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("discover config: %w", err)
	}
	return DefaultLayout().discover(ctx, workDir)
}

func (l Layout) discover(ctx context.Context, workDir string) (*ConfigPaths, error) {
	project, err := l.findProjectConfig(ctx, workDir)
	if err != nil {
		return nil, err
	}
	return &ConfigPaths{
		System:  firstFile(l.SystemDir, userConfigFiles),
		User:    firstFile(l.ConfigDir, userConfigFiles),
		Project: project,
	}, nil
}

// FindProjectConfig searches startDir and its parents for a project config
// file. The search ends at a VCS root, at the home directory or at the
// filesystem root; finding nothing is not an error.
func FindProjectConfig(ctx context.Context, startDir string) (string, error) {
	return DefaultLayout().findProjectConfig(ctx, startDir)
}

func (l Layout) findProjectConfig(ctx context.Context, startDir string) (string, error) {
	if startDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		startDir = wd
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("find project config: %w", err)
		}
		if found := firstFile(dir, projectConfigFiles); found != "" {
			return found, nil
		}
		if isVCSRoot(dir) || dir == l.home {
			return "", nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// firstFile returns the first of names that is a regular file in dir.
func firstFile(dir string, names []string) string {
	if dir == "" {
		return ""
	}
	for _, name := range names {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path
		}
	}
	return ""
}

func isVCSRoot(dir string) bool {
	for _, marker := range []string{".git", ".hg", ".svn"} {
		if info, err := os.Stat(filepath.Join(dir, marker)); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}
