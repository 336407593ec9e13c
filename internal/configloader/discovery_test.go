package configloader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLayout_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	t.Setenv("XDG_DATA_HOME", "/xdg/data")

	layout := DefaultLayout()
	assert.Equal(t, filepath.Join("/xdg/config", "sokki"), layout.ConfigDir)
	assert.Equal(t, filepath.Join("/xdg/data", "sokki"), layout.DataDir)

	dir, err := layout.AutosaveDir("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/xdg/data", "sokki", "autosave"), dir)
}

func TestDefaultLayout_HomeFallback(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_DATA_HOME", "")

	layout := DefaultLayout()
	if layout.home != home {
		t.Skip("home directory is not taken from HOME on this platform")
	}
	assert.Equal(t, filepath.Join(home, ".config", "sokki"), layout.ConfigDir)
	assert.Equal(t, filepath.Join(home, ".local", "share", "sokki"), layout.DataDir)
}

func TestLayout_AutosaveDir(t *testing.T) {
	t.Parallel()

	layout := Layout{DataDir: "/data/sokki", home: "/home/ada"}

	tests := []struct {
		name       string
		layout     Layout
		configured string
		want       string
		wantErr    bool
	}{
		{name: "default under data dir", layout: layout, want: "/data/sokki/autosave"},
		{name: "explicit dir kept", layout: layout, configured: "/var/snap", want: "/var/snap"},
		{name: "home expanded", layout: layout, configured: "~/notes/.autosave", want: "/home/ada/notes/.autosave"},
		{name: "bare tilde", layout: layout, configured: "~", want: "/home/ada"},
		{name: "tilde user form kept", layout: layout, configured: "~bob/x", want: "~bob/x"},
		{name: "no data dir", layout: Layout{}, wantErr: true},
		{name: "no home to expand", layout: Layout{DataDir: "/data"}, configured: "~/x", wantErr: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, err := testCase.layout.AutosaveDir(testCase.configured)
			if testCase.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, filepath.FromSlash(testCase.want), got)
		})
	}
}

func TestLayout_AutosaveDirNoDataDir(t *testing.T) {
	t.Parallel()

	_, err := Layout{}.AutosaveDir("")
	require.ErrorIs(t, err, ErrNoDataDir)
}

func TestLayout_Discover(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	system := filepath.Join(root, "etc")
	user := filepath.Join(root, "config")
	writeConfig(t, filepath.Join(system, "config.yml"), "flavor: gfm\n")
	writeConfig(t, filepath.Join(user, "config.yaml"), "flavor: gfm\n")
	writeConfig(t, filepath.Join(user, "config.yml"), "flavor: gfm\n")

	project := filepath.Join(root, "project")
	require.NoError(t, os.MkdirAll(filepath.Join(project, ".git"), 0o755))
	writeConfig(t, filepath.Join(project, "sokki.yaml"), "flavor: gfm\n")
	writeConfig(t, filepath.Join(project, ".sokki.yml"), "flavor: gfm\n")

	layout := Layout{SystemDir: system, ConfigDir: user}
	paths, err := layout.discover(context.Background(), filepath.Join(project))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(system, "config.yml"), paths.System)
	assert.Equal(t, filepath.Join(user, "config.yaml"), paths.User)
	assert.Equal(t, filepath.Join(project, ".sokki.yml"), paths.Project)
	assert.Empty(t, paths.Explicit)
}

func TestLayout_FindProjectConfigStopsAtHome(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeConfig(t, filepath.Join(root, ".sokki.yml"), "flavor: gfm\n")
	home := filepath.Join(root, "home")
	workDir := filepath.Join(home, "docs")
	require.NoError(t, os.MkdirAll(workDir, 0o755))

	found, err := Layout{home: home}.findProjectConfig(context.Background(), workDir)
	require.NoError(t, err)
	assert.Empty(t, found)

	found, err = Layout{}.findProjectConfig(context.Background(), workDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, ".sokki.yml"), found)
}

func TestLayout_FindProjectConfigSkipsDirectories(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".sokki.yml"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	writeConfig(t, filepath.Join(dir, "sokki.yml"), "flavor: gfm\n")

	found, err := Layout{}.findProjectConfig(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "sokki.yml"), found)
}

func TestDiscoverPaths_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := DiscoverPaths(ctx, t.TempDir())
	require.ErrorIs(t, err, context.Canceled)
}
