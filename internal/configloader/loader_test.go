package configloader

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/sokki/pkg/config"
)

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// isolated returns options that only look at dir.
func isolated(dir string) LoadOptions {
	return LoadOptions{
		WorkingDir:         dir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	result, err := Load(context.Background(), isolated(t.TempDir()))
	require.NoError(t, err)
	require.NotNil(t, result.Config)

	assert.Equal(t, config.NewConfig(), result.Config)
	assert.Empty(t, result.LoadedFrom)
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	configPath := filepath.Join(root, ".sokki.yml")
	writeConfig(t, configPath, `
flavor: commonmark
history:
  coalesce_window: 1s
autosave:
  enabled: false
`)

	workDir := filepath.Join(root, "docs", "guide")
	require.NoError(t, os.MkdirAll(workDir, 0o755))

	result, err := Load(context.Background(), isolated(workDir))
	require.NoError(t, err)

	cfg := result.Config
	assert.Equal(t, config.FlavorCommonMark, cfg.Flavor)
	assert.Equal(t, time.Second, cfg.History.CoalesceWindow)
	assert.Equal(t, config.DefaultHistoryLimit, cfg.History.Limit)
	assert.False(t, config.IsSet(cfg.Autosave.Enabled))
	assert.True(t, config.IsSet(cfg.Preview.Highlight))
	assert.Equal(t, []string{configPath}, result.LoadedFrom)
}

func TestLoad_ProjectSearchStopsAtVCSRoot(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeConfig(t, filepath.Join(root, ".sokki.yml"), "flavor: commonmark\n")
	repo := filepath.Join(root, "repo")
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0o755))

	result, err := Load(context.Background(), isolated(repo))
	require.NoError(t, err)
	assert.Equal(t, config.FlavorGFM, result.Config.Flavor)
	assert.Empty(t, result.Paths.Project)
}

func TestLoad_ExplicitConfigOverridesProject(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	writeConfig(t, filepath.Join(dir, ".sokki.yml"), "flavor: commonmark\npreview:\n  style: monokai\n")
	customPath := filepath.Join(dir, "custom.yml")
	writeConfig(t, customPath, "preview:\n  style: dracula\n")

	opts := isolated(dir)
	opts.ExplicitPath = customPath
	result, err := Load(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, config.FlavorCommonMark, result.Config.Flavor)
	assert.Equal(t, "dracula", result.Config.Preview.Style)
	assert.Equal(t, customPath, result.Paths.Explicit)
	assert.Len(t, result.LoadedFrom, 2)
}

func TestLoad_CLIOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	writeConfig(t, filepath.Join(dir, ".sokki.yml"), "autosave:\n  enabled: true\n")

	opts := isolated(dir)
	opts.CLIConfig = &config.Config{
		Jobs:     3,
		Autosave: config.AutosaveConfig{Enabled: config.Bool(false)},
	}
	result, err := Load(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Config.Jobs)
	assert.False(t, config.IsSet(result.Config.Autosave.Enabled))
}

func TestLoad_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "malformed yaml", content: "flavor: [", want: "parse YAML"},
		{name: "unknown flavor", content: "flavor: rst\n", want: "invalid flavor"},
		{name: "negative duration", content: "watch:\n  delay: -1s\n", want: "watch.delay"},
		{name: "bad backup mode", content: "backups:\n  mode: xdg\n", want: "invalid backup mode"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
			writeConfig(t, filepath.Join(dir, ".sokki.yml"), testCase.content)

			_, err := Load(context.Background(), isolated(dir))
			require.Error(t, err)
			assert.Contains(t, err.Error(), testCase.want)
		})
	}
}

func TestLoad_Warnings(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	writeConfig(t, filepath.Join(dir, ".sokki.yml"), "preview:\n  style: no-such-style\n")

	result, err := Load(context.Background(), isolated(dir))
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "no-such-style")
}

func TestLoad_UnknownSettings(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	configPath := filepath.Join(dir, ".sokki.yml")
	writeConfig(t, configPath, "histroy:\n  limit: 5\nwatch:\n  delay: 1s\n  dealy: 2s\nignore: [\"*.tmp\"]\n")

	result, err := Load(context.Background(), isolated(dir))
	require.NoError(t, err)
	require.Len(t, result.Warnings, 2)
	assert.Contains(t, result.Warnings[0], configPath)
	assert.Contains(t, result.Warnings[0], `"histroy"`)
	assert.Contains(t, result.Warnings[1], `"watch.dealy"`)
	assert.Equal(t, time.Second, result.Config.Watch.Delay)
}

func TestLoad_EmptyConfigFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	configPath := filepath.Join(dir, ".sokki.yml")
	writeConfig(t, configPath, "# nothing yet\n")

	result, err := Load(context.Background(), isolated(dir))
	require.NoError(t, err)
	assert.Equal(t, []string{configPath}, result.LoadedFrom)
	assert.Equal(t, config.NewConfig().Flavor, result.Config.Flavor)
}

func TestLoad_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, isolated(t.TempDir()))
	require.ErrorIs(t, err, context.Canceled)
}

func TestLoad_UserConfig(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	writeConfig(t, filepath.Join(configHome, "sokki", "config.yaml"), "log_level: debug\n")

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))

	result, err := Load(context.Background(), LoadOptions{
		WorkingDir:         dir,
		IgnoreSystemConfig: true,
		IgnoreEnv:          true,
	})
	require.NoError(t, err)
	assert.Equal(t, "debug", result.Config.LogLevel)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SOKKI_FLAVOR", "commonmark")
	t.Setenv("SOKKI_HISTORY_LIMIT", "25")
	t.Setenv("SOKKI_HISTORY_COALESCE_WINDOW", "250ms")
	t.Setenv("SOKKI_AUTOSAVE_ENABLED", "false")
	t.Setenv("SOKKI_PREVIEW_STYLE", "monokai")
	t.Setenv("SOKKI_IGNORE", "vendor/**, drafts/**")

	cfg := config.NewConfig()
	require.NoError(t, LoadFromEnv(cfg))

	assert.Equal(t, config.FlavorCommonMark, cfg.Flavor)
	assert.Equal(t, 25, cfg.History.Limit)
	assert.Equal(t, 250*time.Millisecond, cfg.History.CoalesceWindow)
	assert.False(t, config.IsSet(cfg.Autosave.Enabled))
	assert.Equal(t, "monokai", cfg.Preview.Style)
	assert.Equal(t, []string{"vendor/**", "drafts/**"}, cfg.Ignore)
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "bool", key: "SOKKI_AUTOSAVE_ENABLED", value: "maybe"},
		{name: "int", key: "SOKKI_HISTORY_LIMIT", value: "lots"},
		{name: "duration", key: "SOKKI_WATCH_DELAY", value: "soon"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Setenv(testCase.key, testCase.value)

			err := LoadFromEnv(config.NewConfig())
			require.Error(t, err)
			assert.Contains(t, err.Error(), testCase.key)
		})
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()

	base := config.NewConfig()
	override := &config.Config{
		History:  config.HistoryConfig{Limit: 10},
		Preview:  config.PreviewConfig{Highlight: config.Bool(false), Classes: true},
		Backups:  config.BackupsConfig{Enabled: config.Bool(true)},
		Ignore:   []string{"x/**"},
		LogLevel: "info",
	}

	merged := MergeAll(base, override)
	assert.Equal(t, 10, merged.History.Limit)
	assert.Equal(t, config.DefaultCoalesceWindow, merged.History.CoalesceWindow)
	assert.False(t, config.IsSet(merged.Preview.Highlight))
	assert.True(t, merged.Preview.Classes)
	assert.True(t, config.IsSet(merged.Backups.Enabled))
	assert.Equal(t, config.BackupModeSidecar, merged.Backups.Mode)
	assert.Equal(t, []string{"x/**"}, merged.Ignore)
	assert.Equal(t, "info", merged.LogLevel)

	// The base is not modified through shared flags.
	*merged.Autosave.Enabled = false
	assert.True(t, config.IsSet(base.Autosave.Enabled))
}

func TestListEnvVars(t *testing.T) {
	t.Parallel()

	vars := ListEnvVars()
	assert.Contains(t, vars, "SOKKI_FLAVOR")
	assert.Contains(t, vars, "SOKKI_WATCH_DELAY")
	assert.Equal(t, "SOKKI_PREVIEW_STYLE", GetEnvVarName("preview.style"))
	assert.Empty(t, GetEnvVarName("nope"))
}

func TestValidate_IgnorePatterns(t *testing.T) {
	t.Parallel()

	result := Validate(&config.Config{Ignore: []string{"docs/**", "[unclosed"}})
	require.False(t, result.Valid())
	assert.Equal(t, "ignore[1]", result.Errors[0].Field)
}
