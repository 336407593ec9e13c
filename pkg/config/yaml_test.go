package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/sokki/pkg/config"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	assert.Equal(t, config.FlavorGFM, cfg.Flavor)
	assert.Equal(t, 200, cfg.History.Limit)
	assert.Equal(t, 600*time.Millisecond, cfg.History.CoalesceWindow)
	assert.True(t, config.IsSet(cfg.Autosave.Enabled))
	assert.Equal(t, 500*time.Millisecond, cfg.Autosave.Debounce)
	assert.True(t, config.IsSet(cfg.Preview.Highlight))
	assert.Equal(t, "github", cfg.Preview.Style)
	assert.Equal(t, 500*time.Millisecond, cfg.Watch.Delay)
	assert.False(t, config.IsSet(cfg.Backups.Enabled))
	assert.Equal(t, config.BackupModeSidecar, cfg.Backups.Mode)
}

func TestConfigClone(t *testing.T) {
	t.Parallel()

	t.Run("nil config returns nil", func(t *testing.T) {
		t.Parallel()

		var c *config.Config
		assert.Nil(t, c.Clone())
	})

	t.Run("empty config", func(t *testing.T) {
		t.Parallel()

		c := &config.Config{}
		clone := c.Clone()
		require.NotNil(t, clone)
		assert.NotSame(t, c, clone)
	})

	t.Run("deep copies optional flags", func(t *testing.T) {
		t.Parallel()

		original := config.NewConfig()
		clone := original.Clone()
		require.NotNil(t, clone)

		assert.NotSame(t, original.Autosave.Enabled, clone.Autosave.Enabled)
		*clone.Autosave.Enabled = false
		assert.True(t, *original.Autosave.Enabled)
	})

	t.Run("deep copies Ignore slice", func(t *testing.T) {
		t.Parallel()

		original := &config.Config{Ignore: []string{"*.md", "vendor/**"}}
		clone := original.Clone()
		require.Equal(t, original.Ignore, clone.Ignore)

		clone.Ignore[0] = "changed"
		assert.Equal(t, "*.md", original.Ignore[0])
	})

	t.Run("copies CLI-only fields", func(t *testing.T) {
		t.Parallel()

		original := &config.Config{Jobs: 4}
		assert.Equal(t, 4, original.Clone().Jobs)
	})

	t.Run("copies durations", func(t *testing.T) {
		t.Parallel()

		original := config.NewConfig()
		clone := original.Clone()
		assert.Equal(t, original.History, clone.History)
		assert.Equal(t, original.Watch, clone.Watch)
	})
}

func TestFromYAML(t *testing.T) {
	t.Parallel()

	cfg, err := config.FromYAML([]byte(`
flavor: commonmark
history:
  limit: 50
  coalesce_window: 1s
autosave:
  enabled: false
preview:
  style: monokai
ignore:
  - "drafts/**"
`))
	require.NoError(t, err)

	assert.Equal(t, config.FlavorCommonMark, cfg.Flavor)
	assert.Equal(t, 50, cfg.History.Limit)
	assert.Equal(t, time.Second, cfg.History.CoalesceWindow)
	require.NotNil(t, cfg.Autosave.Enabled)
	assert.False(t, *cfg.Autosave.Enabled)
	assert.Nil(t, cfg.Preview.Highlight)
	assert.Equal(t, "monokai", cfg.Preview.Style)
	assert.Equal(t, []string{"drafts/**"}, cfg.Ignore)
}

func TestFromYAML_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{name: "malformed yaml", data: "flavor: [unclosed"},
		{name: "bad duration", data: "watch:\n  delay: soon"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			_, err := config.FromYAML([]byte(testCase.data))
			require.Error(t, err)
		})
	}
}

func TestToYAMLWithHeader(t *testing.T) {
	t.Parallel()

	out, err := config.NewConfig().ToYAMLWithHeader("# header")
	require.NoError(t, err)
	assert.Contains(t, string(out), "# header\n\nflavor: gfm\n")
	assert.Contains(t, string(out), "coalesce_window: 600ms")
	assert.NotContains(t, string(out), "jobs")
}

func TestGenerateTemplate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts config.TemplateOptions
	}{
		{name: "minimal", opts: config.TemplateOptions{}},
		{name: "full", opts: config.TemplateOptions{Full: true}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			out, err := config.GenerateTemplate(testCase.opts)
			require.NoError(t, err)

			cfg, err := config.FromYAML(out)
			require.NoError(t, err)
			assert.Equal(t, config.FlavorGFM, cfg.Flavor)
		})
	}
}
