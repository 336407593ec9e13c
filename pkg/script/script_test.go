package script_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/sokki/pkg/editor"
	"github.com/yaklabco/sokki/pkg/script"
)

func TestParse(t *testing.T) {
	t.Parallel()

	data := []byte(`
select: [3]
pace: 50ms
steps:
  - type: "hello"
  - key: b
    mod: true
    repeat: 2
  - pause: 1s
  - paste: "pasted"
  - select: [0, 4]
  - command: toggle-task
    index: 1
  - command: insert-text
    text: "x"
`)

	got, err := script.Parse(data)
	require.NoError(t, err)

	assert.Equal(t, []int{3}, got.Select)
	assert.Equal(t, 50*time.Millisecond, got.Pace)
	require.Len(t, got.Steps, 7)
	assert.Equal(t, "hello", got.Steps[0].Type)
	assert.Equal(t, script.Step{Key: "b", Mod: true, Repeat: 2}, got.Steps[1])
	assert.Equal(t, time.Second, got.Steps[2].Pause)
	assert.Equal(t, "pasted", got.Steps[3].Paste)
	assert.Equal(t, []int{0, 4}, got.Steps[4].Select)
	assert.Equal(t, editor.CommandToggleTask, got.Steps[5].Command)
	assert.Equal(t, 1, got.Steps[5].Index)
	assert.Equal(t, "x", got.Steps[6].Text)
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{name: "malformed yaml", data: "steps: [", wantErr: "parse script"},
		{name: "empty step", data: "steps:\n  - {}\n", wantErr: "step 1: invalid step: no action"},
		{name: "two actions", data: "steps:\n  - key: a\n    type: b\n", wantErr: "more than one action"},
		{name: "unknown command", data: "steps:\n  - command: explode\n", wantErr: `unknown command "explode"`},
		{name: "negative offset", data: "steps:\n  - select: [-1]\n", wantErr: "negative offset"},
		{name: "three offsets", data: "select: [1, 2, 3]\n", wantErr: "one or two offsets"},
		{name: "negative repeat", data: "steps:\n  - key: a\n    repeat: -1\n", wantErr: "negative repeat"},
		{name: "bad duration", data: "steps:\n  - pause: soon\n", wantErr: "parse script"},
		{name: "reports later step", data: "steps:\n  - key: a\n  - {}\n", wantErr: "step 2"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			_, err := script.Parse([]byte(testCase.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), testCase.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "edit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("steps:\n  - type: a\n"), 0o600))

	got, err := script.Load(path)
	require.NoError(t, err)
	require.Len(t, got.Steps, 1)

	_, err = script.Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("steps:\n  - {}\n"), 0o600))
	_, err = script.Load(path)
	require.ErrorIs(t, err, script.ErrInvalidStep)
	assert.Contains(t, err.Error(), path)
}
