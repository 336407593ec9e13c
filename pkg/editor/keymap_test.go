package editor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/sokki/pkg/editor"
)

func TestKeyDown(t *testing.T) {
	t.Parallel()

	table := "| a | b |\n| --- | --- |\n| 1 | 2 |"

	tests := []struct {
		name    string
		input   string
		event   editor.Event
		want    string
		handled bool
		changed bool
	}{
		{
			name:    "enter continues a list",
			input:   "- item1\n- item2‸",
			event:   press(editor.KeyEnter),
			want:    "- item1\n- item2\n- ‸",
			handled: true,
			changed: true,
		},
		{
			name:    "enter on empty nested item moves to parent level",
			input:   "- item\n    - ‸",
			event:   press(editor.KeyEnter),
			want:    "- item\n- ‸",
			handled: true,
			changed: true,
		},
		{
			name:    "enter on ordered item numbers the next one",
			input:   "1. a‸",
			event:   press(editor.KeyEnter),
			want:    "1. a\n2. ‸",
			handled: true,
			changed: true,
		},
		{
			name:    "enter after soft break continues the origin item",
			input:   "- a<br>\n  more‸",
			event:   press(editor.KeyEnter),
			want:    "- a<br>\n  more\n- ‸",
			handled: true,
			changed: true,
		},
		{
			name:    "enter on plain text starts a paragraph",
			input:   "para‸",
			event:   press(editor.KeyEnter),
			want:    "para\n\n‸",
			handled: true,
			changed: true,
		},
		{
			name:    "enter on table row adds a row",
			input:   "| a | b‸ |\n| --- | --- |",
			event:   press(editor.KeyEnter),
			want:    "| a | b |\n|‸   |   |\n| --- | --- |",
			handled: true,
			changed: true,
		},
		{
			name:    "enter on single pipe line falls back to paragraph break",
			input:   "| a‸",
			event:   press(editor.KeyEnter),
			want:    "| a\n\n‸",
			handled: true,
			changed: true,
		},
		{
			name:    "shift enter inserts soft break",
			input:   "- a‸",
			event:   editor.Event{Kind: editor.KeyDown, Key: editor.Key{Name: editor.KeyEnter, Shift: true}},
			want:    "- a<br>\n  ‸",
			handled: true,
			changed: true,
		},
		{
			name:    "space expands heading shortcut",
			input:   "#2‸",
			event:   press(editor.KeySpace),
			want:    "## ‸",
			handled: true,
			changed: true,
		},
		{
			name:  "space without shortcut is native",
			input: "word‸",
			event: press(editor.KeySpace),
			want:  "word‸",
		},
		{
			name:    "tab past the last cell clamps",
			input:   table + "‸",
			event:   press(editor.KeyTab),
			want:    "| a | b |\n| --- | --- |\n| 1 | ‸2 |",
			handled: true,
		},
		{
			name:    "tab indents a list item",
			input:   "- a\n- b‸",
			event:   press(editor.KeyTab),
			want:    "- a\n    - b‸",
			handled: true,
			changed: true,
		},
		{
			name:    "tab expands table shortcut",
			input:   "t1‸",
			event:   press(editor.KeyTab),
			want:    "| ‸Header‸ |\n| --- |\n|   |",
			handled: true,
			changed: true,
		},
		{
			name:  "shift tab never expands shortcuts",
			input: "t1‸",
			event: editor.Event{Kind: editor.KeyDown, Key: editor.Key{Name: editor.KeyTab, Shift: true}},
			want:  "t1‸",
		},
		{
			name:  "tab on plain text is native",
			input: "word‸",
			event: press(editor.KeyTab),
			want:  "word‸",
		},
		{
			name:    "backspace deletes an empty table row",
			input:   "| a |\n|   ‸|\n",
			event:   press(editor.KeyBackspace),
			want:    "| a |\n‸",
			handled: true,
			changed: true,
		},
		{
			name:  "backspace elsewhere is native",
			input: "ab‸",
			event: press(editor.KeyBackspace),
			want:  "ab‸",
		},
		{
			name:    "ctrl b wraps selection in bold",
			input:   "a ‸word‸ b",
			event:   chord("b", false),
			want:    "a ‸**word**‸ b",
			handled: true,
			changed: true,
		},
		{
			name:    "ctrl u underlines at caret",
			input:   "x‸",
			event:   chord("u", false),
			want:    "x<u>‸</u>",
			handled: true,
			changed: true,
		},
		{
			name:    "ctrl shift 7 toggles list type by physical key",
			input:   "- a\n- b‸",
			event:   editor.Event{Kind: editor.KeyDown, Key: editor.Key{Name: "&", Code: "Digit7", Ctrl: true, Shift: true}},
			want:    "1. a\n2. b‸",
			handled: true,
			changed: true,
		},
		{
			name:    "ctrl shift 7 outside a list is still suppressed",
			input:   "x‸",
			event:   editor.Event{Kind: editor.KeyDown, Key: editor.Key{Name: "7", Meta: true, Shift: true}},
			want:    "x‸",
			handled: true,
		},
		{
			name:    "ctrl shift l renumbers the selection",
			input:   "‸1. a\n1. b‸",
			event:   chord("L", true),
			want:    "‸1. a\n2. b‸",
			handled: true,
			changed: true,
		},
		{
			name:    "ctrl period adds a column",
			input:   "| a‸ |",
			event:   chord(".", false),
			want:    "| a | ‸  |",
			handled: true,
			changed: true,
		},
		{
			name:  "ctrl period outside a table is native",
			input: "a‸",
			event: chord(".", false),
			want:  "a‸",
		},
		{
			name:    "ctrl enter inserts a table row",
			input:   "| ‸a | b | c |\nafter",
			event:   chord(editor.KeyEnter, false),
			want:    "| a | b | c |\n|‸   |   |   |\nafter",
			handled: true,
			changed: true,
		},
		{
			name:    "ctrl enter outside a table acts as enter",
			input:   "- a‸",
			event:   chord(editor.KeyEnter, false),
			want:    "- a\n- ‸",
			handled: true,
			changed: true,
		},
		{
			name:  "plain character is native",
			input: "a‸",
			event: press("b"),
			want:  "a‸",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			ed, _, _ := newEditor(testCase.input)
			out := ed.ApplyEvent(testCase.event)

			assert.Equal(t, testCase.handled, out.Handled, "handled")
			assert.Equal(t, testCase.changed, out.Changed, "changed")
			assert.Equal(t, testCase.want, render(out.Buffer))
			assert.Equal(t, out.Buffer, ed.Snapshot())
		})
	}
}

func TestKeyDown_Actions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		key  editor.Key
		want editor.Action
	}{
		{name: "open", key: editor.Key{Name: "o", Ctrl: true}, want: editor.ActionOpen},
		{name: "save", key: editor.Key{Name: "s", Meta: true}, want: editor.ActionSave},
		{name: "save as", key: editor.Key{Name: "S", Ctrl: true, Shift: true}, want: editor.ActionSaveAs},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			ed, _, _ := newEditor("text‸")
			out := ed.ApplyEvent(editor.Event{Kind: editor.KeyDown, Key: testCase.key})

			assert.True(t, out.Handled)
			assert.False(t, out.Changed)
			assert.Equal(t, testCase.want, out.Action)
			assert.Equal(t, "text", ed.Text())
		})
	}
}

func TestKeyDown_UndoRedo(t *testing.T) {
	t.Parallel()

	ed, _, _ := newEditor("- a‸")
	ed.ApplyEvent(press(editor.KeyEnter))
	ed.ApplyEvent(press(editor.KeyEnter))
	assert.Equal(t, "- a\n‸", render(ed.Snapshot()))

	out := ed.ApplyEvent(chord("z", false))
	assert.True(t, out.Handled)
	assert.True(t, out.Changed)
	assert.Equal(t, "- a\n- ‸", render(ed.Snapshot()))

	ed.ApplyEvent(chord("z", false))
	assert.Equal(t, "- a‸", render(ed.Snapshot()))

	out = ed.ApplyEvent(chord("z", false))
	assert.True(t, out.Handled, "ctrl z is suppressed even with nothing to undo")
	assert.False(t, out.Changed)

	ed.ApplyEvent(chord("Z", true))
	assert.Equal(t, "- a\n- ‸", render(ed.Snapshot()))
	ed.ApplyEvent(chord("y", false))
	assert.Equal(t, "- a\n‸", render(ed.Snapshot()))
	assert.False(t, ed.CanRedo())
}
