package editor_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/sokki/pkg/editor"
	"github.com/yaklabco/sokki/pkg/history"
	"github.com/yaklabco/sokki/pkg/textbuf"
)

func TestEditor_NativeEditsCoalesce(t *testing.T) {
	t.Parallel()

	ed, rec, clock := newEditor("‸")

	out := ed.ApplyEvent(typed("a‸", history.InputInsertText))
	assert.False(t, out.Handled)
	assert.True(t, out.Changed)

	clock.Advance(100 * time.Millisecond)
	ed.ApplyEvent(typed("ab‸", history.InputInsertText))
	require.Equal(t, 1, ed.UndoDepth())

	clock.Advance(time.Second)
	ed.ApplyEvent(typed("ab c‸", history.InputInsertText))
	require.Equal(t, 2, ed.UndoDepth())

	clock.Advance(10 * time.Millisecond)
	ed.ApplyEvent(typed("ab cd e‸", history.InputInsertFromPaste))
	require.Equal(t, 3, ed.UndoDepth())

	assert.Equal(t, []string{"a", "ab", "ab c", "ab cd e"}, rec.renders)

	require.True(t, ed.Undo())
	assert.Equal(t, "ab c‸", render(ed.Snapshot()))
	require.True(t, ed.Undo())
	assert.Equal(t, "ab‸", render(ed.Snapshot()))
	require.True(t, ed.Undo())
	assert.Equal(t, "‸", render(ed.Snapshot()))
	assert.False(t, ed.Undo())
}

func TestEditor_ProgrammaticEditClosesNativeGroup(t *testing.T) {
	t.Parallel()

	ed, _, _ := newEditor("‸")
	ed.ApplyEvent(typed("- a‸", history.InputInsertText))
	ed.ApplyEvent(press(editor.KeyEnter))
	ed.ApplyEvent(typed("- a\n- b‸", history.InputInsertText))

	assert.Equal(t, 3, ed.UndoDepth(), "typing after a list continuation is a new step")
}

func TestEditor_BeforeInputHistory(t *testing.T) {
	t.Parallel()

	t.Run("cancelable undo is intercepted", func(t *testing.T) {
		t.Parallel()

		ed, _, _ := newEditor("a‸")
		ed.ApplyEvent(editor.Event{Kind: editor.Programmatic, Command: editor.Command{Name: editor.CommandInsertText, Text: "b"}})

		out := ed.ApplyEvent(editor.Event{Kind: editor.BeforeInput, InputType: history.InputHistoryUndo, Cancelable: true})
		assert.True(t, out.Handled)
		assert.True(t, out.Changed)
		assert.Equal(t, "a‸", render(out.Buffer))
		assert.True(t, ed.CanRedo())

		out = ed.ApplyEvent(editor.Event{Kind: editor.BeforeInput, InputType: history.InputHistoryRedo, Cancelable: true})
		assert.True(t, out.Handled)
		assert.Equal(t, "ab‸", render(out.Buffer))
	})

	t.Run("non cancelable undo resynchronizes", func(t *testing.T) {
		t.Parallel()

		ed, rec, _ := newEditor("a‸")
		ed.ApplyEvent(editor.Event{Kind: editor.Programmatic, Command: editor.Command{Name: editor.CommandInsertText, Text: "b"}})

		out := ed.ApplyEvent(editor.Event{Kind: editor.BeforeInput, InputType: history.InputHistoryUndo})
		assert.False(t, out.Handled)
		assert.Equal(t, "ab", ed.Text())

		ed.ApplyEvent(typed("a‸", ""))
		assert.Equal(t, "a", ed.Text())
		assert.Equal(t, 1, ed.UndoDepth(), "the native undo is not recorded")
		assert.False(t, ed.Dirty())
		assert.Equal(t, []string{"schedule:ab", "cancel", "clear"}, rec.calls)
	})

	t.Run("other input types are only remembered", func(t *testing.T) {
		t.Parallel()

		ed, _, clock := newEditor("‸")

		out := ed.ApplyEvent(editor.Event{Kind: editor.BeforeInput, InputType: history.InputInsertText, Cancelable: true})
		assert.False(t, out.Handled)
		ed.ApplyEvent(typed("a‸", ""))

		clock.Advance(50 * time.Millisecond)
		ed.ApplyEvent(editor.Event{Kind: editor.BeforeInput, InputType: history.InputInsertText, Cancelable: true})
		ed.ApplyEvent(typed("ab‸", ""))
		assert.Equal(t, 1, ed.UndoDepth())
	})
}

func TestEditor_DirtyTracking(t *testing.T) {
	t.Parallel()

	ed, rec, _ := newEditor("a‸")
	require.False(t, ed.Dirty())

	ed.ApplyEvent(editor.Event{Kind: editor.Programmatic, Command: editor.Command{Name: editor.CommandInsertText, Text: "b"}})
	assert.True(t, ed.Dirty())

	ed.Undo()
	assert.False(t, ed.Dirty())

	ed.Redo()
	ed.MarkClean()
	assert.False(t, ed.Dirty())

	ed.Undo()
	assert.True(t, ed.Dirty(), "the baseline moved with the save")

	assert.Equal(t, []string{"schedule:ab", "cancel", "clear", "schedule:ab", "schedule:a"}, rec.calls)
	assert.Equal(t, []string{"ab", "a", "ab", "a"}, rec.renders)
}

func TestEditor_UnchangedInputStillRenders(t *testing.T) {
	t.Parallel()

	ed, rec, _ := newEditor("a‸")
	out := ed.ApplyEvent(typed("‸a", history.InputInsertText))

	assert.False(t, out.Changed)
	assert.Equal(t, 0, ed.Cursor().Start)
	assert.Equal(t, []string{"a"}, rec.renders)
	assert.Equal(t, []string{"cancel"}, rec.calls)
	assert.Zero(t, ed.UndoDepth())
}

func TestEditor_RestoreDocument(t *testing.T) {
	t.Parallel()

	ed, rec, _ := newEditor("old‸")
	ed.ApplyEvent(typed("old!‸", history.InputInsertText))

	ed.RestoreDocument("recovered")
	assert.True(t, ed.Dirty())
	assert.False(t, ed.CanUndo())
	assert.Equal(t, "recovered", rec.renders[len(rec.renders)-1])

	rec.reset()
	ed.SetSelection(9, 9)
	ed.ApplyEvent(typed("recovered!‸", history.InputInsertText))
	ed.Undo()
	assert.True(t, ed.Dirty(), "an unknown baseline never compares clean")
	assert.Equal(t, []string{"schedule:recovered!", "schedule:recovered"}, rec.calls)

	ed.MarkClean()
	assert.False(t, ed.Dirty())
}

func TestEditor_LoadDocument(t *testing.T) {
	t.Parallel()

	ed, rec, _ := newEditor("x‸")
	ed.ApplyEvent(press(editor.KeyEnter))
	require.True(t, ed.CanUndo())

	ed.LoadDocument("fresh", textbuf.Selection{Start: 2, End: 99})
	assert.Equal(t, "fr‸esh‸", render(ed.Snapshot()))
	assert.False(t, ed.CanUndo())
	assert.False(t, ed.CanRedo())
	assert.False(t, ed.Dirty())
	assert.Equal(t, "fresh", rec.renders[len(rec.renders)-1])

	ed.LoadDocument("other")
	assert.Equal(t, textbuf.Selection{}, ed.Cursor())
}

func TestEditor_SetSelectionRoutesFromNewPosition(t *testing.T) {
	t.Parallel()

	ed, _, _ := newEditor("- a\n- b‸")
	ed.SetSelection(3, 3)
	ed.ApplyEvent(press(editor.KeyEnter))

	assert.Equal(t, "- a\n- ‸\n- b", render(ed.Snapshot()))
}

func TestEditor_ProgrammaticCommands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		command editor.Command
		want    string
		handled bool
		changed bool
	}{
		{
			name:    "insert text replaces the selection",
			input:   "a ‸word‸ b",
			command: editor.Command{Name: editor.CommandInsertText, Text: "x"},
			want:    "a x‸ b",
			handled: true,
			changed: true,
		},
		{
			name:    "toggle task",
			input:   "- [ ] one\n- [x] two‸",
			command: editor.Command{Name: editor.CommandToggleTask, Index: 1},
			want:    "- [ ] one\n- [ ] two‸",
			handled: true,
			changed: true,
		},
		{
			name:    "toggle missing task",
			input:   "- [ ] one‸",
			command: editor.Command{Name: editor.CommandToggleTask, Index: 4},
			want:    "- [ ] one‸",
		},
		{
			name:    "undo with empty history",
			input:   "x‸",
			command: editor.Command{Name: editor.CommandUndo},
			want:    "x‸",
			handled: true,
		},
		{
			name:    "unknown command",
			input:   "x‸",
			command: editor.Command{Name: "explode"},
			want:    "x‸",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			ed, _, _ := newEditor(testCase.input)
			out := ed.ApplyEvent(editor.Event{Kind: editor.Programmatic, Command: testCase.command})

			assert.Equal(t, testCase.handled, out.Handled)
			assert.Equal(t, testCase.changed, out.Changed)
			assert.Equal(t, testCase.want, render(out.Buffer))
		})
	}
}

func TestEventKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "keydown", editor.KeyDown.String())
	assert.Equal(t, "input", editor.InputChange.String())
	assert.Equal(t, "unknown", editor.EventKind(42).String())
}
