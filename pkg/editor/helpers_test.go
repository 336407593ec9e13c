package editor_test

import (
	"strings"
	"time"

	"github.com/yaklabco/sokki/pkg/editor"
	"github.com/yaklabco/sokki/pkg/history"
	"github.com/yaklabco/sokki/pkg/textbuf"
)

// caret marks selection bounds in test fixtures. One caret is a collapsed
// cursor, two carets bound a selection.
const caret = "‸"

func buffer(marked string) textbuf.Buffer {
	start := strings.Index(marked, caret)
	if start < 0 {
		return textbuf.At(marked, len(marked))
	}
	text := marked[:start] + marked[start+len(caret):]
	end := strings.Index(text, caret)
	if end < 0 {
		return textbuf.At(text, start)
	}
	text = text[:end] + text[end+len(caret):]
	return textbuf.New(text, start, end)
}

func render(buf textbuf.Buffer) string {
	if buf.Sel.Collapsed() {
		return buf.Text[:buf.Sel.Start] + caret + buf.Text[buf.Sel.Start:]
	}
	return buf.Text[:buf.Sel.Start] + caret + buf.Text[buf.Sel.Start:buf.Sel.End] + caret + buf.Text[buf.Sel.End:]
}

// recorder captures every hook call in order.
type recorder struct {
	renders []string
	calls   []string
}

func (r *recorder) RequestRender(text string) {
	r.renders = append(r.renders, text)
}

func (r *recorder) ScheduleSave(text string) {
	r.calls = append(r.calls, "schedule:"+text)
}

func (r *recorder) CancelScheduledSave() {
	r.calls = append(r.calls, "cancel")
}

func (r *recorder) ClearSnapshot() {
	r.calls = append(r.calls, "clear")
}

func (r *recorder) reset() {
	r.renders = nil
	r.calls = nil
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// newEditor loads marked into a fresh editor wired to a recorder and a
// manual clock.
func newEditor(marked string) (*editor.Editor, *recorder, *fakeClock) {
	rec := &recorder{}
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	ed := editor.New(
		editor.WithRenderer(rec),
		editor.WithPersister(rec),
		editor.WithHistory(history.WithClock(clock.Now)),
	)

	buf := buffer(marked)
	ed.LoadDocument(buf.Text, buf.Sel)
	rec.reset()
	return ed, rec, clock
}

func press(name string) editor.Event {
	return editor.Event{Kind: editor.KeyDown, Key: editor.Key{Name: name}}
}

func chord(name string, shift bool) editor.Event {
	return editor.Event{Kind: editor.KeyDown, Key: editor.Key{Name: name, Ctrl: true, Shift: shift}}
}

func typed(marked string, inputType history.InputType) editor.Event {
	return editor.Event{Kind: editor.InputChange, Buffer: buffer(marked), InputType: inputType}
}
