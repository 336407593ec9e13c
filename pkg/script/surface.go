package script

import (
	"time"
	"unicode/utf8"

	"github.com/yaklabco/sokki/pkg/editor"
	"github.com/yaklabco/sokki/pkg/history"
	"github.com/yaklabco/sokki/pkg/textbuf"
)

// DefaultPace is the simulated time between key presses. It is shorter than
// the default coalesce window, so typed words undo as one step.
const DefaultPace = 100 * time.Millisecond

// Native key names the surface handles itself when the editor does not.
const (
	KeyDelete     = "Delete"
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
	KeyHome       = "Home"
	KeyEnd        = "End"
)

// inputInsertLineBreak is the native input type of an unhandled Enter.
const inputInsertLineBreak history.InputType = "insertLineBreak"

// Clock is a manual clock for deterministic undo grouping.
type Clock struct {
	now time.Time
}

// NewClock returns a clock starting at a fixed instant.
func NewClock() *Clock {
	return &Clock{now: time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)}
}

// Now returns the current simulated time.
func (c *Clock) Now() time.Time {
	return c.now
}

// Advance moves the clock forward.
func (c *Clock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// Result summarizes a replay.
type Result struct {
	// Events counts the events delivered to the editor.
	Events int
	// Handled counts the events the editor handled itself.
	Handled int
	// Actions lists the open and save requests raised, in order.
	Actions []editor.Action
}

// Target receives the events of a surface. Both *editor.Editor and
// *session.Session implement it.
type Target interface {
	ApplyEvent(event editor.Event) editor.Outcome
	SetSelection(start, end int)
}

// Surface simulates the native text area in front of an editor.
type Surface struct {
	target Target
	clock  *Clock
	pace   time.Duration
	buf    textbuf.Buffer
	result Result
}

// NewSurface attaches a surface showing initial to target. The target's
// history should read time from clock so undo grouping follows the
// simulated pace.
func NewSurface(target Target, initial textbuf.Buffer, clock *Clock) *Surface {
	return &Surface{
		target: target,
		clock:  clock,
		pace:   DefaultPace,
		buf:    initial,
	}
}

// Buffer returns the current surface state.
func (s *Surface) Buffer() textbuf.Buffer {
	return s.buf
}

// Replay runs every step of script. The initial selection is applied first.
func (s *Surface) Replay(script *Script) Result {
	if script.Pace > 0 {
		s.pace = script.Pace
	}
	if script.Select != nil {
		s.Select(selection(script.Select))
	}
	for _, step := range script.Steps {
		s.Step(step)
	}
	return s.result
}

// Step runs a single step.
func (s *Surface) Step(step Step) {
	switch {
	case step.Select != nil:
		s.Select(selection(step.Select))
	case step.Key != "":
		key := editor.Key{
			Name:  step.Key,
			Code:  step.Code,
			Ctrl:  step.Mod,
			Shift: step.Shift,
			Alt:   step.Alt,
		}
		for range max(step.Repeat, 1) {
			s.Press(key)
		}
	case step.Type != "":
		s.Type(step.Type)
	case step.Paste != "":
		s.Paste(step.Paste)
	case step.Pause != 0:
		s.clock.Advance(step.Pause)
	case step.Command != "":
		s.Command(editor.Command{Name: step.Command, Text: step.Text, Index: step.Index})
	}
}

// Select moves the selection as a mouse or arrow keys would.
func (s *Surface) Select(start, end int) {
	s.target.SetSelection(start, end)
	s.buf = s.buf.WithSelection(start, end)
}

// Type presses one key per character of text.
func (s *Surface) Type(text string) {
	for _, r := range text {
		switch r {
		case '\n':
			s.Press(editor.Key{Name: editor.KeyEnter})
		case '\t':
			s.Press(editor.Key{Name: editor.KeyTab})
		default:
			s.Press(editor.Key{Name: string(r)})
		}
	}
}

// Paste inserts text as one native paste.
func (s *Surface) Paste(text string) {
	s.clock.Advance(s.pace)
	s.nativeInsert(text, history.InputInsertFromPaste)
}

// Command delivers a programmatic command.
func (s *Surface) Command(cmd editor.Command) {
	s.deliver(editor.Event{Kind: editor.Programmatic, Command: cmd})
}

// Press delivers a key press and performs the native default when the
// editor leaves it unhandled.
func (s *Surface) Press(key editor.Key) {
	s.clock.Advance(s.pace)

	out := s.deliver(editor.Event{Kind: editor.KeyDown, Key: key})
	if out.Handled {
		return
	}

	switch {
	case key.Mod():
	case key.Name == editor.KeyEnter:
		s.nativeInsert("\n", inputInsertLineBreak)
	case key.Name == editor.KeyBackspace:
		s.nativeDelete(true)
	case key.Name == KeyDelete:
		s.nativeDelete(false)
	case key.Name == KeyArrowLeft, key.Name == KeyArrowRight, key.Name == KeyHome, key.Name == KeyEnd:
		s.moveCaret(key.Name)
	case utf8.RuneCountInString(key.Name) == 1:
		s.nativeInsert(key.Name, history.InputInsertText)
	}
}

func (s *Surface) deliver(event editor.Event) editor.Outcome {
	out := s.target.ApplyEvent(event)
	s.result.Events++
	if out.Handled {
		s.result.Handled++
	}
	if out.Action != editor.ActionNone {
		s.result.Actions = append(s.result.Actions, out.Action)
	}
	s.buf = out.Buffer
	return out
}

// beforeInput announces a native edit and reports whether the editor
// cancelled it.
func (s *Surface) beforeInput(inputType history.InputType) bool {
	out := s.deliver(editor.Event{Kind: editor.BeforeInput, InputType: inputType, Cancelable: true})
	return out.Handled
}

func (s *Surface) nativeInsert(text string, inputType history.InputType) {
	if s.beforeInput(inputType) {
		return
	}
	sel := s.buf.Sel
	next := s.buf.Replace(sel.Start, sel.End, text, sel.Start+len(text))
	s.deliver(editor.Event{Kind: editor.InputChange, InputType: inputType, Buffer: next})
}

func (s *Surface) nativeDelete(backward bool) {
	start, end := s.buf.Sel.Start, s.buf.Sel.End
	if start == end {
		if backward {
			_, size := utf8.DecodeLastRuneInString(s.buf.Text[:start])
			start -= size
		} else {
			_, size := utf8.DecodeRuneInString(s.buf.Text[end:])
			end += size
		}
	}
	if start == end {
		return
	}

	inputType := history.InputDeleteForward
	if backward {
		inputType = history.InputDeleteBackward
	}
	if s.beforeInput(inputType) {
		return
	}
	next := s.buf.Replace(start, end, "", start)
	s.deliver(editor.Event{Kind: editor.InputChange, InputType: inputType, Buffer: next})
}

func (s *Surface) moveCaret(name string) {
	text := s.buf.Text
	pos := s.buf.Sel.Start
	if name == KeyArrowRight || name == KeyEnd {
		pos = s.buf.Sel.End
	}

	switch name {
	case KeyArrowLeft:
		if s.buf.Sel.Collapsed() {
			_, size := utf8.DecodeLastRuneInString(text[:pos])
			pos -= size
		}
	case KeyArrowRight:
		if s.buf.Sel.Collapsed() {
			_, size := utf8.DecodeRuneInString(text[pos:])
			pos += size
		}
	case KeyHome:
		pos = textbuf.LineStart(text, pos)
	case KeyEnd:
		pos = textbuf.LineEnd(text, pos)
	}
	s.Select(pos, pos)
}
