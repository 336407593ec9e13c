package editor

import (
	"strings"

	"github.com/yaklabco/sokki/pkg/mutate"
	"github.com/yaklabco/sokki/pkg/scan"
	"github.com/yaklabco/sokki/pkg/textbuf"
)

// mutator is the shape of every structural operation: it returns the new
// buffer, or false when it does not apply.
type mutator func(textbuf.Buffer) (textbuf.Buffer, bool)

// try runs op and commits its result when it applies.
func (e *Editor) try(op mutator) (Outcome, bool) {
	next, ok := op(e.buf)
	if !ok {
		return Outcome{}, false
	}
	return e.outcome(true, e.commit(next)), true
}

func (e *Editor) apply(next textbuf.Buffer) Outcome {
	return e.outcome(true, e.commit(next))
}

func (e *Editor) keyDown(key Key) Outcome {
	prevented := false

	if key.Mod() {
		out, done := e.commandKey(key, &prevented)
		if done {
			return out
		}
	}

	switch key.Name {
	case KeyTab:
		if out, ok := e.try(navigate(key.Shift)); ok {
			return out
		}
		if out, ok := e.try(indent(key.Shift)); ok {
			return out
		}
		if !key.Shift {
			if out, ok := e.try(mutate.ExpandShortcut); ok {
				return out
			}
		}
	case KeyBackspace:
		if out, ok := e.try(mutate.DeleteEmptyTableRow); ok {
			return out
		}
	case KeySpace:
		if out, ok := e.try(mutate.ExpandShortcut); ok {
			return out
		}
	case KeyEnter:
		if key.Shift {
			return e.apply(mutate.SoftBreak(e.buf))
		}
		return e.enter()
	}

	return e.outcome(prevented, false)
}

// commandKey handles Ctrl or Cmd chords. It reports done when the event is
// fully handled; otherwise routing continues with plain key handling and
// prevented may have been set.
func (e *Editor) commandKey(key Key, prevented *bool) (Outcome, bool) {
	name := strings.ToLower(key.Name)

	if name == "enter" {
		if out, ok := e.try(mutate.InsertTableRow); ok {
			return out, true
		}
	}

	switch {
	case name == "z":
		if key.Shift {
			return e.outcome(true, e.Redo()), true
		}
		return e.outcome(true, e.Undo()), true
	case name == "y":
		return e.outcome(true, e.Redo()), true
	case key.Shift && (key.Code == "Digit7" || name == "7"):
		*prevented = true
		if out, ok := e.try(mutate.ToggleListType); ok {
			return out, true
		}
	case key.Shift && name == "l":
		*prevented = true
		if out, ok := e.try(mutate.AutoFormatList); ok {
			return out, true
		}
	}

	switch name {
	case "o":
		return e.action(ActionOpen), true
	case "s":
		if key.Shift {
			return e.action(ActionSaveAs), true
		}
		return e.action(ActionSave), true
	case "b":
		return e.apply(mutate.ToggleFormat(e.buf, "**", "**")), true
	case "i":
		return e.apply(mutate.ToggleFormat(e.buf, "*", "*")), true
	case "u":
		return e.apply(mutate.ToggleFormat(e.buf, "<u>", "</u>")), true
	case ".", ">":
		if out, ok := e.try(mutate.AddTableColumn); ok {
			return out, true
		}
	}

	return Outcome{}, false
}

func (e *Editor) action(action Action) Outcome {
	out := e.outcome(true, false)
	out.Action = action
	return out
}

// enter handles a plain Enter. The native newline is always suppressed.
func (e *Editor) enter() Outcome {
	line, _, _ := textbuf.LineAt(e.buf.Text, e.buf.Sel.Start)
	if scan.Classify(line).Kind == scan.KindTable {
		if out, ok := e.try(mutate.TableEnter); ok {
			return out
		}
	}
	if out, ok := e.try(mutate.ContinueList); ok {
		return out
	}
	if out, ok := e.try(mutate.ContinueSoftBreak); ok {
		return out
	}
	return e.apply(mutate.ParagraphBreak(e.buf))
}

func navigate(backward bool) mutator {
	return func(buf textbuf.Buffer) (textbuf.Buffer, bool) {
		return mutate.NavigateTable(buf, backward)
	}
}

func indent(outdent bool) mutator {
	return func(buf textbuf.Buffer) (textbuf.Buffer, bool) {
		return mutate.IndentList(buf, outdent)
	}
}
