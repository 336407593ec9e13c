package editor

import (
	"github.com/yaklabco/sokki/pkg/history"
	"github.com/yaklabco/sokki/pkg/textbuf"
)

// EventKind identifies which native event an Event carries.
type EventKind int

const (
	// KeyDown is a key press, delivered before the native surface acts on it.
	KeyDown EventKind = iota
	// BeforeInput announces a native edit that has not been applied yet.
	BeforeInput
	// InputChange reports a native edit the surface already applied.
	InputChange
	// Programmatic is a direct call from the UI, such as a toolbar button.
	Programmatic
)

func (k EventKind) String() string {
	switch k {
	case KeyDown:
		return "keydown"
	case BeforeInput:
		return "beforeinput"
	case InputChange:
		return "input"
	case Programmatic:
		return "programmatic"
	}
	return "unknown"
}

// Key names as reported by the native surface.
const (
	KeyEnter     = "Enter"
	KeyTab       = "Tab"
	KeyBackspace = "Backspace"
	KeySpace     = " "
)

// Key describes a key press.
type Key struct {
	// Name is the produced key value, e.g. "Enter", "b" or "&".
	Name string
	// Code is the physical key, e.g. "Digit7". It tells layout-dependent
	// shortcuts apart from the character they produce.
	Code  string
	Ctrl  bool
	Meta  bool
	Shift bool
	Alt   bool
}

// Mod reports whether the platform command modifier is held.
func (k Key) Mod() bool {
	return k.Ctrl || k.Meta
}

// CommandName names a programmatic command.
type CommandName string

// Programmatic commands.
const (
	CommandUndo       CommandName = "undo"
	CommandRedo       CommandName = "redo"
	CommandInsertText CommandName = "insert-text"
	CommandToggleTask CommandName = "toggle-task"
)

// Command is the payload of a Programmatic event.
type Command struct {
	Name CommandName
	// Text is inserted by CommandInsertText.
	Text string
	// Index selects the task checkbox flipped by CommandToggleTask.
	Index int
}

// Event is one input event routed through the editor.
type Event struct {
	Kind EventKind
	Key  Key
	// InputType is set for BeforeInput and, when known, InputChange.
	InputType history.InputType
	// Cancelable reports whether a BeforeInput may be prevented.
	Cancelable bool
	// Buffer is the surface state after an InputChange.
	Buffer  textbuf.Buffer
	Command Command
}

// Action is a request the editor hands back to the UI because it does not
// own the operation.
type Action string

// Actions.
const (
	ActionNone   Action = ""
	ActionOpen   Action = "open"
	ActionSave   Action = "save"
	ActionSaveAs Action = "save-as"
)

// Outcome reports what ApplyEvent did.
type Outcome struct {
	// Handled means the native default must be suppressed.
	Handled bool
	// Changed means the buffer text changed.
	Changed bool
	Action  Action
	// Buffer is the editor state after the event. The UI copies it back
	// into the native surface when Handled is set.
	Buffer textbuf.Buffer
}
