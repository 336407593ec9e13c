package history

import (
	"time"

	"github.com/yaklabco/sokki/pkg/textbuf"
)

// Engine owns the undo and redo stacks of one document. It is not safe for
// concurrent use.
type Engine struct {
	undo      *Stack
	redo      *Stack
	lastKnown textbuf.Buffer
	group     *Group
	pending   InputType
	window    time.Duration
	now       func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithLimit sets the depth of both stacks.
func WithLimit(limit int) Option {
	return func(e *Engine) {
		e.undo = NewStack(limit)
		e.redo = NewStack(limit)
	}
}

// WithCoalesceWindow sets the longest pause that still merges native edits.
func WithCoalesceWindow(window time.Duration) Option {
	return func(e *Engine) {
		if window > 0 {
			e.window = window
		}
	}
}

// WithClock replaces the wall clock used to time native edits.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New creates an engine whose last known state is initial.
func New(initial textbuf.Buffer, opts ...Option) *Engine {
	engine := &Engine{
		undo:    NewStack(DefaultLimit),
		redo:    NewStack(DefaultLimit),
		window:  DefaultCoalesceWindow,
		now:     time.Now,
		pending: InputUnknown,
	}
	for _, opt := range opts {
		opt(engine)
	}
	engine.Reset(initial)
	return engine
}

// Reset empties both stacks and starts over from buf.
func (e *Engine) Reset(buf textbuf.Buffer) {
	e.undo.Clear()
	e.redo.Clear()
	e.lastKnown = buf
	e.group = nil
	e.pending = InputUnknown
}

// CommitProgrammatic records an edit made by the editor itself. It returns
// false, recording nothing, when the text did not change.
func (e *Engine) CommitProgrammatic(before, after textbuf.Buffer) bool {
	e.lastKnown = after
	if before.Text == after.Text {
		return false
	}

	e.undo.Push(before)
	e.redo.Clear()
	e.group = nil
	return true
}

// SetPendingInput remembers the type announced before a native edit lands,
// for input events that do not carry one.
func (e *Engine) SetPendingInput(t InputType) {
	if t == "" {
		t = InputUnknown
	}
	e.pending = t
}

// PendingInput returns the type announced for the next native edit.
func (e *Engine) PendingInput() InputType {
	return e.pending
}

// RecordNative records a change the native text surface already applied.
// An empty t falls back to the pending input type. Edits that cannot join
// the open group checkpoint the last known state and open a new group.
// Native undo and redo only resynchronize the last known state. The return
// value reports whether a checkpoint was pushed.
func (e *Engine) RecordNative(current textbuf.Buffer, t InputType) bool {
	if t == "" {
		t = e.pending
	}
	defer func() {
		e.pending = InputUnknown
		e.lastKnown = current
	}()

	if current.Text == e.lastKnown.Text {
		return false
	}

	if IsHistory(t) {
		e.group = nil
		return false
	}

	now := e.now()
	if e.group != nil && ShouldCoalesce(e.group, t, now.Sub(e.group.LastAt), e.window) {
		e.group.LastAt = now
		return false
	}

	e.undo.Push(e.lastKnown)
	e.redo.Clear()
	e.group = &Group{InputType: t, LastAt: now}
	return true
}

// Undo returns the state before the most recent step, moving current onto
// the redo stack. It reports false when there is nothing to undo.
func (e *Engine) Undo(current textbuf.Buffer) (textbuf.Buffer, bool) {
	return e.step(e.undo, e.redo, current)
}

// Redo reverses the most recent Undo.
func (e *Engine) Redo(current textbuf.Buffer) (textbuf.Buffer, bool) {
	return e.step(e.redo, e.undo, current)
}

func (e *Engine) step(from, to *Stack, current textbuf.Buffer) (textbuf.Buffer, bool) {
	snapshot, ok := from.Pop()
	if !ok {
		return current, false
	}
	to.Push(current)

	restored := snapshot.Clamp()
	e.lastKnown = restored
	e.group = nil
	return restored, true
}

// CanUndo reports whether Undo has anything to restore.
func (e *Engine) CanUndo() bool {
	return e.undo.Len() > 0
}

// CanRedo reports whether Redo has anything to restore.
func (e *Engine) CanRedo() bool {
	return e.redo.Len() > 0
}

// UndoDepth returns the number of undo steps.
func (e *Engine) UndoDepth() int {
	return e.undo.Len()
}

// RedoDepth returns the number of redo steps.
func (e *Engine) RedoDepth() int {
	return e.redo.Len()
}

// LastKnown returns the state the engine last observed.
func (e *Engine) LastKnown() textbuf.Buffer {
	return e.lastKnown
}

// OpenGroup returns a copy of the running native edit group, if any.
func (e *Engine) OpenGroup() (Group, bool) {
	if e.group == nil {
		return Group{}, false
	}
	return *e.group, true
}
