package editor

import (
	"github.com/yaklabco/sokki/pkg/history"
	"github.com/yaklabco/sokki/pkg/mutate"
	"github.com/yaklabco/sokki/pkg/textbuf"
)

// Editor is the text-manipulation core of one open document. It is not
// safe for concurrent use.
type Editor struct {
	buf     textbuf.Buffer
	history *history.Engine

	// baseline is the text last known to match the file on disk. When
	// baselineKnown is false the document counts as dirty whatever it holds.
	baseline      string
	baselineKnown bool
	dirty         bool

	renderer  Renderer
	persister Persister
}

// Option configures an Editor.
type Option func(*editorOptions)

type editorOptions struct {
	renderer  Renderer
	persister Persister
	history   []history.Option
}

// WithRenderer sets the preview hook.
func WithRenderer(r Renderer) Option {
	return func(o *editorOptions) {
		if r != nil {
			o.renderer = r
		}
	}
}

// WithPersister sets the autosave hooks.
func WithPersister(p Persister) Option {
	return func(o *editorOptions) {
		if p != nil {
			o.persister = p
		}
	}
}

// WithHistory passes options through to the history engine.
func WithHistory(opts ...history.Option) Option {
	return func(o *editorOptions) {
		o.history = append(o.history, opts...)
	}
}

// New creates an editor holding an empty, clean document.
func New(opts ...Option) *Editor {
	options := editorOptions{
		renderer:  nopRenderer{},
		persister: nopPersister{},
	}
	for _, opt := range opts {
		opt(&options)
	}

	return &Editor{
		history:       history.New(textbuf.Buffer{}, options.history...),
		baselineKnown: true,
		renderer:      options.renderer,
		persister:     options.persister,
	}
}

// Text returns the document text.
func (e *Editor) Text() string {
	return e.buf.Text
}

// Cursor returns the current selection.
func (e *Editor) Cursor() textbuf.Selection {
	return e.buf.Sel
}

// Snapshot returns the buffer and selection as one value.
func (e *Editor) Snapshot() textbuf.Buffer {
	return e.buf
}

// SetSelection moves the selection without editing. The UI calls it when
// the caret moves natively.
func (e *Editor) SetSelection(start, end int) {
	e.buf = e.buf.WithSelection(start, end)
}

// LoadDocument replaces the document, resets the history and takes text as
// the clean baseline. The cursor defaults to the start of the document.
func (e *Editor) LoadDocument(text string, sel ...textbuf.Selection) {
	e.replace(text, sel)
	e.setBaseline(text)
	e.renderer.RequestRender(text)
}

// RestoreDocument replaces the document with recovered text whose relation
// to the file on disk is unknown. The document stays dirty until MarkClean.
func (e *Editor) RestoreDocument(text string) {
	e.replace(text, nil)
	e.baseline = ""
	e.baselineKnown = false
	e.dirty = true
	e.renderer.RequestRender(text)
}

func (e *Editor) replace(text string, sel []textbuf.Selection) {
	buf := textbuf.At(text, 0)
	if len(sel) > 0 {
		buf = textbuf.New(text, sel[0].Start, sel[0].End)
	}
	e.buf = buf
	e.history.Reset(buf)
}

// MarkClean takes the current text as the clean baseline, typically after
// a save.
func (e *Editor) MarkClean() {
	e.setBaseline(e.buf.Text)
}

func (e *Editor) setBaseline(text string) {
	e.baseline = text
	e.baselineKnown = true
	e.dirty = false
}

// Dirty reports whether the document differs from its clean baseline.
func (e *Editor) Dirty() bool {
	return e.dirty
}

// CanUndo reports whether Undo would change anything.
func (e *Editor) CanUndo() bool {
	return e.history.CanUndo()
}

// CanRedo reports whether Redo would change anything.
func (e *Editor) CanRedo() bool {
	return e.history.CanRedo()
}

// UndoDepth returns the number of undo steps held.
func (e *Editor) UndoDepth() int {
	return e.history.UndoDepth()
}

// Undo restores the state before the most recent step.
func (e *Editor) Undo() bool {
	return e.step(e.history.Undo)
}

// Redo reverses the most recent Undo.
func (e *Editor) Redo() bool {
	return e.step(e.history.Redo)
}

func (e *Editor) step(move func(textbuf.Buffer) (textbuf.Buffer, bool)) bool {
	next, ok := move(e.buf)
	if !ok {
		return false
	}
	e.buf = next
	e.afterChange()
	return true
}

// commit installs next as a programmatic edit and reports whether the text
// changed. Selection-only moves are installed without a history entry.
func (e *Editor) commit(next textbuf.Buffer) bool {
	before := e.buf
	e.buf = next
	if !e.history.CommitProgrammatic(before, next) {
		return false
	}
	e.afterChange()
	return true
}

func (e *Editor) afterChange() {
	e.renderer.RequestRender(e.buf.Text)
	e.markDirty()
}

func (e *Editor) markDirty() {
	wasDirty := e.dirty
	e.dirty = !e.baselineKnown || e.buf.Text != e.baseline
	if e.dirty {
		e.persister.ScheduleSave(e.buf.Text)
		return
	}

	e.persister.CancelScheduledSave()
	if wasDirty {
		e.persister.ClearSnapshot()
	}
}

// ApplyEvent routes one event and reports the result.
func (e *Editor) ApplyEvent(event Event) Outcome {
	switch event.Kind {
	case KeyDown:
		return e.keyDown(event.Key)
	case BeforeInput:
		return e.beforeInput(event)
	case InputChange:
		return e.inputChange(event)
	case Programmatic:
		return e.programmatic(event.Command)
	}
	return e.outcome(false, false)
}

func (e *Editor) beforeInput(event Event) Outcome {
	e.history.SetPendingInput(event.InputType)
	if !history.IsHistory(event.InputType) || !event.Cancelable {
		return e.outcome(false, false)
	}

	var changed bool
	if event.InputType == history.InputHistoryUndo {
		changed = e.Undo()
	} else {
		changed = e.Redo()
	}
	e.history.SetPendingInput(history.InputUnknown)
	return e.outcome(true, changed)
}

func (e *Editor) inputChange(event Event) Outcome {
	before := e.buf.Text
	e.buf = event.Buffer.Clamp()
	e.history.RecordNative(e.buf, event.InputType)
	e.afterChange()
	return e.outcome(false, e.buf.Text != before)
}

func (e *Editor) programmatic(cmd Command) Outcome {
	switch cmd.Name {
	case CommandUndo:
		return e.outcome(true, e.Undo())
	case CommandRedo:
		return e.outcome(true, e.Redo())
	case CommandInsertText:
		return e.outcome(true, e.commit(mutate.InsertText(e.buf, cmd.Text)))
	case CommandToggleTask:
		next, ok := mutate.ToggleTaskCheckbox(e.buf, cmd.Index)
		if !ok {
			return e.outcome(false, false)
		}
		return e.outcome(true, e.commit(next))
	}
	return e.outcome(false, false)
}

func (e *Editor) outcome(handled, changed bool) Outcome {
	return Outcome{Handled: handled, Changed: changed, Buffer: e.buf}
}
