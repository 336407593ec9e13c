// Package textbuf defines the document value that flows through the editor:
// the full text and the selection inside it.
//
// Offsets are byte offsets into the UTF-8 text.
package textbuf

// Selection is a half-open byte range [Start, End). Start == End is a caret.
type Selection struct {
	Start int
	End   int
}

// Collapsed reports whether the selection is a caret.
func (s Selection) Collapsed() bool {
	return s.Start == s.End
}

// Buffer is an immutable document state. A Buffer value doubles as the
// snapshot stored in the edit history.
type Buffer struct {
	Text string
	Sel  Selection
}

// New returns a Buffer with the selection clamped into the text.
func New(text string, start, end int) Buffer {
	return Buffer{Text: text, Sel: Selection{Start: start, End: end}}.Clamp()
}

// At returns a Buffer with a caret at pos.
func At(text string, pos int) Buffer {
	return New(text, pos, pos)
}

// Clamp returns b with both offsets inside [0, len(Text)] and Start <= End.
func (b Buffer) Clamp() Buffer {
	start := clampOffset(b.Sel.Start, len(b.Text))
	end := clampOffset(b.Sel.End, len(b.Text))
	if end < start {
		start, end = end, start
	}
	b.Sel = Selection{Start: start, End: end}
	return b
}

// WithCursor returns b with a caret at pos.
func (b Buffer) WithCursor(pos int) Buffer {
	return b.WithSelection(pos, pos)
}

// WithSelection returns b with the selection set to [start, end), clamped.
func (b Buffer) WithSelection(start, end int) Buffer {
	b.Sel = Selection{Start: start, End: end}
	return b.Clamp()
}

// Replace returns a Buffer where [start, end) is replaced by s and the caret
// sits at cursor. Offsets are clamped against the new text.
func (b Buffer) Replace(start, end int, s string, cursor int) Buffer {
	start = clampOffset(start, len(b.Text))
	end = clampOffset(end, len(b.Text))
	if end < start {
		start, end = end, start
	}
	return At(b.Text[:start]+s+b.Text[end:], cursor)
}

// Insert replaces the selection with s and leaves the caret after it.
func (b Buffer) Insert(s string) Buffer {
	return b.Replace(b.Sel.Start, b.Sel.End, s, b.Sel.Start+len(s))
}

// Selected returns the selected text.
func (b Buffer) Selected() string {
	return b.Text[b.Sel.Start:b.Sel.End]
}

// Equal reports whether two buffers have the same text and selection.
func (b Buffer) Equal(other Buffer) bool {
	return b == other
}

func clampOffset(pos, length int) int {
	return max(0, min(pos, length))
}
