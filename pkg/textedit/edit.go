// Package textedit applies byte-range replacements to a document and
// renders the difference between two versions of it.
package textedit

import "strings"

// TextEdit replaces the bytes [StartOffset, EndOffset) with NewText.
type TextEdit struct {
	StartOffset int
	EndOffset   int
	NewText     string
}

// Len returns the change in document length caused by applying the edit.
func (e TextEdit) Len() int {
	return len(e.NewText) - (e.EndOffset - e.StartOffset)
}

// EditBuilder accumulates edits against a single document.
type EditBuilder struct {
	Edits []TextEdit
}

// NewEditBuilder creates an empty EditBuilder.
func NewEditBuilder() *EditBuilder {
	return &EditBuilder{Edits: make([]TextEdit, 0)}
}

// ReplaceRange adds an edit that replaces bytes [start, end) with newText.
func (b *EditBuilder) ReplaceRange(start, end int, newText string) {
	b.Edits = append(b.Edits, TextEdit{StartOffset: start, EndOffset: end, NewText: newText})
}

// Insert adds an edit that inserts text at offset.
func (b *EditBuilder) Insert(offset int, text string) {
	b.ReplaceRange(offset, offset, text)
}

// Delete adds an edit that removes bytes [start, end).
func (b *EditBuilder) Delete(start, end int) {
	b.ReplaceRange(start, end, "")
}

// Empty reports whether no edits were recorded.
func (b *EditBuilder) Empty() bool {
	return len(b.Edits) == 0
}

// Apply validates the accumulated edits and applies them to text.
func (b *EditBuilder) Apply(text string) (string, error) {
	return Apply(text, b.Edits)
}

// Apply validates, orders and applies edits to text.
func Apply(text string, edits []TextEdit) (string, error) {
	prepared, err := PrepareEdits(edits, len(text))
	if err != nil {
		return text, err
	}
	return applySorted(text, prepared), nil
}

func applySorted(text string, edits []TextEdit) string {
	if len(edits) == 0 {
		return text
	}

	delta := 0
	for _, e := range edits {
		delta += e.Len()
	}

	var out strings.Builder
	out.Grow(len(text) + delta)

	cursor := 0
	for _, e := range edits {
		out.WriteString(text[cursor:e.StartOffset])
		out.WriteString(e.NewText)
		cursor = e.EndOffset
	}
	out.WriteString(text[cursor:])

	return out.String()
}

// MapOffset translates an offset in the original text into the text produced
// by applying the sorted, non-overlapping edits. Insertions exactly at offset
// do not move it; offsets inside a replaced range are clamped into the
// replacement.
func MapOffset(offset int, edits []TextEdit) int {
	shift := 0
	for _, e := range edits {
		if e.StartOffset >= offset {
			break
		}
		if offset < e.EndOffset {
			return e.StartOffset + shift + min(offset-e.StartOffset, len(e.NewText))
		}
		shift += e.Len()
	}
	return offset + shift
}
