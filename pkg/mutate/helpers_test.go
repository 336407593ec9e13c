package mutate_test

import (
	"strings"

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
