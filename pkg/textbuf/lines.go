package textbuf

import (
	"sort"
	"strings"
)

// LineInfo is the byte range of one line. EndOffset excludes the newline.
type LineInfo struct {
	StartOffset int
	EndOffset   int
}

// Lines is the line table of a text, split on '\n'. A trailing newline
// produces a final empty line.
type Lines struct {
	Text  string
	Infos []LineInfo
}

// BuildLines splits text into its line table.
func BuildLines(text string) Lines {
	infos := make([]LineInfo, 0, strings.Count(text, "\n")+1)
	start := 0
	for idx := range len(text) {
		if text[idx] == '\n' {
			infos = append(infos, LineInfo{StartOffset: start, EndOffset: idx})
			start = idx + 1
		}
	}
	infos = append(infos, LineInfo{StartOffset: start, EndOffset: len(text)})
	return Lines{Text: text, Infos: infos}
}

// Len returns the number of lines.
func (l Lines) Len() int {
	return len(l.Infos)
}

// Line returns the content of line idx without its newline, or "" when idx is
// out of range.
func (l Lines) Line(idx int) string {
	if idx < 0 || idx >= len(l.Infos) {
		return ""
	}
	info := l.Infos[idx]
	return l.Text[info.StartOffset:info.EndOffset]
}

// Strings returns every line as a slice.
func (l Lines) Strings() []string {
	out := make([]string, len(l.Infos))
	for idx := range l.Infos {
		out[idx] = l.Line(idx)
	}
	return out
}

// IndexAt returns the index of the line containing offset. Offsets past the
// end map to the last line.
func (l Lines) IndexAt(offset int) int {
	idx := sort.Search(len(l.Infos), func(i int) bool {
		return l.Infos[i].EndOffset >= offset
	})
	if idx >= len(l.Infos) {
		return len(l.Infos) - 1
	}
	return idx
}

// LineStart returns the offset of the first byte of the line containing pos.
func LineStart(text string, pos int) int {
	pos = clampOffset(pos, len(text))
	return strings.LastIndexByte(text[:pos], '\n') + 1
}

// LineEnd returns the offset of the newline ending the line containing pos,
// or len(text) on the last line.
func LineEnd(text string, pos int) int {
	pos = clampOffset(pos, len(text))
	if idx := strings.IndexByte(text[pos:], '\n'); idx >= 0 {
		return pos + idx
	}
	return len(text)
}

// LineAt returns the line containing pos along with its bounds.
func LineAt(text string, pos int) (string, int, int) {
	start := LineStart(text, pos)
	end := LineEnd(text, pos)
	return text[start:end], start, end
}

// SelectedLines returns the bounds of the whole lines touched by sel. A
// selection ending right after a newline does not include the next line.
func SelectedLines(text string, sel Selection) (int, int) {
	start := LineStart(text, sel.Start)
	endPos := clampOffset(sel.End, len(text))
	if endPos > sel.Start && endPos > 0 && text[endPos-1] == '\n' {
		endPos--
	}
	return start, LineEnd(text, endPos)
}

// IsBlank reports whether line has no non-whitespace characters.
func IsBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
