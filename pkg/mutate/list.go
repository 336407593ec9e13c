package mutate

import (
	"strconv"
	"strings"

	"github.com/yaklabco/sokki/pkg/scan"
	"github.com/yaklabco/sokki/pkg/textbuf"
	"github.com/yaklabco/sokki/pkg/textedit"
)

// ContinueList handles Enter on a list line. With content after the marker
// a new item is started below; an empty item is promoted to its parent's
// level, or its marker is removed when there is no parent.
func ContinueList(buf textbuf.Buffer) (textbuf.Buffer, bool) {
	start := buf.Sel.Start
	lineStart := textbuf.LineStart(buf.Text, start)
	before := buf.Text[lineStart:start]

	match, ok := scan.MatchListMarker(before)
	if !ok {
		return buf, false
	}

	if strings.TrimSpace(before[len(match.Prefix):]) != "" {
		return buf.Insert("\n" + match.Next()), true
	}

	if len(match.Indent) > 0 {
		if parent, found := scan.FindParentListItem(buf.Text, start, len(match.Indent)); found {
			next := parent.Next()
			return buf.Replace(lineStart, start, next, lineStart+len(next)), true
		}
	}

	return buf.Replace(lineStart, start, "", lineStart), true
}

// ContinueSoftBreak handles Enter on a line that continues a list item
// through <br> soft breaks. An empty line ends the list with a plain
// newline; otherwise the origin item's marker is continued.
func ContinueSoftBreak(buf textbuf.Buffer) (textbuf.Buffer, bool) {
	start := buf.Sel.Start
	origin, ok := scan.FindListContext(buf.Text, start)
	if !ok {
		return buf, false
	}

	current := buf.Text[textbuf.LineStart(buf.Text, start):start]
	if strings.TrimSpace(current) == "" {
		return buf.Insert("\n"), true
	}
	return buf.Insert("\n" + origin.Next()), true
}

// SoftBreak inserts a <br> line break. Inside a list item the new line is
// indented to the item's content column.
func SoftBreak(buf textbuf.Buffer) textbuf.Buffer {
	return buf.Insert("<br>\n" + continuationIndent(buf.Text, buf.Sel.Start))
}

func continuationIndent(text string, pos int) string {
	current := text[textbuf.LineStart(text, pos):pos]
	if match, ok := scan.MatchListMarker(current); ok {
		return strings.Repeat(" ", len(match.Prefix))
	}
	if origin, ok := scan.FindListContext(text, pos); ok {
		return strings.Repeat(" ", len(origin.Prefix))
	}
	return ""
}

// lineBlock is the run of whole lines covered by a selection.
type lineBlock struct {
	all   textbuf.Lines
	full  []string
	first int
	lines []string
}

func selectedBlock(buf textbuf.Buffer) lineBlock {
	start, end := textbuf.SelectedLines(buf.Text, buf.Sel)
	all := textbuf.BuildLines(buf.Text)
	first := all.IndexAt(start)
	return lineBlock{
		all:   all,
		full:  all.Strings(),
		first: first,
		lines: strings.Split(buf.Text[start:end], "\n"),
	}
}

func (b lineBlock) hasListLine() bool {
	for _, line := range b.lines {
		if _, ok := scan.MatchListMarker(line); ok {
			return true
		}
	}
	return false
}

// replacePrefix records an edit that rewrites the indent, marker and
// separator of item idx of the block when they change.
func (b lineBlock) replacePrefix(builder *textedit.EditBuilder, idx int, item scan.ListLine, prefix string) {
	lineStart := b.all.Infos[b.first+idx].StartOffset
	oldEnd := len(item.Indent) + len(item.Marker) + 1
	if b.lines[idx][:oldEnd] == prefix {
		return
	}
	builder.ReplaceRange(lineStart, lineStart+oldEnd, prefix)
}

// applyMapped applies the builder's edits and carries the selection through
// them.
func applyMapped(buf textbuf.Buffer, builder *textedit.EditBuilder) (textbuf.Buffer, bool) {
	if builder.Empty() {
		return buf, true
	}

	prepared, err := textedit.PrepareEdits(builder.Edits, len(buf.Text))
	if err != nil {
		return buf, false
	}
	text, err := textedit.Apply(buf.Text, prepared)
	if err != nil {
		return buf, false
	}

	return textbuf.New(text,
		textedit.MapOffset(buf.Sel.Start, prepared),
		textedit.MapOffset(buf.Sel.End, prepared)), true
}

// IndentList indents every list line in the selection by one level, or
// outdents it by up to one level when outdent is set. Markers are
// renumbered or restyled to fit their new level.
func IndentList(buf textbuf.Buffer, outdent bool) (textbuf.Buffer, bool) {
	block := selectedBlock(buf)
	if !block.hasListLine() {
		return buf, false
	}

	renumber := newRenumberer(block)
	builder := textedit.NewEditBuilder()

	for idx, line := range block.lines {
		parsed, ok := scan.ParseListLine(line)
		if !ok {
			continue
		}

		shift := scan.IndentUnit
		if outdent {
			shift = -leadingSpaces(line, scan.IndentUnit)
			if shift == 0 {
				continue
			}
		}

		target := parsed.IndentLen + shift
		lineIndex := block.first + idx
		template, hasTemplate := scan.FindTemplateAtIndent(
			block.full, lineIndex, target, block.first, block.first+len(block.lines))
		marker := renumber.marker(parsed, template, hasTemplate, target, lineIndex)

		block.replacePrefix(builder, idx, parsed, strings.Repeat(" ", target)+marker+" ")
	}

	return applyMapped(buf, builder)
}

// renumberer assigns ordered-list numbers to items moved to a new level
// during one indent operation.
type renumberer struct {
	block    lineBlock
	counters map[int]int
}

func newRenumberer(block lineBlock) *renumberer {
	return &renumberer{block: block, counters: make(map[int]int)}
}

// marker picks the marker for parsed at its new indent. A non-ordered
// template dictates the marker style. Without a template non-ordered markers
// are kept. Ordered markers continue this operation's counter for the
// level, then the nearest earlier number at the level, then start at 1.
func (r *renumberer) marker(parsed, template scan.ListLine, hasTemplate bool, target, lineIndex int) string {
	if hasTemplate && template.Kind != scan.Ordered {
		return markerFromTemplate(parsed, template)
	}
	if !hasTemplate && parsed.Kind != scan.Ordered {
		return parsed.Marker
	}

	next := 1
	if assigned, ok := r.counters[target]; ok {
		next = scan.NextNumber(assigned)
	} else if previous, found := scan.FindPreviousOrderedNumberAtIndent(
		r.block.full, lineIndex, target, r.block.first, r.block.first+len(r.block.lines)); found {
		next = scan.NextNumber(previous)
	}
	r.counters[target] = next
	return strconv.Itoa(next) + "."
}

func markerFromTemplate(source, template scan.ListLine) string {
	switch template.Kind {
	case scan.Ordered:
		return "1."
	case scan.Task:
		box := " "
		if source.Kind == scan.Task && source.Checked {
			box = "x"
		}
		return string(template.BulletChar) + " [" + box + "]"
	case scan.Bullet:
	}
	return string(template.BulletChar)
}

func leadingSpaces(line string, limit int) int {
	count := 0
	for count < len(line) && count < limit && line[count] == ' ' {
		count++
	}
	return count
}

// AutoFormatList renumbers ordered items and normalizes markers and indent
// widths across the selected lines. Numbering restarts after any non-list
// line, and a shallower item discards the counters of deeper levels.
func AutoFormatList(buf textbuf.Buffer) (textbuf.Buffer, bool) {
	block := selectedBlock(buf)
	if !block.hasListLine() {
		return buf, false
	}

	counters := make(map[int]int)
	builder := textedit.NewEditBuilder()

	for idx, line := range block.lines {
		parsed, ok := scan.ParseListLine(line)
		if !ok {
			clear(counters)
			continue
		}

		indent := scan.NormalizeListIndentWidth(parsed.Indent)
		for level := range counters {
			if level > indent {
				delete(counters, level)
			}
		}

		var marker string
		switch parsed.Kind {
		case scan.Ordered:
			counters[indent]++
			marker = strconv.Itoa(counters[indent]) + "."
		case scan.Task:
			delete(counters, indent)
			marker = "- [ ]"
			if parsed.Checked {
				marker = "- [x]"
			}
		case scan.Bullet:
			delete(counters, indent)
			marker = "-"
		}

		block.replacePrefix(builder, idx, parsed, strings.Repeat(" ", indent)+marker+" ")
	}

	return applyMapped(buf, builder)
}

// ToggleListType flips the items at one indent level between ordered and
// bullet markers. With a caret the level is the current item's and the run
// extends until a blank line or a shallower item; with a selection the level
// is that of the first list line selected.
func ToggleListType(buf textbuf.Buffer) (textbuf.Buffer, bool) {
	all := textbuf.BuildLines(buf.Text)
	full := all.Strings()

	var first, last, indent int
	if buf.Sel.Collapsed() {
		current := all.IndexAt(buf.Sel.Start)
		parsed, ok := scan.ParseListLine(full[current])
		if !ok {
			return buf, false
		}
		indent = parsed.IndentLen
		first = extendRun(full, current, indent, -1)
		last = extendRun(full, current, indent, 1)
	} else {
		start, end := textbuf.SelectedLines(buf.Text, buf.Sel)
		first = all.IndexAt(start)
		last = all.IndexAt(end)
		found := false
		for idx := first; idx <= last && !found; idx++ {
			if parsed, ok := scan.ParseListLine(full[idx]); ok {
				indent = parsed.IndentLen
				found = true
			}
		}
		if !found {
			return buf, false
		}
	}

	builder, ok := toggleLinesAtIndent(all, first, last, indent)
	if !ok {
		return buf, false
	}
	return applyMapped(buf, builder)
}

// extendRun walks from line idx in direction step while lines are non-blank
// and not list items shallower than indent.
func extendRun(lines []string, idx, indent, step int) int {
	for {
		next := idx + step
		if next < 0 || next >= len(lines) || textbuf.IsBlank(lines[next]) {
			return idx
		}
		if parsed, ok := scan.ParseListLine(lines[next]); ok && parsed.IndentLen < indent {
			return idx
		}
		idx = next
	}
}

// toggleLinesAtIndent rewrites the markers of every item at indent within
// lines [first, last]. The first such item decides the direction.
func toggleLinesAtIndent(all textbuf.Lines, first, last, indent int) (*textedit.EditBuilder, bool) {
	builder := textedit.NewEditBuilder()
	toOrdered := false
	number := 0

	for idx := first; idx <= last; idx++ {
		parsed, ok := scan.ParseListLine(all.Line(idx))
		if !ok || parsed.IndentLen != indent {
			continue
		}
		if number == 0 {
			toOrdered = parsed.Kind != scan.Ordered
		}
		number++

		marker := "-"
		if toOrdered {
			marker = strconv.Itoa(number) + "."
		}
		if marker == parsed.Marker {
			continue
		}
		markerStart := all.Infos[idx].StartOffset + parsed.IndentLen
		builder.ReplaceRange(markerStart, markerStart+len(parsed.Marker), marker)
	}

	return builder, number > 0
}
