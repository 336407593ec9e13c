package mutate

import (
	"strings"

	"github.com/yaklabco/sokki/pkg/scan"
	"github.com/yaklabco/sokki/pkg/textbuf"
	"github.com/yaklabco/sokki/pkg/textedit"
)

// TableEnter handles Enter on a table row. An empty row is deleted; any
// other row gets a blank row with the same column count inserted below it.
func TableEnter(buf textbuf.Buffer) (textbuf.Buffer, bool) {
	line, lineStart, lineEnd := textbuf.LineAt(buf.Text, buf.Sel.Start)
	if !scan.IsTableLine(line) {
		return buf, false
	}
	if scan.IsEmptyTableRow(line) {
		return deleteRow(buf, lineStart, lineEnd), true
	}
	return InsertTableRow(buf)
}

// InsertTableRow inserts a blank row below the current table row and puts
// the cursor in its first cell.
func InsertTableRow(buf textbuf.Buffer) (textbuf.Buffer, bool) {
	ctx, ok := scan.FindTableContext(buf.Text, buf.Sel.Start)
	if !ok {
		return buf, false
	}

	row := BlankRow(len(ctx.CellRanges))
	rowStart := ctx.LineEnd + 1
	cursor := rowStart + scan.CellCursor(row, scan.TableCellRanges(row)[0])
	return buf.Replace(ctx.LineEnd, ctx.LineEnd, "\n"+row, cursor), true
}

// BlankRow returns a table row with columns empty cells.
func BlankRow(columns int) string {
	return tableRow(columns, " ")
}

func tableRow(columns int, cell string) string {
	cells := make([]string, max(1, columns))
	for idx := range cells {
		cells[idx] = cell
	}
	return "| " + strings.Join(cells, " | ") + " |"
}

// DeleteEmptyTableRow handles Backspace with a caret on an empty table row
// by removing the whole row.
func DeleteEmptyTableRow(buf textbuf.Buffer) (textbuf.Buffer, bool) {
	if !buf.Sel.Collapsed() {
		return buf, false
	}
	ctx, ok := scan.FindTableContext(buf.Text, buf.Sel.Start)
	if !ok || !scan.IsEmptyTableRow(ctx.Line) {
		return buf, false
	}
	return deleteRow(buf, ctx.LineStart, ctx.LineEnd), true
}

// deleteRow removes the line [lineStart, lineEnd) together with one
// adjacent newline: the following one, or the preceding one on the last line.
func deleteRow(buf textbuf.Buffer, lineStart, lineEnd int) textbuf.Buffer {
	switch {
	case lineEnd < len(buf.Text):
		return buf.Replace(lineStart, lineEnd+1, "", lineStart)
	case lineStart > 0:
		return buf.Replace(lineStart-1, lineEnd, "", lineStart-1)
	default:
		return textbuf.At("", 0)
	}
}

// NavigateTable moves the cursor to the next cell, or the previous one when
// backward is set. It wraps across rows and stops at the table's first and
// last cells.
func NavigateTable(buf textbuf.Buffer, backward bool) (textbuf.Buffer, bool) {
	ctx, ok := scan.FindTableContext(buf.Text, buf.Sel.Start)
	if !ok {
		return buf, false
	}

	target, ok := scan.ResolveTableTabTarget(ctx.RowCells(), ctx.LineIndex-ctx.BlockStart, ctx.CellIndex, backward)
	if !ok {
		return buf, true
	}

	lineIndex := ctx.BlockStart + target.Row
	line := ctx.Lines.Line(lineIndex)
	cells := scan.TableCellRanges(line)
	if len(cells) == 0 {
		return buf, true
	}

	cell := cells[max(0, min(target.Cell, len(cells)-1))]
	return buf.WithCursor(ctx.Lines.Infos[lineIndex].StartOffset + scan.CellCursor(line, cell)), true
}

// AddTableColumn inserts a column into every row of the table around the
// cursor. The column goes after the cell holding the cursor; separator rows
// get a --- cell and other rows a blank one. The cursor moves into the new
// cell.
func AddTableColumn(buf textbuf.Buffer) (textbuf.Buffer, bool) {
	lines := textbuf.BuildLines(buf.Text)
	current := lines.IndexAt(buf.Sel.Start)
	if !scan.IsTableLine(lines.Line(current)) {
		return buf, false
	}

	first, last := current, current
	for first > 0 && scan.IsTableLine(lines.Line(first-1)) {
		first--
	}
	for last < lines.Len()-1 && scan.IsTableLine(lines.Line(last+1)) {
		last++
	}

	column := strings.Count(buf.Text[lines.Infos[current].StartOffset:buf.Sel.Start], "|")

	builder := textedit.NewEditBuilder()
	newCell, lead := 0, 0
	for idx := first; idx <= last; idx++ {
		line := lines.Line(idx)
		info := lines.Infos[idx]

		cell := "   "
		if strings.Contains(line, "---") {
			cell = " --- "
		}

		// The new cell follows pipe number column+1, or is appended when the
		// row has fewer pipes.
		offset, insert := info.EndOffset, "|"+cell
		if pipe := nthIndex(line, '|', column+1); pipe >= 0 {
			offset, insert = info.StartOffset+pipe+1, cell+"|"
		}
		if idx == current {
			newCell = offset
			if insert[0] == '|' {
				lead = 1
			}
		}
		builder.Insert(offset, insert)
	}

	prepared, err := textedit.PrepareEdits(builder.Edits, len(buf.Text))
	if err != nil {
		return buf, false
	}
	text, err := textedit.Apply(buf.Text, prepared)
	if err != nil {
		return buf, false
	}

	return textbuf.At(text, textedit.MapOffset(newCell, prepared)+lead+1), true
}

// nthIndex returns the byte index of the n-th (1-based) occurrence of c in
// s, or -1.
func nthIndex(s string, c byte, n int) int {
	for idx := range len(s) {
		if s[idx] == c {
			n--
			if n == 0 {
				return idx
			}
		}
	}
	return -1
}
