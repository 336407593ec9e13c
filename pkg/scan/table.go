package scan

import (
	"strings"
	"unicode"

	"github.com/yaklabco/sokki/pkg/textbuf"
)

// CellRange is the byte range of one table cell within its line, between
// two pipes and excluding both.
type CellRange struct {
	Start int
	End   int
}

// TableCellRanges returns one range per gap between consecutive pipes.
// A line with fewer than two pipes has no cells.
func TableCellRanges(line string) []CellRange {
	var pipes []int
	for idx := range len(line) {
		if line[idx] == '|' {
			pipes = append(pipes, idx)
		}
	}
	if len(pipes) < 2 {
		return nil
	}

	ranges := make([]CellRange, 0, len(pipes)-1)
	for idx := range len(pipes) - 1 {
		ranges = append(ranges, CellRange{Start: pipes[idx] + 1, End: pipes[idx+1]})
	}
	return ranges
}

// IsEmptyTableRow reports whether line has at least two pipes and only
// whitespace besides them.
func IsEmptyTableRow(line string) bool {
	return strings.Count(line, "|") >= 2 && strings.TrimSpace(strings.ReplaceAll(line, "|", "")) == ""
}

// IsTableLine reports whether line starts with a pipe after leading
// whitespace.
func IsTableLine(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "|")
}

// TableContext describes the table row under the cursor and the contiguous
// block of table rows around it.
type TableContext struct {
	Line       string
	LineStart  int
	LineEnd    int
	LineIndex  int
	BlockStart int
	BlockEnd   int
	Lines      textbuf.Lines
	CellRanges []CellRange
	CellIndex  int
}

// RowCells returns the cell count of every row in the block.
func (c TableContext) RowCells() []int {
	counts := make([]int, 0, c.BlockEnd-c.BlockStart+1)
	for idx := c.BlockStart; idx <= c.BlockEnd; idx++ {
		counts = append(counts, len(TableCellRanges(c.Lines.Line(idx))))
	}
	return counts
}

// FindTableContext returns the table context at pos, or false when the
// cursor line is not a table row with at least one cell.
func FindTableContext(text string, pos int) (TableContext, bool) {
	line, lineStart, lineEnd := textbuf.LineAt(text, pos)
	if !IsTableLine(line) {
		return TableContext{}, false
	}

	cells := TableCellRanges(line)
	if len(cells) == 0 {
		return TableContext{}, false
	}

	lines := textbuf.BuildLines(text)
	lineIndex := lines.IndexAt(lineStart)

	blockStart := lineIndex
	for blockStart > 0 && IsTableLine(lines.Line(blockStart-1)) {
		blockStart--
	}
	blockEnd := lineIndex
	for blockEnd < lines.Len()-1 && IsTableLine(lines.Line(blockEnd+1)) {
		blockEnd++
	}

	column := max(0, min(pos, len(text))) - lineStart
	cellIndex := len(cells) - 1
	for idx, cell := range cells {
		if column <= cell.End {
			cellIndex = idx
			break
		}
	}

	return TableContext{
		Line:       line,
		LineStart:  lineStart,
		LineEnd:    lineEnd,
		LineIndex:  lineIndex,
		BlockStart: blockStart,
		BlockEnd:   blockEnd,
		Lines:      lines,
		CellRanges: cells,
		CellIndex:  cellIndex,
	}, true
}

// TableTarget is a cell position relative to the first row of a table block.
type TableTarget struct {
	Row  int
	Cell int
}

// ResolveTableTabTarget computes where Tab (or Shift+Tab when backward)
// moves from cell of row. rowCells holds the cell count of every row.
// Movement wraps across rows and clamps at the first and last cell of the
// table.
func ResolveTableTabTarget(rowCells []int, row, cell int, backward bool) (TableTarget, bool) {
	if len(rowCells) == 0 {
		return TableTarget{}, false
	}

	row = max(0, min(row, len(rowCells)-1))
	cells := max(1, rowCells[row])
	target := TableTarget{Row: row, Cell: cell + 1}
	if backward {
		target.Cell = cell - 1
	}

	switch {
	case backward && target.Cell < 0:
		if row > 0 {
			target.Row = row - 1
			target.Cell = max(0, rowCells[target.Row]-1)
		} else {
			target.Cell = 0
		}
	case !backward && target.Cell >= cells:
		if row < len(rowCells)-1 {
			target.Row = row + 1
			target.Cell = 0
		} else {
			target.Cell = cells - 1
		}
	}

	return target, true
}

// CellCursor returns the offset within line where the cursor lands when it
// enters cell: the first non-space character, or the cell start when blank.
func CellCursor(line string, cell CellRange) int {
	content := line[cell.Start:cell.End]
	if idx := strings.IndexFunc(content, func(r rune) bool { return !unicode.IsSpace(r) }); idx >= 0 {
		return cell.Start + idx
	}
	return cell.Start
}
