package scan

// LineKind is the structural class of a single line.
type LineKind int

const (
	// KindPlain is any line that is neither a table row nor a list item.
	KindPlain LineKind = iota
	// KindList is a list item.
	KindList
	// KindTable is a line starting with a pipe.
	KindTable
)

func (k LineKind) String() string {
	switch k {
	case KindList:
		return "list"
	case KindTable:
		return "table"
	case KindPlain:
	}
	return "plain"
}

// Line is a classified line. List is set for KindList; Cells is set for
// KindTable and may be empty for a row with a single pipe.
type Line struct {
	Kind  LineKind
	Text  string
	List  ListLine
	Cells []CellRange
}

// Classify determines what structure line holds. Table rows take priority
// over list items.
func Classify(line string) Line {
	if IsTableLine(line) {
		return Line{Kind: KindTable, Text: line, Cells: TableCellRanges(line)}
	}
	if parsed, ok := ParseListLine(line); ok {
		return Line{Kind: KindList, Text: line, List: parsed}
	}
	return Line{Kind: KindPlain, Text: line}
}

// Columns returns the number of cells of a table line.
func (l Line) Columns() int {
	return len(l.Cells)
}

// EmptyRow reports whether a table line holds only pipes and whitespace.
func (l Line) EmptyRow() bool {
	return l.Kind == KindTable && IsEmptyTableRow(l.Text)
}
