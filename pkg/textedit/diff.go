package textedit

import (
	"fmt"
	"strings"
)

// DiffLineKind classifies a line of a unified diff hunk.
type DiffLineKind int

const (
	// DiffLineContext is an unchanged line.
	DiffLineContext DiffLineKind = iota
	// DiffLineAdd is a line present only in the modified text.
	DiffLineAdd
	// DiffLineRemove is a line present only in the original text.
	DiffLineRemove
)

// contextLines is the number of unchanged lines shown around each change.
const contextLines = 3

// DiffLine is one line of a hunk, without its diff prefix.
type DiffLine struct {
	Kind    DiffLineKind
	Content string
}

// DiffHunk is a contiguous region of change with its surrounding context.
// Start positions are 1-based line numbers.
type DiffHunk struct {
	OriginalStart int
	OriginalCount int
	ModifiedStart int
	ModifiedCount int
	Lines         []DiffLine
}

// Diff is a line-oriented unified diff between two versions of a document.
type Diff struct {
	Path      string
	Hunks     []DiffHunk
	Additions int
	Deletions int
}

// GenerateDiff computes a unified diff from original to modified.
// It returns nil when the two texts have the same lines.
func GenerateDiff(path, original, modified string) *Diff {
	before := diffLines(original)
	after := diffLines(modified)

	ops := diffOps(before, after)
	hunks := groupHunks(ops)
	if len(hunks) == 0 {
		return nil
	}

	diff := &Diff{Path: path, Hunks: hunks}
	for _, op := range ops {
		switch op.kind {
		case DiffLineAdd:
			diff.Additions++
		case DiffLineRemove:
			diff.Deletions++
		case DiffLineContext:
		}
	}
	return diff
}

// HasChanges reports whether the diff contains at least one hunk.
func (d *Diff) HasChanges() bool {
	return d != nil && len(d.Hunks) > 0
}

// String renders the diff in unified format with ---/+++ headers.
func (d *Diff) String() string {
	if !d.HasChanges() {
		return ""
	}

	path := strings.TrimPrefix(d.Path, "/")

	var builder strings.Builder
	fmt.Fprintf(&builder, "--- a/%s\n+++ b/%s\n", path, path)
	for _, hunk := range d.Hunks {
		fmt.Fprintf(&builder, "@@ -%d,%d +%d,%d @@\n",
			hunk.OriginalStart, hunk.OriginalCount, hunk.ModifiedStart, hunk.ModifiedCount)
		for _, line := range hunk.Lines {
			builder.WriteByte(linePrefix(line.Kind))
			builder.WriteString(line.Content)
			builder.WriteByte('\n')
		}
	}
	return builder.String()
}

func linePrefix(kind DiffLineKind) byte {
	switch kind {
	case DiffLineAdd:
		return '+'
	case DiffLineRemove:
		return '-'
	case DiffLineContext:
	}
	return ' '
}

func diffLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

type diffOp struct {
	kind    DiffLineKind
	content string
}

// diffOps walks the longest-common-subsequence table of the two line slices
// and emits context, removal and addition operations in document order.
func diffOps(before, after []string) []diffOp {
	rows, cols := len(before), len(after)

	// table[i][j] holds the LCS length of before[i:] and after[j:].
	table := make([][]int, rows+1)
	for i := range table {
		table[i] = make([]int, cols+1)
	}
	for i := rows - 1; i >= 0; i-- {
		for j := cols - 1; j >= 0; j-- {
			if before[i] == after[j] {
				table[i][j] = table[i+1][j+1] + 1
			} else {
				table[i][j] = max(table[i+1][j], table[i][j+1])
			}
		}
	}

	ops := make([]diffOp, 0, rows+cols)
	i, j := 0, 0
	for i < rows && j < cols {
		switch {
		case before[i] == after[j]:
			ops = append(ops, diffOp{DiffLineContext, before[i]})
			i++
			j++
		case table[i+1][j] >= table[i][j+1]:
			ops = append(ops, diffOp{DiffLineRemove, before[i]})
			i++
		default:
			ops = append(ops, diffOp{DiffLineAdd, after[j]})
			j++
		}
	}
	for ; i < rows; i++ {
		ops = append(ops, diffOp{DiffLineRemove, before[i]})
	}
	for ; j < cols; j++ {
		ops = append(ops, diffOp{DiffLineAdd, after[j]})
	}
	return ops
}

// groupHunks cuts the operation stream into hunks, merging changes separated
// by no more than twice the context size.
func groupHunks(ops []diffOp) []DiffHunk {
	var hunks []DiffHunk

	idx := 0
	for idx < len(ops) {
		for idx < len(ops) && ops[idx].kind == DiffLineContext {
			idx++
		}
		if idx == len(ops) {
			break
		}

		start := max(0, idx-contextLines)
		end := idx
		for end < len(ops) {
			if ops[end].kind != DiffLineContext {
				end++
				continue
			}
			run := end
			for run < len(ops) && ops[run].kind == DiffLineContext {
				run++
			}
			if run == len(ops) || run-end > contextLines*2 {
				break
			}
			end = run
		}
		stop := min(len(ops), end+contextLines)

		hunks = append(hunks, buildHunk(ops, start, stop))
		idx = stop
	}
	return hunks
}

func buildHunk(ops []diffOp, start, stop int) DiffHunk {
	hunk := DiffHunk{OriginalStart: 1, ModifiedStart: 1}
	for _, op := range ops[:start] {
		if op.kind != DiffLineAdd {
			hunk.OriginalStart++
		}
		if op.kind != DiffLineRemove {
			hunk.ModifiedStart++
		}
	}

	for _, op := range ops[start:stop] {
		hunk.Lines = append(hunk.Lines, DiffLine{Kind: op.kind, Content: op.content})
		if op.kind != DiffLineAdd {
			hunk.OriginalCount++
		}
		if op.kind != DiffLineRemove {
			hunk.ModifiedCount++
		}
	}
	return hunk
}
