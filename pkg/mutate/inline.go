package mutate

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/yaklabco/sokki/pkg/textbuf"
)

//nolint:gochecknoglobals // Compiled patterns are package-level for reuse
var (
	headingShortcutRe = regexp.MustCompile(`[#＃]([1-6１-６])$`)
	tableShortcutRe   = regexp.MustCompile(`[tｔ]([1-9１-９])$`)
	taskShortcutRe    = regexp.MustCompile(`\[\]$`)
	taskBoxRe         = regexp.MustCompile(`- \[([ xX])\]`)
)

// TablePlaceholder is the header text of a table created by the t1..t9
// shortcut.
const TablePlaceholder = "Header"

// ExpandShortcut expands the shortcut typed just before the cursor:
// #1..#6 becomes a heading prefix, t1..t9 a table with that many columns and
// [] an unchecked task item. Full-width variants are accepted.
func ExpandShortcut(buf textbuf.Buffer) (textbuf.Buffer, bool) {
	start := buf.Sel.Start
	before := buf.Text[:start]

	if match := headingShortcutRe.FindStringSubmatch(before); match != nil {
		from := start - len(match[0])
		hashes := strings.Repeat("#", shortcutDigit(match[1])) + " "
		return buf.Replace(from, start, hashes, from+len(hashes)), true
	}

	if match := tableShortcutRe.FindStringSubmatch(before); match != nil {
		from := start - len(match[0])
		columns := shortcutDigit(match[1])
		table := tableRow(columns, TablePlaceholder) + "\n" +
			tableRow(columns, "---") + "\n" +
			tableRow(columns, " ")
		cell := from + len("| ")
		return buf.Replace(from, start, table, cell).WithSelection(cell, cell+len(TablePlaceholder)), true
	}

	if match := taskShortcutRe.FindString(before); match != "" {
		from := start - len(match)
		const task = "- [ ] "
		return buf.Replace(from, start, task, from+len(task)), true
	}

	return buf, false
}

// shortcutDigit converts an ASCII or full-width digit to its value.
func shortcutDigit(s string) int {
	r, _ := utf8.DecodeRuneInString(s)
	if r >= '１' && r <= '９' {
		return int(r-'１') + 1
	}
	return int(r - '0')
}

// ToggleFormat wraps the selection in prefix and suffix. With a caret the
// cursor is left between the two; otherwise the wrapped text is selected.
// An empty suffix repeats the prefix.
func ToggleFormat(buf textbuf.Buffer, prefix, suffix string) textbuf.Buffer {
	if suffix == "" {
		suffix = prefix
	}

	start := buf.Sel.Start
	wrapped := prefix + buf.Selected() + suffix
	if buf.Sel.Collapsed() {
		return buf.Replace(start, buf.Sel.End, wrapped, start+len(prefix))
	}
	return buf.Replace(start, buf.Sel.End, wrapped, start).WithSelection(start, start+len(wrapped))
}

// InsertText replaces the selection with s and leaves the cursor after it.
func InsertText(buf textbuf.Buffer, s string) textbuf.Buffer {
	return buf.Insert(s)
}

// ParagraphBreak handles Enter on ordinary text by starting a new paragraph.
// On a blank line followed by content a single newline is enough.
func ParagraphBreak(buf textbuf.Buffer) textbuf.Buffer {
	line, _, lineEnd := textbuf.LineAt(buf.Text, buf.Sel.Start)
	if textbuf.IsBlank(line) && lineEnd < len(buf.Text) {
		next, _, _ := textbuf.LineAt(buf.Text, lineEnd+1)
		if !textbuf.IsBlank(next) {
			return buf.Insert("\n")
		}
	}
	return buf.Insert("\n\n")
}

// ToggleTaskCheckbox flips the index-th task checkbox in document order.
// The selection is kept.
func ToggleTaskCheckbox(buf textbuf.Buffer, index int) (textbuf.Buffer, bool) {
	matches := taskBoxRe.FindAllStringSubmatchIndex(buf.Text, -1)
	if index < 0 || index >= len(matches) {
		return buf, false
	}

	match := matches[index]
	box := "x"
	if buf.Text[match[2]:match[3]] != " " {
		box = " "
	}

	out := buf
	out.Text = buf.Text[:match[2]] + box + buf.Text[match[3]:]
	return out.Clamp(), true
}
