package scan

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// space matches one whitespace character, Unicode spaces such as NBSP and
// U+3000 included.
const space = `[\s\v\x{00A0}\x{1680}\x{2000}-\x{200A}\x{2028}\x{2029}\x{202F}\x{205F}\x{3000}\x{FEFF}]`

const listMarker = `([-*](?:` + space + `\[[ xX]\])?|\d+\.)`

//nolint:gochecknoglobals // Compiled patterns are package-level for reuse
var (
	listLineRe   = regexp.MustCompile(`^(` + space + `*)` + listMarker + space + `(.*)$`)
	listPrefixRe = regexp.MustCompile(`^(` + space + `*)` + listMarker + space)
	taskMarkerRe = regexp.MustCompile(`^([-*])` + space + `\[([ xX])\]$`)
	checkedBoxRe = regexp.MustCompile(`\[[xX]\]`)
	leadingWSRe  = regexp.MustCompile(`^` + space + `*`)
)

// IndentUnit is the number of spaces one nesting level occupies.
const IndentUnit = 4

// ListKind is the marker family of a list item.
type ListKind int

const (
	// Bullet is a "-" or "*" item.
	Bullet ListKind = iota
	// Ordered is a "N." item.
	Ordered
	// Task is a "- [ ]" or "- [x]" item.
	Task
)

func (k ListKind) String() string {
	switch k {
	case Ordered:
		return "ordered"
	case Task:
		return "task"
	case Bullet:
	}
	return "bullet"
}

// ListLine is a parsed list item.
type ListLine struct {
	Indent     string
	IndentLen  int
	Marker     string
	Content    string
	Kind       ListKind
	Number     int
	BulletChar byte
	Checked    bool
}

// String rebuilds the line from its parts.
func (l ListLine) String() string {
	return l.Indent + l.Marker + " " + l.Content
}

// ParseListLine parses a whole line as a list item.
func ParseListLine(line string) (ListLine, bool) {
	match := listLineRe.FindStringSubmatch(line)
	if match == nil {
		return ListLine{}, false
	}

	marker := match[2]
	if isDigit(marker[0]) {
		if _, ok := orderedNumber(marker); !ok {
			return ListLine{}, false
		}
	}

	parsed := ListLine{
		Indent:     match[1],
		IndentLen:  len(match[1]),
		Marker:     marker,
		Content:    match[3],
		Kind:       Bullet,
		BulletChar: marker[0],
	}

	if number, ok := orderedNumber(marker); ok {
		parsed.Kind = Ordered
		parsed.Number = number
	} else if task := taskMarkerRe.FindStringSubmatch(marker); task != nil {
		parsed.Kind = Task
		parsed.Checked = strings.EqualFold(task[2], "x")
	}

	return parsed, true
}

// MarkerMatch is a list marker found at the start of a line, including the
// single whitespace character that follows it.
type MarkerMatch struct {
	Prefix string
	Indent string
	Marker string
}

// MatchListMarker matches a list marker at the start of line. The rest of
// the line is ignored, so it works on the text before the cursor. Numbers
// too large for an int do not match.
func MatchListMarker(line string) (MarkerMatch, bool) {
	match := listPrefixRe.FindStringSubmatch(line)
	if match == nil {
		return MarkerMatch{}, false
	}
	if isDigit(match[2][0]) {
		if _, ok := orderedNumber(match[2]); !ok {
			return MarkerMatch{}, false
		}
	}
	return MarkerMatch{Prefix: match[0], Indent: match[1], Marker: match[2]}, true
}

// Ordered reports whether the marker is numeric.
func (m MarkerMatch) Ordered() bool {
	_, ok := orderedNumber(m.Marker)
	return ok
}

// Next returns the marker that continues this item on a new line: the next
// number for ordered items, an unchecked box for tasks, the same bullet
// otherwise.
func (m MarkerMatch) Next() string {
	if number, ok := orderedNumber(m.Marker); ok {
		return m.Indent + strconv.Itoa(NextNumber(number)) + ". "
	}
	return Uncheck(m.Prefix)
}

// NextNumber returns the number following n. The largest int repeats
// instead of wrapping.
func NextNumber(n int) int {
	if n == math.MaxInt {
		return n
	}
	return n + 1
}

// Uncheck replaces the first checked box in s with an unchecked one.
func Uncheck(s string) string {
	loc := checkedBoxRe.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + "[ ]" + s[loc[1]:]
}

func orderedNumber(marker string) (int, bool) {
	digits, ok := strings.CutSuffix(marker, ".")
	if !ok || digits == "" {
		return 0, false
	}
	for idx := range len(digits) {
		if !isDigit(digits[idx]) {
			return 0, false
		}
	}
	number, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return number, true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// NormalizeListIndentWidth expands tabs to four spaces and rounds the width
// half-up to the nearest multiple of four.
func NormalizeListIndentWidth(rawIndent string) int {
	width := len(strings.ReplaceAll(rawIndent, "\t", strings.Repeat(" ", IndentUnit)))
	return max(0, (width+IndentUnit/2)/IndentUnit*IndentUnit)
}

// LeadingWhitespace returns the number of leading whitespace bytes of line.
func LeadingWhitespace(line string) int {
	return len(leadingWSRe.FindString(line))
}

// EndsWithBreak reports whether line ends with a <br> tag, ignoring trailing
// whitespace.
func EndsWithBreak(line string) bool {
	return strings.HasSuffix(strings.TrimRightFunc(line, isSpace), "<br>")
}

func isSpace(r rune) bool {
	return (unicode.IsSpace(r) && r != '\u0085') || r == '\uFEFF'
}

// linesBefore returns the lines of text[:pos]; the last element is the
// partial line holding the cursor.
func linesBefore(text string, pos int) []string {
	pos = max(0, min(pos, len(text)))
	return strings.Split(text[:pos], "\n")
}

// FindListContext finds the list item that the cursor line continues through
// a chain of lines ending in <br>. It walks upward from the line above the
// cursor; the walk stops at the first line that does not end in <br>.
func FindListContext(text string, pos int) (MarkerMatch, bool) {
	lines := linesBefore(text, pos)
	for idx := len(lines) - 2; idx >= 0; idx-- {
		line := lines[idx]
		if !EndsWithBreak(line) {
			return MarkerMatch{}, false
		}
		if match, ok := MatchListMarker(line); ok {
			return match, true
		}
	}
	return MarkerMatch{}, false
}

// FindParentListItem finds the nearest list item above the cursor line that
// is indented less than indentLen. Blank lines end the search, as do
// shallower non-list lines that do not end in <br>.
func FindParentListItem(text string, pos, indentLen int) (MarkerMatch, bool) {
	lines := linesBefore(text, pos)
	for idx := len(lines) - 2; idx >= 0; idx-- {
		line := lines[idx]
		if strings.TrimSpace(line) == "" {
			break
		}
		if match, ok := MatchListMarker(line); ok {
			if len(match.Indent) < indentLen {
				return match, true
			}
			continue
		}
		if LeadingWhitespace(line) >= indentLen || EndsWithBreak(line) {
			continue
		}
		break
	}
	return MarkerMatch{}, false
}

// FindPreviousOrderedNumberAtIndent returns the number of the nearest ordered
// item above lineIndex at exactly targetIndent, within the same non-blank
// block. Lines in [excludedStart, excludedEnd) are skipped and a shallower
// list item ends the search.
func FindPreviousOrderedNumberAtIndent(lines []string, lineIndex, targetIndent, excludedStart, excludedEnd int) (int, bool) {
	if lineIndex < 0 || lineIndex > len(lines) {
		return 0, false
	}

	blockStart := BlockStart(lines, lineIndex)
	for idx := lineIndex - 1; idx >= blockStart; idx-- {
		if idx >= excludedStart && idx < excludedEnd {
			continue
		}
		parsed, ok := ParseListLine(lines[idx])
		if !ok {
			continue
		}
		if parsed.IndentLen < targetIndent {
			break
		}
		if parsed.IndentLen == targetIndent && parsed.Kind == Ordered {
			return parsed.Number, true
		}
	}
	return 0, false
}

// BlockStart returns the first line index of the run of non-blank lines that
// ends at lineIndex.
func BlockStart(lines []string, lineIndex int) int {
	start := min(lineIndex, len(lines))
	for start > 0 && strings.TrimSpace(lines[start-1]) != "" {
		start--
	}
	return start
}

// BlockEnd returns the last line index of the run of non-blank lines that
// starts at lineIndex.
func BlockEnd(lines []string, lineIndex int) int {
	end := lineIndex
	for end < len(lines)-1 && strings.TrimSpace(lines[end+1]) != "" {
		end++
	}
	return end
}

// FindTemplateAtIndent finds the list item nearest to lineIndex whose indent
// is exactly targetIndent. It searches outward, one line up then one line
// down, within the surrounding non-blank block and skips lines in
// [excludedStart, excludedEnd).
func FindTemplateAtIndent(lines []string, lineIndex, targetIndent, excludedStart, excludedEnd int) (ListLine, bool) {
	if lineIndex < 0 || lineIndex >= len(lines) {
		return ListLine{}, false
	}

	blockStart := BlockStart(lines, lineIndex)
	blockEnd := BlockEnd(lines, lineIndex)
	excluded := func(idx int) bool { return idx >= excludedStart && idx < excludedEnd }

	for dist := 1; lineIndex-dist >= blockStart || lineIndex+dist <= blockEnd; dist++ {
		for _, idx := range [2]int{lineIndex - dist, lineIndex + dist} {
			if idx < blockStart || idx > blockEnd || excluded(idx) {
				continue
			}
			if parsed, ok := ParseListLine(lines[idx]); ok && parsed.IndentLen == targetIndent {
				return parsed, true
			}
		}
	}
	return ListLine{}, false
}
