package pretty

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/sokki/pkg/textedit"
)

// FormatDiff renders a unified diff with each line styled by its kind.
// It returns an empty string when the diff has no changes.
func (s *Styles) FormatDiff(diff *textedit.Diff) string {
	if !diff.HasChanges() {
		return ""
	}

	var builder strings.Builder
	for _, line := range strings.SplitAfter(diff.String(), "\n") {
		if line == "" {
			continue
		}
		body := strings.TrimSuffix(line, "\n")
		builder.WriteString(s.diffLineStyle(body).Render(body))
		builder.WriteByte('\n')
	}
	return builder.String()
}

func (s *Styles) diffLineStyle(line string) lipgloss.Style {
	switch {
	case strings.HasPrefix(line, "--- "), strings.HasPrefix(line, "+++ "):
		return s.DiffHeader
	case strings.HasPrefix(line, "@@"):
		return s.DiffHunk
	case strings.HasPrefix(line, "+"):
		return s.DiffAdd
	case strings.HasPrefix(line, "-"):
		return s.DiffRemove
	default:
		return s.DiffContext
	}
}

// FormatDiffStat formats a one-line change count for a diff.
// Example: "notes.md: 3 additions, 1 deletion".
func (s *Styles) FormatDiffStat(diff *textedit.Diff) string {
	if !diff.HasChanges() {
		return s.Dim.Render("no changes") + "\n"
	}

	return fmt.Sprintf("%s: %s, %s\n",
		s.FilePath.Render(diff.Path),
		s.DiffAdd.Render(plural(diff.Additions, "addition", "additions")),
		s.DiffRemove.Render(plural(diff.Deletions, "deletion", "deletions")),
	)
}

// FormatFileHeader formats a file header with its dirty state.
func (s *Styles) FormatFileHeader(path string, dirty bool) string {
	header := s.FilePath.Render(path)
	if dirty {
		header += s.Modified.Render(" (modified)")
	}
	return header
}

func plural(count int, one, many string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, one)
	}
	return fmt.Sprintf("%d %s", count, many)
}
