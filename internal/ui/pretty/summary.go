package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/sokki/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "3 pages rendered (12.4 KB), 1 up to date, 1 failed".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.FilesDiscovered == 0 {
		return s.Dim.Render("No Markdown files found") + "\n"
	}

	pageWord := "pages"
	if stats.FilesRendered == 1 {
		pageWord = "page"
	}

	var parts []string
	parts = append(parts, s.Success.Render(fmt.Sprintf("%d %s rendered", stats.FilesRendered, pageWord))+
		s.Dim.Render(" ("+FormatBytes(stats.BytesWritten)+")"))

	if stats.FilesSkipped > 0 {
		parts = append(parts, s.Dim.Render(fmt.Sprintf("%d up to date", stats.FilesSkipped)))
	}

	if stats.FilesErrored > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d failed", stats.FilesErrored)))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	fileWord := wordFiles
	if stats.FilesDiscovered == 1 {
		fileWord = wordFile
	}
	builder.WriteString("  Discovered:    " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesDiscovered)+" "+fileWord) + "\n")
	builder.WriteString("  Rendered:      " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesRendered)) + "\n")

	if stats.FilesSkipped > 0 {
		builder.WriteString("  Up to date:    " +
			s.Dim.Render(strconv.Itoa(stats.FilesSkipped)) + "\n")
	}

	if stats.FilesErrored > 0 {
		builder.WriteString("  Failed:        " +
			s.Failure.Render(strconv.Itoa(stats.FilesErrored)) + "\n")
	}

	builder.WriteString("  Bytes written: " +
		s.SummaryValue.Render(FormatBytes(stats.BytesWritten)) + "\n")

	builder.WriteString("\n")

	if stats.FilesErrored > 0 {
		builder.WriteString(s.Failure.Render("Render failed for some files"))
	} else {
		builder.WriteString(s.Success.Render("Render complete"))
	}
	builder.WriteString("\n")

	return builder.String()
}

// FormatBytes formats a byte count with a binary unit suffix.
func FormatBytes(n int) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}

	div, exp := unit, 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGT"[exp])
}
