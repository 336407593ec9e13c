package pretty

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/sokki/pkg/runner"
)

// Table formatting constants.
const (
	tablePadding     = 2
	tableColumnCount = 4 // FILE, OUTPUT, SIZE, STATUS
	minFileWidth     = 20
	minOutputWidth   = 20
	sizeWidth        = 9
	minStatusWidth   = 10
	heavySeparator   = "="
	defaultTermWidth = 100
)

// Row statuses.
const (
	StatusRendered = "rendered"
	StatusSkipped  = "up to date"
	StatusFailed   = "failed"
)

// TableRow represents a single row in the render table.
type TableRow struct {
	File   string
	Output string
	Size   string
	Status string
	Err    error
}

// TableFormatter formats render results as a styled table.
type TableFormatter struct {
	styles    *Styles
	termWidth int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{
		styles:    styles,
		termWidth: termWidth,
	}
}

// FormatTable formats runner results as a styled table. Paths are shown
// relative to baseDir when possible.
func (t *TableFormatter) FormatTable(result *runner.Result, baseDir string) string {
	if result == nil || len(result.Files) == 0 {
		return ""
	}

	rows := make([]TableRow, 0, len(result.Files))
	for _, file := range result.Files {
		rows = append(rows, OutcomeToTableRow(file, baseDir))
	}

	widths := t.calculateColumnWidths(rows)

	var builder strings.Builder
	builder.WriteString(t.formatHeader(widths))
	builder.WriteString("\n")
	builder.WriteString(t.formatSeparator(widths))
	builder.WriteString("\n")

	for _, row := range rows {
		builder.WriteString(t.formatRow(row, widths))
		builder.WriteString("\n")
	}

	builder.WriteString(t.formatSeparator(widths))
	builder.WriteString("\n")

	return builder.String()
}

// OutcomeToTableRow converts a file outcome to a table row.
func OutcomeToTableRow(file runner.FileOutcome, baseDir string) TableRow {
	row := TableRow{
		File:   relativeTo(baseDir, file.Path),
		Output: relativeTo(baseDir, file.Output),
	}

	switch {
	case file.Error != nil:
		row.Status = StatusFailed
		row.Err = file.Error
	case file.Skipped:
		row.Status = StatusSkipped
	default:
		row.Status = StatusRendered
		row.Size = FormatBytes(file.Bytes)
	}
	return row
}

type columnWidths struct {
	file   int
	output int
	status int
}

// calculateColumnWidths determines optimal column widths based on content.
func (t *TableFormatter) calculateColumnWidths(rows []TableRow) columnWidths {
	widths := columnWidths{
		file:   minFileWidth,
		output: minOutputWidth,
		status: minStatusWidth,
	}

	for _, row := range rows {
		widths.file = max(widths.file, len(row.File))
		widths.output = max(widths.output, len(row.Output))
		widths.status = max(widths.status, len(statusText(row)))
	}

	// Constrain to terminal width, giving up status space first.
	totalWidth := t.calculateTotalWidth(widths)
	if totalWidth > t.termWidth {
		excess := totalWidth - t.termWidth
		widths.status = max(minStatusWidth, widths.status-excess)

		totalWidth = t.calculateTotalWidth(widths)
		if totalWidth > t.termWidth {
			excess = totalWidth - t.termWidth
			widths.output = max(minOutputWidth, widths.output-excess)
		}

		totalWidth = t.calculateTotalWidth(widths)
		if totalWidth > t.termWidth {
			excess = totalWidth - t.termWidth
			widths.file = max(minFileWidth, widths.file-excess)
		}
	}

	return widths
}

func (t *TableFormatter) calculateTotalWidth(widths columnWidths) int {
	return widths.file + widths.output + sizeWidth + widths.status + (tablePadding * tableColumnCount)
}

func (t *TableFormatter) formatHeader(widths columnWidths) string {
	header := fmt.Sprintf(" %-*s  %-*s  %*s  %-*s ",
		widths.file, "FILE",
		widths.output, "OUTPUT",
		sizeWidth, "SIZE",
		widths.status, "STATUS",
	)
	return t.styles.TableHeader.Render(header)
}

func (t *TableFormatter) formatSeparator(widths columnWidths) string {
	return t.styles.TableSeparator.Render(strings.Repeat(heavySeparator, t.calculateTotalWidth(widths)))
}

func (t *TableFormatter) formatRow(row TableRow, widths columnWidths) string {
	content := fmt.Sprintf(" %-*s  %-*s  %*s  %-*s ",
		widths.file, truncateFilePath(row.File, widths.file),
		widths.output, truncateFilePath(row.Output, widths.output),
		sizeWidth, row.Size,
		widths.status, truncateString(statusText(row), widths.status),
	)
	return t.getRowStyle(row).Render(content)
}

func (t *TableFormatter) getRowStyle(row TableRow) lipgloss.Style {
	switch row.Status {
	case StatusFailed:
		return t.styles.TableErrorRow
	case StatusSkipped:
		return t.styles.TableSkipRow
	default:
		return lipgloss.NewStyle()
	}
}

func statusText(row TableRow) string {
	if row.Err != nil {
		return row.Status + ": " + row.Err.Error()
	}
	return row.Status
}

func relativeTo(baseDir, path string) string {
	if baseDir == "" || path == "" {
		return path
	}
	rel, err := filepath.Rel(baseDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(str string, maxLen int) string {
	if len(str) <= maxLen {
		return str
	}
	if maxLen <= 3 {
		return str[:maxLen]
	}
	return str[:maxLen-3] + "..."
}

// truncateFilePath truncates a file path, preserving the end (filename) rather than beginning.
func truncateFilePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	if maxLen <= 3 {
		return path[len(path)-maxLen:]
	}
	return "..." + path[len(path)-maxLen+3:]
}
