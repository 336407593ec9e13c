// Package pretty provides Lipgloss-based styled output utilities.
package pretty

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// ColorMode selects when output is colorized.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode parses a --color value. An empty value is ColorAuto.
func ParseColorMode(value string) (ColorMode, error) {
	switch mode := ColorMode(strings.ToLower(strings.TrimSpace(value))); mode {
	case "":
		return ColorAuto, nil
	case ColorAuto, ColorAlways, ColorNever:
		return mode, nil
	default:
		return ColorAuto, fmt.Errorf("invalid color mode %q: want auto, always or never", value)
	}
}

// Styles renders sokki's terminal output: the diffs of edit and restore,
// and the render reports.
type Styles struct {
	// FilePath names a document or page.
	FilePath lipgloss.Style
	// Success and Failure mark finished writes, restores and renders.
	Success lipgloss.Style
	Failure lipgloss.Style
	// Modified flags a document that changed on disk after its snapshot.
	Modified lipgloss.Style
	Dim      lipgloss.Style

	DiffHeader  lipgloss.Style
	DiffHunk    lipgloss.Style
	DiffAdd     lipgloss.Style
	DiffRemove  lipgloss.Style
	DiffContext lipgloss.Style

	SummaryTitle   lipgloss.Style
	SummaryValue   lipgloss.Style
	TableHeader    lipgloss.Style
	TableErrorRow  lipgloss.Style
	TableSkipRow   lipgloss.Style
	TableSeparator lipgloss.Style
}

// palette holds the ANSI colors the styles are built from.
type palette struct {
	added   lipgloss.Color
	removed lipgloss.Color
	hunk    lipgloss.Color
	notice  lipgloss.Color
	muted   lipgloss.Color
	header  lipgloss.Color
}

//nolint:gochecknoglobals // Read-only color table.
var ansiPalette = palette{
	added:   lipgloss.Color("10"),
	removed: lipgloss.Color("9"),
	hunk:    lipgloss.Color("14"),
	notice:  lipgloss.Color("11"),
	muted:   lipgloss.Color("8"),
	header:  lipgloss.Color("7"),
}

// NewStyles creates the output styles. Without color every style renders
// text unchanged.
func NewStyles(colorEnabled bool) *Styles {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return &Styles{
			FilePath: plain, Success: plain, Failure: plain, Modified: plain, Dim: plain,
			DiffHeader: plain, DiffHunk: plain, DiffAdd: plain, DiffRemove: plain, DiffContext: plain,
			SummaryTitle: plain, SummaryValue: plain,
			TableHeader: plain, TableErrorRow: plain, TableSkipRow: plain, TableSeparator: plain,
		}
	}
	return ansiPalette.styles()
}

func (p palette) styles() *Styles {
	bold := lipgloss.NewStyle().Bold(true)
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

	return &Styles{
		FilePath: bold,
		Success:  fg(p.added).Bold(true),
		Failure:  fg(p.removed).Bold(true),
		Modified: fg(p.notice).Bold(true),
		Dim:      fg(p.muted),

		DiffHeader:  bold,
		DiffHunk:    fg(p.hunk),
		DiffAdd:     fg(p.added),
		DiffRemove:  fg(p.removed),
		DiffContext: fg(p.muted),

		SummaryTitle:   bold,
		SummaryValue:   lipgloss.NewStyle(),
		TableHeader:    fg(p.header).Bold(true),
		TableErrorRow:  fg(p.removed),
		TableSkipRow:   fg(p.muted),
		TableSeparator: fg(p.muted),
	}
}

// IsColorEnabled reports whether output to writer is colorized under mode.
// Auto colors terminals unless NO_COLOR is set; an invalid mode counts as
// auto.
func IsColorEnabled(mode string, writer io.Writer) bool {
	parsed, err := ParseColorMode(mode)
	if err != nil {
		parsed = ColorAuto
	}

	switch parsed {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	case ColorAuto:
	}

	// https://no-color.org/
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := writer.(*os.File)
	return ok && IsTerminal(f)
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
