package cli

import (
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/sokki/internal/configloader"
	"github.com/yaklabco/sokki/internal/ui/pretty"
)

// HelpStyles contains Lipgloss styles for command help formatting.
type HelpStyles struct {
	Command     lipgloss.Style
	Heading     lipgloss.Style
	Subcommand  lipgloss.Style
	Flag        lipgloss.Style
	EnvVar      lipgloss.Style
	Description lipgloss.Style
	Example     lipgloss.Style
	Dim         lipgloss.Style
}

// NewHelpStyles creates help styles based on color mode.
func NewHelpStyles(colorEnabled bool) *HelpStyles {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return &HelpStyles{
			Command: plain, Heading: plain, Subcommand: plain, Flag: plain,
			EnvVar: plain, Description: plain, Example: plain, Dim: plain,
		}
	}
	return &HelpStyles{
		Command:     lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		Heading:     lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		Subcommand:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Flag:        lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		EnvVar:      lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
		Description: lipgloss.NewStyle(),
		Example:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Dim:         lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// HelpFormatter provides styled help output for Cobra commands. Styles are
// chosen when help is printed, from the parsed --color flag and the
// command's output.
type HelpFormatter struct {
	defaultMode string
}

// NewHelpFormatter creates a help formatter. colorMode applies when the
// command has no --color flag.
func NewHelpFormatter(colorMode string) *HelpFormatter {
	return &HelpFormatter{defaultMode: colorMode}
}

// stylesFor resolves the help styles for cmd.
func (h *HelpFormatter) stylesFor(cmd *cobra.Command) *HelpStyles {
	mode := h.defaultMode
	if flag := cmd.Flag("color"); flag != nil {
		mode = flag.Value.String()
	}
	return NewHelpStyles(pretty.IsColorEnabled(mode, cmd.OutOrStdout()))
}

// helpFuncs returns template functions for styled help rendering.
func helpFuncs(styles *HelpStyles) template.FuncMap {
	return template.FuncMap{
		"styleCommand":            styles.Command.Render,
		"styleHeading":            styles.Heading.Render,
		"styleSubcommand":         styles.Subcommand.Render,
		"styleDescription":        styles.Description.Render,
		"styleExample":            styles.Example.Render,
		"styleDim":                styles.Dim.Render,
		"styleFlagsUsage":         func(flags *pflag.FlagSet) string { return styleFlagsUsage(styles, flags) },
		"envVarsUsage":            func() string { return envVarsUsage(styles) },
		"join":                    strings.Join,
		"rpad":                    rpad,
		"trimTrailingWhitespaces": trimTrailingWhitespaces,
	}
}

// usageTemplate returns the styled usage template.
func (h *HelpFormatter) usageTemplate() string {
	return `{{ styleHeading "Usage:" }}
  {{if .Runnable}}{{ styleCommand .UseLine }}{{end}}
  {{if .HasAvailableSubCommands}}{{ styleCommand .CommandPath }} [command]{{end}}

{{- if gt (len .Aliases) 0}}

{{ styleHeading "Aliases:" }}
  {{ styleDim (join .Aliases ", ") }}
{{- end}}

{{- if .HasExample}}

{{ styleHeading "Examples:" }}
{{ styleExample .Example }}
{{- end}}

{{- if .HasAvailableSubCommands}}

{{ styleHeading "Available Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ styleSubcommand (rpad .Name .NamePadding) }} {{ styleDescription .Short }}{{end}}{{end}}
{{- end}}

{{- if .HasAvailableLocalFlags}}

{{ styleHeading "Flags:" }}
{{ styleFlagsUsage .LocalFlags }}
{{- end}}

{{- if .HasAvailableInheritedFlags}}

{{ styleHeading "Global Flags:" }}
{{ styleFlagsUsage .InheritedFlags }}
{{- end}}

{{- if .HasHelpSubCommands}}

{{ styleHeading "Additional help topics:" }}{{range .Commands}}{{if .IsAdditionalHelpTopicCommand}}
  {{ styleSubcommand (rpad .CommandPath .CommandPathPadding) }} {{ styleDescription .Short }}{{end}}{{end}}
{{- end}}

{{- if not .HasParent}}

{{ styleHeading "Environment:" }}
{{ envVarsUsage }}
{{- end}}

{{- if .HasAvailableSubCommands}}

Use "{{ styleCommand (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
`
}

// helpTemplate returns the styled help template.
func (h *HelpFormatter) helpTemplate() string {
	return `{{if or .Runnable .HasSubCommands}}{{ styleCommand .CommandPath }}{{if .Version}} {{ styleDim .Version }}{{end}}

{{end}}{{with (or .Long .Short)}}{{ . | trimTrailingWhitespaces }}

{{end}}` + h.usageTemplate()
}

// envVarsUsage lists the configuration environment variables, one per line.
func envVarsUsage(styles *HelpStyles) string {
	vars := configloader.ListEnvVars()
	names := make([]string, 0, len(vars))
	width := 0
	for name := range vars {
		names = append(names, name)
		width = max(width, len(name))
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, "  "+styles.EnvVar.Render(rpad(name, width))+"   "+styles.Description.Render(vars[name]))
	}
	return strings.Join(lines, "\n")
}

// styleFlagsUsage formats pflag usage lines with the flag names highlighted.
func styleFlagsUsage(styles *HelpStyles, flags *pflag.FlagSet) string {
	usages := strings.TrimSuffix(flags.FlagUsages(), "\n")
	if usages == "" {
		return ""
	}

	lines := strings.Split(usages, "\n")
	for idx, line := range lines {
		lines[idx] = styleFlagLine(styles, line)
	}
	return strings.Join(lines, "\n")
}

// styleFlagLine styles one "  -f, --flag type   description" line.
func styleFlagLine(styles *HelpStyles, line string) string {
	trimmed := strings.TrimLeft(line, " ")
	if trimmed == "" {
		return line
	}
	indent := line[:len(line)-len(trimmed)]

	parts := splitFlagLine(trimmed)
	if len(parts) != 2 {
		return line
	}
	return indent + styleFlagPart(styles, parts[0]) + "   " + styles.Description.Render(parts[1])
}

// splitFlagLine splits a flag line into [flagPart, description].
func splitFlagLine(line string) []string {
	// Find the first occurrence of 2+ spaces followed by non-space
	inSpaces := false
	spaceStart := -1
	minSpaceGap := 2 // Minimum consecutive spaces to identify boundary

	for idx, char := range line {
		if char == ' ' {
			if !inSpaces {
				inSpaces = true
				spaceStart = idx
			}
		} else {
			if inSpaces && idx-spaceStart >= minSpaceGap {
				// Found the boundary
				return []string{
					strings.TrimRight(line[:spaceStart], " "),
					line[idx:],
				}
			}
			inSpaces = false
		}
	}

	return []string{line}
}

// styleFlagPart colors flag names and dims the value type.
func styleFlagPart(styles *HelpStyles, flagPart string) string {
	tokens := strings.Fields(flagPart)
	for idx, token := range tokens {
		if !strings.HasPrefix(token, "-") {
			tokens[idx] = styles.Dim.Render(token)
			continue
		}
		name, comma := strings.CutSuffix(token, ",")
		tokens[idx] = styles.Flag.Render(name)
		if comma {
			tokens[idx] += ","
		}
	}
	return strings.Join(tokens, " ")
}

// ApplyToCommand installs the styled usage and help functions on cmd. Cobra
// hands them down to every subcommand.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	cmd.SetUsageFunc(func(command *cobra.Command) error {
		return h.execute(command, "usage", h.usageTemplate())
	})
	cmd.SetHelpFunc(func(command *cobra.Command, _ []string) {
		if err := h.execute(command, "help", h.helpTemplate()); err != nil {
			command.PrintErrln(err)
		}
	})
}

func (h *HelpFormatter) execute(cmd *cobra.Command, name, text string) error {
	tmpl, err := template.New(name).Funcs(helpFuncs(h.stylesFor(cmd))).Parse(text)
	if err != nil {
		return fmt.Errorf("parse %s template: %w", name, err)
	}
	if err := tmpl.Execute(cmd.OutOrStdout(), cmd); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}

// rpad adds padding to the right of a string.
func rpad(str string, padding int) string {
	if len(str) >= padding {
		return str
	}
	return str + strings.Repeat(" ", padding-len(str))
}

// trimTrailingWhitespaces removes trailing whitespace from lines.
func trimTrailingWhitespaces(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
