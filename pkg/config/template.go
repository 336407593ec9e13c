package config

import (
	"fmt"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full writes every setting with its default value.
	// If false, generates a minimal commented template.
	Full bool
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Full {
		return generateFullTemplate()
	}
	return []byte(minimalTemplate), nil
}

const minimalTemplate = DefaultTemplateComment + `
# See: https://github.com/yaklabco/sokki

# Markdown flavor for the preview: commonmark or gfm
flavor: gfm

# Log level: debug, info, warn, or error
# log_level: warn

# Undo history
# history:
#   limit: 200
#   coalesce_window: 600ms

# Crash-recovery snapshot of unsaved edits
# autosave:
#   enabled: true
#   debounce: 500ms
#   dir: ~/.local/share/sokki/autosave

# HTML preview
# preview:
#   highlight: true
#   style: github
#   detect_language: true
#   classes: false

# Reload the document when the file changes on disk
# watch:
#   delay: 500ms

# Backups made by edit --write
# backups:
#   enabled: false
#   mode: sidecar

# File patterns skipped by render (glob patterns)
# ignore:
#   - "vendor/**"
#   - "node_modules/**"
`

// generateFullTemplate writes the defaults as YAML.
func generateFullTemplate() ([]byte, error) {
	header := DefaultTemplateComment + " - Full Template\n" +
		"# See: https://github.com/yaklabco/sokki\n" +
		"#\n" +
		"# Every setting with its default value."

	out, err := NewConfig().ToYAMLWithHeader(header)
	if err != nil {
		return nil, fmt.Errorf("generate template: %w", err)
	}
	return out, nil
}
