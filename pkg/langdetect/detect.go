// Package langdetect guesses the language of a fenced code block that has
// no info string, so the preview can still highlight it.
package langdetect

import (
	"regexp"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// rule recognizes a language from a tell-tale pattern. Rules are checked in
// order; the first match wins.
type rule struct {
	lang  string
	match func(code, trimmed string) bool
}

//nolint:gochecknoglobals // Compiled once, read-only
var (
	yamlKeyRe = regexp.MustCompile(`(?m)^\s*(- )?[A-Za-z_][\w.-]*:(\s|$)`)
	sqlRe     = regexp.MustCompile(`(?i)^(select|insert|update|delete|create|alter|drop|with)\s`)
)

//nolint:gochecknoglobals // Read-only rule table
var rules = []rule{
	{lang: "go", match: func(_, trimmed string) bool {
		return strings.HasPrefix(trimmed, "package ") || strings.Contains(trimmed, "func main() {")
	}},
	{lang: "python", match: func(code, _ string) bool {
		return strings.Contains(code, "__name__") ||
			(strings.Contains(code, "def ") && strings.Contains(code, "):")) ||
			(strings.Contains(code, "import ") && strings.Contains(code, "from "))
	}},
	{lang: "html", match: func(_, trimmed string) bool {
		lower := strings.ToLower(trimmed)
		return strings.HasPrefix(lower, "<!doctype html") || strings.Contains(lower, "<html") ||
			strings.Contains(lower, "<body>")
	}},
	{lang: "json", match: func(_, trimmed string) bool {
		return (strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")) &&
			strings.Contains(trimmed, `"`) && !strings.Contains(trimmed, ";")
	}},
	{lang: "docker", match: func(code, trimmed string) bool {
		return strings.HasPrefix(trimmed, "FROM ") ||
			(strings.Contains(code, "\nRUN ") && strings.Contains(code, "\nCOPY "))
	}},
	{lang: "sql", match: func(_, trimmed string) bool {
		return sqlRe.MatchString(trimmed)
	}},
	{lang: "rust", match: func(code, _ string) bool {
		return strings.Contains(code, "fn main()") || strings.Contains(code, "println!") ||
			strings.Contains(code, "let mut ")
	}},
	{lang: "javascript", match: func(code, _ string) bool {
		return strings.Contains(code, "=>") || strings.Contains(code, "console.log") ||
			strings.Contains(code, "const ")
	}},
	{lang: "yaml", match: func(code, _ string) bool {
		return len(yamlKeyRe.FindAllStringIndex(code, 3)) >= 2
	}},
}

// classifierCandidates limits the Bayesian classifier to languages people
// commonly paste into notes.
//
//nolint:gochecknoglobals // Read-only candidate list
var classifierCandidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript", "Ruby", "Rust", "Java",
	"C", "C++", "C#", "SQL", "JSON", "YAML", "HTML", "CSS", "Markdown", "Dockerfile",
}

// Guess returns a lexer name for code. It reports false when nothing
// recognizable was found.
func Guess(code string) (string, bool) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return "", false
	}

	if lang, safe := enry.GetLanguageByShebang([]byte(code)); safe {
		return lexerName(lang), true
	}

	for _, r := range rules {
		if r.match(code, trimmed) {
			return r.lang, true
		}
	}

	if lang, safe := enry.GetLanguageByClassifier([]byte(code), classifierCandidates); safe && lang != "" {
		return lexerName(lang), true
	}

	return "", false
}

// lexerName maps a linguist language name to the alias the highlighter
// registers for it.
func lexerName(lang string) string {
	switch lang {
	case "Shell":
		return "bash"
	case "C++":
		return "cpp"
	case "C#":
		return "csharp"
	case "Dockerfile":
		return "docker"
	}
	return strings.ToLower(lang)
}
