package preview

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
)

//nolint:gochecknoglobals // Parsed once, read-only
var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { max-width: 50em; margin: 2em auto; padding: 0 1em; font-family: sans-serif; line-height: 1.6; }
table { border-collapse: collapse; }
th, td { border: 1px solid #d0d7de; padding: 0.3em 0.8em; }
pre { padding: 0.8em; overflow-x: auto; }
{{.CSS}}
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// Page renders src as a standalone HTML document titled title.
func (r *Renderer) Page(ctx context.Context, title string, src []byte, baseDir string) ([]byte, error) {
	body, err := r.Render(ctx, src, baseDir)
	if err != nil {
		return nil, err
	}

	var css string
	if r.opts.Classes {
		if css, err = r.StyleSheet(); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	err = pageTemplate.Execute(&buf, struct {
		Title string
		CSS   template.CSS
		Body  template.HTML
	}{
		Title: title,
		CSS:   template.CSS(css),          //nolint:gosec // Generated by the highlighter
		Body:  template.HTML(string(body)), //nolint:gosec // Raw HTML in Markdown is rendered on purpose
	})
	if err != nil {
		return nil, fmt.Errorf("execute page template: %w", err)
	}
	return buf.Bytes(), nil
}
