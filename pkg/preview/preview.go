// Package preview renders Markdown documents to HTML for the live preview
// and for standalone export.
package preview

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// Flavors understood by New.
const (
	FlavorCommonMark = "commonmark"
	FlavorGFM        = "gfm"
)

// DefaultStyle is the highlight style used when none is configured.
const DefaultStyle = "github"

// Options controls rendering.
type Options struct {
	// Flavor selects the Markdown dialect. Unknown values mean GFM.
	Flavor string
	// Highlight enables syntax highlighting of fenced code.
	Highlight bool
	// Style names the chroma style for highlighted code.
	Style string
	// DetectLanguage guesses the language of fences without an info string.
	DetectLanguage bool
	// Classes emits CSS classes instead of inline styles; pair it with
	// StyleSheet.
	Classes bool
}

// DefaultOptions returns GFM with highlighting and detection enabled.
func DefaultOptions() Options {
	return Options{
		Flavor:         FlavorGFM,
		Highlight:      true,
		Style:          DefaultStyle,
		DetectLanguage: true,
	}
}

// Renderer converts Markdown to HTML. It is safe for concurrent use.
type Renderer struct {
	opts      Options
	md        goldmark.Markdown
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// New creates a renderer.
func New(opts Options) *Renderer {
	if opts.Flavor != FlavorCommonMark {
		opts.Flavor = FlavorGFM
	}
	style := styles.Get(opts.Style)
	if style == nil {
		style = styles.Fallback
	}

	r := &Renderer{
		opts:      opts,
		style:     style,
		formatter: chromahtml.New(chromahtml.WithClasses(opts.Classes), chromahtml.TabWidth(4)),
	}

	extensions := []goldmark.Extender{}
	if opts.Flavor == FlavorGFM {
		extensions = append(extensions, extension.GFM)
	}

	rendererOpts := []renderer.Option{html.WithUnsafe()}
	if opts.Highlight {
		rendererOpts = append(rendererOpts, renderer.WithNodeRenderers(
			util.Prioritized(&codeBlockRenderer{highlight: r.highlight}, 200),
		))
	}

	r.md = goldmark.New(
		goldmark.WithExtensions(extensions...),
		goldmark.WithParserOptions(
			parser.WithASTTransformers(util.Prioritized(imageResolver{}, 100)),
		),
		goldmark.WithRendererOptions(rendererOpts...),
	)
	return r
}

// Options returns the options the renderer was built with.
func (r *Renderer) Options() Options {
	return r.opts
}

// Render converts src to an HTML fragment. Relative image paths are
// resolved against baseDir when it is not empty, and task checkboxes are
// numbered in document order with a data-index attribute.
func (r *Renderer) Render(ctx context.Context, src []byte, baseDir string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("render cancelled: %w", err)
	}

	pc := parser.NewContext()
	pc.Set(baseDirKey, baseDir)

	var buf bytes.Buffer
	if err := r.md.Convert(src, &buf, parser.WithContext(pc)); err != nil {
		return nil, fmt.Errorf("convert markdown: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("render cancelled: %w", err)
	}

	return AttributeCheckboxes(buf.Bytes()), nil
}

// StyleSheet returns the CSS for class-based highlighting.
func (r *Renderer) StyleSheet() (string, error) {
	var buf bytes.Buffer
	if err := r.formatter.WriteCSS(&buf, r.style); err != nil {
		return "", fmt.Errorf("write highlight css: %w", err)
	}
	return buf.String(), nil
}

//nolint:gochecknoglobals // Compiled once, read-only
var checkboxRe = regexp.MustCompile(`<input [^>]*type="checkbox"[^>]*>`)

// AttributeCheckboxes rewrites every rendered checkbox into an enabled
// input carrying its position among the document's checkboxes, so a click
// can be mapped back to the matching task marker.
func AttributeCheckboxes(fragment []byte) []byte {
	index := 0
	return checkboxRe.ReplaceAllFunc(fragment, func(match []byte) []byte {
		out := []byte(`<input type="checkbox" data-index="` + strconv.Itoa(index) + `"`)
		if bytes.Contains(match, []byte("checked")) {
			out = append(out, " checked"...)
		}
		index++
		return append(out, '>')
	})
}
