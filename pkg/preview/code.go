package preview

import (
	"bytes"
	"io"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"

	"github.com/yaklabco/sokki/pkg/langdetect"
)

// codeBlockRenderer replaces goldmark's fenced code output with highlighted
// markup. Blocks whose language cannot be resolved keep the plain form.
type codeBlockRenderer struct {
	highlight func(w io.Writer, lang, code string) bool
}

func (c *codeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, c.renderFencedCodeBlock)
}

func (c *codeBlockRenderer) renderFencedCodeBlock(
	w util.BufWriter, source []byte, node ast.Node, entering bool,
) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	block, ok := node.(*ast.FencedCodeBlock)
	if !ok {
		return ast.WalkContinue, nil
	}

	lang := string(block.Language(source))
	var code bytes.Buffer
	lines := block.Lines()
	for i := range lines.Len() {
		line := lines.At(i)
		code.Write(line.Value(source))
	}

	if c.highlight(w, lang, code.String()) {
		return ast.WalkSkipChildren, nil
	}

	_, _ = w.WriteString("<pre><code")
	if lang != "" {
		_, _ = w.WriteString(` class="language-`)
		_, _ = w.Write(util.EscapeHTML([]byte(lang)))
		_ = w.WriteByte('"')
	}
	_ = w.WriteByte('>')
	_, _ = w.Write(util.EscapeHTML(code.Bytes()))
	_, _ = w.WriteString("</code></pre>\n")
	return ast.WalkSkipChildren, nil
}

// highlight writes code as highlighted HTML and reports whether a lexer was
// found for it.
func (r *Renderer) highlight(w io.Writer, lang, code string) bool {
	lexer := r.lexer(lang, code)
	if lexer == nil {
		return false
	}

	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return false
	}
	var buf bytes.Buffer
	if err := r.formatter.Format(&buf, r.style, iterator); err != nil {
		return false
	}
	_, err = w.Write(buf.Bytes())
	return err == nil
}

func (r *Renderer) lexer(lang, code string) chroma.Lexer {
	if lang != "" {
		return lexers.Get(lang)
	}
	if !r.opts.DetectLanguage {
		return nil
	}
	guess, ok := langdetect.Guess(code)
	if !ok {
		return nil
	}
	return lexers.Get(guess)
}
