package preview_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/sokki/pkg/preview"
)

func render(t *testing.T, opts preview.Options, src, baseDir string) string {
	t.Helper()

	out, err := preview.New(opts).Render(context.Background(), []byte(src), baseDir)
	require.NoError(t, err)
	return string(out)
}

func TestRender_GFM(t *testing.T) {
	t.Parallel()

	out := render(t, preview.DefaultOptions(), "| a | b |\n| --- | --- |\n| 1 | 2 |\n\n~~gone~~ <u>kept</u><br>", "")

	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<td>1</td>")
	assert.Contains(t, out, "<del>gone</del>")
	assert.Contains(t, out, "<u>kept</u><br>", "raw html passes through")
}

func TestRender_CommonMarkHasNoTables(t *testing.T) {
	t.Parallel()

	opts := preview.DefaultOptions()
	opts.Flavor = preview.FlavorCommonMark
	out := render(t, opts, "| a | b |\n| --- | --- |", "")

	assert.NotContains(t, out, "<table>")
}

func TestRender_TaskCheckboxes(t *testing.T) {
	t.Parallel()

	out := render(t, preview.DefaultOptions(), "- [ ] one\n- [x] two\n- [X] three\n", "")

	assert.Contains(t, out, `<input type="checkbox" data-index="0">`)
	assert.Contains(t, out, `<input type="checkbox" data-index="1" checked>`)
	assert.Contains(t, out, `<input type="checkbox" data-index="2" checked>`)
	assert.NotContains(t, out, "disabled")
}

func TestAttributeCheckboxes(t *testing.T) {
	t.Parallel()

	in := `<li><input checked="" disabled="" type="checkbox"> a</li><li><input disabled="" type="checkbox"> b</li>`
	want := `<li><input type="checkbox" data-index="0" checked> a</li><li><input type="checkbox" data-index="1"> b</li>`
	assert.Equal(t, want, string(preview.AttributeCheckboxes([]byte(in))))
}

func TestRender_CodeBlocks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		opts     func(*preview.Options)
		src      string
		contains []string
		excludes []string
	}{
		{
			name:     "labelled fence is highlighted",
			src:      "```go\npackage main\n```\n",
			contains: []string{"<pre style=", "package"},
		},
		{
			name:     "unlabelled fence is detected",
			src:      "```\npackage main\n\nfunc main() {}\n```\n",
			contains: []string{"<pre style="},
		},
		{
			name:     "detection disabled keeps plain block",
			opts:     func(o *preview.Options) { o.DetectLanguage = false },
			src:      "```\npackage main\n```\n",
			contains: []string{"<pre><code>package main\n</code></pre>"},
			excludes: []string{"<pre style="},
		},
		{
			name:     "unknown language keeps class and escapes",
			src:      "```nosuchlang\n<b>\n```\n",
			contains: []string{`<pre><code class="language-nosuchlang">&lt;b&gt;`},
		},
		{
			name:     "highlighting disabled",
			opts:     func(o *preview.Options) { o.Highlight = false },
			src:      "```go\nx := 1\n```\n",
			contains: []string{`<code class="language-go">`},
			excludes: []string{"<pre style="},
		},
		{
			name:     "class based output",
			opts:     func(o *preview.Options) { o.Classes = true },
			src:      "```go\nvar x = 1\n```\n",
			contains: []string{`class="chroma"`, `<span class="kd">var</span>`},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			opts := preview.DefaultOptions()
			if testCase.opts != nil {
				testCase.opts(&opts)
			}
			out := render(t, opts, testCase.src, "")
			for _, want := range testCase.contains {
				assert.Contains(t, out, want)
			}
			for _, unwanted := range testCase.excludes {
				assert.NotContains(t, out, unwanted)
			}
		})
	}
}

func TestRender_Images(t *testing.T) {
	t.Parallel()

	out := render(t, preview.DefaultOptions(), "![a](img/a.png) ![b](https://example.com/b.png)", "/notes")
	assert.Contains(t, out, `src="file:///notes/img/a.png"`)
	assert.Contains(t, out, `src="https://example.com/b.png"`)

	out = render(t, preview.DefaultOptions(), "![a](img/a.png)", "")
	assert.Contains(t, out, `src="img/a.png"`)
}

func TestResolveImage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		dest string
		want string
		ok   bool
	}{
		{dest: "a.png", want: "file:///docs/a.png", ok: true},
		{dest: "../shared/a%20b.png", want: "file:///shared/a%20b.png", ok: true},
		{dest: "/abs/c.png", want: "file:///abs/c.png", ok: true},
		{dest: "http://example.com/x.png"},
		{dest: "data:image/png;base64,AAAA"},
		{dest: "#anchor"},
		{dest: ""},
	}

	for _, testCase := range tests {
		t.Run(testCase.dest, func(t *testing.T) {
			t.Parallel()

			got, ok := preview.ResolveImage(testCase.dest, "/docs")
			assert.Equal(t, testCase.ok, ok)
			assert.Equal(t, testCase.want, got)
		})
	}
}

func TestPage(t *testing.T) {
	t.Parallel()

	opts := preview.DefaultOptions()
	opts.Classes = true
	out, err := preview.New(opts).Page(context.Background(), "a < b", []byte("# Title\n\n```go\nvar x int\n```\n"), "")
	require.NoError(t, err)

	page := string(out)
	assert.True(t, strings.HasPrefix(page, "<!DOCTYPE html>"))
	assert.Contains(t, page, "<title>a &lt; b</title>")
	assert.Contains(t, page, "<h1>Title</h1>")
	assert.Contains(t, page, ".chroma")
}

func TestRender_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := preview.New(preview.DefaultOptions()).Render(ctx, []byte("x"), "")
	require.ErrorIs(t, err, context.Canceled)
}
