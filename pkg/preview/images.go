package preview

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

//nolint:gochecknoglobals // Context key shared by Render and the transformer
var baseDirKey = parser.NewContextKey()

// imageResolver rewrites relative image destinations into file URLs under
// the document's directory, so previews and exported pages find them.
type imageResolver struct{}

func (imageResolver) Transform(doc *ast.Document, _ text.Reader, pc parser.Context) {
	baseDir, _ := pc.Get(baseDirKey).(string)
	if baseDir == "" {
		return
	}

	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if image, ok := node.(*ast.Image); ok {
			if resolved, ok := ResolveImage(string(image.Destination), baseDir); ok {
				image.Destination = []byte(resolved)
			}
		}
		return ast.WalkContinue, nil
	})
}

// ResolveImage turns dest into a file URL relative to baseDir. External
// URLs and anchors are left alone and reported as false.
func ResolveImage(dest, baseDir string) (string, bool) {
	decoded, err := url.PathUnescape(dest)
	if err != nil {
		decoded = dest
	}
	if decoded == "" || strings.HasPrefix(decoded, "#") {
		return "", false
	}
	drive := isDrivePath(decoded)
	if parsed, err := url.Parse(decoded); err == nil && parsed.Scheme != "" && !drive {
		return "", false
	}

	path := decoded
	if !filepath.IsAbs(path) && !drive {
		path = filepath.Join(baseDir, path)
	}
	path = filepath.ToSlash(filepath.Clean(path))
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return (&url.URL{Scheme: "file", Path: path}).String(), true
}

// isDrivePath reports whether s starts with a Windows drive such as "C:".
func isDrivePath(s string) bool {
	if len(s) < 2 || s[1] != ':' {
		return false
	}
	c := s[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
