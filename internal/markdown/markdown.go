// Package markdown renders the static section bodies shown under each tab.
package markdown

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func New() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.Strikethrough, extension.Table, extension.Linkify),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)

	p := bluemonday.UGCPolicy()
	p.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4")
	p.AllowRelativeURLs(true)

	return &Renderer{md: md, policy: p}
}

// Render converts Markdown to sanitized HTML safe to embed in a page.
func (r *Renderer) Render(src []byte) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(src, &buf); err != nil {
		return "", err
	}
	safe := r.policy.SanitizeBytes(buf.Bytes())
	return template.HTML(strings.TrimSpace(string(safe))), nil
}

// RenderSections renders dir/<tab>.md for each tab. A missing file is an error,
// so a tab can never be served without content.
func (r *Renderer) RenderSections(fsys fs.FS, dir string, tabs []string) (map[string]template.HTML, error) {
	out := make(map[string]template.HTML, len(tabs))
	for _, tab := range tabs {
		src, err := fs.ReadFile(fsys, path.Join(dir, tab+".md"))
		if err != nil {
			return nil, fmt.Errorf("section %s: %w", tab, err)
		}
		html, err := r.Render(src)
		if err != nil {
			return nil, fmt.Errorf("section %s: %w", tab, err)
		}
		out[tab] = html
	}
	return out, nil
}
