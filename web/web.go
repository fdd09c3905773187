// Package web embeds the page templates, static assets and section content.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.html static/* content/*.md
var files embed.FS

const (
	TemplatesDir = "templates"
	ContentDir   = "content"
)

func FS() fs.FS {
	return files
}

// Static is the tree served under <base>/static/.
func Static() fs.FS {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		// The directory is embedded above; Sub only fails on a bad pattern.
		panic(err)
	}
	return sub
}
