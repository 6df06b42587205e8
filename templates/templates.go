// Package templates holds the server-rendered guest pages.
package templates

import (
	"embed"
	"html/template"
)

//go:embed *.tmpl
var files embed.FS

// Load parses every page template.
func Load() (*template.Template, error) {
	return template.New("").ParseFS(files, "*.tmpl")
}
