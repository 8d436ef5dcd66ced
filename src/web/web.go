// Package web embeds the HTML templates and public assets.
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed public
var Public embed.FS

// Templates parses every page together with the shared layout.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}
