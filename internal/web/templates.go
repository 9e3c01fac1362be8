package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var files embed.FS

// Templates parses the embedded views. Mounted on the gin engine with
// SetHTMLTemplate.
func Templates() *template.Template {
	return template.Must(template.ParseFS(files, "templates/*.html"))
}
