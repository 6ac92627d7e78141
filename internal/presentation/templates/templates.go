// Package templates holds the server-rendered admin pages
package templates

import (
	"embed"
	"encoding/json"
	"html/template"
)

//go:embed *.html
var files embed.FS

// Load parses every admin page template
func Load() (*template.Template, error) {
	return template.New("admin").Funcs(template.FuncMap{
		"json": func(v any) (string, error) {
			b, err := json.Marshal(v)
			return string(b), err
		},
	}).ParseFS(files, "*.html")
}
