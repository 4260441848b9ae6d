// Package templates embeds the server-rendered pages.
package templates

import (
	"embed"
	"html/template"
	"strconv"
)

//go:embed html/*.html
var files embed.FS

// Funcs are available in every page.
var Funcs = template.FuncMap{
	// selectedID reports whether a raw query value names id.
	"selectedID": func(raw string, id uint) bool {
		return raw == strconv.FormatUint(uint64(id), 10)
	},
}

// Load parses every page. Pages are addressed by file name, e.g. "home.html".
func Load() (*template.Template, error) {
	return template.New("").Funcs(Funcs).ParseFS(files, "html/*.html")
}
