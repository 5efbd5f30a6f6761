package ui

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
)

//go:embed all:static
var staticFS embed.FS

//go:embed templates/*.html
var templateFS embed.FS

// StaticFS returns the embedded static/ filesystem with the "static" prefix stripped.
func StaticFS() (fs.FS, error) {
	return fs.Sub(staticFS, "static")
}

// Templates parses the page and modal templates.
func Templates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}

// Handler serves the embedded assets. It expects the mount prefix to be
// stripped already. Directory listings are not served.
func Handler() (http.Handler, error) {
	sub, err := StaticFS()
	if err != nil {
		return nil, err
	}

	fileServer := http.FileServerFS(sub)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
		if p == "" || p == "." {
			http.NotFound(w, r)
			return
		}

		info, err := fs.Stat(sub, p)
		if err != nil || info.IsDir() {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Cache-Control", "public, max-age=3600")
		fileServer.ServeHTTP(w, r)
	}), nil
}
