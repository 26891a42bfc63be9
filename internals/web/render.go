package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"displayName": displayName,
}

var pages = mustParsePages("home.html", "login.html", "admin.html", "error.html")

func mustParsePages(names ...string) map[string]*template.Template {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		panic(err)
	}
	out := make(map[string]*template.Template, len(names))
	for _, name := range names {
		out[name] = template.Must(template.New(name).Funcs(funcs).ParseFS(sub, "layout.html", "panel.html", name))
	}
	return out
}

// render executes the page into a buffer first so a template error never
// leaves a half-written response.
func (s *Server) render(w http.ResponseWriter, status int, name string, data any) error {
	t, ok := pages[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		s.log.Error("render failed", "template", name, "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return nil
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
