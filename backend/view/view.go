// Package view renders HTML pages from templates.
package view

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/pkg/errors"
)

//go:embed templates
var embedded embed.FS

// Renderer writes the page called name with data and the given status.
type Renderer interface {
	Render(w http.ResponseWriter, status int, name string, data any)
}

// Templates renders pages that share layout.html and everything under
// partials/. Every other .html file is a page, named by its path without the
// extension (e.g. "index", "misc/404").
type Templates struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"pubdate": func(t time.Time) string { return t.Format("02 Jan 2006 15:04") },
	"media":   func(rel string) string { return "/uploads/" + rel },
}

// Embedded loads the templates compiled into the binary.
func Embedded() (*Templates, error) {
	root, err := fs.Sub(embedded, "templates")
	if err != nil {
		return nil, err
	}
	return Load(root)
}

// Load parses templates from fsys.
func Load(fsys fs.FS) (*Templates, error) {
	base, err := template.New("layout.html").Funcs(funcs).ParseFS(fsys, "layout.html", "partials/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "parsing layout")
	}

	t := &Templates{pages: map[string]*template.Template{}}
	err = fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || path.Ext(p) != ".html" {
			return err
		}
		if p == "layout.html" || strings.HasPrefix(p, "partials/") {
			return nil
		}

		page, err := base.Clone()
		if err != nil {
			return err
		}
		if _, err := page.ParseFS(fsys, p); err != nil {
			return errors.Wrapf(err, "parsing %s", p)
		}
		t.pages[strings.TrimSuffix(p, ".html")] = page
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Has reports whether a page called name was loaded.
func (t *Templates) Has(name string) bool {
	_, ok := t.pages[name]
	return ok
}

func (t *Templates) Render(w http.ResponseWriter, status int, name string, data any) {
	page, ok := t.pages[name]
	if !ok {
		log.Printf("[View] Unknown template %q", name)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := page.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		log.Printf("[View] Rendering %s failed: %v", name, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
