// internal/view/render.go
//
// View engine: parses a component's embedded templates once and renders
// them by logical name.
//
// Public helpers
// --------------
//   - New            – parse every *.html in an fs.FS as one set.
//   - Render         – write rendered HTML to an http.ResponseWriter.
//   - RenderToString – return template.HTML (fragments, tests).
//
// All templates in the set share one namespace so sub-templates
// ({{ template "banner" . }}) work out-of-the-box.
//
// execName() chooses the best template to execute:
//   – If the set contains "<name>.html", we run that (file has no define).
//   – Else we fall back to "<name>" (root template defined via {{ define }}).
//
// Render executes into a buffer first, so a template error yields a clean
// 500 instead of half a page.
//
// Style
// -----
// • Oxford commas, two spaces after periods.

package view

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"
)

// Set is an immutable parsed template set.  Safe for concurrent use.
type Set struct {
	t *template.Template
}

// New parses every template in fsys matching pattern (e.g. "templates/*.html").
// extra entries are merged into the default func map.
func New(fsys fs.FS, pattern string, extra template.FuncMap) (*Set, error) {
	fm := template.FuncMap{"dict": dict}
	for k, v := range extra {
		fm[k] = v
	}
	t, err := template.New("").Funcs(fm).ParseFS(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("parse templates %s: %w", pattern, err)
	}
	return &Set{t: t}, nil
}

// Render executes name and streams it to w with the given status code.
func (s *Set) Render(w http.ResponseWriter, status int, name string, data any) error {
	var buf bytes.Buffer
	if err := s.t.ExecuteTemplate(&buf, s.execName(name), data); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return err
	}
	h := w.Header()
	h.Set("Content-Type", "text/html; charset=utf-8")
	h.Set("Content-Length", strconv.Itoa(buf.Len()))
	h.Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// RenderToString executes name and returns the HTML.
func (s *Set) RenderToString(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := s.t.ExecuteTemplate(&buf, s.execName(name), data); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// execName picks the template name to execute.
//
// Priority:
//  1. If the set has "<name>.html" (file-based template), run that.
//  2. Otherwise, fall back to "<name>" (root template defined in code).
func (s *Set) execName(name string) string {
	if tmpl := s.t.Lookup(name + ".html"); tmpl != nil {
		return name + ".html"
	}
	return name
}

// dict builds a map in templates: {{ dict "k" 1 "k2" "v" }}.
func dict(kv ...any) map[string]any {
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		m[key] = kv[i+1]
	}
	return m
}
