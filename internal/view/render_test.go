package view

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
)

func testSet(t *testing.T) *Set {
	t.Helper()
	fsys := fstest.MapFS{
		"templates/page.html":  {Data: []byte(`<p>{{ template "item" dict "Name" .Name }}</p>`)},
		"templates/parts.html": {Data: []byte(`{{ define "item" }}<b>{{ .Name }}</b>{{ end }}{{ define "broken" }}{{ .Name.Field }}{{ end }}`)},
	}
	s, err := New(fsys, "templates/*.html", nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestRender(t *testing.T) {
	s := testSet(t)
	w := httptest.NewRecorder()
	if err := s.Render(w, http.StatusUnprocessableEntity, "page", map[string]string{"Name": "<Ada>"}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("code = %d", w.Code)
	}
	if got := w.Body.String(); got != "<p><b>&lt;Ada&gt;</b></p>" {
		t.Errorf("body = %q", got)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content-type = %q", ct)
	}
}

func TestRender_ErrorIs500(t *testing.T) {
	s := testSet(t)
	w := httptest.NewRecorder()
	if err := s.Render(w, http.StatusOK, "broken", map[string]string{"Name": "x"}); err == nil {
		t.Fatal("expected error")
	}
	if w.Code != http.StatusInternalServerError {
		t.Errorf("code = %d", w.Code)
	}
}

func TestRenderToString_DefinedTemplate(t *testing.T) {
	s := testSet(t)
	out, err := s.RenderToString("item", map[string]string{"Name": "x"})
	if err != nil {
		t.Fatal(err)
	}
	if out != "<b>x</b>" {
		t.Fatalf("out = %q", out)
	}
}
