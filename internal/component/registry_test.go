package component

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

type fake struct {
	name    string
	initErr error
	inited  bool
	closed  bool
}

func (f *fake) Name() string         { return f.name }
func (f *fake) Migrations() []string { return []string{"CREATE TABLE " + f.name + " (id INT)"} }
func (f *fake) Close()               { f.closed = true }

func (f *fake) Init(Deps) error {
	f.inited = true
	return f.initErr
}

func (f *fake) Routes(r chi.Router) {
	r.Get("/"+f.name, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
}

func TestMountAll(t *testing.T) {
	a, b := &fake{name: "alpha"}, &fake{name: "beta"}
	Register(b)
	Register(a)
	t.Cleanup(func() {
		mu.Lock()
		delete(registry, "alpha")
		delete(registry, "beta")
		mu.Unlock()
	})

	r := chi.NewRouter()
	if err := MountAll(r, Deps{}); err != nil {
		t.Fatalf("MountAll: %v", err)
	}
	if !a.inited || !b.inited {
		t.Fatal("Init not called")
	}
	for _, p := range []string{"/alpha", "/beta"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, p, nil))
		if w.Code != http.StatusTeapot {
			t.Errorf("%s: code = %d", p, w.Code)
		}
	}

	migs := Migrations()
	if len(migs) != 2 || migs[0] != "CREATE TABLE alpha (id INT)" {
		t.Errorf("Migrations = %v", migs)
	}

	CloseAll()
	if !a.closed || !b.closed {
		t.Error("CloseAll skipped a component")
	}
}

func TestMountAll_InitError(t *testing.T) {
	boom := errors.New("boom")
	Register(&fake{name: "broken", initErr: boom})
	t.Cleanup(func() {
		mu.Lock()
		delete(registry, "broken")
		mu.Unlock()
	})

	if err := MountAll(chi.NewRouter(), Deps{}); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
}
