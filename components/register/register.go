// components/register/register.go
//
// Registration component – the sign-up page and its small JSON API.
//
// Context
//   The page renders the form described by forms/register.yaml and reflects
//   the shared submission.Controller: a spinner while a submission is in
//   flight, a success or failure banner afterwards.  Field validation runs
//   on POST; only valid values reach the controller.
//
// Routes
//   GET  /register                 page
//   POST /register                 validate, then submit
//   POST /register/reset           clear data and banners
//   POST /api/register/edit        leave a result banner (first keystroke)
//   GET  /api/register/state       JSON {state, error}
//   GET  /api/register/events      same JSON as Server-Sent Events
//   GET  /static/register/*        page script and stylesheet
//
//------------------------------------------------------------------------------

package register

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yanizio/register/internal/component"
	"github.com/yanizio/register/internal/database"
	"github.com/yanizio/register/internal/form"
	"github.com/yanizio/register/internal/registration"
	"github.com/yanizio/register/internal/submission"
	"github.com/yanizio/register/internal/view"
)

// FormID is the form definition rendered by the page.
const FormID = "register/signup"

//go:embed forms/*.yaml templates/*.html static/*
var assets embed.FS

// Compile-time assertion: *Component satisfies component.Component.
var _ component.Component = (*Component)(nil)

// Component encapsulates the registration page.
type Component struct {
	log    *zap.SugaredLogger
	ctl    *submission.Controller
	tokens *form.Tokens
	views  *view.Set
	static http.Handler

	done      chan struct{}
	closeOnce sync.Once
}

// New returns an uninitialised Component.  Init must run before Routes.
func New() *Component { return &Component{done: make(chan struct{})} }

// Register component at program start.
func init() { component.Register(New()) }

/*────────────────── component.Component methods ───────────────────────────*/

// Name returns the canonical component key.
func (c *Component) Name() string { return "register" }

// Migrations returns the registration table DDL.  Applied only when the
// database backend is configured.
func (c *Component) Migrations() []string { return []string{database.Schema} }

// Init loads the form definition and templates and keeps the shared
// resources.
func (c *Component) Init(d component.Deps) error {
	if d.Controller == nil || d.Tokens == nil {
		return fmt.Errorf("register: controller and tokens are required")
	}
	c.ctl, c.tokens, c.log = d.Controller, d.Tokens, d.Log
	if c.log == nil {
		c.log = zap.NewNop().Sugar()
	}

	forms, err := fs.Sub(assets, "forms")
	if err != nil {
		return err
	}
	if _, err := form.LoadFS(forms); err != nil {
		return err
	}
	fd, ok := form.GetFormDef(FormID)
	if !ok {
		return fmt.Errorf("register: form %q not found", FormID)
	}
	have := make(map[string]bool, len(fd.Fields))
	for _, name := range fd.FieldNames() {
		have[name] = true
	}
	for _, f := range registration.Fields {
		if !have[f] {
			return fmt.Errorf("register: form %q lacks field %q", FormID, f)
		}
	}

	if c.views, err = view.New(assets, "templates/*.html", nil); err != nil {
		return err
	}
	static, err := fs.Sub(assets, "static")
	if err != nil {
		return err
	}
	c.static = http.StripPrefix("/static/register/", http.FileServer(http.FS(static)))
	return nil
}

// Routes registers page and API endpoints.
func (c *Component) Routes(r chi.Router) {
	r.Get("/register", c.getPage)
	r.Post("/register", c.postPage)
	r.Post("/register/reset", c.postReset)

	r.Route("/api/register", func(api chi.Router) {
		api.Post("/edit", c.postEdit)
		api.Get("/state", c.getState)
		api.Get("/events", c.getEvents)
	})

	r.Handle("/static/register/*", c.static)
}

// Close ends open event streams.  Called on server shutdown.
func (c *Component) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}
