// internal/component/registry.go
//
// Component registry (cycle-free).
//
// Each concrete component lives under components/<name> and calls
// component.Register() in an init() function.  At start-up cmd/web builds
// Deps, calls MountAll, and applies Migrations() when a database is
// configured.  Components never reach for globals; everything they need
// arrives through Deps.

package component

import (
	"fmt"
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yanizio/register/internal/config"
	"github.com/yanizio/register/internal/form"
	"github.com/yanizio/register/internal/submission"
)

// Deps exposes process-wide resources to Components during Init.
type Deps struct {
	Config     *config.Config
	Log        *zap.SugaredLogger
	Controller *submission.Controller
	Tokens     *form.Tokens
}

// Initializer is called once, before Routes, with the shared resources.
type Initializer interface {
	Init(Deps) error
}

// Component contract.
//
// Migrations() may return nil if the component has no schema.  Routes()
// registers BOTH page and API endpoints on the router it is given, e.g:
//
//	r.Get("/register", c.getPage)
//	r.Route("/api/register", func(api chi.Router) { ... })
type Component interface {
	Name() string
	Routes(r chi.Router)
	Migrations() []string
	Initializer
}

var (
	mu       sync.RWMutex
	registry = map[string]Component{}
)

// Register is invoked from component init() functions.
func Register(c Component) {
	mu.Lock()
	registry[c.Name()] = c
	mu.Unlock()
}

// All returns every registered component sorted by name.
func All() []Component {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Component, 0, len(registry))
	for _, c := range registry {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Migrations returns every component's DDL in component-name order.
func Migrations() []string {
	var out []string
	for _, c := range All() {
		out = append(out, c.Migrations()...)
	}
	return out
}

// MountAll initialises each component and registers its routes on r.  The
// first Init error aborts start-up.
func MountAll(r chi.Router, deps Deps) error {
	for _, c := range All() {
		if err := c.Init(deps); err != nil {
			return fmt.Errorf("init component %s: %w", c.Name(), err)
		}
		r.Group(c.Routes)
		if deps.Log != nil {
			deps.Log.Infow("component mounted", "component", c.Name())
		}
	}
	return nil
}

// Closer is optional.  Components holding long-lived connections implement
// it so shutdown can end them.
type Closer interface {
	Close()
}

// CloseAll calls Close on every component that implements Closer.  Suitable
// for http.Server.RegisterOnShutdown.
func CloseAll() {
	for _, c := range All() {
		if cl, ok := c.(Closer); ok {
			cl.Close()
		}
	}
}
