// components/register/handlers.go
//
// HTTP handlers for the registration page and its API.

package register

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"github.com/yanizio/register/internal/form"
	"github.com/yanizio/register/internal/metrics"
	"github.com/yanizio/register/internal/registration"
	"github.com/yanizio/register/internal/submission"
)

// MsgSucceeded is the banner shown after a successful submission.
const MsgSucceeded = "Form submitted successfully!"

// TokenHeader carries the CSRF token on script-issued API calls.
const TokenHeader = "X-CSRF-Token"

// heartbeat keeps idle event streams open through proxies.
const heartbeat = 30 * time.Second

// pageData is the view model for register.html.
type pageData struct {
	Title       string
	Submit      string
	Fields      template.HTML
	Token       string
	State       string
	Loading     bool
	Banner      string
	BannerClass string
}

// stateView is the public JSON shape of a Snapshot.  Accepted data is never
// exposed.
type stateView struct {
	State submission.State `json:"state"`
	Error string           `json:"error"`
}

func viewOf(s submission.Snapshot) stateView {
	return stateView{State: s.State, Error: s.Error}
}

/*──────────────────────────── Page ─────────────────────────────────────────*/

func (c *Component) getPage(w http.ResponseWriter, r *http.Request) {
	c.render(w, http.StatusOK, nil, nil)
}

func (c *Component) postPage(w http.ResponseWriter, r *http.Request) {
	posted, ok := c.decode(w, r)
	if !ok {
		return
	}

	// Mirrors the disabled Submit button.
	if c.ctl.State() == submission.Loading {
		c.log.Debugw("submit ignored while loading")
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	values := registration.FromForm(posted)
	if errs := registration.Validate(values); len(errs) > 0 {
		for field := range errs {
			metrics.ValidationFailuresTotal.WithLabelValues(field).Inc()
		}
		c.log.Debugw("registration invalid", "errors", errs, "values", values.Redacted())
		c.render(w, http.StatusUnprocessableEntity, values, errs)
		return
	}

	c.ctl.Submit(context.WithoutCancel(r.Context()), values)
	http.Redirect(w, r, "/register", http.StatusSeeOther)
}

func (c *Component) postReset(w http.ResponseWriter, r *http.Request) {
	if _, ok := c.decode(w, r); !ok {
		return
	}
	if c.ctl.State() != submission.Loading {
		c.ctl.Reset()
	}
	http.Redirect(w, r, "/register", http.StatusSeeOther)
}

// decode parses the form body and checks its CSRF token, writing the error
// response itself when it returns false.
func (c *Component) decode(w http.ResponseWriter, r *http.Request) (url.Values, bool) {
	posted, err := form.Decode(w, r, c.tokens)
	switch {
	case err == nil:
		return posted, true
	case form.IsBadToken(err):
		c.log.Warnw("csrf check failed", "path", r.URL.Path)
		http.Error(w, "Your session expired.  Reload the page and try again.", http.StatusForbidden)
	default:
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
	}
	return nil, false
}

// render writes the page.  values prefill name and email only.
func (c *Component) render(w http.ResponseWriter, status int, values registration.FieldValues, errs registration.FieldErrors) {
	snap := c.ctl.Snapshot()

	tok, err := c.tokens.Generate()
	if err != nil {
		c.fail(w, "csrf token", err)
		return
	}

	var prefill map[string]string
	if values != nil {
		prefill = map[string]string{
			registration.FieldName:  values[registration.FieldName],
			registration.FieldEmail: values[registration.FieldEmail],
		}
	}
	fields, err := form.RenderFields(FormID, form.RenderOptions{
		Prefill: prefill,
		Errors:  errs,
		Token:   tok,
	})
	if err != nil {
		c.fail(w, "render fields", err)
		return
	}

	fd, _ := form.GetFormDef(FormID)
	data := pageData{
		Title:   fd.Title,
		Submit:  fd.Submit,
		Fields:  fields,
		Token:   tok,
		State:   snap.State.String(),
		Loading: snap.State == submission.Loading,
	}
	switch snap.State {
	case submission.Succeeded:
		data.Banner, data.BannerClass = MsgSucceeded, "success"
	case submission.Failed:
		msg := snap.Error
		if msg == "" {
			msg = submission.FallbackMessage
		}
		data.Banner, data.BannerClass = msg, "error"
	}

	if err := c.views.Render(w, status, "register", data); err != nil {
		c.log.Errorw("render register page", "err", err)
	}
}

func (c *Component) fail(w http.ResponseWriter, what string, err error) {
	c.log.Errorw("register page", "step", what, "err", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

/*──────────────────────────── API ──────────────────────────────────────────*/

func (c *Component) postEdit(w http.ResponseWriter, r *http.Request) {
	if !c.tokens.Verify(r.Header.Get(TokenHeader)) {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	c.ctl.BeginEdit()
	w.WriteHeader(http.StatusNoContent)
}

func (c *Component) getState(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(viewOf(c.ctl.Snapshot())); err != nil {
		c.log.Debugw("write state", "err", err)
	}
}

// getEvents streams one "state" event per observable change, starting with
// the current state.  Only the newest pending update is kept for a slow
// client.
func (c *Component) getEvents(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)
	// Streams outlive the server write timeout.
	_ = rc.SetWriteDeadline(time.Time{})

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")

	updates := make(chan submission.Snapshot, 1)
	unsubscribe := c.ctl.Subscribe(func(s submission.Snapshot) {
		select {
		case updates <- s:
			return
		default:
		}
		select {
		case <-updates:
		default:
		}
		select {
		case updates <- s:
		default:
		}
	})
	defer unsubscribe()

	if err := c.writeEvent(w, rc, c.ctl.Snapshot()); err != nil {
		c.log.Debugw("event stream unsupported", "err", err)
		return
	}

	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": heartbeat\n\n"); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		case s := <-updates:
			if err := c.writeEvent(w, rc, s); err != nil {
				return
			}
		}
	}
}

func (c *Component) writeEvent(w http.ResponseWriter, rc *http.ResponseController, s submission.Snapshot) error {
	data, err := json.Marshal(viewOf(s))
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: state\ndata: %s\n\n", data); err != nil {
		return err
	}
	return rc.Flush()
}
