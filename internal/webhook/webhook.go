// internal/webhook/webhook.go
//
// Webhook – the `webhook` submission backend.
//
// Context
//   Each accepted registration is POSTed as JSON to a configured URL.  The
//   password is never forwarded.  The receiver answers 2xx to accept.  Any
//   other status is a failure; when the body is JSON of the form
//   {"error": "..."} that text becomes the failure banner, otherwise the
//   generic fallback is shown and the status is logged.
//
// Style
//   Two-space sentence spacing, Oxford comma, concise inline notes.
//
//------------------------------------------------------------------------------

package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/yanizio/register/internal/registration"
	"github.com/yanizio/register/internal/submission"
)

// maxErrorBody caps how much of a failure response we read.
const maxErrorBody = 4 << 10

// Payload is the JSON document sent to the receiver.
type Payload struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// ErrorResponse is the optional JSON body of a rejection.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Sender posts registrations to URL.
type Sender struct {
	URL    string
	Client *http.Client
	Header http.Header // extra headers, e.g. Authorization
}

// Compile-time assertion: *Sender satisfies submission.Acceptor.
var _ submission.Acceptor = (*Sender)(nil)

// New returns a Sender with a dedicated http.Client.  Per-call deadlines come
// from the context the controller passes in.
func New(url string) *Sender {
	return &Sender{URL: url, Client: &http.Client{}}
}

// Accept implements submission.Acceptor.
func (s *Sender) Accept(ctx context.Context, v registration.FieldValues) error {
	body, err := json.Marshal(Payload{
		ID:          uuid.NewString(),
		Name:        v[registration.FieldName],
		Email:       v[registration.FieldEmail],
		SubmittedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(body))
	if err != nil {
		return &submission.UserError{Msg: submission.FallbackMessage, Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	for k, vals := range s.Header {
		for _, val := range vals {
			req.Header.Add(k, val)
		}
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("webhook: %w", ctx.Err())
		}
		return &submission.UserError{Msg: submission.FallbackMessage, Cause: fmt.Errorf("webhook: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	cause := fmt.Errorf("webhook %s: status %d", s.URL, resp.StatusCode)
	var er ErrorResponse
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if json.Unmarshal(raw, &er) == nil && er.Error != "" {
		return &submission.UserError{Msg: er.Error, Cause: cause}
	}
	return &submission.UserError{Msg: submission.FallbackMessage, Cause: cause}
}
