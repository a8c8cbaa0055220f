// internal/submission/acceptor.go
//
// Submission – backend seam.
//
// Context
//   The controller never knows where accepted values go.  It awaits an
//   Acceptor, which resolves exactly once: nil on success, an error on
//   failure.  The error text becomes the failure banner via Message, so
//   backends should return errors a user can read.
//
//------------------------------------------------------------------------------

package submission

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/yanizio/register/internal/registration"
)

// FallbackMessage is shown when a failure carries no usable text.
const FallbackMessage = "Submission failed, please try again."

// Acceptor receives validated values.  Implementations must honour ctx and
// return exactly once.
type Acceptor interface {
	Accept(ctx context.Context, values registration.FieldValues) error
}

// AcceptFunc adapts a plain function to Acceptor.
type AcceptFunc func(ctx context.Context, values registration.FieldValues) error

// Accept implements Acceptor.
func (f AcceptFunc) Accept(ctx context.Context, values registration.FieldValues) error {
	return f(ctx, values)
}

// Delay returns an Acceptor that succeeds after d, simulating a slow network
// round trip.  It fails with the context error if ctx ends first.
func Delay(d time.Duration) Acceptor {
	return AcceptFunc(func(ctx context.Context, _ registration.FieldValues) error {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			return nil
		}
	})
}

// UserError carries a message intended for the failure banner, separate from
// the wrapped cause that goes to the log.
type UserError struct {
	Msg   string
	Cause error
}

func (e *UserError) Error() string {
	if e.Cause == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Cause.Error()
}

func (e *UserError) Unwrap() error { return e.Cause }

// Message converts an acceptor error into banner text.  A UserError yields its
// Msg; a timeout yields a fixed hint; cancellation yields FallbackMessage;
// anything else yields its own text.  A
// blank result falls back to FallbackMessage.
func Message(err error) string {
	if err == nil {
		return FallbackMessage
	}
	var ue *UserError
	if errors.As(err, &ue) {
		return orFallback(ue.Msg)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "The server took too long to respond, please try again."
	}
	if errors.Is(err, context.Canceled) {
		return FallbackMessage
	}
	return orFallback(err.Error())
}

func orFallback(msg string) string {
	if strings.TrimSpace(msg) == "" {
		return FallbackMessage
	}
	return msg
}
