// internal/submission/controller.go
//
// Submission – state controller.
//
// Context
//   One Controller holds the process-wide submission state behind the
//   registration page: the status tag, the data accumulated from successful
//   submissions, and the last failure message.  Only the transition methods
//   below mutate it; everything else reads Snapshots.
//
// Workflow
//   •  Submit moves to Loading before it returns, then runs the Acceptor in
//      its own goroutine.  The outcome is applied as a second transition.
//   •  Each Submit and each Reset advances a generation counter.  A completion
//      whose generation is no longer current is dropped, so a slow backend
//      cannot overwrite a Reset or a newer Submit.
//   •  BeginEdit clears a result banner unless a submission is in flight.
//   •  Subscribers are called once per observable change, in transition
//      order, from the goroutine that performed the transition.
//
//------------------------------------------------------------------------------

package submission

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yanizio/register/internal/metrics"
	"github.com/yanizio/register/internal/registration"
)

// ErrSuperseded is delivered on a Submit channel when the completion arrived
// after a newer Submit or a Reset and was therefore ignored.
var ErrSuperseded = errors.New("submission superseded")

// Listener receives a Snapshot after every observable change.  Listeners run
// while transitions are serialised; they may call Snapshot but must not call
// a transition method.
type Listener func(Snapshot)

// Controller is safe for concurrent use.  Zero value is invalid; use New.
type Controller struct {
	acc     Acceptor
	timeout time.Duration
	log     *zap.SugaredLogger

	// txMu serialises transition + notification so listeners observe changes
	// in the order they were applied.
	txMu sync.Mutex

	mu     sync.RWMutex
	state  State
	data   map[string]string
	errMsg string
	gen    uint64

	subMu   sync.Mutex
	subs    map[uint64]Listener
	nextSub uint64
}

// New builds a Controller in the Idle state.  timeout bounds each Acceptor
// call; zero means no bound beyond the caller's context.  A nil log discards
// output.
func New(acc Acceptor, timeout time.Duration, log *zap.SugaredLogger) *Controller {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Controller{
		acc:     acc,
		timeout: timeout,
		log:     log,
		data:    make(map[string]string),
		subs:    make(map[uint64]Listener),
	}
}

// -----------------------------------------------------------------------------
// Reads
// -----------------------------------------------------------------------------

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked()
}

// State is shorthand for Snapshot().State.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{State: c.state, Error: c.errMsg, Data: maps.Clone(c.data)}
}

// -----------------------------------------------------------------------------
// Transitions
// -----------------------------------------------------------------------------

// BeginEdit returns to Idle unless a submission is loading.  Data and the
// failure message are untouched.
func (c *Controller) BeginEdit() {
	c.transition("begin_edit", func() {
		if c.state != Loading {
			c.state = Idle
		}
	})
}

// Submit enters Loading and hands values to the Acceptor asynchronously.  The
// returned channel receives the Acceptor's result (nil on success) after the
// outcome has been applied, or ErrSuperseded if it was dropped, and is then
// closed.  Callers that do not care may ignore it.
func (c *Controller) Submit(ctx context.Context, values registration.FieldValues) <-chan error {
	payload := values.Clone()
	id := uuid.NewString()

	var gen uint64
	c.transition("submit", func() {
		c.gen++
		gen = c.gen
		c.state = Loading
	})
	c.log.Infow("submission started", "submission", id, "generation", gen, "values", payload.Redacted())

	done := make(chan error, 1)
	go c.await(ctx, id, gen, payload, done)
	return done
}

// Fail enters Failed and records message.  A blank message records
// FallbackMessage instead.
func (c *Controller) Fail(message string) {
	c.transition("fail", func() {
		c.state = Failed
		c.errMsg = orFallback(message)
	})
}

// Reset clears data and the failure message and returns to Idle.  Pending
// completions are invalidated.  Calling Reset twice has the same effect as
// calling it once.
func (c *Controller) Reset() {
	c.transition("reset", func() {
		c.gen++
		c.state = Idle
		c.errMsg = ""
		c.data = make(map[string]string)
	})
}

// Subscribe registers fn and returns a function that removes it.  The remove
// function is safe to call more than once.
func (c *Controller) Subscribe(fn Listener) (unsubscribe func()) {
	c.subMu.Lock()
	c.nextSub++
	id := c.nextSub
	c.subs[id] = fn
	c.subMu.Unlock()
	metrics.Subscribers.Inc()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.subMu.Lock()
			delete(c.subs, id)
			c.subMu.Unlock()
			metrics.Subscribers.Dec()
		})
	}
}

// -----------------------------------------------------------------------------
// Internals
// -----------------------------------------------------------------------------

// transition applies fn under the write lock and notifies listeners when the
// observable state changed.
func (c *Controller) transition(op string, fn func()) {
	c.txMu.Lock()
	defer c.txMu.Unlock()

	c.mu.Lock()
	before := c.snapshotLocked()
	fn()
	after := c.snapshotLocked()
	c.mu.Unlock()

	if before.equal(after) {
		return
	}
	if before.State != after.State {
		metrics.StateTransitionsTotal.WithLabelValues(after.State.String()).Inc()
		c.log.Debugw("submission state changed", "op", op, "from", before.State, "to", after.State)
	}

	c.subMu.Lock()
	listeners := make([]Listener, 0, len(c.subs))
	for _, l := range c.subs {
		listeners = append(listeners, l)
	}
	c.subMu.Unlock()

	for _, l := range listeners {
		l(after)
	}
}

// await runs the Acceptor and applies its outcome if gen is still current.
func (c *Controller) await(ctx context.Context, id string, gen uint64, payload registration.FieldValues, done chan<- error) {
	defer close(done)

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	err := c.accept(ctx, payload)
	metrics.AcceptDuration.Observe(time.Since(start).Seconds())

	applied := false
	c.transition("complete", func() {
		if gen != c.gen {
			return
		}
		applied = true
		if err != nil {
			c.state = Failed
			c.errMsg = Message(err)
			return
		}
		maps.Copy(c.data, payload)
		c.state = Succeeded
	})

	switch {
	case !applied:
		metrics.SubmissionsTotal.WithLabelValues("stale").Inc()
		c.log.Infow("submission completion dropped", "submission", id, "generation", gen, "err", err)
		if err != nil {
			done <- fmt.Errorf("%w: %w", ErrSuperseded, err)
			return
		}
		done <- ErrSuperseded
	case err != nil:
		metrics.SubmissionsTotal.WithLabelValues("failed").Inc()
		c.log.Warnw("submission failed", "submission", id, "generation", gen, "err", err)
		done <- err
	default:
		metrics.SubmissionsTotal.WithLabelValues("succeeded").Inc()
		c.log.Infow("submission succeeded", "submission", id, "generation", gen,
			"elapsed", time.Since(start).Truncate(time.Millisecond))
		done <- nil
	}
}

// accept calls the Acceptor, converting a panic into a failure so the
// controller never stays in Loading.
func (c *Controller) accept(ctx context.Context, v registration.FieldValues) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &UserError{Msg: FallbackMessage, Cause: fmt.Errorf("submission backend panic: %v", r)}
		}
	}()
	if c.acc == nil {
		return &UserError{Msg: FallbackMessage, Cause: errors.New("no submission backend configured")}
	}
	return c.acc.Accept(ctx, v)
}
