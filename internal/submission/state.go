// internal/submission/state.go
//
// Submission – state tags and snapshots.

package submission

import (
	"fmt"
	"maps"
)

// State is the submission status shown on the registration page.
type State int

const (
	Idle State = iota
	Loading
	Succeeded
	Failed
)

var stateNames = [...]string{
	Idle:      "idle",
	Loading:   "loading",
	Succeeded: "succeeded",
	Failed:    "failed",
}

// String implements fmt.Stringer.
func (s State) String() string {
	if s < Idle || s > Failed {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// MarshalText lets State appear as its name in JSON and logs.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// ParseState is the inverse of String.
func ParseState(name string) (State, error) {
	for i, n := range stateNames {
		if n == name {
			return State(i), nil
		}
	}
	return Idle, fmt.Errorf("unknown submission state %q", name)
}

// Snapshot is a read-only copy of the controller state.  Data is a private
// copy; callers may keep or modify it freely.
type Snapshot struct {
	State State
	Error string // empty when no failure is recorded
	Data  map[string]string
}

// HasError reports whether a failure message is recorded.
func (s Snapshot) HasError() bool { return s.Error != "" }

func (s Snapshot) equal(o Snapshot) bool {
	return s.State == o.State && s.Error == o.Error && maps.Equal(s.Data, o.Data)
}
