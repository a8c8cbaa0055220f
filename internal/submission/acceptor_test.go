package submission

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestMessage(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, FallbackMessage},
		{"user error wins over cause", &UserError{Msg: "Try later.", Cause: errors.New("503")}, "Try later."},
		{"wrapped user error", fmt.Errorf("webhook: %w", &UserError{Msg: "Rejected."}), "Rejected."},
		{"blank user error", &UserError{Msg: " "}, FallbackMessage},
		{"deadline", fmt.Errorf("store: %w", context.DeadlineExceeded), "The server took too long to respond, please try again."},
		{"canceled", fmt.Errorf("delay: %w", context.Canceled), FallbackMessage},
		{"plain", errors.New("boom"), "boom"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Message(tc.err); got != tc.want {
				t.Fatalf("Message() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDelay(t *testing.T) {
	if err := Delay(time.Millisecond).Accept(context.Background(), nil); err != nil {
		t.Fatalf("Delay: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Delay(time.Hour).Accept(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
