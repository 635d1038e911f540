package kuma

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Sentinel error kinds for remote failures. Callers pick the user-facing
// message with errors.Is; a timeout gets "try again later" framing, anything
// else a generic unavailable message.
var (
	ErrUnavailable = errors.New("monitoring service unavailable")
	ErrTimeout     = errors.New("monitoring service timed out")
)

// classify wraps a transport error with the matching sentinel.
func classify(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %v", ErrTimeout, op, err)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return fmt.Errorf("%w: %s: %v", ErrTimeout, op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
}
