// Package retry classifies errors as transient or fatal and provides the
// context-aware sleep used by polling loops. It deliberately does not
// retry anything itself: the polling loop owns its own attempt budget.
package retry

import (
	"context"
	"errors"
	"net"
	"time"
)

// statusCoder is implemented by errors that carry an HTTP status code.
// Declared here so this package does not depend on the client package.
type statusCoder interface {
	HTTPStatus() int
}

// Transient reports whether an error is likely to clear up on its own:
// connection-level failures and 5xx responses. Client errors (4xx) and
// cancellation are fatal.
func Transient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var sc statusCoder
	if errors.As(err, &sc) {
		return sc.HTTPStatus() >= 500
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout() || netErr.Temporary()
	}

	// Plain transport failures from net/http arrive as *url.Error
	// wrapping a net error; errors.As above catches those. Anything
	// else is treated as fatal.
	return false
}

// Sleep waits for the given delay or until the context is done.
// It returns false if the context expired first.
func Sleep(ctx context.Context, delay time.Duration) bool {
	if delay <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
