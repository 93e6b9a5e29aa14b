package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

type testNetError struct {
	timeout   bool
	temporary bool
}

func (e testNetError) Error() string   { return "net error" }
func (e testNetError) Timeout() bool   { return e.timeout }
func (e testNetError) Temporary() bool { return e.temporary }

type testHTTPError struct {
	code int
}

func (e testHTTPError) Error() string   { return fmt.Sprintf("http %d", e.code) }
func (e testHTTPError) HTTPStatus() int { return e.code }

func TestTransient_NetErrors(t *testing.T) {
	if !Transient(testNetError{timeout: true}) {
		t.Error("expected timeout to be transient")
	}
	if !Transient(testNetError{temporary: true}) {
		t.Error("expected temporary error to be transient")
	}
	if Transient(testNetError{}) {
		t.Error("expected permanent net error to be fatal")
	}
}

func TestTransient_HTTPStatus(t *testing.T) {
	if !Transient(testHTTPError{code: 503}) {
		t.Error("expected 503 to be transient")
	}
	if Transient(testHTTPError{code: 404}) {
		t.Error("expected 404 to be fatal")
	}
	if Transient(testHTTPError{code: 429}) {
		t.Error("expected 429 to be fatal")
	}
}

func TestTransient_WrappedHTTPStatus(t *testing.T) {
	err := fmt.Errorf("poll failed: %w", testHTTPError{code: 502})
	if !Transient(err) {
		t.Error("expected wrapped 502 to be transient")
	}
}

func TestTransient_Context(t *testing.T) {
	if Transient(context.Canceled) {
		t.Error("expected canceled context to be fatal")
	}
	if !Transient(context.DeadlineExceeded) {
		t.Error("expected deadline exceeded to be transient")
	}
}

func TestTransient_Plain(t *testing.T) {
	if Transient(nil) {
		t.Error("expected nil to be fatal")
	}
	if Transient(errors.New("boom")) {
		t.Error("expected plain error to be fatal")
	}
}

func TestSleep_Completes(t *testing.T) {
	if !Sleep(context.Background(), time.Millisecond) {
		t.Error("expected sleep to complete")
	}
}

func TestSleep_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if Sleep(ctx, time.Minute) {
		t.Error("expected sleep to be interrupted by cancellation")
	}
}

func TestSleep_ZeroDelay(t *testing.T) {
	if !Sleep(context.Background(), 0) {
		t.Error("expected zero delay to succeed immediately")
	}
}
