package clouddns

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestWaitForResult_RunsToCompletion(t *testing.T) {
	var calls atomic.Int64
	srv := scriptedServer(t, &calls,
		step{http.StatusOK, runningStatus("abc")},
		step{http.StatusOK, completedStatus("abc", map[string]any{
			"domains": []any{map[string]any{"id": 1, "name": "example.com"}},
		})},
	)
	c := newTestClient(t, srv.URL)

	start := &Status{JobID: "abc", State: StateRunning}
	final, err := c.WaitForResult(context.Background(), start, testWaitConfig())
	if err != nil {
		t.Fatalf("WaitForResult failed: %v", err)
	}
	if final.State != StateCompleted {
		t.Errorf("State = %q, want COMPLETED", final.State)
	}
	if _, ok := final.Result(); !ok {
		t.Error("expected result payload on final snapshot")
	}

	// One poll saw RUNNING, exactly one more followed.
	if calls.Load() != 2 {
		t.Errorf("polls = %d, want 2", calls.Load())
	}
}

func TestWaitForResult_TerminalSnapshotIssuesNoPolls(t *testing.T) {
	var calls atomic.Int64
	srv := scriptedServer(t, &calls, step{http.StatusOK, runningStatus("abc")})
	c := newTestClient(t, srv.URL)

	done := &Status{JobID: "abc", State: StateCompleted}
	final, err := c.WaitForResult(context.Background(), done, testWaitConfig())
	if err != nil {
		t.Fatalf("WaitForResult failed: %v", err)
	}
	if final != done {
		t.Error("expected the terminal snapshot to be returned unchanged")
	}
	if calls.Load() != 0 {
		t.Errorf("polls = %d, want 0 for an already-terminal snapshot", calls.Load())
	}
}

func TestWaitForResult_OperationError(t *testing.T) {
	srv := staticServer(t, http.StatusOK, map[string]any{
		"jobId":  "abc",
		"status": "ERROR",
		"error": map[string]any{
			"code":    419,
			"message": "domain exists",
			"details": "DUPLICATE",
		},
	})
	c := newTestClient(t, srv.URL)

	final, err := c.WaitForResult(context.Background(), &Status{JobID: "abc", State: StateRunning}, testWaitConfig())

	var opErr *OperationError
	if !errors.As(err, &opErr) {
		t.Fatalf("expected OperationError, got %v", err)
	}
	if opErr.Code != 419 || opErr.Message != "domain exists" || opErr.Details != "DUPLICATE" {
		t.Errorf("payload not surfaced verbatim: %+v", opErr)
	}
	if final == nil || final.State != StateError {
		t.Error("expected the final error snapshot alongside the error")
	}
}

func TestWaitForResult_Timeout(t *testing.T) {
	var calls atomic.Int64
	srv := scriptedServer(t, &calls, step{http.StatusOK, runningStatus("abc")})
	c := newTestClient(t, srv.URL)

	cfg := WaitConfig{Interval: 1, MaxAttempts: 4, MaxTransientErrors: 3}
	_, err := c.WaitForResult(context.Background(), &Status{JobID: "abc", State: StateRunning}, cfg)

	var toErr *TimeoutError
	if !errors.As(err, &toErr) {
		t.Fatalf("expected TimeoutError, got %v", err)
	}
	if toErr.JobID != "abc" {
		t.Errorf("JobID = %q, want abc", toErr.JobID)
	}
	if toErr.Attempts != 4 {
		t.Errorf("Attempts = %d, want 4", toErr.Attempts)
	}

	// No further polls once the budget is exhausted.
	polls := calls.Load()
	if polls != 4 {
		t.Errorf("polls = %d, want exactly 4", polls)
	}
	time.Sleep(10 * time.Millisecond)
	if calls.Load() != polls {
		t.Error("poller kept issuing requests after timing out")
	}
}

func TestWaitForResult_ToleratesTransientFailures(t *testing.T) {
	var calls atomic.Int64
	srv := scriptedServer(t, &calls,
		step{http.StatusInternalServerError, map[string]any{"message": "blip"}},
		step{http.StatusBadGateway, nil},
		step{http.StatusOK, completedStatus("abc", map[string]any{"domains": []any{}})},
	)
	c := newTestClient(t, srv.URL)

	final, err := c.WaitForResult(context.Background(), &Status{JobID: "abc", State: StateRunning}, testWaitConfig())
	if err != nil {
		t.Fatalf("expected transient failures to be ridden out, got %v", err)
	}
	if final.State != StateCompleted {
		t.Errorf("State = %q, want COMPLETED", final.State)
	}
	if calls.Load() != 3 {
		t.Errorf("polls = %d, want 3", calls.Load())
	}
}

func TestWaitForResult_AbortsAfterConsecutiveTransientFailures(t *testing.T) {
	var calls atomic.Int64
	srv := scriptedServer(t, &calls, step{http.StatusServiceUnavailable, nil})
	c := newTestClient(t, srv.URL)

	cfg := WaitConfig{Interval: 1, MaxAttempts: 50, MaxTransientErrors: 3}
	_, err := c.WaitForResult(context.Background(), &Status{JobID: "abc", State: StateRunning}, cfg)
	if err == nil {
		t.Fatal("expected error after repeated transient failures")
	}
	if calls.Load() != 3 {
		t.Errorf("polls = %d, want 3 before giving up", calls.Load())
	}
}

func TestWaitForResult_FatalPollErrorAbortsImmediately(t *testing.T) {
	var calls atomic.Int64
	srv := scriptedServer(t, &calls, step{http.StatusNotFound, map[string]any{"message": "no such job"}})
	c := newTestClient(t, srv.URL)

	_, err := c.WaitForResult(context.Background(), &Status{JobID: "gone", State: StateRunning}, testWaitConfig())

	var use *UnexpectedStatusError
	if !errors.As(err, &use) {
		t.Fatalf("expected UnexpectedStatusError, got %v", err)
	}
	if use.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", use.StatusCode)
	}
	if calls.Load() != 1 {
		t.Errorf("polls = %d, want 1 (no retry on 4xx)", calls.Load())
	}
}

func TestWaitForResult_Canceled(t *testing.T) {
	srv := staticServer(t, http.StatusOK, runningStatus("abc"))
	c := newTestClient(t, srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.WaitForResult(ctx, &Status{JobID: "abc", State: StateRunning}, DefaultWaitConfig())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestWaitForResult_NilStatus(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:0")
	if _, err := c.WaitForResult(context.Background(), nil, DefaultWaitConfig()); err == nil {
		t.Fatal("expected error for nil status")
	}
}

func TestWaitForResult_ConcurrentWaitsAreIndependent(t *testing.T) {
	// Two jobs polled at the same time against one server; each wait must
	// resolve with its own outcome, unaffected by the other.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		var body map[string]any
		if strings.HasSuffix(r.URL.Path, "/status/ok-job") {
			body = completedStatus("ok-job", map[string]any{"domains": []any{}})
		} else {
			body = map[string]any{
				"jobId":  "bad-job",
				"status": "ERROR",
				"error":  map[string]any{"code": 419, "message": "domain exists"},
			}
		}
		json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	c := newTestClient(t, srv.URL)

	type outcome struct {
		final *Status
		err   error
	}
	run := func(jobID string) <-chan outcome {
		ch := make(chan outcome, 1)
		go func() {
			final, err := c.WaitForResult(context.Background(), &Status{JobID: jobID, State: StateRunning}, testWaitConfig())
			ch <- outcome{final, err}
		}()
		return ch
	}

	okCh := run("ok-job")
	badCh := run("bad-job")

	ok := <-okCh
	if ok.err != nil {
		t.Fatalf("completing job failed: %v", ok.err)
	}
	if ok.final.State != StateCompleted {
		t.Errorf("State = %q, want COMPLETED", ok.final.State)
	}

	bad := <-badCh
	var opErr *OperationError
	if !errors.As(bad.err, &opErr) {
		t.Fatalf("expected OperationError for the failing job, got %v", bad.err)
	}
	if opErr.Message != "domain exists" {
		t.Errorf("Message = %q, want %q", opErr.Message, "domain exists")
	}
}

func TestPollStatus_QueryAndPath(t *testing.T) {
	var gotPath, gotQuery string
	srv := scriptedHandlerServer(t, func(r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
	}, step{http.StatusOK, runningStatus("abc")})
	c := newTestClient(t, srv.URL)

	if _, err := c.PollStatus(context.Background(), "abc"); err != nil {
		t.Fatalf("PollStatus failed: %v", err)
	}
	if gotPath != "/1234/status/abc" {
		t.Errorf("path = %q, want /1234/status/abc", gotPath)
	}
	if gotQuery != "showDetails=true" {
		t.Errorf("query = %q, want showDetails=true", gotQuery)
	}
}
