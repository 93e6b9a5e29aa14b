package clouddns

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"nathanbeddoewebdev/dnsm/internal/retry"
)

// WaitConfig controls how WaitForResult polls a job.
type WaitConfig struct {
	// Interval is the delay between successive polls.
	Interval time.Duration

	// MaxAttempts caps the number of polls before giving up with a
	// TimeoutError. At the default interval this gives ~5 minutes,
	// well beyond the typical couple of seconds for a domain mutation.
	MaxAttempts int

	// MaxTransientErrors is the number of consecutive transient poll
	// failures (connection errors, 5xx) tolerated before the wait is
	// abandoned. This rides out brief network blips without looping
	// forever against a dead endpoint.
	MaxTransientErrors int
}

// DefaultWaitConfig returns the polling configuration used by the CLI.
func DefaultWaitConfig() WaitConfig {
	return WaitConfig{
		Interval:           3 * time.Second,
		MaxAttempts:        100,
		MaxTransientErrors: 3,
	}
}

// withDefaults fills in zero fields from DefaultWaitConfig.
func (cfg WaitConfig) withDefaults() WaitConfig {
	def := DefaultWaitConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = def.Interval
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.MaxTransientErrors <= 0 {
		cfg.MaxTransientErrors = def.MaxTransientErrors
	}
	return cfg
}

// PollStatus fetches a fresh snapshot of the job's current state.
func (c *Client) PollStatus(ctx context.Context, jobID string) (*Status, error) {
	if jobID == "" {
		return nil, required("jobId")
	}

	query := url.Values{}
	query.Set("showDetails", "true")

	code, body, err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/status/" + jobID,
		query:  query,
	})
	if err != nil {
		return nil, err
	}
	if code != http.StatusOK {
		return nil, &UnexpectedStatusError{StatusCode: code, Body: body}
	}

	st, err := decodeStatus(body)
	if err != nil {
		return nil, fmt.Errorf("clouddns: job %s: %w", jobID, err)
	}
	return st, nil
}

// WaitForResult drives a job from whatever state its snapshot is in to a
// terminal state and returns the final snapshot.
//
// Poll rounds are strictly sequential: each round issues exactly one
// status fetch after the configured interval, and the in-hand snapshot is
// replaced by the fresh one. If the snapshot is already terminal no
// request is issued at all.
//
// Outcomes:
//   - StateCompleted: the final snapshot is returned with a nil error;
//     the caller extracts the payload via Status.Result.
//   - StateError: the final snapshot is returned together with its
//     *OperationError, carrying the service payload verbatim.
//   - Transient poll failures are retried up to cfg.MaxTransientErrors
//     consecutive times; fatal ones (4xx) abort the wait immediately.
//   - cfg.MaxAttempts exhausted: *TimeoutError, and no further polls are
//     issued.
//   - Context cancellation stops the loop and returns ctx.Err().
func (c *Client) WaitForResult(ctx context.Context, st *Status, cfg WaitConfig) (*Status, error) {
	if st == nil {
		return nil, fmt.Errorf("clouddns: no status to wait on")
	}
	if st.State.Terminal() {
		return st, terminalOutcome(st)
	}

	cfg = cfg.withDefaults()
	var consecutiveErrors int

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if !retry.Sleep(ctx, cfg.Interval) {
			return nil, ctx.Err()
		}

		snap, err := c.PollStatus(ctx, st.JobID)
		if err != nil {
			if !retry.Transient(err) {
				return nil, fmt.Errorf("clouddns: polling stopped: %w", err)
			}
			consecutiveErrors++
			if consecutiveErrors >= cfg.MaxTransientErrors {
				return nil, fmt.Errorf("clouddns: polling failed %d times in a row: %w", consecutiveErrors, err)
			}
			continue
		}
		consecutiveErrors = 0

		st = snap
		if st.State.Terminal() {
			return st, terminalOutcome(st)
		}
	}

	return nil, &TimeoutError{
		JobID:    st.JobID,
		Attempts: cfg.MaxAttempts,
		Interval: cfg.Interval,
	}
}

// terminalOutcome returns the error belonging to a terminal snapshot:
// nil for COMPLETED, the operation's failure for ERROR.
func terminalOutcome(st *Status) error {
	if st.State == StateError {
		return st.Failure()
	}
	return nil
}
