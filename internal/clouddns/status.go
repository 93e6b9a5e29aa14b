package clouddns

import (
	"encoding/json"
	"fmt"
	"strings"
)

// State is the lifecycle state of an asynchronous job as reported by the
// status endpoint.
type State string

const (
	// StateRunning means the job is still executing.
	StateRunning State = "RUNNING"

	// StateCompleted means the job finished successfully and the status
	// carries a result payload.
	StateCompleted State = "COMPLETED"

	// StateError means the job failed and the status carries an error
	// payload.
	StateError State = "ERROR"

	// StateUnknown is the fallback for values this client does not
	// recognize. Unknown states are treated as still running.
	StateUnknown State = "UNKNOWN"
)

// ParseState maps a service-reported state string onto the closed State
// set, falling back to StateUnknown.
func ParseState(s string) State {
	switch State(strings.ToUpper(strings.TrimSpace(s))) {
	case StateRunning:
		return StateRunning
	case StateCompleted:
		return StateCompleted
	case StateError:
		return StateError
	}
	return StateUnknown
}

// Terminal reports whether no further transitions can occur.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateError
}

// Status is one immutable snapshot of an asynchronous job. Each poll
// produces a fresh snapshot; a Status is never mutated after construction.
//
// The result and error payloads are reachable only through Result and
// Failure, which guard on the state, so callers cannot read a result off
// a job that is still running.
type Status struct {
	// JobID is the correlation key used to poll for progress.
	JobID string

	// CallbackURL is the status endpoint the service self-reported.
	CallbackURL string

	// State is the job state at the time of this snapshot.
	State State

	// Verb and RequestURL echo the original request for display.
	Verb       string
	RequestURL string

	response json.RawMessage
	opErr    *OperationError
}

// Result returns the completion payload. The second return is false
// unless the snapshot is in StateCompleted.
func (s *Status) Result() (json.RawMessage, bool) {
	if s.State != StateCompleted {
		return nil, false
	}
	return s.response, true
}

// Failure returns the service-provided error payload, or nil if the
// snapshot is not in StateError. The payload is surfaced verbatim.
func (s *Status) Failure() *OperationError {
	if s.State != StateError {
		return nil
	}
	if s.opErr == nil {
		return &OperationError{Message: "operation failed"}
	}
	return s.opErr
}

// statusEnvelope is the wire shape of both accepted-mutation responses
// and status endpoint responses.
type statusEnvelope struct {
	JobID       string          `json:"jobId"`
	CallbackURL string          `json:"callbackUrl"`
	Status      string          `json:"status"`
	Verb        string          `json:"verb"`
	RequestURL  string          `json:"requestUrl"`
	Response    json.RawMessage `json:"response"`
	Error       *OperationError `json:"error"`
}

// decodeStatus parses a status body into a snapshot. Payloads are only
// attached when the state says they should be present.
func decodeStatus(body []byte) (*Status, error) {
	var env statusEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to decode status body: %w", err)
	}
	if env.JobID == "" {
		return nil, fmt.Errorf("status body missing jobId")
	}

	st := &Status{
		JobID:       env.JobID,
		CallbackURL: env.CallbackURL,
		State:       ParseState(env.Status),
		Verb:        env.Verb,
		RequestURL:  env.RequestURL,
	}
	switch st.State {
	case StateCompleted:
		st.response = env.Response
	case StateError:
		st.opErr = env.Error
	}
	return st, nil
}
