package clouddns

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"nathanbeddoewebdev/dnsm/internal/domain"
)

// UnexpectedStatusError is returned when the service answers with an HTTP
// status other than the one the call expects (202 for async mutations,
// 200 for reads and polls). The full response body is kept for diagnostics.
type UnexpectedStatusError struct {
	// StatusCode is the HTTP status the service actually returned.
	StatusCode int

	// Body is the raw response body, unparsed.
	Body []byte
}

func (e *UnexpectedStatusError) Error() string {
	body := strings.TrimSpace(string(e.Body))
	if len(body) > 200 {
		body = body[:197] + "..."
	}
	if body == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, body)
}

// HTTPStatus exposes the status code for transient/fatal classification.
func (e *UnexpectedStatusError) HTTPStatus() int {
	return e.StatusCode
}

// Unwrap maps well-known status codes onto the shared sentinel errors so
// callers can use errors.Is without touching status codes.
func (e *UnexpectedStatusError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.ErrUnauthorized
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusConflict:
		return domain.ErrConflict
	case http.StatusTooManyRequests:
		return domain.ErrRateLimited
	}
	return nil
}

// OperationError is the service-reported failure of an asynchronous job.
// Its fields mirror the error payload of the status endpoint verbatim.
type OperationError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`

	ValidationErrors struct {
		Messages []string `json:"messages"`
	} `json:"validationErrors"`
}

func (e *OperationError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "operation failed"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s (code %d)", msg, e.Code)
	if e.Details != "" {
		fmt.Fprintf(&b, ": %s", e.Details)
	}
	if len(e.ValidationErrors.Messages) > 0 {
		fmt.Fprintf(&b, ": %s", strings.Join(e.ValidationErrors.Messages, "; "))
	}
	return b.String()
}

// TimeoutError is returned when a wait exhausted its attempt budget while
// the job was still running.
type TimeoutError struct {
	// JobID identifies the job that was being waited on.
	JobID string

	// Attempts is the number of polls issued before giving up.
	Attempts int

	// Interval is the configured delay between polls.
	Interval time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out waiting for job %s after %d polls (%s apart)",
		e.JobID, e.Attempts, e.Interval)
}

// ValidationError indicates the caller supplied an invalid request. It is
// returned before any network call is made.
type ValidationError struct {
	// Field names the offending field, e.g. "domains[1].emailAddress".
	Field string

	// Reason explains why the value was rejected.
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid request: %s", e.Reason)
	}
	return fmt.Sprintf("invalid request: %s: %s", e.Field, e.Reason)
}

// required builds the ValidationError used for missing mandatory fields.
func required(field string) *ValidationError {
	return &ValidationError{Field: field, Reason: "is required"}
}
