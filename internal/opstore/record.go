package opstore

import "time"

// Operation states as persisted locally. They mirror the remote job
// lifecycle so a record can be reconciled against a fresh status poll.
const (
	StateRunning   = "RUNNING"
	StateCompleted = "COMPLETED"
	StateError     = "ERROR"
)

// OperationRecord is a locally tracked asynchronous job. Jobs the API
// accepts keep running server-side even if the CLI exits, so each
// submission is written here before the first poll and finalized when
// the job reaches a terminal state.
type OperationRecord struct {
	// ID is the auto-increment primary key (assigned on insert).
	ID int64

	// JobID is the identifier the API assigned to the job.
	JobID string

	// CallbackURL is the status URL the API returned, kept for display.
	CallbackURL string

	// Verb is the HTTP method of the originating request.
	Verb string

	// Summary is a short human-readable description of the operation,
	// e.g. "create example.com" or "delete 2 domains".
	Summary string

	// State is RUNNING, COMPLETED, or ERROR.
	State string

	// ErrorMessage explains the failure when State is ERROR.
	ErrorMessage string

	// CreatedAt is when the job was submitted.
	CreatedAt time.Time

	// UpdatedAt is the last time the record changed.
	UpdatedAt time.Time
}

// Pending reports whether the record still needs polling.
func (r OperationRecord) Pending() bool { return r.State == StateRunning }
