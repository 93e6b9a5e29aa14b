package dns

import (
	"context"
	"fmt"
	"time"

	"nathanbeddoewebdev/dnsm/internal/clouddns"
	"nathanbeddoewebdev/dnsm/internal/opstore"
)

// recordSubmission persists an accepted job so it can be resumed later.
// Recording is best effort; a store failure never blocks the operation
// itself.
func (s *Service) recordSubmission(st *clouddns.Status, summary string) {
	if s.ops == nil || st == nil {
		return
	}
	record := &opstore.OperationRecord{
		JobID:       st.JobID,
		CallbackURL: st.CallbackURL,
		Verb:        st.Verb,
		Summary:     summary,
		State:       opstore.StateRunning,
	}
	_ = s.ops.Save(record)
}

// finalizeRecord reconciles the stored record with a terminal snapshot.
func (s *Service) finalizeRecord(final *clouddns.Status) {
	if s.ops == nil || final == nil || !final.State.Terminal() {
		return
	}
	record, err := s.ops.GetByJobID(final.JobID)
	if err != nil || record == nil {
		return
	}
	switch final.State {
	case clouddns.StateCompleted:
		record.State = opstore.StateCompleted
		record.ErrorMessage = ""
	case clouddns.StateError:
		record.State = opstore.StateError
		if f := final.Failure(); f != nil {
			record.ErrorMessage = f.Message
		}
	}
	_ = s.ops.Save(record)
}

// Await blocks until the job behind st reaches a terminal state, keeping
// the local operation record in sync. The final snapshot is returned even
// when the job failed, so callers can inspect it alongside the error.
func (s *Service) Await(ctx context.Context, st *clouddns.Status) (*clouddns.Status, error) {
	final, err := s.api.WaitForResult(ctx, st, s.wait)
	s.finalizeRecord(final)
	return final, err
}

// Resume picks up a previously submitted job by its stored record and
// blocks until it reaches a terminal state.
func (s *Service) Resume(ctx context.Context, record *opstore.OperationRecord) (*clouddns.Status, error) {
	if record == nil {
		return nil, fmt.Errorf("no operation to resume")
	}

	st, err := s.api.PollStatus(ctx, record.JobID)
	if err != nil {
		return nil, fmt.Errorf("failed to poll job %s: %w", record.JobID, err)
	}

	final, err := s.api.WaitForResult(ctx, st, s.wait)
	s.finalizeRecord(final)
	if err != nil {
		return final, err
	}
	s.invalidateReads()
	return final, nil
}

// PendingOperations lists jobs that were still running when last seen.
func (s *Service) PendingOperations() ([]opstore.OperationRecord, error) {
	if s.ops == nil {
		return nil, nil
	}
	return s.ops.ListPending()
}

// RecentOperations lists the n most recent jobs regardless of state.
func (s *Service) RecentOperations(n int) ([]opstore.OperationRecord, error) {
	if s.ops == nil {
		return nil, nil
	}
	return s.ops.ListRecent(n)
}

// PruneOperations removes terminal records older than d and reports how
// many were deleted.
func (s *Service) PruneOperations(d time.Duration) (int64, error) {
	if s.ops == nil {
		return 0, nil
	}
	return s.ops.DeleteOlderThan(d)
}
