package domain

import "errors"

// Sentinel errors for HTTP error classification. The client wraps these
// so CLI code can handle error categories uniformly without inspecting
// raw status codes.
//
//	return fmt.Errorf("failed to fetch domain: %w", domain.ErrNotFound)
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrUnauthorized indicates the request was rejected due to
	// invalid, expired, or missing credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited indicates the service throttled the request.
	ErrRateLimited = errors.New("rate limited")

	// ErrConflict indicates a state or uniqueness conflict, such as
	// creating a domain that already exists.
	ErrConflict = errors.New("conflict")
)
