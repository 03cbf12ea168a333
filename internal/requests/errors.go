// Package requests implements the realtime request synchronization core:
// the cache store for polled snapshots, the realtime feed adapter, and the
// reconciliation layer that merges both with locally pending optimistic
// mutations into the single list the dashboard reads.
//
// This file centralizes the error taxonomy so that callers can classify
// failures consistently:
//   - ErrNotAuthenticated: no resolvable identity; callers typically redirect
//     to login.
//   - ErrProfileNotFound: the identity has no hotel association; fatal for
//     the session, not retried automatically.
//   - ErrNotFound: the referenced request does not exist in the caller's hotel.
//   - BackendError: any downstream failure; surfaced as a visible but
//     non-fatal notification, retried only by explicit user action.
//   - ValidationError: local input failure; never reaches the backend.
package requests

import "errors"

var (
	// ErrNotAuthenticated indicates that no authenticated identity could be
	// resolved from the request context.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrProfileNotFound indicates that the authenticated identity has no
	// staff profile row and therefore no hotel association.
	ErrProfileNotFound = errors.New("staff profile not found")

	// ErrNotFound indicates that the referenced request does not exist
	// within the caller's hotel.
	ErrNotFound = errors.New("request not found")
)

// ValidationError reports the first missing required field of a create
// request. It is produced before any network call.
type ValidationError struct {
	Field string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return "missing required field: " + e.Field
}

// BackendError wraps a downstream failure (query, insert, update,
// subscription establishment) with the operation that produced it.
type BackendError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *BackendError) Error() string {
	return "backend " + e.Op + " failed: " + e.Err.Error()
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *BackendError) Unwrap() error { return e.Err }
