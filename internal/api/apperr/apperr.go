// Package apperr defines the error kinds every mutating operation of the
// workflow core may return. Callers test with errors.Is; wrapping keeps the
// original detail.
package apperr

import "errors"

var (
	// ErrValidation marks malformed input, e.g. a required field left empty.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a referenced job, user or notification that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden marks a permission-rule failure for the acting user.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidTransition marks a status change with no edge in the state
	// machine, including any transition out of a terminal status.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrConflict marks an optimistic-concurrency collision. The caller may
	// re-read and resubmit; the core never retries on its own.
	ErrConflict = errors.New("conflict")

	// ErrTransport marks an unreachable store or broker, surfaced as-is.
	ErrTransport = errors.New("transport error")
)
