/*
errors.go - Centralized error taxonomy for the engine

PURPOSE:
  Three categories cover every failure the core can produce:

  1. Validation - malformed input (negative amounts, clock-out before
     clock-in, duplicate natural key). Rejected before any write.
  2. Conflict - a state-machine transition that is invalid for the record's
     current status or its period expiry. Rejected with the specific reason,
     never coerced to a neighboring valid state.
  3. Transient - a storage/collaborator failure. Background readers recover
     by retaining the last good snapshot; user-initiated writes surface the
     error with the operation un-applied.

USAGE:
  Domain packages wrap these sentinels:

    if payroll.IsConflict(err) {
        // 409 at the HTTP edge
    }

SEE ALSO:
  - review/workflow.go: ConflictError producers
  - api/handlers.go: HTTP status mapping
*/
package payroll

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is the root of all malformed-input failures.
	ErrValidation = errors.New("validation failed")

	// ErrConflict is the root of all invalid-transition failures.
	ErrConflict = errors.New("conflict")

	// ErrTransient indicates a storage/collaborator failure that may succeed
	// on retry.
	ErrTransient = errors.New("transient failure")

	// ErrNotFound is returned when a referenced record doesn't exist.
	ErrNotFound = errors.New("not found")

	// ErrActionInFlight is returned when a mutating action for the same
	// record is already outstanding (double-click protection).
	ErrActionInFlight = errors.New("action already in flight")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError describes a malformed-input rejection.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ConflictError describes an invalid state-machine transition.
type ConflictError struct {
	Record string // record id
	Reason string // e.g. "period expired, cannot unresolve"
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict on %s: %s", e.Record, e.Reason)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// TransientError wraps a collaborator failure.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient failure in %s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error { return ErrTransient }

// =============================================================================
// ERROR HELPERS
// =============================================================================

func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }
func IsConflict(err error) bool   { return errors.Is(err, ErrConflict) }
func IsTransient(err error) bool  { return errors.Is(err, ErrTransient) }
func IsNotFound(err error) bool   { return errors.Is(err, ErrNotFound) }
