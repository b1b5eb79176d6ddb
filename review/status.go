/*
Package review implements the high-value policy review workflow.

PURPOSE:
  Sales at or above the configured threshold cannot be bonused
  automatically - an admin reviews each one and assigns a manual bonus
  (possibly zero). This package owns that record's lifecycle:

    pending -> reviewed -> resolved
                  ^            |
                  +-- unresolve +--> pending (while period not expired)

  The record is bound to the biweekly period active when the sale was
  made. Once that period ends, a resolved record is permanently locked:
  no transition is valid against it.

KEY CONCEPTS IN THIS FILE (status.go):
  - Status: closed enumeration; unmodeled strings are rejected at the
    storage boundary by ParseStatus, never carried as raw tags

SEE ALSO:
  - notification.go: The record type and its store interface
  - workflow.go: Transitions, expiry locking, idempotency guard
*/
package review

import "github.com/warp/brokerage-engine/payroll"

// Status is the review lifecycle state.
type Status string

const (
	StatusPending  Status = "pending"
	StatusReviewed Status = "reviewed"
	StatusResolved Status = "resolved"
)

// ParseStatus converts a stored tag into a Status, rejecting anything
// outside the closed set.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusReviewed, StatusResolved:
		return Status(s), nil
	default:
		return "", &payroll.ValidationError{Field: "status", Reason: "unknown status tag: " + s}
	}
}
