/*
Package timeclock reconstructs worked and break time from clock events.

PURPOSE:
  Clock events are open-ended: an employee clocks in, maybe starts a
  break, and the record stays open until the matching end event arrives.
  This package turns a day's (or week's) segments into exact worked and
  break seconds, including the still-open live session, as a pure
  function of the segments and an asOf instant.

  Nothing here is timer-driven. The live overtime marker is re-derivable
  from a cold read at any instant: the same segments plus the same asOf
  always produce the same totals and status.

KEY CONCEPTS IN THIS FILE (segment.go):
  - Segment: one clock-in/out pair, optionally holding one break pair
  - LiveStatus: idle / working / on_break / overtime_pending
  - Store: persistence collaborator (create/update/query-by-range)

INVARIANTS:
  - ClockOut > ClockIn and BreakEnd > BreakStart when both present
  - A closed segment cannot hold an open break
  - At most one segment per employee is open at a time (enforced by the
    clock service and by Aggregate)
  - A break fully contained in its segment's work interval is subtracted
    from worked time exactly once

SEE ALSO:
  - ledger.go: Aggregate and the weekly overtime split
  - service.go: Clock-in/out/break operations
*/
package timeclock

import (
	"context"
	"time"

	"github.com/warp/brokerage-engine/payroll"
)

// =============================================================================
// LIVE STATUS
// =============================================================================

type LiveStatus string

const (
	StatusIdle            LiveStatus = "idle"
	StatusWorking         LiveStatus = "working"
	StatusOnBreak         LiveStatus = "on_break"
	StatusOvertimePending LiveStatus = "overtime_pending"
)

// =============================================================================
// SEGMENT
// =============================================================================

// Segment is one clock-in/clock-out pair for one employee on one work day.
// ClockOut is nil while the session is live; the break pair is nil until a
// break is taken and BreakEnd is nil while the break is running.
type Segment struct {
	ID         string
	EmployeeID payroll.EmployeeID
	Date       time.Time // work day at local midnight, not a timestamp
	ClockIn    time.Time
	ClockOut   *time.Time
	BreakStart *time.Time
	BreakEnd   *time.Time
}

// IsOpen reports whether the session is still live.
func (s Segment) IsOpen() bool { return s.ClockOut == nil }

// HasOpenBreak reports whether a break is running.
func (s Segment) HasOpenBreak() bool { return s.BreakStart != nil && s.BreakEnd == nil }

// Validate enforces the interval invariants.
func (s Segment) Validate() error {
	if s.EmployeeID == "" {
		return &payroll.ValidationError{Field: "employeeId", Reason: "required"}
	}
	if s.ClockIn.IsZero() {
		return &payroll.ValidationError{Field: "clockIn", Reason: "required"}
	}
	if s.ClockOut != nil && !s.ClockOut.After(s.ClockIn) {
		return &payroll.ValidationError{Field: "clockOut", Reason: "must be after clockIn"}
	}
	if s.BreakEnd != nil && s.BreakStart == nil {
		return &payroll.ValidationError{Field: "breakEnd", Reason: "break has no start"}
	}
	if s.BreakStart != nil && s.BreakEnd != nil && !s.BreakEnd.After(*s.BreakStart) {
		return &payroll.ValidationError{Field: "breakEnd", Reason: "must be after breakStart"}
	}
	if !s.IsOpen() && s.HasOpenBreak() {
		return &payroll.ValidationError{Field: "breakEnd", Reason: "closed segment cannot hold an open break"}
	}
	return nil
}

// =============================================================================
// STORE - Persistence collaborator
// =============================================================================

type Store interface {
	InsertSegment(ctx context.Context, s Segment) error

	// UpdateSegment replaces the stored segment with the same ID as one
	// atomic single-record write.
	UpdateSegment(ctx context.Context, s Segment) error

	// SegmentsByEmployeeAndRange returns segments whose Date falls in
	// [from, to], ordered by ClockIn.
	SegmentsByEmployeeAndRange(ctx context.Context, id payroll.EmployeeID, from, to time.Time) ([]Segment, error)

	// OpenSegment returns the employee's live segment, or nil if idle.
	OpenSegment(ctx context.Context, id payroll.EmployeeID) (*Segment, error)
}
