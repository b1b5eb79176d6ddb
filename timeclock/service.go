/*
service.go - Clock-in/out and break operations

PURPOSE:
  The write side of the time clock. Each operation validates the
  employee's current open/closed state, performs one atomic store write,
  and emits a clock_event_recorded notification so other views can
  re-derive their displayed totals.

STATE RULES:
  - ClockIn:    rejected while a session is already open
  - ClockOut:   requires an open session with no running break
  - StartBreak: requires an open session; one break per session
  - EndBreak:   requires a running break

SEE ALSO:
  - ledger.go: The read side (Aggregate)
  - bus/bus.go: Event delivery contract
*/
package timeclock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/warp/brokerage-engine/bus"
	"github.com/warp/brokerage-engine/payroll"
)

// Service performs clock mutations against the store and publishes events.
type Service struct {
	Store Store
	Bus   *bus.Bus

	// Now is the clock source; defaults to time.Now. Tests override it.
	Now func() time.Time
}

func NewService(store Store, b *bus.Bus) *Service {
	return &Service{Store: store, Bus: b, Now: time.Now}
}

// ClockIn opens a new live segment for the employee.
func (svc *Service) ClockIn(ctx context.Context, id payroll.EmployeeID) (*Segment, error) {
	open, err := svc.Store.OpenSegment(ctx, id)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return nil, &payroll.ValidationError{Field: "employeeId", Reason: "already clocked in"}
	}

	now := svc.Now()
	seg := Segment{
		ID:         uuid.NewString(),
		EmployeeID: id,
		Date:       time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()),
		ClockIn:    now,
	}
	if err := seg.Validate(); err != nil {
		return nil, err
	}
	if err := svc.Store.InsertSegment(ctx, seg); err != nil {
		return nil, err
	}

	svc.emit(id)
	return &seg, nil
}

// ClockOut closes the employee's live segment.
func (svc *Service) ClockOut(ctx context.Context, id payroll.EmployeeID) (*Segment, error) {
	seg, err := svc.requireOpen(ctx, id)
	if err != nil {
		return nil, err
	}
	if seg.HasOpenBreak() {
		return nil, &payroll.ValidationError{Field: "breakEnd", Reason: "end the running break before clocking out"}
	}

	now := svc.Now()
	seg.ClockOut = &now
	if err := seg.Validate(); err != nil {
		return nil, err
	}
	if err := svc.Store.UpdateSegment(ctx, *seg); err != nil {
		return nil, err
	}

	svc.emit(id)
	return seg, nil
}

// StartBreak begins the session's break.
func (svc *Service) StartBreak(ctx context.Context, id payroll.EmployeeID) (*Segment, error) {
	seg, err := svc.requireOpen(ctx, id)
	if err != nil {
		return nil, err
	}
	if seg.BreakStart != nil {
		return nil, &payroll.ValidationError{Field: "breakStart", Reason: "break already taken this session"}
	}

	now := svc.Now()
	seg.BreakStart = &now
	if err := svc.Store.UpdateSegment(ctx, *seg); err != nil {
		return nil, err
	}

	svc.emit(id)
	return seg, nil
}

// EndBreak closes the running break.
func (svc *Service) EndBreak(ctx context.Context, id payroll.EmployeeID) (*Segment, error) {
	seg, err := svc.requireOpen(ctx, id)
	if err != nil {
		return nil, err
	}
	if !seg.HasOpenBreak() {
		return nil, &payroll.ValidationError{Field: "breakStart", Reason: "no break running"}
	}

	now := svc.Now()
	seg.BreakEnd = &now
	if err := seg.Validate(); err != nil {
		return nil, err
	}
	if err := svc.Store.UpdateSegment(ctx, *seg); err != nil {
		return nil, err
	}

	svc.emit(id)
	return seg, nil
}

// DayTotals reconstructs one work day as of now.
func (svc *Service) DayTotals(ctx context.Context, id payroll.EmployeeID, day time.Time, dailyOvertimeHours float64) (Totals, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return svc.RangeTotals(ctx, id, start, start, dailyOvertimeHours)
}

// RangeTotals reconstructs the days [from, to] (by segment Date) as of now.
func (svc *Service) RangeTotals(ctx context.Context, id payroll.EmployeeID, from, to time.Time, dailyOvertimeHours float64) (Totals, error) {
	segments, err := svc.Store.SegmentsByEmployeeAndRange(ctx, id, from, to)
	if err != nil {
		return Totals{}, err
	}
	return Aggregate(segments, svc.Now(), dailyOvertimeHours)
}

func (svc *Service) requireOpen(ctx context.Context, id payroll.EmployeeID) (*Segment, error) {
	seg, err := svc.Store.OpenSegment(ctx, id)
	if err != nil {
		return nil, err
	}
	if seg == nil {
		return nil, &payroll.ValidationError{Field: "employeeId", Reason: "not clocked in"}
	}
	return seg, nil
}

func (svc *Service) emit(id payroll.EmployeeID) {
	if svc.Bus != nil {
		svc.Bus.Publish(bus.Event{Kind: bus.KindClockEventRecorded, Payload: bus.ClockEventRecorded{EmployeeID: id}})
	}
}
