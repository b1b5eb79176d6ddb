/*
ledger.go - Worked/break time reconstruction

ALGORITHM:
  For each closed segment: workTime = clockOut - clockIn; a completed
  break contained in [clockIn, clockOut] is moved from worked to break
  time exactly once (never counted against a different segment).

  For the live segment (clockIn set, clockOut unset):
  - No break:          worked accrues clockIn -> asOf
  - Break running:     worked is frozen at breakStart; break accrues
                       breakStart -> asOf
  - Break completed:   worked accrues clockIn -> asOf minus the break

  Exactly one segment per employee may be open at asOf. None open means
  liveStatus = idle.

DAILY OVERTIME:
  While live and working, crossing the employee's daily threshold flips
  the status to overtime_pending. This is a pure function of elapsed
  time - no timers - so a cold read at any instant derives the same
  marker.

WEEKLY OVERTIME:
  Payroll uses a fixed weekly threshold (40h) regardless of the daily
  one. Hours beyond it are overtime hours, paid at the same rate as
  regular hours in this design (the no-premium formula is intentional;
  see DESIGN.md).
*/
package timeclock

import (
	"time"

	"github.com/warp/brokerage-engine/payroll"
)

// Totals is the reconstruction result for a set of segments.
type Totals struct {
	WorkedSeconds int64
	BreakSeconds  int64
	Live          LiveStatus
}

// WorkedHours returns worked time in fractional hours.
func (t Totals) WorkedHours() float64 { return float64(t.WorkedSeconds) / 3600 }

// Aggregate reconstructs total worked and break seconds from segments as of
// a given instant. dailyOvertimeHours is the employee's live-status
// threshold; pass 0 to disable the overtime_pending marker.
func Aggregate(segments []Segment, asOf time.Time, dailyOvertimeHours float64) (Totals, error) {
	totals := Totals{Live: StatusIdle}
	sawOpen := false

	for _, s := range segments {
		if err := s.Validate(); err != nil {
			return Totals{}, err
		}

		if s.IsOpen() {
			if sawOpen {
				return Totals{}, &payroll.ValidationError{Field: "segments", Reason: "more than one open segment"}
			}
			sawOpen = true

			worked, brk, status := liveSplit(s, asOf)
			totals.WorkedSeconds += worked
			totals.BreakSeconds += brk
			totals.Live = status
			continue
		}

		worked := seconds(s.ClockIn, *s.ClockOut)
		if s.BreakStart != nil && s.BreakEnd != nil && breakInside(s) {
			brk := seconds(*s.BreakStart, *s.BreakEnd)
			worked -= brk
			totals.BreakSeconds += brk
		}
		totals.WorkedSeconds += worked
	}

	if totals.Live == StatusWorking && dailyOvertimeHours > 0 &&
		totals.WorkedHours() >= dailyOvertimeHours {
		totals.Live = StatusOvertimePending
	}

	return totals, nil
}

// liveSplit computes the live segment's contribution up to asOf.
func liveSplit(s Segment, asOf time.Time) (worked, brk int64, status LiveStatus) {
	if s.HasOpenBreak() {
		// Worked time frozen at the break start; break accrues to asOf.
		return seconds(s.ClockIn, *s.BreakStart), seconds(*s.BreakStart, asOf), StatusOnBreak
	}

	worked = seconds(s.ClockIn, asOf)
	if s.BreakStart != nil && s.BreakEnd != nil {
		brk = seconds(*s.BreakStart, *s.BreakEnd)
		worked -= brk
	}
	return worked, brk, StatusWorking
}

// breakInside reports whether the completed break is fully contained in the
// segment's work interval.
func breakInside(s Segment) bool {
	return !s.BreakStart.Before(s.ClockIn) && !s.BreakEnd.After(*s.ClockOut)
}

// seconds returns the non-negative whole seconds from a to b.
func seconds(a, b time.Time) int64 {
	d := int64(b.Sub(a) / time.Second)
	if d < 0 {
		return 0
	}
	return d
}

// WeeklySplit divides a week's worked hours at the fixed weekly overtime
// threshold: regular = min(total, threshold), overtime = the remainder.
func WeeklySplit(totalHours, weeklyThreshold float64) (regular, overtime float64) {
	if totalHours <= weeklyThreshold {
		return totalHours, 0
	}
	return weeklyThreshold, totalHours - weeklyThreshold
}
