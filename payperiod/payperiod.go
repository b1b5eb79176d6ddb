/*
Package payperiod computes deterministic payroll period boundaries.

PURPOSE:
  Two calendar-anchored period shapes drive everything downstream:

  - Week: Sunday 00:00:00 through Saturday 23:59:59, in the reference
    date's local calendar. Used for the 40-hour overtime split.
  - Biweekly: a fixed 14-day window anchored to a known Monday. Used as
    the payroll cycle and as the edit-lock boundary for high-value policy
    review records.

  Periods are pure values derived on demand - they are never stored, so two
  viewers computing the period for the same instant always agree.

PRECONDITION:
  BiweeklyBounds requires date >= anchor. Dates before the anchor are
  rejected with a validation error; the calculator never clamps.

EDGE CASES:
  - A date exactly on the anchor belongs to period 0.
  - The period end instant is the last day at 23:59:59, mirroring the
    week-bounds convention, so Contains and IsExpired behave identically
    for both period shapes.

SEE ALSO:
  - bonus/summary.go: Consumes week bounds for the overtime split
  - review/workflow.go: Consumes biweekly expiry for edit locking
*/
package payperiod

import (
	"math"
	"time"

	"github.com/warp/brokerage-engine/payroll"
)

// =============================================================================
// PERIOD - A derived, never-stored value
// =============================================================================

// Period is a closed interval [Start, End]. End is the final day at 23:59:59.
type Period struct {
	Index int
	Start time.Time
	End   time.Time
}

// Contains returns true if t falls within [Start, End].
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// =============================================================================
// CALCULATOR
// =============================================================================

// Calculator derives period boundaries from a fixed anchor date.
// The anchor must be a Monday at local midnight; NewCalculator enforces this.
type Calculator struct {
	anchor time.Time
}

func NewCalculator(anchor time.Time) (*Calculator, error) {
	a := startOfDay(anchor)
	if a.Weekday() != time.Monday {
		return nil, &payroll.ValidationError{Field: "anchor", Reason: "biweekly anchor must be a Monday"}
	}
	return &Calculator{anchor: a}, nil
}

// Anchor returns the normalized anchor date.
func (c *Calculator) Anchor() time.Time { return c.anchor }

// WeekBounds returns the Sun-Sat week containing date, in date's local calendar.
func (c *Calculator) WeekBounds(date time.Time) Period {
	day := startOfDay(date)
	start := day.AddDate(0, 0, -int(day.Weekday())) // Sunday = 0
	return Period{
		Start: start,
		End:   endOfDay(start.AddDate(0, 0, 6)),
	}
}

// BiweeklyBounds returns the 14-day period containing date.
//
//	daysSinceAnchor = floor((date - anchor) / 1 day)
//	index           = floor(daysSinceAnchor / 14)
//	start           = anchor + index*14 days
//	end             = start + 13 days (inclusive window)
func (c *Calculator) BiweeklyBounds(date time.Time) (Period, error) {
	day := startOfDay(date)
	if day.Before(c.anchor) {
		return Period{}, &payroll.ValidationError{Field: "date", Reason: "date precedes biweekly anchor"}
	}
	daysSince := calendarDays(c.anchor, day)
	index := daysSince / 14
	start := c.anchor.AddDate(0, 0, index*14)
	return Period{
		Index: index,
		Start: start,
		End:   endOfDay(start.AddDate(0, 0, 13)),
	}, nil
}

// =============================================================================
// PREDICATES
// =============================================================================

// DaysRemaining returns ceil((periodEnd - now) / 1 day). Zero or negative
// once the period has ended.
func DaysRemaining(periodEnd, now time.Time) int {
	return int(math.Ceil(periodEnd.Sub(now).Hours() / 24))
}

// IsExpired reports whether now is strictly past the period end.
func IsExpired(periodEnd, now time.Time) bool {
	return now.After(periodEnd)
}

// =============================================================================
// CALENDAR HELPERS
// =============================================================================

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// calendarDays counts whole calendar days from a to b, DST-safe: both dates
// are re-anchored to UTC midnight before subtracting.
func calendarDays(a, b time.Time) int {
	au := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bu := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bu.Sub(au).Hours() / 24)
}
