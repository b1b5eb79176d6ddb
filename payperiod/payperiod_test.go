package payperiod_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/brokerage-engine/payperiod"
	"github.com/warp/brokerage-engine/payroll"
)

// 2024-01-01 is a Monday.
var anchor = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

func newCalc(t *testing.T) *payperiod.Calculator {
	c, err := payperiod.NewCalculator(anchor)
	require.NoError(t, err)
	return c
}

// =============================================================================
// BIWEEKLY BOUNDS
// =============================================================================

func TestBiweeklyBounds_AnchorBelongsToPeriodZero(t *testing.T) {
	c := newCalc(t)

	p, err := c.BiweeklyBounds(anchor)
	require.NoError(t, err)

	assert.Equal(t, 0, p.Index)
	assert.Equal(t, anchor, p.Start)
	assert.Equal(t, anchor.AddDate(0, 0, 13), time.Date(p.End.Year(), p.End.Month(), p.End.Day(), 0, 0, 0, 0, time.UTC))
}

func TestBiweeklyBounds_PeriodIndexMonotonicity(t *testing.T) {
	// GIVEN: the anchor plus exactly 14 days
	// THEN: that date opens period 1, starting at anchor+14d
	c := newCalc(t)

	p, err := c.BiweeklyBounds(anchor.AddDate(0, 0, 14))
	require.NoError(t, err)

	assert.Equal(t, 1, p.Index)
	assert.Equal(t, anchor.AddDate(0, 0, 14), p.Start)
}

func TestBiweeklyBounds_LastDayStillInsidePeriod(t *testing.T) {
	c := newCalc(t)

	p, err := c.BiweeklyBounds(anchor.AddDate(0, 0, 13))
	require.NoError(t, err)

	assert.Equal(t, 0, p.Index)
	assert.True(t, p.Contains(anchor.AddDate(0, 0, 13).Add(12*time.Hour)))
}

func TestBiweeklyBounds_DateBeforeAnchor_Rejected(t *testing.T) {
	c := newCalc(t)

	_, err := c.BiweeklyBounds(anchor.AddDate(0, 0, -1))

	require.Error(t, err)
	assert.True(t, payroll.IsValidation(err))
}

func TestNewCalculator_NonMondayAnchor_Rejected(t *testing.T) {
	_, err := payperiod.NewCalculator(anchor.AddDate(0, 0, 1))

	require.Error(t, err)
	assert.True(t, payroll.IsValidation(err))
}

// =============================================================================
// WEEK BOUNDS
// =============================================================================

func TestWeekBounds_SundayThroughSaturday(t *testing.T) {
	c := newCalc(t)

	// 2024-01-03 is a Wednesday; its week is Dec 31 (Sun) - Jan 6 (Sat).
	wed := time.Date(2024, time.January, 3, 15, 30, 0, 0, time.UTC)
	p := c.WeekBounds(wed)

	assert.Equal(t, time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC), p.Start)
	assert.Equal(t, time.Date(2024, time.January, 6, 23, 59, 59, 0, time.UTC), p.End)
}

func TestWeekBounds_SundayStartsItsOwnWeek(t *testing.T) {
	c := newCalc(t)

	sun := time.Date(2024, time.January, 7, 8, 0, 0, 0, time.UTC)
	p := c.WeekBounds(sun)

	assert.Equal(t, time.Date(2024, time.January, 7, 0, 0, 0, 0, time.UTC), p.Start)
	assert.Equal(t, time.Saturday, p.End.Weekday())
}

// =============================================================================
// PREDICATES
// =============================================================================

func TestDaysRemaining_CeilsPartialDays(t *testing.T) {
	end := time.Date(2024, time.January, 14, 23, 59, 59, 0, time.UTC)

	// 36 hours before the end -> 2 days remaining
	now := end.Add(-36 * time.Hour)
	assert.Equal(t, 2, payperiod.DaysRemaining(end, now))

	// 1 hour before the end -> 1 day remaining
	now = end.Add(-1 * time.Hour)
	assert.Equal(t, 1, payperiod.DaysRemaining(end, now))
}

func TestIsExpired_StrictlyAfterEnd(t *testing.T) {
	end := time.Date(2024, time.January, 14, 23, 59, 59, 0, time.UTC)

	assert.False(t, payperiod.IsExpired(end, end))
	assert.True(t, payperiod.IsExpired(end, end.Add(time.Second)))
}
