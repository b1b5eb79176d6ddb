package timeclock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/brokerage-engine/payroll"
	"github.com/warp/brokerage-engine/timeclock"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

var day = time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC)

func at(hour, min int) time.Time {
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute)
}

func tp(t time.Time) *time.Time { return &t }

func closedSegment(in, out time.Time) timeclock.Segment {
	return timeclock.Segment{
		ID: "seg-1", EmployeeID: "emp-1", Date: day,
		ClockIn: in, ClockOut: tp(out),
	}
}

// =============================================================================
// CLOSED SEGMENT RECONSTRUCTION
// =============================================================================

func TestAggregate_ClosedSegment_NoBreak(t *testing.T) {
	seg := closedSegment(at(9, 0), at(17, 0))

	totals, err := timeclock.Aggregate([]timeclock.Segment{seg}, at(23, 0), 0)
	require.NoError(t, err)

	assert.Equal(t, int64(8*3600), totals.WorkedSeconds)
	assert.Equal(t, int64(0), totals.BreakSeconds)
	assert.Equal(t, timeclock.StatusIdle, totals.Live)
}

func TestAggregate_BreakInsideWorkInterval_SubtractedExactlyOnce(t *testing.T) {
	// GIVEN: clockIn < breakStart < breakEnd < clockOut
	// THEN:  worked = (out-in) - (breakEnd-breakStart), break = breakEnd-breakStart
	seg := closedSegment(at(9, 0), at(17, 0))
	seg.BreakStart = tp(at(12, 0))
	seg.BreakEnd = tp(at(12, 30))

	totals, err := timeclock.Aggregate([]timeclock.Segment{seg}, at(23, 0), 0)
	require.NoError(t, err)

	assert.Equal(t, int64(7*3600+1800), totals.WorkedSeconds)
	assert.Equal(t, int64(1800), totals.BreakSeconds)
}

func TestAggregate_TwoSegments_BreakNotDoubleCounted(t *testing.T) {
	morning := closedSegment(at(9, 0), at(12, 0))
	morning.BreakStart = tp(at(10, 0))
	morning.BreakEnd = tp(at(10, 15))

	afternoon := timeclock.Segment{
		ID: "seg-2", EmployeeID: "emp-1", Date: day,
		ClockIn: at(13, 0), ClockOut: tp(at(17, 0)),
	}

	totals, err := timeclock.Aggregate([]timeclock.Segment{morning, afternoon}, at(23, 0), 0)
	require.NoError(t, err)

	// morning: 3h - 15m, afternoon: 4h
	assert.Equal(t, int64(3*3600-900+4*3600), totals.WorkedSeconds)
	assert.Equal(t, int64(900), totals.BreakSeconds)
}

// =============================================================================
// LIVE SESSION
// =============================================================================

func TestAggregate_LiveSession_WorkedAccruesToAsOf(t *testing.T) {
	seg := timeclock.Segment{ID: "seg-1", EmployeeID: "emp-1", Date: day, ClockIn: at(9, 0)}

	totals, err := timeclock.Aggregate([]timeclock.Segment{seg}, at(11, 30), 8)
	require.NoError(t, err)

	assert.Equal(t, int64(2*3600+1800), totals.WorkedSeconds)
	assert.Equal(t, timeclock.StatusWorking, totals.Live)
}

func TestAggregate_LiveSession_OpenBreakFreezesWorkedTime(t *testing.T) {
	seg := timeclock.Segment{ID: "seg-1", EmployeeID: "emp-1", Date: day, ClockIn: at(9, 0)}
	seg.BreakStart = tp(at(12, 0))

	totals, err := timeclock.Aggregate([]timeclock.Segment{seg}, at(12, 45), 8)
	require.NoError(t, err)

	assert.Equal(t, int64(3*3600), totals.WorkedSeconds, "worked frozen at break start")
	assert.Equal(t, int64(45*60), totals.BreakSeconds, "break accrues to asOf")
	assert.Equal(t, timeclock.StatusOnBreak, totals.Live)
}

func TestAggregate_LiveSession_CompletedBreakSubtracted(t *testing.T) {
	seg := timeclock.Segment{ID: "seg-1", EmployeeID: "emp-1", Date: day, ClockIn: at(9, 0)}
	seg.BreakStart = tp(at(12, 0))
	seg.BreakEnd = tp(at(12, 30))

	totals, err := timeclock.Aggregate([]timeclock.Segment{seg}, at(14, 0), 8)
	require.NoError(t, err)

	assert.Equal(t, int64(5*3600-1800), totals.WorkedSeconds)
	assert.Equal(t, int64(1800), totals.BreakSeconds)
	assert.Equal(t, timeclock.StatusWorking, totals.Live)
}

func TestAggregate_NoOpenSegment_Idle(t *testing.T) {
	totals, err := timeclock.Aggregate(nil, at(12, 0), 8)
	require.NoError(t, err)

	assert.Equal(t, timeclock.StatusIdle, totals.Live)
}

func TestAggregate_TwoOpenSegments_Rejected(t *testing.T) {
	a := timeclock.Segment{ID: "a", EmployeeID: "emp-1", Date: day, ClockIn: at(9, 0)}
	b := timeclock.Segment{ID: "b", EmployeeID: "emp-1", Date: day, ClockIn: at(10, 0)}

	_, err := timeclock.Aggregate([]timeclock.Segment{a, b}, at(11, 0), 8)

	require.Error(t, err)
	assert.True(t, payroll.IsValidation(err))
}

// =============================================================================
// DAILY OVERTIME MARKER
// =============================================================================

func TestAggregate_DailyThresholdCrossed_OvertimePending(t *testing.T) {
	// 8h threshold; closed 5h morning plus a live session at 3h elapsed.
	morning := closedSegment(at(6, 0), at(11, 0))
	live := timeclock.Segment{ID: "seg-2", EmployeeID: "emp-1", Date: day, ClockIn: at(12, 0)}

	totals, err := timeclock.Aggregate([]timeclock.Segment{morning, live}, at(15, 0), 8)
	require.NoError(t, err)

	assert.Equal(t, timeclock.StatusOvertimePending, totals.Live)
}

func TestAggregate_ThresholdCrossedWhileOnBreak_StaysOnBreak(t *testing.T) {
	live := timeclock.Segment{ID: "seg-1", EmployeeID: "emp-1", Date: day, ClockIn: at(0, 0)}
	live.BreakStart = tp(at(9, 0))

	totals, err := timeclock.Aggregate([]timeclock.Segment{live}, at(10, 0), 8)
	require.NoError(t, err)

	assert.Equal(t, timeclock.StatusOnBreak, totals.Live)
}

func TestAggregate_ColdReadReproducesOvertimeMarker(t *testing.T) {
	// The marker is a pure function of elapsed time: re-running the same
	// aggregation yields the same status with no timer involved.
	live := timeclock.Segment{ID: "seg-1", EmployeeID: "emp-1", Date: day, ClockIn: at(6, 0)}

	for i := 0; i < 3; i++ {
		totals, err := timeclock.Aggregate([]timeclock.Segment{live}, at(14, 30), 8)
		require.NoError(t, err)
		assert.Equal(t, timeclock.StatusOvertimePending, totals.Live)
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestAggregate_ClockOutBeforeClockIn_Rejected(t *testing.T) {
	seg := closedSegment(at(17, 0), at(9, 0))

	_, err := timeclock.Aggregate([]timeclock.Segment{seg}, at(23, 0), 0)

	require.Error(t, err)
	assert.True(t, payroll.IsValidation(err))
}

func TestAggregate_BreakEndBeforeBreakStart_Rejected(t *testing.T) {
	seg := closedSegment(at(9, 0), at(17, 0))
	seg.BreakStart = tp(at(13, 0))
	seg.BreakEnd = tp(at(12, 0))

	_, err := timeclock.Aggregate([]timeclock.Segment{seg}, at(23, 0), 0)

	require.Error(t, err)
	assert.True(t, payroll.IsValidation(err))
}

// =============================================================================
// WEEKLY SPLIT
// =============================================================================

func TestWeeklySplit_45HourWeek(t *testing.T) {
	regular, overtime := timeclock.WeeklySplit(45, 40)

	assert.Equal(t, 40.0, regular)
	assert.Equal(t, 5.0, overtime)
}

func TestWeeklySplit_UnderThreshold_NoOvertime(t *testing.T) {
	regular, overtime := timeclock.WeeklySplit(38.5, 40)

	assert.Equal(t, 38.5, regular)
	assert.Equal(t, 0.0, overtime)
}
