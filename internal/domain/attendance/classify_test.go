package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func dayShift() ShiftDefinition {
	return ShiftDefinition{
		Name:          "Day",
		StartTime:     "09:00",
		EndTime:       "18:00",
		DurationHours: 9,
	}
}

func nightShift() ShiftDefinition {
	return ShiftDefinition{
		Name:            "Night",
		StartTime:       "20:00",
		EndTime:         "05:00",
		CrossesMidnight: true,
		DurationHours:   9,
	}
}

func workingDay() DayContext {
	return DayContext{IsWorkingDay: true}
}

func totalsWithArrival(hour, min int, workSeconds int64) Totals {
	arrival := at(hour, min)
	return Totals{WorkSeconds: workSeconds, ArrivalTime: &arrival}
}

func TestClassify_OnTimeArrival(t *testing.T) {
	c := Classify(totalsWithArrival(8, 55, 8*3600), dayShift(), workingDay(), testDay, at(19, 0), DefaultThresholds())

	assert.False(t, c.IsLate)
}

func TestClassify_LateArrival(t *testing.T) {
	c := Classify(totalsWithArrival(9, 10, 8*3600), dayShift(), workingDay(), testDay, at(19, 0), DefaultThresholds())

	assert.True(t, c.IsLate)
}

func TestClassify_GracePeriod(t *testing.T) {
	th := DefaultThresholds()
	th.GraceSeconds = 15 * 60

	c := Classify(totalsWithArrival(9, 10, 8*3600), dayShift(), workingDay(), testDay, at(19, 0), th)
	assert.False(t, c.IsLate)

	c = Classify(totalsWithArrival(9, 16, 8*3600), dayShift(), workingDay(), testDay, at(19, 0), th)
	assert.True(t, c.IsLate)
}

func TestClassify_NightShiftLateness(t *testing.T) {
	cases := []struct {
		name     string
		hour     int
		min      int
		wantLate bool
	}{
		{"before start", 19, 45, false},
		{"after start same evening", 20, 10, true},
		{"post-midnight leg", 2, 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := Classify(totalsWithArrival(tc.hour, tc.min, 8*3600), nightShift(), workingDay(), testDay, at(23, 0), DefaultThresholds())
			assert.Equal(t, tc.wantLate, c.IsLate)
		})
	}
}

func TestClassify_HalfDayBoundary(t *testing.T) {
	// One second under the 5h threshold is a half day; exactly 5h is not.
	c := Classify(totalsWithArrival(9, 0, 17999), dayShift(), workingDay(), testDay, at(19, 0), DefaultThresholds())
	assert.True(t, c.IsHalfDay)

	c = Classify(totalsWithArrival(9, 0, 18000), dayShift(), workingDay(), testDay, at(19, 0), DefaultThresholds())
	assert.False(t, c.IsHalfDay)
}

func TestClassify_HalfDaySuppressedOnLeave(t *testing.T) {
	day := DayContext{IsLeave: true}

	c := Classify(totalsWithArrival(9, 0, 2*3600), dayShift(), day, testDay, at(19, 0), DefaultThresholds())

	assert.False(t, c.IsHalfDay)
}

func TestClassify_ZeroWorkIsNotHalfDay(t *testing.T) {
	c := Classify(Totals{}, dayShift(), workingDay(), testDay, at(19, 0), DefaultThresholds())

	assert.False(t, c.IsHalfDay)
}

func TestClassify_AbsentOnWorkingDay(t *testing.T) {
	c := Classify(Totals{}, dayShift(), workingDay(), testDay, at(19, 0), DefaultThresholds())

	assert.True(t, c.IsAbsent)
}

func TestClassify_NotAbsentOnHoliday(t *testing.T) {
	day := DayContext{IsHoliday: true}

	c := Classify(Totals{}, dayShift(), day, testDay, at(19, 0), DefaultThresholds())

	assert.False(t, c.IsAbsent)
}

func TestClassify_NotAbsentOnFutureDate(t *testing.T) {
	now := testDay.AddDate(0, 0, -3)

	c := Classify(Totals{}, dayShift(), workingDay(), testDay, now, DefaultThresholds())

	assert.False(t, c.IsAbsent)
}

func TestClassify_NotAbsentWithArrival(t *testing.T) {
	c := Classify(totalsWithArrival(9, 0, 3600), dayShift(), workingDay(), testDay, at(19, 0), DefaultThresholds())

	assert.False(t, c.IsAbsent)
}

func TestClassify_OvertimeAgainstShiftDuration(t *testing.T) {
	// The 9h shift stretches the 8h default, so 8.5h of work is not overtime.
	c := Classify(totalsWithArrival(9, 0, 8*3600+1800), dayShift(), workingDay(), testDay, at(19, 0), DefaultThresholds())
	assert.False(t, c.IsOvertime)

	c = Classify(totalsWithArrival(9, 0, 9*3600+60), dayShift(), workingDay(), testDay, at(19, 0), DefaultThresholds())
	assert.True(t, c.IsOvertime)
}

func TestClassify_OvertimeShortShift(t *testing.T) {
	shift := dayShift()
	shift.DurationHours = 6

	// A shift shorter than the full-day default keeps the 8h bar.
	c := Classify(totalsWithArrival(9, 0, 7*3600), shift, workingDay(), testDay, at(19, 0), DefaultThresholds())
	assert.False(t, c.IsOvertime)

	c = Classify(totalsWithArrival(9, 0, 8*3600+60), shift, workingDay(), testDay, at(19, 0), DefaultThresholds())
	assert.True(t, c.IsOvertime)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0h 0m", FormatDuration(0))
	assert.Equal(t, "0h 30m", FormatDuration(1800))
	assert.Equal(t, "8h 20m", FormatDuration(8*3600+20*60))
	assert.Equal(t, "0h 0m", FormatDuration(-5))
}

func TestClockSeconds(t *testing.T) {
	sec, err := clockSeconds("09:30")
	assert.NoError(t, err)
	assert.Equal(t, int64(9*3600+30*60), sec)

	_, err = clockSeconds("9am")
	assert.Error(t, err)

	_, err = clockSeconds("25:00")
	assert.Error(t, err)
}

func TestDateAfter(t *testing.T) {
	now := time.Date(2024, 3, 11, 14, 0, 0, 0, time.UTC)

	assert.True(t, dateAfter(time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC), now))
	assert.False(t, dateAfter(time.Date(2024, 3, 11, 23, 0, 0, 0, time.UTC), now))
	assert.False(t, dateAfter(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), now))
}
