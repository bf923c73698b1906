package attendance

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Thresholds are the configurable classification limits, in seconds.
type Thresholds struct {
	GraceSeconds   int64
	HalfDaySeconds int64
	FullDaySeconds int64
}

// DefaultThresholds: no grace, half day below 5h, full day at 8h.
func DefaultThresholds() Thresholds {
	return Thresholds{
		GraceSeconds:   0,
		HalfDaySeconds: 5 * 3600,
		FullDaySeconds: 8 * 3600,
	}
}

type Classification struct {
	IsLate     bool
	IsHalfDay  bool
	IsAbsent   bool
	IsOvertime bool
}

// Classify scores the aggregated day against the resolved shift.
//
// Night shifts: lateness is judged in the shift's local clock. An arrival
// whose clock time falls before the nominal start of a midnight-crossing
// shift belongs to the post-midnight leg of the window and is folded past
// 24:00, which keeps it out of the same-day late band. A 02:00 arrival on a
// 20:00-05:00 shift is therefore never flagged late, while 20:10 still is.
func Classify(t Totals, shift ShiftDefinition, day DayContext, date time.Time, now time.Time, th Thresholds) Classification {
	var c Classification

	if t.ArrivalTime != nil {
		if startSec, err := clockSeconds(shift.StartTime); err == nil {
			arrivalSec := secondOfDay(*t.ArrivalTime)
			folded := shift.CrossesMidnight && arrivalSec < startSec
			if folded {
				arrivalSec += 24 * 3600
			}
			c.IsLate = !folded && arrivalSec > startSec+th.GraceSeconds
		}
	}

	onLeaveOrHoliday := day.IsLeave || day.IsHoliday
	c.IsHalfDay = t.WorkSeconds > 0 && t.WorkSeconds < th.HalfDaySeconds && !onLeaveOrHoliday

	c.IsAbsent = t.ArrivalTime == nil && day.IsWorkingDay && !dateAfter(date, now)

	fullDay := th.FullDaySeconds
	if shiftSec := int64(shift.DurationHours * 3600); shiftSec > fullDay {
		fullDay = shiftSec
	}
	c.IsOvertime = t.WorkSeconds > fullDay

	return c
}

// clockSeconds parses "HH:MM" into seconds since local midnight.
func clockSeconds(hhmm string) (int64, error) {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock time %q", hhmm)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid clock time %q", hhmm)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid clock time %q", hhmm)
	}
	return int64(h)*3600 + int64(m)*60, nil
}

func secondOfDay(t time.Time) int64 {
	return int64(t.Hour())*3600 + int64(t.Minute())*60 + int64(t.Second())
}

// dateAfter reports whether the attendance date lies beyond now's calendar day.
func dateAfter(date, now time.Time) bool {
	y1, m1, d1 := date.Date()
	y2, m2, d2 := now.Date()
	if y1 != y2 {
		return y1 > y2
	}
	if m1 != m2 {
		return m1 > m2
	}
	return d1 > d2
}

// FormatDuration renders seconds as "Xh Ym" for presentation only.
func FormatDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%dh %dm", seconds/3600, (seconds%3600)/60)
}
