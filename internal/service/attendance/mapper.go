package attendance

import (
	"time"

	"github.com/tapvera/hr-backend-go/internal/domain/attendance"
)

// timeToString renders a timestamp for responses.
func timeToString(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := timeToString(*t)
	return &s
}

// mapSnapshotToResponse converts a Snapshot into its response form. When live
// is true, open sessions contribute their elapsed time up to now; persisted
// durations stay closed-only either way.
func mapSnapshotToResponse(snap attendance.Snapshot, live bool, now time.Time, withNextAction bool) attendance.SnapshotResponse {
	workSeconds := snap.WorkDurationSeconds
	breakSeconds := snap.BreakDurationSeconds
	if live {
		workExtra, breakExtra := attendance.LiveSeconds(snap.WorkSessions, snap.BreakSessions, now)
		workSeconds += workExtra
		breakSeconds += breakExtra
	}

	resp := attendance.SnapshotResponse{
		EmployeeID:           snap.EmployeeID,
		Date:                 snap.Date,
		Events:               make([]attendance.EventResponse, 0, len(snap.Events)),
		WorkSessions:         mapSessions(snap.WorkSessions),
		BreakSessions:        mapSessions(snap.BreakSessions),
		WorkDurationSeconds:  workSeconds,
		BreakDurationSeconds: breakSeconds,
		WorkDuration:         attendance.FormatDuration(workSeconds),
		BreakDuration:        attendance.FormatDuration(breakSeconds),
		ArrivalTime:          timePtrToString(snap.ArrivalTime),
		DepartureTime:        timePtrToString(snap.DepartureTime),
		CurrentStatus:        string(snap.CurrentStatus),
		IsLate:               snap.IsLate,
		IsHalfDay:            snap.IsHalfDay,
		IsAbsent:             snap.IsAbsent,
		IsOvertime:           snap.IsOvertime,
		Shift: attendance.ShiftResponse{
			Name:            snap.ShiftUsed.Name,
			StartTime:       snap.ShiftUsed.StartTime,
			EndTime:         snap.ShiftUsed.EndTime,
			IsFlexible:      snap.ShiftUsed.IsFlexible,
			CrossesMidnight: snap.ShiftUsed.CrossesMidnight,
			DurationHours:   snap.ShiftUsed.DurationHours,
		},
	}

	for _, ev := range snap.Events {
		resp.Events = append(resp.Events, attendance.EventResponse{
			ID:         ev.ID,
			Type:       string(ev.Type),
			Timestamp:  timeToString(ev.Timestamp),
			Manual:     ev.Manual,
			RecordedBy: ev.RecordedBy,
			Location:   ev.Location,
			Notes:      ev.Notes,
		})
	}

	if withNextAction {
		hint := nextAction(snap.CurrentStatus)
		resp.NextAction = &hint
	}

	return resp
}

func mapSessions(sessions []attendance.Session) []attendance.SessionResponse {
	out := make([]attendance.SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, attendance.SessionResponse{
			Start: timeToString(s.Start),
			End:   timePtrToString(s.End),
		})
	}
	return out
}

// nextAction is a pure function of the day's current status.
func nextAction(status attendance.Status) string {
	switch status {
	case attendance.StatusWorking:
		return "BREAK_START or PUNCH_OUT"
	case attendance.StatusOnBreak:
		return "BREAK_END"
	case attendance.StatusFinished:
		return "Day completed"
	default:
		return "PUNCH_IN"
	}
}
