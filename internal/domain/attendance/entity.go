package attendance

import (
	"sort"
	"time"
)

type EventType string

const (
	EventPunchIn    EventType = "PUNCH_IN"
	EventPunchOut   EventType = "PUNCH_OUT"
	EventBreakStart EventType = "BREAK_START"
	EventBreakEnd   EventType = "BREAK_END"
)

var EventTypeValues = []string{
	string(EventPunchIn),
	string(EventPunchOut),
	string(EventBreakStart),
	string(EventBreakEnd),
}

type Status string

const (
	StatusNotStarted Status = "NOT_STARTED"
	StatusWorking    Status = "WORKING"
	StatusOnBreak    Status = "ON_BREAK"
	StatusFinished   Status = "FINISHED"
)

// TimelineEvent is one punch/break event in the log of a single employee-day.
// Immutable once appended. Seq is the insertion order and breaks timestamp ties.
type TimelineEvent struct {
	ID         string
	Type       EventType
	Timestamp  time.Time
	Manual     bool
	RecordedBy string
	Location   *string
	Notes      *string
	Seq        int
}

// Session is a derived work or break interval. End == nil means the session is
// still open; only the live day may carry open sessions.
type Session struct {
	Start time.Time
	End   *time.Time
}

func (s Session) Closed() bool {
	return s.End != nil
}

// Seconds returns the closed duration; open sessions contribute nothing here.
func (s Session) Seconds() int64 {
	if s.End == nil {
		return 0
	}
	return int64(s.End.Sub(s.Start) / time.Second)
}

// ShiftDefinition is the effective shift resolved for one employee-day.
type ShiftDefinition struct {
	Name            string
	StartTime       string // "HH:MM"
	EndTime         string // "HH:MM"
	IsFlexible      bool
	CrossesMidnight bool
	DurationHours   float64
}

// DayContext is what the leave/holiday collaborator reports about the day.
type DayContext struct {
	IsHoliday    bool
	IsLeave      bool
	IsWeekend    bool
	IsWorkingDay bool
}

// Snapshot is the single unit of persistence for one (employee, date) pair.
// Everything below Events is derived and fully replaced on each recalculation.
type Snapshot struct {
	ID                   string
	EmployeeID           string
	Date                 string // "2006-01-02"
	Events               []TimelineEvent
	WorkSessions         []Session
	BreakSessions        []Session
	WorkDurationSeconds  int64
	BreakDurationSeconds int64
	ArrivalTime          *time.Time
	DepartureTime        *time.Time
	CurrentStatus        Status
	IsLate               bool
	IsHalfDay            bool
	IsAbsent             bool
	IsOvertime           bool
	ShiftUsed            ShiftDefinition
	Day                  DayContext
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// SortEvents orders events by timestamp, insertion order on ties.
func SortEvents(events []TimelineEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Timestamp.Equal(events[j].Timestamp) {
			return events[i].Seq < events[j].Seq
		}
		return events[i].Timestamp.Before(events[j].Timestamp)
	})
}
