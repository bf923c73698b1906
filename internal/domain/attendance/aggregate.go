package attendance

import "time"

// Totals is the duration aggregate over the reconstructed sessions of one day.
// The second sums count closed sessions only; live views extend open sessions
// separately via LiveSeconds so persisted state never depends on "now".
type Totals struct {
	WorkSeconds   int64
	BreakSeconds  int64
	ArrivalTime   *time.Time
	DepartureTime *time.Time
	CurrentStatus Status
}

// Aggregate derives the day's totals from the event log and its sessions.
//
// ArrivalTime is the first PUNCH_IN event, not the first session start, so the
// true first arrival survives later corrections. DepartureTime is the latest
// PUNCH_OUT event, if any.
func Aggregate(events []TimelineEvent, work, breaks []Session) Totals {
	t := Totals{CurrentStatus: StatusNotStarted}

	for _, s := range work {
		t.WorkSeconds += s.Seconds()
	}
	for _, s := range breaks {
		t.BreakSeconds += s.Seconds()
	}

	ordered := make([]TimelineEvent, len(events))
	copy(ordered, events)
	SortEvents(ordered)

	for _, ev := range ordered {
		switch ev.Type {
		case EventPunchIn:
			if t.ArrivalTime == nil {
				ts := ev.Timestamp
				t.ArrivalTime = &ts
			}
		case EventPunchOut:
			ts := ev.Timestamp
			t.DepartureTime = &ts
		}
	}

	switch {
	case openSession(work) != nil:
		t.CurrentStatus = StatusWorking
	case openSession(breaks) != nil:
		t.CurrentStatus = StatusOnBreak
	case t.DepartureTime != nil:
		t.CurrentStatus = StatusFinished
	}

	return t
}

// LiveSeconds returns the extra work and break seconds contributed by open
// sessions when the snapshot is served live. Zero for a fully closed day.
func LiveSeconds(work, breaks []Session, now time.Time) (workExtra, breakExtra int64) {
	if s := openSession(work); s != nil && now.After(s.Start) {
		workExtra = int64(now.Sub(s.Start) / time.Second)
	}
	if s := openSession(breaks); s != nil && now.After(s.Start) {
		breakExtra = int64(now.Sub(s.Start) / time.Second)
	}
	return workExtra, breakExtra
}
