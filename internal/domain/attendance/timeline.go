package attendance

// timeline.go owns append validation for the event log of one employee-day.
// The rules are checked against the existing ordered history; a successful
// append is always followed by a full recalculation by the caller.

// ValidateAppend checks whether ev may be appended to the existing event
// history. The history is re-sorted defensively; callers normally hold it
// sorted already.
func ValidateAppend(events []TimelineEvent, ev TimelineEvent) error {
	if !validEventType(ev.Type) {
		return ErrInvalidEventType
	}

	ordered := make([]TimelineEvent, len(events))
	copy(ordered, events)
	SortEvents(ordered)

	if hasPunchOut(ordered) && !ev.Manual {
		return ErrAlreadyPunchedOut
	}

	if ev.Manual {
		// Admin entries bypass the seal and the live state rules, but the
		// merged timeline must still fold into chronologically sane sessions.
		return validateManual(ordered, ev)
	}

	switch status := statusOf(ordered); ev.Type {
	case EventPunchIn:
		if status == StatusWorking || status == StatusOnBreak {
			return ErrDuplicatePunchIn
		}
	case EventPunchOut:
		// Punching out while on break is permitted; the break is closed first.
		if status != StatusWorking && status != StatusOnBreak {
			return ErrNotWorking
		}
	case EventBreakStart:
		if status == StatusOnBreak {
			return ErrAlreadyOnBreak
		}
		if status != StatusWorking {
			return ErrNotWorking
		}
	case EventBreakEnd:
		if status != StatusOnBreak {
			return ErrNoOpenBreak
		}
	}

	return nil
}

func validEventType(t EventType) bool {
	switch t {
	case EventPunchIn, EventPunchOut, EventBreakStart, EventBreakEnd:
		return true
	}
	return false
}

func hasPunchOut(events []TimelineEvent) bool {
	for _, e := range events {
		if e.Type == EventPunchOut {
			return true
		}
	}
	return false
}

// statusOf replays the ordered history into the live state of the day.
func statusOf(events []TimelineEvent) Status {
	work, breaks := Reconstruct(events)
	if openSession(work) != nil {
		return StatusWorking
	}
	if openSession(breaks) != nil {
		return StatusOnBreak
	}
	if hasPunchOut(events) {
		return StatusFinished
	}
	return StatusNotStarted
}

func openSession(sessions []Session) *Session {
	for i := range sessions {
		if !sessions[i].Closed() {
			return &sessions[i]
		}
	}
	return nil
}

// validateManual merges ev into the sorted history and verifies that every
// closed session of the resulting fold ends strictly after it starts.
func validateManual(ordered []TimelineEvent, ev TimelineEvent) error {
	merged := make([]TimelineEvent, 0, len(ordered)+1)
	merged = append(merged, ordered...)
	merged = append(merged, ev)
	SortEvents(merged)

	work, breaks := Reconstruct(merged)
	for _, s := range work {
		if s.Closed() && !s.End.After(s.Start) {
			return ErrEventOutOfOrder
		}
	}
	for _, s := range breaks {
		if s.Closed() && !s.End.After(s.Start) {
			return ErrEventOutOfOrder
		}
	}
	return nil
}
