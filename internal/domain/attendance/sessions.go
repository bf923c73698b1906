package attendance

// Reconstruct folds a time-ordered event log into non-overlapping work and
// break sessions. At most one session of each kind is left open, and never
// both: a break suspends the work session underneath it.
//
// The fold is a single pass:
//
//	PUNCH_IN    opens a work session if none is open
//	BREAK_START closes the open work session and opens a break
//	BREAK_END   closes the open break and re-opens a work session
//	PUNCH_OUT   closes the open break (if any) then the open work session,
//	            without re-opening work after the break
func Reconstruct(events []TimelineEvent) (work []Session, breaks []Session) {
	ordered := make([]TimelineEvent, len(events))
	copy(ordered, events)
	SortEvents(ordered)

	var openWork, openBreak *Session

	for _, ev := range ordered {
		ts := ev.Timestamp

		switch ev.Type {
		case EventPunchIn:
			if openWork == nil && openBreak == nil {
				work = append(work, Session{Start: ts})
				openWork = &work[len(work)-1]
			}

		case EventBreakStart:
			if openBreak != nil {
				continue
			}
			if openWork != nil {
				end := ts
				openWork.End = &end
				openWork = nil
			}
			breaks = append(breaks, Session{Start: ts})
			openBreak = &breaks[len(breaks)-1]

		case EventBreakEnd:
			if openBreak == nil {
				continue
			}
			end := ts
			openBreak.End = &end
			openBreak = nil
			work = append(work, Session{Start: ts})
			openWork = &work[len(work)-1]

		case EventPunchOut:
			if openBreak != nil {
				end := ts
				openBreak.End = &end
				openBreak = nil
			}
			if openWork != nil {
				end := ts
				openWork.End = &end
				openWork = nil
			}
		}
	}

	return work, breaks
}
