package attendance

import "errors"

// Timeline validation errors. Every rejected punch must surface one of these
// so the caller can explain why the event was refused.
var (
	ErrDuplicatePunchIn  = errors.New("already punched in with no intervening punch out")
	ErrNotWorking        = errors.New("no open work session")
	ErrAlreadyOnBreak    = errors.New("a break is already open")
	ErrNoOpenBreak       = errors.New("no break is open")
	ErrAlreadyPunchedOut = errors.New("day is sealed: already punched out today")
	ErrInvalidEventType  = errors.New("invalid event type")

	// Manual entries bypass the seal but may not break session chronology.
	ErrEventOutOfOrder = errors.New("event breaks session chronology")

	// General errors
	ErrSnapshotNotFound = errors.New("attendance snapshot not found")
)
