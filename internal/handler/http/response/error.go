package response

import (
	"errors"
	"net/http"

	"github.com/tapvera/hr-backend-go/internal/domain/attendance"
	"github.com/tapvera/hr-backend-go/internal/domain/employee"
	"github.com/tapvera/hr-backend-go/internal/domain/shift"
	"github.com/tapvera/hr-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Attendance domain errors. Sequence violations are conflicts: the event
	// log already holds a state that rules the requested action out. Each
	// sentinel keeps a stable machine code so clients can branch on it.
	switch {
	case errors.Is(err, attendance.ErrDuplicatePunchIn):
		Conflict(w, "DUPLICATE_PUNCH_IN", "Already punched in for this date")
	case errors.Is(err, attendance.ErrNotWorking):
		Conflict(w, "NOT_WORKING", "No active work session for this action")
	case errors.Is(err, attendance.ErrAlreadyOnBreak):
		Conflict(w, "ALREADY_ON_BREAK", "A break is already in progress")
	case errors.Is(err, attendance.ErrNoOpenBreak):
		Conflict(w, "NO_OPEN_BREAK", "No break in progress to end")
	case errors.Is(err, attendance.ErrAlreadyPunchedOut):
		Conflict(w, "ALREADY_PUNCHED_OUT", "Day already completed")
	case errors.Is(err, attendance.ErrEventOutOfOrder):
		Conflict(w, "EVENT_OUT_OF_ORDER", "Event timestamp breaks the day's chronology")
	case errors.Is(err, attendance.ErrInvalidEventType):
		BadRequest(w, "Unknown event type", nil)
	case errors.Is(err, attendance.ErrSnapshotNotFound):
		NotFound(w, "Attendance record not found")

	// Shift domain errors
	case errors.Is(err, shift.ErrNoShiftConfigured):
		BadRequest(w, "No shift configured for employee", nil)

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
