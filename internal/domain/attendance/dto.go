package attendance

import (
	"github.com/tapvera/hr-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type PunchRequest struct {
	Action   string  `json:"action"`
	Location *string `json:"location,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

func (r *PunchRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Action) {
		errs = append(errs, validator.ValidationError{
			Field:   "action",
			Message: "action is required",
		})
	} else if !validator.IsInSlice(r.Action, EventTypeValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "action",
			Message: "action must be one of PUNCH_IN, PUNCH_OUT, BREAK_START, BREAK_END",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ManualPunchRequest is the admin-only variant: the target employee and the
// event timestamp are explicit, and the resulting event is tagged manual.
type ManualPunchRequest struct {
	UserID    string  `json:"user_id"`
	Action    string  `json:"action"`
	Timestamp string  `json:"timestamp"` // RFC3339
	Notes     *string `json:"notes,omitempty"`
}

func (r *ManualPunchRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}

	if validator.IsEmpty(r.Action) {
		errs = append(errs, validator.ValidationError{
			Field:   "action",
			Message: "action is required",
		})
	} else if !validator.IsInSlice(r.Action, EventTypeValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "action",
			Message: "action must be one of PUNCH_IN, PUNCH_OUT, BREAK_START, BREAK_END",
		})
	}

	if validator.IsEmpty(r.Timestamp) {
		errs = append(errs, validator.ValidationError{
			Field:   "timestamp",
			Message: "timestamp is required",
		})
	} else if _, ok := validator.IsValidDateTime(r.Timestamp); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "timestamp",
			Message: "timestamp must be a valid RFC3339 datetime",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EventResponse struct {
	ID         string  `json:"id"`
	Type       string  `json:"type"`
	Timestamp  string  `json:"timestamp"`
	Manual     bool    `json:"manual"`
	RecordedBy string  `json:"recorded_by"`
	Location   *string `json:"location,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}

type SessionResponse struct {
	Start string  `json:"start"`
	End   *string `json:"end"`
}

type ShiftResponse struct {
	Name            string  `json:"name"`
	StartTime       string  `json:"start_time"`
	EndTime         string  `json:"end_time"`
	IsFlexible      bool    `json:"is_flexible"`
	CrossesMidnight bool    `json:"crosses_midnight"`
	DurationHours   float64 `json:"duration_hours"`
}

type SnapshotResponse struct {
	EmployeeID           string            `json:"employee_id"`
	Date                 string            `json:"date"`
	Events               []EventResponse   `json:"events"`
	WorkSessions         []SessionResponse `json:"work_sessions"`
	BreakSessions        []SessionResponse `json:"break_sessions"`
	WorkDurationSeconds  int64             `json:"work_duration_seconds"`
	BreakDurationSeconds int64             `json:"break_duration_seconds"`
	WorkDuration         string            `json:"work_duration"`
	BreakDuration        string            `json:"break_duration"`
	ArrivalTime          *string           `json:"arrival_time"`
	DepartureTime        *string           `json:"departure_time"`
	CurrentStatus        string            `json:"current_status"`
	IsLate               bool              `json:"is_late"`
	IsHalfDay            bool              `json:"is_half_day"`
	IsAbsent             bool              `json:"is_absent"`
	IsOvertime           bool              `json:"is_overtime"`
	Shift                ShiftResponse     `json:"shift"`
	NextAction           *string           `json:"next_action,omitempty"`
}

// PeriodSummaryResponse feeds the payroll consumer: per-day snapshot fields
// plus totals. No monetary rules live here.
type PeriodSummaryResponse struct {
	EmployeeID       string             `json:"employee_id"`
	EmployeeName     string             `json:"employee_name"`
	Email            string             `json:"email"`
	Department       *string            `json:"department,omitempty"`
	StartDate        string             `json:"start_date"`
	EndDate          string             `json:"end_date"`
	Days             []SnapshotResponse `json:"days"`
	PresentDays      int                `json:"present_days"`
	AbsentDays       int                `json:"absent_days"`
	LateDays         int                `json:"late_days"`
	HalfDays         int                `json:"half_days"`
	TotalWorkSeconds int64              `json:"total_work_seconds"`
	TotalWorkHours   string             `json:"total_work_hours"`
}
