package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/tapvera/hr-backend-go/internal/domain/attendance"
	"github.com/tapvera/hr-backend-go/internal/domain/employee"
	"github.com/tapvera/hr-backend-go/internal/domain/shift"
	"github.com/tapvera/hr-backend-go/internal/domain/workcal"
	"github.com/tapvera/hr-backend-go/internal/pkg/keylock"
	"github.com/tapvera/hr-backend-go/internal/pkg/validator"
)

const dateLayout = "2006-01-02"

// AttendanceServiceImpl is the recalculation controller. Every write to an
// employee-day, live or manual, passes through here: the event is validated
// against the existing log, appended, and the full derived snapshot is
// re-built from scratch and atomically replaced.
type AttendanceServiceImpl struct {
	snapshots  attendance.SnapshotRepository
	directory  employee.Directory
	shifts     shift.Resolver
	calendar   workcal.Calendar
	thresholds attendance.Thresholds
	locks      *keylock.KeyLock
	now        func() time.Time
}

func NewAttendanceService(
	snapshotRepo attendance.SnapshotRepository,
	directory employee.Directory,
	shiftResolver shift.Resolver,
	calendar workcal.Calendar,
	thresholds attendance.Thresholds,
) attendance.Service {
	return &AttendanceServiceImpl{
		snapshots:  snapshotRepo,
		directory:  directory,
		shifts:     shiftResolver,
		calendar:   calendar,
		thresholds: thresholds,
		locks:      keylock.New(),
		now:        time.Now,
	}
}

// Punch implements attendance.Service.
func (s *AttendanceServiceImpl) Punch(ctx context.Context, req attendance.PunchRequest) (attendance.SnapshotResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.SnapshotResponse{}, err
	}

	employeeID, _, err := claimsFromContext(ctx)
	if err != nil {
		return attendance.SnapshotResponse{}, err
	}

	now := s.now().UTC()
	date, err := s.attendanceDateFor(ctx, employeeID, now)
	if err != nil {
		return attendance.SnapshotResponse{}, err
	}

	key := lockKey(employeeID, date)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	snap, err := s.snapshots.GetDay(ctx, employeeID, date)
	if err != nil {
		return attendance.SnapshotResponse{}, fmt.Errorf("failed to load attendance day: %w", err)
	}

	var events []attendance.TimelineEvent
	if snap != nil {
		events = snap.Events
	} else if ok, err := s.directory.Exists(ctx, employeeID); err != nil {
		return attendance.SnapshotResponse{}, fmt.Errorf("failed to check employee directory: %w", err)
	} else if !ok {
		return attendance.SnapshotResponse{}, employee.ErrEmployeeNotFound
	}

	ev := attendance.TimelineEvent{
		ID:         uuid.NewString(),
		Type:       attendance.EventType(req.Action),
		Timestamp:  now,
		Manual:     false,
		RecordedBy: employeeID,
		Location:   req.Location,
		Notes:      req.Notes,
		Seq:        len(events),
	}

	if err := attendance.ValidateAppend(events, ev); err != nil {
		return attendance.SnapshotResponse{}, err
	}

	saved, err := s.rebuild(ctx, employeeID, date, append(events, ev), &ev, now)
	if err != nil {
		return attendance.SnapshotResponse{}, err
	}

	return mapSnapshotToResponse(saved, true, now, false), nil
}

// ManualPunch implements attendance.Service.
func (s *AttendanceServiceImpl) ManualPunch(ctx context.Context, req attendance.ManualPunchRequest) (attendance.SnapshotResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.SnapshotResponse{}, err
	}

	_, adminID, err := adminFromContext(ctx)
	if err != nil {
		return attendance.SnapshotResponse{}, err
	}

	ts, _ := validator.IsValidDateTime(req.Timestamp)
	ts = ts.UTC()
	now := s.now().UTC()

	if ok, err := s.directory.Exists(ctx, req.UserID); err != nil {
		return attendance.SnapshotResponse{}, fmt.Errorf("failed to check employee directory: %w", err)
	} else if !ok {
		return attendance.SnapshotResponse{}, employee.ErrEmployeeNotFound
	}

	// Manual events follow the same day-selection rule as live punches, so an
	// admin backfilling a night shift's post-midnight punch-out reproduces
	// what the live path would have recorded.
	date, err := s.attendanceDateFor(ctx, req.UserID, ts)
	if err != nil {
		return attendance.SnapshotResponse{}, err
	}

	key := lockKey(req.UserID, date)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	snap, err := s.snapshots.GetDay(ctx, req.UserID, date)
	if err != nil {
		return attendance.SnapshotResponse{}, fmt.Errorf("failed to load attendance day: %w", err)
	}

	var events []attendance.TimelineEvent
	if snap != nil {
		events = snap.Events
	}

	ev := attendance.TimelineEvent{
		ID:         uuid.NewString(),
		Type:       attendance.EventType(req.Action),
		Timestamp:  ts,
		Manual:     true,
		RecordedBy: adminID,
		Notes:      req.Notes,
		Seq:        len(events),
	}

	if err := attendance.ValidateAppend(events, ev); err != nil {
		return attendance.SnapshotResponse{}, err
	}

	saved, err := s.rebuild(ctx, req.UserID, date, append(events, ev), &ev, now)
	if err != nil {
		return attendance.SnapshotResponse{}, err
	}

	return mapSnapshotToResponse(saved, date == now.Format(dateLayout), now, false), nil
}

// Today implements attendance.Service.
func (s *AttendanceServiceImpl) Today(ctx context.Context) (attendance.SnapshotResponse, error) {
	employeeID, _, err := claimsFromContext(ctx)
	if err != nil {
		return attendance.SnapshotResponse{}, err
	}

	now := s.now().UTC()
	date := now.Format(dateLayout)

	snap, err := s.snapshots.GetDay(ctx, employeeID, date)
	if err != nil {
		return attendance.SnapshotResponse{}, fmt.Errorf("failed to load attendance day: %w", err)
	}

	if snap == nil {
		// Nothing recorded yet: serve a derived, unpersisted view of the day.
		derived, err := s.derive(ctx, employeeID, date, nil, now)
		if err != nil {
			return attendance.SnapshotResponse{}, err
		}
		return mapSnapshotToResponse(derived, true, now, true), nil
	}

	return mapSnapshotToResponse(*snap, true, now, true), nil
}

// Recalculate implements attendance.Service. Safe to call repeatedly: with an
// unchanged event log and shift it always produces an identical snapshot.
func (s *AttendanceServiceImpl) Recalculate(ctx context.Context, employeeID string, date string) (attendance.SnapshotResponse, error) {
	if _, ok := validator.IsValidDate(date); !ok {
		return attendance.SnapshotResponse{}, validator.ValidationErrors{{Field: "date", Message: "date must be YYYY-MM-DD"}}
	}

	if ok, err := s.directory.Exists(ctx, employeeID); err != nil {
		return attendance.SnapshotResponse{}, fmt.Errorf("failed to check employee directory: %w", err)
	} else if !ok {
		return attendance.SnapshotResponse{}, employee.ErrEmployeeNotFound
	}

	now := s.now().UTC()

	key := lockKey(employeeID, date)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	snap, err := s.snapshots.GetDay(ctx, employeeID, date)
	if err != nil {
		return attendance.SnapshotResponse{}, fmt.Errorf("failed to load attendance day: %w", err)
	}

	var events []attendance.TimelineEvent
	if snap != nil {
		events = snap.Events
	}

	saved, err := s.rebuild(ctx, employeeID, date, events, nil, now)
	if err != nil {
		return attendance.SnapshotResponse{}, err
	}

	return mapSnapshotToResponse(saved, date == now.Format(dateLayout), now, false), nil
}

// Get implements attendance.Service.
func (s *AttendanceServiceImpl) Get(ctx context.Context, employeeID string, date string) (attendance.SnapshotResponse, error) {
	if _, ok := validator.IsValidDate(date); !ok {
		return attendance.SnapshotResponse{}, validator.ValidationErrors{{Field: "date", Message: "date must be YYYY-MM-DD"}}
	}

	snap, err := s.snapshots.GetDay(ctx, employeeID, date)
	if err != nil {
		return attendance.SnapshotResponse{}, fmt.Errorf("failed to load attendance day: %w", err)
	}
	if snap == nil {
		return attendance.SnapshotResponse{}, attendance.ErrSnapshotNotFound
	}

	now := s.now().UTC()
	return mapSnapshotToResponse(*snap, date == now.Format(dateLayout), now, false), nil
}

// Delete implements attendance.Service. Removes the snapshot and its events
// together; the administrative way out of a sealed day.
func (s *AttendanceServiceImpl) Delete(ctx context.Context, employeeID string, date string) error {
	if _, ok := validator.IsValidDate(date); !ok {
		return validator.ValidationErrors{{Field: "date", Message: "date must be YYYY-MM-DD"}}
	}

	key := lockKey(employeeID, date)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	if err := s.snapshots.DeleteDay(ctx, employeeID, date); err != nil {
		if errors.Is(err, attendance.ErrSnapshotNotFound) {
			return attendance.ErrSnapshotNotFound
		}
		return fmt.Errorf("failed to delete attendance day: %w", err)
	}
	return nil
}

// PeriodSummary implements attendance.Service.
func (s *AttendanceServiceImpl) PeriodSummary(ctx context.Context, employeeID string, startDate, endDate string) (attendance.PeriodSummaryResponse, error) {
	var errs validator.ValidationErrors
	start, ok := validator.IsValidDate(startDate)
	if !ok {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must be YYYY-MM-DD"})
	}
	end, ok := validator.IsValidDate(endDate)
	if !ok {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be YYYY-MM-DD"})
	}
	if len(errs) == 0 && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must not be before start_date"})
	}
	if len(errs) > 0 {
		return attendance.PeriodSummaryResponse{}, errs
	}

	emp, err := s.directory.Get(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return attendance.PeriodSummaryResponse{}, employee.ErrEmployeeNotFound
		}
		return attendance.PeriodSummaryResponse{}, fmt.Errorf("failed to look up employee: %w", err)
	}

	snaps, err := s.snapshots.ListRange(ctx, employeeID, startDate, endDate)
	if err != nil {
		return attendance.PeriodSummaryResponse{}, fmt.Errorf("failed to list attendance range: %w", err)
	}

	now := s.now().UTC()
	resp := attendance.PeriodSummaryResponse{
		EmployeeID:   employeeID,
		EmployeeName: emp.FullName,
		Email:        emp.Email,
		Department:   emp.Department,
		StartDate:    startDate,
		EndDate:      endDate,
		Days:         make([]attendance.SnapshotResponse, 0, len(snaps)),
	}

	for _, snap := range snaps {
		day := mapSnapshotToResponse(snap, false, now, false)
		resp.Days = append(resp.Days, day)

		if snap.ArrivalTime != nil {
			resp.PresentDays++
		}
		if snap.IsAbsent {
			resp.AbsentDays++
		}
		if snap.IsLate {
			resp.LateDays++
		}
		if snap.IsHalfDay {
			resp.HalfDays++
		}
		resp.TotalWorkSeconds += snap.WorkDurationSeconds
	}
	resp.TotalWorkHours = attendance.FormatDuration(resp.TotalWorkSeconds)

	return resp, nil
}

// MyPeriodSummary implements attendance.Service.
func (s *AttendanceServiceImpl) MyPeriodSummary(ctx context.Context, startDate, endDate string) (attendance.PeriodSummaryResponse, error) {
	employeeID, _, err := claimsFromContext(ctx)
	if err != nil {
		return attendance.PeriodSummaryResponse{}, err
	}
	return s.PeriodSummary(ctx, employeeID, startDate, endDate)
}

// rebuild derives the snapshot from the given event log and persists it as a
// full replacement, appending the new event in the same transaction.
func (s *AttendanceServiceImpl) rebuild(ctx context.Context, employeeID, date string, events []attendance.TimelineEvent, appended *attendance.TimelineEvent, now time.Time) (attendance.Snapshot, error) {
	snap, err := s.derive(ctx, employeeID, date, events, now)
	if err != nil {
		return attendance.Snapshot{}, err
	}

	saved, err := s.snapshots.ReplaceDay(ctx, snap, appended)
	if err != nil {
		return attendance.Snapshot{}, fmt.Errorf("failed to replace attendance snapshot: %w", err)
	}
	return saved, nil
}

// derive runs the reconstruction pipeline: shift resolution, session fold,
// duration aggregation, classification. Pure apart from the collaborator
// lookups; identical inputs produce identical snapshots.
func (s *AttendanceServiceImpl) derive(ctx context.Context, employeeID, date string, events []attendance.TimelineEvent, now time.Time) (attendance.Snapshot, error) {
	shiftDef, err := s.shifts.ResolveShift(ctx, employeeID, date)
	if err != nil {
		if errors.Is(err, shift.ErrNoShiftConfigured) {
			return attendance.Snapshot{}, shift.ErrNoShiftConfigured
		}
		return attendance.Snapshot{}, fmt.Errorf("failed to resolve shift: %w", err)
	}

	day, err := s.calendar.DayInfo(ctx, employeeID, date)
	if err != nil {
		return attendance.Snapshot{}, fmt.Errorf("failed to look up day context: %w", err)
	}

	ordered := make([]attendance.TimelineEvent, len(events))
	copy(ordered, events)
	attendance.SortEvents(ordered)

	work, breaks := attendance.Reconstruct(ordered)
	totals := attendance.Aggregate(ordered, work, breaks)

	dateT, _ := time.Parse(dateLayout, date)
	cls := attendance.Classify(totals, shiftDef, day, dateT, now, s.thresholds)

	return attendance.Snapshot{
		EmployeeID:           employeeID,
		Date:                 date,
		Events:               ordered,
		WorkSessions:         work,
		BreakSessions:        breaks,
		WorkDurationSeconds:  totals.WorkSeconds,
		BreakDurationSeconds: totals.BreakSeconds,
		ArrivalTime:          totals.ArrivalTime,
		DepartureTime:        totals.DepartureTime,
		CurrentStatus:        totals.CurrentStatus,
		IsLate:               cls.IsLate,
		IsHalfDay:            cls.IsHalfDay,
		IsAbsent:             cls.IsAbsent,
		IsOvertime:           cls.IsOvertime,
		ShiftUsed:            shiftDef,
		Day:                  day,
	}, nil
}

// attendanceDateFor picks the employee-day an event belongs to. In the early
// hours of a midnight-crossing shift, the event lands on the previous day's
// still-open log rather than opening a fresh day. Carryover additionally
// requires the previous day's arrival to sit in the shift's evening leg: a
// log opened after midnight already occupies the post-midnight window, and
// attaching yet another calendar day to it would stretch a single day's
// sessions past 24 hours.
func (s *AttendanceServiceImpl) attendanceDateFor(ctx context.Context, employeeID string, at time.Time) (string, error) {
	today := at.Format(dateLayout)
	prev := at.AddDate(0, 0, -1).Format(dateLayout)

	prevSnap, err := s.snapshots.GetDay(ctx, employeeID, prev)
	if err != nil {
		return "", fmt.Errorf("failed to load previous attendance day: %w", err)
	}
	if prevSnap == nil || len(prevSnap.Events) == 0 {
		return today, nil
	}
	if !prevSnap.ShiftUsed.CrossesMidnight {
		return today, nil
	}
	if prevSnap.CurrentStatus == attendance.StatusFinished || prevSnap.CurrentStatus == attendance.StatusNotStarted {
		return today, nil
	}
	if !arrivedInEveningLeg(prevSnap) {
		return today, nil
	}
	if withinCarryover(at, prevSnap.ShiftUsed.EndTime) {
		return prev, nil
	}
	return today, nil
}

// arrivedInEveningLeg reports whether the day's first punch fell at or after
// the night shift's nominal start clock.
func arrivedInEveningLeg(snap *attendance.Snapshot) bool {
	if snap.ArrivalTime == nil {
		return false
	}
	start, err := time.Parse("15:04", snap.ShiftUsed.StartTime)
	if err != nil {
		return false
	}
	arrivalMin := snap.ArrivalTime.Hour()*60 + snap.ArrivalTime.Minute()
	startMin := start.Hour()*60 + start.Minute()
	return arrivalMin >= startMin
}

// withinCarryover reports whether now's clock time still falls inside the
// post-midnight tail of a night shift ending at endTime ("HH:MM").
func withinCarryover(now time.Time, endTime string) bool {
	end, err := time.Parse("15:04", endTime)
	if err != nil {
		return false
	}
	nowMin := now.Hour()*60 + now.Minute()
	endMin := end.Hour()*60 + end.Minute()
	return nowMin < endMin
}

func lockKey(employeeID, date string) string {
	return employeeID + ":" + date
}

func claimsFromContext(ctx context.Context) (employeeID string, isAdmin bool, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", false, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return "", false, fmt.Errorf("employee_id claim is missing or invalid")
	}

	isAdmin, _ = claims["is_admin"].(bool)
	return employeeID, isAdmin, nil
}

func adminFromContext(ctx context.Context) (isAdmin bool, adminID string, err error) {
	adminID, isAdmin, err = claimsFromContext(ctx)
	if err != nil {
		return false, "", err
	}
	if !isAdmin {
		return false, "", fmt.Errorf("is_admin claim is missing or invalid")
	}
	return true, adminID, nil
}
