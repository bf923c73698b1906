package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tapvera/hr-backend-go/internal/domain/attendance"
	"github.com/tapvera/hr-backend-go/internal/pkg/database"
)

const dateLayout = "2006-01-02"

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.SnapshotRepository {
	return &attendanceRepositoryImpl{db: db}
}

// GetDay implements attendance.SnapshotRepository.
func (r *attendanceRepositoryImpl) GetDay(ctx context.Context, employeeID string, date string) (*attendance.Snapshot, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, date, work_duration_seconds, break_duration_seconds,
			arrival_time, departure_time, current_status,
			is_late, is_half_day, is_absent, is_overtime,
			shift_name, shift_start_time, shift_end_time, shift_is_flexible,
			shift_crosses_midnight, shift_duration_hours,
			is_holiday, is_leave, is_weekend, is_working_day,
			created_at, updated_at
		FROM attendance_snapshots
		WHERE employee_id = $1 AND date = $2
	`

	var snap attendance.Snapshot
	var day time.Time
	err := q.QueryRow(ctx, query, employeeID, date).Scan(
		&snap.ID, &snap.EmployeeID, &day, &snap.WorkDurationSeconds, &snap.BreakDurationSeconds,
		&snap.ArrivalTime, &snap.DepartureTime, &snap.CurrentStatus,
		&snap.IsLate, &snap.IsHalfDay, &snap.IsAbsent, &snap.IsOvertime,
		&snap.ShiftUsed.Name, &snap.ShiftUsed.StartTime, &snap.ShiftUsed.EndTime, &snap.ShiftUsed.IsFlexible,
		&snap.ShiftUsed.CrossesMidnight, &snap.ShiftUsed.DurationHours,
		&snap.Day.IsHoliday, &snap.Day.IsLeave, &snap.Day.IsWeekend, &snap.Day.IsWorkingDay,
		&snap.CreatedAt, &snap.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance snapshot: %w", err)
	}
	snap.Date = day.Format(dateLayout)

	snap.Events, err = r.loadEvents(ctx, q, employeeID, date)
	if err != nil {
		return nil, err
	}
	snap.WorkSessions, snap.BreakSessions, err = r.loadSessions(ctx, q, employeeID, date)
	if err != nil {
		return nil, err
	}

	return &snap, nil
}

// ReplaceDay implements attendance.SnapshotRepository. The event append, the
// snapshot upsert and the session rewrite commit or roll back together.
func (r *attendanceRepositoryImpl) ReplaceDay(ctx context.Context, snap attendance.Snapshot, appended *attendance.TimelineEvent) (attendance.Snapshot, error) {
	err := WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		upsert := `
			INSERT INTO attendance_snapshots (
				employee_id, date, work_duration_seconds, break_duration_seconds,
				arrival_time, departure_time, current_status,
				is_late, is_half_day, is_absent, is_overtime,
				shift_name, shift_start_time, shift_end_time, shift_is_flexible,
				shift_crosses_midnight, shift_duration_hours,
				is_holiday, is_leave, is_weekend, is_working_day
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
				$12, $13, $14, $15, $16, $17, $18, $19, $20, $21
			)
			ON CONFLICT (employee_id, date) DO UPDATE SET
				work_duration_seconds = EXCLUDED.work_duration_seconds,
				break_duration_seconds = EXCLUDED.break_duration_seconds,
				arrival_time = EXCLUDED.arrival_time,
				departure_time = EXCLUDED.departure_time,
				current_status = EXCLUDED.current_status,
				is_late = EXCLUDED.is_late,
				is_half_day = EXCLUDED.is_half_day,
				is_absent = EXCLUDED.is_absent,
				is_overtime = EXCLUDED.is_overtime,
				shift_name = EXCLUDED.shift_name,
				shift_start_time = EXCLUDED.shift_start_time,
				shift_end_time = EXCLUDED.shift_end_time,
				shift_is_flexible = EXCLUDED.shift_is_flexible,
				shift_crosses_midnight = EXCLUDED.shift_crosses_midnight,
				shift_duration_hours = EXCLUDED.shift_duration_hours,
				is_holiday = EXCLUDED.is_holiday,
				is_leave = EXCLUDED.is_leave,
				is_weekend = EXCLUDED.is_weekend,
				is_working_day = EXCLUDED.is_working_day,
				updated_at = NOW()
			RETURNING id, created_at, updated_at
		`
		err := tx.QueryRow(ctx, upsert,
			snap.EmployeeID, snap.Date, snap.WorkDurationSeconds, snap.BreakDurationSeconds,
			snap.ArrivalTime, snap.DepartureTime, snap.CurrentStatus,
			snap.IsLate, snap.IsHalfDay, snap.IsAbsent, snap.IsOvertime,
			snap.ShiftUsed.Name, snap.ShiftUsed.StartTime, snap.ShiftUsed.EndTime, snap.ShiftUsed.IsFlexible,
			snap.ShiftUsed.CrossesMidnight, snap.ShiftUsed.DurationHours,
			snap.Day.IsHoliday, snap.Day.IsLeave, snap.Day.IsWeekend, snap.Day.IsWorkingDay,
		).Scan(&snap.ID, &snap.CreatedAt, &snap.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to upsert attendance snapshot: %w", err)
		}

		if appended != nil {
			insert := `
				INSERT INTO attendance_events (
					id, employee_id, date, event_type, event_timestamp,
					manual, recorded_by, location, notes, seq
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			`
			_, err = tx.Exec(ctx, insert,
				appended.ID, snap.EmployeeID, snap.Date, appended.Type, appended.Timestamp,
				appended.Manual, appended.RecordedBy, appended.Location, appended.Notes, appended.Seq,
			)
			if err != nil {
				return fmt.Errorf("failed to append attendance event: %w", err)
			}
		}

		// Sessions are pure derivation, rewrite them wholesale.
		if _, err = tx.Exec(ctx,
			`DELETE FROM attendance_sessions WHERE employee_id = $1 AND date = $2`,
			snap.EmployeeID, snap.Date,
		); err != nil {
			return fmt.Errorf("failed to clear attendance sessions: %w", err)
		}

		insertSession := `
			INSERT INTO attendance_sessions (employee_id, date, kind, start_time, end_time, seq)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		for i, s := range snap.WorkSessions {
			if _, err = tx.Exec(ctx, insertSession, snap.EmployeeID, snap.Date, "WORK", s.Start, s.End, i); err != nil {
				return fmt.Errorf("failed to insert work session: %w", err)
			}
		}
		for i, s := range snap.BreakSessions {
			if _, err = tx.Exec(ctx, insertSession, snap.EmployeeID, snap.Date, "BREAK", s.Start, s.End, i); err != nil {
				return fmt.Errorf("failed to insert break session: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return attendance.Snapshot{}, err
	}

	return snap, nil
}

// DeleteDay implements attendance.SnapshotRepository.
func (r *attendanceRepositoryImpl) DeleteDay(ctx context.Context, employeeID string, date string) error {
	return WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`DELETE FROM attendance_events WHERE employee_id = $1 AND date = $2`,
			employeeID, date,
		); err != nil {
			return fmt.Errorf("failed to delete attendance events: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`DELETE FROM attendance_sessions WHERE employee_id = $1 AND date = $2`,
			employeeID, date,
		); err != nil {
			return fmt.Errorf("failed to delete attendance sessions: %w", err)
		}

		tag, err := tx.Exec(ctx,
			`DELETE FROM attendance_snapshots WHERE employee_id = $1 AND date = $2`,
			employeeID, date,
		)
		if err != nil {
			return fmt.Errorf("failed to delete attendance snapshot: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return attendance.ErrSnapshotNotFound
		}
		return nil
	})
}

// ListRange implements attendance.SnapshotRepository.
func (r *attendanceRepositoryImpl) ListRange(ctx context.Context, employeeID string, startDate, endDate string) ([]attendance.Snapshot, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, date, work_duration_seconds, break_duration_seconds,
			arrival_time, departure_time, current_status,
			is_late, is_half_day, is_absent, is_overtime,
			shift_name, shift_start_time, shift_end_time, shift_is_flexible,
			shift_crosses_midnight, shift_duration_hours,
			is_holiday, is_leave, is_weekend, is_working_day,
			created_at, updated_at
		FROM attendance_snapshots
		WHERE employee_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date ASC
	`

	rows, err := q.Query(ctx, query, employeeID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []attendance.Snapshot
	for rows.Next() {
		var snap attendance.Snapshot
		var day time.Time
		err := rows.Scan(
			&snap.ID, &snap.EmployeeID, &day, &snap.WorkDurationSeconds, &snap.BreakDurationSeconds,
			&snap.ArrivalTime, &snap.DepartureTime, &snap.CurrentStatus,
			&snap.IsLate, &snap.IsHalfDay, &snap.IsAbsent, &snap.IsOvertime,
			&snap.ShiftUsed.Name, &snap.ShiftUsed.StartTime, &snap.ShiftUsed.EndTime, &snap.ShiftUsed.IsFlexible,
			&snap.ShiftUsed.CrossesMidnight, &snap.ShiftUsed.DurationHours,
			&snap.Day.IsHoliday, &snap.Day.IsLeave, &snap.Day.IsWeekend, &snap.Day.IsWorkingDay,
			&snap.CreatedAt, &snap.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance snapshot: %w", err)
		}
		snap.Date = day.Format(dateLayout)
		snaps = append(snaps, snap)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	for i := range snaps {
		snaps[i].Events, err = r.loadEvents(ctx, q, employeeID, snaps[i].Date)
		if err != nil {
			return nil, err
		}
		snaps[i].WorkSessions, snaps[i].BreakSessions, err = r.loadSessions(ctx, q, employeeID, snaps[i].Date)
		if err != nil {
			return nil, err
		}
	}

	return snaps, nil
}

func (r *attendanceRepositoryImpl) loadEvents(ctx context.Context, q database.Querier, employeeID, date string) ([]attendance.TimelineEvent, error) {
	query := `
		SELECT id, event_type, event_timestamp, manual, recorded_by, location, notes, seq
		FROM attendance_events
		WHERE employee_id = $1 AND date = $2
		ORDER BY event_timestamp ASC, seq ASC
	`

	rows, err := q.Query(ctx, query, employeeID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance events: %w", err)
	}
	defer rows.Close()

	var events []attendance.TimelineEvent
	for rows.Next() {
		var ev attendance.TimelineEvent
		if err := rows.Scan(&ev.ID, &ev.Type, &ev.Timestamp, &ev.Manual, &ev.RecordedBy, &ev.Location, &ev.Notes, &ev.Seq); err != nil {
			return nil, fmt.Errorf("failed to scan attendance event: %w", err)
		}
		ev.Timestamp = ev.Timestamp.UTC()
		events = append(events, ev)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

func (r *attendanceRepositoryImpl) loadSessions(ctx context.Context, q database.Querier, employeeID, date string) (work []attendance.Session, breaks []attendance.Session, err error) {
	query := `
		SELECT kind, start_time, end_time
		FROM attendance_sessions
		WHERE employee_id = $1 AND date = $2
		ORDER BY kind ASC, seq ASC
	`

	rows, err := q.Query(ctx, query, employeeID, date)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load attendance sessions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind string
		var s attendance.Session
		if err := rows.Scan(&kind, &s.Start, &s.End); err != nil {
			return nil, nil, fmt.Errorf("failed to scan attendance session: %w", err)
		}
		s.Start = s.Start.UTC()
		if s.End != nil {
			utc := s.End.UTC()
			s.End = &utc
		}
		if kind == "BREAK" {
			breaks = append(breaks, s)
		} else {
			work = append(work, s)
		}
	}
	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	return work, breaks, nil
}
