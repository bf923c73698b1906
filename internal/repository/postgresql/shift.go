package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tapvera/hr-backend-go/internal/domain/attendance"
	"github.com/tapvera/hr-backend-go/internal/domain/shift"
	"github.com/tapvera/hr-backend-go/internal/pkg/database"
)

type shiftRepositoryImpl struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.Repository {
	return &shiftRepositoryImpl{db: db}
}

// GetOverride implements shift.Repository.
func (s *shiftRepositoryImpl) GetOverride(ctx context.Context, employeeID string, date string) (*attendance.ShiftDefinition, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT s.name, s.start_time, s.end_time, s.is_flexible
		FROM shift_overrides o
		JOIN shifts s ON o.shift_id = s.id
		WHERE o.employee_id = $1 AND o.date = $2
	`

	return scanShift(q.QueryRow(ctx, query, employeeID, date), "shift override")
}

// GetApprovedFlexible implements shift.Repository. Only approved requests
// count; pending and rejected ones never affect classification.
func (s *shiftRepositoryImpl) GetApprovedFlexible(ctx context.Context, employeeID string, date string) (*attendance.ShiftDefinition, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT r.shift_name, r.start_time, r.end_time, TRUE AS is_flexible
		FROM flexible_shift_requests r
		WHERE r.employee_id = $1
			AND r.status = 'APPROVED'
			AND $2 BETWEEN r.start_date AND r.end_date
		ORDER BY r.approved_at DESC
		LIMIT 1
	`

	return scanShift(q.QueryRow(ctx, query, employeeID, date), "flexible shift request")
}

// GetAssigned implements shift.Repository.
func (s *shiftRepositoryImpl) GetAssigned(ctx context.Context, employeeID string) (*attendance.ShiftDefinition, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT s.name, s.start_time, s.end_time, s.is_flexible
		FROM shift_assignments a
		JOIN shifts s ON a.shift_id = s.id
		WHERE a.employee_id = $1
	`

	return scanShift(q.QueryRow(ctx, query, employeeID), "shift assignment")
}

func scanShift(row pgx.Row, what string) (*attendance.ShiftDefinition, error) {
	var def attendance.ShiftDefinition
	err := row.Scan(&def.Name, &def.StartTime, &def.EndTime, &def.IsFlexible)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get %s: %w", what, err)
	}
	return &def, nil
}
