package shift

import (
	"context"
	"errors"

	"github.com/tapvera/hr-backend-go/internal/domain/attendance"
)

// ErrNoShiftConfigured is fatal for a day's classification: no attendance day
// can be scored without an effective shift.
var ErrNoShiftConfigured = errors.New("no shift configured for employee on this date")

// Resolver returns the effective shift for an employee on a calendar date.
// Pure function of employee configuration and date; it must be re-queried on
// every recalculation so shift corrections apply retroactively.
type Resolver interface {
	ResolveShift(ctx context.Context, employeeID string, date string) (attendance.ShiftDefinition, error)
}

// Repository defines the shift configuration lookups the resolver draws from,
// in priority order: per-date override, approved flexible request, assignment.
type Repository interface {
	// GetOverride returns an admin-set shift override for the exact date, nil if none.
	GetOverride(ctx context.Context, employeeID string, date string) (*attendance.ShiftDefinition, error)

	// GetApprovedFlexible returns an approved flexible shift request covering
	// the date, nil if none.
	GetApprovedFlexible(ctx context.Context, employeeID string, date string) (*attendance.ShiftDefinition, error)

	// GetAssigned returns the employee's standing shift assignment, nil if none.
	GetAssigned(ctx context.Context, employeeID string) (*attendance.ShiftDefinition, error)
}
