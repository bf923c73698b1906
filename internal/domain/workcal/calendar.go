package workcal

import (
	"context"

	"github.com/tapvera/hr-backend-go/internal/domain/attendance"
)

// Calendar is the leave/holiday collaborator boundary: it reports whether a
// date is a holiday, a weekend, or covered by approved leave for an employee.
type Calendar interface {
	DayInfo(ctx context.Context, employeeID string, date string) (attendance.DayContext, error)
}
