package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/tapvera/hr-backend-go/internal/domain/attendance"
	"github.com/tapvera/hr-backend-go/internal/domain/workcal"
	"github.com/tapvera/hr-backend-go/internal/pkg/database"
)

type workCalendarImpl struct {
	db *database.DB
}

func NewWorkCalendar(db *database.DB) workcal.Calendar {
	return &workCalendarImpl{db: db}
}

// DayInfo implements workcal.Calendar.
func (c *workCalendarImpl) DayInfo(ctx context.Context, employeeID string, date string) (attendance.DayContext, error) {
	q := GetQuerier(ctx, c.db)

	var day attendance.DayContext

	holidayQuery := `SELECT EXISTS(SELECT 1 FROM holidays WHERE date = $1)`
	if err := q.QueryRow(ctx, holidayQuery, date).Scan(&day.IsHoliday); err != nil {
		return attendance.DayContext{}, fmt.Errorf("failed to check holiday: %w", err)
	}

	leaveQuery := `
		SELECT EXISTS(
			SELECT 1 FROM leave_requests
			WHERE employee_id = $1
				AND status = 'APPROVED'
				AND $2 BETWEEN start_date AND end_date
		)
	`
	if err := q.QueryRow(ctx, leaveQuery, employeeID, date).Scan(&day.IsLeave); err != nil {
		return attendance.DayContext{}, fmt.Errorf("failed to check leave: %w", err)
	}

	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return attendance.DayContext{}, fmt.Errorf("failed to parse date: %w", err)
	}
	day.IsWeekend = d.Weekday() == time.Saturday || d.Weekday() == time.Sunday

	day.IsWorkingDay = !day.IsHoliday && !day.IsLeave && !day.IsWeekend

	return day, nil
}
