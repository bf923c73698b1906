package attendance

import (
	"context"
)

// Service is the recalculation controller: the only path that writes derived
// attendance state. Live punches, manual admin entries, and explicit
// recalculation all route through it.
type Service interface {
	// Punch appends a live event for the authenticated employee and returns
	// the recalculated live snapshot.
	Punch(ctx context.Context, req PunchRequest) (SnapshotResponse, error)

	// ManualPunch appends an admin-entered event with an explicit timestamp,
	// bypassing the sealed-day rule.
	ManualPunch(ctx context.Context, req ManualPunchRequest) (SnapshotResponse, error)

	// Today returns the authenticated employee's live snapshot for the current
	// day with a next-action hint.
	Today(ctx context.Context) (SnapshotResponse, error)

	// Recalculate re-derives the snapshot for an employee-day from its event
	// log and the current shift definition. Idempotent.
	Recalculate(ctx context.Context, employeeID string, date string) (SnapshotResponse, error)

	// Get returns the persisted snapshot for an employee-day (admin view).
	Get(ctx context.Context, employeeID string, date string) (SnapshotResponse, error)

	// Delete removes an employee-day's snapshot and events entirely.
	Delete(ctx context.Context, employeeID string, date string) error

	// PeriodSummary returns per-day snapshots plus totals for a date range,
	// as consumed by payroll.
	PeriodSummary(ctx context.Context, employeeID string, startDate, endDate string) (PeriodSummaryResponse, error)

	// MyPeriodSummary is PeriodSummary scoped to the authenticated employee.
	MyPeriodSummary(ctx context.Context, startDate, endDate string) (PeriodSummaryResponse, error)
}
