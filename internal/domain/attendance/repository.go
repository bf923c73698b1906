package attendance

import (
	"context"
)

// SnapshotRepository defines data access for attendance snapshots. The event
// log is owned by the snapshot; appends and derived-state replacement are a
// single atomic unit so a recalculation is never half-applied.
type SnapshotRepository interface {
	// GetDay retrieves the snapshot for an employee-day, nil if none exists yet.
	GetDay(ctx context.Context, employeeID string, date string) (*Snapshot, error)

	// ReplaceDay writes the full snapshot, replacing any previous derived
	// state for the same (employee, date). When appended is non-nil the new
	// event is inserted in the same transaction.
	ReplaceDay(ctx context.Context, snap Snapshot, appended *TimelineEvent) (Snapshot, error)

	// DeleteDay removes the snapshot and all of its events. Administrative
	// escape hatch out of a sealed day.
	DeleteDay(ctx context.Context, employeeID string, date string) error

	// ListRange retrieves snapshots for an employee between two dates inclusive.
	ListRange(ctx context.Context, employeeID string, startDate, endDate string) ([]Snapshot, error)
}
