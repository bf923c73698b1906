package shift

import (
	"context"
	"fmt"
	"time"

	"github.com/tapvera/hr-backend-go/internal/domain/attendance"
	"github.com/tapvera/hr-backend-go/internal/domain/shift"
)

// ShiftResolverImpl resolves the effective shift for an employee-day.
// Priority: admin per-date override, then an approved flexible shift request,
// then the standing assignment. There is no fallback shift: an unresolvable
// day is a hard error, because no day can be classified without one.
type ShiftResolverImpl struct {
	repo shift.Repository
}

func NewShiftResolver(repo shift.Repository) shift.Resolver {
	return &ShiftResolverImpl{repo: repo}
}

// ResolveShift implements shift.Resolver.
func (r *ShiftResolverImpl) ResolveShift(ctx context.Context, employeeID string, date string) (attendance.ShiftDefinition, error) {
	override, err := r.repo.GetOverride(ctx, employeeID, date)
	if err != nil {
		return attendance.ShiftDefinition{}, fmt.Errorf("failed to get shift override: %w", err)
	}
	if override != nil {
		return normalize(*override), nil
	}

	flexible, err := r.repo.GetApprovedFlexible(ctx, employeeID, date)
	if err != nil {
		return attendance.ShiftDefinition{}, fmt.Errorf("failed to get flexible shift request: %w", err)
	}
	if flexible != nil {
		return normalize(*flexible), nil
	}

	assigned, err := r.repo.GetAssigned(ctx, employeeID)
	if err != nil {
		return attendance.ShiftDefinition{}, fmt.Errorf("failed to get assigned shift: %w", err)
	}
	if assigned != nil {
		return normalize(*assigned), nil
	}

	return attendance.ShiftDefinition{}, shift.ErrNoShiftConfigured
}

// normalize fills the derived shift fields so callers never re-sniff them:
// a shift whose end clock precedes its start crosses midnight, and the
// duration follows from the two clock times when not stored explicitly.
func normalize(def attendance.ShiftDefinition) attendance.ShiftDefinition {
	start, errS := time.Parse("15:04", def.StartTime)
	end, errE := time.Parse("15:04", def.EndTime)
	if errS != nil || errE != nil {
		return def
	}

	startMin := start.Hour()*60 + start.Minute()
	endMin := end.Hour()*60 + end.Minute()

	def.CrossesMidnight = endMin < startMin
	if def.DurationHours == 0 {
		span := endMin - startMin
		if def.CrossesMidnight {
			span += 24 * 60
		}
		def.DurationHours = float64(span) / 60
	}
	return def
}
