package calendar

import (
	"context"
	"fmt"
	"time"
)

// HasConflict reports whether [start, end) intersects any blackout interval or
// blocking appointment on the owner's calendar. It backs slot generation and
// is re-run at booking time to close the race between listing and booking.
func (s *DefaultCalendarService) HasConflict(ctx context.Context, ownerID string, start, end time.Time) (bool, error) {
	return s.HasConflictExcluding(ctx, ownerID, start, end, "")
}

func (s *DefaultCalendarService) HasConflictExcluding(ctx context.Context, ownerID string, start, end time.Time, excludeID string) (bool, error) {
	if !start.Before(end) {
		return false, NewValidationError("interval start must be before end")
	}

	// Blackouts first: an owner without an availability record has none.
	av, err := s.Availability.GetByOwner(ctx, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to load availability: %w", err)
	}
	if av != nil && intersectsBlackout(av.Blackouts, start, end) {
		return true, nil
	}

	appts, err := s.Appointments.FindOverlapping(ctx, ownerID, start, end, excludeID)
	if err != nil {
		return false, fmt.Errorf("failed to query overlapping appointments: %w", err)
	}
	return len(appts) > 0, nil
}
