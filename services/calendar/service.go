package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"coachdesk/models"
)

const defaultSlotDuration = 30 // minutes, when the owner never set one

func (s *DefaultCalendarService) GetAvailability(ctx context.Context, ownerID string) (*models.Availability, error) {
	av, err := s.Availability.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if av != nil {
		return av, nil
	}

	// No record yet. For staff, derive one from the coach's availability so a
	// staff calendar works out of the box.
	profile, err := s.Staff.GetProfileByStaff(ctx, ownerID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NewNotFoundError("availability for owner", ownerID)
		}
		return nil, err
	}

	coachAv, err := s.Availability.GetByOwner(ctx, profile.CoachID)
	if err != nil {
		return nil, err
	}
	if coachAv == nil {
		return nil, NewNotFoundError("availability for owner", ownerID)
	}

	derived := &models.Availability{
		OwnerID:         ownerID,
		OwnerType:       models.OwnerTypeStaff,
		TimeZone:        coachAv.TimeZone,
		WorkingHours:    append([]models.WorkingWindow(nil), coachAv.WorkingHours...),
		DefaultDuration: coachAv.DefaultDuration,
		BufferTime:      coachAv.BufferTime,
		// Blackouts and policy are coach-specific; staff start clean.
	}
	if err := s.Availability.Upsert(ctx, derived); err != nil {
		return nil, fmt.Errorf("failed to derive staff availability: %w", err)
	}
	s.Logger.Info("derived staff availability from coach",
		zap.String("staffId", ownerID), zap.String("coachId", profile.CoachID))
	return derived, nil
}

func (s *DefaultCalendarService) SetAvailability(ctx context.Context, av *models.Availability) error {
	if av.DefaultDuration == 0 {
		av.DefaultDuration = defaultSlotDuration
	}
	if av.OwnerType != models.OwnerTypeCoach {
		// Assignment policy lives on the coach record only.
		av.Policy = nil
	}
	if err := av.Validate(); err != nil {
		return &ValidationError{Message: err.Error()}
	}

	// Replace-only: preserve identity and blackouts of an existing record so a
	// working-hours update does not silently wipe ad-hoc blackouts.
	existing, err := s.Availability.GetByOwner(ctx, av.OwnerID)
	if err != nil {
		return err
	}
	if existing != nil {
		av.ID = existing.ID
		av.CreatedAt = existing.CreatedAt
		if len(av.Blackouts) == 0 {
			av.Blackouts = existing.Blackouts
		}
	}
	return s.Availability.Upsert(ctx, av)
}

func (s *DefaultCalendarService) AddBlackout(ctx context.Context, ownerID string, blackout models.BlackoutInterval) error {
	if !blackout.Start.Before(blackout.End) {
		return NewValidationError("blackout start must be before end")
	}
	err := s.Availability.AddBlackout(ctx, ownerID, blackout)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return NewNotFoundError("availability for owner", ownerID)
	}
	return err
}

func (s *DefaultCalendarService) RemoveBlackout(ctx context.Context, ownerID, blackoutID string) error {
	err := s.Availability.RemoveBlackout(ctx, ownerID, blackoutID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return NewNotFoundError("availability for owner", ownerID)
	}
	return err
}

// AvailableSlots computes the offered slots for one date. Listing is advisory:
// booking re-validates against fresh state.
func (s *DefaultCalendarService) AvailableSlots(ctx context.Context, ownerID, date string) ([]models.PooledSlot, error) {
	av, err := s.GetAvailability(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(av.TimeZone)
	if err != nil {
		return nil, NewValidationError("invalid timeZone %q", av.TimeZone)
	}
	day, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return nil, NewValidationError("invalid date %q, expected YYYY-MM-DD", date)
	}

	appts, err := s.Appointments.ListForOwner(ctx, ownerID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings for %s: %w", date, err)
	}

	if s.poolingActive(av) {
		return s.pooledSlots(ctx, av, appts, date)
	}

	base, err := GenerateSlots(av, appts, date)
	if err != nil {
		return nil, err
	}
	single := make([]models.PooledSlot, 0, len(base))
	for _, slot := range base {
		single = append(single, models.PooledSlot{Slot: slot, Capacity: 1, Booked: 0, Available: 1})
	}
	return single, nil
}

func (s *DefaultCalendarService) poolingActive(av *models.Availability) bool {
	return av.OwnerType == models.OwnerTypeCoach &&
		av.Policy != nil &&
		av.Policy.Enabled &&
		av.Policy.ConsiderStaffAvailability
}

// pooledSlots multiplies slot capacity by the eligible staff count. Existing
// bookings reduce per-slot availability instead of removing the slot outright.
func (s *DefaultCalendarService) pooledSlots(ctx context.Context, av *models.Availability, appts []models.Appointment, date string) ([]models.PooledSlot, error) {
	base, err := GenerateSlots(av, nil, date)
	if err != nil {
		return nil, err
	}

	staffCount, err := s.Staff.CountActive(ctx, av.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to count eligible staff: %w", err)
	}

	bookedAt := make(map[int64]int)
	for i := range appts {
		if appts[i].Blocking() {
			bookedAt[appts[i].StartTime.Unix()]++
		}
	}

	annotated := AnnotateSlots(base, int(staffCount), bookedAt, av.Policy.AllowMultipleStaffSameSlot)
	return FilterOffered(annotated), nil
}
