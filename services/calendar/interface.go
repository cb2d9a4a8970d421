package calendar

import (
	"context"
	"time"

	appointmentRepo "coachdesk/database/repository/appointment"
	availabilityRepo "coachdesk/database/repository/availability"
	staffRepo "coachdesk/database/repository/staff"
	"coachdesk/models"

	"go.uber.org/zap"
)

// Service exposes availability management, slot computation and conflict
// detection for coach and staff calendars.
type Service interface {
	// GetAvailability returns the owner's availability, deriving a staff
	// record from the coach's on first read when absent.
	GetAvailability(ctx context.Context, ownerID string) (*models.Availability, error)
	SetAvailability(ctx context.Context, av *models.Availability) error
	AddBlackout(ctx context.Context, ownerID string, blackout models.BlackoutInterval) error
	RemoveBlackout(ctx context.Context, ownerID, blackoutID string) error
	// AvailableSlots computes the bookable slots for a YYYY-MM-DD date
	// interpreted in the owner's timezone, annotated with pool capacity.
	AvailableSlots(ctx context.Context, ownerID, date string) ([]models.PooledSlot, error)
	HasConflict(ctx context.Context, ownerID string, start, end time.Time) (bool, error)
	// HasConflictExcluding ignores one appointment, for reschedule checks.
	HasConflictExcluding(ctx context.Context, ownerID string, start, end time.Time, excludeID string) (bool, error)
}

// ConflictChecker is the slice of Service the assignment engine needs.
type ConflictChecker interface {
	HasConflict(ctx context.Context, ownerID string, start, end time.Time) (bool, error)
}

// DefaultCalendarService implements Service.
type DefaultCalendarService struct {
	Availability availabilityRepo.AvailabilityRepository
	Appointments appointmentRepo.AppointmentRepository
	Staff        staffRepo.StaffRepository
	Logger       *zap.Logger
}
