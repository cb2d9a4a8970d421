// File: database/repository/appointment/interface.go
package appointmentRepo

import (
	"context"
	"errors"
	"time"

	"coachdesk/models"
)

// ErrSlotTaken is returned by InsertIfFree when the conditional write loses the
// race for the interval. Callers translate it into a conflict response.
var ErrSlotTaken = errors.New("appointment interval no longer free")

// AppointmentRepository persists appointments and answers the calendar queries
// the scheduling core depends on.
type AppointmentRepository interface {
	// InsertIfFree atomically checks that fewer than capacity blocking
	// appointments overlap the new appointment's interval on the coach
	// calendar, then inserts. Returns ErrSlotTaken when the check fails.
	InsertIfFree(ctx context.Context, appt *models.Appointment, capacity int) error
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	// FindOverlapping returns blocking appointments for the owner (as coach or
	// as assigned staff) intersecting [start, end), excluding excludeID.
	FindOverlapping(ctx context.Context, ownerID string, start, end time.Time, excludeID string) ([]models.Appointment, error)
	// ListForOwner returns every appointment for the owner intersecting
	// [from, to), regardless of status.
	ListForOwner(ctx context.Context, ownerID string, from, to time.Time) ([]models.Appointment, error)
	// CountAssignedToStaff counts blocking appointments assigned to the staff
	// member under the coach. Feeds the distribution deficit computation.
	CountAssignedToStaff(ctx context.Context, coachID, staffID string) (int64, error)
	// AssignStaff attaches a staff member only when none is attached yet.
	// Returns false when the appointment was already assigned.
	AssignStaff(ctx context.Context, id, staffID string) (bool, error)
	UpdateSchedule(ctx context.Context, id string, start time.Time, duration int) error
	UpdateStatus(ctx context.Context, id string, status models.AppointmentStatus) error
	SetMeetingJoinURL(ctx context.Context, id, joinURL string) error
	EnsureIndexes() error
}
