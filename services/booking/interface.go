package booking

import (
	"context"
	"time"

	appointmentRepo "coachdesk/database/repository/appointment"
	availabilityRepo "coachdesk/database/repository/availability"
	"coachdesk/models"
	"coachdesk/services/assignment"
	"coachdesk/services/calendar"
	"coachdesk/services/event"
	"coachdesk/services/meeting"
	"coachdesk/services/reminder"

	"go.uber.org/zap"
)

// BookRequest carries the inputs of a booking attempt.
type BookRequest struct {
	CoachID   string    `json:"coachId"`
	LeadID    string    `json:"leadId"`
	StartTime time.Time `json:"startTime"`
	Duration  int       `json:"duration,omitempty"` // minutes; defaults to the coach's slot duration
	TimeZone  string    `json:"timeZone,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	SessionID string    `json:"sessionId,omitempty"` // advisory slot-listing session, diagnostics only
}

// BookingResult is the orchestrator's answer. Integration failures surface as
// warnings, never as errors: a committed booking is never unwound.
type BookingResult struct {
	Appointment      *models.Appointment      `json:"appointment"`
	Assigned         bool                     `json:"assigned"`
	AssignmentReason string                   `json:"assignmentReason,omitempty"`
	Assignment       *assignment.Result       `json:"assignmentDetails,omitempty"`
	Meeting          *models.MeetingDetails   `json:"meeting,omitempty"`
	Reminders        *reminder.ScheduleResult `json:"reminders,omitempty"`
	Warnings         []string                 `json:"warnings,omitempty"`
}

// Service is the booking orchestrator: validate, persist, assign, dispatch
// side effects.
type Service interface {
	Book(ctx context.Context, req BookRequest) (*BookingResult, error)
	Reschedule(ctx context.Context, appointmentID string, newStart time.Time, newDuration int) (*models.Appointment, error)
	Cancel(ctx context.Context, appointmentID string) error
	ListAppointments(ctx context.Context, ownerID, date string) ([]models.Appointment, error)
}

// DefaultBookingService implements Service.
type DefaultBookingService struct {
	Calendar     calendar.Service
	Availability availabilityRepo.AvailabilityRepository
	Appointments appointmentRepo.AppointmentRepository
	Assigner     assignment.Engine
	Meetings     meeting.Service
	Reminders    reminder.Service
	Events       event.Publisher
	Sessions     *SlotSessionStore
	Logger       *zap.Logger
}
