package models

import "time"

// Event types published on the appointment lifecycle channel.
const (
	EventAppointmentBooked       = "appointment_booked"
	EventAppointmentReminderTime = "appointment_reminder_time"
)

// AppointmentEvent is the fire-and-forget notification payload.
type AppointmentEvent struct {
	Type            string    `json:"type"`
	AppointmentID   string    `json:"appointmentId"`
	LeadID          string    `json:"leadId"`
	CoachID         string    `json:"coachId"`
	AssignedStaffID string    `json:"assignedStaffId,omitempty"`
	OccurredAt      time.Time `json:"occurredAt"`
}

// ReminderPayload is the asynq task body for a scheduled reminder.
type ReminderPayload struct {
	AppointmentID string    `json:"appointmentId"`
	CoachID       string    `json:"coachId"`
	FireAt        time.Time `json:"fireAt"`
}

// ReminderSettings holds a coach's reminder offsets in minutes before the
// appointment start. Defaults: 3 days, 1 day, 10 minutes.
type ReminderSettings struct {
	CoachID        string    `bson:"coachId" json:"coachId"`
	OffsetsMinutes []int     `bson:"offsetsMinutes" json:"offsetsMinutes"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}

// DefaultReminderOffsets returns the out-of-the-box offsets.
func DefaultReminderOffsets() []int {
	return []int{3 * 24 * 60, 24 * 60, 10}
}
