package models

import (
	"time"
)

type AppointmentStatus string

const (
	StatusBooked      AppointmentStatus = "booked"
	StatusRescheduled AppointmentStatus = "rescheduled"
	StatusCancelled   AppointmentStatus = "cancelled"
	StatusCompleted   AppointmentStatus = "completed"
	StatusNoShow      AppointmentStatus = "no_show"
)

// Appointment is a booked interval on a coach's (and optionally a staff
// member's) calendar. EndTime is denormalized from StartTime+Duration so that
// overlap queries can run against indexed fields.
type Appointment struct {
	ID              string            `bson:"id" json:"id"`
	CoachID         string            `bson:"coachId" json:"coachId"`
	LeadID          string            `bson:"leadId" json:"leadId"`
	AssignedStaffID string            `bson:"assignedStaffId,omitempty" json:"assignedStaffId,omitempty"`
	StartTime       time.Time         `bson:"startTime" json:"startTime"`
	EndTime         time.Time         `bson:"endTime" json:"endTime"`
	Duration        int               `bson:"duration" json:"duration"` // minutes
	TimeZone        string            `bson:"timeZone" json:"timeZone"`
	Status          AppointmentStatus `bson:"status" json:"status"`
	// Pooled marks appointments booked under staff pooling, where several may
	// legitimately share the coach's start time.
	Pooled          bool              `bson:"pooled,omitempty" json:"pooled,omitempty"`
	Notes           string            `bson:"notes,omitempty" json:"notes,omitempty"`
	MeetingJoinURL  string            `bson:"meetingJoinUrl,omitempty" json:"meetingJoinUrl,omitempty"`
	CreatedAt       time.Time         `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time         `bson:"updatedAt" json:"updatedAt"`
}

// BlockingStatuses are the statuses that occupy their interval for conflict
// purposes. Cancelled and completed appointments release their interval.
var BlockingStatuses = []AppointmentStatus{StatusBooked, StatusRescheduled}

// Blocking reports whether this appointment still occupies its interval.
func (a *Appointment) Blocking() bool {
	return a.Status == StatusBooked || a.Status == StatusRescheduled
}

// Terminal reports whether the appointment reached a final state.
func (a *Appointment) Terminal() bool {
	return a.Status == StatusCancelled || a.Status == StatusCompleted
}

// Overlaps tests half-open interval intersection with [start, end).
func (a *Appointment) Overlaps(start, end time.Time) bool {
	return a.StartTime.Before(end) && start.Before(a.EndTime)
}
