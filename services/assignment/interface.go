package assignment

import (
	"context"

	appointmentRepo "coachdesk/database/repository/appointment"
	leadRepo "coachdesk/database/repository/lead"
	staffRepo "coachdesk/database/repository/staff"
	"coachdesk/models"
	"coachdesk/services/calendar"

	"go.uber.org/zap"
)

// Engine distributes new appointments and leads across a coach's staff using
// a deficit-weighted round-robin over configured distribution ratios.
type Engine interface {
	// AssignAppointment picks a staff member free at the appointment's
	// interval and attaches them. Already-assigned appointments are returned
	// unchanged (assignment is first-write-wins).
	AssignAppointment(ctx context.Context, appt *models.Appointment) (*Result, error)
	// AssignLead does the same over lead counts; no calendar filtering.
	AssignLead(ctx context.Context, coachID, leadID string) (*Result, error)
}

// Result reports the chosen staff member with diagnostic counters.
type Result struct {
	StaffID    string  `json:"staffId"`
	Ratio      float64 `json:"ratio"`
	TotalRatio float64 `json:"totalRatio"`
	Considered int     `json:"considered"`
}

// DefaultEngine implements Engine.
type DefaultEngine struct {
	Staff        staffRepo.StaffRepository
	Appointments appointmentRepo.AppointmentRepository
	Leads        leadRepo.LeadRepository
	Calendar     calendar.ConflictChecker
	Logger       *zap.Logger
}
