package reminder

import (
	"context"
)

// ScheduleResult reports how many reminder firings were actually enqueued.
// Offsets already in the past at booking time are skipped, so ScheduledCount
// can be lower than TotalConfigured.
type ScheduleResult struct {
	ScheduledCount  int `json:"scheduledCount"`
	TotalConfigured int `json:"totalConfigured"`
}

// Service schedules reminders leading up to an appointment. Delivery happens
// in the background worker; this interface only enqueues.
type Service interface {
	ScheduleReminders(ctx context.Context, appointmentID, coachID string) (*ScheduleResult, error)
	SetOffsets(ctx context.Context, coachID string, offsetsMinutes []int) error
	GetOffsets(ctx context.Context, coachID string) ([]int, error)
}
