package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	appointmentRepo "coachdesk/database/repository/appointment"
	reminderRepo "coachdesk/database/repository/reminder"
	"coachdesk/models"
)

// DefaultReminderService enqueues asynq tasks at coach-configured offsets
// before the appointment start.
type DefaultReminderService struct {
	Appointments appointmentRepo.AppointmentRepository
	Settings     reminderRepo.SettingsRepository
	Client       *asynq.Client
	Logger       *zap.Logger
}

func (s *DefaultReminderService) ScheduleReminders(ctx context.Context, appointmentID, coachID string) (*ScheduleResult, error) {
	appt, err := s.Appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load appointment %s: %w", appointmentID, err)
	}

	offsets, err := s.Settings.GetOffsets(ctx, coachID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	scheduled := 0
	for _, minutes := range offsets {
		fireAt := appt.StartTime.Add(-time.Duration(minutes) * time.Minute)
		if !fireAt.After(now) {
			continue
		}

		payload := models.ReminderPayload{
			AppointmentID: appt.ID,
			CoachID:       coachID,
			FireAt:        fireAt,
		}
		task, opts, err := NewReminderTask(payload, fireAt)
		if err != nil {
			return nil, fmt.Errorf("failed to build reminder task: %w", err)
		}
		if _, err := s.Client.EnqueueContext(ctx, task, opts...); err != nil {
			return nil, fmt.Errorf("failed to enqueue reminder: %w", err)
		}
		scheduled++
	}

	s.Logger.Info("reminders scheduled",
		zap.String("appointmentId", appointmentID),
		zap.Int("scheduled", scheduled),
		zap.Int("configured", len(offsets)))

	return &ScheduleResult{ScheduledCount: scheduled, TotalConfigured: len(offsets)}, nil
}

func (s *DefaultReminderService) SetOffsets(ctx context.Context, coachID string, offsetsMinutes []int) error {
	for _, m := range offsetsMinutes {
		if m <= 0 {
			return fmt.Errorf("reminder offsets must be positive minutes")
		}
	}
	return s.Settings.SetOffsets(ctx, coachID, offsetsMinutes)
}

func (s *DefaultReminderService) GetOffsets(ctx context.Context, coachID string) ([]int, error) {
	return s.Settings.GetOffsets(ctx, coachID)
}
