package reminder

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"coachdesk/models"
)

const TypeAppointmentReminder = "reminder:appointment"

// NewReminderTask builds the asynq task for one reminder firing.
func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeAppointmentReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}
