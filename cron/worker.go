package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/mongo"

	"coachdesk/config"
	appointmentRepo "coachdesk/database/repository/appointment"
	"coachdesk/models"
	"coachdesk/services/event"
	"coachdesk/services/reminder"
)

// InitReminderWorker runs the async reminder worker in background.
func InitReminderWorker(apptRepo appointmentRepo.AppointmentRepository, publisher event.Publisher) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(reminder.TypeAppointmentReminder, handleReminderTask(apptRepo, publisher))

	// Start Redis health monitor
	go monitorRedisConnection()

	// Start async worker with retry logic
	go func() {
		log.Println("[ReminderWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReminderWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ReminderWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

// handleReminderTask fires one scheduled reminder. Reminders for appointments
// that were cancelled or completed after scheduling are dropped here rather
// than unscheduled at cancel time.
func handleReminderTask(apptRepo appointmentRepo.AppointmentRepository, publisher event.Publisher) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ReminderHandler] Invalid payload: %v", err)
			return err
		}

		appt, err := apptRepo.GetByID(ctx, p.AppointmentID)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				log.Printf("[ReminderHandler] Appointment %s no longer exists, dropping reminder", p.AppointmentID)
				return nil
			}
			return err
		}
		if appt.Terminal() {
			log.Printf("[ReminderHandler] Appointment %s is %s, dropping reminder", appt.ID, appt.Status)
			return nil
		}

		return publisher.Publish(ctx, models.AppointmentEvent{
			Type:            models.EventAppointmentReminderTime,
			AppointmentID:   appt.ID,
			LeadID:          appt.LeadID,
			CoachID:         appt.CoachID,
			AssignedStaffID: appt.AssignedStaffID,
		})
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[ReminderWorker] Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
