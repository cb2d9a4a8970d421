package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"

	"coachdesk/config"
	"coachdesk/cron"
	"coachdesk/database"
	appointmentRepo "coachdesk/database/repository/appointment"
	availabilityRepo "coachdesk/database/repository/availability"
	credentialsRepo "coachdesk/database/repository/credentials"
	leadRepo "coachdesk/database/repository/lead"
	reminderRepo "coachdesk/database/repository/reminder"
	staffRepo "coachdesk/database/repository/staff"
	"coachdesk/handlers"
	"coachdesk/routes"
	"coachdesk/services/assignment"
	"coachdesk/services/booking"
	"coachdesk/services/calendar"
	"coachdesk/services/event"
	"coachdesk/services/meeting"
	"coachdesk/services/reminder"
	"coachdesk/utils"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitSessionCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories.
	availRepo := availabilityRepo.NewMongoAvailabilityRepo()
	apptRepo := appointmentRepo.NewMongoAppointmentRepo()
	staffProfileRepo := staffRepo.NewMongoStaffRepo()
	leadsRepo := leadRepo.NewMongoLeadRepo()
	credsRepo := credentialsRepo.NewMongoCredentialsRepo()
	reminderSettingsRepo := reminderRepo.NewMongoSettingsRepo()

	if err := availRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure availability indexes: %v", err)
	}
	if err := apptRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure appointment indexes: %v", err)
	}
	if err := staffProfileRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure staff indexes: %v", err)
	}

	// services.
	calendarService := &calendar.DefaultCalendarService{
		Availability: availRepo,
		Appointments: apptRepo,
		Staff:        staffProfileRepo,
		Logger:       logger,
	}

	assignmentEngine := &assignment.DefaultEngine{
		Staff:        staffProfileRepo,
		Appointments: apptRepo,
		Leads:        leadsRepo,
		Calendar:     calendarService,
		Logger:       logger,
	}

	meetingService := meeting.NewDefaultMeetingService(credsRepo, config.AppConfig.MeetingAPIBaseURL, logger)

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})
	defer asynqClient.Close()

	reminderService := &reminder.DefaultReminderService{
		Appointments: apptRepo,
		Settings:     reminderSettingsRepo,
		Client:       asynqClient,
		Logger:       logger,
	}

	eventPublisher := event.NewRedisPublisher(utils.GetCacheClient(), config.AppConfig.EventChannel)
	sessionStore := booking.NewSlotSessionStore(utils.GetSessionCacheClient(), 10*time.Minute)

	bookingService := &booking.DefaultBookingService{
		Calendar:     calendarService,
		Availability: availRepo,
		Appointments: apptRepo,
		Assigner:     assignmentEngine,
		Meetings:     meetingService,
		Reminders:    reminderService,
		Events:       eventPublisher,
		Sessions:     sessionStore,
		Logger:       logger,
	}

	// handlers.
	calendarHandler := &handlers.CalendarHandler{Service: calendarService, Sessions: sessionStore}
	bookingHandler := &handlers.BookingHandler{Service: bookingService}
	staffHandler := &handlers.StaffHandler{Staff: staffProfileRepo, Assigner: assignmentEngine}
	reminderHandler := &handlers.ReminderHandler{Settings: reminderSettingsRepo}

	handlerBundle := &handlers.HandlerBundle{
		// Calendar endpoints.
		GetAvailabilityHandler: calendarHandler.GetAvailabilityHandler,
		SetAvailabilityHandler: calendarHandler.SetAvailabilityHandler,
		AddBlackoutHandler:     calendarHandler.AddBlackoutHandler,
		RemoveBlackoutHandler:  calendarHandler.RemoveBlackoutHandler,
		AvailableSlotsHandler:  calendarHandler.AvailableSlotsHandler,

		// Booking endpoints.
		BookHandler:             bookingHandler.BookHandler,
		RescheduleHandler:       bookingHandler.RescheduleHandler,
		CancelHandler:           bookingHandler.CancelHandler,
		ListAppointmentsHandler: bookingHandler.ListAppointmentsHandler,

		// Staff and lead endpoints.
		ListDistributionProfilesHandler:  staffHandler.ListDistributionProfilesHandler,
		UpsertDistributionProfileHandler: staffHandler.UpsertDistributionProfileHandler,
		AssignLeadHandler:                staffHandler.AssignLeadHandler,

		// Reminder settings endpoints.
		GetReminderOffsetsHandler: reminderHandler.GetReminderOffsetsHandler,
		SetReminderOffsetsHandler: reminderHandler.SetReminderOffsetsHandler,
	}

	routes.RegisterRoutes(router, handlerBundle)

	// Background workers.
	cron.InitReminderWorker(apptRepo, eventPublisher)
	utils.StartHealthMonitor([]*redis.Client{utils.GetCacheClient(), utils.GetSessionCacheClient()}, database.MongoClient)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
