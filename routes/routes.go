package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"coachdesk/handlers"
	"coachdesk/middleware"
	"coachdesk/utils"
)

// RegisterCalendarRoutes registers availability and slot endpoints.
func RegisterCalendarRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/calendar")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("/availability/:ownerId", hb.GetAvailabilityHandler)
		api.PUT("/availability/:ownerId", hb.SetAvailabilityHandler)
		api.POST("/availability/:ownerId/blackouts", hb.AddBlackoutHandler)
		api.DELETE("/availability/:ownerId/blackouts/:blackoutId", hb.RemoveBlackoutHandler)
		api.GET("/slots/:ownerId", hb.AvailableSlotsHandler)
		api.GET("/reminders/:coachId", hb.GetReminderOffsetsHandler)
		api.PUT("/reminders/:coachId", hb.SetReminderOffsetsHandler)
	}
}

// RegisterBookingRoutes sets up the endpoints for the booking lifecycle.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	bookingGroup := r.Group("/api/booking")
	{
		bookingGroup.Use(middleware.JWTAuthMiddleware())
		bookingGroup.POST("", hb.BookHandler)
		bookingGroup.PUT("/:id/reschedule", hb.RescheduleHandler)
		bookingGroup.DELETE("/:id", hb.CancelHandler)
		bookingGroup.GET("/owner/:ownerId", hb.ListAppointmentsHandler)
	}
}

// RegisterStaffRoutes registers staff distribution and lead assignment endpoints.
func RegisterStaffRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	staffGroup := r.Group("/api/staff")
	{
		staffGroup.Use(middleware.JWTAuthMiddleware())
		staffGroup.GET("/:coachId/distribution", hb.ListDistributionProfilesHandler)
		staffGroup.PUT("/:coachId/distribution/:staffId", hb.UpsertDistributionProfileHandler)
	}

	leadGroup := r.Group("/api/leads")
	{
		leadGroup.Use(middleware.JWTAuthMiddleware())
		leadGroup.POST("/:leadId/assign", hb.AssignLeadHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint serving the latest
// dependency snapshot from the background monitor.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		health := utils.GetHealthStatus()
		status := http.StatusOK
		state := "ok"
		if !health.Healthy() {
			status = http.StatusServiceUnavailable
			state = "degraded"
		}
		c.JSON(status, gin.H{"status": state, "health": health})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())

	RegisterHealthRoute(r)
	RegisterCalendarRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterStaffRoutes(r, hb)
}
