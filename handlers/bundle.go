package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct for route
// registration.
type HandlerBundle struct {
	// Calendar endpoints
	GetAvailabilityHandler gin.HandlerFunc
	SetAvailabilityHandler gin.HandlerFunc
	AddBlackoutHandler     gin.HandlerFunc
	RemoveBlackoutHandler  gin.HandlerFunc
	AvailableSlotsHandler  gin.HandlerFunc

	// Booking endpoints
	BookHandler             gin.HandlerFunc
	RescheduleHandler       gin.HandlerFunc
	CancelHandler           gin.HandlerFunc
	ListAppointmentsHandler gin.HandlerFunc

	// Staff and lead endpoints
	ListDistributionProfilesHandler  gin.HandlerFunc
	UpsertDistributionProfileHandler gin.HandlerFunc
	AssignLeadHandler                gin.HandlerFunc

	// Reminder settings endpoints
	GetReminderOffsetsHandler gin.HandlerFunc
	SetReminderOffsetsHandler gin.HandlerFunc
}
