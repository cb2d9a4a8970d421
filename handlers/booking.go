package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"coachdesk/services/booking"
)

// BookingHandler serves the booking lifecycle endpoints.
type BookingHandler struct {
	Service booking.Service
}

// BookHandler handles POST /booking.
func (h *BookingHandler) BookHandler(c *gin.Context) {
	logger := getLogger(c)

	var req booking.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	result, err := h.Service.Book(c.Request.Context(), req)
	if err != nil {
		logger.Warn("Booking rejected",
			zap.String("coachId", req.CoachID), zap.String("leadId", req.LeadID), zap.Error(err))
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// RescheduleHandler handles PUT /booking/:id/reschedule.
func (h *BookingHandler) RescheduleHandler(c *gin.Context) {
	logger := getLogger(c)
	id := c.Param("id")

	var input struct {
		NewStartTime time.Time `json:"newStartTime"`
		NewDuration  int       `json:"newDuration,omitempty"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	appt, err := h.Service.Reschedule(c.Request.Context(), id, input.NewStartTime, input.NewDuration)
	if err != nil {
		logger.Warn("Reschedule rejected", zap.String("appointmentId", id), zap.Error(err))
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

// CancelHandler handles DELETE /booking/:id.
func (h *BookingHandler) CancelHandler(c *gin.Context) {
	logger := getLogger(c)
	id := c.Param("id")

	if err := h.Service.Cancel(c.Request.Context(), id); err != nil {
		logger.Warn("Cancel rejected", zap.String("appointmentId", id), zap.Error(err))
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

// ListAppointmentsHandler handles GET /booking/owner/:ownerId?date=YYYY-MM-DD.
func (h *BookingHandler) ListAppointmentsHandler(c *gin.Context) {
	logger := getLogger(c)
	ownerID := c.Param("ownerId")
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter is required"})
		return
	}

	appts, err := h.Service.ListAppointments(c.Request.Context(), ownerID, date)
	if err != nil {
		logger.Error("Failed to list appointments",
			zap.String("ownerId", ownerID), zap.String("date", date), zap.Error(err))
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "appointments": appts})
}
