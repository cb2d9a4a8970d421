package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"coachdesk/models"
	"coachdesk/services/booking"
	"coachdesk/services/calendar"
)

// CalendarHandler serves availability management and slot listing.
type CalendarHandler struct {
	Service  calendar.Service
	Sessions *booking.SlotSessionStore
}

// GetAvailabilityHandler handles GET /calendar/availability/:ownerId.
func (h *CalendarHandler) GetAvailabilityHandler(c *gin.Context) {
	logger := getLogger(c)
	ownerID := c.Param("ownerId")

	av, err := h.Service.GetAvailability(c.Request.Context(), ownerID)
	if err != nil {
		logger.Error("Failed to get availability", zap.String("ownerId", ownerID), zap.Error(err))
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, av)
}

// SetAvailabilityHandler handles PUT /calendar/availability/:ownerId.
func (h *CalendarHandler) SetAvailabilityHandler(c *gin.Context) {
	logger := getLogger(c)
	ownerID := c.Param("ownerId")

	var av models.Availability
	if err := c.ShouldBindJSON(&av); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	av.OwnerID = ownerID

	if err := h.Service.SetAvailability(c.Request.Context(), &av); err != nil {
		logger.Error("Failed to set availability", zap.String("ownerId", ownerID), zap.Error(err))
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, av)
}

// AddBlackoutHandler handles POST /calendar/availability/:ownerId/blackouts.
func (h *CalendarHandler) AddBlackoutHandler(c *gin.Context) {
	logger := getLogger(c)
	ownerID := c.Param("ownerId")

	var blackout models.BlackoutInterval
	if err := c.ShouldBindJSON(&blackout); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	if err := h.Service.AddBlackout(c.Request.Context(), ownerID, blackout); err != nil {
		logger.Error("Failed to add blackout", zap.String("ownerId", ownerID), zap.Error(err))
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "added"})
}

// RemoveBlackoutHandler handles DELETE /calendar/availability/:ownerId/blackouts/:blackoutId.
func (h *CalendarHandler) RemoveBlackoutHandler(c *gin.Context) {
	logger := getLogger(c)
	ownerID := c.Param("ownerId")
	blackoutID := c.Param("blackoutId")

	if err := h.Service.RemoveBlackout(c.Request.Context(), ownerID, blackoutID); err != nil {
		logger.Error("Failed to remove blackout",
			zap.String("ownerId", ownerID), zap.String("blackoutId", blackoutID), zap.Error(err))
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

// AvailableSlotsHandler handles GET /calendar/slots/:ownerId?date=YYYY-MM-DD.
// The returned sessionID is advisory: passing it back on booking lets the
// server report whether a rejected slot was offered and then taken.
func (h *CalendarHandler) AvailableSlotsHandler(c *gin.Context) {
	logger := getLogger(c)
	ownerID := c.Param("ownerId")
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter is required"})
		return
	}

	slots, err := h.Service.AvailableSlots(c.Request.Context(), ownerID, date)
	if err != nil {
		logger.Error("Failed to compute slots", zap.String("ownerId", ownerID), zap.String("date", date), zap.Error(err))
		respondServiceError(c, err)
		return
	}

	sessionID := ""
	if h.Sessions != nil {
		sessionID, err = h.Sessions.Save(c.Request.Context(), models.SlotSession{
			OwnerID:   ownerID,
			Date:      date,
			Slots:     slots,
			CreatedAt: time.Now(),
		})
		if err != nil {
			// Sessions are best-effort; the slot listing still stands.
			logger.Warn("Failed to cache slot session", zap.String("ownerId", ownerID), zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"sessionID": sessionID,
		"date":      date,
		"slots":     slots,
	})
}
