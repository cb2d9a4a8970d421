package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	reminderRepo "coachdesk/database/repository/reminder"
)

// ReminderHandler serves per-coach reminder offset settings.
type ReminderHandler struct {
	Settings reminderRepo.SettingsRepository
}

// GetReminderOffsetsHandler handles GET /calendar/reminders/:coachId.
func (h *ReminderHandler) GetReminderOffsetsHandler(c *gin.Context) {
	logger := getLogger(c)
	coachID := c.Param("coachId")

	offsets, err := h.Settings.GetOffsets(c.Request.Context(), coachID)
	if err != nil {
		logger.Error("Failed to get reminder offsets", zap.String("coachId", coachID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get reminder offsets"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"offsetsMinutes": offsets})
}

// SetReminderOffsetsHandler handles PUT /calendar/reminders/:coachId.
func (h *ReminderHandler) SetReminderOffsetsHandler(c *gin.Context) {
	logger := getLogger(c)
	coachID := c.Param("coachId")

	var input struct {
		OffsetsMinutes []int `json:"offsetsMinutes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	for _, off := range input.OffsetsMinutes {
		if off <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "offsets must be positive minutes before the appointment"})
			return
		}
	}

	if err := h.Settings.SetOffsets(c.Request.Context(), coachID, input.OffsetsMinutes); err != nil {
		logger.Error("Failed to set reminder offsets", zap.String("coachId", coachID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save reminder offsets"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"offsetsMinutes": input.OffsetsMinutes})
}
