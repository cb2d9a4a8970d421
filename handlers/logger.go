package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"coachdesk/services/assignment"
	"coachdesk/services/booking"
	"coachdesk/services/calendar"
	"coachdesk/utils"
)

// getLogger retrieves a Zap logger from the Gin context or falls back to the
// shared one.
func getLogger(c *gin.Context) *zap.Logger {
	if l, exists := c.Get("logger"); exists {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return utils.GetLogger()
}

// respondServiceError maps service-layer errors onto HTTP statuses. Conflicts
// carry their machine-readable code so clients can branch on it.
func respondServiceError(c *gin.Context, err error) {
	var validationErr *calendar.ValidationError
	var notFoundErr *calendar.NotFoundError
	var conflictErr *booking.ConflictError
	var noStaffErr *assignment.NoStaffError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
	case errors.As(err, &conflictErr):
		utils.JSONErrorCode(c, http.StatusConflict, conflictErr.Code, conflictErr.Message)
	case errors.As(err, &noStaffErr):
		utils.JSONErrorCode(c, http.StatusConflict, noStaffErr.Reason, noStaffErr.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, "Internal server error", err.Error())
	}
}
