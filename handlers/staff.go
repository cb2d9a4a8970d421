package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	staffRepo "coachdesk/database/repository/staff"
	"coachdesk/models"
	"coachdesk/services/assignment"
)

// StaffHandler serves staff distribution profiles and lead assignment.
type StaffHandler struct {
	Staff    staffRepo.StaffRepository
	Assigner assignment.Engine
}

// ListDistributionProfilesHandler handles GET /staff/:coachId/distribution.
func (h *StaffHandler) ListDistributionProfilesHandler(c *gin.Context) {
	logger := getLogger(c)
	coachID := c.Param("coachId")

	profiles, err := h.Staff.ListProfiles(c.Request.Context(), coachID)
	if err != nil {
		logger.Error("Failed to list distribution profiles", zap.String("coachId", coachID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list distribution profiles"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"profiles": profiles})
}

// UpsertDistributionProfileHandler handles PUT /staff/:coachId/distribution/:staffId.
func (h *StaffHandler) UpsertDistributionProfileHandler(c *gin.Context) {
	logger := getLogger(c)
	coachID := c.Param("coachId")
	staffID := c.Param("staffId")

	var input struct {
		DistributionRatio float64 `json:"distributionRatio"`
		Active            bool    `json:"active"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if input.DistributionRatio < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "distributionRatio must not be negative"})
		return
	}

	profile := &models.StaffDistributionProfile{
		CoachID:           coachID,
		StaffID:           staffID,
		DistributionRatio: input.DistributionRatio,
		Active:            input.Active,
		UpdatedAt:         time.Now(),
	}
	if err := h.Staff.UpsertProfile(c.Request.Context(), profile); err != nil {
		logger.Error("Failed to upsert distribution profile",
			zap.String("coachId", coachID), zap.String("staffId", staffID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save distribution profile"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// AssignLeadHandler handles POST /leads/:leadId/assign.
func (h *StaffHandler) AssignLeadHandler(c *gin.Context) {
	logger := getLogger(c)
	leadID := c.Param("leadId")

	var input struct {
		CoachID string `json:"coachId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if input.CoachID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "coachId is required"})
		return
	}

	result, err := h.Assigner.AssignLead(c.Request.Context(), input.CoachID, leadID)
	if err != nil {
		logger.Warn("Lead assignment failed",
			zap.String("leadId", leadID), zap.String("coachId", input.CoachID), zap.Error(err))
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
