// File: database/repository/staff/interface.go
package staffRepo

import (
	"context"

	"coachdesk/models"
)

// StaffRepository persists staff distribution profiles.
type StaffRepository interface {
	// ListProfiles returns profiles for a coach in a deterministic order
	// (creation order). The assignment engine depends on this for tie-breaks.
	ListProfiles(ctx context.Context, coachID string) ([]models.StaffDistributionProfile, error)
	GetProfileByStaff(ctx context.Context, staffID string) (*models.StaffDistributionProfile, error)
	UpsertProfile(ctx context.Context, profile *models.StaffDistributionProfile) error
	// CountActive counts active staff under a coach, independent of ratio.
	// Drives pooled slot capacity.
	CountActive(ctx context.Context, coachID string) (int64, error)
	EnsureIndexes() error
}
