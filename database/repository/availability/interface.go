// File: database/repository/availability/interface.go
package availabilityRepo

import (
	"context"

	"coachdesk/models"
)

// AvailabilityRepository persists calendar-owner availability records.
type AvailabilityRepository interface {
	// GetByOwner returns nil (no error) when the owner has no record yet.
	GetByOwner(ctx context.Context, ownerID string) (*models.Availability, error)
	Upsert(ctx context.Context, av *models.Availability) error
	AddBlackout(ctx context.Context, ownerID string, blackout models.BlackoutInterval) error
	RemoveBlackout(ctx context.Context, ownerID, blackoutID string) error
	EnsureIndexes() error
}
