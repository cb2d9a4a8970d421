package meeting

import (
	"context"

	"coachdesk/models"
)

// Service is the external meeting collaborator. Credential provisioning and
// OAuth refresh live outside this core; only creation and a validity probe
// are consumed here.
type Service interface {
	CreateMeeting(ctx context.Context, appointmentID, ownerID string) (*models.MeetingDetails, error)
	HasValidCredentials(ctx context.Context, ownerID string) (bool, error)
}
