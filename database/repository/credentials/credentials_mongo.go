// File: database/repository/credentials/credentials_mongo.go
package credentialsRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"coachdesk/database"
	"coachdesk/models"
)

// CredentialsRepository reads meeting-provider credentials. Writes happen in
// the OAuth integration layer, outside this core.
type CredentialsRepository interface {
	GetByOwner(ctx context.Context, ownerID string) (*models.MeetingCredentials, error)
}

type mongoCredentialsRepo struct {
	coll *mongo.Collection
}

// NewMongoCredentialsRepo returns a CredentialsRepository backed by the
// "meeting_credentials" collection.
func NewMongoCredentialsRepo() CredentialsRepository {
	return &mongoCredentialsRepo{coll: database.Collection("meeting_credentials")}
}

func (r *mongoCredentialsRepo) GetByOwner(ctx context.Context, ownerID string) (*models.MeetingCredentials, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var creds models.MeetingCredentials
	err := r.coll.FindOne(ctx, bson.M{"ownerId": ownerID}).Decode(&creds)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, mongo.ErrNoDocuments
		}
		return nil, fmt.Errorf("failed to fetch meeting credentials for %s: %w", ownerID, err)
	}
	return &creds, nil
}
