// File: database/repository/availability/availability_mongo.go
package availabilityRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"coachdesk/database"
	"coachdesk/models"
)

type mongoAvailabilityRepo struct {
	coll *mongo.Collection
}

// NewMongoAvailabilityRepo returns an AvailabilityRepository backed by the
// "availability" collection.
func NewMongoAvailabilityRepo() AvailabilityRepository {
	return &mongoAvailabilityRepo{coll: database.Collection("availability")}
}

func (r *mongoAvailabilityRepo) GetByOwner(ctx context.Context, ownerID string) (*models.Availability, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var av models.Availability
	err := r.coll.FindOne(ctx, bson.M{"ownerId": ownerID}).Decode(&av)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch availability for %s: %w", ownerID, err)
	}
	return &av, nil
}

func (r *mongoAvailabilityRepo) Upsert(ctx context.Context, av *models.Availability) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	if av.ID == "" {
		av.ID = uuid.New().String()
		av.CreatedAt = now
	}
	av.UpdatedAt = now
	for i := range av.Blackouts {
		if av.Blackouts[i].ID == "" {
			av.Blackouts[i].ID = uuid.New().String()
		}
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := r.coll.ReplaceOne(ctx, bson.M{"ownerId": av.OwnerID}, av, opts); err != nil {
		return fmt.Errorf("failed to upsert availability for %s: %w", av.OwnerID, err)
	}
	return nil
}

func (r *mongoAvailabilityRepo) AddBlackout(ctx context.Context, ownerID string, blackout models.BlackoutInterval) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if blackout.ID == "" {
		blackout.ID = uuid.New().String()
	}
	update := bson.M{
		"$push": bson.M{"blackouts": blackout},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"ownerId": ownerID}, update)
	if err != nil {
		return fmt.Errorf("failed to add blackout for %s: %w", ownerID, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoAvailabilityRepo) RemoveBlackout(ctx context.Context, ownerID, blackoutID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{
		"$pull": bson.M{"blackouts": bson.M{"id": blackoutID}},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"ownerId": ownerID}, update)
	if err != nil {
		return fmt.Errorf("failed to remove blackout %s for %s: %w", blackoutID, ownerID, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
