// File: database/repository/staff/staff_mongo.go
package staffRepo

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

type mongoStaffRepo struct {
	coll *mongo.Collection
}

// NewMongoStaffRepo returns a StaffRepository backed by the
// "staff_distribution" collection.
func NewMongoStaffRepo() StaffRepository {
	return &mongoStaffRepo{coll: database.Collection("staff_distribution")}
}

func (r *mongoStaffRepo) ListProfiles(ctx context.Context, coachID string) ([]models.StaffDistributionProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "staffId", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"coachId": coachID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff profiles for coach %s: %w", coachID, err)
	}
	defer cursor.Close(ctx)

	var profiles []models.StaffDistributionProfile
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, fmt.Errorf("error decoding staff profiles: %w", err)
	}
	return profiles, nil
}

func (r *mongoStaffRepo) GetProfileByStaff(ctx context.Context, staffID string) (*models.StaffDistributionProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var profile models.StaffDistributionProfile
	err := r.coll.FindOne(ctx, bson.M{"staffId": staffID}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, mongo.ErrNoDocuments
		}
		return nil, fmt.Errorf("failed to fetch staff profile %s: %w", staffID, err)
	}
	return &profile, nil
}

func (r *mongoStaffRepo) UpsertProfile(ctx context.Context, profile *models.StaffDistributionProfile) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	if profile.ID == "" {
		profile.ID = uuid.New().String()
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	filter := bson.M{"coachId": profile.CoachID, "staffId": profile.StaffID}
	update := bson.M{
		"$set": bson.M{
			"distributionRatio": profile.DistributionRatio,
			"active":            profile.Active,
			"updatedAt":         profile.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"id":        profile.ID,
			"coachId":   profile.CoachID,
			"staffId":   profile.StaffID,
			"createdAt": profile.CreatedAt,
		},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := r.coll.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert staff profile for %s: %w", profile.StaffID, err)
	}
	return nil
}

func (r *mongoStaffRepo) CountActive(ctx context.Context, coachID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	count, err := r.coll.CountDocuments(ctx, bson.M{"coachId": coachID, "active": true})
	if err != nil {
		return 0, fmt.Errorf("failed to count active staff for coach %s: %w", coachID, err)
	}
	return count, nil
}

// EnsureIndexes creates the necessary indexes on the staff_distribution collection.
func (r *mongoStaffRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "coachId", Value: 1}, {Key: "staffId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_coach_staff"),
		},
		{
			Keys:    bson.D{{Key: "staffId", Value: 1}},
			Options: options.Index().SetName("staff_idx"),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create staff indexes: %w", err)
	}
	return nil
}
