// File: database/repository/reminder/settings_mongo.go
package reminderRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"coachdesk/database"
	"coachdesk/models"
)

// SettingsRepository persists per-coach reminder offsets.
type SettingsRepository interface {
	// GetOffsets returns the coach's configured offsets in minutes before the
	// appointment start, falling back to the defaults when unconfigured.
	GetOffsets(ctx context.Context, coachID string) ([]int, error)
	SetOffsets(ctx context.Context, coachID string, offsetsMinutes []int) error
}

type mongoSettingsRepo struct {
	coll *mongo.Collection
}

// NewMongoSettingsRepo returns a SettingsRepository backed by the
// "reminder_settings" collection.
func NewMongoSettingsRepo() SettingsRepository {
	return &mongoSettingsRepo{coll: database.Collection("reminder_settings")}
}

func (r *mongoSettingsRepo) GetOffsets(ctx context.Context, coachID string) ([]int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var settings models.ReminderSettings
	err := r.coll.FindOne(ctx, bson.M{"coachId": coachID}).Decode(&settings)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.DefaultReminderOffsets(), nil
		}
		return nil, fmt.Errorf("failed to fetch reminder settings for %s: %w", coachID, err)
	}
	if len(settings.OffsetsMinutes) == 0 {
		return models.DefaultReminderOffsets(), nil
	}
	return settings.OffsetsMinutes, nil
}

func (r *mongoSettingsRepo) SetOffsets(ctx context.Context, coachID string, offsetsMinutes []int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"offsetsMinutes": offsetsMinutes,
		"updatedAt":      time.Now(),
	}}
	opts := options.Update().SetUpsert(true)
	if _, err := r.coll.UpdateOne(ctx, bson.M{"coachId": coachID}, update, opts); err != nil {
		return fmt.Errorf("failed to set reminder offsets for %s: %w", coachID, err)
	}
	return nil
}
