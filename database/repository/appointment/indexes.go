// FILE: database/repository/appointment/indexes.go
package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"coachdesk/models"
)

// EnsureIndexes creates the necessary indexes on the appointments collection.
// The partial unique index on coachId+startTime is the storage-level backstop
// against double booking when pooling is off; pooled calendars rely on the
// transactional capacity count instead.
func (r *mongoAppointmentRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	blockingFilter := bson.M{
		"status": bson.M{"$in": models.BlockingStatuses},
		"pooled": bson.M{"$ne": true},
	}

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys: bson.D{{Key: "coachId", Value: 1}, {Key: "startTime", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(blockingFilter).
				SetName("unique_coach_start_blocking"),
		},
		{
			Keys:    bson.D{{Key: "coachId", Value: 1}, {Key: "startTime", Value: 1}, {Key: "endTime", Value: 1}},
			Options: options.Index().SetName("coach_interval_idx"),
		},
		{
			Keys:    bson.D{{Key: "assignedStaffId", Value: 1}, {Key: "startTime", Value: 1}},
			Options: options.Index().SetName("staff_start_idx"),
		},
		{
			Keys:    bson.D{{Key: "coachId", Value: 1}, {Key: "assignedStaffId", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("coach_staff_status_idx"),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create appointment indexes: %w", err)
	}
	return nil
}
