// File: database/repository/appointment/queries.go
package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"coachdesk/models"
)

// overlapFilter matches blocking appointments intersecting [start, end) for
// the owner. Half-open semantics: startTime < end AND endTime > start.
func overlapFilter(ownerID string, start, end time.Time) bson.M {
	return bson.M{
		"$and": bson.A{
			ownerFilter(ownerID),
			bson.M{"status": bson.M{"$in": models.BlockingStatuses}},
			bson.M{"startTime": bson.M{"$lt": end}},
			bson.M{"endTime": bson.M{"$gt": start}},
		},
	}
}

func (r *mongoAppointmentRepo) FindOverlapping(ctx context.Context, ownerID string, start, end time.Time, excludeID string) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := overlapFilter(ownerID, start, end)
	if excludeID != "" {
		filter["id"] = bson.M{"$ne": excludeID}
	}

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query overlapping appointments: %w", err)
	}
	defer cursor.Close(ctx)

	var appts []models.Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("error decoding appointments: %w", err)
	}
	return appts, nil
}

func (r *mongoAppointmentRepo) ListForOwner(ctx context.Context, ownerID string, from, to time.Time) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"$and": bson.A{
			ownerFilter(ownerID),
			bson.M{"startTime": bson.M{"$lt": to}},
			bson.M{"endTime": bson.M{"$gt": from}},
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "startTime", Value: 1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments for %s: %w", ownerID, err)
	}
	defer cursor.Close(ctx)

	var appts []models.Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("error decoding appointments: %w", err)
	}
	return appts, nil
}

func (r *mongoAppointmentRepo) CountAssignedToStaff(ctx context.Context, coachID, staffID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"coachId":         coachID,
		"assignedStaffId": staffID,
		"status":          bson.M{"$in": models.BlockingStatuses},
	}
	count, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count assignments for staff %s: %w", staffID, err)
	}
	return count, nil
}
