// File: database/repository/appointment/appointment_mongo.go
package appointmentRepo

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

type mongoAppointmentRepo struct {
	coll *mongo.Collection
}

// NewMongoAppointmentRepo returns an AppointmentRepository backed by the
// "appointments" collection.
func NewMongoAppointmentRepo() AppointmentRepository {
	return &mongoAppointmentRepo{coll: database.Collection("appointments")}
}

// ownerFilter matches appointments where the given ID is the coach or the
// assigned staff member. An appointment occupies both calendars.
func ownerFilter(ownerID string) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"coachId": ownerID},
		bson.M{"assignedStaffId": ownerID},
	}}
}

func (r *mongoAppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var appt models.Appointment
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&appt)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, mongo.ErrNoDocuments
		}
		return nil, fmt.Errorf("failed to fetch appointment %s: %w", id, err)
	}
	return &appt, nil
}

func (r *mongoAppointmentRepo) AssignStaff(ctx context.Context, id, staffID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// First-write-wins: the filter only matches while no staff is attached.
	filter := bson.M{
		"id": id,
		"$or": bson.A{
			bson.M{"assignedStaffId": bson.M{"$exists": false}},
			bson.M{"assignedStaffId": ""},
		},
	}
	update := bson.M{"$set": bson.M{
		"assignedStaffId": staffID,
		"updatedAt":       time.Now(),
	}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to assign staff to appointment %s: %w", id, err)
	}
	return res.ModifiedCount > 0, nil
}

func (r *mongoAppointmentRepo) UpdateSchedule(ctx context.Context, id string, start time.Time, duration int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	end := start.Add(time.Duration(duration) * time.Minute)
	update := bson.M{"$set": bson.M{
		"startTime": start,
		"endTime":   end,
		"duration":  duration,
		"status":    models.StatusRescheduled,
		"updatedAt": time.Now(),
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to reschedule appointment %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoAppointmentRepo) UpdateStatus(ctx context.Context, id string, status models.AppointmentStatus) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"status":    status,
		"updatedAt": time.Now(),
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update status for appointment %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoAppointmentRepo) SetMeetingJoinURL(ctx context.Context, id, joinURL string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"meetingJoinUrl": joinURL,
		"updatedAt":      time.Now(),
	}}
	_, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to set meeting link for appointment %s: %w", id, err)
	}
	return nil
}
