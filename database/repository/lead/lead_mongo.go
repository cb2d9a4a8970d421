// File: database/repository/lead/lead_mongo.go
package leadRepo

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

// LeadRepository reads and assigns leads. Leads are owned by the wider CRM;
// this core only ever touches the assignedTo field.
type LeadRepository interface {
	GetByID(ctx context.Context, id string) (*models.Lead, error)
	CountAssignedToStaff(ctx context.Context, coachID, staffID string) (int64, error)
	// AssignStaff attaches a staff member only when the lead is unassigned.
	AssignStaff(ctx context.Context, leadID, staffID string) (bool, error)
}

type mongoLeadRepo struct {
	coll *mongo.Collection
}

// NewMongoLeadRepo returns a LeadRepository backed by the "leads" collection.
func NewMongoLeadRepo() LeadRepository {
	return &mongoLeadRepo{coll: database.Collection("leads")}
}

func (r *mongoLeadRepo) GetByID(ctx context.Context, id string) (*models.Lead, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var lead models.Lead
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&lead)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, mongo.ErrNoDocuments
		}
		return nil, fmt.Errorf("failed to fetch lead %s: %w", id, err)
	}
	return &lead, nil
}

func (r *mongoLeadRepo) CountAssignedToStaff(ctx context.Context, coachID, staffID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	count, err := r.coll.CountDocuments(ctx, bson.M{"coachId": coachID, "assignedTo": staffID})
	if err != nil {
		return 0, fmt.Errorf("failed to count leads for staff %s: %w", staffID, err)
	}
	return count, nil
}

func (r *mongoLeadRepo) AssignStaff(ctx context.Context, leadID, staffID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id": leadID,
		"$or": bson.A{
			bson.M{"assignedTo": bson.M{"$exists": false}},
			bson.M{"assignedTo": ""},
		},
	}
	update := bson.M{"$set": bson.M{"assignedTo": staffID}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to assign lead %s: %w", leadID, err)
	}
	return res.ModifiedCount > 0, nil
}
