package models

import "time"

// Lead is owned by the wider CRM; only the assignment fields matter here.
type Lead struct {
	ID         string    `bson:"id" json:"id"`
	CoachID    string    `bson:"coachId" json:"coachId"`
	AssignedTo string    `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`
	Status     string    `bson:"status,omitempty" json:"status,omitempty"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
}
