package models

import "time"

// StaffDistributionProfile configures a staff member's share of auto-assigned
// work under a coach. A ratio of zero excludes the staff member from automatic
// assignment without deactivating them.
type StaffDistributionProfile struct {
	ID                string    `bson:"id" json:"id"`
	CoachID           string    `bson:"coachId" json:"coachId"`
	StaffID           string    `bson:"staffId" json:"staffId"`
	DistributionRatio float64   `bson:"distributionRatio" json:"distributionRatio"`
	Active            bool      `bson:"active" json:"active"`
	CreatedAt         time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time `bson:"updatedAt" json:"updatedAt"`
}
