package models

import "time"

// MeetingDetails is what the external meeting provider returns for a created
// meeting.
type MeetingDetails struct {
	MeetingID string `json:"meetingId"`
	JoinURL   string `json:"joinUrl"`
	StartURL  string `json:"startUrl"`
}

// MeetingCredentials holds a calendar owner's provider access token. Token
// refresh is handled by the integrations layer; this core only reads them.
type MeetingCredentials struct {
	OwnerID     string    `bson:"ownerId" json:"ownerId"`
	AccessToken string    `bson:"accessToken" json:"-"`
	ExpiresAt   time.Time `bson:"expiresAt" json:"expiresAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Valid reports whether the credentials can still be used.
func (c *MeetingCredentials) Valid(now time.Time) bool {
	return c.AccessToken != "" && c.ExpiresAt.After(now)
}
