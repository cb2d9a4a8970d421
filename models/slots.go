package models

import "time"

// Slot is a candidate bookable interval derived from working hours.
type Slot struct {
	StartTime time.Time `json:"startTime"`
	Duration  int       `json:"duration"` // minutes
	TimeZone  string    `json:"timeZone"`
}

// End returns the exclusive end instant of the slot.
func (s Slot) End() time.Time {
	return s.StartTime.Add(time.Duration(s.Duration) * time.Minute)
}

// PooledSlot is a slot annotated with staff-pool capacity. For a non-pooled
// calendar capacity is always 1.
type PooledSlot struct {
	Slot      `json:",inline"`
	Capacity  int `json:"capacity"`
	Booked    int `json:"booked"`
	Available int `json:"available"`
}

// SlotSession is the advisory slot offer cached at listing time. Booking never
// trusts it; it exists so a raced-away slot can be told apart from a slot that
// was never offered.
type SlotSession struct {
	OwnerID   string       `json:"ownerId"`
	Date      string       `json:"date"`
	Slots     []PooledSlot `json:"slots"`
	CreatedAt time.Time    `json:"createdAt"`
}
