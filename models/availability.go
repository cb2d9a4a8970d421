package models

import (
	"fmt"
	"time"
)

// OwnerType distinguishes whose calendar an availability record describes.
type OwnerType string

const (
	OwnerTypeCoach OwnerType = "coach"
	OwnerTypeStaff OwnerType = "staff"
)

// AssignmentMode controls how incoming appointments are routed to staff.
type AssignmentMode string

const (
	AssignmentManual    AssignmentMode = "manual"
	AssignmentAutomatic AssignmentMode = "automatic"
)

// WorkingWindow is a recurring weekly working-hours entry. At most one per day.
type WorkingWindow struct {
	Day   int    `bson:"day" json:"day"`     // 0 = Sunday .. 6 = Saturday
	Start string `bson:"start" json:"start"` // "HH:MM", 24h
	End   string `bson:"end" json:"end"`     // "HH:MM", 24h, must be after Start
}

// BlackoutInterval marks a time range unavailable regardless of working hours.
type BlackoutInterval struct {
	ID     string    `bson:"id" json:"id"`
	Start  time.Time `bson:"start" json:"start"`
	End    time.Time `bson:"end" json:"end"`
	Reason string    `bson:"reason,omitempty" json:"reason,omitempty"`
}

// AssignmentPolicy is configured on coach availability only.
type AssignmentPolicy struct {
	Enabled                    bool           `bson:"enabled" json:"enabled"`
	Mode                       AssignmentMode `bson:"mode" json:"mode"`
	ConsiderStaffAvailability  bool           `bson:"considerStaffAvailability" json:"considerStaffAvailability"`
	AllowMultipleStaffSameSlot bool           `bson:"allowMultipleStaffSameSlot" json:"allowMultipleStaffSameSlot"`
}

// Availability holds a calendar owner's recurring schedule and slot parameters.
// One record per coach and one per staff member; replaced whole on update,
// never hard-deleted.
type Availability struct {
	ID              string             `bson:"id" json:"id"`
	OwnerID         string             `bson:"ownerId" json:"ownerId"`
	OwnerType       OwnerType          `bson:"ownerType" json:"ownerType"`
	TimeZone        string             `bson:"timeZone" json:"timeZone"` // IANA name
	WorkingHours    []WorkingWindow    `bson:"workingHours" json:"workingHours"`
	Blackouts       []BlackoutInterval `bson:"blackouts,omitempty" json:"blackouts,omitempty"`
	DefaultDuration int                `bson:"defaultDuration" json:"defaultDuration"` // minutes
	BufferTime      int                `bson:"bufferTime" json:"bufferTime"`           // minutes
	Policy          *AssignmentPolicy  `bson:"policy,omitempty" json:"policy,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// WindowFor returns the working-hours entry for the given weekday, or nil when
// the owner does not work that day.
func (a *Availability) WindowFor(day time.Weekday) *WorkingWindow {
	for i := range a.WorkingHours {
		if a.WorkingHours[i].Day == int(day) {
			return &a.WorkingHours[i]
		}
	}
	return nil
}

// Validate checks the structural invariants of an availability record.
func (a *Availability) Validate() error {
	if a.OwnerID == "" {
		return fmt.Errorf("ownerId is required")
	}
	if a.OwnerType != OwnerTypeCoach && a.OwnerType != OwnerTypeStaff {
		return fmt.Errorf("ownerType must be coach or staff")
	}
	if _, err := time.LoadLocation(a.TimeZone); err != nil {
		return fmt.Errorf("invalid timeZone %q", a.TimeZone)
	}
	if a.DefaultDuration <= 0 {
		return fmt.Errorf("defaultDuration must be positive")
	}
	if a.BufferTime < 0 {
		return fmt.Errorf("bufferTime must not be negative")
	}
	seen := make(map[int]bool, len(a.WorkingHours))
	for _, w := range a.WorkingHours {
		if w.Day < 0 || w.Day > 6 {
			return fmt.Errorf("dayOfWeek %d out of range", w.Day)
		}
		if seen[w.Day] {
			return fmt.Errorf("duplicate working-hours entry for day %d", w.Day)
		}
		seen[w.Day] = true
		start, err := ParseClock(w.Start)
		if err != nil {
			return fmt.Errorf("day %d: %w", w.Day, err)
		}
		end, err := ParseClock(w.End)
		if err != nil {
			return fmt.Errorf("day %d: %w", w.Day, err)
		}
		if start >= end {
			return fmt.Errorf("day %d: startTime must be before endTime", w.Day)
		}
	}
	for _, b := range a.Blackouts {
		if !b.Start.Before(b.End) {
			return fmt.Errorf("blackout %s: start must be before end", b.ID)
		}
	}
	return nil
}

// ParseClock converts an "HH:MM" string to minutes from midnight. The shape
// is exact: two zero-padded fields and nothing after them.
func ParseClock(v string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(v, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", v)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 || fmt.Sprintf("%02d:%02d", h, m) != v {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", v)
	}
	return h*60 + m, nil
}
