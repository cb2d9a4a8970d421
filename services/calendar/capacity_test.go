package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coachdesk/models"
)

func baseSlots(t *testing.T) []models.Slot {
	t.Helper()
	return []models.Slot{
		{StartTime: mustTime(t, "2025-06-02T09:00:00Z"), Duration: 60, TimeZone: "UTC"},
		{StartTime: mustTime(t, "2025-06-02T10:00:00Z"), Duration: 60, TimeZone: "UTC"},
		{StartTime: mustTime(t, "2025-06-02T11:00:00Z"), Duration: 60, TimeZone: "UTC"},
	}
}

func TestAnnotateSlotsPoolCapacity(t *testing.T) {
	slots := baseSlots(t)
	booked := map[int64]int{
		slots[0].StartTime.Unix(): 2,
		slots[1].StartTime.Unix(): 3,
	}

	annotated := AnnotateSlots(slots, 3, booked, true)
	require.Len(t, annotated, 3)

	assert.Equal(t, 3, annotated[0].Capacity)
	assert.Equal(t, 2, annotated[0].Booked)
	assert.Equal(t, 1, annotated[0].Available)

	assert.Equal(t, 0, annotated[1].Available)

	assert.Equal(t, 0, annotated[2].Booked)
	assert.Equal(t, 3, annotated[2].Available)
}

func TestAnnotateSlotsSingleStaffPerSlot(t *testing.T) {
	slots := baseSlots(t)

	// allowMultiple=false forces capacity 1 regardless of staff count.
	annotated := AnnotateSlots(slots, 5, nil, false)
	for _, s := range annotated {
		assert.Equal(t, 1, s.Capacity)
		assert.Equal(t, 1, s.Available)
	}
}

func TestAnnotateSlotsNeverNegativeAvailability(t *testing.T) {
	slots := baseSlots(t)[:1]
	booked := map[int64]int{slots[0].StartTime.Unix(): 7}

	annotated := AnnotateSlots(slots, 2, booked, true)
	require.Len(t, annotated, 1)
	assert.Equal(t, 0, annotated[0].Available)
}

func TestAnnotateSlotsZeroStaffStillOffersOne(t *testing.T) {
	slots := baseSlots(t)[:1]

	annotated := AnnotateSlots(slots, 0, nil, true)
	require.Len(t, annotated, 1)
	assert.Equal(t, 1, annotated[0].Capacity)
}

func TestFilterOfferedDropsFullSlots(t *testing.T) {
	slots := []models.PooledSlot{
		{Slot: models.Slot{StartTime: time.Unix(100, 0)}, Capacity: 2, Booked: 2, Available: 0},
		{Slot: models.Slot{StartTime: time.Unix(200, 0)}, Capacity: 2, Booked: 1, Available: 1},
	}

	offered := FilterOffered(slots)
	require.Len(t, offered, 1)
	assert.Equal(t, time.Unix(200, 0), offered[0].StartTime)
}
