package calendar

import (
	"coachdesk/models"
)

// AnnotateSlots attaches pool capacity to base slots. Capacity is the eligible
// staff count unless allowMultiple is false, which reverts the calendar to
// single-owner semantics. bookedAt maps slot start (unix seconds) to the count
// of blocking appointments already holding that exact start.
func AnnotateSlots(base []models.Slot, staffCount int, bookedAt map[int64]int, allowMultiple bool) []models.PooledSlot {
	capacity := staffCount
	if !allowMultiple || capacity < 1 {
		capacity = 1
	}

	annotated := make([]models.PooledSlot, 0, len(base))
	for _, slot := range base {
		booked := bookedAt[slot.StartTime.Unix()]
		available := capacity - booked
		if available < 0 {
			available = 0
		}
		annotated = append(annotated, models.PooledSlot{
			Slot:      slot,
			Capacity:  capacity,
			Booked:    booked,
			Available: available,
		})
	}
	return annotated
}

// FilterOffered drops fully booked slots; only slots with remaining capacity
// are shown to clients.
func FilterOffered(slots []models.PooledSlot) []models.PooledSlot {
	offered := slots[:0:0]
	for _, s := range slots {
		if s.Available > 0 {
			offered = append(offered, s)
		}
	}
	return offered
}
