package calendar

import (
	"time"

	"coachdesk/models"
)

// GenerateSlots walks the owner's working hours for the given YYYY-MM-DD date
// and emits every candidate interval of defaultDuration minutes, stepping by
// defaultDuration+bufferTime, that does not intersect a blackout interval or a
// blocking appointment. A day without a working-hours entry yields no slots.
func GenerateSlots(av *models.Availability, appts []models.Appointment, date string) ([]models.Slot, error) {
	loc, err := time.LoadLocation(av.TimeZone)
	if err != nil {
		return nil, NewValidationError("invalid timeZone %q", av.TimeZone)
	}
	day, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return nil, NewValidationError("invalid date %q, expected YYYY-MM-DD", date)
	}

	window := av.WindowFor(day.Weekday())
	if window == nil {
		return nil, nil
	}

	startOffset, err := models.ParseClock(window.Start)
	if err != nil {
		return nil, NewValidationError("day %d: %v", window.Day, err)
	}
	endOffset, err := models.ParseClock(window.End)
	if err != nil {
		return nil, NewValidationError("day %d: %v", window.Day, err)
	}

	duration := av.DefaultDuration
	step := duration + av.BufferTime

	var slots []models.Slot
	for offset := startOffset; offset+duration <= endOffset; offset += step {
		slotStart := day.Add(time.Duration(offset) * time.Minute)
		slotEnd := slotStart.Add(time.Duration(duration) * time.Minute)

		if intersectsBlackout(av.Blackouts, slotStart, slotEnd) {
			continue
		}
		if intersectsAppointment(appts, slotStart, slotEnd) {
			continue
		}

		slots = append(slots, models.Slot{
			StartTime: slotStart,
			Duration:  duration,
			TimeZone:  av.TimeZone,
		})
	}
	return slots, nil
}

// overlaps is the half-open interval intersection test shared by every
// conflict decision in this package.
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

func intersectsBlackout(blackouts []models.BlackoutInterval, start, end time.Time) bool {
	for _, b := range blackouts {
		if overlaps(start, end, b.Start, b.End) {
			return true
		}
	}
	return false
}

func intersectsAppointment(appts []models.Appointment, start, end time.Time) bool {
	for i := range appts {
		if !appts[i].Blocking() {
			continue
		}
		if appts[i].Overlaps(start, end) {
			return true
		}
	}
	return false
}
