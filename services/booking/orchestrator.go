package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	appointmentRepo "coachdesk/database/repository/appointment"
	"coachdesk/models"
	"coachdesk/services/assignment"
	"coachdesk/services/calendar"
)

const sideEffectTimeout = 5 * time.Second

// Book runs the appointment state machine: requested, validated, persisted,
// assigned, side-effects-dispatched. Validation re-runs slot membership and
// the conflict check at write time; the store's transactional insert is the
// final tie-breaker between racing requests.
func (s *DefaultBookingService) Book(ctx context.Context, req BookRequest) (*BookingResult, error) {
	if req.CoachID == "" || req.LeadID == "" {
		return nil, calendar.NewValidationError("coachId and leadId are required")
	}
	if req.StartTime.IsZero() {
		return nil, calendar.NewValidationError("startTime is required")
	}
	if req.Duration < 0 {
		return nil, calendar.NewValidationError("duration must not be negative")
	}

	av, err := s.Calendar.GetAvailability(ctx, req.CoachID)
	if err != nil {
		return nil, err
	}
	loc, err := time.LoadLocation(av.TimeZone)
	if err != nil {
		return nil, calendar.NewValidationError("invalid timeZone %q", av.TimeZone)
	}

	duration := req.Duration
	if duration == 0 {
		duration = av.DefaultDuration
	}

	// Validated: the requested slot must still be among the generated slots
	// for that date, with capacity remaining.
	date := req.StartTime.In(loc).Format("2006-01-02")
	slots, err := s.Calendar.AvailableSlots(ctx, req.CoachID, date)
	if err != nil {
		return nil, err
	}
	offered := findSlot(slots, req.StartTime)
	if offered == nil {
		return nil, s.slotGoneError(ctx, req, date)
	}

	capacity := offered.Capacity
	if capacity == 1 {
		// Conflict re-check on the coach calendar closes the listing/booking
		// race before we even reach the transactional insert.
		conflicted, err := s.Calendar.HasConflict(ctx, req.CoachID, req.StartTime, req.StartTime.Add(time.Duration(duration)*time.Minute))
		if err != nil {
			return nil, err
		}
		if conflicted {
			return nil, NewConflictError(CodeSlotUnavailable, "slot is no longer free")
		}
	}

	appt := &models.Appointment{
		ID:        uuid.New().String(),
		CoachID:   req.CoachID,
		LeadID:    req.LeadID,
		StartTime: req.StartTime,
		Duration:  duration,
		TimeZone:  av.TimeZone,
		Status:    models.StatusBooked,
		Pooled:    capacity > 1,
		Notes:     req.Notes,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	// Persisted: atomic capacity check and insert.
	if err := s.Appointments.InsertIfFree(ctx, appt, capacity); err != nil {
		if errors.Is(err, appointmentRepo.ErrSlotTaken) {
			if capacity > 1 {
				return nil, NewConflictError(CodeCapacityExhausted, "slot capacity exhausted")
			}
			return nil, NewConflictError(CodeSlotUnavailable, "slot was booked by another request")
		}
		return nil, err
	}

	result := &BookingResult{Appointment: appt}

	// Assigned: automatic assignment is best-effort; the appointment stays
	// unassigned when no staff is eligible.
	if av.Policy != nil && av.Policy.Enabled && av.Policy.Mode == models.AssignmentAutomatic {
		s.runAssignment(ctx, appt, result)
	}

	s.dispatchSideEffects(ctx, appt, result)

	s.Logger.Info("appointment booked",
		zap.String("appointmentId", appt.ID),
		zap.String("coachId", appt.CoachID),
		zap.Time("startTime", appt.StartTime),
		zap.Bool("assigned", result.Assigned),
		zap.Int("warnings", len(result.Warnings)))

	return result, nil
}

// slotGoneError distinguishes, for the message only, a slot that was offered
// earlier in this session and raced away from one that was never offered.
// Both are conflicts; the caller re-fetches slots either way.
func (s *DefaultBookingService) slotGoneError(ctx context.Context, req BookRequest, date string) error {
	if req.SessionID != "" && s.Sessions != nil {
		sess, err := s.Sessions.Get(ctx, req.SessionID)
		if err == nil && sess != nil && sess.Date == date {
			for _, sl := range sess.Slots {
				if sl.StartTime.Equal(req.StartTime) {
					return NewConflictError(CodeSlotUnavailable, "slot was taken after it was offered; re-fetch available slots")
				}
			}
		}
	}
	return NewConflictError(CodeSlotUnavailable, "requested time is not an offered slot for that date")
}

func (s *DefaultBookingService) runAssignment(ctx context.Context, appt *models.Appointment, result *BookingResult) {
	res, err := s.Assigner.AssignAppointment(ctx, appt)
	if err != nil {
		var noStaff *assignment.NoStaffError
		if errors.As(err, &noStaff) {
			result.Assigned = false
			result.AssignmentReason = noStaff.Reason
			return
		}
		// Assignment errors never fail the booking.
		result.Warnings = append(result.Warnings, fmt.Sprintf("assignment failed: %v", err))
		return
	}
	result.Assigned = true
	result.Assignment = res
}

// dispatchSideEffects asks the external collaborators to act on the committed
// booking. Every failure is absorbed into the warnings list: the booking is
// already committed and is backfilled out of band, never rolled back.
func (s *DefaultBookingService) dispatchSideEffects(ctx context.Context, appt *models.Appointment, result *BookingResult) {
	ownerID := appt.CoachID
	if appt.AssignedStaffID != "" {
		ownerID = appt.AssignedStaffID
	}

	mctx, cancel := context.WithTimeout(ctx, sideEffectTimeout)
	defer cancel()

	hasCreds, err := s.Meetings.HasValidCredentials(mctx, ownerID)
	switch {
	case err != nil:
		result.Warnings = append(result.Warnings, fmt.Sprintf("meeting credentials check failed: %v", err))
	case !hasCreds:
		result.Warnings = append(result.Warnings, "meeting link skipped: owner has no valid meeting credentials")
	default:
		details, err := s.Meetings.CreateMeeting(mctx, appt.ID, ownerID)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("meeting creation failed: %v", err))
		} else {
			result.Meeting = details
			appt.MeetingJoinURL = details.JoinURL
			if err := s.Appointments.SetMeetingJoinURL(ctx, appt.ID, details.JoinURL); err != nil {
				s.Logger.Warn("failed to store meeting link", zap.String("appointmentId", appt.ID), zap.Error(err))
			}
		}
	}

	rctx, rcancel := context.WithTimeout(ctx, sideEffectTimeout)
	defer rcancel()
	reminders, err := s.Reminders.ScheduleReminders(rctx, appt.ID, appt.CoachID)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("reminder scheduling failed: %v", err))
	} else {
		result.Reminders = reminders
	}

	if err := s.Events.Publish(ctx, models.AppointmentEvent{
		Type:            models.EventAppointmentBooked,
		AppointmentID:   appt.ID,
		LeadID:          appt.LeadID,
		CoachID:         appt.CoachID,
		AssignedStaffID: appt.AssignedStaffID,
	}); err != nil {
		s.Logger.Warn("failed to publish booked event", zap.String("appointmentId", appt.ID), zap.Error(err))
	}
}

// Reschedule re-runs validation against the new interval before mutating the
// appointment. Assignment and side effects are not re-run; the meeting and
// reminder collaborators expose their own reschedule interfaces.
func (s *DefaultBookingService) Reschedule(ctx context.Context, appointmentID string, newStart time.Time, newDuration int) (*models.Appointment, error) {
	appt, err := s.Appointments.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, calendar.NewNotFoundError("appointment", appointmentID)
		}
		return nil, err
	}
	if appt.Terminal() {
		return nil, calendar.NewValidationError("cannot reschedule a %s appointment", appt.Status)
	}
	if newStart.IsZero() {
		return nil, calendar.NewValidationError("newStartTime is required")
	}
	if newDuration == 0 {
		newDuration = appt.Duration
	}
	if newDuration < 0 {
		return nil, calendar.NewValidationError("newDuration must not be negative")
	}
	newEnd := newStart.Add(time.Duration(newDuration) * time.Minute)

	av, err := s.Calendar.GetAvailability(ctx, appt.CoachID)
	if err != nil {
		return nil, err
	}
	loc, err := time.LoadLocation(av.TimeZone)
	if err != nil {
		return nil, calendar.NewValidationError("invalid timeZone %q", av.TimeZone)
	}

	// Slot membership for the new time, unless only the duration changes.
	if !newStart.Equal(appt.StartTime) {
		date := newStart.In(loc).Format("2006-01-02")
		slots, err := s.Calendar.AvailableSlots(ctx, appt.CoachID, date)
		if err != nil {
			return nil, err
		}
		if findSlot(slots, newStart) == nil {
			return nil, NewConflictError(CodeSlotUnavailable, "new time is not an offered slot for that date")
		}
	}

	// Conflict re-check, excluding this appointment's own interval.
	conflicted, err := s.Calendar.HasConflictExcluding(ctx, appt.CoachID, newStart, newEnd, appt.ID)
	if err != nil {
		return nil, err
	}
	if conflicted && !appt.Pooled {
		return nil, NewConflictError(CodeSlotUnavailable, "new time conflicts with the coach calendar")
	}
	if appt.AssignedStaffID != "" {
		staffConflicted, err := s.Calendar.HasConflictExcluding(ctx, appt.AssignedStaffID, newStart, newEnd, appt.ID)
		if err != nil {
			return nil, err
		}
		if staffConflicted {
			return nil, NewConflictError(CodeStaffConflict, "assigned staff is not free at the new time")
		}
	}

	if err := s.Appointments.UpdateSchedule(ctx, appt.ID, newStart, newDuration); err != nil {
		return nil, err
	}

	s.Logger.Info("appointment rescheduled",
		zap.String("appointmentId", appt.ID),
		zap.Time("newStartTime", newStart),
		zap.Int("newDuration", newDuration))

	return s.Appointments.GetByID(ctx, appt.ID)
}

// Cancel marks the appointment cancelled, releasing its interval for future
// slot generation and conflict checks. The record itself is retained.
func (s *DefaultBookingService) Cancel(ctx context.Context, appointmentID string) error {
	appt, err := s.Appointments.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return calendar.NewNotFoundError("appointment", appointmentID)
		}
		return err
	}
	if appt.Status == models.StatusCancelled {
		return nil
	}
	if err := s.Appointments.UpdateStatus(ctx, appointmentID, models.StatusCancelled); err != nil {
		return err
	}
	s.Logger.Info("appointment cancelled", zap.String("appointmentId", appointmentID))
	return nil
}

// ListAppointments returns the owner's appointments for one date, in the
// owner's timezone (UTC when the owner has no availability record).
func (s *DefaultBookingService) ListAppointments(ctx context.Context, ownerID, date string) ([]models.Appointment, error) {
	loc := time.UTC
	if av, err := s.Availability.GetByOwner(ctx, ownerID); err == nil && av != nil {
		if l, err := time.LoadLocation(av.TimeZone); err == nil {
			loc = l
		}
	}
	day, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return nil, calendar.NewValidationError("invalid date %q, expected YYYY-MM-DD", date)
	}
	return s.Appointments.ListForOwner(ctx, ownerID, day, day.AddDate(0, 0, 1))
}

func findSlot(slots []models.PooledSlot, start time.Time) *models.PooledSlot {
	for i := range slots {
		if slots[i].StartTime.Equal(start) {
			return &slots[i]
		}
	}
	return nil
}
