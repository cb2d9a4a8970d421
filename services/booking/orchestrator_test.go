package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	appointmentRepo "coachdesk/database/repository/appointment"
	"coachdesk/models"
	"coachdesk/services/assignment"
	"coachdesk/services/calendar"
	"coachdesk/services/reminder"
)

// fakeCalendar serves canned availability and slots; the orchestrator trusts
// the calendar service for membership and conflict answers.
type fakeCalendar struct {
	av         *models.Availability
	slots      []models.PooledSlot
	conflict   bool
	slotsErr   error
	conflictIn []string // owner IDs conflict checks were run for
}

func (f *fakeCalendar) GetAvailability(_ context.Context, ownerID string) (*models.Availability, error) {
	if f.av == nil {
		return nil, calendar.NewNotFoundError("availability for owner", ownerID)
	}
	return f.av, nil
}

func (f *fakeCalendar) SetAvailability(_ context.Context, _ *models.Availability) error { return nil }

func (f *fakeCalendar) AddBlackout(_ context.Context, _ string, _ models.BlackoutInterval) error {
	return nil
}

func (f *fakeCalendar) RemoveBlackout(_ context.Context, _, _ string) error { return nil }

func (f *fakeCalendar) AvailableSlots(_ context.Context, _, _ string) ([]models.PooledSlot, error) {
	return f.slots, f.slotsErr
}

func (f *fakeCalendar) HasConflict(_ context.Context, ownerID string, start, end time.Time) (bool, error) {
	return f.HasConflictExcluding(nil, ownerID, start, end, "")
}

func (f *fakeCalendar) HasConflictExcluding(_ context.Context, ownerID string, _, _ time.Time, _ string) (bool, error) {
	f.conflictIn = append(f.conflictIn, ownerID)
	return f.conflict, nil
}

type fakeApptRepo struct {
	appts        []models.Appointment
	insertErr    error
	lastCapacity int
}

func (r *fakeApptRepo) InsertIfFree(_ context.Context, appt *models.Appointment, capacity int) error {
	r.lastCapacity = capacity
	if r.insertErr != nil {
		return r.insertErr
	}
	r.appts = append(r.appts, *appt)
	return nil
}

func (r *fakeApptRepo) GetByID(_ context.Context, id string) (*models.Appointment, error) {
	for i := range r.appts {
		if r.appts[i].ID == id {
			return &r.appts[i], nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeApptRepo) FindOverlapping(_ context.Context, _ string, _, _ time.Time, _ string) ([]models.Appointment, error) {
	return nil, nil
}

func (r *fakeApptRepo) ListForOwner(_ context.Context, ownerID string, from, to time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for i := range r.appts {
		a := r.appts[i]
		if (a.CoachID == ownerID || a.AssignedStaffID == ownerID) && a.Overlaps(from, to) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeApptRepo) CountAssignedToStaff(_ context.Context, _, _ string) (int64, error) {
	return 0, nil
}

func (r *fakeApptRepo) AssignStaff(_ context.Context, id, staffID string) (bool, error) {
	for i := range r.appts {
		if r.appts[i].ID == id && r.appts[i].AssignedStaffID == "" {
			r.appts[i].AssignedStaffID = staffID
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeApptRepo) UpdateSchedule(_ context.Context, id string, start time.Time, duration int) error {
	for i := range r.appts {
		if r.appts[i].ID == id {
			r.appts[i].StartTime = start
			r.appts[i].Duration = duration
			r.appts[i].EndTime = start.Add(time.Duration(duration) * time.Minute)
			r.appts[i].Status = models.StatusRescheduled
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (r *fakeApptRepo) UpdateStatus(_ context.Context, id string, status models.AppointmentStatus) error {
	for i := range r.appts {
		if r.appts[i].ID == id {
			r.appts[i].Status = status
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (r *fakeApptRepo) SetMeetingJoinURL(_ context.Context, id, joinURL string) error {
	for i := range r.appts {
		if r.appts[i].ID == id {
			r.appts[i].MeetingJoinURL = joinURL
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (r *fakeApptRepo) EnsureIndexes() error { return nil }

type fakeAvailabilityRepo struct {
	av *models.Availability
}

func (r *fakeAvailabilityRepo) GetByOwner(_ context.Context, _ string) (*models.Availability, error) {
	return r.av, nil
}

func (r *fakeAvailabilityRepo) Upsert(_ context.Context, _ *models.Availability) error { return nil }

func (r *fakeAvailabilityRepo) AddBlackout(_ context.Context, _ string, _ models.BlackoutInterval) error {
	return nil
}

func (r *fakeAvailabilityRepo) RemoveBlackout(_ context.Context, _, _ string) error { return nil }

func (r *fakeAvailabilityRepo) EnsureIndexes() error { return nil }

type fakeAssigner struct {
	result *assignment.Result
	err    error
	repo   *fakeApptRepo
	calls  int
}

func (f *fakeAssigner) AssignAppointment(ctx context.Context, appt *models.Appointment) (*assignment.Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.repo != nil {
		if _, err := f.repo.AssignStaff(ctx, appt.ID, f.result.StaffID); err != nil {
			return nil, err
		}
	}
	appt.AssignedStaffID = f.result.StaffID
	return f.result, nil
}

func (f *fakeAssigner) AssignLead(_ context.Context, _, _ string) (*assignment.Result, error) {
	return f.result, f.err
}

type fakeMeetings struct {
	hasCreds  bool
	createErr error
	created   []string // owner IDs meetings were created for
}

func (f *fakeMeetings) HasValidCredentials(_ context.Context, _ string) (bool, error) {
	return f.hasCreds, nil
}

func (f *fakeMeetings) CreateMeeting(_ context.Context, _, ownerID string) (*models.MeetingDetails, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, ownerID)
	return &models.MeetingDetails{MeetingID: "m-1", JoinURL: "https://meet.example/m-1"}, nil
}

type fakeReminders struct {
	err   error
	calls int
}

func (f *fakeReminders) ScheduleReminders(_ context.Context, _, _ string) (*reminder.ScheduleResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &reminder.ScheduleResult{ScheduledCount: 3, TotalConfigured: 3}, nil
}

func (f *fakeReminders) SetOffsets(_ context.Context, _ string, _ []int) error { return nil }

func (f *fakeReminders) GetOffsets(_ context.Context, _ string) ([]int, error) {
	return models.DefaultReminderOffsets(), nil
}

type fakePublisher struct {
	events []models.AppointmentEvent
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, ev models.AppointmentEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, ev)
	return nil
}

var slotStart = time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

func coachAvailability(policy *models.AssignmentPolicy) *models.Availability {
	return &models.Availability{
		OwnerID:   "coach-1",
		OwnerType: models.OwnerTypeCoach,
		TimeZone:  "UTC",
		WorkingHours: []models.WorkingWindow{
			{Day: 1, Start: "09:00", End: "12:00"},
		},
		DefaultDuration: 60,
		Policy:          policy,
	}
}

func offeredSlot(start time.Time, capacity, available int) models.PooledSlot {
	return models.PooledSlot{
		Slot:      models.Slot{StartTime: start, Duration: 60, TimeZone: "UTC"},
		Capacity:  capacity,
		Booked:    capacity - available,
		Available: available,
	}
}

type fixture struct {
	svc       *DefaultBookingService
	cal       *fakeCalendar
	appts     *fakeApptRepo
	assigner  *fakeAssigner
	meetings  *fakeMeetings
	reminders *fakeReminders
	events    *fakePublisher
}

func newFixture(policy *models.AssignmentPolicy) *fixture {
	av := coachAvailability(policy)
	appts := &fakeApptRepo{}
	f := &fixture{
		cal: &fakeCalendar{
			av:    av,
			slots: []models.PooledSlot{offeredSlot(slotStart, 1, 1)},
		},
		appts:     appts,
		assigner:  &fakeAssigner{result: &assignment.Result{StaffID: "alice", Ratio: 2, TotalRatio: 3, Considered: 2}, repo: appts},
		meetings:  &fakeMeetings{hasCreds: true},
		reminders: &fakeReminders{},
		events:    &fakePublisher{},
	}
	f.svc = &DefaultBookingService{
		Calendar:     f.cal,
		Availability: &fakeAvailabilityRepo{av: av},
		Appointments: f.appts,
		Assigner:     f.assigner,
		Meetings:     f.meetings,
		Reminders:    f.reminders,
		Events:       f.events,
		Logger:       zap.NewNop(),
	}
	return f
}

func bookReq() BookRequest {
	return BookRequest{
		CoachID:   "coach-1",
		LeadID:    "lead-1",
		StartTime: slotStart,
		Duration:  60,
	}
}

func TestBookSuccess(t *testing.T) {
	f := newFixture(nil)

	result, err := f.svc.Book(context.Background(), bookReq())
	require.NoError(t, err)

	appt := result.Appointment
	assert.Equal(t, models.StatusBooked, appt.Status)
	assert.Equal(t, slotStart, appt.StartTime)
	assert.Equal(t, slotStart.Add(time.Hour), appt.EndTime)
	assert.False(t, appt.Pooled)
	assert.False(t, result.Assigned)
	assert.Empty(t, result.Warnings)

	// Side effects ran against the committed appointment.
	require.NotNil(t, result.Meeting)
	assert.Equal(t, []string{"coach-1"}, f.meetings.created)
	assert.Equal(t, "https://meet.example/m-1", f.appts.appts[0].MeetingJoinURL)
	require.NotNil(t, result.Reminders)
	assert.Equal(t, 3, result.Reminders.ScheduledCount)
	require.Len(t, f.events.events, 1)
	assert.Equal(t, models.EventAppointmentBooked, f.events.events[0].Type)
}

func TestBookDefaultsDurationFromAvailability(t *testing.T) {
	f := newFixture(nil)
	req := bookReq()
	req.Duration = 0

	result, err := f.svc.Book(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 60, result.Appointment.Duration)
}

func TestBookRejectsUnofferedSlot(t *testing.T) {
	f := newFixture(nil)
	req := bookReq()
	req.StartTime = slotStart.Add(30 * time.Minute)

	_, err := f.svc.Book(context.Background(), req)
	var cErr *ConflictError
	require.ErrorAs(t, err, &cErr)
	assert.Equal(t, CodeSlotUnavailable, cErr.Code)
	assert.Empty(t, f.appts.appts)
}

func TestBookRejectsMissingFields(t *testing.T) {
	f := newFixture(nil)

	req := bookReq()
	req.LeadID = ""
	_, err := f.svc.Book(context.Background(), req)
	var vErr *calendar.ValidationError
	assert.ErrorAs(t, err, &vErr)

	req = bookReq()
	req.StartTime = time.Time{}
	_, err = f.svc.Book(context.Background(), req)
	assert.ErrorAs(t, err, &vErr)
}

func TestBookConflictRecheckBeforeInsert(t *testing.T) {
	f := newFixture(nil)
	f.cal.conflict = true

	_, err := f.svc.Book(context.Background(), bookReq())
	var cErr *ConflictError
	require.ErrorAs(t, err, &cErr)
	assert.Equal(t, CodeSlotUnavailable, cErr.Code)
	assert.Empty(t, f.appts.appts)
}

func TestBookLosesInsertRace(t *testing.T) {
	f := newFixture(nil)
	f.appts.insertErr = appointmentRepo.ErrSlotTaken

	_, err := f.svc.Book(context.Background(), bookReq())
	var cErr *ConflictError
	require.ErrorAs(t, err, &cErr)
	assert.Equal(t, CodeSlotUnavailable, cErr.Code)
}

func TestBookPooledCapacityExhausted(t *testing.T) {
	policy := &models.AssignmentPolicy{
		Enabled:                    true,
		Mode:                       models.AssignmentAutomatic,
		ConsiderStaffAvailability:  true,
		AllowMultipleStaffSameSlot: true,
	}
	f := newFixture(policy)
	f.cal.slots = []models.PooledSlot{offeredSlot(slotStart, 3, 1)}
	f.appts.insertErr = appointmentRepo.ErrSlotTaken

	_, err := f.svc.Book(context.Background(), bookReq())
	var cErr *ConflictError
	require.ErrorAs(t, err, &cErr)
	assert.Equal(t, CodeCapacityExhausted, cErr.Code)
	assert.Equal(t, 3, f.appts.lastCapacity)
}

func TestBookPooledMarksAppointment(t *testing.T) {
	policy := &models.AssignmentPolicy{
		Enabled:                    true,
		Mode:                       models.AssignmentAutomatic,
		ConsiderStaffAvailability:  true,
		AllowMultipleStaffSameSlot: true,
	}
	f := newFixture(policy)
	f.cal.slots = []models.PooledSlot{offeredSlot(slotStart, 3, 2)}

	result, err := f.svc.Book(context.Background(), bookReq())
	require.NoError(t, err)
	assert.True(t, result.Appointment.Pooled)
	assert.Equal(t, 3, f.appts.lastCapacity)
}

func TestBookAutoAssigns(t *testing.T) {
	policy := &models.AssignmentPolicy{Enabled: true, Mode: models.AssignmentAutomatic}
	f := newFixture(policy)

	result, err := f.svc.Book(context.Background(), bookReq())
	require.NoError(t, err)
	assert.True(t, result.Assigned)
	assert.Equal(t, "alice", result.Assignment.StaffID)
	// Meeting goes to the assigned staff member's account.
	assert.Equal(t, []string{"alice"}, f.meetings.created)
}

func TestBookManualModeSkipsAssignment(t *testing.T) {
	policy := &models.AssignmentPolicy{Enabled: true, Mode: models.AssignmentManual}
	f := newFixture(policy)

	result, err := f.svc.Book(context.Background(), bookReq())
	require.NoError(t, err)
	assert.False(t, result.Assigned)
	assert.Equal(t, 0, f.assigner.calls)
}

func TestBookSucceedsWhenNoStaffAvailable(t *testing.T) {
	policy := &models.AssignmentPolicy{Enabled: true, Mode: models.AssignmentAutomatic}
	f := newFixture(policy)
	f.assigner.err = assignment.NewNoStaffError(assignment.ReasonNoStaffFreeAtSlot)

	result, err := f.svc.Book(context.Background(), bookReq())
	require.NoError(t, err)
	assert.False(t, result.Assigned)
	assert.Equal(t, assignment.ReasonNoStaffFreeAtSlot, result.AssignmentReason)
	require.Len(t, f.appts.appts, 1)
}

func TestBookIntegrationFailuresBecomeWarnings(t *testing.T) {
	f := newFixture(nil)
	f.meetings.createErr = errors.New("zoom is down")
	f.reminders.err = errors.New("queue unreachable")
	f.events.err = errors.New("redis unreachable")

	result, err := f.svc.Book(context.Background(), bookReq())
	require.NoError(t, err)
	assert.Len(t, result.Warnings, 2)
	assert.Nil(t, result.Meeting)
	assert.Nil(t, result.Reminders)
	// The booking itself is committed regardless.
	require.Len(t, f.appts.appts, 1)
	assert.Equal(t, models.StatusBooked, f.appts.appts[0].Status)
}

func TestBookNoCredentialsSkipsMeeting(t *testing.T) {
	f := newFixture(nil)
	f.meetings.hasCreds = false

	result, err := f.svc.Book(context.Background(), bookReq())
	require.NoError(t, err)
	assert.Nil(t, result.Meeting)
	assert.Len(t, result.Warnings, 1)
	assert.Empty(t, f.meetings.created)
}

func TestRescheduleSuccess(t *testing.T) {
	f := newFixture(nil)
	newStart := slotStart.Add(time.Hour)
	f.cal.slots = []models.PooledSlot{offeredSlot(slotStart, 1, 1), offeredSlot(newStart, 1, 1)}

	booked, err := f.svc.Book(context.Background(), bookReq())
	require.NoError(t, err)

	appt, err := f.svc.Reschedule(context.Background(), booked.Appointment.ID, newStart, 0)
	require.NoError(t, err)
	assert.Equal(t, newStart, appt.StartTime)
	assert.Equal(t, newStart.Add(time.Hour), appt.EndTime)
	assert.Equal(t, models.StatusRescheduled, appt.Status)
}

func TestRescheduleUnknownAppointment(t *testing.T) {
	f := newFixture(nil)

	_, err := f.svc.Reschedule(context.Background(), "nope", slotStart, 0)
	var nfErr *calendar.NotFoundError
	assert.ErrorAs(t, err, &nfErr)
}

func TestRescheduleTerminalAppointmentRejected(t *testing.T) {
	f := newFixture(nil)
	booked, err := f.svc.Book(context.Background(), bookReq())
	require.NoError(t, err)
	require.NoError(t, f.svc.Cancel(context.Background(), booked.Appointment.ID))

	_, err = f.svc.Reschedule(context.Background(), booked.Appointment.ID, slotStart.Add(time.Hour), 0)
	var vErr *calendar.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestRescheduleConflictLeavesOriginal(t *testing.T) {
	f := newFixture(nil)
	newStart := slotStart.Add(time.Hour)
	f.cal.slots = []models.PooledSlot{offeredSlot(slotStart, 1, 1), offeredSlot(newStart, 1, 1)}

	booked, err := f.svc.Book(context.Background(), bookReq())
	require.NoError(t, err)

	f.cal.conflict = true
	_, err = f.svc.Reschedule(context.Background(), booked.Appointment.ID, newStart, 0)
	var cErr *ConflictError
	require.ErrorAs(t, err, &cErr)

	// Original schedule intact.
	current, err := f.appts.GetByID(context.Background(), booked.Appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, slotStart, current.StartTime)
	assert.Equal(t, models.StatusBooked, current.Status)
}

func TestRescheduleChecksAssignedStaffCalendar(t *testing.T) {
	policy := &models.AssignmentPolicy{Enabled: true, Mode: models.AssignmentAutomatic}
	f := newFixture(policy)
	newStart := slotStart.Add(time.Hour)
	f.cal.slots = []models.PooledSlot{offeredSlot(slotStart, 1, 1), offeredSlot(newStart, 1, 1)}

	booked, err := f.svc.Book(context.Background(), bookReq())
	require.NoError(t, err)
	require.True(t, booked.Assigned)

	f.cal.conflictIn = nil
	_, err = f.svc.Reschedule(context.Background(), booked.Appointment.ID, newStart, 0)
	require.NoError(t, err)
	assert.Contains(t, f.cal.conflictIn, "coach-1")
	assert.Contains(t, f.cal.conflictIn, "alice")
}

func TestCancelReleasesInterval(t *testing.T) {
	f := newFixture(nil)
	booked, err := f.svc.Book(context.Background(), bookReq())
	require.NoError(t, err)

	require.NoError(t, f.svc.Cancel(context.Background(), booked.Appointment.ID))
	current, err := f.appts.GetByID(context.Background(), booked.Appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, current.Status)
	assert.False(t, current.Blocking())

	// Cancelling again is a no-op.
	require.NoError(t, f.svc.Cancel(context.Background(), booked.Appointment.ID))
}

func TestCancelUnknownAppointment(t *testing.T) {
	f := newFixture(nil)
	err := f.svc.Cancel(context.Background(), "nope")
	var nfErr *calendar.NotFoundError
	assert.ErrorAs(t, err, &nfErr)
}

func TestListAppointmentsForDate(t *testing.T) {
	f := newFixture(nil)
	_, err := f.svc.Book(context.Background(), bookReq())
	require.NoError(t, err)

	appts, err := f.svc.ListAppointments(context.Background(), "coach-1", "2025-06-02")
	require.NoError(t, err)
	assert.Len(t, appts, 1)

	appts, err = f.svc.ListAppointments(context.Background(), "coach-1", "2025-06-03")
	require.NoError(t, err)
	assert.Empty(t, appts)

	_, err = f.svc.ListAppointments(context.Background(), "coach-1", "junk")
	var vErr *calendar.ValidationError
	assert.ErrorAs(t, err, &vErr)
}
