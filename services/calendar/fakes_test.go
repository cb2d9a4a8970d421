package calendar

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"coachdesk/models"
)

type fakeAvailabilityRepo struct {
	records map[string]*models.Availability
	upserts int
}

func newFakeAvailabilityRepo(avs ...*models.Availability) *fakeAvailabilityRepo {
	r := &fakeAvailabilityRepo{records: make(map[string]*models.Availability)}
	for _, av := range avs {
		r.records[av.OwnerID] = av
	}
	return r
}

func (r *fakeAvailabilityRepo) GetByOwner(_ context.Context, ownerID string) (*models.Availability, error) {
	return r.records[ownerID], nil
}

func (r *fakeAvailabilityRepo) Upsert(_ context.Context, av *models.Availability) error {
	r.records[av.OwnerID] = av
	r.upserts++
	return nil
}

func (r *fakeAvailabilityRepo) AddBlackout(_ context.Context, ownerID string, blackout models.BlackoutInterval) error {
	av, ok := r.records[ownerID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	av.Blackouts = append(av.Blackouts, blackout)
	return nil
}

func (r *fakeAvailabilityRepo) RemoveBlackout(_ context.Context, ownerID, blackoutID string) error {
	av, ok := r.records[ownerID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	kept := av.Blackouts[:0]
	for _, b := range av.Blackouts {
		if b.ID != blackoutID {
			kept = append(kept, b)
		}
	}
	av.Blackouts = kept
	return nil
}

func (r *fakeAvailabilityRepo) EnsureIndexes() error { return nil }

type fakeAppointmentRepo struct {
	appts []models.Appointment
}

func (r *fakeAppointmentRepo) InsertIfFree(_ context.Context, appt *models.Appointment, _ int) error {
	r.appts = append(r.appts, *appt)
	return nil
}

func (r *fakeAppointmentRepo) GetByID(_ context.Context, id string) (*models.Appointment, error) {
	for i := range r.appts {
		if r.appts[i].ID == id {
			return &r.appts[i], nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeAppointmentRepo) FindOverlapping(_ context.Context, ownerID string, start, end time.Time, excludeID string) ([]models.Appointment, error) {
	var out []models.Appointment
	for i := range r.appts {
		a := r.appts[i]
		if a.ID == excludeID || !a.Blocking() {
			continue
		}
		if a.CoachID != ownerID && a.AssignedStaffID != ownerID {
			continue
		}
		if a.Overlaps(start, end) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) ListForOwner(_ context.Context, ownerID string, from, to time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for i := range r.appts {
		a := r.appts[i]
		if a.CoachID != ownerID && a.AssignedStaffID != ownerID {
			continue
		}
		if a.Overlaps(from, to) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) CountAssignedToStaff(_ context.Context, coachID, staffID string) (int64, error) {
	var n int64
	for i := range r.appts {
		a := r.appts[i]
		if a.CoachID == coachID && a.AssignedStaffID == staffID && a.Blocking() {
			n++
		}
	}
	return n, nil
}

func (r *fakeAppointmentRepo) AssignStaff(_ context.Context, id, staffID string) (bool, error) {
	for i := range r.appts {
		if r.appts[i].ID == id {
			if r.appts[i].AssignedStaffID != "" {
				return false, nil
			}
			r.appts[i].AssignedStaffID = staffID
			return true, nil
		}
	}
	return false, mongo.ErrNoDocuments
}

func (r *fakeAppointmentRepo) UpdateSchedule(_ context.Context, id string, start time.Time, duration int) error {
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

func (r *fakeAppointmentRepo) UpdateStatus(_ context.Context, id string, status models.AppointmentStatus) error {
	for i := range r.appts {
		if r.appts[i].ID == id {
			r.appts[i].Status = status
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (r *fakeAppointmentRepo) SetMeetingJoinURL(_ context.Context, id, joinURL string) error {
	for i := range r.appts {
		if r.appts[i].ID == id {
			r.appts[i].MeetingJoinURL = joinURL
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (r *fakeAppointmentRepo) EnsureIndexes() error { return nil }

type fakeStaffRepo struct {
	profiles []models.StaffDistributionProfile
}

func (r *fakeStaffRepo) ListProfiles(_ context.Context, coachID string) ([]models.StaffDistributionProfile, error) {
	var out []models.StaffDistributionProfile
	for _, p := range r.profiles {
		if p.CoachID == coachID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeStaffRepo) GetProfileByStaff(_ context.Context, staffID string) (*models.StaffDistributionProfile, error) {
	for i := range r.profiles {
		if r.profiles[i].StaffID == staffID {
			return &r.profiles[i], nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeStaffRepo) UpsertProfile(_ context.Context, profile *models.StaffDistributionProfile) error {
	for i := range r.profiles {
		if r.profiles[i].CoachID == profile.CoachID && r.profiles[i].StaffID == profile.StaffID {
			r.profiles[i] = *profile
			return nil
		}
	}
	r.profiles = append(r.profiles, *profile)
	return nil
}

func (r *fakeStaffRepo) CountActive(_ context.Context, coachID string) (int64, error) {
	var n int64
	for _, p := range r.profiles {
		if p.CoachID == coachID && p.Active {
			n++
		}
	}
	return n, nil
}

func (r *fakeStaffRepo) EnsureIndexes() error { return nil }
