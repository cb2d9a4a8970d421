package assignment

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"coachdesk/models"
	"coachdesk/services/calendar"
)

type candidate struct {
	staffID string
	ratio   float64
	current int64
}

// pickByDeficit selects the candidate furthest below its proportional target
// share. For each candidate, expected = (totalAssigned+1) * ratio/totalRatio
// and deficit = expected - current; the maximum deficit wins, ties going to
// the first-encountered candidate. Over many assignments each staff member's
// share converges to ratio/totalRatio.
func pickByDeficit(cands []candidate) (candidate, float64) {
	var totalRatio float64
	var totalAssigned int64
	for _, c := range cands {
		totalRatio += c.ratio
		totalAssigned += c.current
	}

	best := 0
	bestDeficit := 0.0
	for i, c := range cands {
		expected := float64(totalAssigned+1) * (c.ratio / totalRatio)
		deficit := expected - float64(c.current)
		if i == 0 || deficit > bestDeficit {
			best = i
			bestDeficit = deficit
		}
	}
	return cands[best], totalRatio
}

// eligibleProfiles filters to active staff with a positive ratio, preserving
// repository order so tie-breaking stays deterministic.
func (e *DefaultEngine) eligibleProfiles(ctx context.Context, coachID string) ([]models.StaffDistributionProfile, error) {
	profiles, err := e.Staff.ListProfiles(ctx, coachID)
	if err != nil {
		return nil, fmt.Errorf("failed to load staff profiles: %w", err)
	}
	eligible := profiles[:0:0]
	for _, p := range profiles {
		if p.Active && p.DistributionRatio > 0 {
			eligible = append(eligible, p)
		}
	}
	if len(eligible) == 0 {
		return nil, NewNoStaffError(ReasonNoActiveStaff)
	}
	return eligible, nil
}

func (e *DefaultEngine) AssignAppointment(ctx context.Context, appt *models.Appointment) (*Result, error) {
	if appt.AssignedStaffID != "" {
		// One-time operation: never reassign.
		return &Result{StaffID: appt.AssignedStaffID}, nil
	}

	eligible, err := e.eligibleProfiles(ctx, appt.CoachID)
	if err != nil {
		return nil, err
	}

	// Keep only staff free at the requested interval, against their own
	// calendar (blackouts plus their existing appointments).
	var cands []candidate
	for _, p := range eligible {
		conflicted, err := e.Calendar.HasConflict(ctx, p.StaffID, appt.StartTime, appt.EndTime)
		if err != nil {
			return nil, fmt.Errorf("conflict check for staff %s failed: %w", p.StaffID, err)
		}
		if conflicted {
			continue
		}
		current, err := e.Appointments.CountAssignedToStaff(ctx, appt.CoachID, p.StaffID)
		if err != nil {
			return nil, err
		}
		cands = append(cands, candidate{staffID: p.StaffID, ratio: p.DistributionRatio, current: current})
	}
	if len(cands) == 0 {
		return nil, NewNoStaffError(ReasonNoStaffFreeAtSlot)
	}

	chosen, totalRatio := pickByDeficit(cands)

	updated, err := e.Appointments.AssignStaff(ctx, appt.ID, chosen.staffID)
	if err != nil {
		return nil, fmt.Errorf("failed to persist assignment: %w", err)
	}
	if !updated {
		// Lost a race with another assigner; report the winner.
		fresh, err := e.Appointments.GetByID(ctx, appt.ID)
		if err != nil {
			return nil, err
		}
		appt.AssignedStaffID = fresh.AssignedStaffID
		return &Result{StaffID: fresh.AssignedStaffID}, nil
	}

	appt.AssignedStaffID = chosen.staffID
	e.Logger.Info("appointment assigned",
		zap.String("appointmentId", appt.ID),
		zap.String("staffId", chosen.staffID),
		zap.Float64("ratio", chosen.ratio),
		zap.Int("considered", len(cands)))

	return &Result{
		StaffID:    chosen.staffID,
		Ratio:      chosen.ratio,
		TotalRatio: totalRatio,
		Considered: len(cands),
	}, nil
}

func (e *DefaultEngine) AssignLead(ctx context.Context, coachID, leadID string) (*Result, error) {
	lead, err := e.Leads.GetByID(ctx, leadID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lead %s: %w", leadID, err)
	}
	if lead.CoachID != coachID {
		return nil, calendar.NewValidationError("lead %s does not belong to coach %s", leadID, coachID)
	}
	if lead.AssignedTo != "" {
		return &Result{StaffID: lead.AssignedTo}, nil
	}

	eligible, err := e.eligibleProfiles(ctx, coachID)
	if err != nil {
		return nil, err
	}

	cands := make([]candidate, 0, len(eligible))
	for _, p := range eligible {
		current, err := e.Leads.CountAssignedToStaff(ctx, coachID, p.StaffID)
		if err != nil {
			return nil, err
		}
		cands = append(cands, candidate{staffID: p.StaffID, ratio: p.DistributionRatio, current: current})
	}

	chosen, totalRatio := pickByDeficit(cands)

	updated, err := e.Leads.AssignStaff(ctx, leadID, chosen.staffID)
	if err != nil {
		return nil, fmt.Errorf("failed to persist lead assignment: %w", err)
	}
	if !updated {
		fresh, err := e.Leads.GetByID(ctx, leadID)
		if err != nil {
			return nil, err
		}
		return &Result{StaffID: fresh.AssignedTo}, nil
	}

	e.Logger.Info("lead assigned",
		zap.String("leadId", leadID),
		zap.String("staffId", chosen.staffID),
		zap.Float64("ratio", chosen.ratio))

	return &Result{
		StaffID:    chosen.staffID,
		Ratio:      chosen.ratio,
		TotalRatio: totalRatio,
		Considered: len(cands),
	}, nil
}
