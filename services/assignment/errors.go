package assignment

import "fmt"

// Reason codes for NoStaffError.
const (
	ReasonNoActiveStaff     = "no_active_staff"
	ReasonNoStaffFreeAtSlot = "no_staff_available_for_slot"
)

// NoStaffError signals that no eligible staff could receive the assignment.
// It is not fatal: the appointment or lead simply stays unassigned.
type NoStaffError struct {
	Reason string
}

func (e *NoStaffError) Error() string {
	return fmt.Sprintf("assignment unavailable: %s", e.Reason)
}

func NewNoStaffError(reason string) error {
	return &NoStaffError{Reason: reason}
}
