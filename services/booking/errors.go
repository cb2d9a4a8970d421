package booking

import "fmt"

// Conflict codes.
const (
	CodeSlotUnavailable   = "slot_unavailable"
	CodeCapacityExhausted = "capacity_exhausted"
	CodeStaffConflict     = "staff_conflict"
)

// ConflictError means the requested interval is no longer bookable. The caller
// must re-fetch slots and retry.
type ConflictError struct {
	Code    string
	Message string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewConflictError(code, msg string) error {
	return &ConflictError{Code: code, Message: msg}
}
