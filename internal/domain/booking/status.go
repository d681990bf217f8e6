package booking

import "github.com/pawfectpets/pawfect-api/internal/httperr"

// ===============================
// Booking Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func InitialStatus() Status {
	return StatusPending
}

func IsValidStatus(s string) bool {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// CanTransition is the administrative state machine. Owners only ever cancel,
// which bypasses it (see Cancel).
func CanTransition(from, to Status) error {
	if from == to {
		return nil
	}

	switch from {
	case StatusPending:
		if to == StatusConfirmed || to == StatusCompleted || to == StatusCancelled {
			return nil
		}
	case StatusConfirmed:
		if to == StatusCompleted || to == StatusCancelled {
			return nil
		}
	}

	return httperr.ErrValidation("invalid_state", "Booking cannot move from "+string(from)+" to "+string(to))
}
