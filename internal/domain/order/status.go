package order

import "github.com/pawfectpets/pawfect-api/internal/httperr"

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func InitialStatus() Status {
	return StatusPending
}

// CanTransition allows settling a pending order once, and cancelling a
// completed one after a refund or chargeback.
func CanTransition(from, to Status) error {
	if from == to {
		return nil
	}
	if from == StatusPending && (to == StatusCompleted || to == StatusCancelled) {
		return nil
	}
	if from == StatusCompleted && to == StatusCancelled {
		return nil
	}
	return httperr.ErrValidation("invalid_state", "Order is already "+string(from))
}
