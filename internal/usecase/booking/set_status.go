package booking

import (
	"context"

	"github.com/pawfectpets/pawfect-api/internal/audit"
	domain "github.com/pawfectpets/pawfect-api/internal/domain/booking"
	"github.com/pawfectpets/pawfect-api/internal/httperr"
	"github.com/pawfectpets/pawfect-api/internal/models"
)

// SetBookingStatus is the administrative confirm/complete/cancel action.
type SetBookingStatus struct {
	repo  domain.Repository
	audit audit.Sink
}

func NewSetBookingStatus(
	repo domain.Repository,
	audit audit.Sink,
) *SetBookingStatus {
	return &SetBookingStatus{
		repo:  repo,
		audit: audit,
	}
}

func (uc *SetBookingStatus) Execute(
	ctx context.Context,
	adminID uint,
	bookingID uint,
	status string,
) (*models.Booking, error) {

	if !domain.IsValidStatus(status) {
		return nil, httperr.ErrValidation("invalid_status", "Invalid booking status")
	}

	b, err := uc.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, mapNotFound(err, errBookingNotFound)
	}

	from := domain.Status(b.Status)
	if err := domain.CanTransition(from, domain.Status(status)); err != nil {
		return nil, err
	}

	b.Status = status
	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &adminID,
		Action:   "booking_" + status,
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]any{"from": from},
	})

	return b, nil
}
