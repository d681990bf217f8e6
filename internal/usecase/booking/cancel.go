package booking

import (
	"context"

	"github.com/pawfectpets/pawfect-api/internal/audit"
	domain "github.com/pawfectpets/pawfect-api/internal/domain/booking"
	"github.com/pawfectpets/pawfect-api/internal/models"
)

type CancelBooking struct {
	repo  domain.Repository
	audit audit.Sink
}

func NewCancelBooking(
	repo domain.Repository,
	audit audit.Sink,
) *CancelBooking {
	return &CancelBooking{
		repo:  repo,
		audit: audit,
	}
}

func (uc *CancelBooking) Execute(
	ctx context.Context,
	userID uint,
	bookingID uint,
) (*models.Booking, error) {

	b, err := uc.repo.GetBookingForUser(ctx, bookingID, userID)
	if err != nil {
		return nil, mapNotFound(err, errBookingNotFound)
	}

	if b.Status == string(domain.StatusCancelled) {
		return b, nil
	}

	domain.Cancel(b)

	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "booking_cancelled",
		Entity:   "booking",
		EntityID: &b.ID,
	})

	return b, nil
}
