package booking

import (
	"context"

	"github.com/pawfectpets/pawfect-api/internal/audit"
	domain "github.com/pawfectpets/pawfect-api/internal/domain/booking"
	"github.com/pawfectpets/pawfect-api/internal/domain/catalog"
	"github.com/pawfectpets/pawfect-api/internal/models"
)

type RescheduleBooking struct {
	repo  domain.Repository
	audit audit.Sink
	now   Clock
}

func NewRescheduleBooking(
	repo domain.Repository,
	audit audit.Sink,
	now Clock,
) *RescheduleBooking {
	return &RescheduleBooking{
		repo:  repo,
		audit: audit,
		now:   now,
	}
}

func (uc *RescheduleBooking) Execute(
	ctx context.Context,
	userID uint,
	bookingID uint,
	ch domain.Reschedule,
) (*models.Booking, error) {

	b, err := uc.repo.GetBookingForUser(ctx, bookingID, userID)
	if err != nil {
		return nil, mapNotFound(err, errBookingNotFound)
	}

	if err := domain.ApplyReschedule(b, catalog.Category(b.Service.Category), ch, uc.now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "booking_rescheduled",
		Entity:   "booking",
		EntityID: &b.ID,
	})

	return uc.repo.GetBookingForUser(ctx, b.ID, userID)
}
