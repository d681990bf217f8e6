package booking

import (
	"context"
	"time"

	"github.com/pawfectpets/pawfect-api/internal/audit"
	domain "github.com/pawfectpets/pawfect-api/internal/domain/booking"
	"github.com/pawfectpets/pawfect-api/internal/domain/catalog"
	"github.com/pawfectpets/pawfect-api/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	UserID    uint
	ServiceID uint

	Date    time.Time
	Time    string
	EndDate *time.Time
	Notes   *string
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo  domain.Repository
	audit audit.Sink
	now   Clock
}

func NewCreateBooking(
	repo domain.Repository,
	audit audit.Sink,
	now Clock,
) *CreateBooking {
	return &CreateBooking{
		repo:  repo,
		audit: audit,
		now:   now,
	}
}

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*models.Booking, error) {

	svc, err := uc.repo.GetService(ctx, in.ServiceID)
	if err != nil {
		return nil, mapNotFound(err, errServiceNotFound)
	}

	if err := domain.ValidateNew(
		catalog.Category(svc.Category),
		in.Date,
		in.EndDate,
		uc.now(),
	); err != nil {
		return nil, err
	}

	b := &models.Booking{
		UserID:    in.UserID,
		ServiceID: svc.ID,
		Date:      in.Date,
		Time:      in.Time,
		EndDate:   in.EndDate,
		Status:    string(domain.InitialStatus()),
		Notes:     in.Notes,
	}

	if err := uc.repo.CreateBooking(ctx, b); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.UserID,
		Action:   "booking_created",
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]any{"serviceId": svc.ID},
	})

	return uc.repo.GetBookingForUser(ctx, b.ID, in.UserID)
}
