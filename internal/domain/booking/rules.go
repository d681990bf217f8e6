package booking

import (
	"time"

	"github.com/pawfectpets/pawfect-api/internal/domain/catalog"
	"github.com/pawfectpets/pawfect-api/internal/httperr"
	"github.com/pawfectpets/pawfect-api/internal/models"
)

var (
	errDateNotFuture = httperr.ErrValidation("booking_date_in_past", "Booking date must be in the future")
	errEndRequired   = httperr.ErrValidation("end_date_required", "Boarding services require an end date")
	errEndNotAfter   = httperr.ErrValidation("end_date_not_after_start", "End date must be after start date")
)

// Reschedule carries a partial update. EndDateSet distinguishes an explicit
// null (clear) from an absent field.
type Reschedule struct {
	Date       *time.Time
	Time       *string
	EndDateSet bool
	EndDate    *time.Time
}

func ensureFuture(date, now time.Time) error {
	if !date.After(now) {
		return errDateNotFuture
	}
	return nil
}

func ensureRange(category catalog.Category, date time.Time, endDate *time.Time) error {
	if !catalog.RequiresEndDate(category) {
		return nil
	}
	if endDate == nil {
		return errEndRequired
	}
	if !endDate.After(date) {
		return errEndNotAfter
	}
	return nil
}

// ValidateNew checks a booking about to be created.
func ValidateNew(category catalog.Category, date time.Time, endDate *time.Time, now time.Time) error {
	if err := ensureFuture(date, now); err != nil {
		return err
	}
	return ensureRange(category, date, endDate)
}

// ApplyReschedule validates ch against b and mutates b only on success.
func ApplyReschedule(b *models.Booking, category catalog.Category, ch Reschedule, now time.Time) error {
	date := b.Date
	if ch.Date != nil {
		if err := ensureFuture(*ch.Date, now); err != nil {
			return err
		}
		date = *ch.Date
	}

	endDate := b.EndDate
	if ch.EndDateSet {
		endDate = ch.EndDate
	}

	// A moved start date must not overtake a boarding stay's stored end.
	if ch.EndDateSet || ch.Date != nil {
		if err := ensureRange(category, date, endDate); err != nil {
			return err
		}
	}

	b.Date = date
	b.EndDate = endDate
	if ch.Time != nil {
		b.Time = *ch.Time
	}
	return nil
}

// Cancel is idempotent: an already cancelled booking stays cancelled.
func Cancel(b *models.Booking) {
	b.Status = string(StatusCancelled)
}
