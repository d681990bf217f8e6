package booking

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/pawfectpets/pawfect-api/internal/httperr"
)

// Clock returns the instant a request is evaluated against.
type Clock func() time.Time

var (
	errBookingNotFound = httperr.ErrNotFound("booking_not_found", "Booking not found")
	errServiceNotFound = httperr.ErrNotFound("service_not_found", "Service not found")
)

func mapNotFound(err error, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return err
}
