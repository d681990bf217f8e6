package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawfectpets/pawfect-api/internal/domain/catalog"
	"github.com/pawfectpets/pawfect-api/internal/httperr"
	"github.com/pawfectpets/pawfect-api/internal/models"
)

var now = time.Date(2030, 1, 10, 12, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func TestValidateNewRejectsNonFutureDates(t *testing.T) {
	for _, cat := range catalog.Categories() {
		for _, d := range []time.Time{now, now.Add(-time.Second), now.AddDate(0, 0, -3)} {
			err := ValidateNew(cat, d, ptr(d.AddDate(0, 0, 2)), now)
			assert.True(t, httperr.IsBusiness(err, "booking_date_in_past"), "%s %s", cat, d)
		}
	}
}

func TestValidateNewBoardingRange(t *testing.T) {
	start := now.AddDate(0, 0, 1)

	err := ValidateNew(catalog.CategoryBoarding, start, nil, now)
	assert.True(t, httperr.IsBusiness(err, "end_date_required"))

	for _, end := range []time.Time{start, start.Add(-time.Hour), start.AddDate(0, 0, -1)} {
		err := ValidateNew(catalog.CategoryBoarding, start, ptr(end), now)
		assert.True(t, httperr.IsBusiness(err, "end_date_not_after_start"), end)
	}

	for _, end := range []time.Time{start.Add(time.Second), start.AddDate(0, 0, 3)} {
		assert.NoError(t, ValidateNew(catalog.CategoryBoarding, start, ptr(end), now))
	}
}

func TestValidateNewNonBoardingAcceptsAnyEndDate(t *testing.T) {
	start := now.AddDate(0, 0, 1)
	ends := []*time.Time{nil, ptr(start), ptr(start.AddDate(0, 0, -5)), ptr(start.AddDate(0, 0, 5))}

	for _, cat := range catalog.Categories() {
		if cat == catalog.CategoryBoarding {
			continue
		}
		for _, end := range ends {
			assert.NoError(t, ValidateNew(cat, start, end, now), cat)
		}
	}
}

func TestApplyRescheduleOnlyTouchesSuppliedFields(t *testing.T) {
	start := now.AddDate(0, 0, 2)
	b := &models.Booking{Date: start, Time: "10:00", EndDate: ptr(start.AddDate(0, 0, 1)), Status: "pending"}

	require.NoError(t, ApplyReschedule(b, catalog.CategoryWalking, Reschedule{Time: ptr("11:30")}, now))

	assert.Equal(t, start, b.Date)
	assert.Equal(t, "11:30", b.Time)
	require.NotNil(t, b.EndDate)
	assert.Equal(t, start.AddDate(0, 0, 1), *b.EndDate)
}

func TestApplyRescheduleRejectsPastDate(t *testing.T) {
	start := now.AddDate(0, 0, 2)
	b := &models.Booking{Date: start, Time: "10:00"}

	err := ApplyReschedule(b, catalog.CategoryGrooming, Reschedule{Date: ptr(now.Add(-time.Minute)), Time: ptr("09:00")}, now)

	assert.True(t, httperr.IsBusiness(err, "booking_date_in_past"))
	assert.Equal(t, start, b.Date)
	assert.Equal(t, "10:00", b.Time)
}

func TestApplyRescheduleBoardingComparesAgainstEffectiveDate(t *testing.T) {
	start := now.AddDate(0, 0, 2)
	end := start.AddDate(0, 0, 3)

	// end compared with the stored date
	b := &models.Booking{Date: start, EndDate: ptr(end)}
	err := ApplyReschedule(b, catalog.CategoryBoarding, Reschedule{EndDateSet: true, EndDate: ptr(start)}, now)
	assert.True(t, httperr.IsBusiness(err, "end_date_not_after_start"))

	// end compared with the new date
	b = &models.Booking{Date: start, EndDate: ptr(end)}
	newStart := start.AddDate(0, 0, 5)
	err = ApplyReschedule(b, catalog.CategoryBoarding, Reschedule{Date: ptr(newStart), EndDateSet: true, EndDate: ptr(newStart.AddDate(0, 0, -1))}, now)
	assert.True(t, httperr.IsBusiness(err, "end_date_not_after_start"))

	b = &models.Booking{Date: start, EndDate: ptr(end)}
	err = ApplyReschedule(b, catalog.CategoryBoarding, Reschedule{Date: ptr(newStart), EndDateSet: true, EndDate: ptr(newStart.AddDate(0, 0, 2))}, now)
	require.NoError(t, err)
	assert.Equal(t, newStart, b.Date)
	assert.Equal(t, newStart.AddDate(0, 0, 2), *b.EndDate)
}

func TestApplyRescheduleBoardingDateMovedPastStoredEnd(t *testing.T) {
	start := now.AddDate(0, 0, 2)
	b := &models.Booking{Date: start, EndDate: ptr(start.AddDate(0, 0, 1))}

	err := ApplyReschedule(b, catalog.CategoryBoarding, Reschedule{Date: ptr(start.AddDate(0, 0, 4))}, now)

	assert.True(t, httperr.IsBusiness(err, "end_date_not_after_start"))
	assert.Equal(t, start, b.Date)
}

func TestApplyRescheduleBoardingCannotClearEndDate(t *testing.T) {
	start := now.AddDate(0, 0, 2)
	b := &models.Booking{Date: start, EndDate: ptr(start.AddDate(0, 0, 1))}

	err := ApplyReschedule(b, catalog.CategoryBoarding, Reschedule{EndDateSet: true}, now)

	assert.True(t, httperr.IsBusiness(err, "end_date_required"))
	assert.NotNil(t, b.EndDate)
}

func TestApplyRescheduleNonBoardingClearsEndDate(t *testing.T) {
	start := now.AddDate(0, 0, 2)
	b := &models.Booking{Date: start, EndDate: ptr(start.AddDate(0, 0, 1))}

	require.NoError(t, ApplyReschedule(b, catalog.CategoryTraining, Reschedule{EndDateSet: true}, now))
	assert.Nil(t, b.EndDate)
}

func TestCancelIsIdempotent(t *testing.T) {
	b := &models.Booking{Status: string(StatusPending)}

	Cancel(b)
	assert.Equal(t, string(StatusCancelled), b.Status)

	Cancel(b)
	assert.Equal(t, string(StatusCancelled), b.Status)
}

func TestCanTransition(t *testing.T) {
	assert.NoError(t, CanTransition(StatusPending, StatusConfirmed))
	assert.NoError(t, CanTransition(StatusConfirmed, StatusCompleted))
	assert.NoError(t, CanTransition(StatusCancelled, StatusCancelled))
	assert.Error(t, CanTransition(StatusCompleted, StatusPending))
	assert.Error(t, CanTransition(StatusCancelled, StatusConfirmed))
	assert.Error(t, CanTransition(StatusConfirmed, StatusPending))
}
