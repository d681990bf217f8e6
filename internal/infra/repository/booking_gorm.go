package repository

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	domain "github.com/pawfectpets/pawfect-api/internal/domain/booking"
	"github.com/pawfectpets/pawfect-api/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *BookingGormRepository) GetService(
	ctx context.Context,
	serviceID uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).First(&svc, serviceID).Error; err != nil {
		return nil, errors.Wrapf(err, "get service %d", serviceID)
	}
	return &svc, nil
}

// --------------------------------------------------
// Booking
// --------------------------------------------------

func (r *BookingGormRepository) CreateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return errors.Wrap(r.db.WithContext(ctx).Omit("Service", "User").Create(b).Error, "create booking")
}

func (r *BookingGormRepository) GetBookingForUser(
	ctx context.Context,
	bookingID uint,
	userID uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Service").
		Where("id = ? AND user_id = ?", bookingID, userID).
		First(&b).Error; err != nil {
		return nil, errors.Wrapf(err, "get booking %d", bookingID)
	}
	return &b, nil
}

func (r *BookingGormRepository) GetBooking(
	ctx context.Context,
	bookingID uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Service").
		First(&b, bookingID).Error; err != nil {
		return nil, errors.Wrapf(err, "get booking %d", bookingID)
	}
	return &b, nil
}

func (r *BookingGormRepository) UpdateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	err := r.db.WithContext(ctx).
		Model(b).
		Select("date", "time", "end_date", "status", "notes").
		Updates(map[string]any{
			"date":     b.Date,
			"time":     b.Time,
			"end_date": b.EndDate,
			"status":   b.Status,
			"notes":    b.Notes,
		}).Error
	return errors.Wrapf(err, "update booking %d", b.ID)
}

func (r *BookingGormRepository) ListBookingsForUser(
	ctx context.Context,
	userID uint,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Service").
		Where("user_id = ?", userID).
		Order("date ASC").
		Order("id ASC").
		Find(&bookings).Error; err != nil {
		return nil, errors.Wrap(err, "list bookings")
	}
	return bookings, nil
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
