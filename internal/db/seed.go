package db

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pawfectpets/pawfect-api/internal/domain/catalog"
	"github.com/pawfectpets/pawfect-api/internal/models"
)

type seedUser struct {
	username, email, password, role string
}

var seedUsers = []seedUser{
	{"admin", "admin@pawfectpets.com", "admin123", models.RoleAdmin},
	{"testuser", "user@pawfectpets.com", "user123", models.RoleUser},
}

var seedProducts = []models.Product{
	{Name: "Premium Dog Food", Description: "High-quality nutritious dog food for all breeds. Contains essential vitamins and minerals.", Price: decimal.RequireFromString("49.99"), Category: "Food", Stock: 50},
	{Name: "Dog Leash", Description: "Durable nylon leash, perfect for daily walks. Available in multiple colors.", Price: decimal.RequireFromString("19.99"), Category: "Accessories", Stock: 100},
	{Name: "Dog Toy - Rope", Description: "Interactive rope toy for play and dental health. Great for fetch and tug-of-war.", Price: decimal.RequireFromString("12.99"), Category: "Toys", Stock: 75},
	{Name: "Dog Bed", Description: "Orthopedic memory foam bed with a washable cover.", Price: decimal.RequireFromString("79.99"), Category: "Furniture", Stock: 30},
	{Name: "Dog Collar", Description: "Adjustable padded collar with reflective stitching.", Price: decimal.RequireFromString("24.99"), Category: "Accessories", Stock: 80},
	{Name: "Dog Treats", Description: "Grain-free training treats in bite-size pieces.", Price: decimal.RequireFromString("15.99"), Category: "Food", Stock: 120},
}

var seedServices = []models.Service{
	{Name: "Dog Walking", Description: "30-minute neighbourhood walk with a certified walker.", Price: decimal.RequireFromString("25.00"), Duration: 30, Category: string(catalog.CategoryWalking)},
	{Name: "Dog Boarding", Description: "Overnight stay with play time, meals and a cosy bed.", Price: decimal.RequireFromString("50.00"), Duration: 1440, Category: string(catalog.CategoryBoarding)},
	{Name: "Dog Training", Description: "One-hour positive reinforcement training session.", Price: decimal.RequireFromString("75.00"), Duration: 60, Category: string(catalog.CategoryTraining)},
	{Name: "Dog Grooming", Description: "Bath, haircut, nail trim and ear cleaning.", Price: decimal.RequireFromString("60.00"), Duration: 90, Category: string(catalog.CategoryGrooming)},
	{Name: "Pet Sitting", Description: "In-home visit to feed, play with and check on your pet.", Price: decimal.RequireFromString("40.00"), Duration: 120, Category: string(catalog.CategoryPetSitting)},
}

// Seed replaces all data with the demo catalogue and accounts.
func Seed(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, m := range []any{
			&models.AuditLog{}, &models.Booking{}, &models.OrderItem{},
			&models.Order{}, &models.Service{}, &models.Product{}, &models.User{},
		} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
				return errors.Wrap(err, "truncate")
			}
		}

		for _, u := range seedUsers {
			hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
			if err != nil {
				return errors.Wrap(err, "hash password")
			}
			user := models.User{Username: u.username, Email: u.email, PasswordHash: string(hash), Role: u.role}
			if err := tx.Create(&user).Error; err != nil {
				return errors.Wrapf(err, "create user %s", u.username)
			}
		}

		products := append([]models.Product(nil), seedProducts...)
		if err := tx.Create(&products).Error; err != nil {
			return errors.Wrap(err, "create products")
		}

		services := append([]models.Service(nil), seedServices...)
		return errors.Wrap(tx.Create(&services).Error, "create services")
	})
}
