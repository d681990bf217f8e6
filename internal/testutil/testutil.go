// Package testutil provides an in-memory database and fixtures for package tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/pawfectpets/pawfect-api/internal/db"
	"github.com/pawfectpets/pawfect-api/internal/models"
)

var seq atomic.Int64

// NewDB returns a migrated in-memory SQLite database private to the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := db.Open(":memory:", gormlogger.Silent)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

func CreateUser(t *testing.T, gdb *gorm.DB, role string) *models.User {
	t.Helper()

	n := seq.Add(1)
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	u := &models.User{
		Username:     fmt.Sprintf("user%d", n),
		Email:        fmt.Sprintf("user%d@example.com", n),
		PasswordHash: string(hash),
		Role:         role,
	}
	require.NoError(t, gdb.Create(u).Error)
	return u
}

func CreateProduct(t *testing.T, gdb *gorm.DB, name, price string, stock int) *models.Product {
	t.Helper()

	p := &models.Product{
		Name:        name,
		Description: name + " description",
		Price:       decimal.RequireFromString(price),
		Category:    "Accessories",
		Stock:       stock,
	}
	require.NoError(t, gdb.Create(p).Error)
	return p
}

func CreateService(t *testing.T, gdb *gorm.DB, category, price string) *models.Service {
	t.Helper()

	s := &models.Service{
		Name:        "Service " + category,
		Description: category + " service",
		Price:       decimal.RequireFromString(price),
		Duration:    60,
		Category:    category,
	}
	require.NoError(t, gdb.Create(s).Error)
	return s
}

func ReloadProduct(t *testing.T, gdb *gorm.DB, id uint) *models.Product {
	t.Helper()

	var p models.Product
	require.NoError(t, gdb.First(&p, id).Error)
	return &p
}
