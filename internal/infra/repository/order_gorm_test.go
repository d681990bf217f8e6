package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/pawfectpets/pawfect-api/internal/domain/order"
	"github.com/pawfectpets/pawfect-api/internal/models"
	"github.com/pawfectpets/pawfect-api/internal/testutil"
)

func TestDecrementStockRefusesToGoNegative(t *testing.T) {
	gdb := testutil.NewDB(t)
	repo := NewOrderGormRepository(gdb)
	p := testutil.CreateProduct(t, gdb, "Leash", "10.00", 2)
	ctx := context.Background()

	ok, err := repo.DecrementStock(ctx, p.ID, 3)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 2, testutil.ReloadProduct(t, gdb, p.ID).Stock)

	ok, err = repo.DecrementStock(ctx, p.ID, 2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Zero(t, testutil.ReloadProduct(t, gdb, p.ID).Stock)

	ok, err = repo.DecrementStock(ctx, p.ID, 1)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, testutil.ReloadProduct(t, gdb, p.ID).Stock)

	require.NoError(t, repo.RestockProduct(ctx, p.ID, 4))
	assert.Equal(t, 4, testutil.ReloadProduct(t, gdb, p.ID).Stock)
}

func TestUpdateOrderStatusOnlyFromExpectedStatus(t *testing.T) {
	gdb := testutil.NewDB(t)
	repo := NewOrderGormRepository(gdb)
	user := testutil.CreateUser(t, gdb, models.RoleUser)
	ctx := context.Background()

	o := &models.Order{UserID: user.ID, Total: decimal.RequireFromString("5.00"), Status: string(domain.StatusPending)}
	require.NoError(t, repo.CreateOrder(ctx, o))

	moved, err := repo.UpdateOrderStatus(ctx, o.ID, domain.StatusPending, domain.StatusCompleted)
	require.NoError(t, err)
	assert.True(t, moved)

	moved, err = repo.UpdateOrderStatus(ctx, o.ID, domain.StatusPending, domain.StatusCancelled)
	require.NoError(t, err)
	assert.False(t, moved)

	got, err := repo.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", got.Status)
}
