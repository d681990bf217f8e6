package repository

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/pawfectpets/pawfect-api/internal/domain/order"
	"github.com/pawfectpets/pawfect-api/internal/models"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func (r *OrderGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&OrderGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Product
// --------------------------------------------------

func (r *OrderGormRepository) GetProductForUpdate(
	ctx context.Context,
	productID uint,
) (*models.Product, error) {

	var p models.Product
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&p, productID).Error; err != nil {
		return nil, errors.Wrapf(err, "get product %d", productID)
	}
	return &p, nil
}

func (r *OrderGormRepository) DecrementStock(
	ctx context.Context,
	productID uint,
	quantity int,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return false, errors.Wrapf(res.Error, "decrement stock %d", productID)
	}
	return res.RowsAffected == 1, nil
}

func (r *OrderGormRepository) RestockProduct(
	ctx context.Context,
	productID uint,
	quantity int,
) error {
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock", gorm.Expr("stock + ?", quantity)).Error
	return errors.Wrapf(err, "restock product %d", productID)
}

// --------------------------------------------------
// Order
// --------------------------------------------------

func (r *OrderGormRepository) CreateOrder(
	ctx context.Context,
	o *models.Order,
) error {
	return errors.Wrap(r.db.WithContext(ctx).Omit(clause.Associations).Create(o).Error, "create order")
}

func (r *OrderGormRepository) CreateOrderItem(
	ctx context.Context,
	item *models.OrderItem,
) error {
	return errors.Wrap(r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error, "create order item")
}

func (r *OrderGormRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Items.Product")
}

func (r *OrderGormRepository) GetOrder(
	ctx context.Context,
	orderID uint,
) (*models.Order, error) {

	var o models.Order
	if err := r.withItems(ctx).First(&o, orderID).Error; err != nil {
		return nil, errors.Wrapf(err, "get order %d", orderID)
	}
	return &o, nil
}

func (r *OrderGormRepository) GetOrderForUser(
	ctx context.Context,
	orderID uint,
	userID uint,
) (*models.Order, error) {

	var o models.Order
	if err := r.withItems(ctx).
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&o).Error; err != nil {
		return nil, errors.Wrapf(err, "get order %d", orderID)
	}
	return &o, nil
}

func (r *OrderGormRepository) ListOrdersForUser(
	ctx context.Context,
	userID uint,
) ([]models.Order, error) {

	var orders []models.Order
	if err := r.withItems(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&orders).Error; err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	return orders, nil
}

func (r *OrderGormRepository) UpdateOrderStatus(
	ctx context.Context,
	orderID uint,
	from domain.Status,
	to domain.Status,
) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, string(from)).
		Update("status", string(to))
	if res.Error != nil {
		return false, errors.Wrapf(res.Error, "update order %d", orderID)
	}
	return res.RowsAffected == 1, nil
}

// Compile-time check
var _ domain.Repository = (*OrderGormRepository)(nil)
