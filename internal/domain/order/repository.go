package order

import (
	"context"

	"github.com/pawfectpets/pawfect-api/internal/models"
)

type Repository interface {
	// Transaction runs fn against a repository bound to one database
	// transaction; fn returning an error rolls everything back.
	Transaction(
		ctx context.Context,
		fn func(tx Repository) error,
	) error

	// -------- Product --------
	GetProductForUpdate(
		ctx context.Context,
		productID uint,
	) (*models.Product, error)

	// DecrementStock subtracts quantity only while enough stock remains and
	// reports whether a row was updated.
	DecrementStock(
		ctx context.Context,
		productID uint,
		quantity int,
	) (bool, error)

	RestockProduct(
		ctx context.Context,
		productID uint,
		quantity int,
	) error

	// -------- Order --------
	CreateOrder(
		ctx context.Context,
		o *models.Order,
	) error

	CreateOrderItem(
		ctx context.Context,
		item *models.OrderItem,
	) error

	GetOrder(
		ctx context.Context,
		orderID uint,
	) (*models.Order, error)

	GetOrderForUser(
		ctx context.Context,
		orderID uint,
		userID uint,
	) (*models.Order, error)

	ListOrdersForUser(
		ctx context.Context,
		userID uint,
	) ([]models.Order, error)

	// UpdateOrderStatus moves the order from one status to another and
	// reports false when the order was no longer in from.
	UpdateOrderStatus(
		ctx context.Context,
		orderID uint,
		from Status,
		to Status,
	) (bool, error)
}
