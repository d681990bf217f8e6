package order

import (
	"context"

	domain "github.com/pawfectpets/pawfect-api/internal/domain/order"
	"github.com/pawfectpets/pawfect-api/internal/models"
)

type ListOrders struct {
	repo domain.Repository
}

func NewListOrders(repo domain.Repository) *ListOrders {
	return &ListOrders{repo: repo}
}

func (uc *ListOrders) Execute(
	ctx context.Context,
	userID uint,
) ([]models.Order, error) {
	return uc.repo.ListOrdersForUser(ctx, userID)
}

type GetOrder struct {
	repo domain.Repository
}

func NewGetOrder(repo domain.Repository) *GetOrder {
	return &GetOrder{repo: repo}
}

func (uc *GetOrder) Execute(
	ctx context.Context,
	userID uint,
	orderID uint,
) (*models.Order, error) {

	o, err := uc.repo.GetOrderForUser(ctx, orderID, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, errOrderNotFound
		}
		return nil, err
	}
	return o, nil
}
