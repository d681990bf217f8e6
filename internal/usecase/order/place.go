package order

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/pawfectpets/pawfect-api/internal/audit"
	domain "github.com/pawfectpets/pawfect-api/internal/domain/order"
	"github.com/pawfectpets/pawfect-api/internal/httperr"
	"github.com/pawfectpets/pawfect-api/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type PlaceOrderInput struct {
	UserID uint
	Items  []domain.Line
}

// ======================================================
// USE CASE
// ======================================================

type PlaceOrder struct {
	repo  domain.Repository
	audit audit.Sink
}

func NewPlaceOrder(
	repo domain.Repository,
	audit audit.Sink,
) *PlaceOrder {
	return &PlaceOrder{
		repo:  repo,
		audit: audit,
	}
}

func (uc *PlaceOrder) Execute(
	ctx context.Context,
	in PlaceOrderInput,
) (*models.Order, error) {

	if err := domain.ValidateLines(in.Items); err != nil {
		return nil, err
	}

	var orderID uint

	err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {

		// ---- Lock products, lowest id first ----
		products := make(map[uint]*models.Product)
		for _, id := range domain.ProductIDs(in.Items) {
			p, err := tx.GetProductForUpdate(ctx, id)
			if err != nil {
				if isNotFound(err) {
					return productNotFound(id)
				}
				return err
			}
			products[id] = p
		}

		// ---- Price and check every line ----
		prices := make([]decimal.Decimal, len(in.Items))
		wanted := make(map[uint]int)
		total := decimal.Zero

		for i, line := range in.Items {
			p := products[line.ProductID]

			wanted[line.ProductID] += line.Quantity
			if p.Stock < wanted[line.ProductID] {
				return httperr.ErrInsufficientStock(p.Name)
			}

			prices[i] = p.Price
			total = total.Add(domain.LineTotal(p.Price, line.Quantity))
		}

		// ---- Order header ----
		o := &models.Order{
			UserID: in.UserID,
			Total:  total,
			Status: string(domain.InitialStatus()),
		}
		if err := tx.CreateOrder(ctx, o); err != nil {
			return err
		}

		// ---- Items and stock ----
		for i, line := range in.Items {
			item := &models.OrderItem{
				OrderID:   o.ID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Price:     prices[i],
			}
			if err := tx.CreateOrderItem(ctx, item); err != nil {
				return err
			}

			ok, err := tx.DecrementStock(ctx, line.ProductID, line.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				// only reachable where the dialect cannot lock rows
				return httperr.ErrInsufficientStock(products[line.ProductID].Name)
			}
		}

		orderID = o.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	o, err := uc.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.UserID,
		Action:   "order_placed",
		Entity:   "order",
		EntityID: &o.ID,
		Metadata: map[string]any{"total": o.Total.StringFixed(2), "items": len(o.Items)},
	})

	return o, nil
}
