// Package payment adapts Mercado Pago hosted checkout to order payments.
package payment

import (
	"context"
	"fmt"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"
	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/pawfectpets/pawfect-api/internal/models"
	"github.com/pawfectpets/pawfect-api/internal/usecase/order"
)

type preferenceCreator interface {
	Create(ctx context.Context, request preference.Request) (*preference.Response, error)
}

type paymentGetter interface {
	Get(ctx context.Context, id int) (*payment.Response, error)
}

type Options struct {
	AccessToken     string
	NotificationURL string
	Currency        string
	BackURL         string
}

type MercadoPago struct {
	opts        Options
	preferences preferenceCreator
	payments    paymentGetter
}

func NewMercadoPago(opts Options) (*MercadoPago, error) {
	cfg, err := config.New(opts.AccessToken)
	if err != nil {
		return nil, errors.Wrap(err, "mercadopago config")
	}

	return &MercadoPago{
		opts:        opts,
		preferences: preference.NewClient(cfg),
		payments:    payment.NewClient(cfg),
	}, nil
}

func (m *MercadoPago) CreateCheckout(ctx context.Context, o *models.Order) (*order.Checkout, error) {
	items := make([]preference.ItemRequest, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, preference.ItemRequest{
			ID:         cast.ToString(it.ProductID),
			Title:      it.Product.Name,
			PictureURL: it.Product.Image,
			Quantity:   it.Quantity,
			UnitPrice:  it.Price.InexactFloat64(),
			CurrencyID: m.opts.Currency,
		})
	}

	req := preference.Request{
		Items:             items,
		ExternalReference: cast.ToString(o.ID),
		NotificationURL:   m.opts.NotificationURL,
	}
	if m.opts.BackURL != "" {
		req.BackURLs = &preference.BackURLsRequest{
			Success: m.opts.BackURL + "/orders/" + cast.ToString(o.ID),
			Failure: m.opts.BackURL + "/cart",
			Pending: m.opts.BackURL + "/orders/" + cast.ToString(o.ID),
		}
	}

	res, err := m.preferences.Create(ctx, req)
	if err != nil {
		return nil, errors.Wrapf(err, "create preference for order %d", o.ID)
	}

	return &order.Checkout{PreferenceID: res.ID, URL: res.InitPoint}, nil
}

func (m *MercadoPago) PaymentStatus(ctx context.Context, paymentID string) (uint, string, error) {
	id, err := cast.ToIntE(paymentID)
	if err != nil {
		return 0, "", fmt.Errorf("invalid payment id %q", paymentID)
	}

	res, err := m.payments.Get(ctx, id)
	if err != nil {
		return 0, "", errors.Wrapf(err, "get payment %d", id)
	}

	orderID, err := cast.ToUintE(res.ExternalReference)
	if err != nil || orderID == 0 {
		return 0, "", fmt.Errorf("payment %d has no order reference", id)
	}
	return orderID, res.Status, nil
}

// Compile-time check
var _ order.PaymentGateway = (*MercadoPago)(nil)
