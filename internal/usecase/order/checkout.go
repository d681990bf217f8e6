package order

import (
	"context"

	"github.com/pawfectpets/pawfect-api/internal/audit"
	domain "github.com/pawfectpets/pawfect-api/internal/domain/order"
	"github.com/pawfectpets/pawfect-api/internal/httperr"
	"github.com/pawfectpets/pawfect-api/internal/models"
)

// Checkout is what the client needs to send the buyer to the gateway.
type Checkout struct {
	PreferenceID string `json:"preferenceId"`
	URL          string `json:"url"`
}

// PaymentGateway creates hosted checkouts and reports payment outcomes.
type PaymentGateway interface {
	CreateCheckout(ctx context.Context, o *models.Order) (*Checkout, error)

	// PaymentStatus resolves a gateway payment id to the order it pays for
	// and the gateway's status string.
	PaymentStatus(ctx context.Context, paymentID string) (orderID uint, status string, err error)
}

var errPaymentsDisabled = httperr.ErrUnavailable("payments_not_configured", "Payments are not configured")

type StartCheckout struct {
	repo    domain.Repository
	gateway PaymentGateway
}

// NewStartCheckout accepts a nil gateway; Execute then reports 503.
func NewStartCheckout(repo domain.Repository, gateway PaymentGateway) *StartCheckout {
	return &StartCheckout{
		repo:    repo,
		gateway: gateway,
	}
}

func (uc *StartCheckout) Execute(
	ctx context.Context,
	userID uint,
	orderID uint,
) (*Checkout, error) {

	if uc.gateway == nil {
		return nil, errPaymentsDisabled
	}

	o, err := uc.repo.GetOrderForUser(ctx, orderID, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, errOrderNotFound
		}
		return nil, err
	}

	if o.Status != string(domain.StatusPending) {
		return nil, httperr.ErrValidation("order_not_pending", "Order is already "+o.Status)
	}

	co, err := uc.gateway.CreateCheckout(ctx, o)
	if err != nil {
		return nil, httperr.ErrUpstream("payment_gateway_error", "Failed to create payment checkout")
	}
	return co, nil
}

// ======================================================
// WEBHOOK
// ======================================================

type SettlePayment struct {
	repo    domain.Repository
	gateway PaymentGateway
	audit   audit.Sink
}

func NewSettlePayment(
	repo domain.Repository,
	gateway PaymentGateway,
	audit audit.Sink,
) *SettlePayment {
	return &SettlePayment{
		repo:    repo,
		gateway: gateway,
		audit:   audit,
	}
}

// settlement maps a gateway status onto the order status it implies. A
// rejected card is not final: the buyer may retry the same checkout.
func settlement(status string) (domain.Status, bool) {
	switch status {
	case "approved":
		return domain.StatusCompleted, true
	case "cancelled", "refunded", "charged_back":
		return domain.StatusCancelled, true
	default:
		// pending, in_process, authorized, rejected
		return "", false
	}
}

// Execute looks the payment up at the gateway rather than trusting the
// notification body, then settles the order it references. Cancelling
// returns the order's items to stock in the same transaction.
func (uc *SettlePayment) Execute(
	ctx context.Context,
	paymentID string,
) error {

	if uc.gateway == nil {
		return errPaymentsDisabled
	}

	orderID, status, err := uc.gateway.PaymentStatus(ctx, paymentID)
	if err != nil {
		return httperr.ErrUpstream("payment_gateway_error", "Failed to look up payment")
	}

	next, ok := settlement(status)
	if !ok {
		return nil
	}

	o, err := uc.repo.GetOrder(ctx, orderID)
	if err != nil {
		if isNotFound(err) {
			return errOrderNotFound
		}
		return err
	}

	from := domain.Status(o.Status)
	if from == next {
		return nil
	}

	meta := map[string]any{"paymentId": paymentID, "status": status, "from": o.Status}

	// The gateway redelivers until it gets a 2xx, so a notification that
	// cannot apply is recorded and acknowledged.
	if err := domain.CanTransition(from, next); err != nil {
		uc.audit.Dispatch(audit.Event{
			UserID:   &o.UserID,
			Action:   "order_payment_ignored",
			Entity:   "order",
			EntityID: &o.ID,
			Metadata: meta,
		})
		return nil
	}

	applied := false
	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		moved, err := tx.UpdateOrderStatus(ctx, o.ID, from, next)
		if err != nil || !moved {
			return err
		}

		if next == domain.StatusCancelled {
			for _, it := range o.Items {
				if err := tx.RestockProduct(ctx, it.ProductID, it.Quantity); err != nil {
					return err
				}
			}
		}

		applied = true
		return nil
	})
	if err != nil {
		return err
	}
	if !applied {
		// a concurrent notification settled it first
		return nil
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &o.UserID,
		Action:   "order_" + string(next),
		Entity:   "order",
		EntityID: &o.ID,
		Metadata: meta,
	})
	return nil
}
