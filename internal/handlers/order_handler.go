package handlers

import (
	"github.com/gin-gonic/gin"

	domain "github.com/pawfectpets/pawfect-api/internal/domain/order"
	"github.com/pawfectpets/pawfect-api/internal/httperr"
	"github.com/pawfectpets/pawfect-api/internal/httpresp"
	"github.com/pawfectpets/pawfect-api/internal/metrics"
	"github.com/pawfectpets/pawfect-api/internal/middleware"
	ucOrder "github.com/pawfectpets/pawfect-api/internal/usecase/order"
)

type OrderHandler struct {
	place    *ucOrder.PlaceOrder
	list     *ucOrder.ListOrders
	get      *ucOrder.GetOrder
	checkout *ucOrder.StartCheckout

	metrics *metrics.Metrics
}

func NewOrderHandler(
	place *ucOrder.PlaceOrder,
	list *ucOrder.ListOrders,
	get *ucOrder.GetOrder,
	checkout *ucOrder.StartCheckout,
	m *metrics.Metrics,
) *OrderHandler {
	return &OrderHandler{
		place:    place,
		list:     list,
		get:      get,
		checkout: checkout,
		metrics:  m,
	}
}

// --------- Requests ---------

type OrderItemRequest struct {
	ProductID uint `json:"productId" binding:"required,min=1"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// Any client supplied total is ignored.
type CreateOrderRequest struct {
	Items []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// --------- Handlers ---------

func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.list.Execute(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, orders)
}

func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	o, err := h.get.Execute(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, o)
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Invalid(c, err)
		return
	}

	lines := make([]domain.Line, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, domain.Line{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	o, err := h.place.Execute(c.Request.Context(), ucOrder.PlaceOrderInput{
		UserID: middleware.UserID(c),
		Items:  lines,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	h.metrics.OrdersPlaced.Inc()
	httpresp.Created(c, o)
}

func (h *OrderHandler) Checkout(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	co, err := h.checkout.Execute(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, co)
}
