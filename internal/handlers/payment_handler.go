package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	"github.com/pawfectpets/pawfect-api/internal/httperr"
	ucOrder "github.com/pawfectpets/pawfect-api/internal/usecase/order"
)

type PaymentHandler struct {
	settle *ucOrder.SettlePayment
}

func NewPaymentHandler(settle *ucOrder.SettlePayment) *PaymentHandler {
	return &PaymentHandler{settle: settle}
}

type paymentNotification struct {
	Type string `json:"type"`
	Data struct {
		ID any `json:"id"`
	} `json:"data"`
}

// Webhook accepts both the JSON notification body and the legacy
// ?topic=payment&id=... query form. Non-payment topics are acknowledged.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	var n paymentNotification
	_ = c.ShouldBindJSON(&n)

	topic := n.Type
	if topic == "" {
		topic = c.DefaultQuery("type", c.Query("topic"))
	}

	paymentID := cast.ToString(n.Data.ID)
	if paymentID == "" {
		paymentID = c.DefaultQuery("data.id", c.Query("id"))
	}

	if topic != "payment" || paymentID == "" {
		c.Status(http.StatusOK)
		return
	}

	if err := h.settle.Execute(c.Request.Context(), paymentID); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.Status(http.StatusOK)
}
