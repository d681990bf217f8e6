package handlers

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/pawfectpets/pawfect-api/internal/domain/booking"
	"github.com/pawfectpets/pawfect-api/internal/httperr"
	"github.com/pawfectpets/pawfect-api/internal/httpresp"
	"github.com/pawfectpets/pawfect-api/internal/metrics"
	"github.com/pawfectpets/pawfect-api/internal/middleware"
	"github.com/pawfectpets/pawfect-api/internal/timezone"
	ucBooking "github.com/pawfectpets/pawfect-api/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	create     *ucBooking.CreateBooking
	reschedule *ucBooking.RescheduleBooking
	cancel     *ucBooking.CancelBooking
	list       *ucBooking.ListBookings
	get        *ucBooking.GetBooking
	setStatus  *ucBooking.SetBookingStatus

	timezone string
	metrics  *metrics.Metrics
}

func NewBookingHandler(
	create *ucBooking.CreateBooking,
	reschedule *ucBooking.RescheduleBooking,
	cancel *ucBooking.CancelBooking,
	list *ucBooking.ListBookings,
	get *ucBooking.GetBooking,
	setStatus *ucBooking.SetBookingStatus,
	tz string,
	m *metrics.Metrics,
) *BookingHandler {
	return &BookingHandler{
		create:     create,
		reschedule: reschedule,
		cancel:     cancel,
		list:       list,
		get:        get,
		setStatus:  setStatus,
		timezone:   tz,
		metrics:    m,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBookingRequest struct {
	ServiceID uint    `json:"serviceId" binding:"required"`
	Date      string  `json:"date" binding:"required"`
	Time      string  `json:"time" binding:"required"`
	Notes     *string `json:"notes"`
	EndDate   *string `json:"endDate"`
}

type UpdateBookingRequest struct {
	Date    *string      `json:"date" binding:"omitempty,min=1"`
	Time    *string      `json:"time" binding:"omitempty,min=1"`
	EndDate nullableDate `json:"endDate"`
}

type SetBookingStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed completed cancelled"`
}

// nullableDate tells an absent field apart from an explicit null.
type nullableDate struct {
	Set   bool
	Value *string
}

func (n *nullableDate) UnmarshalJSON(b []byte) error {
	n.Set = true
	if string(b) == "null" {
		n.Value = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	n.Value = &s
	return nil
}

// ======================================================
// HELPERS
// ======================================================

func (h *BookingHandler) parseDate(c *gin.Context, field, value, message string) (time.Time, bool) {
	t, err := timezone.Parse(strings.TrimSpace(value), h.timezone)
	if err != nil {
		httperr.InvalidField(c, field, message)
		return time.Time{}, false
	}
	return t, true
}

// parseEndDate treats a blank value like null: no end date.
func (h *BookingHandler) parseEndDate(c *gin.Context, value *string) (*time.Time, bool) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, true
	}
	end, ok := h.parseDate(c, "endDate", *value, "Valid end date is required")
	if !ok {
		return nil, false
	}
	return &end, true
}

// ======================================================
// HANDLERS
// ======================================================

func (h *BookingHandler) List(c *gin.Context) {
	bookings, err := h.list.Execute(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, bookings)
}

func (h *BookingHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	b, err := h.get.Execute(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, b)
}

func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Invalid(c, err)
		return
	}

	date, ok := h.parseDate(c, "date", req.Date, "Valid date is required")
	if !ok {
		return
	}

	in := ucBooking.CreateBookingInput{
		UserID:    middleware.UserID(c),
		ServiceID: req.ServiceID,
		Date:      date,
		Time:      strings.TrimSpace(req.Time),
		Notes:     req.Notes,
	}

	end, ok := h.parseEndDate(c, req.EndDate)
	if !ok {
		return
	}
	in.EndDate = end

	b, err := h.create.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	h.metrics.BookingsCreated.Inc()
	httpresp.Created(c, b)
}

func (h *BookingHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Invalid(c, err)
		return
	}

	var ch domain.Reschedule

	if req.Date != nil {
		date, ok := h.parseDate(c, "date", *req.Date, "Valid date is required")
		if !ok {
			return
		}
		ch.Date = &date
	}

	if req.Time != nil {
		t := strings.TrimSpace(*req.Time)
		ch.Time = &t
	}

	if req.EndDate.Set {
		end, ok := h.parseEndDate(c, req.EndDate.Value)
		if !ok {
			return
		}
		ch.EndDateSet = true
		ch.EndDate = end
	}

	b, err := h.reschedule.Execute(c.Request.Context(), middleware.UserID(c), id, ch)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, b)
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if _, err := h.cancel.Execute(c.Request.Context(), middleware.UserID(c), id); err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Message(c, "Booking cancelled successfully")
}

// SetStatus is the admin confirm/complete/cancel endpoint.
func (h *BookingHandler) SetStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req SetBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Invalid(c, err)
		return
	}

	b, err := h.setStatus.Execute(c.Request.Context(), middleware.UserID(c), id, req.Status)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, b)
}
