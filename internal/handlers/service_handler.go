package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pawfectpets/pawfect-api/internal/audit"
	"github.com/pawfectpets/pawfect-api/internal/httperr"
	"github.com/pawfectpets/pawfect-api/internal/httpresp"
	"github.com/pawfectpets/pawfect-api/internal/middleware"
	"github.com/pawfectpets/pawfect-api/internal/models"
)

type ServiceHandler struct {
	db    *gorm.DB
	audit audit.Sink
}

func NewServiceHandler(db *gorm.DB, audit audit.Sink) *ServiceHandler {
	return &ServiceHandler{db: db, audit: audit}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name        string           `json:"name" binding:"required,max=200"`
	Description string           `json:"description" binding:"required"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	Duration    int              `json:"duration" binding:"required,min=1"`
	Image       string           `json:"image" binding:"omitempty,max=500"`
	Category    string           `json:"category" binding:"required,service_category"`
}

type UpdateServiceRequest struct {
	Name        *string          `json:"name,omitempty" binding:"omitempty,min=1,max=200"`
	Description *string          `json:"description,omitempty" binding:"omitempty,min=1"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Duration    *int             `json:"duration,omitempty" binding:"omitempty,min=1"`
	Image       *string          `json:"image,omitempty" binding:"omitempty,max=500"`
	Category    *string          `json:"category,omitempty" binding:"omitempty,service_category"`
}

var errServiceNotFound = httperr.ErrNotFound("service_not_found", "Service not found")

func (h *ServiceHandler) find(c *gin.Context) (*models.Service, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		return nil, false
	}

	var s models.Service
	if err := h.db.WithContext(c.Request.Context()).First(&s, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Respond(c, errServiceNotFound)
			return nil, false
		}
		httperr.Respond(c, err)
		return nil, false
	}
	return &s, true
}

func (h *ServiceHandler) record(c *gin.Context, action string, id uint) {
	h.audit.Dispatch(audit.Event{
		UserID:   audit.ID(middleware.UserID(c)),
		Action:   action,
		Entity:   "service",
		EntityID: audit.ID(id),
	})
}

// --------- Handlers ---------

func (h *ServiceHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context())

	if category := strings.TrimSpace(c.Query("category")); category != "" {
		q = q.Where("category = ?", category)
	}

	var services []models.Service
	if err := q.
		Order("created_at DESC").
		Order("id DESC").
		Find(&services).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, services)
}

func (h *ServiceHandler) Get(c *gin.Context) {
	s, ok := h.find(c)
	if !ok {
		return
	}
	httpresp.OK(c, s)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Invalid(c, err)
		return
	}
	if negativePrice(c, req.Price) {
		return
	}

	service := models.Service{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Price:       req.Price.Round(2),
		Duration:    req.Duration,
		Image:       strings.TrimSpace(req.Image),
		Category:    req.Category,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&service).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	h.record(c, "service_created", service.ID)
	httpresp.Created(c, service)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	service, ok := h.find(c)
	if !ok {
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Invalid(c, err)
		return
	}
	if negativePrice(c, req.Price) {
		return
	}

	if req.Name != nil {
		service.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		service.Description = strings.TrimSpace(*req.Description)
	}
	if req.Price != nil {
		service.Price = req.Price.Round(2)
	}
	if req.Duration != nil {
		service.Duration = *req.Duration
	}
	if req.Image != nil {
		service.Image = strings.TrimSpace(*req.Image)
	}
	if req.Category != nil {
		service.Category = *req.Category
	}

	if err := h.db.WithContext(c.Request.Context()).Save(service).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	h.record(c, "service_updated", service.ID)
	httpresp.OK(c, service)
}

func (h *ServiceHandler) Delete(c *gin.Context) {
	service, ok := h.find(c)
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(service).Error; err != nil {
		if httperr.IsForeignKeyViolation(err) {
			httperr.BadRequest(c, "service_in_use", "Service is referenced by existing bookings")
			return
		}
		httperr.Respond(c, err)
		return
	}

	h.record(c, "service_deleted", service.ID)
	httpresp.Message(c, "Service deleted successfully")
}
