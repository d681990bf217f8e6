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
	"github.com/pawfectpets/pawfect-api/internal/media"
	"github.com/pawfectpets/pawfect-api/internal/middleware"
	"github.com/pawfectpets/pawfect-api/internal/models"
)

type ProductHandler struct {
	db      *gorm.DB
	audit   audit.Sink
	storage media.Storage
}

// NewProductHandler accepts a nil storage; image uploads then answer 503.
func NewProductHandler(db *gorm.DB, audit audit.Sink, storage media.Storage) *ProductHandler {
	return &ProductHandler{db: db, audit: audit, storage: storage}
}

// --------- Requests ---------

type CreateProductRequest struct {
	Name        string           `json:"name" binding:"required,max=200"`
	Description string           `json:"description" binding:"required"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	Image       string           `json:"image" binding:"omitempty,max=500"`
	Category    string           `json:"category" binding:"required,max=100"`
	Stock       *int             `json:"stock" binding:"required,min=0"`
}

type UpdateProductRequest struct {
	Name        *string          `json:"name,omitempty" binding:"omitempty,min=1,max=200"`
	Description *string          `json:"description,omitempty" binding:"omitempty,min=1"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Image       *string          `json:"image,omitempty" binding:"omitempty,max=500"`
	Category    *string          `json:"category,omitempty" binding:"omitempty,min=1,max=100"`
	Stock       *int             `json:"stock,omitempty" binding:"omitempty,min=0"`
}

var errProductNotFound = httperr.ErrNotFound("product_not_found", "Product not found")

func negativePrice(c *gin.Context, p *decimal.Decimal) bool {
	if p != nil && p.IsNegative() {
		httperr.InvalidField(c, "price", "Price must be a positive number")
		return true
	}
	return false
}

func (h *ProductHandler) find(c *gin.Context) (*models.Product, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		return nil, false
	}

	var p models.Product
	if err := h.db.WithContext(c.Request.Context()).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Respond(c, errProductNotFound)
			return nil, false
		}
		httperr.Respond(c, err)
		return nil, false
	}
	return &p, true
}

func (h *ProductHandler) record(c *gin.Context, action string, id uint) {
	h.audit.Dispatch(audit.Event{
		UserID:   audit.ID(middleware.UserID(c)),
		Action:   action,
		Entity:   "product",
		EntityID: audit.ID(id),
	})
}

// --------- Handlers ---------

func (h *ProductHandler) List(c *gin.Context) {
	category := strings.ToLower(strings.TrimSpace(c.Query("category")))
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.WithContext(c.Request.Context())

	if category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var products []models.Product
	if err := q.
		Order("created_at DESC").
		Order("id DESC").
		Find(&products).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, products)
}

func (h *ProductHandler) Get(c *gin.Context) {
	p, ok := h.find(c)
	if !ok {
		return
	}
	httpresp.OK(c, p)
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Invalid(c, err)
		return
	}
	if negativePrice(c, req.Price) {
		return
	}

	product := models.Product{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Price:       req.Price.Round(2),
		Image:       strings.TrimSpace(req.Image),
		Category:    strings.TrimSpace(req.Category),
		Stock:       *req.Stock,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&product).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	h.record(c, "product_created", product.ID)
	httpresp.Created(c, product)
}

func (h *ProductHandler) Update(c *gin.Context) {
	product, ok := h.find(c)
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Invalid(c, err)
		return
	}
	if negativePrice(c, req.Price) {
		return
	}

	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		product.Description = strings.TrimSpace(*req.Description)
	}
	if req.Price != nil {
		product.Price = req.Price.Round(2)
	}
	if req.Image != nil {
		product.Image = strings.TrimSpace(*req.Image)
	}
	if req.Category != nil {
		product.Category = strings.TrimSpace(*req.Category)
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}

	if err := h.db.WithContext(c.Request.Context()).Save(product).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	h.record(c, "product_updated", product.ID)
	httpresp.OK(c, product)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	product, ok := h.find(c)
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(product).Error; err != nil {
		if httperr.IsForeignKeyViolation(err) {
			httperr.BadRequest(c, "product_in_use", "Product is referenced by existing orders")
			return
		}
		httperr.Respond(c, err)
		return
	}

	h.record(c, "product_deleted", product.ID)
	httpresp.Message(c, "Product deleted successfully")
}

// UploadImage replaces the product image with the normalized upload in
// multipart field "image".
func (h *ProductHandler) UploadImage(c *gin.Context) {
	if h.storage == nil {
		httperr.Respond(c, httperr.ErrUnavailable("storage_not_configured", "Image storage is not configured"))
		return
	}

	product, ok := h.find(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("image")
	if err != nil {
		httperr.InvalidField(c, "image", "image is required")
		return
	}
	if fh.Size > media.MaxUploadBytes {
		httperr.InvalidField(c, "image", "Image must be 5MB or smaller")
		return
	}

	f, err := fh.Open()
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	defer f.Close()

	body, err := media.Normalize(f)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	url, err := h.storage.Put(c.Request.Context(), media.ProductImageKey(), body, "image/webp")
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := h.db.WithContext(c.Request.Context()).
		Model(product).
		Update("image", url).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	product.Image = url

	h.record(c, "product_image_uploaded", product.ID)
	httpresp.OK(c, product)
}
