package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"not null;index" json:"userId"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Total  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	Status string          `gorm:"size:20;default:'pending'" json:"status"`

	Items []OrderItem `gorm:"constraint:OnDelete:CASCADE;" json:"items"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OrderItem keeps the unit price paid, independent of later Product.Price edits.
type OrderItem struct {
	ID uint `gorm:"primaryKey" json:"id"`

	OrderID uint `gorm:"not null;index" json:"orderId"`

	ProductID uint    `gorm:"not null;index" json:"productId"`
	Product   Product `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"product"`

	Quantity int             `gorm:"not null" json:"quantity"`
	Price    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
