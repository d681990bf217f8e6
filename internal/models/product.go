package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const PlaceholderImage = "https://via.placeholder.com/300"

type Product struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string          `gorm:"size:200;not null" json:"name"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Image       string          `gorm:"size:500;not null" json:"image"`
	Category    string          `gorm:"size:100;not null" json:"category"`
	Stock       int             `gorm:"not null;default:0;check:stock >= 0" json:"stock"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *Product) BeforeSave(tx *gorm.DB) error {
	if p.Image == "" {
		p.Image = PlaceholderImage
	}
	return nil
}
