package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Service struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string          `gorm:"size:200;not null" json:"name"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Duration    int             `gorm:"not null" json:"duration"`
	Image       string          `gorm:"size:500;not null" json:"image"`
	Category    string          `gorm:"size:20;not null" json:"category"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s *Service) BeforeSave(tx *gorm.DB) error {
	if s.Image == "" {
		s.Image = PlaceholderImage
	}
	return nil
}
