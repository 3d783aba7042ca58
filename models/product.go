package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is an item of the bakery's catalog
type Product struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Name         string          `gorm:"not null;index" json:"name"`
	Description  string          `gorm:"type:text" json:"description"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Category     string          `gorm:"index" json:"category"`
	Active       bool            `gorm:"not null" json:"active"`             // visible on the storefront
	MadeToOrder  bool            `gorm:"not null" json:"made_to_order"`      // needs lead time
	LeadTimeDays int             `gorm:"not null;default:0" json:"lead_time_days"`
	ImageURL     string          `gorm:"size:1024" json:"image_url"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Product model
func (Product) TableName() string {
	return "products"
}
