package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockStatus classifies an ingredient's stock against its alert threshold
type StockStatus string

const (
	StockInStock  StockStatus = "in_stock"
	StockCritical StockStatus = "critical"
)

// ClassifyStock returns StockCritical when stock is at or below the minimum
func ClassifyStock(stock, minStock float64) StockStatus {
	if stock <= minStock {
		return StockCritical
	}
	return StockInStock
}

// Ingredient is a raw material kept in inventory
type Ingredient struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Name      string          `gorm:"not null;index" json:"name"`
	Unit      string          `gorm:"not null;default:'un'" json:"unit"` // un, kg, g, l, ml
	UnitCost  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_cost"`
	Stock     float64         `gorm:"not null;default:0" json:"stock"`
	MinStock  float64         `gorm:"not null;default:0" json:"min_stock"`
	Status    StockStatus     `gorm:"-" json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Ingredient model
func (Ingredient) TableName() string {
	return "ingredients"
}

// IsCritical reports whether the ingredient needs restocking
func (i Ingredient) IsCritical() bool {
	return ClassifyStock(i.Stock, i.MinStock) == StockCritical
}

// AfterFind fills the computed status on every read
func (i *Ingredient) AfterFind(tx *gorm.DB) error {
	i.Status = ClassifyStock(i.Stock, i.MinStock)
	return nil
}

// AfterSave keeps the computed status in step with writes
func (i *Ingredient) AfterSave(tx *gorm.DB) error {
	i.Status = ClassifyStock(i.Stock, i.MinStock)
	return nil
}
