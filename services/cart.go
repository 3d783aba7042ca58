package services

import (
	"fmt"

	"github.com/artisanbakery/bakery-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartItem is a product and quantity held in the storefront cart
type CartItem struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,gt=0"`
}

// CartLine is a priced cart line
type CartLine struct {
	ProductID   uint            `json:"product_id"`
	Name        string          `json:"name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
	MadeToOrder bool            `json:"made_to_order"`
}

// CartQuote is the priced cart shown before checkout
type CartQuote struct {
	Lines        []CartLine      `json:"lines"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	DeliveryFee  decimal.Decimal `json:"delivery_fee"`
	Total        decimal.Decimal `json:"total"`
	MadeToOrder  bool            `json:"made_to_order"`
	LeadTimeDays int             `json:"lead_time_days"`
}

// QuoteCart prices the cart against the active catalog. Repeated products are merged into a
// single line. Delivery adds the store's fee unless the subtotal reaches the free delivery
// threshold.
func QuoteCart(db *gorm.DB, items []CartItem, delivery bool, settings models.StoreSettings) (*CartQuote, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}

	quantities := make(map[uint]int, len(items))
	order := make([]uint, 0, len(items))
	for i, item := range items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: item %d quantity must be greater than zero", ErrInvalidItem, i+1)
		}
		if _, seen := quantities[item.ProductID]; !seen {
			order = append(order, item.ProductID)
		}
		quantities[item.ProductID] += item.Quantity
	}

	var products []models.Product
	if err := db.Where("id IN ? AND active = ?", order, true).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to load cart products: %w", err)
	}
	byID := make(map[uint]models.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}

	quote := &CartQuote{
		Lines:       make([]CartLine, 0, len(order)),
		Subtotal:    decimal.Zero,
		DeliveryFee: decimal.Zero,
	}
	for _, id := range order {
		product, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: id %d", ErrProductUnavailable, id)
		}
		quantity := quantities[id]
		line := CartLine{
			ProductID:   product.ID,
			Name:        product.Name,
			Quantity:    quantity,
			UnitPrice:   product.Price,
			LineTotal:   product.Price.Mul(decimal.NewFromInt(int64(quantity))),
			MadeToOrder: product.MadeToOrder,
		}
		quote.Lines = append(quote.Lines, line)
		quote.Subtotal = quote.Subtotal.Add(line.LineTotal)
		if product.MadeToOrder {
			quote.MadeToOrder = true
			if product.LeadTimeDays > quote.LeadTimeDays {
				quote.LeadTimeDays = product.LeadTimeDays
			}
		}
	}

	if delivery {
		quote.DeliveryFee = settings.DeliveryFeeFor(quote.Subtotal)
	}
	quote.Total = quote.Subtotal.Add(quote.DeliveryFee)
	return quote, nil
}
