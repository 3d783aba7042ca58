package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus is the lifecycle state of an order
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusReady     OrderStatus = "ready"
	StatusDelivered OrderStatus = "delivered"
	StatusCanceled  OrderStatus = "canceled"
)

// IsPaid reports whether an order in this status has been paid for and belongs in the ledger
func (s OrderStatus) IsPaid() bool {
	switch s {
	case StatusConfirmed, StatusReady, StatusDelivered:
		return true
	}
	return false
}

// OrderOrigin is the channel an order came through
type OrderOrigin string

const (
	OriginSite      OrderOrigin = "site"
	OriginWhatsApp  OrderOrigin = "whatsapp"
	OriginInstagram OrderOrigin = "instagram"
	OriginCounter   OrderOrigin = "counter"
)

// PaymentMethod is how the customer pays, settled outside the system
type PaymentMethod string

const (
	PaymentPix        PaymentMethod = "pix"
	PaymentCash       PaymentMethod = "cash"
	PaymentCreditCard PaymentMethod = "credit_card"
	PaymentDebitCard  PaymentMethod = "debit_card"
)

// Defaults applied when the caller leaves a field out entirely
const (
	DefaultOrderStatus   = StatusPending
	DefaultOrderOrigin   = OriginCounter
	DefaultPaymentMethod = PaymentPix
)

// ParseOrderStatus maps input to an OrderStatus. Matching is case-insensitive, an empty value
// yields the default and anything else unknown is an error.
func ParseOrderStatus(value string) (OrderStatus, error) {
	switch normalize(value) {
	case "":
		return DefaultOrderStatus, nil
	case "pending":
		return StatusPending, nil
	case "confirmed":
		return StatusConfirmed, nil
	case "ready":
		return StatusReady, nil
	case "delivered":
		return StatusDelivered, nil
	case "canceled", "cancelled":
		return StatusCanceled, nil
	}
	return "", fmt.Errorf("%w: order status %q", ErrUnknownValue, value)
}

// ParseOrderOrigin maps input to an OrderOrigin with the same rules as ParseOrderStatus
func ParseOrderOrigin(value string) (OrderOrigin, error) {
	switch normalize(value) {
	case "":
		return DefaultOrderOrigin, nil
	case "site":
		return OriginSite, nil
	case "whatsapp":
		return OriginWhatsApp, nil
	case "instagram":
		return OriginInstagram, nil
	case "counter":
		return OriginCounter, nil
	}
	return "", fmt.Errorf("%w: order origin %q", ErrUnknownValue, value)
}

// ParsePaymentMethod maps input to a PaymentMethod with the same rules as ParseOrderStatus
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	switch normalize(value) {
	case "":
		return DefaultPaymentMethod, nil
	case "pix":
		return PaymentPix, nil
	case "cash":
		return PaymentCash, nil
	case "credit_card", "credit":
		return PaymentCreditCard, nil
	case "debit_card", "debit":
		return PaymentDebitCard, nil
	}
	return "", fmt.Errorf("%w: payment method %q", ErrUnknownValue, value)
}

func normalize(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	return strings.ReplaceAll(value, "-", "_")
}

// Order represents a customer order, placed on the storefront or registered by staff
type Order struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	CustomerName  string          `gorm:"not null" json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	Status        OrderStatus     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Origin        OrderOrigin     `gorm:"type:varchar(20);not null;default:'counter'" json:"origin"`
	PaymentMethod PaymentMethod   `gorm:"type:varchar(20);not null;default:'pix'" json:"payment_method"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	DeliveryFee   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"delivery_fee"`
	Total         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	Notes         string          `gorm:"type:text" json:"notes"`
	Items         []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt     time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// ItemsSubtotal sums the line totals of the order's items
func (o Order) ItemsSubtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range o.Items {
		sum = sum.Add(item.LineTotal)
	}
	return sum
}

// OrderItem is one line of an order. Product name and price are copied at order time so
// later catalog edits do not change past orders.
type OrderItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	OrderID     uint            `gorm:"not null;index" json:"order_id"`
	ProductID   *uint           `gorm:"index" json:"product_id"`
	ProductName string          `gorm:"not null" json:"product_name"`
	Quantity    int             `gorm:"not null;check:quantity > 0" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"line_total"`
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// OrderEvent records a status change on an order
type OrderEvent struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	OrderID   uint        `gorm:"not null;index" json:"order_id"`
	Status    OrderStatus `gorm:"type:varchar(20);not null" json:"status"`
	UserID    *uint       `gorm:"index" json:"user_id"` // nil for storefront orders
	User      *User       `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"user,omitempty"`
	Note      string      `json:"note"`
	CreatedAt time.Time   `json:"created_at"`
}

// TableName specifies the table name for the OrderEvent model
func (OrderEvent) TableName() string {
	return "order_events"
}
