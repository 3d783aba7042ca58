package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// StoreSettingsID is the primary key of the single settings row
const StoreSettingsID = 1

// StoreSettings is the singleton store configuration shown on the storefront
type StoreSettings struct {
	ID                    uint            `gorm:"primaryKey" json:"-"`
	StoreName             string          `gorm:"not null" json:"store_name"`
	WhatsAppNumber        string          `json:"whatsapp_number"`
	Phone                 string          `json:"phone"`
	Instagram             string          `json:"instagram"`
	Address               string          `json:"address"`
	OpeningHours          string          `gorm:"type:text" json:"opening_hours"`
	PaymentMethods        string          `json:"payment_methods"` // comma separated PaymentMethod values
	DeliveryFee           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"delivery_fee"`
	FreeDeliveryThreshold decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"free_delivery_threshold"` // zero disables
	IsOpen                bool            `gorm:"not null" json:"is_open"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// TableName specifies the table name for the StoreSettings model
func (StoreSettings) TableName() string {
	return "store_settings"
}

// DefaultStoreSettings is written the first time settings are read
func DefaultStoreSettings() StoreSettings {
	return StoreSettings{
		ID:                    StoreSettingsID,
		StoreName:             "Padaria Artesanal",
		OpeningHours:          "Ter-Sáb 8h-18h",
		PaymentMethods:        "pix,cash,credit_card,debit_card",
		DeliveryFee:           decimal.Zero,
		FreeDeliveryThreshold: decimal.Zero,
		IsOpen:                true,
	}
}

// AcceptedPaymentMethods returns the configured payment methods
func (s StoreSettings) AcceptedPaymentMethods() []PaymentMethod {
	var methods []PaymentMethod
	for _, part := range strings.Split(s.PaymentMethods, ",") {
		if part = strings.TrimSpace(part); part == "" {
			continue
		}
		if method, err := ParsePaymentMethod(part); err == nil {
			methods = append(methods, method)
		}
	}
	return methods
}

// AcceptsPayment reports whether method is among the configured payment methods
func (s StoreSettings) AcceptsPayment(method PaymentMethod) bool {
	for _, accepted := range s.AcceptedPaymentMethods() {
		if accepted == method {
			return true
		}
	}
	return false
}

// DeliveryFeeFor returns the delivery fee charged on an order with the given subtotal
func (s StoreSettings) DeliveryFeeFor(subtotal decimal.Decimal) decimal.Decimal {
	if s.FreeDeliveryThreshold.IsPositive() && subtotal.GreaterThanOrEqual(s.FreeDeliveryThreshold) {
		return decimal.Zero
	}
	return s.DeliveryFee
}
