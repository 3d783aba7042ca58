package services

import (
	"errors"
	"fmt"

	"github.com/artisanbakery/bakery-api/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrStoreClosed        = errors.New("store is not taking orders right now")
	ErrPaymentNotAccepted = errors.New("payment method not accepted by the store")
)

// CheckoutInput is the storefront cart submitted by a customer
type CheckoutInput struct {
	CustomerName  string     `json:"customer_name" binding:"required"`
	CustomerPhone string     `json:"customer_phone"`
	PaymentMethod string     `json:"payment_method"`
	Delivery      bool       `json:"delivery"`
	Notes         string     `json:"notes"`
	Items         []CartItem `json:"items" binding:"required,dive"`
}

// CheckoutResult is the created order and the link that hands it off to WhatsApp
type CheckoutResult struct {
	Order       *models.Order `json:"order"`
	Quote       *CartQuote    `json:"quote"`
	WhatsAppURL string        `json:"whatsapp_url"`
}

// Checkout turns a storefront cart into a pending site order and builds the WhatsApp link
// the customer follows to settle payment with the store.
func Checkout(db *gorm.DB, in CheckoutInput) (*CheckoutResult, error) {
	if len(in.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	settings, err := LoadSettings(db)
	if err != nil {
		return nil, err
	}
	if !settings.IsOpen {
		return nil, ErrStoreClosed
	}

	payment, err := models.ParsePaymentMethod(in.PaymentMethod)
	if err != nil {
		return nil, err
	}
	if !settings.AcceptsPayment(payment) {
		return nil, fmt.Errorf("%w: %s", ErrPaymentNotAccepted, payment)
	}

	quote, err := QuoteCart(db, in.Items, in.Delivery, settings)
	if err != nil {
		return nil, err
	}

	items := make([]OrderItemInput, 0, len(quote.Lines))
	for _, line := range quote.Lines {
		productID := line.ProductID
		items = append(items, OrderItemInput{ProductID: &productID, Quantity: line.Quantity})
	}

	order, err := CreateOrder(db, CreateOrderInput{
		CustomerName:       in.CustomerName,
		CustomerPhone:      in.CustomerPhone,
		Status:             string(models.StatusPending),
		Origin:             string(models.OriginSite),
		PaymentMethod:      string(payment),
		Notes:              in.Notes,
		DeliveryFee:        quote.DeliveryFee,
		Items:              items,
		OnlyActiveProducts: true,
	})
	if err != nil {
		return nil, err
	}

	link, err := BuildWhatsAppURL(settings.WhatsAppNumber, order)
	if err != nil {
		// the order is stored either way; staff still see it in the back-office
		zap.L().Warn("checkout without whatsapp link", zap.Uint("order_id", order.ID), zap.Error(err))
	}

	return &CheckoutResult{Order: order, Quote: quote, WhatsAppURL: link}, nil
}
