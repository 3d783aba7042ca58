package services

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/artisanbakery/bakery-api/models"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const whatsAppBaseURL = "https://wa.me/"

// ErrMissingWhatsAppNumber is returned when the store has no WhatsApp number configured
var ErrMissingWhatsAppNumber = errors.New("store whatsapp number is not configured")

var brlPrinter = message.NewPrinter(language.BrazilianPortuguese)

// FormatBRL formats an amount as Brazilian reais, e.g. "R$ 1.234,50"
func FormatBRL(amount decimal.Decimal) string {
	return "R$ " + brlPrinter.Sprintf("%.2f", amount.Round(2).InexactFloat64())
}

// OrderMessage is the text pre-filled in the customer's WhatsApp chat after checkout
func OrderMessage(order *models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Olá! Meu nome é %s e acabei de fazer o pedido #%d pelo site.\n", order.CustomerName, order.ID)
	for _, item := range order.Items {
		fmt.Fprintf(&b, "- %dx %s\n", item.Quantity, item.ProductName)
	}
	if order.DeliveryFee.IsPositive() {
		fmt.Fprintf(&b, "Entrega: %s\n", FormatBRL(order.DeliveryFee))
	}
	fmt.Fprintf(&b, "Total: %s", FormatBRL(order.Total))
	return b.String()
}

// BuildWhatsAppURL builds the wa.me deep link that opens a chat with the store carrying the
// order message.
func BuildWhatsAppURL(phone string, order *models.Order) (string, error) {
	digits := onlyDigits(phone)
	if digits == "" {
		return "", ErrMissingWhatsAppNumber
	}
	text := strings.ReplaceAll(url.QueryEscape(OrderMessage(order)), "+", "%20")
	return whatsAppBaseURL + digits + "?text=" + text, nil
}

func onlyDigits(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
