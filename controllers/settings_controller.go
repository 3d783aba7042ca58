package controllers

import (
	"net/http"
	"strings"

	"github.com/artisanbakery/bakery-api/config"
	"github.com/artisanbakery/bakery-api/models"
	"github.com/artisanbakery/bakery-api/services"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// SettingsRequest represents the request body for updating the store settings
type SettingsRequest struct {
	StoreName             string          `json:"store_name" binding:"required"`
	WhatsAppNumber        string          `json:"whatsapp_number"`
	Phone                 string          `json:"phone"`
	Instagram             string          `json:"instagram"`
	Address               string          `json:"address"`
	OpeningHours          string          `json:"opening_hours"`
	PaymentMethods        []string        `json:"payment_methods"`
	DeliveryFee           decimal.Decimal `json:"delivery_fee"`
	FreeDeliveryThreshold decimal.Decimal `json:"free_delivery_threshold"`
	IsOpen                bool            `json:"is_open"`
}

// GetSettings handles GET /api/v1/admin/settings
func GetSettings(c *gin.Context) {
	cache := services.GetSnapshotCache()
	if cached, ok := cache.Get(services.PathSettings); ok {
		respondSuccess(c, http.StatusOK, cached)
		return
	}

	settings, err := services.LoadSettings(config.GetDB())
	if err != nil {
		respondServiceError(c, err, "Failed to load settings")
		return
	}
	cache.Set(services.PathSettings, settings)
	respondSuccess(c, http.StatusOK, settings)
}

// UpdateSettings handles PUT /api/v1/admin/settings
func UpdateSettings(c *gin.Context) {
	var req SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, "Invalid request data", err)
		return
	}
	if req.DeliveryFee.IsNegative() || req.FreeDeliveryThreshold.IsNegative() {
		respondValidationError(c, "Invalid request data", services.ErrInvalidAmount)
		return
	}

	methods := make([]string, 0, len(req.PaymentMethods))
	for _, value := range req.PaymentMethods {
		if strings.TrimSpace(value) == "" {
			continue
		}
		method, err := models.ParsePaymentMethod(value)
		if err != nil {
			respondValidationError(c, "Invalid payment method", err)
			return
		}
		methods = append(methods, string(method))
	}

	settings, err := services.SaveSettings(config.GetDB(), models.StoreSettings{
		StoreName:             strings.TrimSpace(req.StoreName),
		WhatsAppNumber:        strings.TrimSpace(req.WhatsAppNumber),
		Phone:                 strings.TrimSpace(req.Phone),
		Instagram:             strings.TrimSpace(req.Instagram),
		Address:               strings.TrimSpace(req.Address),
		OpeningHours:          strings.TrimSpace(req.OpeningHours),
		PaymentMethods:        strings.Join(methods, ","),
		DeliveryFee:           req.DeliveryFee.Round(2),
		FreeDeliveryThreshold: req.FreeDeliveryThreshold.Round(2),
		IsOpen:                req.IsOpen,
	})
	if err != nil {
		respondServiceError(c, err, "Failed to save settings")
		return
	}
	respondSuccess(c, http.StatusOK, settings)
}
