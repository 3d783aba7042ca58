package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/artisanbakery/bakery-api/config"
	"github.com/artisanbakery/bakery-api/middleware"
	"github.com/artisanbakery/bakery-api/models"
	"github.com/artisanbakery/bakery-api/services"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreateOrderRequest represents the request body for registering an order in the back-office
type CreateOrderRequest struct {
	CustomerName  string                    `json:"customer_name" binding:"required"`
	CustomerPhone string                    `json:"customer_phone"`
	Status        string                    `json:"status"`
	Origin        string                    `json:"origin"`
	PaymentMethod string                    `json:"payment_method"`
	Notes         string                    `json:"notes"`
	DeliveryFee   decimal.Decimal           `json:"delivery_fee"`
	Items         []services.OrderItemInput `json:"items"`
}

// UpdateOrderStatusRequest represents the request body for moving an order along
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

// CreateOrder handles POST /api/v1/admin/orders - registers an order taken by staff
func CreateOrder(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, "Invalid request data", err)
		return
	}

	order, err := services.CreateOrder(config.GetDB(), services.CreateOrderInput{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Status:        req.Status,
		Origin:        req.Origin,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
		DeliveryFee:   req.DeliveryFee,
		Items:         req.Items,
		UserID:        &userID,
	})
	if err != nil {
		respondServiceError(c, err, "Failed to create order")
		return
	}
	respondSuccess(c, http.StatusCreated, order)
}

// ListOrders handles GET /api/v1/admin/orders - paginated orders, most recent first.
// Optional filters: status, origin and q (customer name or phone).
func ListOrders(c *gin.Context) {
	page, limit := pageParams(c)
	db := config.GetDB()

	var status models.OrderStatus
	if value := c.Query("status"); value != "" {
		parsed, err := models.ParseOrderStatus(value)
		if err != nil {
			respondValidationError(c, "Invalid status filter", err)
			return
		}
		status = parsed
	}
	var origin models.OrderOrigin
	if value := c.Query("origin"); value != "" {
		parsed, err := models.ParseOrderOrigin(value)
		if err != nil {
			respondValidationError(c, "Invalid origin filter", err)
			return
		}
		origin = parsed
	}
	search := strings.TrimSpace(c.Query("q"))

	filters := func(tx *gorm.DB) *gorm.DB {
		if status != "" {
			tx = tx.Where("status = ?", status)
		}
		if origin != "" {
			tx = tx.Where("origin = ?", origin)
		}
		if search != "" {
			like := "%" + strings.ToLower(search) + "%"
			tx = tx.Where("LOWER(customer_name) LIKE ? OR customer_phone LIKE ?", like, like)
		}
		return tx
	}

	var total int64
	if err := db.Model(&models.Order{}).Scopes(filters).Count(&total).Error; err != nil {
		respondServiceError(c, err, "Failed to count orders")
		return
	}

	orders := []models.Order{}
	if err := db.Scopes(filters).
		Preload("Items").
		Order("created_at DESC, id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&orders).Error; err != nil {
		respondServiceError(c, err, "Failed to fetch orders")
		return
	}

	respondPage(c, orders, newPagination(page, limit, total))
}

// GetOrder handles GET /api/v1/admin/orders/:id - one order with its items
func GetOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var order models.Order
	if err := config.GetDB().Preload("Items").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found")
			return
		}
		respondServiceError(c, err, "Failed to fetch order")
		return
	}
	respondSuccess(c, http.StatusOK, order)
}

// UpdateOrderStatus handles PATCH /api/v1/admin/orders/:id/status
func UpdateOrderStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, "Invalid request data", err)
		return
	}

	order, err := services.UpdateOrderStatus(config.GetDB(), id, req.Status, &userID, req.Note)
	if err != nil {
		respondServiceError(c, err, "Failed to update order status")
		return
	}
	respondSuccess(c, http.StatusOK, order)
}

// DeleteOrder handles DELETE /api/v1/admin/orders/:id
func DeleteOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := services.DeleteOrder(config.GetDB(), id); err != nil {
		respondServiceError(c, err, "Failed to delete order")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order deleted",
	})
}
