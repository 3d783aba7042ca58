package controllers

import (
	"errors"
	"net/http"

	"github.com/artisanbakery/bakery-api/config"
	"github.com/artisanbakery/bakery-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListOrderEvents handles GET /api/v1/admin/orders/:id/history - status changes of an order, oldest first
func ListOrderEvents(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.Unscoped().Select("id").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found")
			return
		}
		respondServiceError(c, err, "Failed to fetch order")
		return
	}

	events := []models.OrderEvent{}
	if err := db.Where("order_id = ?", order.ID).
		Preload("User").
		Order("created_at ASC, id ASC").
		Find(&events).Error; err != nil {
		respondServiceError(c, err, "Failed to fetch order history")
		return
	}

	c.PureJSON(http.StatusOK, gin.H{
		"success": true,
		"data":    events,
	})
}
