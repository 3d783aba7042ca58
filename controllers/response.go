package controllers

import (
	"errors"
	"math"
	"net/http"

	"github.com/artisanbakery/bakery-api/models"
	"github.com/artisanbakery/bakery-api/services"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// Pagination describes one page of a list response
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

func respondSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondPage(c *gin.Context, data interface{}, page Pagination) {
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       data,
		"pagination": page,
	})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func respondValidationError(c *gin.Context, message string, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "VALIDATION_ERROR",
			"message": message,
			"details": err.Error(),
		},
	})
}

// respondServiceError maps service errors to responses. Anything unrecognized is logged and
// reported as a database error.
func respondServiceError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, models.ErrUnknownValue),
		errors.Is(err, services.ErrEmptyOrder),
		errors.Is(err, services.ErrMissingCustomer),
		errors.Is(err, services.ErrInvalidItem),
		errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrWeakPassword),
		errors.Is(err, services.ErrInvalidDate),
		errors.Is(err, services.ErrInsufficientStock):
		respondValidationError(c, message, err)
	case errors.Is(err, services.ErrProductUnavailable),
		errors.Is(err, services.ErrPaymentNotAccepted):
		respondError(c, http.StatusUnprocessableEntity, "UNAVAILABLE", err.Error())
	case errors.Is(err, services.ErrStoreClosed):
		respondError(c, http.StatusConflict, "STORE_CLOSED", err.Error())
	case errors.Is(err, services.ErrProductNotFound):
		respondError(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found")
	case errors.Is(err, services.ErrOrderNotFound):
		respondError(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found")
	case errors.Is(err, services.ErrIngredientNotFound):
		respondError(c, http.StatusNotFound, "INGREDIENT_NOT_FOUND", "Ingredient not found")
	case errors.Is(err, services.ErrUserNotFound):
		respondError(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	case errors.Is(err, services.ErrEmailTaken):
		respondError(c, http.StatusConflict, "EMAIL_TAKEN", err.Error())
	case errors.Is(err, services.ErrLastAdmin):
		respondError(c, http.StatusConflict, "LAST_ADMIN", err.Error())
	case errors.Is(err, services.ErrStorageNotConfigured):
		respondError(c, http.StatusServiceUnavailable, "STORAGE_NOT_CONFIGURED", err.Error())
	default:
		zap.L().Error(message, zap.Error(err), zap.String("path", c.FullPath()))
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", message)
	}
}

// parseID reads a positive numeric path parameter
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := cast.ToUintE(c.Param(name))
	if err != nil || id == 0 {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid "+name)
		return 0, false
	}
	return id, true
}

// pageParams reads page and limit, falling back to page 1 and the default limit on bad input
func pageParams(c *gin.Context) (int, int) {
	page := cast.ToInt(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit := cast.ToInt(c.DefaultQuery("limit", "10"))
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

func newPagination(page, limit int, total int64) Pagination {
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}
}
