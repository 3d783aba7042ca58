package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/artisanbakery/bakery-api/config"
	"github.com/artisanbakery/bakery-api/models"
	"github.com/artisanbakery/bakery-api/services"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// productViews show catalog data and are refreshed after a product write
var productViews = []string{services.PathProducts, services.PathStorefront, services.PathDashboard}

var productSortColumns = map[string]string{
	"name":       "name",
	"price":      "price",
	"category":   "category",
	"created_at": "created_at",
}

// ProductRequest represents the request body for creating or updating a product
type ProductRequest struct {
	Name         string          `json:"name" binding:"required"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Category     string          `json:"category"`
	Active       *bool           `json:"active"`
	MadeToOrder  bool            `json:"made_to_order"`
	LeadTimeDays int             `json:"lead_time_days" binding:"gte=0"`
	ImageURL     string          `json:"image_url" binding:"omitempty,max=1024"`
}

func (r ProductRequest) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	if !r.Price.IsPositive() {
		return errors.New("price must be greater than zero")
	}
	return nil
}

func (r ProductRequest) apply(product *models.Product) {
	product.Name = strings.TrimSpace(r.Name)
	product.Description = strings.TrimSpace(r.Description)
	product.Price = r.Price.Round(2)
	product.Category = strings.TrimSpace(r.Category)
	product.MadeToOrder = r.MadeToOrder
	product.LeadTimeDays = r.LeadTimeDays
	product.ImageURL = strings.TrimSpace(r.ImageURL)
	if r.Active != nil {
		product.Active = *r.Active
	}
}

// ListProducts handles GET /api/v1/admin/products - paginated catalog.
// Optional filters: category, active, q; sort by name, price, category or created_at.
func ListProducts(c *gin.Context) {
	page, limit := pageParams(c)
	db := config.GetDB()

	category := strings.TrimSpace(c.Query("category"))
	search := strings.TrimSpace(c.Query("q"))
	activeFilter := c.Query("active")
	var active bool
	if activeFilter != "" {
		parsed, err := cast.ToBoolE(activeFilter)
		if err != nil {
			respondValidationError(c, "Invalid active filter", err)
			return
		}
		active = parsed
	}

	column, ok := productSortColumns[c.DefaultQuery("sort", "name")]
	if !ok {
		respondValidationError(c, "Invalid sort", fmt.Errorf("sort must be one of name, price, category, created_at"))
		return
	}
	direction := "ASC"
	if strings.EqualFold(c.Query("order"), "desc") {
		direction = "DESC"
	}

	filters := func(tx *gorm.DB) *gorm.DB {
		if category != "" {
			tx = tx.Where("category = ?", category)
		}
		if activeFilter != "" {
			tx = tx.Where("active = ?", active)
		}
		if search != "" {
			tx = tx.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
		}
		return tx
	}

	var total int64
	if err := db.Model(&models.Product{}).Scopes(filters).Count(&total).Error; err != nil {
		respondServiceError(c, err, "Failed to count products")
		return
	}

	products := []models.Product{}
	if err := db.Scopes(filters).
		Order(column + " " + direction).
		Order("id ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&products).Error; err != nil {
		respondServiceError(c, err, "Failed to fetch products")
		return
	}

	respondPage(c, products, newPagination(page, limit, total))
}

// GetProduct handles GET /api/v1/admin/products/:id
func GetProduct(c *gin.Context) {
	product, ok := findProduct(c)
	if !ok {
		return
	}
	respondSuccess(c, http.StatusOK, product)
}

// CreateProduct handles POST /api/v1/admin/products
func CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, "Invalid request data", err)
		return
	}
	if err := req.validate(); err != nil {
		respondValidationError(c, "Invalid request data", err)
		return
	}

	product := models.Product{Active: true}
	req.apply(&product)
	if err := config.GetDB().Create(&product).Error; err != nil {
		respondServiceError(c, err, "Failed to create product")
		return
	}

	zap.L().Info("product created", zap.Uint("product_id", product.ID), zap.String("name", product.Name))
	services.Revalidate(productViews...)
	respondSuccess(c, http.StatusCreated, product)
}

// UpdateProduct handles PUT /api/v1/admin/products/:id
func UpdateProduct(c *gin.Context) {
	product, ok := findProduct(c)
	if !ok {
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, "Invalid request data", err)
		return
	}
	if err := req.validate(); err != nil {
		respondValidationError(c, "Invalid request data", err)
		return
	}

	req.apply(&product)
	if err := config.GetDB().Save(&product).Error; err != nil {
		respondServiceError(c, err, "Failed to update product")
		return
	}

	services.Revalidate(productViews...)
	respondSuccess(c, http.StatusOK, product)
}

// ToggleProduct handles PATCH /api/v1/admin/products/:id/toggle - shows or hides a product on the storefront
func ToggleProduct(c *gin.Context) {
	product, ok := findProduct(c)
	if !ok {
		return
	}

	product.Active = !product.Active
	if err := config.GetDB().Model(&product).Update("active", product.Active).Error; err != nil {
		respondServiceError(c, err, "Failed to update product")
		return
	}

	services.Revalidate(productViews...)
	respondSuccess(c, http.StatusOK, product)
}

// DeleteProduct handles DELETE /api/v1/admin/products/:id. Past orders keep their item snapshots.
func DeleteProduct(c *gin.Context) {
	product, ok := findProduct(c)
	if !ok {
		return
	}

	if err := config.GetDB().Delete(&product).Error; err != nil {
		respondServiceError(c, err, "Failed to delete product")
		return
	}

	services.Revalidate(productViews...)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Product deleted",
	})
}

func findProduct(c *gin.Context) (models.Product, bool) {
	var product models.Product
	id, ok := parseID(c, "id")
	if !ok {
		return product, false
	}

	if err := config.GetDB().First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found")
			return product, false
		}
		respondServiceError(c, err, "Failed to fetch product")
		return product, false
	}
	return product, true
}
