package controllers

import (
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/artisanbakery/bakery-api/config"
	"github.com/artisanbakery/bakery-api/models"
	"github.com/artisanbakery/bakery-api/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// clock is the time source for date-relative reads
var clock = time.Now

// Catalog is the storefront page: the store header and the products on sale
type Catalog struct {
	Store      models.StoreSettings `json:"store"`
	Categories []string             `json:"categories"`
	Products   []models.Product     `json:"products"`
}

// QuoteRequest is the cart sent for pricing
type QuoteRequest struct {
	Items    []services.CartItem `json:"items" binding:"required,dive"`
	Delivery bool                `json:"delivery"`
}

// GetCatalog handles GET /api/v1/store/catalog - active products for the storefront
func GetCatalog(c *gin.Context) {
	category := strings.TrimSpace(c.Query("category"))
	cache := services.GetSnapshotCache()
	if category == "" {
		if cached, ok := cache.Get(services.PathStorefront); ok {
			respondSuccess(c, http.StatusOK, cached)
			return
		}
	}

	catalog, err := loadCatalog(config.GetDB(), category)
	if err != nil {
		// the storefront still renders, just without products
		zap.L().Error("failed to load catalog", zap.Error(err))
		respondSuccess(c, http.StatusOK, Catalog{
			Store:      models.DefaultStoreSettings(),
			Categories: []string{},
			Products:   []models.Product{},
		})
		return
	}

	if category == "" {
		cache.Set(services.PathStorefront, catalog)
	}
	respondSuccess(c, http.StatusOK, catalog)
}

func loadCatalog(db *gorm.DB, category string) (Catalog, error) {
	settings, err := services.LoadSettings(db)
	if err != nil {
		return Catalog{}, err
	}

	var products []models.Product
	if err := db.Where("active = ?", true).Order("category ASC, name ASC").Find(&products).Error; err != nil {
		return Catalog{}, err
	}

	seen := make(map[string]bool)
	catalog := Catalog{Store: settings, Categories: []string{}, Products: []models.Product{}}
	for _, product := range products {
		if product.Category != "" && !seen[product.Category] {
			seen[product.Category] = true
			catalog.Categories = append(catalog.Categories, product.Category)
		}
		if category == "" || strings.EqualFold(product.Category, category) {
			catalog.Products = append(catalog.Products, product)
		}
	}
	sort.Strings(catalog.Categories)
	return catalog, nil
}

// GetStoreProduct handles GET /api/v1/store/products/:id - one active product
func GetStoreProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var product models.Product
	if err := config.GetDB().Where("active = ?", true).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found")
			return
		}
		respondServiceError(c, err, "Failed to load product")
		return
	}
	respondSuccess(c, http.StatusOK, product)
}

// GetStoreSettings handles GET /api/v1/store/settings - store contact and ordering details
func GetStoreSettings(c *gin.Context) {
	settings, err := services.LoadSettings(config.GetDB())
	if err != nil {
		zap.L().Error("failed to load store settings", zap.Error(err))
		settings = models.DefaultStoreSettings()
	}
	respondSuccess(c, http.StatusOK, settings)
}

// QuoteCart handles POST /api/v1/store/cart/quote - prices a cart
func QuoteCart(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, "Invalid cart", err)
		return
	}

	db := config.GetDB()
	settings, err := services.LoadSettings(db)
	if err != nil {
		respondServiceError(c, err, "Failed to load store settings")
		return
	}
	quote, err := services.QuoteCart(db, req.Items, req.Delivery, settings)
	if err != nil {
		respondServiceError(c, err, "Failed to price cart")
		return
	}
	respondSuccess(c, http.StatusOK, quote)
}

// Checkout handles POST /api/v1/store/checkout - registers the order and returns the WhatsApp link
func Checkout(c *gin.Context) {
	var req services.CheckoutInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, "Invalid checkout data", err)
		return
	}

	result, err := services.Checkout(config.GetDB(), req)
	if err != nil {
		respondServiceError(c, err, "Failed to place order")
		return
	}
	respondSuccess(c, http.StatusCreated, result)
}
