package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/artisanbakery/bakery-api/config"
	"github.com/artisanbakery/bakery-api/models"
	"github.com/artisanbakery/bakery-api/services"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// IngredientRequest represents the request body for creating or updating an ingredient
type IngredientRequest struct {
	Name     string          `json:"name" binding:"required"`
	Unit     string          `json:"unit"`
	UnitCost decimal.Decimal `json:"unit_cost"`
	Stock    float64         `json:"stock" binding:"gte=0"`
	MinStock float64         `json:"min_stock" binding:"gte=0"`
}

// StockAdjustmentRequest is a signed change to an ingredient's stock
type StockAdjustmentRequest struct {
	Delta float64 `json:"delta" binding:"required"`
}

func (r IngredientRequest) apply(ingredient *models.Ingredient) {
	ingredient.Name = strings.TrimSpace(r.Name)
	ingredient.Unit = strings.TrimSpace(r.Unit)
	if ingredient.Unit == "" {
		ingredient.Unit = "un"
	}
	ingredient.UnitCost = r.UnitCost.Round(2)
	ingredient.Stock = r.Stock
	ingredient.MinStock = r.MinStock
}

func bindIngredient(c *gin.Context) (IngredientRequest, bool) {
	var req IngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, "Invalid request data", err)
		return req, false
	}
	if strings.TrimSpace(req.Name) == "" {
		respondValidationError(c, "Invalid request data", errors.New("name is required"))
		return req, false
	}
	if req.UnitCost.IsNegative() {
		respondValidationError(c, "Invalid request data", services.ErrInvalidAmount)
		return req, false
	}
	return req, true
}

// ListIngredients handles GET /api/v1/admin/ingredients - inventory with stock status.
// critical=true lists only ingredients at or below their minimum.
func ListIngredients(c *gin.Context) {
	onlyCritical := c.Query("critical") == "true"
	cache := services.GetSnapshotCache()

	var ingredients []models.Ingredient
	if cached, ok := cache.Get(services.PathIngredients); ok {
		ingredients = cached.([]models.Ingredient)
	} else {
		if err := config.GetDB().Order("name ASC").Find(&ingredients).Error; err != nil {
			respondServiceError(c, err, "Failed to fetch ingredients")
			return
		}
		cache.Set(services.PathIngredients, ingredients)
	}

	result := make([]models.Ingredient, 0, len(ingredients))
	for _, ingredient := range ingredients {
		if onlyCritical && !ingredient.IsCritical() {
			continue
		}
		result = append(result, ingredient)
	}
	respondSuccess(c, http.StatusOK, result)
}

// GetIngredient handles GET /api/v1/admin/ingredients/:id
func GetIngredient(c *gin.Context) {
	ingredient, ok := findIngredient(c)
	if !ok {
		return
	}
	respondSuccess(c, http.StatusOK, ingredient)
}

// CreateIngredient handles POST /api/v1/admin/ingredients
func CreateIngredient(c *gin.Context) {
	req, ok := bindIngredient(c)
	if !ok {
		return
	}

	var ingredient models.Ingredient
	req.apply(&ingredient)
	if err := config.GetDB().Create(&ingredient).Error; err != nil {
		respondServiceError(c, err, "Failed to create ingredient")
		return
	}

	services.InvalidateInventory()
	respondSuccess(c, http.StatusCreated, ingredient)
}

// UpdateIngredient handles PUT /api/v1/admin/ingredients/:id
func UpdateIngredient(c *gin.Context) {
	ingredient, ok := findIngredient(c)
	if !ok {
		return
	}
	req, ok := bindIngredient(c)
	if !ok {
		return
	}

	req.apply(&ingredient)
	if err := config.GetDB().Save(&ingredient).Error; err != nil {
		respondServiceError(c, err, "Failed to update ingredient")
		return
	}

	services.InvalidateInventory()
	respondSuccess(c, http.StatusOK, ingredient)
}

// AdjustIngredientStock handles POST /api/v1/admin/ingredients/:id/stock
func AdjustIngredientStock(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req StockAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, "Invalid request data", err)
		return
	}

	ingredient, err := services.AdjustStock(config.GetDB(), id, req.Delta)
	if err != nil {
		respondServiceError(c, err, "Failed to adjust stock")
		return
	}
	respondSuccess(c, http.StatusOK, ingredient)
}

// DeleteIngredient handles DELETE /api/v1/admin/ingredients/:id
func DeleteIngredient(c *gin.Context) {
	ingredient, ok := findIngredient(c)
	if !ok {
		return
	}

	if err := config.GetDB().Delete(&ingredient).Error; err != nil {
		respondServiceError(c, err, "Failed to delete ingredient")
		return
	}

	services.InvalidateInventory()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Ingredient deleted",
	})
}

func findIngredient(c *gin.Context) (models.Ingredient, bool) {
	var ingredient models.Ingredient
	id, ok := parseID(c, "id")
	if !ok {
		return ingredient, false
	}

	if err := config.GetDB().First(&ingredient, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "INGREDIENT_NOT_FOUND", "Ingredient not found")
			return ingredient, false
		}
		respondServiceError(c, err, "Failed to fetch ingredient")
		return ingredient, false
	}
	return ingredient, true
}
