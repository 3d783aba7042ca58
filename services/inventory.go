package services

import (
	"errors"
	"fmt"

	"github.com/artisanbakery/bakery-api/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrInsufficientStock  = errors.New("stock cannot go below zero")
)

// ingredientViews are refreshed after any inventory write
var ingredientViews = []string{PathIngredients, PathDashboard}

// AdjustStock adds delta (negative to consume) to an ingredient's stock
func AdjustStock(db *gorm.DB, id uint, delta float64) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&ingredient, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrIngredientNotFound
			}
			return fmt.Errorf("failed to load ingredient: %w", err)
		}

		stock := ingredient.Stock + delta
		if stock < 0 {
			return fmt.Errorf("%w: %s has %.3f %s", ErrInsufficientStock, ingredient.Name, ingredient.Stock, ingredient.Unit)
		}
		if err := tx.Model(&ingredient).Update("stock", stock).Error; err != nil {
			return fmt.Errorf("failed to update stock: %w", err)
		}
		ingredient.Stock = stock
		return nil
	})
	if err != nil {
		return nil, err
	}

	ingredient.Status = models.ClassifyStock(ingredient.Stock, ingredient.MinStock)
	if ingredient.IsCritical() {
		zap.L().Warn("ingredient stock is critical",
			zap.String("ingredient", ingredient.Name),
			zap.Float64("stock", ingredient.Stock),
			zap.Float64("min_stock", ingredient.MinStock))
	}
	InvalidateInventory()
	return &ingredient, nil
}

// InvalidateInventory drops the snapshots that show ingredient data
func InvalidateInventory() {
	Revalidate(ingredientViews...)
}
