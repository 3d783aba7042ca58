package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/artisanbakery/bakery-api/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LoadSettings returns the store settings, writing the defaults on first use
func LoadSettings(db *gorm.DB) (models.StoreSettings, error) {
	var settings models.StoreSettings
	err := db.First(&settings, models.StoreSettingsID).Error
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.StoreSettings{}, fmt.Errorf("failed to load store settings: %w", err)
	}

	settings = models.DefaultStoreSettings()
	if err := db.Create(&settings).Error; err != nil {
		return models.StoreSettings{}, fmt.Errorf("failed to create default store settings: %w", err)
	}
	return settings, nil
}

// EnsureSettings loads the settings at startup and warns when checkout cannot hand orders
// over to WhatsApp yet.
func EnsureSettings(db *gorm.DB) (models.StoreSettings, error) {
	settings, err := LoadSettings(db)
	if err != nil {
		return models.StoreSettings{}, err
	}
	if strings.TrimSpace(settings.WhatsAppNumber) == "" {
		zap.L().Warn("store WhatsApp number is not configured, checkout orders will have no whatsapp_url",
			zap.String("store", settings.StoreName))
	}
	return settings, nil
}

// SaveSettings overwrites the singleton settings row
func SaveSettings(db *gorm.DB, settings models.StoreSettings) (models.StoreSettings, error) {
	if _, err := LoadSettings(db); err != nil {
		return models.StoreSettings{}, err
	}
	settings.ID = models.StoreSettingsID
	if err := db.Save(&settings).Error; err != nil {
		return models.StoreSettings{}, fmt.Errorf("failed to save store settings: %w", err)
	}
	Revalidate(PathSettings, PathStorefront)
	return settings, nil
}
