package services

import (
	"testing"

	"github.com/artisanbakery/bakery-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoadSettingsCreatesDefaults(t *testing.T) {
	db := setupServiceTestDB(t)

	settings, err := LoadSettings(db)
	require.NoError(t, err)
	assert.Equal(t, "Padaria Artesanal", settings.StoreName)
	assert.True(t, settings.IsOpen)

	_, err = LoadSettings(db)
	require.NoError(t, err)
	var rows int64
	db.Model(&models.StoreSettings{}).Count(&rows)
	assert.Equal(t, int64(1), rows)
}

func TestSaveSettings(t *testing.T) {
	db := setupServiceTestDB(t)
	cache := GetSnapshotCache()
	cache.Set(PathStorefront, "stale")
	cache.Set(PathSettings, "stale")

	settings := models.DefaultStoreSettings()
	settings.ID = 99
	settings.StoreName = "Pão da Vila"
	settings.IsOpen = false
	settings.DeliveryFee = dec("6.50")

	saved, err := SaveSettings(db, settings)
	require.NoError(t, err)
	assert.Equal(t, uint(models.StoreSettingsID), saved.ID, "settings are a single row")

	loaded, err := LoadSettings(db)
	require.NoError(t, err)
	assert.Equal(t, "Pão da Vila", loaded.StoreName)
	assert.False(t, loaded.IsOpen)
	assert.True(t, dec("6.5").Equal(loaded.DeliveryFee))

	_, ok := cache.Get(PathStorefront)
	assert.False(t, ok)
	_, ok = cache.Get(PathSettings)
	assert.False(t, ok)
}

func TestEnsureSettingsWarnsWithoutWhatsAppNumber(t *testing.T) {
	db := setupServiceTestDB(t)
	core, logs := observer.New(zap.WarnLevel)
	defer zap.ReplaceGlobals(zap.New(core))()

	settings, err := EnsureSettings(db)
	require.NoError(t, err)
	assert.Empty(t, settings.WhatsAppNumber)
	require.Equal(t, 1, logs.Len())
	assert.Contains(t, logs.All()[0].Message, "WhatsApp number is not configured")

	settings.WhatsAppNumber = "5511999990000"
	_, err = SaveSettings(db, settings)
	require.NoError(t, err)

	_, err = EnsureSettings(db)
	require.NoError(t, err)
	assert.Equal(t, 1, logs.Len())
}
