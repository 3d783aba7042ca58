package services

import (
	"testing"

	"github.com/artisanbakery/bakery-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	// one connection keeps every query on the same in-memory database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(models.Tables...); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	SetSnapshotCache(NewSnapshotCache(DefaultSnapshotTTL))
	return db
}

func createProduct(t *testing.T, db *gorm.DB, name, price string, active bool) models.Product {
	t.Helper()

	product := models.Product{
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Category: "Pães",
		Active:   active,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("Failed to create product: %v", err)
	}
	return product
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func uintPtr(v uint) *uint {
	return &v
}

func decPtr(value string) *decimal.Decimal {
	d := dec(value)
	return &d
}
