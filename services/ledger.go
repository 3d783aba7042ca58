package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/artisanbakery/bakery-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrInvalidDate is returned when a ledger date cannot be understood
var ErrInvalidDate = errors.New("invalid date")

// ledgerViews are refreshed after a ledger write
var ledgerViews = []string{PathFinancial, PathDashboard}

// TransactionInput is a manual ledger entry. Date accepts any common date layout and
// defaults to now when empty.
type TransactionInput struct {
	Description string          `json:"description" binding:"required"`
	Type        string          `json:"type" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Date        string          `json:"date"`
}

// RecordTransaction writes a manual ledger entry
func RecordTransaction(db *gorm.DB, in TransactionInput, now time.Time) (*models.Transaction, error) {
	kind, err := models.ParseTransactionType(in.Type)
	if err != nil {
		return nil, err
	}
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be greater than zero", ErrInvalidAmount)
	}
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, fmt.Errorf("%w: description is required", ErrInvalidItem)
	}

	date := now
	if raw := strings.TrimSpace(in.Date); raw != "" {
		date, err = dateparse.ParseIn(raw, now.Location())
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
		}
	}

	entry := models.Transaction{
		Description: description,
		Type:        kind,
		Amount:      in.Amount.Round(2),
		Category:    strings.TrimSpace(in.Category),
		Date:        date,
	}
	if err := db.Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	Revalidate(ledgerViews...)
	return &entry, nil
}

// TransactionFilter narrows the ledger listing
type TransactionFilter struct {
	Type     string
	Category string
	Month    string // YYYY-MM
	// Location is where Month starts and ends, time.Local when nil
	Location *time.Location
}

// ListTransactions returns one page of ledger entries, newest first
func ListTransactions(db *gorm.DB, filter TransactionFilter, page, limit int) ([]models.Transaction, int64, error) {
	scope, err := filter.scope()
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := db.Model(&models.Transaction{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	entries := []models.Transaction{}
	if err := db.Scopes(scope).
		Order("date DESC, id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to load transactions: %w", err)
	}
	return entries, total, nil
}

func (f TransactionFilter) scope() (func(*gorm.DB) *gorm.DB, error) {
	var kind models.TransactionType
	if f.Type != "" {
		parsed, err := models.ParseTransactionType(f.Type)
		if err != nil {
			return nil, err
		}
		kind = parsed
	}
	var start time.Time
	if f.Month != "" {
		loc := f.Location
		if loc == nil {
			loc = time.Local
		}
		parsed, err := time.ParseInLocation("2006-01", f.Month, loc)
		if err != nil {
			return nil, fmt.Errorf("%w: month %q", ErrInvalidDate, f.Month)
		}
		start = parsed
	}

	return func(db *gorm.DB) *gorm.DB {
		if kind != "" {
			db = db.Where("type = ?", kind)
		}
		if f.Category != "" {
			db = db.Where("category = ?", f.Category)
		}
		if !start.IsZero() {
			db = db.Where("date >= ? AND date < ?", start.UTC(), start.AddDate(0, 1, 0).UTC())
		}
		return db
	}, nil
}
