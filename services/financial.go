package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/artisanbakery/bakery-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReportMonths is the length of the trailing monthly series
const ReportMonths = 6

// UncategorizedLabel groups ledger entries saved without a category
const UncategorizedLabel = "Outros"

var monthAbbreviations = [12]string{"jan", "fev", "mar", "abr", "mai", "jun", "jul", "ago", "set", "out", "nov", "dez"}

var hundred = decimal.NewFromInt(100)

// FinancialSummary holds the current month totals
type FinancialSummary struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

// CategoryShare is one category of the current month's expenses
type CategoryShare struct {
	Category   string          `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage int64           `json:"percentage"`
}

// MonthlyTotals is one calendar month of the trailing series
type MonthlyTotals struct {
	Key     string          `json:"key"` // YYYY-MM
	Label   string          `json:"label"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// FinancialReport is the read model behind the financial dashboard
type FinancialReport struct {
	Month              string           `json:"month"`
	Summary            FinancialSummary `json:"summary"`
	ExpensesByCategory []CategoryShare  `json:"expenses_by_category"`
	Monthly            []MonthlyTotals  `json:"monthly"`
}

// ReportWindow returns the [start, end) range covered by a report computed at now: the first
// day of the month ReportMonths-1 months back through the end of the current month.
func ReportWindow(now time.Time) (time.Time, time.Time) {
	year, month, _ := now.Date()
	currentMonth := time.Date(year, month, 1, 0, 0, 0, 0, now.Location())
	return currentMonth.AddDate(0, -(ReportMonths - 1), 0), currentMonth.AddDate(0, 1, 0)
}

// MonthKey formats the calendar month of t as YYYY-MM
func MonthKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}

// MonthLabel returns the abbreviated pt-BR name of t's month
func MonthLabel(t time.Time) string {
	return monthAbbreviations[t.Month()-1]
}

// EmptyFinancialReport is the zero-valued report for now, used when the ledger cannot be read
func EmptyFinancialReport(now time.Time) FinancialReport {
	start, _ := ReportWindow(now)
	monthly := make([]MonthlyTotals, 0, ReportMonths)
	for i := 0; i < ReportMonths; i++ {
		month := start.AddDate(0, i, 0)
		monthly = append(monthly, MonthlyTotals{
			Key:     MonthKey(month),
			Label:   MonthLabel(month),
			Income:  decimal.Zero,
			Expense: decimal.Zero,
		})
	}
	return FinancialReport{
		Month: MonthKey(now),
		Summary: FinancialSummary{
			Income:  decimal.Zero,
			Expense: decimal.Zero,
			Net:     decimal.Zero,
		},
		ExpensesByCategory: []CategoryShare{},
		Monthly:            monthly,
	}
}

// BuildFinancialReport reduces ledger entries into the report for now. Entries outside the
// report window are ignored and the input is not modified.
func BuildFinancialReport(entries []models.Transaction, now time.Time) FinancialReport {
	report := EmptyFinancialReport(now)
	start, end := ReportWindow(now)

	buckets := make(map[string]int, len(report.Monthly))
	for i, bucket := range report.Monthly {
		buckets[bucket.Key] = i
	}

	expenses := make(map[string]decimal.Decimal)
	for _, entry := range entries {
		date := entry.Date.In(now.Location())
		if date.Before(start) || !date.Before(end) {
			continue
		}

		key := MonthKey(date)
		if i, ok := buckets[key]; ok {
			switch entry.Type {
			case models.TransactionIncome:
				report.Monthly[i].Income = report.Monthly[i].Income.Add(entry.Amount)
			case models.TransactionExpense:
				report.Monthly[i].Expense = report.Monthly[i].Expense.Add(entry.Amount)
			}
		}

		if key != report.Month {
			continue
		}
		switch entry.Type {
		case models.TransactionIncome:
			report.Summary.Income = report.Summary.Income.Add(entry.Amount)
		case models.TransactionExpense:
			report.Summary.Expense = report.Summary.Expense.Add(entry.Amount)
			category := strings.TrimSpace(entry.Category)
			if category == "" {
				category = UncategorizedLabel
			}
			expenses[category] = expenses[category].Add(entry.Amount)
		}
	}
	report.Summary.Net = report.Summary.Income.Sub(report.Summary.Expense)

	// shares are rounded independently and may not add up to exactly 100
	divisor := report.Summary.Expense
	if divisor.IsZero() {
		divisor = decimal.NewFromInt(1)
	}
	for category, amount := range expenses {
		report.ExpensesByCategory = append(report.ExpensesByCategory, CategoryShare{
			Category:   category,
			Amount:     amount,
			Percentage: amount.Div(divisor).Mul(hundred).Round(0).IntPart(),
		})
	}
	sort.Slice(report.ExpensesByCategory, func(i, j int) bool {
		a, b := report.ExpensesByCategory[i], report.ExpensesByCategory[j]
		if cmp := a.Amount.Cmp(b.Amount); cmp != 0 {
			return cmp > 0
		}
		return a.Category < b.Category
	})

	return report
}

// LoadLedgerWindow reads the ledger entries inside the report window of now
func LoadLedgerWindow(db *gorm.DB, now time.Time) ([]models.Transaction, error) {
	start, end := ReportWindow(now)
	var entries []models.Transaction
	if err := db.Where("date >= ? AND date < ?", start.UTC(), end.UTC()).
		Order("date ASC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to load ledger entries: %w", err)
	}
	return entries, nil
}

// LoadFinancialReport reads the report window from the database and builds the report
func LoadFinancialReport(db *gorm.DB, now time.Time) (FinancialReport, error) {
	entries, err := LoadLedgerWindow(db, now)
	if err != nil {
		return FinancialReport{}, err
	}
	return BuildFinancialReport(entries, now), nil
}
