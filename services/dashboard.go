package services

import (
	"fmt"
	"time"

	"github.com/artisanbakery/bakery-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RecentOrdersLimit is how many orders the dashboard lists
const RecentOrdersLimit = 5

// DashboardSummary is the read model behind the back-office home page
type DashboardSummary struct {
	OrdersToday         int64               `json:"orders_today"`
	PendingOrders       int64               `json:"pending_orders"`
	ActiveProducts      int64               `json:"active_products"`
	MonthIncome         decimal.Decimal     `json:"month_income"`
	MonthExpense        decimal.Decimal     `json:"month_expense"`
	MonthNet            decimal.Decimal     `json:"month_net"`
	CriticalIngredients []models.Ingredient `json:"critical_ingredients"`
	RecentOrders        []models.Order      `json:"recent_orders"`
}

// EmptyDashboard is shown when the dashboard cannot be computed
func EmptyDashboard() DashboardSummary {
	return DashboardSummary{
		MonthIncome:         decimal.Zero,
		MonthExpense:        decimal.Zero,
		MonthNet:            decimal.Zero,
		CriticalIngredients: []models.Ingredient{},
		RecentOrders:        []models.Order{},
	}
}

// BuildDashboard gathers the dashboard figures as of now
func BuildDashboard(db *gorm.DB, now time.Time) (DashboardSummary, error) {
	summary := EmptyDashboard()

	year, month, day := now.Date()
	startOfDay := time.Date(year, month, day, 0, 0, 0, 0, now.Location())
	if err := db.Model(&models.Order{}).
		Where("created_at >= ? AND created_at < ?", startOfDay, startOfDay.AddDate(0, 0, 1)).
		Count(&summary.OrdersToday).Error; err != nil {
		return EmptyDashboard(), fmt.Errorf("failed to count today's orders: %w", err)
	}
	if err := db.Model(&models.Order{}).
		Where("status = ?", models.StatusPending).
		Count(&summary.PendingOrders).Error; err != nil {
		return EmptyDashboard(), fmt.Errorf("failed to count pending orders: %w", err)
	}
	if err := db.Model(&models.Product{}).
		Where("active = ?", true).
		Count(&summary.ActiveProducts).Error; err != nil {
		return EmptyDashboard(), fmt.Errorf("failed to count active products: %w", err)
	}

	var ingredients []models.Ingredient
	if err := db.Order("name ASC").Find(&ingredients).Error; err != nil {
		return EmptyDashboard(), fmt.Errorf("failed to load ingredients: %w", err)
	}
	for _, ingredient := range ingredients {
		if ingredient.IsCritical() {
			summary.CriticalIngredients = append(summary.CriticalIngredients, ingredient)
		}
	}

	if err := db.Preload("Items").
		Order("created_at DESC").
		Limit(RecentOrdersLimit).
		Find(&summary.RecentOrders).Error; err != nil {
		return EmptyDashboard(), fmt.Errorf("failed to load recent orders: %w", err)
	}

	report, err := LoadFinancialReport(db, now)
	if err != nil {
		return EmptyDashboard(), err
	}
	summary.MonthIncome = report.Summary.Income
	summary.MonthExpense = report.Summary.Expense
	summary.MonthNet = report.Summary.Net

	return summary, nil
}
