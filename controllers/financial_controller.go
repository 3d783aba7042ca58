package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/artisanbakery/bakery-api/config"
	"github.com/artisanbakery/bakery-api/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GetFinancialReport handles GET /api/v1/admin/financial - current month summary, expense
// breakdown and the six month series
func GetFinancialReport(c *gin.Context) {
	cache := services.GetSnapshotCache()
	if cached, ok := cache.Get(services.PathFinancial); ok {
		respondSuccess(c, http.StatusOK, cached)
		return
	}

	now := clock()
	report, err := services.LoadFinancialReport(config.GetDB(), now)
	if err != nil {
		zap.L().Error("failed to load financial report", zap.Error(err))
		respondSuccess(c, http.StatusOK, services.EmptyFinancialReport(now))
		return
	}

	cache.Set(services.PathFinancial, report)
	respondSuccess(c, http.StatusOK, report)
}

// ListTransactions handles GET /api/v1/admin/transactions - paginated ledger entries.
// Optional filters: type, category and month (YYYY-MM).
func ListTransactions(c *gin.Context) {
	page, limit := pageParams(c)
	filter := services.TransactionFilter{
		Type:     c.Query("type"),
		Category: strings.TrimSpace(c.Query("category")),
		Month:    c.Query("month"),
		Location: clock().Location(),
	}

	entries, total, err := services.ListTransactions(config.GetDB(), filter, page, limit)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch transactions")
		return
	}
	respondPage(c, entries, newPagination(page, limit, total))
}

// CreateTransaction handles POST /api/v1/admin/transactions - records a manual ledger entry
func CreateTransaction(c *gin.Context) {
	var req services.TransactionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, "Invalid request data", err)
		return
	}

	entry, err := services.RecordTransaction(config.GetDB(), req, clock())
	if err != nil {
		respondServiceError(c, err, "Failed to record transaction")
		return
	}
	respondSuccess(c, http.StatusCreated, entry)
}

// ExportFinancialReport handles GET /api/v1/admin/financial/export?format=xlsx|csv
func ExportFinancialReport(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", "xlsx"))
	if format != "xlsx" && format != "csv" {
		respondValidationError(c, "Invalid export format", fmt.Errorf("format must be xlsx or csv, got %q", format))
		return
	}

	now := clock()
	entries, err := services.LoadLedgerWindow(config.GetDB(), now)
	if err != nil {
		respondServiceError(c, err, "Failed to load ledger")
		return
	}

	var (
		body        []byte
		contentType string
	)
	if format == "csv" {
		body, err = services.LedgerCSV(entries)
		contentType = services.ContentTypeCSV
	} else {
		body, err = services.FinancialReportXLSX(services.BuildFinancialReport(entries, now), entries)
		contentType = services.ContentTypeXLSX
	}
	if err != nil {
		respondServiceError(c, err, "Failed to export report")
		return
	}

	filename := fmt.Sprintf("financeiro_%s.%s", services.MonthKey(now), format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, body)
}

// ArchiveFinancialReport handles POST /api/v1/admin/financial/archive - stores the workbook in S3
func ArchiveFinancialReport(c *gin.Context) {
	archived, err := services.ArchiveFinancialReport(c.Request.Context(), config.GetDB(), services.GetS3Service(), clock())
	if err != nil {
		respondServiceError(c, err, "Failed to archive report")
		return
	}

	zap.L().Info("financial report archived", zap.String("key", archived.Key))
	respondSuccess(c, http.StatusCreated, archived)
}
