package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/artisanbakery/bakery-api/models"
	"github.com/gocarina/gocsv"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Content types of the report exports
const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeCSV  = "text/csv; charset=utf-8"
)

const (
	summarySheet = "Sheet1"
	ledgerSheet  = "Lancamentos"
)

// ErrStorageNotConfigured is returned when archiving is requested without an S3 bucket
var ErrStorageNotConfigured = errors.New("report storage is not configured")

// ledgerRow is the CSV shape of a ledger entry
type ledgerRow struct {
	Date        string `csv:"data"`
	Type        string `csv:"tipo"`
	Category    string `csv:"categoria"`
	Description string `csv:"descricao"`
	Amount      string `csv:"valor"`
	OrderID     string `csv:"pedido"`
}

// LedgerCSV renders ledger entries as CSV
func LedgerCSV(entries []models.Transaction) ([]byte, error) {
	rows := make([]ledgerRow, 0, len(entries))
	for _, entry := range entries {
		row := ledgerRow{
			Date:        entry.Date.Format("2006-01-02"),
			Type:        string(entry.Type),
			Category:    entry.Category,
			Description: entry.Description,
			Amount:      entry.Amount.StringFixed(2),
		}
		if entry.OrderID != nil {
			row.OrderID = fmt.Sprintf("%d", *entry.OrderID)
		}
		rows = append(rows, row)
	}

	var buf bytes.Buffer
	if err := gocsv.Marshal(&rows, &buf); err != nil {
		return nil, fmt.Errorf("failed to render CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// FinancialReportXLSX renders the report and its ledger entries as a workbook with a summary
// sheet and a ledger sheet.
func FinancialReportXLSX(report FinancialReport, entries []models.Transaction) ([]byte, error) {
	f := excelize.NewFile()

	row := 1
	setRow(f, summarySheet, row, "Mês", report.Month)
	row++
	setRow(f, summarySheet, row, "Receitas", report.Summary.Income.InexactFloat64())
	row++
	setRow(f, summarySheet, row, "Despesas", report.Summary.Expense.InexactFloat64())
	row++
	setRow(f, summarySheet, row, "Saldo", report.Summary.Net.InexactFloat64())
	row += 2

	setRow(f, summarySheet, row, "Categoria", "Valor", "%")
	for _, share := range report.ExpensesByCategory {
		row++
		setRow(f, summarySheet, row, share.Category, share.Amount.InexactFloat64(), share.Percentage)
	}
	row += 2

	setRow(f, summarySheet, row, "Mês", "Receitas", "Despesas")
	for _, month := range report.Monthly {
		row++
		setRow(f, summarySheet, row, month.Key, month.Income.InexactFloat64(), month.Expense.InexactFloat64())
	}

	f.NewSheet(ledgerSheet)
	setRow(f, ledgerSheet, 1, "Data", "Tipo", "Categoria", "Descrição", "Valor", "Pedido")
	for i, entry := range entries {
		orderID := ""
		if entry.OrderID != nil {
			orderID = fmt.Sprintf("%d", *entry.OrderID)
		}
		setRow(f, ledgerSheet, i+2,
			entry.Date.Format("2006-01-02"),
			string(entry.Type),
			entry.Category,
			entry.Description,
			entry.Amount.InexactFloat64(),
			orderID,
		)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// ArchivedReport is a report stored in S3
type ArchivedReport struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// ArchiveFinancialReport renders the report for now as a workbook, stores it in S3 and returns
// a presigned download link.
func ArchiveFinancialReport(ctx context.Context, db *gorm.DB, storage S3Interface, now time.Time) (*ArchivedReport, error) {
	if storage == nil {
		return nil, ErrStorageNotConfigured
	}

	entries, err := LoadLedgerWindow(db, now)
	if err != nil {
		return nil, err
	}
	body, err := FinancialReportXLSX(BuildFinancialReport(entries, now), entries)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("reports/financeiro_%s_%d.xlsx", MonthKey(now), now.Unix())
	if err := storage.UploadObject(ctx, key, ContentTypeXLSX, body); err != nil {
		return nil, err
	}
	url, err := storage.GetPresignedURL(ctx, key)
	if err != nil {
		// a report nobody can download is removed so retries don't pile up objects
		if delErr := storage.DeleteObject(ctx, key); delErr != nil {
			zap.L().Warn("failed to remove unreachable report archive", zap.String("key", key), zap.Error(delErr))
		}
		return nil, err
	}
	return &ArchivedReport{Key: key, URL: url}, nil
}

// setRow writes values into consecutive columns starting at A
func setRow(f *excelize.File, sheet string, row int, values ...interface{}) {
	for col, value := range values {
		f.SetCellValue(sheet, fmt.Sprintf("%c%d", 'A'+col, row), value)
	}
}
