package report_test

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/bizos_backend/internal/apperrors"
	"github.com/SscSPs/bizos_backend/internal/core/domain"
	"github.com/SscSPs/bizos_backend/internal/report"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func strPtr(s string) *string { return &s }

func day(d int) time.Time {
	return time.Date(2026, time.October, d, 0, 0, 0, 0, time.UTC)
}

func expense(id, amount string, date time.Time, categoryID *string) domain.Transaction {
	return domain.Transaction{
		TransactionID: id,
		Type:          domain.Expense,
		Amount:        decimal.RequireFromString(amount),
		Description:   "despesa " + id,
		Date:          date,
		AccountID:     "acc-1",
		CategoryID:    categoryID,
	}
}

func income(id, amount string, date time.Time) domain.Transaction {
	t := expense(id, amount, date, nil)
	t.Type = domain.Income
	return t
}

func findTable(t *testing.T, doc report.Document, title string) report.Table {
	t.Helper()
	for _, tbl := range doc.Tables {
		if tbl.Title == title {
			return tbl
		}
	}
	require.Failf(t, "table not found", "title %q", title)
	return report.Table{}
}

func TestCategoryBreakdown_OmitsSmallSharesAndGroupsUncategorized(t *testing.T) {
	categories := []domain.Category{
		{CategoryID: "rent", Name: "Aluguel", Type: domain.Expense, Color: "#EF4444"},
		{CategoryID: "tax", Name: "Impostos", Type: domain.Expense, Color: "#DC2626"},
	}
	txns := []domain.Transaction{
		expense("1", "900", day(1), strPtr("rent")),
		expense("2", "5", day(2), strPtr("tax")), // 0.5%
		expense("3", "95", day(3), nil),
		expense("4", "0", day(3), strPtr("gone")),
		income("5", "5000", day(4)),
	}

	shares := report.CategoryBreakdown(txns, categories, domain.Expense)

	require.Len(t, shares, 2)
	assert.Equal(t, "Aluguel", shares[0].Name)
	assert.True(t, decimal.NewFromInt(90).Equal(shares[0].Percent))
	assert.Equal(t, report.Color{R: 0xEF, G: 0x44, B: 0x44}, shares[0].Color)
	assert.Equal(t, report.Uncategorized, shares[1].Name)
	assert.Equal(t, 2, shares[1].Count)
	assert.True(t, decimal.NewFromInt(95).Equal(shares[1].Total))
}

func TestExpenseStats(t *testing.T) {
	txns := []domain.Transaction{
		expense("1", "300", day(1), nil),
		expense("2", "100", day(2), nil),
		expense("3", "200", day(3), nil),
		income("4", "1000", day(4)),
	}

	stats := report.ExpenseStats(txns, 2026, time.October)

	assert.Equal(t, 3, stats.Count)
	assert.True(t, decimal.NewFromInt(300).Equal(stats.Max))
	assert.True(t, decimal.NewFromInt(100).Equal(stats.Min))
	assert.True(t, decimal.NewFromInt(200).Equal(stats.Mean))
	assert.True(t, decimal.NewFromInt(20).Equal(stats.PerDay))
	assert.Equal(t, "19.35", stats.PerCalendarDay.StringFixed(2))
}

func TestExpenseStats_NoExpenses(t *testing.T) {
	stats := report.ExpenseStats([]domain.Transaction{income("1", "10", day(1))}, 2026, time.October)
	assert.Zero(t, stats.Count)
	assert.True(t, stats.PerDay.IsZero())
	assert.True(t, stats.Min.IsZero())
}

func TestCashFlow_GroupsByDateAscending(t *testing.T) {
	txns := []domain.Transaction{
		expense("1", "40", day(15).Add(15*time.Hour), nil),
		income("2", "100", day(3)),
		income("3", "60", day(15)),
		expense("4", "10", day(3), nil),
	}

	days := report.CashFlow(txns)

	require.Len(t, days, 2)
	assert.Equal(t, day(3), days[0].Date)
	assert.True(t, decimal.NewFromInt(90).Equal(days[0].Net))
	assert.Equal(t, day(15), days[1].Date)
	assert.True(t, decimal.NewFromInt(60).Equal(days[1].Income))
	assert.True(t, decimal.NewFromInt(40).Equal(days[1].Expense))
	assert.True(t, decimal.NewFromInt(20).Equal(days[1].Net))
}

func TestBuild_MonthlyListingCapsAtFifty(t *testing.T) {
	var txns []domain.Transaction
	for i := 0; i < 73; i++ {
		txns = append(txns, expense(fmt.Sprintf("t%02d", i), "1", day(1+i%28), nil))
	}

	doc, err := report.Build(report.Input{
		Kind:         domain.ReportMonthly,
		Year:         2026,
		Month:        time.October,
		Transactions: txns,
		GeneratedAt:  day(18),
	})
	require.NoError(t, err)

	assert.Equal(t, "Relatório Mensal", doc.Title)
	assert.Equal(t, "outubro de 2026", doc.Period)
	listing := findTable(t, doc, "Transações recentes")
	assert.Len(t, listing.Rows, report.RecentLimit)
	assert.Equal(t, "+23 transações não exibidas", listing.Note)
	assert.Equal(t, report.Uncategorized, listing.Rows[0][2].Text)
	assert.Equal(t, report.UnknownAccount, listing.Rows[0][3].Text)
	assert.Equal(t, "Despesa", listing.Rows[0][4].Text)
	assert.Equal(t, "28/10/2026", listing.Rows[0][0].Text)
}

func TestBuild_IgnoresOtherMonths(t *testing.T) {
	september := time.Date(2026, time.September, 30, 0, 0, 0, 0, time.UTC)
	doc, err := report.Build(report.Input{
		Kind:         domain.ReportCashFlow,
		Year:         2026,
		Month:        time.October,
		Transactions: []domain.Transaction{income("1", "10", september), income("2", "20", day(1))},
	})
	require.NoError(t, err)

	flow := findTable(t, doc, "Fluxo diário")
	require.Len(t, flow.Rows, 1)
	assert.Equal(t, "01/10/2026", flow.Rows[0][0].Text)
}

func TestBuild_RejectsUnknownKind(t *testing.T) {
	_, err := report.Build(report.Input{Kind: "weekly", Year: 2026, Month: time.October})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "cash-flow-outubro-de-2026.pdf", report.Filename(domain.ReportCashFlow, 2026, time.October, domain.FormatPDF))
	assert.Equal(t, "monthly-março-de-2026.xlsx", report.Filename(domain.ReportMonthly, 2026, time.March, domain.FormatXLSX))
}

func TestRender_ProducesPDFAndWorkbook(t *testing.T) {
	var txns []domain.Transaction
	for i := 0; i < 120; i++ {
		txns = append(txns, income(fmt.Sprintf("i%03d", i), "10", day(1+i%28)))
	}
	doc, err := report.Build(report.Input{
		Kind: domain.ReportMonthly, Year: 2026, Month: time.October,
		Transactions: txns, GeneratedAt: day(18),
	})
	require.NoError(t, err)

	pdf, contentType, err := report.Render(doc, domain.FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, report.ContentTypePDF, contentType)
	assert.Equal(t, "%PDF", string(pdf[:4]))

	xlsx, contentType, err := report.Render(doc, domain.FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, report.ContentTypeXLSX, contentType)
	assert.Equal(t, "PK", string(xlsx[:2]))

	_, _, err = report.Render(doc, "csv")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestRenderXLSX_WritesHeaderOnFirstSheet(t *testing.T) {
	doc, err := report.Build(report.Input{
		Kind: domain.ReportCashFlow, Year: 2026, Month: time.October,
		Transactions: []domain.Transaction{income("1", "100", day(3))}, GeneratedAt: day(18),
	})
	require.NoError(t, err)

	raw, err := report.RenderXLSX(doc)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	require.Len(t, sheets, len(doc.Tables))
	title, err := f.GetCellValue(sheets[0], "A1")
	require.NoError(t, err)
	assert.Equal(t, report.Product+" - "+doc.Title, title)
	period, err := f.GetCellValue(sheets[0], "A2")
	require.NoError(t, err)
	assert.Equal(t, doc.Period, period)
}
