package domain

import (
	"github.com/shopspring/decimal"
)

// MonthlySummary holds the finance dashboard aggregates for one month.
type MonthlySummary struct {
	Year             int             `json:"year"`
	Month            int             `json:"month"`
	MonthlyIncome    decimal.Decimal `json:"monthlyIncome"`
	MonthlyExpenses  decimal.Decimal `json:"monthlyExpenses"`
	MonthlyBalance   decimal.Decimal `json:"monthlyBalance"`
	TotalBalance     decimal.Decimal `json:"totalBalance"`
	TransactionCount int             `json:"transactionCount"`
}

// ReconcileResult reports the outcome of recomputing one account from source.
type ReconcileResult struct {
	AccountID       string          `json:"accountID"`
	StoredBalance   decimal.Decimal `json:"storedBalance"`
	ComputedBalance decimal.Decimal `json:"computedBalance"`
	Drift           decimal.Decimal `json:"drift"`
	Corrected       bool            `json:"corrected"`
}

// ReportKind selects one of the report variants.
type ReportKind string

const (
	ReportMonthly         ReportKind = "monthly"
	ReportExpenseAnalysis ReportKind = "expense-analysis"
	ReportCashFlow        ReportKind = "cash-flow"
)

// Valid reports whether k is a known report kind.
func (k ReportKind) Valid() bool {
	return k == ReportMonthly || k == ReportExpenseAnalysis || k == ReportCashFlow
}

// ReportFormat is the output file format of a report.
type ReportFormat string

const (
	FormatPDF  ReportFormat = "pdf"
	FormatXLSX ReportFormat = "xlsx"
)
