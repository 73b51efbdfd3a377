package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/bizos_backend/internal/apperrors"
	"github.com/SscSPs/bizos_backend/internal/core/domain"
	"github.com/SscSPs/bizos_backend/internal/utils"
	"github.com/SscSPs/bizos_backend/internal/utils/finance"
	"github.com/shopspring/decimal"
)

const (
	// Uncategorized labels transactions without a (known) category.
	Uncategorized = "Sem categoria"
	// UnknownAccount labels transactions whose account no longer exists.
	UnknownAccount = "Conta não encontrada"

	// RecentLimit caps the monthly transaction listing.
	RecentLimit = 50

	nominalMonthDays = 30
)

var (
	minShare     = decimal.NewFromInt(1)
	defaultColor = Color{107, 114, 128}
)

// Input is everything a report needs. Transactions may span more than the
// period; only those dated inside Year/Month are used.
type Input struct {
	Kind         domain.ReportKind
	Year         int
	Month        time.Month
	Transactions []domain.Transaction
	Accounts     []domain.Account
	Categories   []domain.Category
	GeneratedAt  time.Time
}

// CategoryShare is one row of a category breakdown.
type CategoryShare struct {
	CategoryID string
	Name       string
	Color      Color
	Count      int
	Total      decimal.Decimal
	Percent    decimal.Decimal
}

// CategoryBreakdown groups transactions of type typ by category, largest first.
// Categories contributing less than 1% of the type's total are left out.
func CategoryBreakdown(txns []domain.Transaction, categories []domain.Category, typ domain.TransactionType) []CategoryShare {
	byID := make(map[string]domain.Category, len(categories))
	for _, c := range categories {
		byID[c.CategoryID] = c
	}

	groups := make(map[string]*CategoryShare)
	total := decimal.Zero
	for _, t := range txns {
		if t.Type != typ {
			continue
		}
		total = total.Add(t.Amount)

		key := ""
		if t.CategoryID != nil {
			if _, ok := byID[*t.CategoryID]; ok {
				key = *t.CategoryID
			}
		}
		g, ok := groups[key]
		if !ok {
			g = &CategoryShare{CategoryID: key, Name: Uncategorized, Color: defaultColor, Total: decimal.Zero}
			if c, found := byID[key]; found {
				g.Name = c.Name
				g.Color = parseHexColor(c.Color)
			}
			groups[key] = g
		}
		g.Count++
		g.Total = g.Total.Add(t.Amount)
	}

	out := make([]CategoryShare, 0, len(groups))
	for _, g := range groups {
		g.Percent = finance.Percentage(g.Total, total)
		if g.Percent.LessThan(minShare) {
			continue
		}
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Total.Equal(out[j].Total) {
			return out[i].Total.GreaterThan(out[j].Total)
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// ExpenseStatistics summarizes the expenses of one month.
type ExpenseStatistics struct {
	Count          int
	Total          decimal.Decimal
	Max            decimal.Decimal
	Min            decimal.Decimal
	Mean           decimal.Decimal
	PerDay         decimal.Decimal // Total ÷ 30
	PerCalendarDay decimal.Decimal // Total ÷ days in the month
}

// ExpenseStats computes expense statistics for the given month.
func ExpenseStats(txns []domain.Transaction, year int, month time.Month) ExpenseStatistics {
	stats := ExpenseStatistics{
		Total: decimal.Zero, Max: decimal.Zero, Min: decimal.Zero,
		Mean: decimal.Zero, PerDay: decimal.Zero, PerCalendarDay: decimal.Zero,
	}
	for _, t := range txns {
		if t.Type != domain.Expense {
			continue
		}
		if stats.Count == 0 || t.Amount.GreaterThan(stats.Max) {
			stats.Max = t.Amount
		}
		if stats.Count == 0 || t.Amount.LessThan(stats.Min) {
			stats.Min = t.Amount
		}
		stats.Count++
		stats.Total = stats.Total.Add(t.Amount)
	}
	if stats.Count == 0 {
		return stats
	}
	stats.Mean = stats.Total.Div(decimal.NewFromInt(int64(stats.Count)))
	stats.PerDay = stats.Total.Div(decimal.NewFromInt(nominalMonthDays))
	stats.PerCalendarDay = stats.Total.Div(decimal.NewFromInt(int64(daysIn(year, month))))
	return stats
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// CashFlowDay is the income, expense and net of one calendar date.
type CashFlowDay struct {
	Date    time.Time
	Income  decimal.Decimal
	Expense decimal.Decimal
	Net     decimal.Decimal
}

// CashFlow groups transactions by calendar date, oldest first.
func CashFlow(txns []domain.Transaction) []CashFlowDay {
	days := make(map[time.Time]*CashFlowDay)
	for _, t := range txns {
		y, m, d := t.Date.Date()
		key := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		day, ok := days[key]
		if !ok {
			day = &CashFlowDay{Date: key, Income: decimal.Zero, Expense: decimal.Zero, Net: decimal.Zero}
			days[key] = day
		}
		switch t.Type {
		case domain.Income:
			day.Income = day.Income.Add(t.Amount)
		case domain.Expense:
			day.Expense = day.Expense.Add(t.Amount)
		}
		day.Net = day.Income.Sub(day.Expense)
	}

	out := make([]CashFlowDay, 0, len(days))
	for _, d := range days {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// RecentListing returns at most limit transactions, newest first, and how many
// were left out.
func RecentListing(txns []domain.Transaction, limit int) ([]domain.Transaction, int) {
	sorted := make([]domain.Transaction, len(txns))
	copy(sorted, txns)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.After(sorted[j].Date)
		}
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if len(sorted) <= limit {
		return sorted, 0
	}
	return sorted[:limit], len(sorted) - limit
}

// HiddenNotice is the line printed under a truncated listing.
func HiddenNotice(hidden int) string {
	if hidden == 1 {
		return "+1 transação não exibida"
	}
	return fmt.Sprintf("+%d transações não exibidas", hidden)
}

// Title returns the human title of a report kind.
func Title(kind domain.ReportKind) string {
	switch kind {
	case domain.ReportExpenseAnalysis:
		return "Análise de Despesas"
	case domain.ReportCashFlow:
		return "Fluxo de Caixa"
	default:
		return "Relatório Mensal"
	}
}

// Filename returns e.g. "monthly-outubro-de-2026.pdf".
func Filename(kind domain.ReportKind, year int, month time.Month, format domain.ReportFormat) string {
	return fmt.Sprintf("%s-%s.%s", kind, utils.Slugify(utils.PeriodLabel(year, month)), format)
}

// Build lays out the report described by in.
func Build(in Input) (Document, error) {
	if !in.Kind.Valid() {
		return Document{}, fmt.Errorf("%w: unknown report kind %q", apperrors.ErrValidation, in.Kind)
	}
	if in.Month < time.January || in.Month > time.December {
		return Document{}, fmt.Errorf("%w: month out of range", apperrors.ErrValidation)
	}

	txns := finance.FilterMonth(in.Transactions, in.Year, in.Month)
	doc := Document{
		Kind:        in.Kind,
		Title:       Title(in.Kind),
		Period:      utils.PeriodLabel(in.Year, in.Month),
		GeneratedAt: in.GeneratedAt,
	}
	doc.Tables = append(doc.Tables, summaryTable(txns))

	switch in.Kind {
	case domain.ReportMonthly:
		doc.Tables = append(doc.Tables,
			categoryTable("Receitas por categoria", colorIncome, CategoryBreakdown(txns, in.Categories, domain.Income)),
			categoryTable("Despesas por categoria", colorExpense, CategoryBreakdown(txns, in.Categories, domain.Expense)),
			listingTable(txns, in.Accounts, in.Categories),
		)
	case domain.ReportExpenseAnalysis:
		doc.Tables = append(doc.Tables,
			categoryTable("Despesas por categoria", colorExpense, CategoryBreakdown(txns, in.Categories, domain.Expense)),
			expenseTable(ExpenseStats(txns, in.Year, in.Month)),
		)
	case domain.ReportCashFlow:
		doc.Tables = append(doc.Tables, cashFlowTable(CashFlow(txns)))
	}
	return doc, nil
}

func money(d decimal.Decimal) Cell {
	f, _ := d.Round(2).Float64()
	return Cell{Text: utils.FormatCurrency(d), Value: f}
}

func summaryTable(txns []domain.Transaction) Table {
	income, expenses := finance.SumByType(txns)
	return Table{
		Title:       "Resumo",
		HeaderColor: colorNeutral,
		Columns: []Column{
			{Header: "Indicador", Width: 0.6},
			{Header: "Valor", Width: 0.4, AlignRight: true},
		},
		Rows: [][]Cell{
			{text("Receitas"), money(income)},
			{text("Despesas"), money(expenses)},
			{text("Saldo do período"), money(income.Sub(expenses))},
			{text("Transações"), {Text: fmt.Sprintf("%d", len(txns)), Value: len(txns)}},
		},
	}
}

func categoryTable(title string, header Color, shares []CategoryShare) Table {
	t := Table{
		Title:       title,
		HeaderColor: header,
		Columns: []Column{
			{Header: "Categoria", Width: 0.4},
			{Header: "Qtd.", Width: 0.15, AlignRight: true},
			{Header: "Total", Width: 0.25, AlignRight: true},
			{Header: "%", Width: 0.2, AlignRight: true},
		},
	}
	for _, s := range shares {
		pct, _ := s.Percent.Round(1).Float64()
		t.Rows = append(t.Rows, []Cell{
			text(s.Name),
			{Text: fmt.Sprintf("%d", s.Count), Value: s.Count},
			money(s.Total),
			{Text: utils.FormatPercent(s.Percent), Value: pct},
		})
		t.Legend = append(t.Legend, LegendEntry{Label: s.Name, Color: s.Color})
	}
	return t
}

func expenseTable(stats ExpenseStatistics) Table {
	return Table{
		Title:       "Análise de despesas",
		HeaderColor: colorExpense,
		Columns: []Column{
			{Header: "Indicador", Width: 0.6},
			{Header: "Valor", Width: 0.4, AlignRight: true},
		},
		Rows: [][]Cell{
			{text("Maior despesa"), money(stats.Max)},
			{text("Menor despesa"), money(stats.Min)},
			{text("Despesa média"), money(stats.Mean)},
			{text("Despesa por dia (30 dias)"), money(stats.PerDay)},
			{text("Despesa por dia (dias do mês)"), money(stats.PerCalendarDay)},
		},
	}
}

func cashFlowTable(days []CashFlowDay) Table {
	t := Table{
		Title:       "Fluxo diário",
		HeaderColor: colorFlow,
		Columns: []Column{
			{Header: "Data", Width: 0.25},
			{Header: "Receitas", Width: 0.25, AlignRight: true},
			{Header: "Despesas", Width: 0.25, AlignRight: true},
			{Header: "Saldo", Width: 0.25, AlignRight: true},
		},
	}
	for _, d := range days {
		t.Rows = append(t.Rows, []Cell{
			text(utils.FormatDate(d.Date)),
			money(d.Income),
			money(d.Expense),
			money(d.Net),
		})
	}
	return t
}

func listingTable(txns []domain.Transaction, accounts []domain.Account, categories []domain.Category) Table {
	accountNames := make(map[string]string, len(accounts))
	for _, a := range accounts {
		accountNames[a.AccountID] = a.Name
	}
	categoryNames := make(map[string]string, len(categories))
	for _, c := range categories {
		categoryNames[c.CategoryID] = c.Name
	}

	shown, hidden := RecentListing(txns, RecentLimit)
	t := Table{
		Title:       "Transações recentes",
		HeaderColor: colorNeutral,
		Columns: []Column{
			{Header: "Data", Width: 0.13},
			{Header: "Descrição", Width: 0.27},
			{Header: "Categoria", Width: 0.17},
			{Header: "Conta", Width: 0.15},
			{Header: "Tipo", Width: 0.1},
			{Header: "Valor", Width: 0.18, AlignRight: true},
		},
	}
	for _, txn := range shown {
		category := Uncategorized
		if txn.CategoryID != nil {
			if name, ok := categoryNames[*txn.CategoryID]; ok {
				category = name
			}
		}
		account, ok := accountNames[txn.AccountID]
		if !ok {
			account = UnknownAccount
		}
		kind := "Receita"
		if txn.Type == domain.Expense {
			kind = "Despesa"
		}
		signed, _ := txn.SignedAmount().Round(2).Float64()
		t.Rows = append(t.Rows, []Cell{
			text(utils.FormatDate(txn.Date)),
			text(txn.Description),
			text(category),
			text(account),
			text(kind),
			{Text: utils.FormatSignedCurrency(txn.SignedAmount()), Value: signed},
		})
	}
	if hidden > 0 {
		t.Note = HiddenNotice(hidden)
	}
	return t
}

// parseHexColor reads #RRGGBB, falling back to gray.
func parseHexColor(s string) Color {
	var c Color
	if len(s) != 7 || s[0] != '#' {
		return defaultColor
	}
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return defaultColor
	}
	return c
}
