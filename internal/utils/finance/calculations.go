package finance

import (
	"time"

	"github.com/SscSPs/bizos_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// SumByType totals income and expense amounts separately.
func SumByType(transactions []domain.Transaction) (income, expenses decimal.Decimal) {
	income, expenses = decimal.Zero, decimal.Zero
	for _, txn := range transactions {
		switch txn.Type {
		case domain.Income:
			income = income.Add(txn.Amount)
		case domain.Expense:
			expenses = expenses.Add(txn.Amount)
		}
	}
	return income, expenses
}

// AccountBalance folds every transaction of accountID into a signed sum
// (income positive, expense negative).
func AccountBalance(transactions []domain.Transaction, accountID string) decimal.Decimal {
	balance := decimal.Zero
	for _, txn := range transactions {
		if txn.AccountID != accountID {
			continue
		}
		balance = balance.Add(txn.SignedAmount())
	}
	return balance
}

// BalanceDeltas returns the per-account balance change caused by replacing
// before with after. Either side may be nil (create / delete).
func BalanceDeltas(before, after *domain.Transaction) map[string]decimal.Decimal {
	deltas := make(map[string]decimal.Decimal, 2)
	if before != nil {
		deltas[before.AccountID] = deltas[before.AccountID].Sub(before.SignedAmount())
	}
	if after != nil {
		deltas[after.AccountID] = deltas[after.AccountID].Add(after.SignedAmount())
	}
	return deltas
}

// FilterMonth keeps only transactions dated in the given calendar month.
func FilterMonth(transactions []domain.Transaction, year int, month time.Month) []domain.Transaction {
	out := make([]domain.Transaction, 0, len(transactions))
	for _, txn := range transactions {
		if txn.InMonth(year, month) {
			out = append(out, txn)
		}
	}
	return out
}

// Percentage returns part as a percentage of total, or zero when total is zero.
func Percentage(part, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return part.Mul(hundred).Div(total)
}

// TotalBalance sums the stored balance of every account.
func TotalBalance(accounts []domain.Account) decimal.Decimal {
	total := decimal.Zero
	for _, acc := range accounts {
		total = total.Add(acc.Balance)
	}
	return total
}

// SummarizeMonth computes the monthly finance dashboard aggregates.
func SummarizeMonth(transactions []domain.Transaction, accounts []domain.Account, year int, month time.Month) domain.MonthlySummary {
	monthTxns := FilterMonth(transactions, year, month)
	income, expenses := SumByType(monthTxns)
	return domain.MonthlySummary{
		Year:             year,
		Month:            int(month),
		MonthlyIncome:    income,
		MonthlyExpenses:  expenses,
		MonthlyBalance:   income.Sub(expenses),
		TotalBalance:     TotalBalance(accounts),
		TransactionCount: len(monthTxns),
	}
}
