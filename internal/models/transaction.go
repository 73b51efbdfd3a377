package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the row shape of the transactions table.
type Transaction struct {
	TransactionID     string          `db:"transaction_id"`
	UserID            string          `db:"user_id"`
	TransactionType   string          `db:"transaction_type"`
	Amount            decimal.Decimal `db:"amount"`
	Description       string          `db:"description"`
	TransactionDate   time.Time       `db:"transaction_date"`
	AccountID         string          `db:"account_id"`
	CategoryID        *string         `db:"category_id"` // Nullable
	IsRecurring       bool            `db:"is_recurring"`
	RecurringInterval *string         `db:"recurring_interval"` // Nullable
	AuditFields
}
