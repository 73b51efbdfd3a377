package models

import "github.com/shopspring/decimal"

// Account is the row shape of the accounts table.
type Account struct {
	AccountID   string          `db:"account_id"`
	UserID      string          `db:"user_id"`
	Name        string          `db:"name"`
	AccountType string          `db:"account_type"`
	Balance     decimal.Decimal `db:"balance"`
	IsActive    bool            `db:"is_active"`
	AuditFields
}
