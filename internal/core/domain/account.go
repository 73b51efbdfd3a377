package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType describes what kind of ledger bucket an account is.
type AccountType string

const (
	Checking   AccountType = "checking"
	Savings    AccountType = "savings"
	CreditCard AccountType = "credit_card"
	Cash       AccountType = "cash"
	Investment AccountType = "investment"
)

// Account is a ledger bucket whose balance is the signed sum of its transactions.
// Balance is derived data and is rewritten by balance recomputation.
type Account struct {
	AccountID string          `json:"accountID"`
	UserID    string          `json:"userID"`
	Name      string          `json:"name"`
	Type      AccountType     `json:"type"`
	Balance   decimal.Decimal `json:"balance"`
	IsActive  bool            `json:"isActive"`
	AuditFields
}
