package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates whether money came in or went out.
type TransactionType string

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

// RecurringInterval is the cadence of a recurring transaction.
type RecurringInterval string

const (
	Daily   RecurringInterval = "daily"
	Weekly  RecurringInterval = "weekly"
	Monthly RecurringInterval = "monthly"
	Yearly  RecurringInterval = "yearly"
)

// Transaction is a single income or expense movement on an account.
type Transaction struct {
	TransactionID     string             `json:"transactionID"`
	UserID            string             `json:"userID"`
	Type              TransactionType    `json:"type"`
	Amount            decimal.Decimal    `json:"amount"` // Always non-negative; sign comes from Type
	Description       string             `json:"description"`
	Date              time.Time          `json:"date"` // Calendar date, time part ignored
	AccountID         string             `json:"accountID"`
	CategoryID        *string            `json:"categoryID,omitempty"`
	IsRecurring       bool               `json:"isRecurring"`
	RecurringInterval *RecurringInterval `json:"recurringInterval,omitempty"`
	AuditFields
}

// SignedAmount returns the amount as it affects the account balance.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Type == Expense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// InMonth reports whether the transaction date falls in the given calendar month.
func (t Transaction) InMonth(year int, month time.Month) bool {
	y, m, _ := t.Date.Date()
	return y == year && m == month
}
