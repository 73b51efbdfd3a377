package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionChangeOp names the mutation that produced a TransactionChangedEvent.
type TransactionChangeOp string

const (
	OpCreated TransactionChangeOp = "created"
	OpUpdated TransactionChangeOp = "updated"
	OpDeleted TransactionChangeOp = "deleted"
)

// TransactionChangedEvent is published after a transaction mutation settles.
type TransactionChangedEvent struct {
	UserID        string                     `json:"userID"`
	TransactionID string                     `json:"transactionID"`
	Op            TransactionChangeOp        `json:"op"`
	Balances      map[string]decimal.Decimal `json:"balances"` // account id -> balance after the change
	OccurredAt    time.Time                  `json:"occurredAt"`
}
