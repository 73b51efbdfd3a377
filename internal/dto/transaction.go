package dto

import (
	"time"

	"github.com/SscSPs/bizos_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// CreateTransactionRequest defines the data needed to record an income or expense.
type CreateTransactionRequest struct {
	Type              domain.TransactionType    `json:"type" binding:"required,oneof=income expense"`
	Amount            decimal.Decimal           `json:"amount"`
	Description       string                    `json:"description" binding:"required,max=500"`
	Date              string                    `json:"date" binding:"required,datetime=2006-01-02"`
	AccountID         string                    `json:"accountID" binding:"required"`
	CategoryID        *string                   `json:"categoryID"`
	IsRecurring       bool                      `json:"isRecurring"`
	RecurringInterval *domain.RecurringInterval `json:"recurringInterval" binding:"omitempty,oneof=daily weekly monthly yearly"`
}

// UpdateTransactionRequest replaces the mutable fields of a transaction.
type UpdateTransactionRequest = CreateTransactionRequest

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	AccountID  string `form:"accountID"`
	CategoryID string `form:"categoryID"`
	Type       string `form:"type" binding:"omitempty,oneof=income expense"`
	From       string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To         string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Limit      int    `form:"limit,default=20" binding:"min=1,max=200"`
	NextToken  string `form:"nextToken"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID     string                    `json:"transactionID"`
	Type              domain.TransactionType    `json:"type"`
	Amount            decimal.Decimal           `json:"amount"`
	Description       string                    `json:"description"`
	Date              string                    `json:"date"`
	AccountID         string                    `json:"accountID"`
	CategoryID        *string                   `json:"categoryID,omitempty"`
	IsRecurring       bool                      `json:"isRecurring"`
	RecurringInterval *domain.RecurringInterval `json:"recurringInterval,omitempty"`
	CreatedAt         time.Time                 `json:"createdAt"`
	LastUpdatedAt     time.Time                 `json:"lastUpdatedAt"`
}

// ListTransactionsResponse is one page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// TransactionMutationResponse is returned by create/update/delete and carries
// the balances of every account the mutation touched.
type TransactionMutationResponse struct {
	Transaction *TransactionResponse       `json:"transaction,omitempty"`
	Balances    map[string]decimal.Decimal `json:"balances"`
}

func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:     t.TransactionID,
		Type:              t.Type,
		Amount:            t.Amount,
		Description:       t.Description,
		Date:              t.Date.Format(DateLayout),
		AccountID:         t.AccountID,
		CategoryID:        t.CategoryID,
		IsRecurring:       t.IsRecurring,
		RecurringInterval: t.RecurringInterval,
		CreatedAt:         t.CreatedAt,
		LastUpdatedAt:     t.LastUpdatedAt,
	}
}

func ToListTransactionResponse(txns []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i := range txns {
		res[i] = ToTransactionResponse(&txns[i])
	}
	return res
}
