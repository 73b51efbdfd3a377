package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/bizos_backend/internal/core/domain"
)

// TransactionFilter narrows a paginated transaction listing.
type TransactionFilter struct {
	AccountID  string
	CategoryID string
	Type       domain.TransactionType
	From       *time.Time // inclusive
	To         *time.Time // exclusive
	Limit      int
	NextToken  *string
}

// TransactionReader defines read operations for transaction data
type TransactionReader interface {
	// FindTransactionByID returns ErrNotFound when the transaction does not exist or belongs to another user.
	FindTransactionByID(ctx context.Context, userID, transactionID string) (*domain.Transaction, error)

	// ListTransactions returns one page ordered by date desc, created_at desc plus the next-page token.
	ListTransactions(ctx context.Context, userID string, filter TransactionFilter) ([]domain.Transaction, *string, error)

	// ListTransactionsInRange returns every transaction dated in [from, to).
	ListTransactionsInRange(ctx context.Context, userID string, from, to time.Time) ([]domain.Transaction, error)

	// ListTransactionsByAccount returns every transaction of one account, the input of a balance recompute.
	ListTransactionsByAccount(ctx context.Context, userID, accountID string) ([]domain.Transaction, error)
}

// TransactionWriter defines write operations for transaction data
type TransactionWriter interface {
	SaveTransaction(ctx context.Context, txn domain.Transaction) error
	UpdateTransaction(ctx context.Context, txn domain.Transaction) error
	DeleteTransaction(ctx context.Context, userID, transactionID string) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
