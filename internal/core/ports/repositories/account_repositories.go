package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/bizos_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves one of the user's accounts.
	FindAccountByID(ctx context.Context, userID, accountID string) (*domain.Account, error)

	// ListAccounts retrieves every account of the user ordered by name.
	ListAccounts(ctx context.Context, userID string) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	SaveAccount(ctx context.Context, account domain.Account) error
	UpdateAccount(ctx context.Context, account domain.Account) error
	DeleteAccount(ctx context.Context, userID, accountID string) error
}

// AccountBalanceWriter persists derived balances.
type AccountBalanceWriter interface {
	// LockAccount holds the account row until the surrounding transaction ends.
	LockAccount(ctx context.Context, userID, accountID string) error

	// SetAccountBalance overwrites the stored balance with a recomputed value.
	SetAccountBalance(ctx context.Context, userID, accountID string, balance decimal.Decimal, updatedBy string, now time.Time) error

	// AdjustAccountBalances adds each delta to the stored balance.
	AdjustAccountBalances(ctx context.Context, userID string, deltas map[string]decimal.Decimal, updatedBy string, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountBalanceWriter
}
