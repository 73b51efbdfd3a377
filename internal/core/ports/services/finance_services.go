package services

import (
	"context"

	"github.com/SscSPs/bizos_backend/internal/core/domain"
	"github.com/SscSPs/bizos_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// TransactionSvcFacade manages transactions. Every mutation leaves the
// balances of the affected accounts consistent with their transactions.
type TransactionSvcFacade interface {
	CreateTransaction(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.Transaction, map[string]decimal.Decimal, error)
	UpdateTransaction(ctx context.Context, userID, transactionID string, req dto.UpdateTransactionRequest) (*domain.Transaction, map[string]decimal.Decimal, error)
	DeleteTransaction(ctx context.Context, userID, transactionID string) (map[string]decimal.Decimal, error)
	GetTransactionByID(ctx context.Context, userID, transactionID string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, userID string, params dto.ListTransactionsParams) ([]domain.Transaction, *string, error)
}

// BalanceSvc owns account balance recomputation.
type BalanceSvc interface {
	RecomputeBalance(ctx context.Context, userID, accountID string) (decimal.Decimal, error)
	ReconcileAccounts(ctx context.Context, userID string) ([]domain.ReconcileResult, error)
}

// FinanceSummarySvc serves the finance dashboard aggregates.
type FinanceSummarySvc interface {
	GetFinanceSummary(ctx context.Context, userID string, year int, month int) (*domain.MonthlySummary, error)
}

// AccountSvcFacade manages accounts.
type AccountSvcFacade interface {
	CreateAccount(ctx context.Context, userID string, req dto.CreateAccountRequest) (*domain.Account, error)
	GetAccountByID(ctx context.Context, userID, accountID string) (*domain.Account, error)
	ListAccounts(ctx context.Context, userID string) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, userID, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error)
	DeleteAccount(ctx context.Context, userID, accountID string) error
}

// CategorySvcFacade manages categories.
type CategorySvcFacade interface {
	CreateCategory(ctx context.Context, userID string, req dto.CreateCategoryRequest) (*domain.Category, error)
	ListCategories(ctx context.Context, userID string) ([]domain.Category, error)
	UpdateCategory(ctx context.Context, userID, categoryID string, req dto.UpdateCategoryRequest) (*domain.Category, error)
	DeleteCategory(ctx context.Context, userID, categoryID string) error
	// SeedDefaultCategories creates the default set when the user has no categories.
	SeedDefaultCategories(ctx context.Context, userID string) ([]domain.Category, error)
}
