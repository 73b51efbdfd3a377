package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/SscSPs/bizos_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/bizos_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizos_backend/internal/core/ports/services"
	"github.com/SscSPs/bizos_backend/internal/platform/config"
	"github.com/SscSPs/bizos_backend/internal/utils/finance"
	"github.com/shopspring/decimal"
)

// BalanceService keeps account balances equal to the signed sum of their transactions.
type BalanceService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	txnRepo     portsrepo.TransactionReader
	mode        config.BalanceMode
}

// NewBalanceService creates the balance recomputation service.
func NewBalanceService(accountRepo portsrepo.AccountRepositoryFacade, txnRepo portsrepo.TransactionReader, mode config.BalanceMode) *BalanceService {
	if mode == "" {
		mode = config.BalanceRecompute
	}
	return &BalanceService{accountRepo: accountRepo, txnRepo: txnRepo, mode: mode}
}

var _ portssvc.BalanceSvc = (*BalanceService)(nil)

// RecomputeBalance refolds every transaction of the account and persists the result.
func (s *BalanceService) RecomputeBalance(ctx context.Context, userID, accountID string) (decimal.Decimal, error) {
	txns, err := s.txnRepo.ListTransactionsByAccount(ctx, userID, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load transactions for recompute", slog.String("account_id", accountID))
		return decimal.Zero, err
	}
	balance := finance.AccountBalance(txns, accountID)
	if err := s.accountRepo.SetAccountBalance(ctx, userID, accountID, balance, userID, s.Now()); err != nil {
		s.LogError(ctx, err, "Failed to persist recomputed balance", slog.String("account_id", accountID))
		return decimal.Zero, err
	}
	s.LogDebug(ctx, "Account balance recomputed",
		slog.String("account_id", accountID),
		slog.Int("transactions", len(txns)),
		slog.String("balance", balance.String()))
	return balance, nil
}

// ReconcileAccounts recomputes every account from source and reports the drift found.
func (s *BalanceService) ReconcileAccounts(ctx context.Context, userID string) ([]domain.ReconcileResult, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts for reconcile")
		return nil, err
	}

	results := make([]domain.ReconcileResult, 0, len(accounts))
	drifted := 0
	for _, acc := range accounts {
		computed, err := s.RecomputeBalance(ctx, userID, acc.AccountID)
		if err != nil {
			return nil, fmt.Errorf("reconcile account %s: %w", acc.AccountID, err)
		}
		drift := computed.Sub(acc.Balance)
		res := domain.ReconcileResult{
			AccountID:       acc.AccountID,
			StoredBalance:   acc.Balance,
			ComputedBalance: computed,
			Drift:           drift,
			Corrected:       !drift.IsZero(),
		}
		if res.Corrected {
			drifted++
			s.LogWarn(ctx, "Account balance drift corrected",
				slog.String("account_id", acc.AccountID),
				slog.String("stored", acc.Balance.String()),
				slog.String("computed", computed.String()))
		}
		results = append(results, res)
	}

	s.LogInfo(ctx, "Accounts reconciled", slog.Int("accounts", len(accounts)), slog.Int("corrected", drifted))
	return results, nil
}

// settle brings the balances of every account touched by replacing before
// with after up to date and returns them. Must run in the mutation's ctx.
func (s *BalanceService) settle(ctx context.Context, userID string, before, after *domain.Transaction) (map[string]decimal.Decimal, error) {
	deltas := finance.BalanceDeltas(before, after)
	accountIDs := make([]string, 0, len(deltas))
	for id := range deltas {
		accountIDs = append(accountIDs, id)
	}
	sort.Strings(accountIDs)

	// Sorted so concurrent mutations over the same pair of accounts cannot deadlock.
	for _, id := range accountIDs {
		if err := s.accountRepo.LockAccount(ctx, userID, id); err != nil {
			s.LogError(ctx, err, "Failed to lock account for settle", slog.String("account_id", id))
			return nil, err
		}
	}

	balances := make(map[string]decimal.Decimal, len(accountIDs))
	if s.mode == config.BalanceIncremental {
		if err := s.accountRepo.AdjustAccountBalances(ctx, userID, deltas, userID, s.Now()); err != nil {
			s.LogError(ctx, err, "Failed to apply balance deltas")
			return nil, err
		}
		for _, id := range accountIDs {
			acc, err := s.accountRepo.FindAccountByID(ctx, userID, id)
			if err != nil {
				return nil, err
			}
			balances[id] = acc.Balance
		}
		return balances, nil
	}

	for _, id := range accountIDs {
		balance, err := s.RecomputeBalance(ctx, userID, id)
		if err != nil {
			return nil, err
		}
		balances[id] = balance
	}
	return balances, nil
}
