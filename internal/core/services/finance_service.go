package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/bizos_backend/internal/apperrors"
	"github.com/SscSPs/bizos_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/bizos_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizos_backend/internal/core/ports/services"
	"github.com/SscSPs/bizos_backend/internal/utils/finance"
)

// FinanceSummaryService computes the monthly finance dashboard aggregates.
type FinanceSummaryService struct {
	BaseService
	txnRepo     portsrepo.TransactionReader
	accountRepo portsrepo.AccountReader
}

func NewFinanceSummaryService(txnRepo portsrepo.TransactionReader, accountRepo portsrepo.AccountReader) *FinanceSummaryService {
	return &FinanceSummaryService{txnRepo: txnRepo, accountRepo: accountRepo}
}

var _ portssvc.FinanceSummarySvc = (*FinanceSummaryService)(nil)

// GetFinanceSummary returns the aggregates of the given month; zero year/month mean the current month.
func (s *FinanceSummaryService) GetFinanceSummary(ctx context.Context, userID string, year int, month int) (*domain.MonthlySummary, error) {
	if month < 0 || month > 12 {
		return nil, fmt.Errorf("%w: month must be between 1 and 12", apperrors.ErrValidation)
	}
	y, m := resolvePeriod(s.Now(), year, month)
	from, to := monthRange(y, m)

	txns, err := s.txnRepo.ListTransactionsInRange(ctx, userID, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to load transactions for summary")
		return nil, err
	}
	accounts, err := s.accountRepo.ListAccounts(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load accounts for summary")
		return nil, err
	}

	summary := finance.SummarizeMonth(txns, accounts, y, m)
	s.LogDebug(ctx, "Finance summary computed", slog.Int("year", y), slog.Int("month", int(m)), slog.Int("transactions", summary.TransactionCount))
	return &summary, nil
}
