package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/bizos_backend/internal/apperrors"
	"github.com/SscSPs/bizos_backend/internal/core/domain"
	"github.com/SscSPs/bizos_backend/internal/core/ports"
	portsrepo "github.com/SscSPs/bizos_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizos_backend/internal/core/ports/services"
	"github.com/SscSPs/bizos_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionService records income and expenses and keeps account balances settled.
type TransactionService struct {
	BaseService
	txManager    portsrepo.TransactionManager
	txnRepo      portsrepo.TransactionRepositoryFacade
	accountRepo  portsrepo.AccountReader
	categoryRepo portsrepo.CategoryReader
	balances     *BalanceService
	publisher    ports.EventPublisher
}

// TransactionServiceOption is a functional option for configuring the transaction service
type TransactionServiceOption func(*TransactionService)

// WithEventPublisher publishes a change event after each settled mutation.
func WithEventPublisher(p ports.EventPublisher) TransactionServiceOption {
	return func(s *TransactionService) {
		s.publisher = p
	}
}

// WithClock overrides the service clock.
func WithClock(now func() time.Time) TransactionServiceOption {
	return func(s *TransactionService) {
		s.now = now
		s.balances.now = now
	}
}

// NewTransactionService creates a new transaction service.
func NewTransactionService(
	txManager portsrepo.TransactionManager,
	txnRepo portsrepo.TransactionRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	categoryRepo portsrepo.CategoryReader,
	balances *BalanceService,
	options ...TransactionServiceOption,
) *TransactionService {
	svc := &TransactionService{
		txManager:    txManager,
		txnRepo:      txnRepo,
		accountRepo:  accountRepo,
		categoryRepo: categoryRepo,
		balances:     balances,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.TransactionSvcFacade = (*TransactionService)(nil)

// buildTransaction validates req and resolves its references.
func (s *TransactionService) buildTransaction(ctx context.Context, userID string, req dto.CreateTransactionRequest) (domain.Transaction, error) {
	if !req.Type.Valid() {
		return domain.Transaction{}, fmt.Errorf("%w: type must be income or expense", apperrors.ErrValidation)
	}
	if !req.Amount.IsPositive() {
		return domain.Transaction{}, fmt.Errorf("%w: amount must be greater than zero", apperrors.ErrValidation)
	}
	if !req.Amount.Equal(req.Amount.Round(2)) {
		return domain.Transaction{}, fmt.Errorf("%w: amount supports at most two decimal places", apperrors.ErrValidation)
	}
	if strings.TrimSpace(req.Description) == "" {
		return domain.Transaction{}, fmt.Errorf("%w: description is required", apperrors.ErrValidation)
	}
	date, err := time.Parse(dto.DateLayout, req.Date)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("%w: date must be YYYY-MM-DD", apperrors.ErrValidation)
	}

	var interval *domain.RecurringInterval
	if req.IsRecurring {
		if req.RecurringInterval == nil {
			return domain.Transaction{}, fmt.Errorf("%w: recurringInterval is required for recurring transactions", apperrors.ErrValidation)
		}
		interval = req.RecurringInterval
	}

	if _, err := s.accountRepo.FindAccountByID(ctx, userID, req.AccountID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.Transaction{}, fmt.Errorf("%w: account %s not found", apperrors.ErrValidation, req.AccountID)
		}
		return domain.Transaction{}, err
	}

	var categoryID *string
	if req.CategoryID != nil && *req.CategoryID != "" {
		cat, err := s.categoryRepo.FindCategoryByID(ctx, userID, *req.CategoryID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return domain.Transaction{}, fmt.Errorf("%w: category %s not found", apperrors.ErrValidation, *req.CategoryID)
			}
			return domain.Transaction{}, err
		}
		if cat.Type != req.Type {
			return domain.Transaction{}, fmt.Errorf("%w: category %q is for %s transactions", apperrors.ErrValidation, cat.Name, cat.Type)
		}
		categoryID = &cat.CategoryID
	}

	return domain.Transaction{
		UserID:            userID,
		Type:              req.Type,
		Amount:            req.Amount,
		Description:       strings.TrimSpace(req.Description),
		Date:              date,
		AccountID:         req.AccountID,
		CategoryID:        categoryID,
		IsRecurring:       req.IsRecurring,
		RecurringInterval: interval,
	}, nil
}

// CreateTransaction records a transaction and settles the balance of its account.
func (s *TransactionService) CreateTransaction(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.Transaction, map[string]decimal.Decimal, error) {
	txn, err := s.buildTransaction(ctx, userID, req)
	if err != nil {
		s.LogDebug(ctx, "Rejected transaction", slog.String("reason", err.Error()))
		return nil, nil, err
	}

	now := s.Now()
	txn.TransactionID = uuid.NewString()
	txn.AuditFields = domain.AuditFields{CreatedAt: now, CreatedBy: userID, LastUpdatedAt: now, LastUpdatedBy: userID}

	var balances map[string]decimal.Decimal
	err = s.txManager.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.txnRepo.SaveTransaction(ctx, txn); err != nil {
			return err
		}
		balances, err = s.balances.settle(ctx, userID, nil, &txn)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create transaction", slog.String("account_id", txn.AccountID))
		return nil, nil, err
	}

	s.LogInfo(ctx, "Transaction created", slog.String("transaction_id", txn.TransactionID), slog.String("account_id", txn.AccountID))
	s.publish(ctx, userID, txn.TransactionID, domain.OpCreated, balances)
	return &txn, balances, nil
}

// UpdateTransaction replaces a transaction. When it moves to another account both balances are settled.
func (s *TransactionService) UpdateTransaction(ctx context.Context, userID, transactionID string, req dto.UpdateTransactionRequest) (*domain.Transaction, map[string]decimal.Decimal, error) {
	after, err := s.buildTransaction(ctx, userID, req)
	if err != nil {
		return nil, nil, err
	}

	var (
		before   *domain.Transaction
		balances map[string]decimal.Decimal
	)
	err = s.txManager.RunInTx(ctx, func(ctx context.Context) error {
		// the delta must be taken against the row this transaction replaces
		before, err = s.txnRepo.FindTransactionByID(ctx, userID, transactionID)
		if err != nil {
			return err
		}
		after.TransactionID = before.TransactionID
		after.CreatedAt = before.CreatedAt
		after.CreatedBy = before.CreatedBy
		after.LastUpdatedAt = s.Now()
		after.LastUpdatedBy = userID

		if err := s.txnRepo.UpdateTransaction(ctx, after); err != nil {
			return err
		}
		balances, err = s.balances.settle(ctx, userID, before, &after)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to update transaction", slog.String("transaction_id", transactionID))
		return nil, nil, err
	}

	s.LogInfo(ctx, "Transaction updated",
		slog.String("transaction_id", transactionID),
		slog.String("old_account_id", before.AccountID),
		slog.String("new_account_id", after.AccountID))
	s.publish(ctx, userID, transactionID, domain.OpUpdated, balances)
	return &after, balances, nil
}

// DeleteTransaction removes a transaction and settles the balance of its account.
func (s *TransactionService) DeleteTransaction(ctx context.Context, userID, transactionID string) (map[string]decimal.Decimal, error) {
	var balances map[string]decimal.Decimal
	err := s.txManager.RunInTx(ctx, func(ctx context.Context) error {
		before, err := s.txnRepo.FindTransactionByID(ctx, userID, transactionID)
		if err != nil {
			return err
		}
		if err := s.txnRepo.DeleteTransaction(ctx, userID, transactionID); err != nil {
			return err
		}
		balances, err = s.balances.settle(ctx, userID, before, nil)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to delete transaction", slog.String("transaction_id", transactionID))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction deleted", slog.String("transaction_id", transactionID))
	s.publish(ctx, userID, transactionID, domain.OpDeleted, balances)
	return balances, nil
}

func (s *TransactionService) GetTransactionByID(ctx context.Context, userID, transactionID string) (*domain.Transaction, error) {
	return s.txnRepo.FindTransactionByID(ctx, userID, transactionID)
}

func (s *TransactionService) ListTransactions(ctx context.Context, userID string, params dto.ListTransactionsParams) ([]domain.Transaction, *string, error) {
	filter := portsrepo.TransactionFilter{
		AccountID:  params.AccountID,
		CategoryID: params.CategoryID,
		Type:       domain.TransactionType(params.Type),
		Limit:      params.Limit,
	}
	if params.From != "" {
		from, err := time.Parse(dto.DateLayout, params.From)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: from must be YYYY-MM-DD", apperrors.ErrValidation)
		}
		filter.From = &from
	}
	if params.To != "" {
		to, err := time.Parse(dto.DateLayout, params.To)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: to must be YYYY-MM-DD", apperrors.ErrValidation)
		}
		// inclusive on the wire, exclusive in the repository
		to = to.AddDate(0, 0, 1)
		filter.To = &to
	}
	if params.NextToken != "" {
		filter.NextToken = &params.NextToken
	}
	return s.txnRepo.ListTransactions(ctx, userID, filter)
}

// publish is best effort: the mutation has already committed.
func (s *TransactionService) publish(ctx context.Context, userID, transactionID string, op domain.TransactionChangeOp, balances map[string]decimal.Decimal) {
	if s.publisher == nil {
		return
	}
	event := domain.TransactionChangedEvent{
		UserID:        userID,
		TransactionID: transactionID,
		Op:            op,
		Balances:      balances,
		OccurredAt:    s.Now(),
	}
	if err := s.publisher.PublishTransactionChanged(ctx, event); err != nil {
		s.LogWarn(ctx, "Failed to publish transaction event",
			slog.String("transaction_id", transactionID),
			slog.String("error", err.Error()))
	}
}
