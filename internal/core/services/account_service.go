package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/SscSPs/bizos_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/bizos_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizos_backend/internal/core/ports/services"
	"github.com/SscSPs/bizos_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountService manages accounts. Balances are owned by BalanceService.
type AccountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new account service.
func NewAccountService(repo portsrepo.AccountRepositoryFacade) *AccountService {
	return &AccountService{accountRepo: repo}
}

var _ portssvc.AccountSvcFacade = (*AccountService)(nil)

func (s *AccountService) CreateAccount(ctx context.Context, userID string, req dto.CreateAccountRequest) (*domain.Account, error) {
	now := s.Now()
	account := domain.Account{
		AccountID: uuid.NewString(),
		UserID:    userID,
		Name:      strings.TrimSpace(req.Name),
		Type:      req.Type,
		Balance:   decimal.Zero,
		IsActive:  true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account", slog.String("account_id", account.AccountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully", slog.String("account_id", account.AccountID))
	return &account, nil
}

func (s *AccountService) GetAccountByID(ctx context.Context, userID, accountID string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByID(ctx, userID, accountID)
}

func (s *AccountService) ListAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	return s.accountRepo.ListAccounts(ctx, userID)
}

// UpdateAccount applies the provided fields; the balance is never user-editable.
func (s *AccountService) UpdateAccount(ctx context.Context, userID, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		account.Name = strings.TrimSpace(*req.Name)
	}
	if req.Type != nil {
		account.Type = *req.Type
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}
	account.LastUpdatedAt = s.Now()
	account.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, err
	}
	return account, nil
}

func (s *AccountService) DeleteAccount(ctx context.Context, userID, accountID string) error {
	if err := s.accountRepo.DeleteAccount(ctx, userID, accountID); err != nil {
		s.LogError(ctx, err, "Failed to delete account", slog.String("account_id", accountID))
		return err
	}
	s.LogInfo(ctx, "Account deleted", slog.String("account_id", accountID))
	return nil
}
