package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/bizos_backend/internal/apperrors"
	"github.com/SscSPs/bizos_backend/internal/core/domain"
	"github.com/SscSPs/bizos_backend/internal/core/services"
	"github.com/SscSPs/bizos_backend/internal/dto"
	"github.com/SscSPs/bizos_backend/internal/platform/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const testUser = "user-1"

var fixedNow = time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

type TransactionServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	repo      *memRepo
	publisher *MockPublisher
	balances  *services.BalanceService
	service   *services.TransactionService
}

func (s *TransactionServiceTestSuite) setup(mode config.BalanceMode) {
	s.ctx = context.Background()
	s.repo = newMemRepo()
	s.publisher = new(MockPublisher)
	s.publisher.On("PublishTransactionChanged", mock.Anything, mock.Anything).Return(nil).Maybe()
	s.balances = services.NewBalanceService(s.repo, s.repo, mode)
	s.service = services.NewTransactionService(s.repo, s.repo, s.repo, s.repo, s.balances,
		services.WithEventPublisher(s.publisher), services.WithClock(clock))

	for _, id := range []string{"acc-1", "acc-2"} {
		s.Require().NoError(s.repo.SaveAccount(s.ctx, domain.Account{AccountID: id, UserID: testUser, Name: id, Type: domain.Checking, IsActive: true}))
	}
	s.Require().NoError(s.repo.SaveCategories(s.ctx, []domain.Category{
		{CategoryID: "cat-rent", UserID: testUser, Name: "Aluguel", Type: domain.Expense},
	}))
}

func (s *TransactionServiceTestSuite) SetupTest() {
	s.setup(config.BalanceRecompute)
}

func request(typ domain.TransactionType, amount, accountID string) dto.CreateTransactionRequest {
	return dto.CreateTransactionRequest{
		Type:        typ,
		Amount:      decimal.RequireFromString(amount),
		Description: "lançamento",
		Date:        "2026-10-05",
		AccountID:   accountID,
	}
}

func (s *TransactionServiceTestSuite) storedBalance(accountID string) decimal.Decimal {
	acc, err := s.repo.FindAccountByID(s.ctx, testUser, accountID)
	s.Require().NoError(err)
	return acc.Balance
}

func (s *TransactionServiceTestSuite) TestCreate_SettlesBalance() {
	_, _, err := s.service.CreateTransaction(s.ctx, testUser, request(domain.Income, "1000", "acc-1"))
	s.Require().NoError(err)

	txn, balances, err := s.service.CreateTransaction(s.ctx, testUser, request(domain.Expense, "400", "acc-1"))
	s.Require().NoError(err)

	s.NotEmpty(txn.TransactionID)
	s.Equal(fixedNow, txn.CreatedAt)
	s.Len(balances, 1)
	s.True(balances["acc-1"].Equal(decimal.NewFromInt(600)), balances["acc-1"].String())
	s.True(s.storedBalance("acc-1").Equal(decimal.NewFromInt(600)))
	s.publisher.AssertNumberOfCalls(s.T(), "PublishTransactionChanged", 2)
}

func (s *TransactionServiceTestSuite) TestCreate_Validation() {
	cases := map[string]dto.CreateTransactionRequest{
		"zero amount":     request(domain.Income, "0", "acc-1"),
		"negative amount": request(domain.Income, "-5", "acc-1"),
		"three decimals":  request(domain.Income, "1.005", "acc-1"),
		"unknown account": request(domain.Income, "10", "acc-x"),
		"bad type":        request(domain.TransactionType("transfer"), "10", "acc-1"),
	}
	for name, req := range cases {
		s.Run(name, func() {
			_, _, err := s.service.CreateTransaction(s.ctx, testUser, req)
			s.ErrorIs(err, apperrors.ErrValidation)
		})
	}

	recurring := request(domain.Income, "10", "acc-1")
	recurring.IsRecurring = true
	_, _, err := s.service.CreateTransaction(s.ctx, testUser, recurring)
	s.ErrorIs(err, apperrors.ErrValidation)

	s.Empty(s.repo.txns)
}

func (s *TransactionServiceTestSuite) TestCreate_TrailingZerosAreTwoDecimals() {
	txn, balances, err := s.service.CreateTransaction(s.ctx, testUser, request(domain.Income, "10.500", "acc-1"))
	s.Require().NoError(err)

	s.True(txn.Amount.Equal(decimal.RequireFromString("10.5")))
	s.True(balances["acc-1"].Equal(decimal.RequireFromString("10.50")))
}

func (s *TransactionServiceTestSuite) TestCreate_CategoryTypeMustMatch() {
	req := request(domain.Income, "10", "acc-1")
	cat := "cat-rent"
	req.CategoryID = &cat

	_, _, err := s.service.CreateTransaction(s.ctx, testUser, req)

	s.ErrorIs(err, apperrors.ErrValidation)
	s.Contains(err.Error(), "Aluguel")
}

func (s *TransactionServiceTestSuite) TestUpdate_MovingAccountSettlesBoth() {
	_, _, err := s.service.CreateTransaction(s.ctx, testUser, request(domain.Income, "1000", "acc-1"))
	s.Require().NoError(err)
	txn, _, err := s.service.CreateTransaction(s.ctx, testUser, request(domain.Expense, "400", "acc-1"))
	s.Require().NoError(err)

	s.repo.locked = nil
	updated, balances, err := s.service.UpdateTransaction(s.ctx, testUser, txn.TransactionID, request(domain.Expense, "400", "acc-2"))
	s.Require().NoError(err)

	s.Equal([]string{"acc-1", "acc-2"}, s.repo.locked)
	s.Equal("acc-2", updated.AccountID)
	s.Equal(txn.CreatedAt, updated.CreatedAt)
	s.Len(balances, 2)
	s.True(balances["acc-1"].Equal(decimal.NewFromInt(1000)))
	s.True(balances["acc-2"].Equal(decimal.NewFromInt(-400)))
}

func (s *TransactionServiceTestSuite) TestDelete_RestoresBalance() {
	_, _, err := s.service.CreateTransaction(s.ctx, testUser, request(domain.Income, "1000", "acc-1"))
	s.Require().NoError(err)
	txn, _, err := s.service.CreateTransaction(s.ctx, testUser, request(domain.Expense, "400", "acc-1"))
	s.Require().NoError(err)

	balances, err := s.service.DeleteTransaction(s.ctx, testUser, txn.TransactionID)
	s.Require().NoError(err)

	s.True(balances["acc-1"].Equal(decimal.NewFromInt(1000)))
	_, err = s.service.GetTransactionByID(s.ctx, testUser, txn.TransactionID)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *TransactionServiceTestSuite) TestDelete_OtherUsersTransactionIsNotFound() {
	txn, _, err := s.service.CreateTransaction(s.ctx, testUser, request(domain.Income, "10", "acc-1"))
	s.Require().NoError(err)

	_, err = s.service.DeleteTransaction(s.ctx, "someone-else", txn.TransactionID)

	s.ErrorIs(err, apperrors.ErrNotFound)
	s.True(s.storedBalance("acc-1").Equal(decimal.NewFromInt(10)))
}

func (s *TransactionServiceTestSuite) TestSettle_UnknownAccountLockFails() {
	_, _, err := s.service.CreateTransaction(s.ctx, testUser, request(domain.Income, "10", "acc-1"))
	s.Require().NoError(err)
	s.Require().NoError(s.repo.DeleteAccount(s.ctx, testUser, "acc-1"))
	s.repo.locked = nil

	_, err = s.service.DeleteTransaction(s.ctx, testUser, s.onlyTransactionID())

	s.ErrorIs(err, apperrors.ErrNotFound)
	s.Empty(s.repo.locked)
}

func (s *TransactionServiceTestSuite) onlyTransactionID() string {
	s.Require().Len(s.repo.txns, 1)
	for id := range s.repo.txns {
		return id
	}
	return ""
}

func (s *TransactionServiceTestSuite) TestPublishFailureDoesNotFailMutation() {
	s.publisher = new(MockPublisher)
	s.publisher.On("PublishTransactionChanged", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()
	svc := services.NewTransactionService(s.repo, s.repo, s.repo, s.repo, s.balances, services.WithEventPublisher(s.publisher))

	_, balances, err := svc.CreateTransaction(s.ctx, testUser, request(domain.Income, "50", "acc-1"))

	s.NoError(err)
	s.True(balances["acc-1"].Equal(decimal.NewFromInt(50)))
	s.publisher.AssertExpectations(s.T())
}

func (s *TransactionServiceTestSuite) TestIncrementalMode_MatchesRecompute() {
	s.setup(config.BalanceIncremental)

	_, _, err := s.service.CreateTransaction(s.ctx, testUser, request(domain.Income, "1000", "acc-1"))
	s.Require().NoError(err)
	txn, _, err := s.service.CreateTransaction(s.ctx, testUser, request(domain.Expense, "400", "acc-1"))
	s.Require().NoError(err)
	_, balances, err := s.service.UpdateTransaction(s.ctx, testUser, txn.TransactionID, request(domain.Expense, "250.50", "acc-2"))
	s.Require().NoError(err)
	s.Equal(1, s.repo.findsInTx, "replaced row must be read inside the transaction")

	s.True(balances["acc-1"].Equal(decimal.NewFromInt(1000)))
	s.True(balances["acc-2"].Equal(decimal.RequireFromString("-250.50")))

	results, err := s.balances.ReconcileAccounts(s.ctx, testUser)
	s.Require().NoError(err)
	for _, r := range results {
		s.False(r.Corrected, r.AccountID)
	}
}

func (s *TransactionServiceTestSuite) TestReconcile_CorrectsDrift() {
	_, _, err := s.service.CreateTransaction(s.ctx, testUser, request(domain.Income, "600", "acc-1"))
	s.Require().NoError(err)
	s.Require().NoError(s.repo.SetAccountBalance(s.ctx, testUser, "acc-1", decimal.NewFromInt(650), testUser, fixedNow))

	results, err := s.balances.ReconcileAccounts(s.ctx, testUser)
	s.Require().NoError(err)

	s.Require().Len(results, 2)
	byID := map[string]domain.ReconcileResult{}
	for _, r := range results {
		byID[r.AccountID] = r
	}
	s.True(byID["acc-1"].Corrected)
	s.True(byID["acc-1"].StoredBalance.Equal(decimal.NewFromInt(650)))
	s.True(byID["acc-1"].ComputedBalance.Equal(decimal.NewFromInt(600)))
	s.True(byID["acc-1"].Drift.Equal(decimal.NewFromInt(-50)))
	s.False(byID["acc-2"].Corrected)
	s.True(s.storedBalance("acc-1").Equal(decimal.NewFromInt(600)))
}

func TestTransactionService(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}
