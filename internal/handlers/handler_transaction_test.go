package handlers_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/SscSPs/bizos_backend/internal/apperrors"
	"github.com/SscSPs/bizos_backend/internal/core/domain"
	"github.com/SscSPs/bizos_backend/internal/dto"
	"github.com/SscSPs/bizos_backend/internal/handlers"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type TransactionHandlerTestSuite struct {
	handlerSuite
	mockTransactionService *MockTransactionService
	mockAccountService     *MockAccountService
	mockBalanceService     *MockBalanceService
}

func (s *TransactionHandlerTestSuite) SetupTest() {
	s.setupRouter()
	s.mockTransactionService = new(MockTransactionService)
	s.mockAccountService = new(MockAccountService)
	s.mockBalanceService = new(MockBalanceService)
	handlers.RegisterTransactionRoutes(s.v1, s.mockTransactionService)
	handlers.RegisterAccountRoutes(s.v1, s.mockAccountService, s.mockBalanceService)
}

func (s *TransactionHandlerTestSuite) sampleTransaction() *domain.Transaction {
	return &domain.Transaction{
		TransactionID: "txn-1",
		UserID:        s.userID,
		Type:          domain.Expense,
		Amount:        decimal.NewFromInt(400),
		Description:   "Aluguel",
		Date:          time.Date(2026, time.October, 5, 0, 0, 0, 0, time.UTC),
		AccountID:     "acc-1",
	}
}

func (s *TransactionHandlerTestSuite) TestCreateTransaction_ReturnsBalances() {
	body := map[string]any{
		"type":        "expense",
		"amount":      "400.00",
		"description": "Aluguel",
		"date":        "2026-10-05",
		"accountID":   "acc-1",
	}
	s.mockTransactionService.On("CreateTransaction", mock.Anything, s.userID,
		mock.MatchedBy(func(r dto.CreateTransactionRequest) bool {
			return r.Amount.Equal(decimal.NewFromInt(400)) && r.AccountID == "acc-1" && r.Type == domain.Expense
		}),
	).Return(s.sampleTransaction(), map[string]decimal.Decimal{"acc-1": decimal.NewFromInt(600)}, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/transactions", body)

	s.Equal(http.StatusCreated, w.Code, w.Body.String())
	var resp struct {
		Transaction dto.TransactionResponse `json:"transaction"`
		Balances    map[string]string       `json:"balances"`
	}
	s.decode(w, &resp)
	s.Equal("txn-1", resp.Transaction.TransactionID)
	s.Equal("2026-10-05", resp.Transaction.Date)
	s.Equal(map[string]string{"acc-1": "600"}, resp.Balances)
	s.mockTransactionService.AssertExpectations(s.T())
}

func (s *TransactionHandlerTestSuite) TestCreateTransaction_BindingErrorSkipsService() {
	w := s.do(http.MethodPost, "/api/v1/transactions", `{"type":"transfer","amount":"10"}`)

	s.Equal(http.StatusBadRequest, w.Code)
	s.mockTransactionService.AssertNotCalled(s.T(), "CreateTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (s *TransactionHandlerTestSuite) TestCreateTransaction_ServiceValidation() {
	s.mockTransactionService.On("CreateTransaction", mock.Anything, s.userID, mock.Anything).
		Return(nil, nil, fmt.Errorf("%w: amount must be greater than zero", apperrors.ErrValidation)).Once()

	w := s.do(http.MethodPost, "/api/v1/transactions", map[string]any{
		"type": "income", "amount": "0", "description": "x", "date": "2026-10-05", "accountID": "acc-1",
	})

	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(w.Body.String(), "amount must be greater than zero")
}

func (s *TransactionHandlerTestSuite) TestListTransactions_PassesFiltersAndToken() {
	next := "opaque-token"
	s.mockTransactionService.On("ListTransactions", mock.Anything, s.userID,
		mock.MatchedBy(func(p dto.ListTransactionsParams) bool {
			return p.Limit == 5 && p.AccountID == "acc-1" && p.NextToken == "prev"
		}),
	).Return([]domain.Transaction{*s.sampleTransaction()}, &next, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/transactions?limit=5&accountID=acc-1&nextToken=prev", nil)

	s.Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.ListTransactionsResponse
	s.decode(w, &resp)
	s.Len(resp.Transactions, 1)
	s.Require().NotNil(resp.NextToken)
	s.Equal(next, *resp.NextToken)
}

func (s *TransactionHandlerTestSuite) TestListTransactions_DefaultLimit() {
	s.mockTransactionService.On("ListTransactions", mock.Anything, s.userID,
		mock.MatchedBy(func(p dto.ListTransactionsParams) bool { return p.Limit == 20 }),
	).Return([]domain.Transaction{}, nil, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/transactions", nil)

	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"transactions":[]}`, w.Body.String())
}

func (s *TransactionHandlerTestSuite) TestDeleteTransaction_NotFound() {
	s.mockTransactionService.On("DeleteTransaction", mock.Anything, s.userID, "missing").
		Return(nil, fmt.Errorf("%w: transaction missing", apperrors.ErrNotFound)).Once()

	w := s.do(http.MethodDelete, "/api/v1/transactions/missing", nil)

	s.Equal(http.StatusNotFound, w.Code)
}

func (s *TransactionHandlerTestSuite) TestDeleteTransaction_ReturnsBalances() {
	s.mockTransactionService.On("DeleteTransaction", mock.Anything, s.userID, "txn-1").
		Return(map[string]decimal.Decimal{"acc-1": decimal.NewFromInt(1000)}, nil).Once()

	w := s.do(http.MethodDelete, "/api/v1/transactions/txn-1", nil)

	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"balances":{"acc-1":"1000"}}`, w.Body.String())
}

func (s *TransactionHandlerTestSuite) TestInfrastructureErrorIsGeneric() {
	s.mockTransactionService.On("GetTransactionByID", mock.Anything, s.userID, "txn-1").
		Return(nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to find transaction txn-1", errors.New("conn reset"))).Once()

	w := s.do(http.MethodGet, "/api/v1/transactions/txn-1", nil)

	s.Equal(http.StatusInternalServerError, w.Code)
	s.JSONEq(`{"error":"Failed to retrieve transaction"}`, w.Body.String())
}

func (s *TransactionHandlerTestSuite) TestMissingToken() {
	w := unauthenticated(s.router, http.MethodGet, "/api/v1/transactions")
	s.Equal(http.StatusUnauthorized, w.Code)
	s.mockTransactionService.AssertNotCalled(s.T(), "ListTransactions", mock.Anything, mock.Anything, mock.Anything)
}

func (s *TransactionHandlerTestSuite) TestRecomputeBalance() {
	s.mockBalanceService.On("RecomputeBalance", mock.Anything, s.userID, "acc-1").
		Return(decimal.RequireFromString("600.50"), nil).Once()

	w := s.do(http.MethodPost, "/api/v1/accounts/acc-1/recompute", nil)

	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"accountID":"acc-1","balance":"600.5"}`, w.Body.String())
}

func (s *TransactionHandlerTestSuite) TestCreateAccount() {
	s.mockAccountService.On("CreateAccount", mock.Anything, s.userID, dto.CreateAccountRequest{Name: "Caixa", Type: domain.Cash}).
		Return(&domain.Account{AccountID: "acc-9", UserID: s.userID, Name: "Caixa", Type: domain.Cash, Balance: decimal.Zero, IsActive: true}, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/accounts", map[string]string{"name": "Caixa", "type": "cash"})

	s.Equal(http.StatusCreated, w.Code, w.Body.String())
	var resp dto.AccountResponse
	s.decode(w, &resp)
	s.Equal("acc-9", resp.AccountID)
	s.True(resp.Balance.IsZero())
}

func TestTransactionHandler(t *testing.T) {
	suite.Run(t, new(TransactionHandlerTestSuite))
}
