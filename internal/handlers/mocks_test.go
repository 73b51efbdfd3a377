package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"time"

	"github.com/SscSPs/bizos_backend/internal/core/domain"
	portssvc "github.com/SscSPs/bizos_backend/internal/core/ports/services"
	"github.com/SscSPs/bizos_backend/internal/dto"
	"github.com/SscSPs/bizos_backend/internal/middleware"
	"github.com/SscSPs/bizos_backend/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const testJWTSecret = "test-secret-key-that-is-long-enough"

// handlerSuite carries the router and token plumbing shared by the handler suites.
type handlerSuite struct {
	suite.Suite
	router *gin.Engine
	v1     *gin.RouterGroup
	userID string
}

func (s *handlerSuite) setupRouter() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.router.Use(middleware.AuthMiddleware(testJWTSecret))
	s.v1 = s.router.Group("/api/v1")
	s.userID = "8c6f2d1e-0b7a-4d8e-9a51-3f1f0c2b7e44"
}

func (s *handlerSuite) token(userID string) string {
	tok, err := utils.GenerateJWT(userID, testJWTSecret, time.Hour, "bizos-test")
	if err != nil {
		s.FailNow("Failed to sign test token", err.Error())
	}
	return tok
}

// do serves one authenticated request. body may be nil, a string or any JSON-able value.
func (s *handlerSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+s.token(s.userID))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *handlerSuite) decode(w *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

// --- Mock TransactionService ---
type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) CreateTransaction(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.Transaction, map[string]decimal.Decimal, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Transaction), args.Get(1).(map[string]decimal.Decimal), args.Error(2)
}

func (m *MockTransactionService) UpdateTransaction(ctx context.Context, userID, transactionID string, req dto.UpdateTransactionRequest) (*domain.Transaction, map[string]decimal.Decimal, error) {
	args := m.Called(ctx, userID, transactionID, req)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Transaction), args.Get(1).(map[string]decimal.Decimal), args.Error(2)
}

func (m *MockTransactionService) DeleteTransaction(ctx context.Context, userID, transactionID string) (map[string]decimal.Decimal, error) {
	args := m.Called(ctx, userID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]decimal.Decimal), args.Error(1)
}

func (m *MockTransactionService) GetTransactionByID(ctx context.Context, userID, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, userID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) ListTransactions(ctx context.Context, userID string, params dto.ListTransactionsParams) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, userID, params)
	var next *string
	if n := args.Get(1); n != nil {
		next = n.(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.Transaction), next, args.Error(2)
}

var _ portssvc.TransactionSvcFacade = (*MockTransactionService)(nil)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) CreateAccount(ctx context.Context, userID string, req dto.CreateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, userID, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, userID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, userID, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, userID, accountID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) DeleteAccount(ctx context.Context, userID, accountID string) error {
	return m.Called(ctx, userID, accountID).Error(0)
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock BalanceService ---
type MockBalanceService struct {
	mock.Mock
}

func (m *MockBalanceService) RecomputeBalance(ctx context.Context, userID, accountID string) (decimal.Decimal, error) {
	args := m.Called(ctx, userID, accountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockBalanceService) ReconcileAccounts(ctx context.Context, userID string) ([]domain.ReconcileResult, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReconcileResult), args.Error(1)
}

var _ portssvc.BalanceSvc = (*MockBalanceService)(nil)

// --- Mock FinanceSummaryService ---
type MockFinanceService struct {
	mock.Mock
}

func (m *MockFinanceService) GetFinanceSummary(ctx context.Context, userID string, year int, month int) (*domain.MonthlySummary, error) {
	args := m.Called(ctx, userID, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MonthlySummary), args.Error(1)
}

var _ portssvc.FinanceSummarySvc = (*MockFinanceService)(nil)

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) GenerateReport(ctx context.Context, userID string, kind domain.ReportKind, year, month int, format domain.ReportFormat) (*portssvc.RenderedReport, error) {
	args := m.Called(ctx, userID, kind, year, month, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portssvc.RenderedReport), args.Error(1)
}

var _ portssvc.ReportingService = (*MockReportingService)(nil)

// --- Mock AdvisorService ---
type MockAdvisorService struct {
	mock.Mock
}

func (m *MockAdvisorService) GetSession(ctx context.Context, userID, sessionID string) (*domain.ChatSession, error) {
	args := m.Called(ctx, userID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatSession), args.Error(1)
}

func (m *MockAdvisorService) UpdateSettings(ctx context.Context, userID, sessionID string, req dto.UpdateAdvisorSettingsRequest) (*domain.ChatSession, error) {
	args := m.Called(ctx, userID, sessionID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatSession), args.Error(1)
}

func (m *MockAdvisorService) ClearChat(ctx context.Context, userID, sessionID string) (*domain.ChatSession, error) {
	args := m.Called(ctx, userID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatSession), args.Error(1)
}

func (m *MockAdvisorService) Ask(ctx context.Context, userID, sessionID, question string) (*domain.ChatReply, error) {
	args := m.Called(ctx, userID, sessionID, question)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatReply), args.Error(1)
}

func (m *MockAdvisorService) Snapshot(ctx context.Context, userID string) (*domain.BusinessData, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BusinessData), args.Error(1)
}

var _ portssvc.AdvisorSvc = (*MockAdvisorService)(nil)

// --- Mock IntegrationService ---
type MockIntegrationService struct {
	mock.Mock
}

func (m *MockIntegrationService) ListIntegrations(ctx context.Context, userID string) ([]domain.Integration, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Integration), args.Error(1)
}

func (m *MockIntegrationService) SaveIntegration(ctx context.Context, userID string, kind domain.IntegrationKind, req dto.SaveIntegrationRequest) (*domain.Integration, error) {
	args := m.Called(ctx, userID, kind, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Integration), args.Error(1)
}

func (m *MockIntegrationService) DeleteIntegration(ctx context.Context, userID string, kind domain.IntegrationKind) error {
	return m.Called(ctx, userID, kind).Error(0)
}

func (m *MockIntegrationService) TestConnection(ctx context.Context, userID string, kind domain.IntegrationKind, req dto.TestIntegrationRequest) (domain.ConnectionTestResult, error) {
	args := m.Called(ctx, userID, kind, req)
	return args.Get(0).(domain.ConnectionTestResult), args.Error(1)
}

var _ portssvc.IntegrationSvc = (*MockIntegrationService)(nil)

// unauthenticated serves a request without a bearer token.
func unauthenticated(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
