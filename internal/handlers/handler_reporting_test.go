package handlers_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/SscSPs/bizos_backend/internal/apperrors"
	"github.com/SscSPs/bizos_backend/internal/core/domain"
	portssvc "github.com/SscSPs/bizos_backend/internal/core/ports/services"
	"github.com/SscSPs/bizos_backend/internal/dto"
	"github.com/SscSPs/bizos_backend/internal/handlers"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ReportingHandlerTestSuite struct {
	handlerSuite
	mockFinance   *MockFinanceService
	mockBalance   *MockBalanceService
	mockReporting *MockReportingService
}

func (s *ReportingHandlerTestSuite) SetupTest() {
	s.setupRouter()
	s.mockFinance = new(MockFinanceService)
	s.mockBalance = new(MockBalanceService)
	s.mockReporting = new(MockReportingService)
	handlers.RegisterReportingRoutes(s.v1, s.mockFinance, s.mockBalance, s.mockReporting)
}

func (s *ReportingHandlerTestSuite) TestDownloadReport_PDFAttachment() {
	s.mockReporting.On("GenerateReport", mock.Anything, s.userID, domain.ReportMonthly, 2026, 3, domain.FormatPDF).
		Return(&portssvc.RenderedReport{
			Filename:    "monthly-marco-de-2026.pdf",
			ContentType: "application/pdf",
			Content:     []byte("%PDF-1.4 test"),
		}, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/reports/monthly?year=2026&month=3", nil)

	s.Equal(http.StatusOK, w.Code, w.Body.String())
	s.Equal("application/pdf", w.Header().Get("Content-Type"))
	s.Equal(`attachment; filename=monthly-marco-de-2026.pdf`, w.Header().Get("Content-Disposition"))
	s.Equal("%PDF-1.4 test", w.Body.String())
}

func (s *ReportingHandlerTestSuite) TestDownloadReport_XLSX() {
	s.mockReporting.On("GenerateReport", mock.Anything, s.userID, domain.ReportCashFlow, 0, 0, domain.FormatXLSX).
		Return(&portssvc.RenderedReport{Filename: "cash-flow.xlsx", ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", Content: []byte("PK")}, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/reports/cash-flow?format=xlsx", nil)

	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Header().Get("Content-Disposition"), "attachment")
	s.mockReporting.AssertExpectations(s.T())
}

func (s *ReportingHandlerTestSuite) TestDownloadReport_FailureIsGeneric() {
	s.mockReporting.On("GenerateReport", mock.Anything, s.userID, domain.ReportExpenseAnalysis, 0, 0, domain.FormatPDF).
		Return(nil, apperrors.NewAppError(http.StatusInternalServerError, "Erro ao gerar relatório", errors.New("font missing"))).Once()

	w := s.do(http.MethodGet, "/api/v1/reports/expense-analysis", nil)

	s.Equal(http.StatusInternalServerError, w.Code)
	s.JSONEq(`{"error":"Erro ao gerar relatório"}`, w.Body.String())
	s.Empty(w.Header().Get("Content-Disposition"))
}

func (s *ReportingHandlerTestSuite) TestDownloadReport_RejectsUnknownKindAndFormat() {
	s.Equal(http.StatusBadRequest, s.do(http.MethodGet, "/api/v1/reports/balance-sheet", nil).Code)
	s.Equal(http.StatusBadRequest, s.do(http.MethodGet, "/api/v1/reports/monthly?format=csv", nil).Code)
	s.Equal(http.StatusBadRequest, s.do(http.MethodGet, "/api/v1/reports/monthly?month=13", nil).Code)
	s.mockReporting.AssertNotCalled(s.T(), "GenerateReport", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *ReportingHandlerTestSuite) TestSummary() {
	s.mockFinance.On("GetFinanceSummary", mock.Anything, s.userID, 2026, 10).
		Return(&domain.MonthlySummary{
			Year: 2026, Month: 10,
			MonthlyIncome:    decimal.NewFromInt(1000),
			MonthlyExpenses:  decimal.NewFromInt(400),
			MonthlyBalance:   decimal.NewFromInt(600),
			TotalBalance:     decimal.NewFromInt(600),
			TransactionCount: 2,
		}, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/finance/summary?year=2026&month=10", nil)

	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"year":2026,"month":10,"monthlyIncome":"1000","monthlyExpenses":"400","monthlyBalance":"600","totalBalance":"600","transactionCount":2}`, w.Body.String())
}

func (s *ReportingHandlerTestSuite) TestReconcile() {
	s.mockBalance.On("ReconcileAccounts", mock.Anything, s.userID).
		Return([]domain.ReconcileResult{{
			AccountID:       "acc-1",
			StoredBalance:   decimal.NewFromInt(650),
			ComputedBalance: decimal.NewFromInt(600),
			Drift:           decimal.NewFromInt(50),
			Corrected:       true,
		}}, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/finance/reconcile", nil)

	s.Equal(http.StatusOK, w.Code)
	var resp dto.ReconcileResponse
	s.decode(w, &resp)
	s.Require().Len(resp.Results, 1)
	s.True(resp.Results[0].Corrected)
	s.True(resp.Results[0].Drift.Equal(decimal.NewFromInt(50)))
}

func TestReportingHandler(t *testing.T) {
	suite.Run(t, new(ReportingHandlerTestSuite))
}
