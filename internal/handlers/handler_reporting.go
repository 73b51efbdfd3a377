package handlers

import (
	"log/slog"
	"mime"
	"net/http"

	"github.com/SscSPs/bizos_backend/internal/core/domain"
	portssvc "github.com/SscSPs/bizos_backend/internal/core/ports/services"
	"github.com/SscSPs/bizos_backend/internal/dto"
	"github.com/SscSPs/bizos_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportFailedMessage is the only error text a failed report download carries.
const reportFailedMessage = "Erro ao gerar relatório"

// reportingHandler handles the finance dashboard, reconcile and report downloads.
type reportingHandler struct {
	financeService   portssvc.FinanceSummarySvc
	balanceService   portssvc.BalanceSvc
	reportingService portssvc.ReportingService
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(fs portssvc.FinanceSummarySvc, bs portssvc.BalanceSvc, rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{
		financeService:   fs,
		balanceService:   bs,
		reportingService: rs,
	}
}

// RegisterReportingRoutes registers the finance summary and report routes.
func RegisterReportingRoutes(rg *gin.RouterGroup, fs portssvc.FinanceSummarySvc, bs portssvc.BalanceSvc, rs portssvc.ReportingService) {
	h := newReportingHandler(fs, bs, rs)

	finance := rg.Group("/finance")
	{
		finance.GET("/summary", h.getSummary)
		finance.POST("/reconcile", h.reconcile)
	}

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/:kind", h.downloadReport)
	}
}

// getSummary godoc
// @Summary Monthly finance summary
// @Description Income, expenses and net balance of a month plus the total balance across accounts
// @Tags finance
// @Produce json
// @Param year query int false "Year (defaults to the current year)"
// @Param month query int false "Month 1-12 (defaults to the current month)"
// @Success 200 {object} domain.MonthlySummary
// @Failure 400 {object} map[string]string "Invalid period"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to build summary"
// @Security BearerAuth
// @Router /finance/summary [get]
func (h *reportingHandler) getSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.PeriodParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Invalid period for finance summary", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	summary, err := h.financeService.GetFinanceSummary(c.Request.Context(), userID, params.Year, params.Month)
	if err != nil {
		respondError(c, logger, err, "Failed to build summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// reconcile godoc
// @Summary Reconcile account balances
// @Description Recomputes every account from its transactions and corrects stored balances that drifted
// @Tags finance
// @Produce json
// @Success 200 {object} dto.ReconcileResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to reconcile balances"
// @Security BearerAuth
// @Router /finance/reconcile [post]
func (h *reportingHandler) reconcile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	results, err := h.balanceService.ReconcileAccounts(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to reconcile balances")
		return
	}

	corrected := 0
	for _, r := range results {
		if r.Corrected {
			corrected++
		}
	}
	logger.Info("Balances reconciled", slog.Int("accounts", len(results)), slog.Int("corrected", corrected))
	c.JSON(http.StatusOK, dto.ReconcileResponse{Results: results})
}

// downloadReport godoc
// @Summary Download a finance report
// @Description Renders the monthly, expense-analysis or cash-flow report of a month as PDF or XLSX
// @Tags reports
// @Produce application/pdf
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param kind path string true "Report kind" Enums(monthly, expense-analysis, cash-flow)
// @Param year query int false "Year (defaults to the current year)"
// @Param month query int false "Month 1-12 (defaults to the current month)"
// @Param format query string false "Output format" Enums(pdf, xlsx) default(pdf)
// @Success 200 {file} file
// @Failure 400 {object} map[string]string "Invalid report kind, period or format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Erro ao gerar relatório"
// @Security BearerAuth
// @Router /reports/{kind} [get]
func (h *reportingHandler) downloadReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	kind := domain.ReportKind(c.Param("kind"))
	if !kind.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown report kind: " + string(kind)})
		return
	}
	var params dto.ReportParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Invalid report parameters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("report_kind", string(kind)), slog.String("format", string(params.Format)))
	rendered, err := h.reportingService.GenerateReport(c.Request.Context(), userID, kind, params.Year, params.Month, params.Format)
	if err != nil {
		respondError(c, logger, err, reportFailedMessage)
		return
	}

	logger.Info("Report generated", slog.String("filename", rendered.Filename), slog.Int("bytes", len(rendered.Content)))
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": rendered.Filename}))
	c.Data(http.StatusOK, rendered.ContentType, rendered.Content)
}
