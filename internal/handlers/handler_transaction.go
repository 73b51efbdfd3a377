package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/bizos_backend/internal/core/ports/services"
	"github.com/SscSPs/bizos_backend/internal/dto"
	"github.com/SscSPs/bizos_backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
}

// RegisterTransactionRoutes registers the income/expense transaction routes.
func RegisterTransactionRoutes(rg *gin.RouterGroup, transactionService portssvc.TransactionSvcFacade) {
	h := &transactionHandler{transactionService: transactionService}

	txns := rg.Group("/transactions")
	{
		txns.POST("", h.createTransaction)
		txns.GET("", h.listTransactions)
		txns.GET("/:id", h.getTransaction)
		txns.PUT("/:id", h.updateTransaction)
		txns.DELETE("/:id", h.deleteTransaction)
	}
}

func mutationResponse(txn *dto.TransactionResponse, balances map[string]decimal.Decimal) dto.TransactionMutationResponse {
	if balances == nil {
		balances = map[string]decimal.Decimal{}
	}
	return dto.TransactionMutationResponse{Transaction: txn, Balances: balances}
}

// createTransaction godoc
// @Summary Record a transaction
// @Description Records an income or expense and updates the balance of its account
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   transaction body dto.CreateTransactionRequest true "Transaction details"
// @Success 201 {object} dto.TransactionMutationResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create transaction"
// @Security BearerAuth
// @Router /transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("account_id", req.AccountID))
	txn, balances, err := h.transactionService.CreateTransaction(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to create transaction")
		return
	}

	logger.Info("Transaction created successfully", slog.String("transaction_id", txn.TransactionID))
	resp := dto.ToTransactionResponse(txn)
	c.JSON(http.StatusCreated, mutationResponse(&resp, balances))
}

// listTransactions godoc
// @Summary List transactions
// @Description Lists transactions newest first. Pass nextToken from the previous page to continue.
// @Tags transactions
// @Produce  json
// @Param   accountID query string false "Only this account"
// @Param   categoryID query string false "Only this category"
// @Param   type query string false "income or expense"
// @Param   from query string false "First date (YYYY-MM-DD)"
// @Param   to query string false "Last date (YYYY-MM-DD)"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list transactions"
// @Security BearerAuth
// @Router /transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	txns, next, err := h.transactionService.ListTransactions(c.Request.Context(), userID, params)
	if err != nil {
		respondError(c, logger, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.ToListTransactionResponse(txns),
		NextToken:    next,
	})
}

// getTransaction godoc
// @Summary Get a transaction
// @Tags transactions
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Failed to retrieve transaction"
// @Security BearerAuth
// @Router /transactions/{id} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	txn, err := h.transactionService.GetTransactionByID(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// updateTransaction godoc
// @Summary Update a transaction
// @Description Replaces a transaction. When the account changes both the old and the new account balances are updated.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Param   transaction body dto.UpdateTransactionRequest true "Transaction details"
// @Success 200 {object} dto.TransactionMutationResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Failed to update transaction"
// @Security BearerAuth
// @Router /transactions/{id} [put]
func (h *transactionHandler) updateTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("id")
	var req dto.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("transaction_id", transactionID))
	txn, balances, err := h.transactionService.UpdateTransaction(c.Request.Context(), userID, transactionID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to update transaction")
		return
	}

	logger.Info("Transaction updated successfully", slog.Int("accounts_touched", len(balances)))
	resp := dto.ToTransactionResponse(txn)
	c.JSON(http.StatusOK, mutationResponse(&resp, balances))
}

// deleteTransaction godoc
// @Summary Delete a transaction
// @Description Deletes a transaction and returns the updated balance of its account
// @Tags transactions
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionMutationResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Failed to delete transaction"
// @Security BearerAuth
// @Router /transactions/{id} [delete]
func (h *transactionHandler) deleteTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("id")
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("transaction_id", transactionID))
	balances, err := h.transactionService.DeleteTransaction(c.Request.Context(), userID, transactionID)
	if err != nil {
		respondError(c, logger, err, "Failed to delete transaction")
		return
	}

	logger.Info("Transaction deleted successfully")
	c.JSON(http.StatusOK, mutationResponse(nil, balances))
}
