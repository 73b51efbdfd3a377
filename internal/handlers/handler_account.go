package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/bizos_backend/internal/core/ports/services"
	"github.com/SscSPs/bizos_backend/internal/dto"
	"github.com/SscSPs/bizos_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
	balanceService portssvc.BalanceSvc
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade, bs portssvc.BalanceSvc) *accountHandler {
	return &accountHandler{
		accountService: as,
		balanceService: bs,
	}
}

// RecomputeBalanceResponse is the balance of one account refolded from its transactions.
type RecomputeBalanceResponse struct {
	AccountID string `json:"accountID"`
	Balance   string `json:"balance"`
}

// RegisterAccountRoutes registers routes related to accounts.
func RegisterAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade, balanceService portssvc.BalanceSvc) {
	h := newAccountHandler(accountService, balanceService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:id", h.getAccount)
		accounts.PUT("/:id", h.updateAccount)
		accounts.DELETE("/:id", h.deleteAccount)
		accounts.POST("/:id/recompute", h.recomputeBalance)
	}
}

// createAccount godoc
// @Summary Create a new account
// @Description Creates a new account for the logged-in user with a zero balance
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create account"
// @Security BearerAuth
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	logger.Info("Received request to create account", slog.String("account_name", req.Name), slog.String("account_type", string(req.Type)))

	account, err := h.accountService.CreateAccount(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to create account")
		return
	}

	logger.Info("Account created successfully", slog.String("account_id", account.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// listAccounts godoc
// @Summary List accounts
// @Description Lists the accounts of the logged-in user with their current balances
// @Tags accounts
// @Produce  json
// @Success 200 {array} dto.AccountResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list accounts"
// @Security BearerAuth
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ToListAccountResponse(accounts))
}

// getAccount godoc
// @Summary Get an account by ID
// @Description Retrieves details for a specific account by its ID
// @Tags accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to retrieve account"
// @Security BearerAuth
// @Router /accounts/{id} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("account_id", accountID))
	account, err := h.accountService.GetAccountByID(c.Request.Context(), userID, accountID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// updateAccount godoc
// @Summary Update an account
// @Description Renames, retypes or (de)activates an account. The balance is never writable.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   account body dto.UpdateAccountRequest true "Fields to change"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to update account"
// @Security BearerAuth
// @Router /accounts/{id} [put]
func (h *accountHandler) updateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")
	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("account_id", accountID))
	account, err := h.accountService.UpdateAccount(c.Request.Context(), userID, accountID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to update account")
		return
	}

	logger.Info("Account updated successfully")
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// deleteAccount godoc
// @Summary Delete an account
// @Description Deletes an account of the logged-in user
// @Tags accounts
// @Param   id path string true "Account ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Account still has transactions"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to delete account"
// @Security BearerAuth
// @Router /accounts/{id} [delete]
func (h *accountHandler) deleteAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("account_id", accountID))
	if err := h.accountService.DeleteAccount(c.Request.Context(), userID, accountID); err != nil {
		respondError(c, logger, err, "Failed to delete account")
		return
	}

	logger.Info("Account deleted successfully")
	c.Status(http.StatusNoContent)
}

// recomputeBalance godoc
// @Summary Recompute an account balance
// @Description Refolds the account balance from all of its transactions and stores it
// @Tags accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {object} RecomputeBalanceResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to recompute balance"
// @Security BearerAuth
// @Router /accounts/{id}/recompute [post]
func (h *accountHandler) recomputeBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("account_id", accountID))
	balance, err := h.balanceService.RecomputeBalance(c.Request.Context(), userID, accountID)
	if err != nil {
		respondError(c, logger, err, "Failed to recompute balance")
		return
	}

	logger.Info("Account balance recomputed", slog.String("balance", balance.String()))
	c.JSON(http.StatusOK, RecomputeBalanceResponse{AccountID: accountID, Balance: balance.String()})
}
