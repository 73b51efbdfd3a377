package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/bizos_backend/internal/core/domain"
	portssvc "github.com/SscSPs/bizos_backend/internal/core/ports/services"
	"github.com/SscSPs/bizos_backend/internal/dto"
	"github.com/SscSPs/bizos_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type integrationHandler struct {
	integrationService portssvc.IntegrationSvc
}

// RegisterIntegrationRoutes registers the integration config routes. testLimit
// throttles connectivity tests, which call third-party APIs.
func RegisterIntegrationRoutes(rg *gin.RouterGroup, integrationService portssvc.IntegrationSvc, testLimit gin.HandlerFunc) {
	h := &integrationHandler{integrationService: integrationService}

	integrations := rg.Group("/integrations")
	{
		integrations.GET("", h.listIntegrations)
		integrations.PUT("/:kind", h.saveIntegration)
		integrations.DELETE("/:kind", h.deleteIntegration)
		if testLimit != nil {
			integrations.POST("/:kind/test", testLimit, h.testConnection)
		} else {
			integrations.POST("/:kind/test", h.testConnection)
		}
	}
}

// kindParam reads and checks the :kind path segment.
func kindParam(c *gin.Context) (domain.IntegrationKind, bool) {
	kind := domain.IntegrationKind(c.Param("kind"))
	switch kind {
	case domain.KindWhatsApp, domain.KindEmail, domain.KindOpenAI, domain.KindGemini:
		return kind, true
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown integration kind: " + string(kind)})
	return "", false
}

// listIntegrations godoc
// @Summary List integrations
// @Description Lists the configured integrations. Secrets are masked.
// @Tags integrations
// @Produce json
// @Success 200 {array} dto.IntegrationResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list integrations"
// @Security BearerAuth
// @Router /integrations [get]
func (h *integrationHandler) listIntegrations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	items, err := h.integrationService.ListIntegrations(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to list integrations")
		return
	}
	res := make([]dto.IntegrationResponse, len(items))
	for i := range items {
		res[i] = dto.ToIntegrationResponse(&items[i])
	}
	c.JSON(http.StatusOK, res)
}

// saveIntegration godoc
// @Summary Save an integration
// @Description Validates and stores the config of one integration kind, replacing any previous one
// @Tags integrations
// @Accept json
// @Produce json
// @Param kind path string true "Integration kind" Enums(whatsapp, email, openai, gemini)
// @Param integration body dto.SaveIntegrationRequest true "Config"
// @Success 200 {object} dto.IntegrationResponse
// @Failure 400 {object} map[string]string "Invalid config"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to save integration"
// @Security BearerAuth
// @Router /integrations/{kind} [put]
func (h *integrationHandler) saveIntegration(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	var req dto.SaveIntegrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SaveIntegration", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("kind", string(kind)))
	saved, err := h.integrationService.SaveIntegration(c.Request.Context(), userID, kind, req)
	if err != nil {
		respondError(c, logger, err, "Failed to save integration")
		return
	}
	logger.Info("Integration saved", slog.Bool("active", saved.IsActive))
	c.JSON(http.StatusOK, dto.ToIntegrationResponse(saved))
}

// deleteIntegration godoc
// @Summary Delete an integration
// @Tags integrations
// @Param kind path string true "Integration kind" Enums(whatsapp, email, openai, gemini)
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Integration not found"
// @Security BearerAuth
// @Router /integrations/{kind} [delete]
func (h *integrationHandler) deleteIntegration(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	if err := h.integrationService.DeleteIntegration(c.Request.Context(), userID, kind); err != nil {
		respondError(c, logger, err, "Failed to delete integration")
		return
	}
	c.Status(http.StatusNoContent)
}

// testConnection godoc
// @Summary Test an integration
// @Description Tests the given config, or the stored one when the body carries no config. The outcome is always reported in the body.
// @Tags integrations
// @Accept json
// @Produce json
// @Param kind path string true "Integration kind" Enums(whatsapp, email, openai, gemini)
// @Param integration body dto.TestIntegrationRequest false "Config to test"
// @Success 200 {object} domain.ConnectionTestResult
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "No stored config to test"
// @Failure 429 {object} map[string]string "Too many requests"
// @Security BearerAuth
// @Router /integrations/{kind}/test [post]
func (h *integrationHandler) testConnection(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	var req dto.TestIntegrationRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind JSON for TestIntegration", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("kind", string(kind)))
	result, err := h.integrationService.TestConnection(c.Request.Context(), userID, kind, req)
	if err != nil {
		respondError(c, logger, err, "Failed to test integration")
		return
	}
	logger.Info("Integration tested", slog.Bool("success", result.Success))
	c.JSON(http.StatusOK, result)
}
