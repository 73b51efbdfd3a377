package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/bizos_backend/internal/core/ports/services"
	"github.com/SscSPs/bizos_backend/internal/dto"
	"github.com/SscSPs/bizos_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type advisorHandler struct {
	advisorService portssvc.AdvisorSvc
}

// RegisterAdvisorRoutes registers the business advisor chat routes. askLimit,
// when set, throttles questions per user since each one may reach a paid LLM.
func RegisterAdvisorRoutes(rg *gin.RouterGroup, advisorService portssvc.AdvisorSvc, askLimit gin.HandlerFunc) {
	h := &advisorHandler{advisorService: advisorService}

	advisor := rg.Group("/advisor")
	{
		advisor.GET("/snapshot", h.getSnapshot)

		session := advisor.Group("/sessions/:session_id")
		session.GET("", h.getSession)
		session.PUT("/settings", h.updateSettings)
		session.DELETE("/messages", h.clearChat)
		if askLimit != nil {
			session.POST("/ask", askLimit, h.ask)
		} else {
			session.POST("/ask", h.ask)
		}
	}
}

// getSnapshot godoc
// @Summary Business metrics snapshot
// @Description The lead, task and finance metrics the advisor answers from
// @Tags advisor
// @Produce json
// @Success 200 {object} domain.BusinessData
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to collect business data"
// @Security BearerAuth
// @Router /advisor/snapshot [get]
func (h *advisorHandler) getSnapshot(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	data, err := h.advisorService.Snapshot(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to collect business data")
		return
	}
	c.JSON(http.StatusOK, data)
}

// getSession godoc
// @Summary Get an advisor conversation
// @Description Returns the settings and transcript of a conversation. Unknown sessions come back empty with default settings.
// @Tags advisor
// @Produce json
// @Param session_id path string true "Session ID, e.g. default"
// @Success 200 {object} dto.AdvisorSessionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to load session"
// @Security BearerAuth
// @Router /advisor/sessions/{session_id} [get]
func (h *advisorHandler) getSession(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	session, err := h.advisorService.GetSession(c.Request.Context(), userID, c.Param("session_id"))
	if err != nil {
		respondError(c, logger, err, "Failed to load session")
		return
	}
	c.JSON(http.StatusOK, dto.ToAdvisorSessionResponse(session))
}

// updateSettings godoc
// @Summary Update advisor settings
// @Description Changes provider, model, key, prompt, temperature, token limit or analysis depth. Omitted fields are kept.
// @Tags advisor
// @Accept json
// @Produce json
// @Param session_id path string true "Session ID"
// @Param settings body dto.UpdateAdvisorSettingsRequest true "Settings to change"
// @Success 200 {object} dto.AdvisorSessionResponse
// @Failure 400 {object} map[string]string "Invalid settings"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to save settings"
// @Security BearerAuth
// @Router /advisor/sessions/{session_id}/settings [put]
func (h *advisorHandler) updateSettings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateAdvisorSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateAdvisorSettings", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	session, err := h.advisorService.UpdateSettings(c.Request.Context(), userID, c.Param("session_id"), req)
	if err != nil {
		respondError(c, logger, err, "Failed to save settings")
		return
	}
	c.JSON(http.StatusOK, dto.ToAdvisorSessionResponse(session))
}

// ask godoc
// @Summary Ask the business advisor
// @Description Answers a question from the current business metrics, with the configured LLM when available and rule-based advice otherwise
// @Tags advisor
// @Accept json
// @Produce json
// @Param session_id path string true "Session ID"
// @Param question body dto.AskAdvisorRequest true "Question"
// @Success 200 {object} domain.ChatReply
// @Failure 400 {object} map[string]string "Empty question"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "A question is already being answered"
// @Failure 429 {object} map[string]string "Too many requests"
// @Failure 500 {object} map[string]string "Failed to answer"
// @Security BearerAuth
// @Router /advisor/sessions/{session_id}/ask [post]
func (h *advisorHandler) ask(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AskAdvisorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AskAdvisor", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	sessionID := c.Param("session_id")
	logger = logger.With(slog.String("session_id", sessionID))
	reply, err := h.advisorService.Ask(c.Request.Context(), userID, sessionID, req.Question)
	if err != nil {
		respondError(c, logger, err, "Failed to answer")
		return
	}
	c.JSON(http.StatusOK, reply)
}

// clearChat godoc
// @Summary Clear a conversation
// @Description Removes every message and keeps the settings
// @Tags advisor
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} dto.AdvisorSessionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to clear chat"
// @Security BearerAuth
// @Router /advisor/sessions/{session_id}/messages [delete]
func (h *advisorHandler) clearChat(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	session, err := h.advisorService.ClearChat(c.Request.Context(), userID, c.Param("session_id"))
	if err != nil {
		respondError(c, logger, err, "Failed to clear chat")
		return
	}
	c.JSON(http.StatusOK, dto.ToAdvisorSessionResponse(session))
}
