package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	portssvc "github.com/SscSPs/bizos_backend/internal/core/ports/services"
	"github.com/SscSPs/bizos_backend/internal/dto"
	"github.com/SscSPs/bizos_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// crmHandler serves the sales pipeline, the task board and the insights feed.
type crmHandler struct {
	leadService    portssvc.LeadSvcFacade
	taskService    portssvc.TaskSvcFacade
	insightService portssvc.InsightSvcFacade
}

// RegisterCRMRoutes registers leads, tasks and insights routes.
func RegisterCRMRoutes(rg *gin.RouterGroup, leadService portssvc.LeadSvcFacade, taskService portssvc.TaskSvcFacade, insightService portssvc.InsightSvcFacade) {
	h := &crmHandler{leadService: leadService, taskService: taskService, insightService: insightService}

	leads := rg.Group("/leads")
	{
		leads.POST("", h.createLead)
		leads.GET("", h.listLeads)
		leads.GET("/:id", h.getLead)
		leads.PUT("/:id", h.updateLead)
		leads.PATCH("/:id/stage", h.moveLead)
		leads.DELETE("/:id", h.deleteLead)
	}

	tasks := rg.Group("/tasks")
	{
		tasks.POST("", h.createTask)
		tasks.GET("", h.listTasks)
		tasks.PUT("/:id", h.updateTask)
		tasks.DELETE("/:id", h.deleteTask)
	}

	insights := rg.Group("/insights")
	{
		insights.GET("", h.listInsights)
		insights.PATCH("/:id/read", h.markInsightRead)
		insights.DELETE("/:id", h.deleteInsight)
	}
}

// createLead godoc
// @Summary Add a lead
// @Description Adds a prospect to the sales pipeline. The stage defaults to "new".
// @Tags leads
// @Accept  json
// @Produce  json
// @Param   lead body dto.CreateLeadRequest true "Lead details"
// @Success 201 {object} domain.Lead
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create lead"
// @Security BearerAuth
// @Router /leads [post]
func (h *crmHandler) createLead(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateLead", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	lead, err := h.leadService.CreateLead(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to create lead")
		return
	}
	logger.Info("Lead created", slog.String("lead_id", lead.LeadID))
	c.JSON(http.StatusCreated, lead)
}

// listLeads godoc
// @Summary List leads
// @Tags leads
// @Produce  json
// @Success 200 {array} domain.Lead
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list leads"
// @Security BearerAuth
// @Router /leads [get]
func (h *crmHandler) listLeads(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	leads, err := h.leadService.ListLeads(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to list leads")
		return
	}
	c.JSON(http.StatusOK, leads)
}

// getLead godoc
// @Summary Get a lead
// @Tags leads
// @Produce  json
// @Param   id path string true "Lead ID"
// @Success 200 {object} domain.Lead
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Lead not found"
// @Security BearerAuth
// @Router /leads/{id} [get]
func (h *crmHandler) getLead(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	lead, err := h.leadService.GetLeadByID(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve lead")
		return
	}
	c.JSON(http.StatusOK, lead)
}

// updateLead godoc
// @Summary Update a lead
// @Tags leads
// @Accept  json
// @Produce  json
// @Param   id path string true "Lead ID"
// @Param   lead body dto.UpdateLeadRequest true "Lead details"
// @Success 200 {object} domain.Lead
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Lead not found"
// @Security BearerAuth
// @Router /leads/{id} [put]
func (h *crmHandler) updateLead(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateLead", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	lead, err := h.leadService.UpdateLead(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondError(c, logger, err, "Failed to update lead")
		return
	}
	c.JSON(http.StatusOK, lead)
}

// moveLead godoc
// @Summary Move a lead to another stage
// @Tags leads
// @Accept  json
// @Produce  json
// @Param   id path string true "Lead ID"
// @Param   stage body dto.MoveLeadRequest true "Target stage"
// @Success 200 {object} domain.Lead
// @Failure 400 {object} map[string]string "Invalid stage"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Lead not found"
// @Security BearerAuth
// @Router /leads/{id}/stage [patch]
func (h *crmHandler) moveLead(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.MoveLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for MoveLead", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	lead, err := h.leadService.MoveLead(c.Request.Context(), userID, c.Param("id"), req.Stage)
	if err != nil {
		respondError(c, logger, err, "Failed to move lead")
		return
	}
	logger.Info("Lead moved", slog.String("lead_id", lead.LeadID), slog.String("stage", string(lead.Stage)))
	c.JSON(http.StatusOK, lead)
}

// deleteLead godoc
// @Summary Delete a lead
// @Tags leads
// @Param   id path string true "Lead ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Lead not found"
// @Security BearerAuth
// @Router /leads/{id} [delete]
func (h *crmHandler) deleteLead(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	if err := h.leadService.DeleteLead(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, logger, err, "Failed to delete lead")
		return
	}
	c.Status(http.StatusNoContent)
}

// createTask godoc
// @Summary Add a task
// @Tags tasks
// @Accept  json
// @Produce  json
// @Param   task body dto.CreateTaskRequest true "Task details"
// @Success 201 {object} domain.Task
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /tasks [post]
func (h *crmHandler) createTask(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTask", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	task, err := h.taskService.CreateTask(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to create task")
		return
	}
	c.JSON(http.StatusCreated, task)
}

// listTasks godoc
// @Summary List tasks
// @Tags tasks
// @Produce  json
// @Success 200 {array} domain.Task
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /tasks [get]
func (h *crmHandler) listTasks(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	tasks, err := h.taskService.ListTasks(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to list tasks")
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// updateTask godoc
// @Summary Update a task
// @Tags tasks
// @Accept  json
// @Produce  json
// @Param   id path string true "Task ID"
// @Param   task body dto.UpdateTaskRequest true "Task details"
// @Success 200 {object} domain.Task
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 404 {object} map[string]string "Task not found"
// @Security BearerAuth
// @Router /tasks/{id} [put]
func (h *crmHandler) updateTask(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateTask", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	task, err := h.taskService.UpdateTask(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondError(c, logger, err, "Failed to update task")
		return
	}
	c.JSON(http.StatusOK, task)
}

// deleteTask godoc
// @Summary Delete a task
// @Tags tasks
// @Param   id path string true "Task ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Task not found"
// @Security BearerAuth
// @Router /tasks/{id} [delete]
func (h *crmHandler) deleteTask(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	if err := h.taskService.DeleteTask(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, logger, err, "Failed to delete task")
		return
	}
	c.Status(http.StatusNoContent)
}

// listInsights godoc
// @Summary List insights
// @Description Lists saved advisor insights, newest first
// @Tags insights
// @Produce  json
// @Param   limit query int false "Maximum number of insights" default(50)
// @Success 200 {array} domain.Insight
// @Failure 400 {object} map[string]string "Invalid limit"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /insights [get]
func (h *crmHandler) listInsights(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 || limit > 200 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 200"})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	insights, err := h.insightService.ListInsights(c.Request.Context(), userID, limit)
	if err != nil {
		respondError(c, logger, err, "Failed to list insights")
		return
	}
	c.JSON(http.StatusOK, insights)
}

// markInsightRead godoc
// @Summary Mark an insight as read
// @Tags insights
// @Param   id path string true "Insight ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Insight not found"
// @Security BearerAuth
// @Router /insights/{id}/read [patch]
func (h *crmHandler) markInsightRead(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	if err := h.insightService.MarkInsightRead(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, logger, err, "Failed to update insight")
		return
	}
	c.Status(http.StatusNoContent)
}

// deleteInsight godoc
// @Summary Delete an insight
// @Tags insights
// @Param   id path string true "Insight ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Insight not found"
// @Security BearerAuth
// @Router /insights/{id} [delete]
func (h *crmHandler) deleteInsight(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	if err := h.insightService.DeleteInsight(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, logger, err, "Failed to delete insight")
		return
	}
	c.Status(http.StatusNoContent)
}
