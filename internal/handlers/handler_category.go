package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/bizos_backend/internal/core/ports/services"
	"github.com/SscSPs/bizos_backend/internal/dto"
	"github.com/SscSPs/bizos_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type categoryHandler struct {
	categoryService portssvc.CategorySvcFacade
}

// RegisterCategoryRoutes registers the transaction category routes.
func RegisterCategoryRoutes(rg *gin.RouterGroup, categoryService portssvc.CategorySvcFacade) {
	h := &categoryHandler{categoryService: categoryService}

	categories := rg.Group("/categories")
	{
		categories.POST("", h.createCategory)
		categories.GET("", h.listCategories)
		categories.POST("/seed", h.seedCategories)
		categories.PUT("/:id", h.updateCategory)
		categories.DELETE("/:id", h.deleteCategory)
	}
}

// createCategory godoc
// @Summary Create a category
// @Tags categories
// @Accept  json
// @Produce  json
// @Param   category body dto.CreateCategoryRequest true "Category details"
// @Success 201 {object} domain.Category
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create category"
// @Security BearerAuth
// @Router /categories [post]
func (h *categoryHandler) createCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateCategory", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	cat, err := h.categoryService.CreateCategory(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to create category")
		return
	}
	c.JSON(http.StatusCreated, cat)
}

// listCategories godoc
// @Summary List categories
// @Tags categories
// @Produce  json
// @Success 200 {array} domain.Category
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list categories"
// @Security BearerAuth
// @Router /categories [get]
func (h *categoryHandler) listCategories(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	cats, err := h.categoryService.ListCategories(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to list categories")
		return
	}
	c.JSON(http.StatusOK, cats)
}

// seedCategories godoc
// @Summary Create the default categories
// @Description Creates the default income and expense categories when the user has none yet. Calling it again is a no-op.
// @Tags categories
// @Produce  json
// @Success 200 {array} domain.Category
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to seed categories"
// @Security BearerAuth
// @Router /categories/seed [post]
func (h *categoryHandler) seedCategories(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	cats, err := h.categoryService.SeedDefaultCategories(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to seed categories")
		return
	}
	logger.Info("Default categories ensured", slog.Int("count", len(cats)))
	c.JSON(http.StatusOK, cats)
}

// updateCategory godoc
// @Summary Update a category
// @Tags categories
// @Accept  json
// @Produce  json
// @Param   id path string true "Category ID"
// @Param   category body dto.UpdateCategoryRequest true "Fields to change"
// @Success 200 {object} domain.Category
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Category not found"
// @Failure 500 {object} map[string]string "Failed to update category"
// @Security BearerAuth
// @Router /categories/{id} [put]
func (h *categoryHandler) updateCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateCategory", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	cat, err := h.categoryService.UpdateCategory(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondError(c, logger, err, "Failed to update category")
		return
	}
	c.JSON(http.StatusOK, cat)
}

// deleteCategory godoc
// @Summary Delete a category
// @Description Deletes a category. Its transactions become uncategorized.
// @Tags categories
// @Param   id path string true "Category ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Category not found"
// @Failure 500 {object} map[string]string "Failed to delete category"
// @Security BearerAuth
// @Router /categories/{id} [delete]
func (h *categoryHandler) deleteCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	if err := h.categoryService.DeleteCategory(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, logger, err, "Failed to delete category")
		return
	}
	c.Status(http.StatusNoContent)
}
