package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/bizos_backend/internal/apperrors"
	"github.com/SscSPs/bizos_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// requireUserID reads the authenticated user or writes a 401.
func requireUserID(c *gin.Context, logger *slog.Logger) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return userID, true
}

// respondError maps a service error onto an HTTP status. Client errors echo
// the error text; infrastructure errors answer with fallback only.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr):
		logger.Error(fallback, slog.Int("code", appErr.Code), slog.String("error", err.Error()))
		status := appErr.Code
		if status < http.StatusBadRequest {
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{"error": fallback})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate), errors.Is(err, apperrors.ErrConflict):
		logger.Warn("Conflict", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		logger.Warn("Forbidden", slog.String("error", err.Error()))
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	case errors.Is(err, apperrors.ErrUpstream):
		logger.Error("Upstream failure", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
