package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/database/service"
	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/middleware"
)

// handleServiceError maps service errors to HTTP responses
func handleServiceError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, service.ErrNotAuthorized),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrPasswordMismatch):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNameTaken),
		errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidDate),
		errors.Is(err, service.ErrDuplicateTitle),
		errors.Is(err, service.ErrDuplicateDate),
		errors.Is(err, service.ErrAlreadyPast),
		errors.Is(err, service.ErrSelfSubscription),
		errors.Is(err, service.ErrDuplicateSubscription),
		errors.Is(err, service.ErrTimeConflict),
		errors.Is(err, service.ErrFileNotFound),
		errors.Is(err, service.ErrFileTooLarge),
		errors.Is(err, service.ErrUnsupportedFileType),
		errors.Is(err, service.ErrPasswordRequired),
		errors.Is(err, service.ErrPasswordConfirmation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error("❌ [Handler] Internal server error", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// currentUser reads the authenticated user ID, answering 401 when absent.
func currentUser(c *gin.Context, logger *slog.Logger) (uint, bool) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		logger.Error("❌ [Handler] User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return 0, false
	}
	return userID, true
}

// pathID parses a positive numeric path parameter, answering 400 otherwise.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}
