package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/EgehanKilicarslan/tripsync/internal/database/service"
	"github.com/EgehanKilicarslan/tripsync/internal/middleware"
	"github.com/EgehanKilicarslan/tripsync/internal/storage"
)

// handleServiceError maps service and storage errors to HTTP responses
func handleServiceError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": service.ValidationMessage(err)})
	case errors.Is(err, service.ErrSelfMessage),
		errors.Is(err, service.ErrSelfFriendship),
		errors.Is(err, service.ErrRequestNotPending):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, storage.ErrMissingFile):
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
	case errors.Is(err, storage.ErrUnsupportedType):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file type. Only images are allowed"})
	case errors.Is(err, storage.ErrFileTooLarge):
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
	case errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
	case errors.Is(err, service.ErrNotListingOwner),
		errors.Is(err, service.ErrNotRequestAddressee):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, service.ErrListingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
	case errors.Is(err, service.ErrReceiverNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Receiver not found"})
	case errors.Is(err, service.ErrFriendshipNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Friend request not found"})
	case errors.Is(err, service.ErrEmailAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
	case errors.Is(err, service.ErrFriendshipExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error("❌ [Handler] Internal server error",
			"request_id", middleware.RequestID(c),
			"path", c.Request.URL.Path,
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// currentUserID returns the authenticated user or writes a 401
func currentUserID(c *gin.Context, logger *slog.Logger) (uuid.UUID, bool) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		logger.Error("❌ [Handler] Claims not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return uuid.Nil, false
	}
	return claims.UserID, true
}

// pathID parses a UUID route parameter or writes a 400
func pathID(c *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + label + " id"})
		return uuid.Nil, false
	}
	return id, true
}
