package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/tripsync/internal/database/service"
	"github.com/EgehanKilicarslan/tripsync/internal/metrics"
	"github.com/EgehanKilicarslan/tripsync/internal/middleware"
)

// AuthHandler handles HTTP requests for authentication
type AuthHandler struct {
	service service.AuthService
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(service service.AuthService, m *metrics.Metrics, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		metrics: m,
		logger:  logger,
	}
}

// Request DTOs
type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Signup handles POST /api/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("⚠️ [AuthHandler] Invalid signup request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
		return
	}

	user, token, err := h.service.Signup(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	h.metrics.RecordSignup()

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"user":    user.Summary(),
		"token":   token,
	})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("⚠️ [AuthHandler] Invalid login request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
		return
	}

	user, token, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.metrics.RecordLogin(false)
		}
		handleServiceError(c, h.logger, err)
		return
	}
	h.metrics.RecordLogin(true)

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    user.Summary(),
		"token":   token,
	})
}

// Logout handles POST /api/auth/logout by revoking the presented token
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.service.Logout(c.Request.Context(), claims); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
