package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/tripsync/internal/auth"
	"github.com/EgehanKilicarslan/tripsync/internal/database/service"
)

const claimsKey = "claims"

var (
	ErrMissingAuthHeader = errors.New("authorization header required")
	ErrMalformedHeader   = errors.New("invalid authorization header format")
)

// AuthMiddleware handles JWT validation
type AuthMiddleware struct {
	service service.AuthService
	logger  *slog.Logger
}

// NewAuthMiddleware creates a new auth middleware instance
func NewAuthMiddleware(service service.AuthService, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		service: service,
		logger:  logger,
	}
}

// Identify resolves the bearer token of the request to verified claims
func (m *AuthMiddleware) Identify(r *http.Request) (*auth.Claims, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, ErrMissingAuthHeader
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return nil, ErrMalformedHeader
	}

	return m.service.Authenticate(r.Context(), parts[1])
}

// RequireAuth validates the JWT and stores its claims in the context
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := m.Identify(c.Request)
		if err != nil {
			switch {
			case errors.Is(err, ErrMissingAuthHeader):
				m.logger.Warn("⚠️ [Middleware] Missing Authorization header", "path", c.Request.URL.Path)
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			case errors.Is(err, ErrMalformedHeader):
				m.logger.Warn("⚠️ [Middleware] Invalid Authorization header format")
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			default:
				m.logger.Warn("⚠️ [Middleware] Invalid token", "error", err)
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			}
			return
		}

		c.Set(claimsKey, claims)
		m.logger.Debug("✅ [Middleware] Token validated", "user_id", claims.UserID)

		c.Next()
	}
}

// CurrentClaims returns the claims stored by RequireAuth
func CurrentClaims(c *gin.Context) (*auth.Claims, bool) {
	value, exists := c.Get(claimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*auth.Claims)
	return claims, ok && claims != nil
}
