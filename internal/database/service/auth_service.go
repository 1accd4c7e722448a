package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/EgehanKilicarslan/tripsync/internal/auth"
	"github.com/EgehanKilicarslan/tripsync/internal/database"
	"github.com/EgehanKilicarslan/tripsync/internal/database/models"
	"github.com/EgehanKilicarslan/tripsync/internal/database/repository"
)

// validate checks input that reaches services without passing through gin binding
var validate = validator.New()

// AuthService defines the interface for authentication business logic
type AuthService interface {
	Signup(ctx context.Context, name, email, password string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	Logout(ctx context.Context, claims *auth.Claims) error
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenManager
	denylist database.TokenDenylist
	logger   *slog.Logger
	now      func() time.Time
}

// NewAuthService creates a new authentication service instance
func NewAuthService(
	userRepo repository.UserRepository,
	tokens *auth.TokenManager,
	denylist database.TokenDenylist,
	logger *slog.Logger,
) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		denylist: denylist,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *authService) Signup(ctx context.Context, name, email, password string) (*models.User, string, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	s.logger.Info("📝 [AuthService] Signup attempt", "email", email)

	if name == "" || email == "" || password == "" {
		return nil, "", invalidInput("name, email and password are required")
	}
	if validate.Var(email, "required,email") != nil {
		return nil, "", invalidInput("a valid email address is required")
	}

	// Check if email already exists
	existingUser, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		s.logger.Error("❌ [AuthService] Database error", "error", err)
		return nil, "", err
	}
	if existingUser != nil {
		s.logger.Warn("⚠️ [AuthService] Email already registered", "email", email)
		return nil, "", ErrEmailAlreadyExists
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		s.logger.Error("❌ [AuthService] Failed to hash password", "error", err)
		return nil, "", err
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: hashedPassword,
		Profile:  &models.Profile{},
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent signup for the same address
		if errors.Is(err, repository.ErrDuplicateEmail) {
			s.logger.Warn("⚠️ [AuthService] Email already registered", "email", email)
			return nil, "", ErrEmailAlreadyExists
		}
		s.logger.Error("❌ [AuthService] Failed to create user", "error", err)
		return nil, "", err
	}

	token, err := s.tokens.Issue(auth.Identity{UserID: user.ID, Email: user.Email})
	if err != nil {
		s.logger.Error("❌ [AuthService] Failed to issue token", "error", err)
		return nil, "", err
	}

	s.logger.Info("✅ [AuthService] User signed up successfully", "user_id", user.ID)
	return user, token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.TrimSpace(email)
	s.logger.Info("🔐 [AuthService] Login attempt", "email", email)

	if email == "" || password == "" {
		return nil, "", invalidInput("email and password are required")
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.logger.Warn("⚠️ [AuthService] User not found", "email", email)
			return nil, "", ErrInvalidCredentials
		}
		s.logger.Error("❌ [AuthService] Database error", "error", err)
		return nil, "", err
	}

	ok, err := auth.VerifyPassword(password, user.Password)
	if err != nil {
		s.logger.Error("❌ [AuthService] Stored password hash is malformed", "user_id", user.ID, "error", err)
		return nil, "", err
	}
	if !ok {
		s.logger.Warn("⚠️ [AuthService] Invalid password", "email", email)
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(auth.Identity{UserID: user.ID, Email: user.Email})
	if err != nil {
		s.logger.Error("❌ [AuthService] Failed to issue token", "error", err)
		return nil, "", err
	}

	s.logger.Info("✅ [AuthService] User logged in successfully", "user_id", user.ID)
	return user, token, nil
}

// Logout denylists the token id for the rest of the token's lifetime
func (s *authService) Logout(ctx context.Context, claims *auth.Claims) error {
	s.logger.Info("👋 [AuthService] Logout attempt", "user_id", claims.UserID)

	ttl := claims.ExpiresAt.Sub(s.now())
	if err := s.denylist.RevokeToken(ctx, claims.TokenID, ttl); err != nil {
		s.logger.Error("❌ [AuthService] Failed to revoke token", "user_id", claims.UserID, "error", err)
		return err
	}

	s.logger.Info("✅ [AuthService] User logged out successfully", "user_id", claims.UserID)
	return nil
}

// Authenticate verifies the token and rejects denylisted ones. A denylist
// outage is logged and the token is accepted on its signature alone.
func (s *authService) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	revoked, err := s.denylist.IsTokenRevoked(ctx, claims.TokenID)
	if err != nil {
		s.logger.Warn("⚠️ [AuthService] Token denylist unavailable", "error", err)
		return claims, nil
	}
	if revoked {
		s.logger.Debug("🚫 [AuthService] Rejected revoked token", "user_id", claims.UserID)
		return nil, ErrInvalidToken
	}

	return claims, nil
}
