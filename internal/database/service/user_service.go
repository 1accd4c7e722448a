package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/EgehanKilicarslan/tripsync/internal/database/models"
	"github.com/EgehanKilicarslan/tripsync/internal/database/repository"
)

// DateOfBirthLayout is the accepted date format for profile updates
const DateOfBirthLayout = "2006-01-02"

// UserService defines the interface for profile business logic
type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*models.User, error)
	SetAvatar(ctx context.Context, userID uuid.UUID, avatarURL string) (string, error)
}

// UpdateProfileInput holds the profile fields to change. Nil fields are left as they are.
type UpdateProfileInput struct {
	Name        *string
	Bio         *string
	PhoneNumber *string
	Address     *string
	City        *string
	Country     *string
	DateOfBirth *string
}

type userService struct {
	userRepo repository.UserRepository
	logger   *slog.Logger
}

// NewUserService creates a new user service instance
func NewUserService(userRepo repository.UserRepository, logger *slog.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		logger:   logger,
	}
}

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("❌ [UserService] Failed to load user", "user_id", userID, "error", err)
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*models.User, error) {
	s.logger.Info("👤 [UserService] Updating profile", "user_id", userID)

	var dateOfBirth *time.Time
	if input.DateOfBirth != nil && strings.TrimSpace(*input.DateOfBirth) != "" {
		parsed, err := parseDate(*input.DateOfBirth)
		if err != nil {
			return nil, invalidInput("dateOfBirth must be a date in YYYY-MM-DD format")
		}
		if parsed.After(time.Now()) {
			return nil, invalidInput("dateOfBirth cannot be in the future")
		}
		dateOfBirth = &parsed
	}

	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, invalidInput("name cannot be empty")
		}
		if err := s.userRepo.UpdateName(ctx, userID, name); err != nil {
			s.logger.Error("❌ [UserService] Failed to update name", "user_id", userID, "error", err)
			return nil, err
		}
	}

	profile := user.Profile
	if profile == nil {
		profile = &models.Profile{UserID: userID}
	}
	applyString(&profile.Bio, input.Bio)
	applyString(&profile.PhoneNumber, input.PhoneNumber)
	applyString(&profile.Address, input.Address)
	applyString(&profile.City, input.City)
	applyString(&profile.Country, input.Country)
	if input.DateOfBirth != nil {
		// An explicit empty value clears the date
		profile.DateOfBirth = dateOfBirth
	}

	if err := s.userRepo.SaveProfile(ctx, profile); err != nil {
		s.logger.Error("❌ [UserService] Failed to save profile", "user_id", userID, "error", err)
		return nil, err
	}

	s.logger.Info("✅ [UserService] Profile updated", "user_id", userID)
	return s.GetProfile(ctx, userID)
}

// SetAvatar points the profile avatar at an already stored file and returns
// the previous avatar URL, if any
func (s *userService) SetAvatar(ctx context.Context, userID uuid.UUID, avatarURL string) (string, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return "", err
	}

	profile := user.Profile
	if profile == nil {
		profile = &models.Profile{UserID: userID}
	}
	previous := profile.Avatar
	profile.Avatar = avatarURL

	if err := s.userRepo.SaveProfile(ctx, profile); err != nil {
		s.logger.Error("❌ [UserService] Failed to save avatar", "user_id", userID, "error", err)
		return "", err
	}

	s.logger.Info("🖼️ [UserService] Avatar updated", "user_id", userID, "avatar", avatarURL)
	return previous, nil
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(DateOfBirthLayout, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}
