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

// FriendshipService defines the interface for friend connection business logic
type FriendshipService interface {
	RequestFriend(ctx context.Context, requesterID uuid.UUID, email string) (*FriendshipView, error)
	AcceptRequest(ctx context.Context, addresseeID, friendshipID uuid.UUID) (*FriendshipView, error)
	ListFriends(ctx context.Context, userID uuid.UUID) ([]FriendshipView, error)
	ListPendingRequests(ctx context.Context, userID uuid.UUID) ([]FriendshipView, error)
}

// FriendshipView is a friendship seen from one participant
type FriendshipView struct {
	ID        uuid.UUID               `json:"id"`
	Status    models.FriendshipStatus `json:"status"`
	Outgoing  bool                    `json:"outgoing"`
	User      models.UserSummary      `json:"user"`
	CreatedAt time.Time               `json:"createdAt"`
	UpdatedAt time.Time               `json:"updatedAt"`
}

type friendshipService struct {
	friendshipRepo repository.FriendshipRepository
	userRepo       repository.UserRepository
	logger         *slog.Logger
}

// NewFriendshipService creates a new friendship service instance
func NewFriendshipService(
	friendshipRepo repository.FriendshipRepository,
	userRepo repository.UserRepository,
	logger *slog.Logger,
) FriendshipService {
	return &friendshipService{
		friendshipRepo: friendshipRepo,
		userRepo:       userRepo,
		logger:         logger,
	}
}

func (s *friendshipService) RequestFriend(ctx context.Context, requesterID uuid.UUID, email string) (*FriendshipView, error) {
	email = strings.TrimSpace(email)
	s.logger.Info("🤝 [FriendshipService] Friend request", "requester_id", requesterID, "email", email)

	if email == "" {
		return nil, invalidInput("email is required")
	}
	if validate.Var(email, "email") != nil {
		return nil, invalidInput("a valid email address is required")
	}

	addressee, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if addressee.ID == requesterID {
		return nil, ErrSelfFriendship
	}

	_, err = s.friendshipRepo.FindBetween(ctx, requesterID, addressee.ID)
	if err == nil {
		s.logger.Warn("⚠️ [FriendshipService] Friendship already exists",
			"requester_id", requesterID,
			"addressee_id", addressee.ID,
		)
		return nil, ErrFriendshipExists
	}
	if !errors.Is(err, repository.ErrFriendshipNotFound) {
		return nil, err
	}

	friendship := &models.Friendship{
		RequesterID: requesterID,
		AddresseeID: addressee.ID,
		Status:      models.FriendshipStatusPending,
	}
	if err := s.friendshipRepo.Create(ctx, friendship); err != nil {
		if errors.Is(err, repository.ErrFriendshipExists) {
			return nil, ErrFriendshipExists
		}
		s.logger.Error("❌ [FriendshipService] Failed to create request", "error", err)
		return nil, err
	}

	s.logger.Info("✅ [FriendshipService] Friend request sent", "friendship_id", friendship.ID)
	return &FriendshipView{
		ID:        friendship.ID,
		Status:    friendship.Status,
		Outgoing:  true,
		User:      addressee.Summary(),
		CreatedAt: friendship.CreatedAt,
		UpdatedAt: friendship.UpdatedAt,
	}, nil
}

func (s *friendshipService) AcceptRequest(ctx context.Context, addresseeID, friendshipID uuid.UUID) (*FriendshipView, error) {
	friendship, err := s.friendshipRepo.FindByID(ctx, friendshipID)
	if err != nil {
		if errors.Is(err, repository.ErrFriendshipNotFound) {
			return nil, ErrFriendshipNotFound
		}
		return nil, err
	}
	if friendship.AddresseeID != addresseeID {
		s.logger.Warn("⚠️ [FriendshipService] Accept by non-recipient",
			"friendship_id", friendshipID,
			"user_id", addresseeID,
		)
		return nil, ErrNotRequestAddressee
	}
	if friendship.Status != models.FriendshipStatusPending {
		return nil, ErrRequestNotPending
	}

	if err := s.friendshipRepo.UpdateStatus(ctx, friendshipID, models.FriendshipStatusAccepted); err != nil {
		s.logger.Error("❌ [FriendshipService] Failed to accept request", "error", err)
		return nil, err
	}
	friendship.Status = models.FriendshipStatusAccepted
	friendship.UpdatedAt = time.Now()

	s.logger.Info("✅ [FriendshipService] Friend request accepted", "friendship_id", friendshipID)
	view := friendshipView(friendship, addresseeID)
	return &view, nil
}

func (s *friendshipService) ListFriends(ctx context.Context, userID uuid.UUID) ([]FriendshipView, error) {
	friendships, err := s.friendshipRepo.ListAccepted(ctx, userID)
	if err != nil {
		s.logger.Error("❌ [FriendshipService] Failed to list friends", "user_id", userID, "error", err)
		return nil, err
	}
	return friendshipViews(friendships, userID), nil
}

func (s *friendshipService) ListPendingRequests(ctx context.Context, userID uuid.UUID) ([]FriendshipView, error) {
	friendships, err := s.friendshipRepo.ListIncomingPending(ctx, userID)
	if err != nil {
		s.logger.Error("❌ [FriendshipService] Failed to list requests", "user_id", userID, "error", err)
		return nil, err
	}
	return friendshipViews(friendships, userID), nil
}

func friendshipViews(friendships []models.Friendship, userID uuid.UUID) []FriendshipView {
	views := make([]FriendshipView, 0, len(friendships))
	for i := range friendships {
		views = append(views, friendshipView(&friendships[i], userID))
	}
	return views
}

func friendshipView(f *models.Friendship, userID uuid.UUID) FriendshipView {
	other := f.Counterpart(userID)
	return FriendshipView{
		ID:        f.ID,
		Status:    f.Status,
		Outgoing:  f.RequesterID == userID,
		User:      other.Summary(),
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}
