package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/EgehanKilicarslan/tripsync/internal/database/models"
)

// FriendshipRepository defines the interface for friendship data operations
type FriendshipRepository interface {
	Create(ctx context.Context, friendship *models.Friendship) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Friendship, error)
	FindBetween(ctx context.Context, userA, userB uuid.UUID) (*models.Friendship, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.FriendshipStatus) error
	ListAccepted(ctx context.Context, userID uuid.UUID) ([]models.Friendship, error)
	ListIncomingPending(ctx context.Context, userID uuid.UUID) ([]models.Friendship, error)
}

type friendshipRepository struct {
	db *gorm.DB
}

// NewFriendshipRepository creates a new friendship repository instance
func NewFriendshipRepository(db *gorm.DB) FriendshipRepository {
	return &friendshipRepository{db: db}
}

func (r *friendshipRepository) Create(ctx context.Context, friendship *models.Friendship) error {
	err := r.db.WithContext(ctx).Create(friendship).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrFriendshipExists
	}
	return err
}

func (r *friendshipRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Friendship, error) {
	var friendship models.Friendship
	err := r.db.WithContext(ctx).
		Preload("Requester.Profile").
		Preload("Addressee.Profile").
		Where("id = ?", id).
		First(&friendship).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFriendshipNotFound
		}
		return nil, err
	}
	return &friendship, nil
}

// FindBetween returns the edge between the two users in either direction
func (r *friendshipRepository) FindBetween(ctx context.Context, userA, userB uuid.UUID) (*models.Friendship, error) {
	var friendship models.Friendship
	err := r.db.WithContext(ctx).
		Where("(requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)",
			userA, userB, userB, userA).
		First(&friendship).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFriendshipNotFound
		}
		return nil, err
	}
	return &friendship, nil
}

func (r *friendshipRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.FriendshipStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.Friendship{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFriendshipNotFound
	}
	return nil
}

// ListAccepted returns accepted friendships in which userID takes either side
func (r *friendshipRepository) ListAccepted(ctx context.Context, userID uuid.UUID) ([]models.Friendship, error) {
	var friendships []models.Friendship
	err := r.db.WithContext(ctx).
		Preload("Requester.Profile").
		Preload("Addressee.Profile").
		Where("(requester_id = ? OR addressee_id = ?) AND status = ?", userID, userID, models.FriendshipStatusAccepted).
		Order("updated_at DESC").
		Find(&friendships).Error
	return friendships, err
}

// ListIncomingPending returns pending requests addressed to userID
func (r *friendshipRepository) ListIncomingPending(ctx context.Context, userID uuid.UUID) ([]models.Friendship, error) {
	var friendships []models.Friendship
	err := r.db.WithContext(ctx).
		Preload("Requester.Profile").
		Where("addressee_id = ? AND status = ?", userID, models.FriendshipStatusPending).
		Order("created_at DESC").
		Find(&friendships).Error
	return friendships, err
}
