package testutil

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/EgehanKilicarslan/tripsync/internal/database/models"
	"github.com/EgehanKilicarslan/tripsync/internal/database/repository"
)

// ==================== MOCK USER REPOSITORY ====================

// MockUserRepository implements repository.UserRepository for testing
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	args := m.Called(ctx, id, name)
	return args.Error(0)
}

func (m *MockUserRepository) SaveProfile(ctx context.Context, profile *models.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

// ==================== MOCK LISTING REPOSITORY ====================

// MockListingRepository implements repository.ListingRepository for testing
type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) List(ctx context.Context, filter repository.ListingFilter, offset, limit int) ([]models.Listing, int64, error) {
	args := m.Called(ctx, filter, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.Listing), args.Get(1).(int64), args.Error(2)
}

func (m *MockListingRepository) CountReviews(ctx context.Context, listingIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	args := m.Called(ctx, listingIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]int64), args.Error(1)
}

func (m *MockListingRepository) Create(ctx context.Context, listing *models.Listing) error {
	args := m.Called(ctx, listing)
	if listing.ID == uuid.Nil {
		listing.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockListingRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *MockListingRepository) FindWithDetails(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *MockListingRepository) AddImage(ctx context.Context, image *models.ListingImage) error {
	args := m.Called(ctx, image)
	return args.Error(0)
}

func (m *MockListingRepository) CreateReview(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

// ==================== MOCK MESSAGE REPOSITORY ====================

// MockMessageRepository implements repository.MessageRepository for testing
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(ctx context.Context, message *models.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockMessageRepository) FindThread(ctx context.Context, userID, counterpartID uuid.UUID) ([]models.Message, error) {
	args := m.Called(ctx, userID, counterpartID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockMessageRepository) MarkThreadRead(ctx context.Context, userID, counterpartID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID, counterpartID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMessageRepository) ListConversations(ctx context.Context, userID uuid.UUID) ([]models.ConversationRow, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ConversationRow), args.Error(1)
}

// ==================== MOCK FRIENDSHIP REPOSITORY ====================

// MockFriendshipRepository implements repository.FriendshipRepository for testing
type MockFriendshipRepository struct {
	mock.Mock
}

func (m *MockFriendshipRepository) Create(ctx context.Context, friendship *models.Friendship) error {
	args := m.Called(ctx, friendship)
	return args.Error(0)
}

func (m *MockFriendshipRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Friendship, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Friendship), args.Error(1)
}

func (m *MockFriendshipRepository) FindBetween(ctx context.Context, userA, userB uuid.UUID) (*models.Friendship, error) {
	args := m.Called(ctx, userA, userB)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Friendship), args.Error(1)
}

func (m *MockFriendshipRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.FriendshipStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockFriendshipRepository) ListAccepted(ctx context.Context, userID uuid.UUID) ([]models.Friendship, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Friendship), args.Error(1)
}

func (m *MockFriendshipRepository) ListIncomingPending(ctx context.Context, userID uuid.UUID) ([]models.Friendship, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Friendship), args.Error(1)
}

// ==================== MOCK PAYMENT REPOSITORY ====================

// MockPaymentRepository implements repository.PaymentRepository for testing
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Payment, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Payment), args.Error(1)
}

// ==================== MOCK TOKEN DENYLIST ====================

// MockTokenDenylist implements database.TokenDenylist for testing
type MockTokenDenylist struct {
	mock.Mock
}

func (m *MockTokenDenylist) RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockTokenDenylist) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTokenDenylist) Close() error {
	args := m.Called()
	return args.Error(0)
}
