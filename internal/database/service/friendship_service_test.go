package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgehanKilicarslan/tripsync/internal/database/models"
	"github.com/EgehanKilicarslan/tripsync/internal/database/repository"
	"github.com/EgehanKilicarslan/tripsync/internal/database/service"
	"github.com/EgehanKilicarslan/tripsync/internal/logger"
	"github.com/EgehanKilicarslan/tripsync/internal/testutil"
)

func TestFriendshipService_Flow(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := service.NewFriendshipService(repository.NewFriendshipRepository(db), repository.NewUserRepository(db), logger.Discard())
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "Alice", "a@example.com", "")
	bob := testutil.CreateUser(t, db, "Bob", "b@example.com", "/uploads/avatars/b.png")

	request, err := svc.RequestFriend(ctx, alice.ID, "b@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.FriendshipStatusPending, request.Status)
	assert.True(t, request.Outgoing)
	assert.Equal(t, bob.ID, request.User.ID)

	// Either direction counts as existing
	_, err = svc.RequestFriend(ctx, alice.ID, "b@example.com")
	assert.ErrorIs(t, err, service.ErrFriendshipExists)
	_, err = svc.RequestFriend(ctx, bob.ID, "a@example.com")
	assert.ErrorIs(t, err, service.ErrFriendshipExists)

	pending, err := svc.ListPendingRequests(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, alice.ID, pending[0].User.ID)
	assert.False(t, pending[0].Outgoing)

	none, err := svc.ListPendingRequests(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = svc.AcceptRequest(ctx, alice.ID, request.ID)
	assert.ErrorIs(t, err, service.ErrNotRequestAddressee)

	accepted, err := svc.AcceptRequest(ctx, bob.ID, request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FriendshipStatusAccepted, accepted.Status)
	assert.Equal(t, alice.ID, accepted.User.ID)

	_, err = svc.AcceptRequest(ctx, bob.ID, request.ID)
	assert.ErrorIs(t, err, service.ErrRequestNotPending)

	for _, pair := range []struct {
		me    *models.User
		other *models.User
	}{{alice, bob}, {bob, alice}} {
		friends, err := svc.ListFriends(ctx, pair.me.ID)
		require.NoError(t, err)
		require.Len(t, friends, 1)
		assert.Equal(t, pair.other.ID, friends[0].User.ID)
	}

	// No reverse edge is created
	var count int64
	require.NoError(t, db.Model(&models.Friendship{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestFriendshipService_RequestErrors(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := service.NewFriendshipService(repository.NewFriendshipRepository(db), repository.NewUserRepository(db), logger.Discard())
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "Alice", "a@example.com", "")

	_, err := svc.RequestFriend(ctx, alice.ID, "")
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = svc.RequestFriend(ctx, alice.ID, "not-an-email")
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = svc.RequestFriend(ctx, alice.ID, "nobody@example.com")
	assert.ErrorIs(t, err, service.ErrUserNotFound)

	_, err = svc.RequestFriend(ctx, alice.ID, "a@example.com")
	assert.ErrorIs(t, err, service.ErrSelfFriendship)

	_, err = svc.AcceptRequest(ctx, alice.ID, uuid.New())
	assert.ErrorIs(t, err, service.ErrFriendshipNotFound)
}
