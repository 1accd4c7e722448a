package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgehanKilicarslan/tripsync/internal/database/repository"
	"github.com/EgehanKilicarslan/tripsync/internal/database/service"
	"github.com/EgehanKilicarslan/tripsync/internal/logger"
	"github.com/EgehanKilicarslan/tripsync/internal/testutil"
)

func strPtr(s string) *string { return &s }

func TestUserService_UpdateProfile(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := service.NewUserService(repository.NewUserRepository(db), logger.Discard())
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "Grace", "grace@example.com", "")

	// Creates the profile lazily
	updated, err := svc.UpdateProfile(ctx, user.ID, service.UpdateProfileInput{
		Bio:         strPtr(" Rear admiral "),
		City:        strPtr("Arlington"),
		DateOfBirth: strPtr("1906-12-09"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Grace", updated.Name)
	require.NotNil(t, updated.Profile)
	assert.Equal(t, "Rear admiral", updated.Profile.Bio)
	assert.Equal(t, "Arlington", updated.Profile.City)
	require.NotNil(t, updated.Profile.DateOfBirth)
	assert.True(t, updated.Profile.DateOfBirth.Equal(time.Date(1906, 12, 9, 0, 0, 0, 0, time.UTC)))

	// Only present fields change
	updated, err = svc.UpdateProfile(ctx, user.ID, service.UpdateProfileInput{
		Name:    strPtr("Grace Hopper"),
		Country: strPtr("USA"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", updated.Name)
	assert.Equal(t, "Rear admiral", updated.Profile.Bio)
	assert.Equal(t, "USA", updated.Profile.Country)
	assert.NotNil(t, updated.Profile.DateOfBirth)

	// An explicit empty date clears it
	updated, err = svc.UpdateProfile(ctx, user.ID, service.UpdateProfileInput{DateOfBirth: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, updated.Profile.DateOfBirth)
}

func TestUserService_UpdateProfileValidation(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := service.NewUserService(repository.NewUserRepository(db), logger.Discard())
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "Grace", "grace@example.com", "")
	future := time.Now().AddDate(1, 0, 0).Format(service.DateOfBirthLayout)

	for _, input := range []service.UpdateProfileInput{
		{Name: strPtr("   ")},
		{DateOfBirth: strPtr("09/12/1906")},
		{DateOfBirth: strPtr(future)},
	} {
		_, err := svc.UpdateProfile(ctx, user.ID, input)
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	}

	_, err := svc.UpdateProfile(ctx, uuid.New(), service.UpdateProfileInput{})
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestUserService_SetAvatar(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := service.NewUserService(repository.NewUserRepository(db), logger.Discard())
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "Grace", "grace@example.com", "")

	previous, err := svc.SetAvatar(ctx, user.ID, "/uploads/avatars/one.png")
	require.NoError(t, err)
	assert.Empty(t, previous)

	previous, err = svc.SetAvatar(ctx, user.ID, "/uploads/avatars/two.png")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/avatars/one.png", previous)

	profile, err := svc.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/avatars/two.png", profile.AvatarURL())

	_, err = svc.SetAvatar(ctx, uuid.New(), "/x.png")
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}
