package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgehanKilicarslan/tripsync/internal/database/models"
	"github.com/EgehanKilicarslan/tripsync/internal/database/repository"
	"github.com/EgehanKilicarslan/tripsync/internal/testutil"
)

func TestUserRepository_Create(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	tests := []struct {
		name    string
		user    *models.User
		wantErr error
	}{
		{
			name:    "success",
			user:    &models.User{Name: "Ada", Email: "ada@example.com", Password: "hash"},
			wantErr: nil,
		},
		{
			name:    "duplicate_email",
			user:    &models.User{Name: "Other Ada", Email: "ada@example.com", Password: "hash"},
			wantErr: repository.ErrDuplicateEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(ctx, tt.user)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, tt.user.ID)
		})
	}
}

func TestUserRepository_FindByEmail(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	created := testutil.CreateUser(t, db, "Ada", "ada@example.com", "/uploads/avatars/ada.png")

	t.Run("found_with_profile", func(t *testing.T) {
		user, err := repo.FindByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		assert.Equal(t, created.ID, user.ID)
		require.NotNil(t, user.Profile)
		assert.Equal(t, "/uploads/avatars/ada.png", user.AvatarURL())
	})

	t.Run("not_found", func(t *testing.T) {
		user, err := repo.FindByEmail(ctx, "nobody@example.com")
		assert.Nil(t, user)
		assert.ErrorIs(t, err, repository.ErrUserNotFound)
	})
}

func TestUserRepository_FindByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	created := testutil.CreateUser(t, db, "Grace", "grace@example.com", "")

	user, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Grace", user.Name)
	assert.Nil(t, user.Profile)
	assert.Equal(t, "", user.AvatarURL())

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestUserRepository_Exists(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	created := testutil.CreateUser(t, db, "Grace", "grace@example.com", "")

	exists, err := repo.Exists(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUserRepository_UpdateName(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	created := testutil.CreateUser(t, db, "Grace", "grace@example.com", "")

	require.NoError(t, repo.UpdateName(ctx, created.ID, "Grace Hopper"))
	user, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", user.Name)

	assert.ErrorIs(t, repo.UpdateName(ctx, uuid.New(), "Nobody"), repository.ErrUserNotFound)
}

func TestUserRepository_SaveProfile(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	created := testutil.CreateUser(t, db, "Grace", "grace@example.com", "")

	profile := &models.Profile{UserID: created.ID, City: "Arlington"}
	require.NoError(t, repo.SaveProfile(ctx, profile))
	assert.NotEqual(t, uuid.Nil, profile.ID)

	birthday := time.Date(1906, 12, 9, 0, 0, 0, 0, time.UTC)
	profile.Country = "USA"
	profile.DateOfBirth = &birthday
	require.NoError(t, repo.SaveProfile(ctx, profile))

	user, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, user.Profile)
	assert.Equal(t, profile.ID, user.Profile.ID)
	assert.Equal(t, "Arlington", user.Profile.City)
	assert.Equal(t, "USA", user.Profile.Country)
	require.NotNil(t, user.Profile.DateOfBirth)
	assert.True(t, birthday.Equal(*user.Profile.DateOfBirth))

	var count int64
	require.NoError(t, db.Model(&models.Profile{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
