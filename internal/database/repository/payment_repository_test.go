package repository_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgehanKilicarslan/tripsync/internal/database/models"
	"github.com/EgehanKilicarslan/tripsync/internal/database/repository"
	"github.com/EgehanKilicarslan/tripsync/internal/testutil"
)

func TestPaymentRepository_CreateAndList(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewPaymentRepository(db)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "Owner", "owner@example.com", "")
	guest := testutil.CreateUser(t, db, "Guest", "guest@example.com", "")
	listing := testutil.CreateListing(t, db, owner, "Cabin", "Oslo", "cabin", 90, 2, baseTime)

	older := &models.Payment{
		UserID: guest.ID, ListingID: listing.ID, Amount: 90, Nights: 1,
		CardLast4: "4242", CardHolder: "Guest", Status: models.PaymentStatusCompleted,
		CreatedAt: baseTime,
	}
	newer := &models.Payment{
		UserID: guest.ID, ListingID: listing.ID, Amount: 270, Nights: 3,
		CardLast4: "1881", CardHolder: "Guest", Status: models.PaymentStatusCompleted,
		CreatedAt: baseTime.Add(24 * time.Hour),
	}
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))

	assert.True(t, strings.HasPrefix(older.Reference, "TS-"))
	assert.NotEqual(t, older.Reference, newer.Reference)

	payments, err := repo.ListByUser(ctx, guest.ID)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, newer.ID, payments[0].ID)
	assert.Equal(t, "1881", payments[0].CardLast4)

	none, err := repo.ListByUser(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, none)
}
