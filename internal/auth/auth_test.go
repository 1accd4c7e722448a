package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgehanKilicarslan/tripsync/internal/auth"
)

// ==================== PASSWORD ====================

func TestPassword_RoundTrip(t *testing.T) {
	passwords := []string{"1234", "correct horse battery staple", "ünïcødé-şifre", ""}

	for _, plaintext := range passwords {
		hash, err := auth.HashPassword(plaintext)
		require.NoError(t, err)
		assert.NotEqual(t, plaintext, hash)
		assert.Contains(t, hash, "$10$")

		ok, err := auth.VerifyPassword(plaintext, hash)
		require.NoError(t, err)
		assert.True(t, ok, "password %q should verify", plaintext)
	}
}

func TestPassword_Mismatch(t *testing.T) {
	hash, err := auth.HashPassword("password")
	require.NoError(t, err)

	ok, err := auth.VerifyPassword("Password", hash)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestPassword_SaltedHashesDiffer(t *testing.T) {
	first, err := auth.HashPassword("same")
	require.NoError(t, err)
	second, err := auth.HashPassword("same")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestPassword_MalformedHash(t *testing.T) {
	ok, err := auth.VerifyPassword("password", "not-a-bcrypt-hash")
	assert.Error(t, err)
	assert.False(t, ok)
}

// ==================== TOKEN ====================

func TestToken_RoundTrip(t *testing.T) {
	manager := auth.NewTokenManager("test-secret", 7*24*time.Hour)
	identity := auth.Identity{UserID: uuid.New(), Email: "demo@demo.com"}

	token, err := manager.Issue(identity)
	require.NoError(t, err)

	claims, err := manager.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, identity.UserID, claims.UserID)
	assert.Equal(t, identity.Email, claims.Email)
	assert.NotEmpty(t, claims.TokenID)
}

func TestToken_Expiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	manager := auth.NewTokenManager("test-secret", time.Hour).WithClock(clock)

	token, err := manager.Issue(auth.Identity{UserID: uuid.New(), Email: "a@b.co"})
	require.NoError(t, err)

	now = now.Add(59 * time.Minute)
	_, err = manager.Verify(token)
	assert.NoError(t, err, "token must be valid inside its window")

	now = now.Add(2 * time.Minute)
	claims, err := manager.Verify(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
	assert.Nil(t, claims)
}

func TestToken_Invalid(t *testing.T) {
	manager := auth.NewTokenManager("test-secret", time.Hour)
	other := auth.NewTokenManager("other-secret", time.Hour)

	foreign, err := other.Issue(auth.Identity{UserID: uuid.New(), Email: "x@y.z"})
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"userId": uuid.NewString(),
		"jti":    uuid.NewString(),
		"exp":    time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": "not-a-uuid",
		"jti":    uuid.NewString(),
		"exp":    time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": uuid.NewString(),
		"jti":    uuid.NewString(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.token"},
		{"wrong secret", foreign},
		{"alg none", noneToken},
		{"non-uuid user", badSubject},
		{"missing expiry", noExpiry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := manager.Verify(tt.token)
			assert.ErrorIs(t, err, auth.ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}
