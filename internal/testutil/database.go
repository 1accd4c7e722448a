package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/EgehanKilicarslan/tripsync/internal/database/models"
)

// NewTestDB opens a private in-memory SQLite database with every model migrated
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// Every connection to ":memory:" is a separate database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	err = db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Listing{},
		&models.ListingImage{},
		&models.Review{},
		&models.Message{},
		&models.Friendship{},
		&models.Payment{},
	)
	require.NoError(t, err)

	return db
}

// CreateUser inserts a user with an optional avatar
func CreateUser(t *testing.T, db *gorm.DB, name, email, avatar string) *models.User {
	t.Helper()

	user := &models.User{Name: name, Email: email, Password: "hashed"}
	require.NoError(t, db.Create(user).Error)
	if avatar != "" {
		profile := &models.Profile{UserID: user.ID, Avatar: avatar}
		require.NoError(t, db.Create(profile).Error)
		user.Profile = profile
	}
	return user
}

// CreateListing inserts a listing owned by owner
func CreateListing(t *testing.T, db *gorm.DB, owner *models.User, title, location, category string, price float64, capacity int, createdAt time.Time) *models.Listing {
	t.Helper()

	listing := &models.Listing{
		OwnerID:     owner.ID,
		Title:       title,
		Description: title + " description",
		Price:       price,
		Capacity:    capacity,
		Location:    location,
		Category:    category,
		CreatedAt:   createdAt,
	}
	require.NoError(t, db.Create(listing).Error)
	return listing
}

// CreateMessage inserts a message with an explicit timestamp
func CreateMessage(t *testing.T, db *gorm.DB, from, to *models.User, content string, read bool, createdAt time.Time) *models.Message {
	t.Helper()

	message := &models.Message{
		SenderID:   from.ID,
		ReceiverID: to.ID,
		Content:    content,
		IsRead:     read,
		CreatedAt:  createdAt,
	}
	require.NoError(t, db.Create(message).Error)
	return message
}
