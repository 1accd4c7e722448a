package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FriendshipStatus represents where a friend request stands
type FriendshipStatus string

const (
	FriendshipStatusPending  FriendshipStatus = "pending"
	FriendshipStatusAccepted FriendshipStatus = "accepted"
)

// Friendship is a directed request from requester to addressee
type Friendship struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	RequesterID uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_friendship_pair" json:"requesterId"`
	AddresseeID uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_friendship_pair;index" json:"addresseeId"`
	Status      FriendshipStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`

	// Relationships
	Requester User `gorm:"foreignKey:RequesterID" json:"-"`
	Addressee User `gorm:"foreignKey:AddresseeID" json:"-"`
}

// TableName overrides the table name
func (Friendship) TableName() string {
	return "friendships"
}

// BeforeCreate hook to generate UUID before creating a new friendship
func (f *Friendship) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// Counterpart returns the participant that is not userID
func (f *Friendship) Counterpart(userID uuid.UUID) User {
	if f.RequesterID == userID {
		return f.Addressee
	}
	return f.Requester
}
