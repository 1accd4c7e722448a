package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents an account holder
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Name      string    `gorm:"not null" json:"name"`
	Password  string    `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relationships
	Profile *Profile `gorm:"foreignKey:UserID" json:"profile,omitempty"`
}

// TableName overrides the table name
func (User) TableName() string {
	return "users"
}

// BeforeCreate hook to generate UUID before creating a new user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// AvatarURL returns the profile avatar or an empty string when no profile exists
func (u *User) AvatarURL() string {
	if u.Profile == nil {
		return ""
	}
	return u.Profile.Avatar
}

// Profile holds the optional personal details of a user, created lazily
type Profile struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"userId"`
	Bio         string     `gorm:"type:text" json:"bio"`
	Avatar      string     `json:"avatar"`
	PhoneNumber string     `json:"phoneNumber"`
	Address     string     `json:"address"`
	City        string     `json:"city"`
	Country     string     `json:"country"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// TableName overrides the table name
func (Profile) TableName() string {
	return "profiles"
}

// BeforeCreate hook to generate UUID before creating a new profile
func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// UserSummary is the public display metadata of a user
type UserSummary struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Avatar *string   `json:"avatar"`
}

// Summary converts a user into its public display metadata
func (u *User) Summary() UserSummary {
	summary := UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
	if avatar := u.AvatarURL(); avatar != "" {
		summary.Avatar = &avatar
	}
	return summary
}
