package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Listing is a rentable place offered by its owner
type Listing struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"ownerId"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"type:text;not null" json:"description"`
	Price       float64        `gorm:"not null" json:"price"`
	Capacity    int            `gorm:"not null" json:"capacity"`
	Location    string         `gorm:"not null" json:"location"`
	Latitude    *float64       `json:"latitude"`
	Longitude   *float64       `json:"longitude"`
	Amenities   pq.StringArray `gorm:"type:text[];default:'{}'" json:"amenities"`
	Category    string         `gorm:"not null;index" json:"category"`
	CreatedAt   time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`

	// Relationships
	Owner   *User          `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Images  []ListingImage `gorm:"foreignKey:ListingID" json:"images,omitempty"`
	Reviews []Review       `gorm:"foreignKey:ListingID" json:"reviews,omitempty"`
}

// TableName overrides the table name
func (Listing) TableName() string {
	return "listings"
}

// BeforeCreate hook to generate UUID before creating a new listing
func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.Amenities == nil {
		l.Amenities = pq.StringArray{}
	}
	return nil
}

// ListingImage is a photo attached to a listing
type ListingImage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ListingID uuid.UUID `gorm:"type:uuid;not null;index" json:"listingId"`
	URL       string    `gorm:"not null" json:"url"`
	Caption   string    `json:"caption"`
	IsPrimary bool      `gorm:"not null;default:false" json:"isPrimary"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName overrides the table name
func (ListingImage) TableName() string {
	return "listing_images"
}

// BeforeCreate hook to generate UUID before creating a new image
func (i *ListingImage) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// Review is a rating left on a listing by a user
type Review struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ListingID uuid.UUID `gorm:"type:uuid;not null;index" json:"listingId"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null;index" json:"authorId"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `json:"createdAt"`

	Author User `gorm:"foreignKey:AuthorID" json:"-"`
}

// TableName overrides the table name
func (Review) TableName() string {
	return "reviews"
}

// BeforeCreate hook to generate UUID before creating a new review
func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
