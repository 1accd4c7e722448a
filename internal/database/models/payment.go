package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentStatus represents the outcome of a simulated checkout
type PaymentStatus string

const (
	PaymentStatusCompleted PaymentStatus = "completed"
)

// Payment records a simulated booking payment. Only the last four card
// digits are ever stored.
type Payment struct {
	ID         uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID     `gorm:"type:uuid;not null;index" json:"userId"`
	ListingID  uuid.UUID     `gorm:"type:uuid;not null;index" json:"listingId"`
	Amount     float64       `gorm:"not null" json:"amount"`
	Nights     int           `gorm:"not null" json:"nights"`
	CardLast4  string        `gorm:"type:varchar(4);not null" json:"cardLast4"`
	CardHolder string        `gorm:"not null" json:"cardHolder"`
	Address    string        `json:"address"`
	City       string        `json:"city"`
	PostalCode string        `json:"postalCode"`
	Country    string        `json:"country"`
	Status     PaymentStatus `gorm:"type:varchar(20);not null" json:"status"`
	Reference  string        `gorm:"uniqueIndex;not null" json:"reference"`
	CreatedAt  time.Time     `json:"createdAt"`
}

// TableName overrides the table name
func (Payment) TableName() string {
	return "payments"
}

// BeforeCreate hook to generate UUID and reference before creating a new payment
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Reference == "" {
		p.Reference = "TS-" + uuid.NewString()
	}
	return nil
}
