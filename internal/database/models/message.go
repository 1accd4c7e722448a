package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message is a directed note from one user to another. Only IsRead ever changes.
type Message struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SenderID   uuid.UUID `gorm:"type:uuid;not null;index:idx_messages_sender_receiver" json:"senderId"`
	ReceiverID uuid.UUID `gorm:"type:uuid;not null;index:idx_messages_sender_receiver;index:idx_messages_receiver_read" json:"receiverId"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	IsRead     bool      `gorm:"not null;default:false;index:idx_messages_receiver_read" json:"isRead"`
	CreatedAt  time.Time `gorm:"index" json:"createdAt"`

	// Relationships
	Sender   User `gorm:"foreignKey:SenderID" json:"-"`
	Receiver User `gorm:"foreignKey:ReceiverID" json:"-"`
}

// TableName overrides the table name
func (Message) TableName() string {
	return "messages"
}

// BeforeCreate hook to generate UUID before creating a new message
func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// ConversationRow is one row of the per-counterpart conversation query:
// the latest message with a counterpart plus display data of both parties
type ConversationRow struct {
	ID             uuid.UUID
	SenderID       uuid.UUID
	ReceiverID     uuid.UUID
	Content        string
	IsRead         bool
	CreatedAt      time.Time
	SenderName     string
	SenderEmail    string
	SenderAvatar   *string
	ReceiverName   string
	ReceiverEmail  string
	ReceiverAvatar *string
	UnreadCount    int64
}
