package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/EgehanKilicarslan/tripsync/internal/database/models"
)

// MessageRepository defines the interface for direct message data operations
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	FindThread(ctx context.Context, userID, counterpartID uuid.UUID) ([]models.Message, error)
	MarkThreadRead(ctx context.Context, userID, counterpartID uuid.UUID) (int64, error)
	ListConversations(ctx context.Context, userID uuid.UUID) ([]models.ConversationRow, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new message repository instance
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

// FindThread returns every message exchanged between the two users, oldest first
func (r *messageRepository) FindThread(ctx context.Context, userID, counterpartID uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.WithContext(ctx).
		Preload("Sender.Profile").
		Preload("Receiver.Profile").
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, counterpartID, counterpartID, userID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&messages).Error
	return messages, err
}

// MarkThreadRead flags the counterpart's unread messages to userID as read
// and returns how many changed
func (r *messageRepository) MarkThreadRead(ctx context.Context, userID, counterpartID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", counterpartID, userID, false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

// conversationsQuery keeps the newest message per counterpart. The window
// only ranks ids; the outer query joins back to messages so column types
// survive on every driver.
const conversationsQuery = `
WITH ranked AS (
	SELECT id,
		ROW_NUMBER() OVER (
			PARTITION BY CASE WHEN sender_id = @user THEN receiver_id ELSE sender_id END
			ORDER BY created_at DESC, id DESC
		) AS rn
	FROM messages
	WHERE sender_id = @user OR receiver_id = @user
)
SELECT
	m.id,
	m.sender_id,
	m.receiver_id,
	m.content,
	m.is_read,
	m.created_at,
	s.name AS sender_name,
	s.email AS sender_email,
	sp.avatar AS sender_avatar,
	rc.name AS receiver_name,
	rc.email AS receiver_email,
	rp.avatar AS receiver_avatar,
	(
		SELECT COUNT(*) FROM messages u
		WHERE u.receiver_id = @user
			AND u.sender_id = CASE WHEN m.sender_id = @user THEN m.receiver_id ELSE m.sender_id END
			AND u.is_read = @unread
	) AS unread_count
FROM ranked
JOIN messages m ON m.id = ranked.id
JOIN users s ON s.id = m.sender_id
JOIN users rc ON rc.id = m.receiver_id
LEFT JOIN profiles sp ON sp.user_id = m.sender_id
LEFT JOIN profiles rp ON rp.user_id = m.receiver_id
WHERE ranked.rn = 1
ORDER BY m.created_at DESC, m.id DESC`

// ListConversations returns one row per counterpart userID has ever
// exchanged a message with: the latest message and the number of unread
// messages from that counterpart, newest conversation first
func (r *messageRepository) ListConversations(ctx context.Context, userID uuid.UUID) ([]models.ConversationRow, error) {
	var rows []models.ConversationRow
	err := r.db.WithContext(ctx).
		Raw(conversationsQuery, map[string]interface{}{
			"user":   userID,
			"unread": false,
		}).
		Scan(&rows).Error
	return rows, err
}
