package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/EgehanKilicarslan/tripsync/internal/database/models"
	"github.com/EgehanKilicarslan/tripsync/internal/database/repository"
)

// MaxMessageLength bounds the size of a single direct message
const MaxMessageLength = 5000

// MessageService defines the interface for direct messaging business logic
type MessageService interface {
	ListConversations(ctx context.Context, userID uuid.UUID) ([]Conversation, error)
	GetThread(ctx context.Context, userID, counterpartID uuid.UUID) ([]MessageView, error)
	MarkThreadRead(ctx context.Context, userID, counterpartID uuid.UUID) (int64, error)
	SendMessage(ctx context.Context, senderID, receiverID uuid.UUID, content string) (*MessageView, error)
}

// Conversation is the latest message exchanged with one counterpart
type Conversation struct {
	ID          uuid.UUID          `json:"id"`
	Content     string             `json:"content"`
	CreatedAt   time.Time          `json:"createdAt"`
	SenderID    uuid.UUID          `json:"senderId"`
	ReceiverID  uuid.UUID          `json:"receiverId"`
	IsRead      bool               `json:"isRead"`
	OtherUser   models.UserSummary `json:"otherUser"`
	UnreadCount int64              `json:"unreadCount"`
}

// MessageView is a message with both participants' display data
type MessageView struct {
	ID         uuid.UUID          `json:"id"`
	Content    string             `json:"content"`
	CreatedAt  time.Time          `json:"createdAt"`
	SenderID   uuid.UUID          `json:"senderId"`
	ReceiverID uuid.UUID          `json:"receiverId"`
	IsRead     bool               `json:"isRead"`
	Sender     models.UserSummary `json:"sender"`
	Receiver   models.UserSummary `json:"receiver"`
}

type messageService struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	logger      *slog.Logger
}

// NewMessageService creates a new message service instance
func NewMessageService(
	messageRepo repository.MessageRepository,
	userRepo repository.UserRepository,
	logger *slog.Logger,
) MessageService {
	return &messageService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

func (s *messageService) ListConversations(ctx context.Context, userID uuid.UUID) ([]Conversation, error) {
	rows, err := s.messageRepo.ListConversations(ctx, userID)
	if err != nil {
		s.logger.Error("❌ [MessageService] Failed to list conversations", "user_id", userID, "error", err)
		return nil, err
	}

	conversations := make([]Conversation, 0, len(rows))
	for _, row := range rows {
		conversations = append(conversations, toConversation(userID, row))
	}

	s.logger.Debug("💬 [MessageService] Conversations retrieved", "user_id", userID, "count", len(conversations))
	return conversations, nil
}

func toConversation(userID uuid.UUID, row models.ConversationRow) Conversation {
	other := models.UserSummary{
		ID:     row.SenderID,
		Name:   row.SenderName,
		Email:  row.SenderEmail,
		Avatar: nonEmpty(row.SenderAvatar),
	}
	if row.SenderID == userID {
		other = models.UserSummary{
			ID:     row.ReceiverID,
			Name:   row.ReceiverName,
			Email:  row.ReceiverEmail,
			Avatar: nonEmpty(row.ReceiverAvatar),
		}
	}

	return Conversation{
		ID:          row.ID,
		Content:     row.Content,
		CreatedAt:   row.CreatedAt,
		SenderID:    row.SenderID,
		ReceiverID:  row.ReceiverID,
		IsRead:      row.IsRead,
		OtherUser:   other,
		UnreadCount: row.UnreadCount,
	}
}

// GetThread returns the messages between the two users, oldest first. It
// does not change read state; see MarkThreadRead.
func (s *messageService) GetThread(ctx context.Context, userID, counterpartID uuid.UUID) ([]MessageView, error) {
	messages, err := s.messageRepo.FindThread(ctx, userID, counterpartID)
	if err != nil {
		s.logger.Error("❌ [MessageService] Failed to load thread",
			"user_id", userID,
			"counterpart_id", counterpartID,
			"error", err,
		)
		return nil, err
	}

	views := make([]MessageView, 0, len(messages))
	for i := range messages {
		m := &messages[i]
		views = append(views, messageView(m, &m.Sender, &m.Receiver))
	}
	return views, nil
}

// MarkThreadRead marks every unread message from counterpartID to userID as read
func (s *messageService) MarkThreadRead(ctx context.Context, userID, counterpartID uuid.UUID) (int64, error) {
	changed, err := s.messageRepo.MarkThreadRead(ctx, userID, counterpartID)
	if err != nil {
		s.logger.Error("❌ [MessageService] Failed to mark thread read",
			"user_id", userID,
			"counterpart_id", counterpartID,
			"error", err,
		)
		return 0, err
	}
	if changed > 0 {
		s.logger.Debug("📖 [MessageService] Messages marked read",
			"user_id", userID,
			"counterpart_id", counterpartID,
			"count", changed,
		)
	}
	return changed, nil
}

func (s *messageService) SendMessage(ctx context.Context, senderID, receiverID uuid.UUID, content string) (*MessageView, error) {
	content = strings.TrimSpace(content)
	if content == "" || receiverID == uuid.Nil {
		return nil, invalidInput("message content and receiver id are required")
	}
	if len(content) > MaxMessageLength {
		return nil, invalidInput("message must be at most %d bytes", MaxMessageLength)
	}
	if senderID == receiverID {
		s.logger.Warn("⚠️ [MessageService] Self-message rejected", "user_id", senderID)
		return nil, ErrSelfMessage
	}

	receiver, err := s.userRepo.FindByID(ctx, receiverID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.logger.Warn("⚠️ [MessageService] Receiver not found", "receiver_id", receiverID)
			return nil, ErrReceiverNotFound
		}
		return nil, err
	}
	sender, err := s.userRepo.FindByID(ctx, senderID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	message := &models.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		s.logger.Error("❌ [MessageService] Failed to send message", "error", err)
		return nil, err
	}

	s.logger.Info("✉️ [MessageService] Message sent",
		"message_id", message.ID,
		"sender_id", senderID,
		"receiver_id", receiverID,
	)
	view := messageView(message, sender, receiver)
	return &view, nil
}

func messageView(m *models.Message, sender, receiver *models.User) MessageView {
	return MessageView{
		ID:         m.ID,
		Content:    m.Content,
		CreatedAt:  m.CreatedAt,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		IsRead:     m.IsRead,
		Sender:     sender.Summary(),
		Receiver:   receiver.Summary(),
	}
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
