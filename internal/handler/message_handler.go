package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/EgehanKilicarslan/tripsync/internal/database/service"
	"github.com/EgehanKilicarslan/tripsync/internal/metrics"
)

// MessageHandler handles direct messaging
type MessageHandler struct {
	service service.MessageService
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(service service.MessageService, m *metrics.Metrics, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{
		service: service,
		metrics: m,
		logger:  logger,
	}
}

type SendMessageRequest struct {
	ReceiverID string `json:"receiverId"`
	Content    string `json:"content"`
}

// List handles GET /api/messages. With ?userId it returns that thread and
// marks the counterpart's messages read, otherwise the conversation list.
func (h *MessageHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c, h.logger)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	counterpart := c.Query("userId")
	if counterpart == "" {
		conversations, err := h.service.ListConversations(ctx, userID)
		if err != nil {
			handleServiceError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"conversations": conversations})
		return
	}

	counterpartID, err := uuid.Parse(counterpart)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	messages, err := h.service.GetThread(ctx, userID, counterpartID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	if _, err := h.service.MarkThreadRead(ctx, userID, counterpartID); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// Send handles POST /api/messages
func (h *MessageHandler) Send(c *gin.Context) {
	userID, ok := currentUserID(c, h.logger)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	receiverID := uuid.Nil
	if req.ReceiverID != "" {
		parsed, err := uuid.Parse(req.ReceiverID)
		if err != nil {
			// Not a valid id, so no such user exists
			c.JSON(http.StatusNotFound, gin.H{"error": "Receiver not found"})
			return
		}
		receiverID = parsed
	}

	message, err := h.service.SendMessage(c.Request.Context(), userID, receiverID, req.Content)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	h.metrics.RecordMessageSent()

	c.JSON(http.StatusOK, gin.H{
		"message": "Message sent successfully",
		"data":    message,
	})
}
