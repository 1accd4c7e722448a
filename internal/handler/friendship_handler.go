package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/tripsync/internal/database/service"
)

// FriendshipHandler handles friend requests and friend lists
type FriendshipHandler struct {
	service service.FriendshipService
	logger  *slog.Logger
}

// NewFriendshipHandler creates a new friendship handler
func NewFriendshipHandler(service service.FriendshipService, logger *slog.Logger) *FriendshipHandler {
	return &FriendshipHandler{
		service: service,
		logger:  logger,
	}
}

type FriendRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ListFriends handles GET /api/friends
func (h *FriendshipHandler) ListFriends(c *gin.Context) {
	userID, ok := currentUserID(c, h.logger)
	if !ok {
		return
	}

	friends, err := h.service.ListFriends(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"friends": friends})
}

// ListRequests handles GET /api/friends/requests
func (h *FriendshipHandler) ListRequests(c *gin.Context) {
	userID, ok := currentUserID(c, h.logger)
	if !ok {
		return
	}

	requests, err := h.service.ListPendingRequests(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// SendRequest handles POST /api/friends
func (h *FriendshipHandler) SendRequest(c *gin.Context) {
	userID, ok := currentUserID(c, h.logger)
	if !ok {
		return
	}

	var req FriendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
		return
	}

	friendship, err := h.service.RequestFriend(c.Request.Context(), userID, req.Email)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"friendship": friendship})
}

// AcceptRequest handles PUT /api/friends/:id/accept
func (h *FriendshipHandler) AcceptRequest(c *gin.Context) {
	userID, ok := currentUserID(c, h.logger)
	if !ok {
		return
	}
	friendshipID, ok := pathID(c, "id", "friend request")
	if !ok {
		return
	}

	friendship, err := h.service.AcceptRequest(c.Request.Context(), userID, friendshipID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"friendship": friendship})
}
