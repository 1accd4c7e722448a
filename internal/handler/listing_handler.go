package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/tripsync/internal/database/repository"
	"github.com/EgehanKilicarslan/tripsync/internal/database/service"
)

// ListingHandler handles listing search, detail, creation and reviews
type ListingHandler struct {
	service service.ListingService
	logger  *slog.Logger
}

// NewListingHandler creates a new listing handler
func NewListingHandler(service service.ListingService, logger *slog.Logger) *ListingHandler {
	return &ListingHandler{
		service: service,
		logger:  logger,
	}
}

// ListingQuery is the query string of GET /api/listings
type ListingQuery struct {
	Page     int      `form:"page"`
	Limit    int      `form:"limit"`
	Location string   `form:"location"`
	Category string   `form:"category"`
	MinPrice *float64 `form:"minPrice"`
	MaxPrice *float64 `form:"maxPrice"`
	Capacity *int     `form:"capacity"`
}

type CreateListingRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Capacity    int      `json:"capacity"`
	Location    string   `json:"location"`
	Category    string   `json:"category"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Amenities   []string `json:"amenities"`
}

type CreateReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// List handles GET /api/listings
func (h *ListingHandler) List(c *gin.Context) {
	var query ListingQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.logger.Warn("⚠️ [ListingHandler] Invalid query", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	filter := repository.ListingFilter{
		MinPrice:    query.MinPrice,
		MaxPrice:    query.MaxPrice,
		MinCapacity: query.Capacity,
	}
	if query.Location != "" {
		filter.Location = &query.Location
	}
	if query.Category != "" {
		filter.Category = &query.Category
	}

	page, err := h.service.ListListings(c.Request.Context(), filter, query.Page, query.Limit)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// Get handles GET /api/listings/:id
func (h *ListingHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id", "listing")
	if !ok {
		return
	}

	listing, err := h.service.GetListing(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"listing": listing})
}

// Create handles POST /api/listings
func (h *ListingHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c, h.logger)
	if !ok {
		return
	}

	var req CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("⚠️ [ListingHandler] Invalid create request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	listing, err := h.service.CreateListing(c.Request.Context(), userID, service.CreateListingInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Capacity:    req.Capacity,
		Location:    req.Location,
		Category:    req.Category,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Amenities:   req.Amenities,
	})
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"listing": listing,
	})
}

// CreateReview handles POST /api/listings/:id/reviews
func (h *ListingHandler) CreateReview(c *gin.Context) {
	userID, ok := currentUserID(c, h.logger)
	if !ok {
		return
	}
	listingID, ok := pathID(c, "id", "listing")
	if !ok {
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	review, err := h.service.AddReview(c.Request.Context(), userID, listingID, req.Rating, req.Comment)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"review": review})
}
