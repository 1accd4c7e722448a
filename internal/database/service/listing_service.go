package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/EgehanKilicarslan/tripsync/internal/database/models"
	"github.com/EgehanKilicarslan/tripsync/internal/database/repository"
)

// Pagination defaults
const (
	DefaultPage      = 1
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// ListingService defines the interface for listing business logic
type ListingService interface {
	ListListings(ctx context.Context, filter repository.ListingFilter, page, limit int) (*ListingPage, error)
	CreateListing(ctx context.Context, ownerID uuid.UUID, input CreateListingInput) (*models.Listing, error)
	GetListing(ctx context.Context, id uuid.UUID) (*ListingDetail, error)
	EnsureOwner(ctx context.Context, ownerID, listingID uuid.UUID) error
	AddImage(ctx context.Context, ownerID, listingID uuid.UUID, url, caption string, isPrimary bool) (*models.ListingImage, error)
	AddReview(ctx context.Context, authorID, listingID uuid.UUID, rating int, comment string) (*ReviewView, error)
}

// CreateListingInput carries the fields of a new listing
type CreateListingInput struct {
	Title       string
	Description string
	Price       float64
	Capacity    int
	Location    string
	Category    string
	Latitude    *float64
	Longitude   *float64
	Amenities   []string
}

// Pagination describes one page of a result set
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// ListingSummary is one entry of the listing search result
type ListingSummary struct {
	ID           uuid.UUID          `json:"id"`
	Title        string             `json:"title"`
	Description  string             `json:"description"`
	Price        float64            `json:"price"`
	Capacity     int                `json:"capacity"`
	Location     string             `json:"location"`
	Latitude     *float64           `json:"latitude"`
	Longitude    *float64           `json:"longitude"`
	Amenities    []string           `json:"amenities"`
	Category     string             `json:"category"`
	CreatedAt    time.Time          `json:"createdAt"`
	PrimaryImage *string            `json:"primaryImage"`
	Owner        models.UserSummary `json:"owner"`
	ReviewCount  int64              `json:"reviewCount"`
}

// ListingPage is a page of listing summaries
type ListingPage struct {
	Listings   []ListingSummary `json:"listings"`
	Pagination Pagination       `json:"pagination"`
}

// ReviewView is a review with its author's display data
type ReviewView struct {
	ID        uuid.UUID          `json:"id"`
	ListingID uuid.UUID          `json:"listingId"`
	Rating    int                `json:"rating"`
	Comment   string             `json:"comment"`
	CreatedAt time.Time          `json:"createdAt"`
	Author    models.UserSummary `json:"author"`
}

// ListingDetail is a single listing with images, reviews and owner
type ListingDetail struct {
	models.Listing
	Owner         models.UserSummary `json:"owner"`
	Reviews       []ReviewView       `json:"reviews"`
	AverageRating *float64           `json:"averageRating"`
}

type listingService struct {
	listingRepo repository.ListingRepository
	userRepo    repository.UserRepository
	logger      *slog.Logger
}

// NewListingService creates a new listing service instance
func NewListingService(
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
	logger *slog.Logger,
) ListingService {
	return &listingService{
		listingRepo: listingRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// NormalizePage applies pagination defaults and caps
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}

// TotalPages returns ceil(total/limit)
func TotalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

func (s *listingService) ListListings(ctx context.Context, filter repository.ListingFilter, page, limit int) (*ListingPage, error) {
	page, limit = NormalizePage(page, limit)
	offset := (page - 1) * limit

	listings, total, err := s.listingRepo.List(ctx, filter, offset, limit)
	if err != nil {
		s.logger.Error("❌ [ListingService] Failed to list listings", "error", err)
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(listings))
	for _, l := range listings {
		ids = append(ids, l.ID)
	}
	counts, err := s.listingRepo.CountReviews(ctx, ids)
	if err != nil {
		s.logger.Error("❌ [ListingService] Failed to count reviews", "error", err)
		return nil, err
	}

	summaries := make([]ListingSummary, 0, len(listings))
	for i := range listings {
		l := &listings[i]
		summary := ListingSummary{
			ID:          l.ID,
			Title:       l.Title,
			Description: l.Description,
			Price:       l.Price,
			Capacity:    l.Capacity,
			Location:    l.Location,
			Latitude:    l.Latitude,
			Longitude:   l.Longitude,
			Amenities:   amenitiesOf(l.Amenities),
			Category:    l.Category,
			CreatedAt:   l.CreatedAt,
			ReviewCount: counts[l.ID],
		}
		if len(l.Images) > 0 {
			url := l.Images[0].URL
			summary.PrimaryImage = &url
		}
		if l.Owner != nil {
			summary.Owner = l.Owner.Summary()
		}
		summaries = append(summaries, summary)
	}

	s.logger.Debug("🔎 [ListingService] Listings retrieved",
		"count", len(summaries),
		"total", total,
		"page", page,
	)

	return &ListingPage{
		Listings: summaries,
		Pagination: Pagination{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: TotalPages(total, limit),
		},
	}, nil
}

func (s *listingService) CreateListing(ctx context.Context, ownerID uuid.UUID, input CreateListingInput) (*models.Listing, error) {
	s.logger.Info("🏠 [ListingService] Creating listing", "owner_id", ownerID)

	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	input.Location = strings.TrimSpace(input.Location)
	input.Category = strings.TrimSpace(input.Category)

	if input.Title == "" || input.Description == "" || input.Location == "" || input.Category == "" {
		return nil, invalidInput("title, description, price, capacity, location and category are required")
	}
	if input.Price <= 0 {
		return nil, invalidInput("price must be greater than 0")
	}
	if input.Capacity < 1 {
		return nil, invalidInput("capacity must be at least 1")
	}
	if (input.Latitude == nil) != (input.Longitude == nil) {
		return nil, invalidInput("latitude and longitude must be provided together")
	}
	if input.Latitude != nil && (*input.Latitude < -90 || *input.Latitude > 90 || *input.Longitude < -180 || *input.Longitude > 180) {
		return nil, invalidInput("coordinates are out of range")
	}

	amenities := make(pq.StringArray, 0, len(input.Amenities))
	for _, a := range input.Amenities {
		if a = strings.TrimSpace(a); a != "" {
			amenities = append(amenities, a)
		}
	}

	listing := &models.Listing{
		OwnerID:     ownerID,
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Capacity:    input.Capacity,
		Location:    input.Location,
		Category:    input.Category,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		Amenities:   amenities,
	}

	if err := s.listingRepo.Create(ctx, listing); err != nil {
		s.logger.Error("❌ [ListingService] Failed to create listing", "error", err)
		return nil, err
	}

	s.logger.Info("✅ [ListingService] Listing created", "listing_id", listing.ID, "owner_id", ownerID)
	return listing, nil
}

func (s *listingService) GetListing(ctx context.Context, id uuid.UUID) (*ListingDetail, error) {
	listing, err := s.listingRepo.FindWithDetails(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return nil, ErrListingNotFound
		}
		s.logger.Error("❌ [ListingService] Failed to load listing", "listing_id", id, "error", err)
		return nil, err
	}

	detail := &ListingDetail{
		Listing: *listing,
		Reviews: make([]ReviewView, 0, len(listing.Reviews)),
	}
	if listing.Owner != nil {
		detail.Owner = listing.Owner.Summary()
	}
	detail.Listing.Owner = nil
	detail.Listing.Reviews = nil
	if detail.Listing.Images == nil {
		detail.Listing.Images = []models.ListingImage{}
	}
	detail.Listing.Amenities = amenitiesOf(listing.Amenities)

	var sum int
	for i := range listing.Reviews {
		r := &listing.Reviews[i]
		sum += r.Rating
		detail.Reviews = append(detail.Reviews, reviewView(r, r.Author))
	}
	if n := len(listing.Reviews); n > 0 {
		avg := float64(sum) / float64(n)
		detail.AverageRating = &avg
	}

	return detail, nil
}

// EnsureOwner returns nil when ownerID owns the listing
func (s *listingService) EnsureOwner(ctx context.Context, ownerID, listingID uuid.UUID) error {
	listing, err := s.listingRepo.FindByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return ErrListingNotFound
		}
		s.logger.Error("❌ [ListingService] Failed to load listing", "listing_id", listingID, "error", err)
		return err
	}
	if listing.OwnerID != ownerID {
		s.logger.Warn("⚠️ [ListingService] Ownership check failed",
			"listing_id", listingID,
			"user_id", ownerID,
		)
		return ErrNotListingOwner
	}
	return nil
}

// AddImage attaches an already stored image to a listing the caller owns
func (s *listingService) AddImage(ctx context.Context, ownerID, listingID uuid.UUID, url, caption string, isPrimary bool) (*models.ListingImage, error) {
	if err := s.EnsureOwner(ctx, ownerID, listingID); err != nil {
		return nil, err
	}

	image := &models.ListingImage{
		ListingID: listingID,
		URL:       url,
		Caption:   strings.TrimSpace(caption),
		IsPrimary: isPrimary,
	}
	if err := s.listingRepo.AddImage(ctx, image); err != nil {
		s.logger.Error("❌ [ListingService] Failed to add image", "listing_id", listingID, "error", err)
		return nil, err
	}

	s.logger.Info("🖼️ [ListingService] Image added",
		"listing_id", listingID,
		"image_id", image.ID,
		"primary", isPrimary,
	)
	return image, nil
}

func (s *listingService) AddReview(ctx context.Context, authorID, listingID uuid.UUID, rating int, comment string) (*ReviewView, error) {
	if rating < 1 || rating > 5 {
		return nil, invalidInput("rating must be between 1 and 5")
	}

	if _, err := s.listingRepo.FindByID(ctx, listingID); err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}

	author, err := s.userRepo.FindByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	review := &models.Review{
		ListingID: listingID,
		AuthorID:  authorID,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
	}
	if err := s.listingRepo.CreateReview(ctx, review); err != nil {
		s.logger.Error("❌ [ListingService] Failed to create review", "listing_id", listingID, "error", err)
		return nil, err
	}

	s.logger.Info("⭐ [ListingService] Review added", "listing_id", listingID, "rating", rating)
	view := reviewView(review, *author)
	return &view, nil
}

func reviewView(r *models.Review, author models.User) ReviewView {
	return ReviewView{
		ID:        r.ID,
		ListingID: r.ListingID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
		Author:    author.Summary(),
	}
}

func amenitiesOf(a pq.StringArray) []string {
	if a == nil {
		return []string{}
	}
	return a
}
