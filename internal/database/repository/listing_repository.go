package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/EgehanKilicarslan/tripsync/internal/database/models"
)

// ListingFilter narrows a listing search. Nil fields are not applied.
type ListingFilter struct {
	Location    *string
	Category    *string
	MinPrice    *float64
	MaxPrice    *float64
	MinCapacity *int
}

// ListingRepository defines the interface for listing, image and review data operations
type ListingRepository interface {
	List(ctx context.Context, filter ListingFilter, offset, limit int) ([]models.Listing, int64, error)
	CountReviews(ctx context.Context, listingIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	Create(ctx context.Context, listing *models.Listing) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Listing, error)
	FindWithDetails(ctx context.Context, id uuid.UUID) (*models.Listing, error)
	AddImage(ctx context.Context, image *models.ListingImage) error
	CreateReview(ctx context.Context, review *models.Review) error
}

type listingRepository struct {
	db *gorm.DB
}

// NewListingRepository creates a new listing repository instance
func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func applyListingFilter(query *gorm.DB, filter ListingFilter) *gorm.DB {
	if filter.Location != nil && *filter.Location != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(*filter.Location)) + "%"
		query = query.Where(`LOWER(location) LIKE ? ESCAPE '\'`, pattern)
	}
	if filter.Category != nil && *filter.Category != "" {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.MinCapacity != nil {
		query = query.Where("capacity >= ?", *filter.MinCapacity)
	}
	return query
}

// List returns one page of listings matching filter, newest first, with the
// total number of matches
func (r *listingRepository) List(ctx context.Context, filter ListingFilter, offset, limit int) ([]models.Listing, int64, error) {
	var listings []models.Listing
	var total int64

	baseQuery := applyListingFilter(r.db.WithContext(ctx).Model(&models.Listing{}), filter)
	if err := baseQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := applyListingFilter(r.db.WithContext(ctx), filter).
		Preload("Owner.Profile").
		Preload("Images", "is_primary = ?", true).
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&listings).Error
	if err != nil {
		return nil, 0, err
	}

	return listings, total, nil
}

type reviewCount struct {
	ListingID uuid.UUID
	Count     int64
}

// CountReviews returns the number of reviews per listing. Listings without
// reviews are absent from the map.
func (r *listingRepository) CountReviews(ctx context.Context, listingIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(listingIDs))
	if len(listingIDs) == 0 {
		return counts, nil
	}

	var rows []reviewCount
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("listing_id, COUNT(*) AS count").
		Where("listing_id IN ?", listingIDs).
		Group("listing_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.ListingID] = row.Count
	}
	return counts, nil
}

func (r *listingRepository) Create(ctx context.Context, listing *models.Listing) error {
	return r.db.WithContext(ctx).Create(listing).Error
}

func (r *listingRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	var listing models.Listing
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&listing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	return &listing, nil
}

// FindWithDetails loads the listing with its owner, images (primary first)
// and reviews (newest first)
func (r *listingRepository) FindWithDetails(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	var listing models.Listing
	err := r.db.WithContext(ctx).
		Preload("Owner.Profile").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_primary DESC").Order("created_at ASC")
		}).
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Reviews.Author.Profile").
		Where("id = ?", id).
		First(&listing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	return &listing, nil
}

// AddImage stores the image. A primary image first clears the flag on every
// other image of the listing, inside the same transaction.
func (r *listingRepository) AddImage(ctx context.Context, image *models.ListingImage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if image.IsPrimary {
			err := tx.Model(&models.ListingImage{}).
				Where("listing_id = ? AND is_primary = ?", image.ListingID, true).
				Update("is_primary", false).Error
			if err != nil {
				return err
			}
		}
		return tx.Create(image).Error
	})
}

func (r *listingRepository) CreateReview(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}
