package handler

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/EgehanKilicarslan/tripsync/internal/database/service"
	"github.com/EgehanKilicarslan/tripsync/internal/metrics"
	"github.com/EgehanKilicarslan/tripsync/internal/storage"
)

// UploadHandler handles listing image and avatar uploads
type UploadHandler struct {
	uploader       *storage.Uploader
	listingService service.ListingService
	userService    service.UserService
	metrics        *metrics.Metrics
	logger         *slog.Logger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(
	uploader *storage.Uploader,
	listingService service.ListingService,
	userService service.UserService,
	m *metrics.Metrics,
	logger *slog.Logger,
) *UploadHandler {
	return &UploadHandler{
		uploader:       uploader,
		listingService: listingService,
		userService:    userService,
		metrics:        m,
		logger:         logger,
	}
}

// formFile returns the named multipart file, mapping an absent part to storage.ErrMissingFile
func formFile(c *gin.Context, field string) (*multipart.FileHeader, error) {
	file, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, storage.ErrMissingFile
		}
		return nil, err
	}
	return file, nil
}

// UploadListingImage handles POST /api/uploads/listing
func (h *UploadHandler) UploadListingImage(c *gin.Context) {
	userID, ok := currentUserID(c, h.logger)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	file, err := formFile(c, "file")
	if err != nil {
		h.metrics.RecordUpload("listing", false)
		handleServiceError(c, h.logger, err)
		return
	}

	listingID, err := uuid.Parse(c.PostForm("listingId"))
	if err != nil {
		h.metrics.RecordUpload("listing", false)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Listing ID is required"})
		return
	}

	// Ownership is checked before anything touches the disk
	if err := h.listingService.EnsureOwner(ctx, userID, listingID); err != nil {
		h.metrics.RecordUpload("listing", false)
		handleServiceError(c, h.logger, err)
		return
	}

	url, err := h.uploader.Accept(file, storage.ListingImagesDir)
	if err != nil {
		h.metrics.RecordUpload("listing", false)
		handleServiceError(c, h.logger, err)
		return
	}

	isPrimary := strings.EqualFold(c.PostForm("isPrimary"), "true")
	image, err := h.listingService.AddImage(ctx, userID, listingID, url, c.PostForm("caption"), isPrimary)
	if err != nil {
		if removeErr := h.uploader.Remove(url); removeErr != nil {
			h.logger.Warn("⚠️ [UploadHandler] Failed to remove orphaned file", "url", url, "error", removeErr)
		}
		h.metrics.RecordUpload("listing", false)
		handleServiceError(c, h.logger, err)
		return
	}
	h.metrics.RecordUpload("listing", true)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"image":   image,
	})
}

// UploadAvatar handles POST /api/uploads/profile
func (h *UploadHandler) UploadAvatar(c *gin.Context) {
	userID, ok := currentUserID(c, h.logger)
	if !ok {
		return
	}

	file, err := formFile(c, "avatar")
	if err != nil {
		h.metrics.RecordUpload("avatar", false)
		handleServiceError(c, h.logger, err)
		return
	}

	url, err := h.uploader.Accept(file, storage.AvatarsDir)
	if err != nil {
		h.metrics.RecordUpload("avatar", false)
		handleServiceError(c, h.logger, err)
		return
	}

	previous, err := h.userService.SetAvatar(c.Request.Context(), userID, url)
	if err != nil {
		if removeErr := h.uploader.Remove(url); removeErr != nil {
			h.logger.Warn("⚠️ [UploadHandler] Failed to remove orphaned file", "url", url, "error", removeErr)
		}
		h.metrics.RecordUpload("avatar", false)
		handleServiceError(c, h.logger, err)
		return
	}
	h.metrics.RecordUpload("avatar", true)

	if strings.HasPrefix(previous, storage.PublicPrefix+"/"+storage.AvatarsDir+"/") {
		if err := h.uploader.Remove(previous); err != nil {
			h.logger.Warn("⚠️ [UploadHandler] Failed to remove previous avatar", "url", previous, "error", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"avatarUrl": url,
	})
}
