package storage

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// PublicPrefix is the URL prefix under which stored files are served
const PublicPrefix = "/uploads"

// Upload subdirectories
const (
	ListingImagesDir = "listings"
	AvatarsDir       = "avatars"
)

// AllowedImageTypes lists the content types accepted for images
var AllowedImageTypes = []string{
	"image/jpeg",
	"image/jpg",
	"image/png",
	"image/webp",
	"image/gif",
}

var (
	ErrMissingFile     = errors.New("no file provided")
	ErrUnsupportedType = errors.New("invalid file type. Only images are allowed")
	ErrFileTooLarge    = errors.New("file too large")
	ErrWriteFailed     = errors.New("failed to store file")
	ErrInvalidPath     = errors.New("invalid upload path")
)

var safeExtension = regexp.MustCompile(`^\.[a-z0-9]{1,8}$`)

// fallbackExtensions is used when the original name has no usable extension
var fallbackExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// Uploader stores validated multipart files on local disk
type Uploader struct {
	root     string
	maxBytes int64
	allowed  map[string]struct{}
	logger   *slog.Logger
}

// NewUploader creates an uploader rooted at dir accepting files up to maxBytes
func NewUploader(dir string, maxBytes int64, allowedTypes []string, logger *slog.Logger) *Uploader {
	allowed := make(map[string]struct{}, len(allowedTypes))
	for _, t := range allowedTypes {
		allowed[strings.ToLower(t)] = struct{}{}
	}
	return &Uploader{
		root:     dir,
		maxBytes: maxBytes,
		allowed:  allowed,
		logger:   logger,
	}
}

// Root returns the directory files are written under
func (u *Uploader) Root() string {
	return u.root
}

// MaxBytes returns the inclusive size ceiling
func (u *Uploader) MaxBytes() int64 {
	return u.maxBytes
}

// Accept validates file and writes it to <root>/<subdir>/<uuid><ext>.
// It returns the public path of the stored file. Nothing is written when
// validation fails, and a failed write leaves no partial file behind.
func (u *Uploader) Accept(file *multipart.FileHeader, subdir string) (string, error) {
	if file == nil {
		return "", ErrMissingFile
	}
	if !validSubdir(subdir) {
		return "", ErrInvalidPath
	}

	contentType := u.contentType(file)
	if _, ok := u.allowed[contentType]; !ok {
		u.logger.Warn("⚠️ [Uploader] Rejected file type",
			"filename", file.Filename,
			"content_type", contentType,
		)
		return "", ErrUnsupportedType
	}

	if file.Size > u.maxBytes {
		u.logger.Warn("⚠️ [Uploader] Rejected oversized file",
			"filename", file.Filename,
			"size", file.Size,
			"max_size", u.maxBytes,
		)
		return "", ErrFileTooLarge
	}

	name := uuid.NewString() + extensionFor(file.Filename, contentType)
	dir := filepath.Join(u.root, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		u.logger.Error("❌ [Uploader] Failed to create upload directory", "dir", dir, "error", err)
		return "", fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	fullPath := filepath.Join(dir, name)
	if err := u.write(file, fullPath); err != nil {
		_ = os.Remove(fullPath)
		if errors.Is(err, ErrFileTooLarge) {
			return "", err
		}
		u.logger.Error("❌ [Uploader] Failed to write file", "path", fullPath, "error", err)
		return "", fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	publicPath := path.Join(PublicPrefix, subdir, name)
	u.logger.Info("📁 [Uploader] File stored",
		"path", publicPath,
		"size", file.Size,
		"content_type", contentType,
	)
	return publicPath, nil
}

func (u *Uploader) write(file *multipart.FileHeader, fullPath string) error {
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}

	// The declared size is not trusted; stop one byte past the ceiling
	written, err := io.Copy(dst, io.LimitReader(src, u.maxBytes+1))
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}
	if written > u.maxBytes {
		return ErrFileTooLarge
	}
	return nil
}

// Remove deletes a file previously returned by Accept. Missing files are ignored.
func (u *Uploader) Remove(publicPath string) error {
	rel := strings.TrimPrefix(publicPath, PublicPrefix+"/")
	if rel == publicPath || rel == "" {
		return ErrInvalidPath
	}

	cleaned := path.Clean(rel)
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || path.IsAbs(cleaned) {
		return ErrInvalidPath
	}

	err := os.Remove(filepath.Join(u.root, filepath.FromSlash(cleaned)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		u.logger.Warn("⚠️ [Uploader] Failed to remove file", "path", publicPath, "error", err)
		return err
	}
	return nil
}

// contentType trusts the part's declared Content-Type header; file bytes are not sniffed.
func (u *Uploader) contentType(file *multipart.FileHeader) string {
	raw := file.Header.Get("Content-Type")
	mediaType, _, err := mime.ParseMediaType(raw)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(raw))
	}
	return strings.ToLower(mediaType)
}

func extensionFor(filename, contentType string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if safeExtension.MatchString(ext) {
		return ext
	}
	return fallbackExtensions[contentType]
}

func validSubdir(subdir string) bool {
	if subdir == "" || subdir == "." || subdir == ".." {
		return false
	}
	return !strings.ContainsAny(subdir, `/\`)
}
