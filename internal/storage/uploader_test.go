package storage_test

import (
	"bytes"
	"fmt"
	"io/fs"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgehanKilicarslan/tripsync/internal/logger"
	"github.com/EgehanKilicarslan/tripsync/internal/storage"
)

const maxUpload = 10 * 1024 * 1024

func newFileHeader(t *testing.T, filename, contentType string, size int) *multipart.FileHeader {
	t.Helper()
	return newFileHeaderWithContent(t, filename, contentType, bytes.Repeat([]byte{0xAB}, size))
}

func newFileHeaderWithContent(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	files := form.File["file"]
	require.Len(t, files, 1)
	return files[0]
}

func countFiles(t *testing.T, root string) int {
	t.Helper()

	count := 0
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			count++
		}
		return nil
	})
	require.NoError(t, err)
	return count
}

func newUploader(t *testing.T) (*storage.Uploader, string) {
	root := t.TempDir()
	return storage.NewUploader(root, maxUpload, storage.AllowedImageTypes, logger.Discard()), root
}

func TestUploader_SizeBoundary(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr error
	}{
		{name: "exactly_at_ceiling", size: maxUpload, wantErr: nil},
		{name: "one_byte_over", size: maxUpload + 1, wantErr: storage.ErrFileTooLarge},
		{name: "small", size: 512, wantErr: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uploader, root := newUploader(t)
			file := newFileHeader(t, "photo.png", "image/png", tt.size)

			publicPath, err := uploader.Accept(file, storage.ListingImagesDir)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, publicPath)
				assert.Zero(t, countFiles(t, root))
				return
			}

			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(publicPath, "/uploads/listings/"))
			assert.True(t, strings.HasSuffix(publicPath, ".png"))

			stored := filepath.Join(root, "listings", filepath.Base(publicPath))
			info, err := os.Stat(stored)
			require.NoError(t, err)
			assert.Equal(t, int64(tt.size), info.Size())
		})
	}
}

func TestUploader_ContentTypes(t *testing.T) {
	tests := []struct {
		contentType string
		allowed     bool
	}{
		{"image/jpeg", true},
		{"image/jpg", true},
		{"image/png", true},
		{"image/webp", true},
		{"image/gif", true},
		{"IMAGE/PNG", true},
		{"image/png; charset=binary", true},
		{"image/svg+xml", false},
		{"application/pdf", false},
		{"text/html", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			uploader, root := newUploader(t)
			file := newFileHeader(t, "file.png", tt.contentType, 16)

			_, err := uploader.Accept(file, storage.AvatarsDir)
			if tt.allowed {
				assert.NoError(t, err)
				assert.Equal(t, 1, countFiles(t, root))
			} else {
				assert.ErrorIs(t, err, storage.ErrUnsupportedType)
				assert.Zero(t, countFiles(t, root))
			}
		})
	}
}

func TestUploader_TrustsDeclaredContentType(t *testing.T) {
	pngBytes := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	uploader, root := newUploader(t)
	_, err := uploader.Accept(newFileHeaderWithContent(t, "real.png", "text/plain", pngBytes), storage.ListingImagesDir)
	assert.ErrorIs(t, err, storage.ErrUnsupportedType)
	assert.Zero(t, countFiles(t, root))

	_, err = uploader.Accept(newFileHeaderWithContent(t, "notes.png", "image/png", []byte("plain text")), storage.ListingImagesDir)
	assert.NoError(t, err)
	assert.Equal(t, 1, countFiles(t, root))
}

func TestUploader_FilenameIsGenerated(t *testing.T) {
	uploader, root := newUploader(t)

	first, err := uploader.Accept(newFileHeader(t, "../../etc/Passwd.JPG", "image/jpeg", 8), storage.AvatarsDir)
	require.NoError(t, err)
	second, err := uploader.Accept(newFileHeader(t, "../../etc/Passwd.JPG", "image/jpeg", 8), storage.AvatarsDir)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.NotContains(t, first, "Passwd")
	assert.NotContains(t, first, "..")
	assert.True(t, strings.HasSuffix(first, ".jpg"))
	assert.Equal(t, 2, countFiles(t, filepath.Join(root, "avatars")))

	noExt, err := uploader.Accept(newFileHeader(t, "photo", "image/webp", 8), storage.AvatarsDir)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(noExt, ".webp"))
}

func TestUploader_MissingFileAndBadSubdir(t *testing.T) {
	uploader, root := newUploader(t)

	_, err := uploader.Accept(nil, storage.AvatarsDir)
	assert.ErrorIs(t, err, storage.ErrMissingFile)

	for _, subdir := range []string{"", ".", "..", "a/b", `a\b`} {
		_, err = uploader.Accept(newFileHeader(t, "a.png", "image/png", 8), subdir)
		assert.ErrorIs(t, err, storage.ErrInvalidPath, subdir)
	}
	assert.Zero(t, countFiles(t, root))
}

func TestUploader_UnderstatedSizeIsCaught(t *testing.T) {
	uploader, root := newUploader(t)

	file := newFileHeader(t, "big.png", "image/png", maxUpload+1)
	file.Size = 10

	_, err := uploader.Accept(file, storage.ListingImagesDir)
	assert.ErrorIs(t, err, storage.ErrFileTooLarge)
	assert.Zero(t, countFiles(t, root))
}

func TestUploader_WriteFailure(t *testing.T) {
	root := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(root, []byte("x"), 0o644))

	uploader := storage.NewUploader(root, maxUpload, storage.AllowedImageTypes, logger.Discard())
	_, err := uploader.Accept(newFileHeader(t, "a.png", "image/png", 8), storage.ListingImagesDir)
	assert.ErrorIs(t, err, storage.ErrWriteFailed)
	assert.NotErrorIs(t, err, storage.ErrFileTooLarge)
}

func TestUploader_Remove(t *testing.T) {
	uploader, root := newUploader(t)

	publicPath, err := uploader.Accept(newFileHeader(t, "a.png", "image/png", 8), storage.ListingImagesDir)
	require.NoError(t, err)
	require.Equal(t, 1, countFiles(t, root))

	require.NoError(t, uploader.Remove(publicPath))
	assert.Zero(t, countFiles(t, root))

	// Already gone
	assert.NoError(t, uploader.Remove(publicPath))

	for _, bad := range []string{"", "/etc/passwd", "/uploads/", "/uploads/../secret"} {
		assert.ErrorIs(t, uploader.Remove(bad), storage.ErrInvalidPath, bad)
	}
}
