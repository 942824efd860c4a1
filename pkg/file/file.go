package file

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

// MaxAvatarSize bounds profile picture uploads.
const MaxAvatarSize int64 = 5 << 20

// Upload is a single object handed to a Storage.
type Upload struct {
	// Name is the client-side file name; only its extension is kept.
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Storage persists uploaded binaries under generated keys.
type Storage interface {
	Upload(ctx context.Context, u Upload) (key string, err error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// Extension returns the lower-cased extension of name without the dot.
func Extension(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// IsImage reports whether contentType is an image MIME type.
func IsImage(contentType string) bool {
	return strings.HasPrefix(contentType, "image/")
}

// Open opens a multipart file and sniffs its content type from the first
// 512 bytes. The caller must close the returned closer.
func Open(fh *multipart.FileHeader) (Upload, io.Closer, error) {
	if fh == nil {
		return Upload{}, nil, ErrNilFileHeader
	}

	f, err := fh.Open()
	if err != nil {
		return Upload{}, nil, fmt.Errorf("%w: %v", ErrFailedToOpenFile, err)
	}

	buf := make([]byte, 512)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		_ = f.Close()
		return Upload{}, nil, fmt.Errorf("%w: %v", ErrFailedToReadFile, err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		_ = f.Close()
		return Upload{}, nil, fmt.Errorf("%w: %v", ErrFailedToReadFile, err)
	}

	return Upload{
		Name:        filepath.Base(strings.ReplaceAll(fh.Filename, "\\", "/")),
		ContentType: http.DetectContentType(buf[:n]),
		Size:        fh.Size,
		Body:        f,
	}, f, nil
}

// ValidateImage checks an opened upload against the avatar constraints.
func ValidateImage(u Upload, maxBytes int64) error {
	if u.Size > maxBytes {
		return fmt.Errorf("file size %d bytes exceeds %d bytes limit: %w", u.Size, maxBytes, ErrFileTooLarge)
	}
	if !IsImage(u.ContentType) {
		return fmt.Errorf("%w: %s", ErrNotImage, u.ContentType)
	}
	return nil
}
