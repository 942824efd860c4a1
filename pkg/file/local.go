package file

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalConfig configures disk storage used when no bucket is configured.
type LocalConfig struct {
	Dir string `env:"FILES_DIR" envDefault:"data/files"`
}

// LocalStorage keeps uploads in a directory on disk. Safe for concurrent use.
type LocalStorage struct {
	baseDir string
	baseURL string
	newKey  func(ext string) string
}

// LocalOption configures LocalStorage.
type LocalOption func(*LocalStorage)

// WithLocalKeyFunc overrides key generation.
func WithLocalKeyFunc(fn func(ext string) string) LocalOption {
	return func(s *LocalStorage) {
		if fn != nil {
			s.newKey = fn
		}
	}
}

// NewLocalStorage creates baseDir if needed. baseURL is the public prefix
// the directory is served under, e.g. "http://localhost:8080/files".
func NewLocalStorage(baseDir, baseURL string, opts ...LocalOption) (*LocalStorage, error) {
	if baseDir == "" {
		return nil, ErrInvalidConfig
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	s := &LocalStorage{
		baseDir: abs,
		baseURL: strings.TrimSuffix(baseURL, "/") + "/",
		newKey:  uuidKey,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Dir is the absolute storage directory.
func (s *LocalStorage) Dir() string { return s.baseDir }

// Upload writes the file under a fresh key and returns the key.
func (s *LocalStorage) Upload(ctx context.Context, u Upload) (string, error) {
	if u.Body == nil {
		return "", ErrEmptyUpload
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: upload", ErrOperationCanceled)
	}

	key := s.newKey(Extension(u.Name))
	path, err := s.resolve(key)
	if err != nil {
		return "", err
	}

	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}
	if _, err := io.Copy(dst, u.Body); err != nil {
		_ = dst.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("%w: %v", ErrFailedToReadFile, err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("upload failed: %w", err)
	}
	return key, nil
}

// Delete removes key. Missing files are not an error.
func (s *LocalStorage) Delete(_ context.Context, key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete failed: %w", err)
	}
	return nil
}

// URL joins key onto the public base URL.
func (s *LocalStorage) URL(key string) string {
	return s.baseURL + strings.TrimPrefix(filepath.ToSlash(filepath.Clean(key)), "/")
}

// resolve keeps every path inside baseDir.
func (s *LocalStorage) resolve(key string) (string, error) {
	path := filepath.Join(s.baseDir, filepath.Clean("/"+key))
	if !strings.HasPrefix(path, s.baseDir+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return path, nil
}
