package file_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/soda/pkg/file"
)

func TestLocalStorage(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s, err := file.NewLocalStorage(dir, "http://localhost:8080/files/",
		file.WithLocalKeyFunc(func(ext string) string { return "avatar." + ext }))
	require.NoError(t, err)

	key, err := s.Upload(context.Background(), file.Upload{
		Name:        "Me.PNG",
		ContentType: "image/png",
		Body:        strings.NewReader("png-bytes"),
	})
	require.NoError(t, err)
	assert.Equal(t, "avatar.png", key)
	assert.Equal(t, "http://localhost:8080/files/avatar.png", s.URL(key))

	data, err := os.ReadFile(filepath.Join(dir, key))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	t.Run("key collision", func(t *testing.T) {
		_, err := s.Upload(context.Background(), file.Upload{Name: "x.png", Body: strings.NewReader("y")})
		require.Error(t, err)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, s.Delete(context.Background(), key))
		require.NoError(t, s.Delete(context.Background(), key))
		_, err := os.Stat(filepath.Join(dir, key))
		assert.True(t, os.IsNotExist(err))
	})
}

func TestLocalStorage_Errors(t *testing.T) {
	t.Parallel()

	_, err := file.NewLocalStorage("", "/files")
	require.ErrorIs(t, err, file.ErrInvalidConfig)

	s, err := file.NewLocalStorage(t.TempDir(), "/files")
	require.NoError(t, err)

	_, err = s.Upload(context.Background(), file.Upload{Name: "a.png"})
	require.ErrorIs(t, err, file.ErrEmptyUpload)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Upload(ctx, file.Upload{Name: "a.png", Body: strings.NewReader("x")})
	require.ErrorIs(t, err, file.ErrOperationCanceled)

	// traversal collapses to the base directory and is rejected
	require.ErrorIs(t, s.Delete(context.Background(), "../"), file.ErrInvalidKey)
}
