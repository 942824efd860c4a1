package file_test

import (
	"bytes"
	"io"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/soda/pkg/file"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("avatar", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	return form.File["avatar"][0]
}

func TestExtension(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "png", file.Extension("me.PNG"))
	assert.Equal(t, "gz", file.Extension("archive.tar.gz"))
	assert.Empty(t, file.Extension("noext"))
}

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("sniffs content and rewinds", func(t *testing.T) {
		t.Parallel()
		fh := fileHeader(t, "../../me.png", pngHeader)

		u, closer, err := file.Open(fh)
		require.NoError(t, err)
		defer closer.Close()

		assert.Equal(t, "me.png", u.Name)
		assert.Equal(t, "image/png", u.ContentType)
		assert.Equal(t, int64(len(pngHeader)), u.Size)

		data, err := io.ReadAll(u.Body)
		require.NoError(t, err)
		assert.Equal(t, pngHeader, data)
	})

	t.Run("nil header", func(t *testing.T) {
		t.Parallel()
		_, _, err := file.Open(nil)
		assert.ErrorIs(t, err, file.ErrNilFileHeader)
	})
}

func TestValidateImage(t *testing.T) {
	t.Parallel()

	assert.NoError(t, file.ValidateImage(file.Upload{ContentType: "image/png", Size: 10}, file.MaxAvatarSize))
	assert.ErrorIs(t, file.ValidateImage(file.Upload{ContentType: "text/plain; charset=utf-8", Size: 10}, file.MaxAvatarSize), file.ErrNotImage)
	assert.ErrorIs(t, file.ValidateImage(file.Upload{ContentType: "image/png", Size: file.MaxAvatarSize + 1}, file.MaxAvatarSize), file.ErrFileTooLarge)
}
