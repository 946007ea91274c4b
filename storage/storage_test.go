package storage

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadHeader(t *testing.T, name, content string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	return req.MultipartForm.File["file"][0]
}

func TestSaveUpload(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	header := uploadHeader(t, "clip.mp4", "fake video bytes")

	path, n, err := store.SaveUpload(header, "job-1.mp4")
	require.NoError(t, err)
	assert.Equal(t, int64(len("fake video bytes")), n)
	assert.Equal(t, store.UploadPath("job-1.mp4"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fake video bytes", string(data))
}

func TestResolve(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, ok := store.Resolve("missing.mp4")
	assert.False(t, ok)

	path := store.UploadPath("present.mp4")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	resolved, ok := store.Resolve("present.mp4")
	assert.True(t, ok)
	assert.Equal(t, path, resolved)
}

func TestDelete(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	path := store.UploadPath("gone.mp4")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	require.NoError(t, store.Delete(path))
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	// Deleting an already-missing file is not an error.
	assert.NoError(t, store.Delete(path))
}

func TestNewStoreCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	_, err := NewStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
