package storage_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/dinehub/pkg/storage"
)

func TestLocalPutExistsDelete(t *testing.T) {
	root := t.TempDir()
	disk, err := storage.NewLocal(root, "http://localhost:5000/storage/")
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, disk.Put(ctx, "menu/soup.jpg", strings.NewReader("jpeg"), "image/jpeg"))
	assert.True(t, disk.Exists(ctx, "menu/soup.jpg"))
	assert.Equal(t, "http://localhost:5000/storage/menu/soup.jpg", disk.URL("menu/soup.jpg"))

	data, err := os.ReadFile(filepath.Join(root, "menu", "soup.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(data))

	require.NoError(t, disk.Delete(ctx, "menu/soup.jpg"))
	assert.False(t, disk.Exists(ctx, "menu/soup.jpg"))
	assert.NoError(t, disk.Delete(ctx, "menu/soup.jpg"))
}

func TestLocalKeysCannotEscapeRoot(t *testing.T) {
	root := t.TempDir()
	disk, err := storage.NewLocal(filepath.Join(root, "public"), "/storage")
	require.NoError(t, err)

	require.NoError(t, disk.Put(context.Background(), "../../escape.txt", strings.NewReader("x"), ""))
	_, statErr := os.Stat(filepath.Join(root, "escape.txt"))
	assert.True(t, os.IsNotExist(statErr))
	assert.FileExists(t, filepath.Join(root, "public", "escape.txt"))

	assert.ErrorIs(t, disk.Put(context.Background(), "", strings.NewReader("x"), ""), storage.ErrInvalidPath)
}

func TestLocalHandlerServesFiles(t *testing.T) {
	disk, err := storage.NewLocal(t.TempDir(), "/storage")
	require.NoError(t, err)
	require.NoError(t, disk.Put(context.Background(), "menu/a.txt", strings.NewReader("hello"), ""))

	h := http.StripPrefix("/storage", disk.Handler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/storage/menu/a.txt", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello", rec.Body.String())
}

func TestOpenUnknownDisk(t *testing.T) {
	_, err := storage.Open(context.Background(), "ftp")
	assert.Error(t, err)
}

func TestNewS3RequiresBucket(t *testing.T) {
	_, err := storage.NewS3(context.Background(), storage.S3Options{})
	assert.ErrorContains(t, err, "S3_BUCKET")
}
