package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"shayarihub/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_PutDelete(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir, "/media/")
	ctx := context.Background()

	url, err := store.Put(ctx, "avatars/7/abc.webp", []byte("img"), "image/webp")
	require.NoError(t, err)
	assert.Equal(t, "/media/avatars/7/abc.webp", url)

	data, err := os.ReadFile(filepath.Join(dir, "avatars", "7", "abc.webp"))
	require.NoError(t, err)
	assert.Equal(t, "img", string(data))

	require.NoError(t, store.Delete(ctx, "avatars/7/abc.webp"))
	require.NoError(t, store.Delete(ctx, "avatars/7/abc.webp"))
	_, err = os.Stat(filepath.Join(dir, "avatars", "7", "abc.webp"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStore_RejectsEscapingKeys(t *testing.T) {
	store := NewLocalStore(t.TempDir(), "/media")
	for _, key := range []string{"../x", "/etc/passwd", "", "a/../../b"} {
		_, err := store.Put(context.Background(), key, []byte("x"), "")
		assert.Error(t, err, key)
	}
}

func TestNew_FallsBackToLocal(t *testing.T) {
	cfg := &config.Config{UploadDir: t.TempDir(), PublicMediaURL: "/media"}
	_, ok := New(context.Background(), cfg).(*LocalStore)
	assert.True(t, ok)
}
