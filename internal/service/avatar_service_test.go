package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shayarihub/internal/models"
	"shayarihub/internal/storage"
	"shayarihub/internal/testutil"

	"github.com/chai2010/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tinyPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestAvatarService_Upload(t *testing.T) {
	e := newTestEnv(t)
	u := testutil.CreateUser(t, e.db, "poet")
	dir := t.TempDir()
	svc := NewAvatarService(e.users, storage.NewLocalStore(dir, "/media"), 1)

	updated, err := svc.Upload(context.Background(), u.ID, tinyPNG(t, 600, 300))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(updated.ProfilePhoto, "/media/avatars/"), updated.ProfilePhoto)
	assert.True(t, strings.HasSuffix(updated.ProfilePhoto, ".webp"))
	assert.Equal(t, u.Username, updated.Username)

	stored := filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(updated.ProfilePhoto, "/media/")))
	data, err := os.ReadFile(stored)
	require.NoError(t, err)
	cfg, err := webp.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, AvatarSize, cfg.Width)
	assert.Equal(t, AvatarSize, cfg.Height)
}

func TestAvatarService_UploadValidation(t *testing.T) {
	e := newTestEnv(t)
	u := testutil.CreateUser(t, e.db, "poet")
	svc := NewAvatarService(e.users, storage.NewLocalStore(t.TempDir(), "/media"), 1)
	ctx := context.Background()

	tests := map[string][]byte{
		"empty":     nil,
		"too large": bytes.Repeat([]byte{0}, 2<<20),
		"not image": []byte("just some text, definitely not a picture"),
		"truncated": tinyPNG(t, 10, 10)[:40],
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Upload(ctx, u.ID, content)
			assert.True(t, models.HasCode(err, models.CodeValidation), "got %v", err)
		})
	}

	_, err := svc.Upload(ctx, 9999, tinyPNG(t, 20, 20))
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}

func TestSquareThumbnail(t *testing.T) {
	src := image.NewRGBA(image.Rect(10, 10, 410, 110))
	out := squareThumbnail(src, 64)
	assert.Equal(t, image.Rect(0, 0, 64, 64), out.Bounds())
}
