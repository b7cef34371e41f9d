package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"log/slog"
	"net/http"

	"shayarihub/internal/models"
	"shayarihub/internal/repository"
	"shayarihub/internal/storage"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	AvatarSize         = 256
	AvatarWebPQuality  = 80
	DefaultMaxUploadMB = 5
)

// AvatarService turns an uploaded photo into a square WebP avatar.
type AvatarService struct {
	users    repository.UserRepository
	objects  storage.ObjectStore
	maxBytes int64
}

func NewAvatarService(users repository.UserRepository, objects storage.ObjectStore, maxUploadMB int) *AvatarService {
	if maxUploadMB <= 0 {
		maxUploadMB = DefaultMaxUploadMB
	}
	return &AvatarService{users: users, objects: objects, maxBytes: int64(maxUploadMB) << 20}
}

// Upload validates content, stores the processed avatar and saves its URL on
// the user's profile.
func (s *AvatarService) Upload(ctx context.Context, userID uint, content []byte) (*models.User, error) {
	if len(content) == 0 {
		return nil, models.NewValidationError("No file uploaded")
	}
	if int64(len(content)) > s.maxBytes {
		return nil, models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxBytes>>20))
	}
	if !isAllowedImageMIME(http.DetectContentType(content)) {
		return nil, models.NewValidationError("Invalid image type")
	}

	decoded, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, models.NewValidationError("Invalid image file")
	}
	encoded, err := encodeWebP(squareThumbnail(decoded, AvatarSize), AvatarWebPQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256(encoded)
	key := fmt.Sprintf("avatars/%d/%s.webp", userID, hex.EncodeToString(sum[:8]))
	url, err := s.objects.Put(ctx, key, encoded, "image/webp")
	if err != nil {
		return nil, models.NewInternalError(fmt.Errorf("store avatar: %w", err))
	}

	updated, err := s.users.UpdateProfile(ctx, userID, user.Username, user.Bio, url)
	if err != nil {
		if derr := s.objects.Delete(ctx, key); derr != nil {
			slog.WarnContext(ctx, "orphaned avatar object", slog.String("key", key), slog.String("error", derr.Error()))
		}
		return nil, err
	}
	slog.InfoContext(ctx, "avatar updated", slog.Uint64("user_id", uint64(userID)), slog.Int("bytes", len(encoded)))
	return updated, nil
}

// squareThumbnail center-crops src to a square and scales it to size×size.
func squareThumbnail(src image.Image, size int) image.Image {
	b := src.Bounds()
	side := b.Dx()
	if b.Dy() < side {
		side = b.Dy()
	}
	if side < 1 {
		side = 1
	}
	crop := image.Rect(0, 0, side, side).Add(image.Point{
		X: b.Min.X + (b.Dx()-side)/2,
		Y: b.Min.Y + (b.Dy()-side)/2,
	})

	cropped := image.NewRGBA(image.Rect(0, 0, side, side))
	draw.Draw(cropped, cropped.Bounds(), src, crop.Min, draw.Src)

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), cropped, cropped.Bounds(), xdraw.Src, nil)
	return dst
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedImageMIME(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}
