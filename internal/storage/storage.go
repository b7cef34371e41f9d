// Package storage persists uploaded media and returns its public URL.
package storage

import (
	"context"
	"log/slog"
	"strings"

	"shayarihub/internal/config"
	"shayarihub/internal/middleware"
)

// ObjectStore stores media objects by key.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// New returns a MinIO store when MINIO_ENDPOINT is configured and reachable,
// otherwise a store on local disk under UPLOAD_DIR.
func New(ctx context.Context, cfg *config.Config) ObjectStore {
	if cfg.MinioEndpoint != "" {
		store, err := NewMinioStore(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL, cfg.PublicMediaURL)
		if err == nil {
			middleware.Logger.Info("object storage ready", slog.String("backend", "minio"), slog.String("bucket", cfg.MinioBucket))
			return store
		}
		middleware.Logger.Warn("minio unavailable, falling back to local disk", slog.String("error", err.Error()))
	}
	return NewLocalStore(cfg.UploadDir, cfg.PublicMediaURL)
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
