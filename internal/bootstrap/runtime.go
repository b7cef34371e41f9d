// Package bootstrap opens the runtime backends shared by the server and the
// command line tools.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"shayarihub/internal/audit"
	"shayarihub/internal/cache"
	"shayarihub/internal/config"
	"shayarihub/internal/database"
	"shayarihub/internal/middleware"
	"shayarihub/internal/models"
	"shayarihub/internal/repository"
	"shayarihub/internal/storage"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// EnsureSuperAdmin creates or promotes the SUPER_ADMIN_* account.
	EnsureSuperAdmin bool
	// SkipOptional leaves Redis, Mongo and object storage unopened. The
	// maintenance commands only need the database.
	SkipOptional bool
}

// Runtime is the set of opened backends. Redis and Mongo may be nil.
type Runtime struct {
	DB      *gorm.DB
	Redis   *redis.Client
	Mongo   *mongo.Client
	Audit   audit.Recorder
	Objects storage.ObjectStore
}

// InitRuntime connects to the database and the optional backends.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*Runtime, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	rt := &Runtime{DB: db}

	if opts.EnsureSuperAdmin {
		if err := EnsureSuperAdmin(ctx, cfg, repository.NewUserRepository(db)); err != nil {
			_ = database.Close(db)
			return nil, fmt.Errorf("failed to bootstrap super admin: %w", err)
		}
	}

	if opts.SkipOptional {
		return rt, nil
	}

	// A nil client switches caching, revocation and fan-out to their local
	// fallbacks.
	rt.Redis = cache.Connect(cfg.RedisURL)

	if cfg.MongoURI != "" {
		client, err := audit.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			middleware.Logger.Warn("mongo unavailable, audit log kept in memory", slog.String("error", err.Error()))
		} else {
			rt.Mongo = client
			rt.Audit = audit.NewMongoRecorder(client.Database(cfg.MongoDB))
		}
	}
	rt.Objects = storage.New(ctx, cfg)

	return rt, nil
}

// Close releases every opened backend.
func (rt *Runtime) Close(ctx context.Context) {
	if rt == nil {
		return
	}
	if rt.Redis != nil {
		_ = rt.Redis.Close()
	}
	if rt.Mongo != nil {
		_ = rt.Mongo.Disconnect(ctx)
	}
	_ = database.Close(rt.DB)
}

// EnsureSuperAdmin makes sure the configured SUPER_ADMIN_USERNAME exists
// with the super_admin role. An unset username is a no-op. An existing
// account is promoted and keeps its password.
func EnsureSuperAdmin(ctx context.Context, cfg *config.Config, users repository.UserRepository) error {
	if cfg == nil || users == nil {
		return nil
	}
	username := strings.TrimSpace(cfg.SuperAdminUsername)
	if username == "" {
		return nil
	}

	existing, err := users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if existing != nil {
		if existing.Role == models.RoleSuperAdmin {
			return nil
		}
		if err := users.SetRole(ctx, existing.ID, models.RoleSuperAdmin); err != nil {
			return err
		}
		middleware.Logger.Info("promoted existing account to super admin", slog.String("username", existing.Username))
		return nil
	}

	email := strings.ToLower(strings.TrimSpace(cfg.SuperAdminEmail))
	if email == "" {
		email = strings.ToLower(username) + "@shayarihub.local"
	}
	if cfg.SuperAdminPassword == "" {
		return errors.New("SUPER_ADMIN_PASSWORD must be set when SUPER_ADMIN_USERNAME is set")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.SuperAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash super admin password: %w", err)
	}

	root := &models.User{
		Username: username,
		Email:    email,
		Password: string(hash),
		Role:     models.RoleSuperAdmin,
		IsActive: true,
	}
	if err := users.Create(ctx, root); err != nil {
		return err
	}
	middleware.Logger.Info("super admin account created", slog.String("username", username), slog.Uint64("user_id", uint64(root.ID)))
	return nil
}
