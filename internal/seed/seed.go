package seed

import (
	"fmt"
	"log/slog"

	"shayarihub/internal/middleware"
	"shayarihub/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is given to every seeded account.
const DefaultPassword = "password123"

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumShayaris int
	// MaxLikesPerShayari caps the random likes given to each public shayari.
	MaxLikesPerShayari int
}

// Seeder fills a database with demo users, shayaris and likes.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder hashes DefaultPassword once and binds a Factory to db.
func NewSeeder(db *gorm.DB, maxDays int) (*Seeder, error) {
	// MinCost keeps large presets fast; these accounts are not real.
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}
	return &Seeder{db: db, factory: NewFactory(db, string(hash), maxDays)}, nil
}

// Factory exposes the underlying factory for callers building custom data.
func (s *Seeder) Factory() *Factory { return s.factory }

// ClearAll deletes every row in dependency order.
func (s *Seeder) ClearAll() error {
	for _, m := range []interface{}{&models.Report{}, &models.Like{}, &models.Shayari{}, &models.User{}} {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
			return fmt.Errorf("clear %T: %w", m, err)
		}
	}
	middleware.Logger.Info("seed: database cleared")
	return nil
}

// SeedRandom creates opts.NumUsers users, spreads opts.NumShayaris across
// them and sprinkles likes over the public ones.
func (s *Seeder) SeedRandom(opts Options) ([]*models.User, []*models.Shayari, error) {
	if opts.NumUsers <= 0 {
		return nil, nil, fmt.Errorf("at least one user is required")
	}
	maxLikes := opts.MaxLikesPerShayari
	if maxLikes <= 0 || maxLikes > opts.NumUsers {
		maxLikes = opts.NumUsers
	}

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		u, err := s.factory.CreateUser()
		if err != nil {
			return nil, nil, err
		}
		users = append(users, u)
	}

	shayaris := make([]*models.Shayari, 0, opts.NumShayaris)
	for i := 0; i < opts.NumShayaris; i++ {
		author := users[s.factory.rng.Intn(len(users))]
		shayaris = append(shayaris, s.factory.BuildShayari(author))
	}
	if err := s.factory.CreateShayarisBatch(shayaris); err != nil {
		return nil, nil, fmt.Errorf("create shayaris: %w", err)
	}

	likes := 0
	for _, sh := range shayaris {
		if !sh.IsPublic() {
			continue
		}
		n := s.factory.rng.Intn(maxLikes + 1)
		for _, idx := range s.factory.rng.Perm(len(users))[:n] {
			if err := s.factory.CreateLike(users[idx], sh); err != nil {
				return nil, nil, fmt.Errorf("create like: %w", err)
			}
			likes++
		}
	}

	middleware.Logger.Info("seed: random data created",
		slog.Int("users", len(users)),
		slog.Int("shayaris", len(shayaris)),
		slog.Int("likes", likes))
	return users, shayaris, nil
}
