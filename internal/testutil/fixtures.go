package testutil

import (
	"fmt"
	"testing"
	"time"

	"shayarihub/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// UserOpt customises a fixture user.
type UserOpt func(*models.User)

// WithRole sets the fixture user's role.
func WithRole(role models.Role) UserOpt {
	return func(u *models.User) { u.Role = role }
}

// Banned marks the fixture user inactive.
func Banned() UserOpt {
	return func(u *models.User) { u.IsActive = false }
}

// WithPassword stores the given hash as the user's password.
func WithPassword(hash string) UserOpt {
	return func(u *models.User) { u.Password = hash }
}

// CreateUser inserts an active user with a fake email and bio.
func CreateUser(t testing.TB, db *gorm.DB, username string, opts ...UserOpt) *models.User {
	t.Helper()
	u := &models.User{
		Username:      username,
		UsernameLower: models.CanonicalUsername(username),
		Email:         fmt.Sprintf("%s.%d@%s", models.CanonicalUsername(username), gofakeit.Number(1000, 999999), gofakeit.DomainName()),
		Password:      "not-a-real-hash",
		Role:          models.RoleUser,
		Bio:           gofakeit.Sentence(6),
		IsActive:      true,
	}
	for _, opt := range opts {
		opt(u)
	}
	// GORM omits a false IsActive on insert because the column has a
	// default, and then copies the default back into u.
	active := u.IsActive
	require.NoError(t, db.Create(u).Error)
	if !active {
		require.NoError(t, db.Model(u).Update("is_active", false).Error)
		u.IsActive = false
	}
	return u
}

// ShayariOpt customises a fixture shayari.
type ShayariOpt func(*models.Shayari)

// Private makes the fixture shayari private.
func Private() ShayariOpt {
	return func(s *models.Shayari) { s.Visibility = models.VisibilityPrivate }
}

// CreatedAt pins the fixture's creation time.
func CreatedAt(ts time.Time) ShayariOpt {
	return func(s *models.Shayari) { s.CreatedAt = ts; s.UpdatedAt = ts }
}

// CreateShayari inserts a public shayari by authorID.
func CreateShayari(t testing.TB, db *gorm.DB, authorID uint, title, content string, opts ...ShayariOpt) *models.Shayari {
	t.Helper()
	s := &models.Shayari{
		Title:      title,
		Content:    content,
		Visibility: models.VisibilityPublic,
		AuthorID:   authorID,
	}
	for _, opt := range opts {
		opt(s)
	}
	require.NoError(t, db.Create(s).Error)
	return s
}

// CreateLikes inserts one like per user on shayariID.
func CreateLikes(t testing.TB, db *gorm.DB, shayariID uint, userIDs ...uint) {
	t.Helper()
	for _, uid := range userIDs {
		require.NoError(t, db.Create(&models.Like{UserID: uid, ShayariID: shayariID}).Error)
	}
}

// CountRows returns the number of rows of model matching where.
func CountRows(t testing.TB, db *gorm.DB, model interface{}, where string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := db.Model(model)
	if where != "" {
		q = q.Where(where, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}
