package repository

import (
	"context"
	"time"

	"shayarihub/internal/models"
	"shayarihub/internal/observability"

	"gorm.io/gorm"
)

// StatsRepository computes the admin dashboard aggregates.
type StatsRepository interface {
	SiteCounts(ctx context.Context, recentSince time.Time) (*models.SiteStats, error)
	TopShayaris(ctx context.Context, limit int) ([]models.TopShayari, error)
}

type statsRepository struct {
	db *gorm.DB
}

// NewStatsRepository returns a new StatsRepository implementation.
func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

type countQuery struct {
	dest  *int64
	model interface{}
	where string
	args  []interface{}
}

// SiteCounts fills every counter of SiteStats. Averages and the leaderboard
// are left to the caller.
func (r *statsRepository) SiteCounts(ctx context.Context, recentSince time.Time) (*models.SiteStats, error) {
	defer observability.TrackQuery("site_counts", "stats")()

	var s models.SiteStats
	queries := []countQuery{
		{&s.Users.Total, &models.User{}, "", nil},
		{&s.Users.Active, &models.User{}, "is_active = ?", []interface{}{true}},
		{&s.Users.Banned, &models.User{}, "is_active = ?", []interface{}{false}},
		{&s.Users.Admins, &models.User{}, "role IN ?", []interface{}{[]models.Role{models.RoleAdmin, models.RoleSuperAdmin}}},
		{&s.Users.Recent, &models.User{}, "created_at >= ?", []interface{}{recentSince.UTC()}},
		{&s.Shayaris.Total, &models.Shayari{}, "", nil},
		{&s.Shayaris.Public, &models.Shayari{}, "visibility = ?", []interface{}{models.VisibilityPublic}},
		{&s.Shayaris.Private, &models.Shayari{}, "visibility = ?", []interface{}{models.VisibilityPrivate}},
		{&s.Engagement.TotalLikes, &models.Like{}, "", nil},
	}

	for _, q := range queries {
		db := r.db.WithContext(ctx).Model(q.model)
		if q.where != "" {
			db = db.Where(q.where, q.args...)
		}
		if err := db.Count(q.dest).Error; err != nil {
			return nil, models.NewInternalError(err)
		}
	}
	return &s, nil
}

func (r *statsRepository) TopShayaris(ctx context.Context, limit int) ([]models.TopShayari, error) {
	defer observability.TrackQuery("top_shayaris", "stats")()

	top := []models.TopShayari{}
	err := r.db.WithContext(ctx).Table("shayaris").
		Select("shayaris.id, shayaris.title, shayaris.created_at, users.username AS author_username, " + likesCountColumn).
		Joins("LEFT JOIN users ON users.id = shayaris.author_id").
		Order("likes_count DESC").
		Order("shayaris.created_at DESC").
		Limit(limit).
		Scan(&top).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return top, nil
}
