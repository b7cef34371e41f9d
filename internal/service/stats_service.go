package service

import (
	"context"
	"math"
	"time"

	"shayarihub/internal/cache"
	"shayarihub/internal/models"
	"shayarihub/internal/repository"
)

const (
	topShayariCount = 5
	recentUserDays  = 7
)

// StatsService builds the admin dashboard.
type StatsService struct {
	repo  repository.StatsRepository
	store *cache.Store
	now   func() time.Time
}

func NewStatsService(repo repository.StatsRepository, store *cache.Store) *StatsService {
	return &StatsService{repo: repo, store: store, now: time.Now}
}

// SiteStats is served from cache for AdminStatsTTL; moderation actions
// invalidate it.
func (s *StatsService) SiteStats(ctx context.Context) (*models.SiteStats, error) {
	var stats models.SiteStats
	_, err := s.store.Aside(ctx, cache.AdminStatsKey, &stats, cache.AdminStatsTTL, func() error {
		fresh, err := s.compute(ctx)
		if err != nil {
			return err
		}
		stats = *fresh
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *StatsService) compute(ctx context.Context) (*models.SiteStats, error) {
	stats, err := s.repo.SiteCounts(ctx, s.now().AddDate(0, 0, -recentUserDays))
	if err != nil {
		return nil, err
	}
	stats.Engagement.AvgLikesPerShayari = averageLikes(stats.Engagement.TotalLikes, stats.Shayaris.Total)

	top, err := s.repo.TopShayaris(ctx, topShayariCount)
	if err != nil {
		return nil, err
	}
	stats.TopShayaris = top
	return stats, nil
}

// averageLikes is rounded to two decimals; zero shayaris gives 0.
func averageLikes(likes, shayaris int64) float64 {
	if shayaris == 0 {
		return 0
	}
	return math.Round(float64(likes)/float64(shayaris)*100) / 100
}
