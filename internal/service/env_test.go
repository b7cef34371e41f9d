package service

import (
	"testing"

	"shayarihub/internal/audit"
	"shayarihub/internal/cache"
	"shayarihub/internal/notifications"
	"shayarihub/internal/repository"
	"shayarihub/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// testEnv wires every service over an in-memory database and miniredis.
type testEnv struct {
	db    *gorm.DB
	mr    *miniredis.Miniredis
	store *cache.Store

	users    repository.UserRepository
	shayaris repository.ShayariRepository
	likes    repository.LikeRepository
	reports  repository.ReportRepository

	audit      *audit.MemoryRecorder
	notifier   *notifications.Notifier
	auth       *AuthService
	search     *SearchService
	shayari    *ShayariService
	moderation *ModerationService
	stats      *StatsService
	user       *UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	e := &testEnv{
		db:       testutil.NewDB(t),
		mr:       mr,
		store:    cache.NewStore(rdb),
		audit:    audit.NewMemoryRecorder(100),
		notifier: notifications.NewNotifier(nil),
	}
	e.users = repository.NewUserRepository(e.db)
	e.shayaris = repository.NewShayariRepository(e.db)
	e.likes = repository.NewLikeRepository(e.db)
	e.reports = repository.NewReportRepository(e.db)

	e.auth = NewAuthService(e.users, e.store, "test-secret-that-is-long-enough-for-hs256", defaultTestTTL)
	e.auth.bcryptCost = minBcryptCost
	e.search = NewSearchService(e.shayaris, e.users, e.store)
	e.moderation = NewModerationService(ModerationServiceDeps{
		Users:    e.users,
		Shayaris: e.shayaris,
		Reports:  e.reports,
		Store:    e.store,
		Audit:    e.audit,
		Notifier: e.notifier,
	})
	e.shayari = NewShayariService(ShayariServiceDeps{
		Shayaris: e.shayaris,
		Likes:    e.likes,
		Reports:  e.reports,
		Users:    e.users,
		Store:    e.store,
		Notifier: e.notifier,
		Takedown: e.moderation.Takedown,
	})
	e.stats = NewStatsService(repository.NewStatsRepository(e.db), e.store)
	e.user = NewUserService(e.users, e.shayaris, e.store)
	return e
}

// captureEvents records every published notification.
func (e *testEnv) captureEvents(t *testing.T) *[]string {
	t.Helper()
	var got []string
	if err := e.notifier.StartPatternSubscriber(t.Context(), func(channel, payload string) {
		got = append(got, channel+" "+payload)
	}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	return &got
}
