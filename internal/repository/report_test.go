package repository

import (
	"context"
	"testing"
	"time"

	"shayarihub/internal/models"
	"shayarihub/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportRepository_CreateAndList(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewReportRepository(db)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "author")
	reporter := testutil.CreateUser(t, db, "reporter")
	s := testutil.CreateShayari(t, db, author.ID, "t", "c")

	report := &models.Report{ShayariID: s.ID, ReporterID: reporter.ID, Reason: "spam"}
	require.NoError(t, repo.Create(ctx, report))
	assert.Equal(t, models.ReportStatusPending, report.Status)

	err := repo.Create(ctx, &models.Report{ShayariID: s.ID, ReporterID: reporter.ID, Reason: "other"})
	require.Error(t, err)
	assert.True(t, models.HasCode(err, models.CodeConflict))

	require.NoError(t, repo.Create(ctx, &models.Report{ShayariID: s.ID, ReporterID: author.ID, Reason: "other"}))

	reports, total, err := repo.List(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, reports, 2)
	assert.Equal(t, author.ID, reports[0].ReporterID)
	require.NotNil(t, reports[0].Shayari)
	assert.Equal(t, "t", reports[0].Shayari.Title)
	require.NotNil(t, reports[1].Reporter)
	assert.Equal(t, "reporter", reports[1].Reporter.Username)
}

func TestStatsRepository(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewStatsRepository(db)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "author", testutil.WithRole(models.RoleAdmin))
	fan := testutil.CreateUser(t, db, "fan")
	testutil.CreateUser(t, db, "banned", testutil.Banned())
	hit := testutil.CreateShayari(t, db, author.ID, "hit", "x")
	testutil.CreateShayari(t, db, author.ID, "quiet", "y", testutil.Private())
	testutil.CreateLikes(t, db, hit.ID, fan.ID, author.ID)

	counts, err := repo.SiteCounts(ctx, time.Now().Add(-7*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, models.UserCounts{Total: 3, Active: 2, Banned: 1, Admins: 1, Recent: 3}, counts.Users)
	assert.Equal(t, models.ShayariCounts{Total: 2, Public: 1, Private: 1}, counts.Shayaris)
	assert.Equal(t, int64(2), counts.Engagement.TotalLikes)

	top, err := repo.TopShayaris(ctx, 5)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "hit", top[0].Title)
	assert.Equal(t, int64(2), top[0].LikesCount)
	assert.Equal(t, "author", top[0].AuthorUsername)
}
