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

func day(d int, hour int) time.Time {
	return time.Date(2024, time.January, d, hour, 0, 0, 0, time.UTC)
}

func TestShayariRepository_FindRelevanceOrdering(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewShayariRepository(db)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "ghalib")
	fans := []uint{
		testutil.CreateUser(t, db, "fan1").ID,
		testutil.CreateUser(t, db, "fan2").ID,
	}

	both := testutil.CreateShayari(t, db, author.ID, "Ishq ki baat", "ishq hai", testutil.CreatedAt(day(1, 9)))
	titleOnly := testutil.CreateShayari(t, db, author.ID, "Ishq", "dard", testutil.CreatedAt(day(2, 9)))
	contentOnlyPopular := testutil.CreateShayari(t, db, author.ID, "Raat", "ishq aur raat", testutil.CreatedAt(day(3, 9)))
	contentOnly := testutil.CreateShayari(t, db, author.ID, "Subah", "ISHQ", testutil.CreatedAt(day(4, 9)))
	testutil.CreateShayari(t, db, author.ID, "Chaand", "sitare", testutil.CreatedAt(day(5, 9)))
	testutil.CreateShayari(t, db, author.ID, "Ishq private", "ishq", testutil.Private())
	testutil.CreateLikes(t, db, contentOnlyPopular.ID, fans...)

	rows, total, err := repo.Find(ctx, models.ShayariFilter{
		Query:      "ishq",
		Visibility: models.VisibilityPublic,
	}, models.SortRelevance, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	require.Len(t, rows, 4)

	assert.Equal(t, both.ID, rows[0].ID)
	assert.Equal(t, 4, rows[0].RelevanceScore)
	assert.Equal(t, titleOnly.ID, rows[1].ID)
	assert.Equal(t, 3, rows[1].RelevanceScore)
	assert.Equal(t, contentOnlyPopular.ID, rows[2].ID)
	assert.Equal(t, 1, rows[2].RelevanceScore)
	assert.Equal(t, 2, rows[2].LikesCount)
	assert.Equal(t, contentOnly.ID, rows[3].ID)

	for _, s := range rows {
		assert.Equal(t, models.VisibilityPublic, s.Visibility)
		require.NotNil(t, s.Author)
		assert.Equal(t, "ghalib", s.Author.Username)
	}
}

func TestShayariRepository_FindSortModes(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewShayariRepository(db)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "meer")
	fan := testutil.CreateUser(t, db, "fan")
	oldest := testutil.CreateShayari(t, db, author.ID, "one", "a", testutil.CreatedAt(day(1, 0)))
	middle := testutil.CreateShayari(t, db, author.ID, "two", "b", testutil.CreatedAt(day(2, 0)))
	newest := testutil.CreateShayari(t, db, author.ID, "three", "c", testutil.CreatedAt(day(3, 0)))
	testutil.CreateLikes(t, db, middle.ID, fan.ID)

	public := models.ShayariFilter{Visibility: models.VisibilityPublic}
	tests := []struct {
		sort models.SortMode
		want []uint
	}{
		{models.SortRecent, []uint{newest.ID, middle.ID, oldest.ID}},
		{models.SortOldest, []uint{oldest.ID, middle.ID, newest.ID}},
		{models.SortPopular, []uint{middle.ID, newest.ID, oldest.ID}},
		{models.SortRelevance, []uint{middle.ID, newest.ID, oldest.ID}},
		{models.SortMode("bogus"), []uint{newest.ID, middle.ID, oldest.ID}},
	}
	for _, tt := range tests {
		t.Run(string(tt.sort), func(t *testing.T) {
			rows, _, err := repo.Find(ctx, public, tt.sort, 1, 10)
			require.NoError(t, err)
			var got []uint
			for _, s := range rows {
				got = append(got, s.ID)
				assert.Zero(t, s.RelevanceScore)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestShayariRepository_FindFiltersAndPaging(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewShayariRepository(db)
	ctx := context.Background()

	a := testutil.CreateUser(t, db, "faiz")
	b := testutil.CreateUser(t, db, "firaq")
	for d := 1; d <= 5; d++ {
		testutil.CreateShayari(t, db, a.ID, "faiz poem", "100% pure", testutil.CreatedAt(day(d, 10)))
	}
	testutil.CreateShayari(t, db, b.ID, "firaq poem", "a_b", testutil.CreatedAt(day(3, 10)))

	from := day(2, 0)
	to := time.Date(2024, time.January, 4, 23, 59, 59, int(999*time.Millisecond), time.UTC)
	rows, total, err := repo.Find(ctx, models.ShayariFilter{
		AuthorID:   &a.ID,
		Visibility: models.VisibilityPublic,
		CreatedGTE: &from,
		CreatedLTE: &to,
	}, models.SortOldest, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, rows, 2)
	assert.Equal(t, day(2, 10), rows[0].CreatedAt.UTC())

	rows, _, err = repo.Find(ctx, models.ShayariFilter{AuthorID: &a.ID, CreatedGTE: &from, CreatedLTE: &to}, models.SortOldest, 2, 2)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, day(4, 10), rows[0].CreatedAt.UTC())

	// LIKE wildcards in the query are literal
	_, total, err = repo.Find(ctx, models.ShayariFilter{Query: "%"}, models.SortRecent, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)

	_, total, err = repo.Find(ctx, models.ShayariFilter{Query: "_"}, models.SortRecent, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	// a page far past the end is empty rather than an overflowed offset
	rows, total, err = repo.Find(ctx, models.ShayariFilter{AuthorID: &a.ID}, models.SortRecent, 1<<30, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Empty(t, rows)
}

func TestShayariRepository_FindCaseInsensitiveASCII(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewShayariRepository(db)
	ctx := context.Background()

	a := testutil.CreateUser(t, db, "jaun")
	testutil.CreateShayari(t, db, a.ID, "Chaand Raat", "sitaron ki baat")

	for _, q := range []string{"chaand", "CHAAND", "ChAaNd rAaT", "SITARON"} {
		_, total, err := repo.Find(ctx, models.ShayariFilter{Query: q}, models.SortRelevance, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total, q)
	}
}

func TestShayariRepository_UpdateOwned(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewShayariRepository(db)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "owner")
	other := testutil.CreateUser(t, db, "other")
	s := testutil.CreateShayari(t, db, owner.ID, "old", "old body")

	_, err := repo.UpdateOwned(ctx, s.ID, other.ID, "new", "new body", models.VisibilityPrivate)
	require.Error(t, err)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
	assert.Contains(t, err.Error(), "not found or unauthorized")

	updated, err := repo.UpdateOwned(ctx, s.ID, owner.ID, "new", "new body", models.VisibilityPrivate)
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Title)
	assert.Equal(t, models.VisibilityPrivate, updated.Visibility)
}

func TestShayariRepository_DeleteCascade(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewShayariRepository(db)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "author")
	u1 := testutil.CreateUser(t, db, "u1")
	u2 := testutil.CreateUser(t, db, "u2")
	u3 := testutil.CreateUser(t, db, "u3")
	target := testutil.CreateShayari(t, db, author.ID, "gone", "soon")
	kept := testutil.CreateShayari(t, db, author.ID, "kept", "here")
	testutil.CreateLikes(t, db, target.ID, u1.ID, u2.ID, u3.ID)
	testutil.CreateLikes(t, db, kept.ID, u1.ID)
	require.NoError(t, db.Create(&models.Report{ShayariID: target.ID, ReporterID: u1.ID, Reason: "spam"}).Error)

	require.NoError(t, repo.DeleteCascade(ctx, target.ID))

	assert.Zero(t, testutil.CountRows(t, db, &models.Like{}, "shayari_id = ?", target.ID))
	assert.Zero(t, testutil.CountRows(t, db, &models.Report{}, "shayari_id = ?", target.ID))
	assert.Zero(t, testutil.CountRows(t, db, &models.Shayari{}, "id = ?", target.ID))
	assert.Equal(t, int64(1), testutil.CountRows(t, db, &models.Like{}, "shayari_id = ?", kept.ID))

	err := repo.DeleteCascade(ctx, target.ID)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}

func TestShayariRepository_Titles(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewShayariRepository(db)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "author")
	testutil.CreateShayari(t, db, author.ID, "Mohabbat", "pyaar")
	testutil.CreateShayari(t, db, author.ID, "Dosti", "mohabbat bhi")
	testutil.CreateShayari(t, db, author.ID, "Mohabbat secret", "x", testutil.Private())

	titles, err := repo.MatchingTitles(ctx, "mohab", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"Mohabbat", "Dosti"}, titles)

	rows, err := repo.TitlesContaining(ctx, "MOHAB", 5)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Mohabbat", rows[0].Title)
}

func TestShayariRepository_AuthorStats(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewShayariRepository(db)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "author")
	fan1 := testutil.CreateUser(t, db, "fan1")
	fan2 := testutil.CreateUser(t, db, "fan2")
	a := testutil.CreateShayari(t, db, author.ID, "a", "a")
	b := testutil.CreateShayari(t, db, author.ID, "b", "b", testutil.Private())
	testutil.CreateLikes(t, db, a.ID, fan1.ID)
	testutil.CreateLikes(t, db, b.ID, fan1.ID, fan2.ID)

	stats, err := repo.AuthorStats(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalShayaris)
	assert.Equal(t, int64(3), stats.TotalLikes)
	require.NotNil(t, stats.MostLikedShayari)
	assert.Equal(t, b.ID, stats.MostLikedShayari.ID)

	empty, err := repo.AuthorStats(ctx, fan1.ID)
	require.NoError(t, err)
	assert.Zero(t, empty.TotalShayaris)
	assert.Nil(t, empty.MostLikedShayari)
}
