package repository

import (
	"context"
	"errors"

	"shayarihub/internal/models"
	"shayarihub/internal/observability"

	"gorm.io/gorm"
)

// relevanceColumn scores a row 3 for a title hit plus 1 for a content hit.
const relevanceColumn = `(CASE WHEN LOWER(shayaris.title) LIKE ? ESCAPE '\' THEN 3 ELSE 0 END` +
	` + CASE WHEN LOWER(shayaris.content) LIKE ? ESCAPE '\' THEN 1 ELSE 0 END) AS relevance_score`

// ShayariRepository defines persistence operations for shayaris.
type ShayariRepository interface {
	Create(ctx context.Context, s *models.Shayari) error
	GetByID(ctx context.Context, id uint) (*models.Shayari, error)
	UpdateOwned(ctx context.Context, id, authorID uint, title, content string, visibility models.Visibility) (*models.Shayari, error)
	DeleteCascade(ctx context.Context, id uint) error
	Find(ctx context.Context, f models.ShayariFilter, sort models.SortMode, page, limit int) ([]models.Shayari, int64, error)
	MatchingTitles(ctx context.Context, fragment string, limit int) ([]string, error)
	TitlesContaining(ctx context.Context, fragment string, limit int) ([]models.Shayari, error)
	AuthorStats(ctx context.Context, authorID uint) (*models.UserStats, error)
}

type shayariRepository struct {
	db *gorm.DB
}

// NewShayariRepository returns a new ShayariRepository implementation.
func NewShayariRepository(db *gorm.DB) ShayariRepository {
	return &shayariRepository{db: db}
}

func (r *shayariRepository) Create(ctx context.Context, s *models.Shayari) error {
	defer observability.TrackQuery("create", "shayaris")()

	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// GetByID loads a shayari with its author and like count regardless of
// visibility. Callers enforce read access.
func (r *shayariRepository) GetByID(ctx context.Context, id uint) (*models.Shayari, error) {
	defer observability.TrackQuery("get", "shayaris")()

	var s models.Shayari
	err := r.db.WithContext(ctx).Model(&models.Shayari{}).
		Select("shayaris.*, "+likesCountColumn).
		Preload("Author").
		Where("shayaris.id = ?", id).
		First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundMessage("Shayari not found")
		}
		return nil, models.NewInternalError(err)
	}
	return &s, nil
}

// UpdateOwned rewrites a shayari only when authorID owns it.
func (r *shayariRepository) UpdateOwned(ctx context.Context, id, authorID uint, title, content string, visibility models.Visibility) (*models.Shayari, error) {
	defer observability.TrackQuery("update", "shayaris")()

	res := r.db.WithContext(ctx).Model(&models.Shayari{}).
		Where("id = ? AND author_id = ?", id, authorID).
		Updates(map[string]interface{}{
			"title":      title,
			"content":    content,
			"visibility": visibility,
		})
	if res.Error != nil {
		return nil, models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, models.NewNotFoundMessage("Shayari not found or unauthorized")
	}
	return r.GetByID(ctx, id)
}

// DeleteCascade removes the shayari, its likes and its reports together.
func (r *shayariRepository) DeleteCascade(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete_cascade", "shayaris")()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("shayari_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("shayari_id = ?", id).Delete(&models.Report{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Shayari{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundMessage("Shayari not found")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func filterScope(f models.ShayariFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Visibility != "" {
			db = db.Where("shayaris.visibility = ?", f.Visibility)
		}
		if f.AuthorID != nil {
			db = db.Where("shayaris.author_id = ?", *f.AuthorID)
		}
		if f.Query != "" {
			p := containsPattern(f.Query)
			db = db.Where(`(LOWER(shayaris.title) LIKE ? ESCAPE '\' OR LOWER(shayaris.content) LIKE ? ESCAPE '\')`, p, p)
		}
		if f.CreatedGTE != nil {
			db = db.Where("shayaris.created_at >= ?", f.CreatedGTE.UTC())
		}
		if f.CreatedLTE != nil {
			db = db.Where("shayaris.created_at <= ?", f.CreatedLTE.UTC())
		}
		return db
	}
}

// orderBy returns the ORDER BY keys, most significant first. scored is true
// when relevance_score is projected.
func orderBy(sort models.SortMode, scored bool) []string {
	switch sort {
	case models.SortRelevance:
		if scored {
			return []string{"relevance_score DESC", "likes_count DESC", "shayaris.created_at DESC"}
		}
		return []string{"likes_count DESC", "shayaris.created_at DESC"}
	case models.SortPopular:
		return []string{"likes_count DESC", "shayaris.created_at DESC"}
	case models.SortOldest:
		return []string{"shayaris.created_at ASC"}
	default:
		return []string{"shayaris.created_at DESC"}
	}
}

// Find runs f as a count and as a paged, enriched listing. A non-empty
// f.Query also projects relevance_score.
func (r *shayariRepository) Find(ctx context.Context, f models.ShayariFilter, sort models.SortMode, page, limit int) ([]models.Shayari, int64, error) {
	defer observability.TrackQuery("find", "shayaris")()

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Shayari{}).Scopes(filterScope(f)).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	q := r.db.WithContext(ctx).Model(&models.Shayari{}).Scopes(filterScope(f))
	scored := f.Query != ""
	if scored {
		p := containsPattern(f.Query)
		q = q.Select("shayaris.*, "+likesCountColumn+", "+relevanceColumn, p, p)
	} else {
		q = q.Select("shayaris.*, " + likesCountColumn)
	}
	for _, key := range orderBy(sort, scored) {
		q = q.Order(key)
	}
	// id breaks remaining ties so pages never overlap
	q = q.Order("shayaris.id DESC")

	shayaris := []models.Shayari{}
	if err := q.Preload("Author").Limit(limit).Offset(offset(page, limit)).Find(&shayaris).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return shayaris, total, nil
}

// MatchingTitles returns titles of public shayaris whose title or content
// contains fragment.
func (r *shayariRepository) MatchingTitles(ctx context.Context, fragment string, limit int) ([]string, error) {
	defer observability.TrackQuery("matching_titles", "shayaris")()

	var titles []string
	err := r.db.WithContext(ctx).Model(&models.Shayari{}).
		Scopes(filterScope(models.ShayariFilter{Query: fragment, Visibility: models.VisibilityPublic})).
		Order("shayaris.id ASC").
		Limit(limit).
		Pluck("shayaris.title", &titles).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return titles, nil
}

// TitlesContaining is the typeahead lookup over public titles only.
func (r *shayariRepository) TitlesContaining(ctx context.Context, fragment string, limit int) ([]models.Shayari, error) {
	defer observability.TrackQuery("suggest", "shayaris")()

	var rows []models.Shayari
	err := r.db.WithContext(ctx).
		Select("id", "title").
		Where("visibility = ?", models.VisibilityPublic).
		Where(`LOWER(title) LIKE ? ESCAPE '\'`, containsPattern(fragment)).
		Order("id ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return rows, nil
}

func (r *shayariRepository) AuthorStats(ctx context.Context, authorID uint) (*models.UserStats, error) {
	defer observability.TrackQuery("author_stats", "shayaris")()

	var stats models.UserStats
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.Shayari{}).Where("author_id = ?", authorID).Count(&stats.TotalShayaris).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	err := db.Model(&models.Like{}).
		Joins("JOIN shayaris ON shayaris.id = likes.shayari_id").
		Where("shayaris.author_id = ?", authorID).
		Count(&stats.TotalLikes).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	if stats.TotalShayaris > 0 {
		top, _, err := r.Find(ctx, models.ShayariFilter{AuthorID: &authorID}, models.SortPopular, 1, 1)
		if err != nil {
			return nil, err
		}
		if len(top) > 0 {
			stats.MostLikedShayari = &top[0]
		}
	}
	return &stats, nil
}
