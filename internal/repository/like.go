package repository

import (
	"context"

	"shayarihub/internal/models"
	"shayarihub/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository defines persistence operations for likes.
type LikeRepository interface {
	Toggle(ctx context.Context, userID, shayariID uint) (*models.LikeState, error)
	Status(ctx context.Context, userID, shayariID uint) (*models.LikeState, error)
	Count(ctx context.Context, shayariID uint) (int64, error)
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository returns a new LikeRepository implementation.
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

// Toggle inserts the (user, shayari) like unless the unique index already
// holds it, in which case the like is removed. Both paths and the recount run
// in one transaction.
func (r *likeRepository) Toggle(ctx context.Context, userID, shayariID uint) (*models.LikeState, error) {
	defer observability.TrackQuery("toggle", "likes")()

	var state models.LikeState
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "shayari_id"}},
			DoNothing: true,
		}).Create(&models.Like{UserID: userID, ShayariID: shayariID})
		if res.Error != nil {
			return res.Error
		}

		state.Liked = res.RowsAffected > 0
		if !state.Liked {
			if err := tx.Where("user_id = ? AND shayari_id = ?", userID, shayariID).Delete(&models.Like{}).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.Like{}).Where("shayari_id = ?", shayariID).Count(&state.LikesCount).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &state, nil
}

// Status reports whether userID likes the shayari. userID 0 is anonymous.
func (r *likeRepository) Status(ctx context.Context, userID, shayariID uint) (*models.LikeState, error) {
	count, err := r.Count(ctx, shayariID)
	if err != nil {
		return nil, err
	}
	state := &models.LikeState{LikesCount: count}
	if userID == 0 {
		return state, nil
	}

	var mine int64
	err = r.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ? AND shayari_id = ?", userID, shayariID).
		Count(&mine).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	state.Liked = mine > 0
	return state, nil
}

func (r *likeRepository) Count(ctx context.Context, shayariID uint) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Like{}).Where("shayari_id = ?", shayariID).Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}
