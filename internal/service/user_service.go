package service

import (
	"context"
	"strings"

	"shayarihub/internal/cache"
	"shayarihub/internal/models"
	"shayarihub/internal/repository"
	"shayarihub/internal/validation"
)

type UserService struct {
	userRepo    repository.UserRepository
	shayariRepo repository.ShayariRepository
	store       *cache.Store
}

type UpdateProfileInput struct {
	UserID       uint
	Username     string
	Bio          string
	ProfilePhoto string
}

func NewUserService(userRepo repository.UserRepository, shayariRepo repository.ShayariRepository, store *cache.Store) *UserService {
	return &UserService{userRepo: userRepo, shayariRepo: shayariRepo, store: store}
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// UpdateProfile replaces the editable profile fields. Username is required
// and keeps its uniqueness under case folding.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Bio = strings.TrimSpace(in.Bio)
	in.ProfilePhoto = strings.TrimSpace(in.ProfilePhoto)

	if in.Username == "" {
		return nil, models.NewValidationError("Username is required")
	}
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateBio(in.Bio); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	return s.userRepo.UpdateProfile(ctx, in.UserID, in.Username, in.Bio, in.ProfilePhoto)
}

// Stats returns the author's totals, cached briefly.
func (s *UserService) Stats(ctx context.Context, userID uint) (*models.UserStats, error) {
	var stats models.UserStats
	_, err := s.store.Aside(ctx, cache.UserStatsKey(userID), &stats, cache.UserStatsTTL, func() error {
		fresh, err := s.shayariRepo.AuthorStats(ctx, userID)
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
