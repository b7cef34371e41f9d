package service

import (
	"context"
	"log/slog"
	"strings"

	"shayarihub/internal/authz"
	"shayarihub/internal/cache"
	"shayarihub/internal/models"
	"shayarihub/internal/notifications"
	"shayarihub/internal/observability"
	"shayarihub/internal/repository"
	"shayarihub/internal/validation"
)

var errPrivateLike = models.NewForbiddenError("Cannot like private shayari")

// ShayariService owns authoring, likes and reports.
type ShayariService struct {
	shayaris repository.ShayariRepository
	likes    repository.LikeRepository
	reports  repository.ReportRepository
	users    repository.UserRepository
	store    *cache.Store
	notifier *notifications.Notifier
	// takedown handles deletions by moderators who are not the author.
	takedown func(ctx context.Context, actor *authz.Actor, id uint) error
}

type ShayariServiceDeps struct {
	Shayaris repository.ShayariRepository
	Likes    repository.LikeRepository
	Reports  repository.ReportRepository
	Users    repository.UserRepository
	Store    *cache.Store
	Notifier *notifications.Notifier
	Takedown func(ctx context.Context, actor *authz.Actor, id uint) error
}

func NewShayariService(d ShayariServiceDeps) *ShayariService {
	return &ShayariService{
		shayaris: d.Shayaris,
		likes:    d.Likes,
		reports:  d.Reports,
		users:    d.Users,
		store:    d.Store,
		notifier: d.Notifier,
		takedown: d.Takedown,
	}
}

// ShayariInput is the create and update payload.
type ShayariInput struct {
	Title      string
	Content    string
	Visibility models.Visibility
}

func (in *ShayariInput) normalize() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	if in.Visibility == "" {
		in.Visibility = models.VisibilityPublic
	}
	if err := validation.ValidateShayari(in.Title, in.Content, in.Visibility); err != nil {
		return models.NewValidationError(err.Error())
	}
	return nil
}

func (s *ShayariService) Create(ctx context.Context, authorID uint, in ShayariInput) (*models.Shayari, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	sh := &models.Shayari{
		Title:      in.Title,
		Content:    in.Content,
		Visibility: in.Visibility,
		AuthorID:   authorID,
	}
	if err := s.shayaris.Create(ctx, sh); err != nil {
		return nil, err
	}
	s.store.Invalidate(ctx, cache.UserStatsKey(authorID), cache.AdminStatsKey)
	return s.shayaris.GetByID(ctx, sh.ID)
}

// Get hides private shayaris from everyone but their author.
func (s *ShayariService) Get(ctx context.Context, id, viewerID uint) (*models.Shayari, error) {
	sh, err := s.shayaris.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sh.VisibleTo(viewerID) {
		return nil, models.NewNotFoundMessage("Shayari not found")
	}
	return sh, nil
}

func (s *ShayariService) Update(ctx context.Context, authorID, id uint, in ShayariInput) (*models.Shayari, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	return s.shayaris.UpdateOwned(ctx, id, authorID, in.Title, in.Content, in.Visibility)
}

// Delete removes a shayari for its author. Anyone else goes through the
// moderation takedown, which enforces admin rank.
func (s *ShayariService) Delete(ctx context.Context, actor *authz.Actor, id uint) error {
	if actor == nil {
		return authz.ErrUnauthenticated
	}
	sh, err := s.shayaris.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if sh.AuthorID != actor.ID {
		if s.takedown == nil {
			return models.NewNotFoundMessage("Shayari not found or unauthorized")
		}
		return s.takedown(ctx, actor, id)
	}
	if err := s.shayaris.DeleteCascade(ctx, id); err != nil {
		return err
	}
	s.store.Invalidate(ctx, cache.UserStatsKey(sh.AuthorID), cache.AdminStatsKey)
	return nil
}

// BrowseFilter resolves the listing filter for viewerID. An author may ask
// for their own posts with visibility "all" or "private"; everyone else sees
// public posts only.
func BrowseFilter(viewerID uint, authorID *uint, visibility string) models.ShayariFilter {
	f := models.ShayariFilter{AuthorID: authorID, Visibility: models.VisibilityPublic}
	if authorID == nil || viewerID == 0 || *authorID != viewerID {
		return f
	}
	switch v := strings.ToLower(visibility); v {
	case "all":
		f.Visibility = ""
	case string(models.VisibilityPrivate):
		f.Visibility = models.VisibilityPrivate
	}
	return f
}

// ToggleLike flips the caller's like and notifies the author when a like
// was added by someone else.
func (s *ShayariService) ToggleLike(ctx context.Context, user *models.User, id uint) (*models.LikeState, error) {
	sh, err := s.shayaris.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sh.VisibleTo(user.ID) {
		return nil, errPrivateLike
	}

	state, err := s.likes.Toggle(ctx, user.ID, id)
	if err != nil {
		return nil, err
	}
	result := "unliked"
	if state.Liked {
		result = "liked"
	}
	observability.LikeToggles.WithLabelValues(result).Inc()
	s.store.Invalidate(ctx, cache.UserStatsKey(sh.AuthorID), cache.AdminStatsKey)

	if state.Liked && sh.AuthorID != user.ID && s.notifier != nil {
		event := notifications.Event{
			Type: notifications.EventShayariLiked,
			Payload: notifications.ShayariLikedPayload{
				ShayariID:  sh.ID,
				Title:      sh.Title,
				LikedBy:    user.Username,
				LikesCount: state.LikesCount,
			},
		}
		if err := s.notifier.PublishUser(ctx, sh.AuthorID, event); err != nil {
			slog.WarnContext(ctx, "like notification failed", slog.Uint64("shayari_id", uint64(sh.ID)), slog.String("error", err.Error()))
		}
	}
	return state, nil
}

// LikeStatus reports the like state for viewerID, 0 meaning anonymous.
func (s *ShayariService) LikeStatus(ctx context.Context, viewerID, id uint) (*models.LikeState, error) {
	if _, err := s.Get(ctx, id, viewerID); err != nil {
		return nil, err
	}
	return s.likes.Status(ctx, viewerID, id)
}

func (s *ShayariService) Report(ctx context.Context, reporterID, id uint, reason, description string) (*models.Report, error) {
	reason = strings.TrimSpace(reason)
	description = strings.TrimSpace(description)
	if err := validation.ValidateReport(reason, description); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if _, err := s.Get(ctx, id, reporterID); err != nil {
		return nil, err
	}
	report := &models.Report{
		ShayariID:   id,
		ReporterID:  reporterID,
		Reason:      reason,
		Description: description,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "shayari reported", slog.Uint64("shayari_id", uint64(id)), slog.String("reason", reason))
	return report, nil
}
