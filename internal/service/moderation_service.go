package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"shayarihub/internal/audit"
	"shayarihub/internal/authz"
	"shayarihub/internal/cache"
	"shayarihub/internal/middleware"
	"shayarihub/internal/models"
	"shayarihub/internal/notifications"
	"shayarihub/internal/observability"
	"shayarihub/internal/repository"
)

// Moderation action names, used for metrics and audit entries.
const (
	ActionBan        = "ban"
	ActionUnban      = "unban"
	ActionChangeRole = "change_role"
	ActionTakedown   = "takedown"
	ActionDeleteUser = "delete_user"
)

const DefaultAdminLimit = 20

// ModerationService runs admin workflows. Every action re-checks the
// actor's rank and is followed by stats invalidation, a metric, an audit
// entry and, where the target is a user, a notification.
type ModerationService struct {
	users    repository.UserRepository
	shayaris repository.ShayariRepository
	reports  repository.ReportRepository
	store    *cache.Store
	audit    audit.Recorder
	notifier *notifications.Notifier
}

type ModerationServiceDeps struct {
	Users    repository.UserRepository
	Shayaris repository.ShayariRepository
	Reports  repository.ReportRepository
	Store    *cache.Store
	Audit    audit.Recorder
	Notifier *notifications.Notifier
}

// NewModerationService returns a new ModerationService.
func NewModerationService(d ModerationServiceDeps) *ModerationService {
	if d.Audit == nil {
		d.Audit = audit.NewMemoryRecorder(0)
	}
	return &ModerationService{
		users:    d.Users,
		shayaris: d.Shayaris,
		reports:  d.Reports,
		store:    d.Store,
		audit:    d.Audit,
		notifier: d.Notifier,
	}
}

// UpdateUser dispatches the PUT /admin/users/{id} actions.
func (s *ModerationService) UpdateUser(ctx context.Context, actor *authz.Actor, targetID uint, action, role string) (*models.User, error) {
	switch strings.ToLower(strings.TrimSpace(action)) {
	case ActionBan:
		return s.SetActive(ctx, actor, targetID, false)
	case ActionUnban:
		return s.SetActive(ctx, actor, targetID, true)
	case ActionChangeRole:
		return s.ChangeRole(ctx, actor, targetID, role)
	default:
		return nil, models.NewValidationError("Invalid action")
	}
}

// SetActive bans or unbans targetID.
func (s *ModerationService) SetActive(ctx context.Context, actor *authz.Actor, targetID uint, active bool) (*models.User, error) {
	if err := authz.Require(actor, models.RoleAdmin); err != nil {
		return nil, err
	}
	if err := authz.NotSelf(actor, targetID); err != nil {
		return nil, err
	}
	if err := s.users.SetActive(ctx, targetID, active); err != nil {
		return nil, err
	}

	action, event := ActionBan, notifications.EventAccountBanned
	if active {
		action, event = ActionUnban, notifications.EventAccountUnbanned
	}
	s.store.Invalidate(ctx, cache.UserStatsKey(targetID))
	s.completed(ctx, actor, action, "user", targetID, "")
	s.notify(ctx, targetID, notifications.Event{Type: event})
	return s.users.GetByID(ctx, targetID)
}

// ChangeRole assigns role to targetID.
func (s *ModerationService) ChangeRole(ctx context.Context, actor *authz.Actor, targetID uint, role string) (*models.User, error) {
	if err := authz.Require(actor, models.RoleAdmin); err != nil {
		return nil, err
	}
	if err := authz.NotSelf(actor, targetID); err != nil {
		return nil, err
	}
	parsed, err := authz.CanAssign(actor, strings.TrimSpace(role))
	if err != nil {
		return nil, err
	}
	if err := s.users.SetRole(ctx, targetID, parsed); err != nil {
		return nil, err
	}

	s.completed(ctx, actor, ActionChangeRole, "user", targetID, string(parsed))
	s.notify(ctx, targetID, notifications.Event{
		Type:    notifications.EventRoleChanged,
		Payload: notifications.RoleChangedPayload{Role: string(parsed)},
	})
	return s.users.GetByID(ctx, targetID)
}

// Takedown deletes a shayari with its likes and reports.
func (s *ModerationService) Takedown(ctx context.Context, actor *authz.Actor, shayariID uint) error {
	if err := authz.Require(actor, models.RoleAdmin); err != nil {
		return err
	}
	sh, err := s.shayaris.GetByID(ctx, shayariID)
	if err != nil {
		return err
	}
	if err := s.shayaris.DeleteCascade(ctx, shayariID); err != nil {
		return err
	}

	s.store.Invalidate(ctx, cache.UserStatsKey(sh.AuthorID))
	s.completed(ctx, actor, ActionTakedown, "shayari", shayariID, sh.Title)
	if sh.AuthorID != actor.ID {
		s.notify(ctx, sh.AuthorID, notifications.Event{
			Type:    notifications.EventShayariRemoved,
			Payload: notifications.ShayariRemovedPayload{ShayariID: sh.ID, Title: sh.Title},
		})
	}
	return nil
}

// DeleteUser removes targetID and everything they own or touched.
func (s *ModerationService) DeleteUser(ctx context.Context, actor *authz.Actor, targetID uint) error {
	if err := authz.Require(actor, models.RoleSuperAdmin); err != nil {
		return err
	}
	if err := authz.NotSelf(actor, targetID); err != nil {
		return err
	}
	if err := s.users.DeleteCascade(ctx, targetID); err != nil {
		return err
	}
	s.store.Invalidate(ctx, cache.UserStatsKey(targetID))
	s.completed(ctx, actor, ActionDeleteUser, "user", targetID, "")
	return nil
}

// completed runs the bookkeeping shared by every successful action.
func (s *ModerationService) completed(ctx context.Context, actor *authz.Actor, action, targetType string, targetID uint, detail string) {
	s.store.Invalidate(ctx, cache.AdminStatsKey)
	observability.ModerationActions.WithLabelValues(action).Inc()

	entry := models.AuditEntry{
		Action:     action,
		ActorID:    actor.ID,
		TargetType: targetType,
		TargetID:   targetID,
		Detail:     detail,
		RequestID:  middleware.RequestIDFrom(ctx),
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		slog.ErrorContext(ctx, "audit record failed", slog.String("action", action), slog.String("error", err.Error()))
	}
	slog.InfoContext(ctx, "moderation action",
		slog.String("action", action),
		slog.Uint64("actor_id", uint64(actor.ID)),
		slog.String("target", fmt.Sprintf("%s:%d", targetType, targetID)),
	)
}

func (s *ModerationService) notify(ctx context.Context, userID uint, event notifications.Event) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.PublishUser(ctx, userID, event); err != nil {
		slog.WarnContext(ctx, "moderation notification failed", slog.String("type", event.Type), slog.String("error", err.Error()))
	}
}

// UserPage is the admin users listing.
type UserPage struct {
	Users      []models.UserWithStats `json:"users"`
	Pagination models.Pagination      `json:"pagination"`
}

// ReportPage is the admin reports listing.
type ReportPage struct {
	Reports    []models.Report   `json:"reports"`
	Pagination models.Pagination `json:"pagination"`
}

func (s *ModerationService) ListUsers(ctx context.Context, search string, page, limit int) (*UserPage, error) {
	page, limit = NormalizePaging(page, limit, DefaultAdminLimit)
	users, total, err := s.users.ListWithStats(ctx, strings.TrimSpace(search), page, limit)
	if err != nil {
		return nil, err
	}
	return &UserPage{Users: users, Pagination: models.NewPagination(page, limit, total)}, nil
}

// ListShayaris lists every shayari newest first. visibility "all" or empty
// disables the visibility filter.
func (s *ModerationService) ListShayaris(ctx context.Context, search, visibility string, page, limit int) (*models.ShayariPage, error) {
	page, limit = NormalizePaging(page, limit, DefaultAdminLimit)
	f := models.ShayariFilter{Query: strings.TrimSpace(search)}
	switch v := models.Visibility(strings.ToLower(visibility)); v {
	case models.VisibilityPublic, models.VisibilityPrivate:
		f.Visibility = v
	}
	shayaris, total, err := s.shayaris.Find(ctx, f, models.SortRecent, page, limit)
	if err != nil {
		return nil, err
	}
	return &models.ShayariPage{Shayaris: shayaris, Pagination: models.NewPagination(page, limit, total)}, nil
}

func (s *ModerationService) ListReports(ctx context.Context, page, limit int) (*ReportPage, error) {
	page, limit = NormalizePaging(page, limit, DefaultAdminLimit)
	reports, total, err := s.reports.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	return &ReportPage{Reports: reports, Pagination: models.NewPagination(page, limit, total)}, nil
}

// RecentAudit returns the newest audit entries.
func (s *ModerationService) RecentAudit(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	if limit <= 0 || limit > MaxSearchLimit {
		limit = audit.DefaultLimit
	}
	entries, err := s.audit.Recent(ctx, limit)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if entries == nil {
		entries = []models.AuditEntry{}
	}
	return entries, nil
}
