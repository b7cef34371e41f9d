package repository

import (
	"context"
	"errors"
	"time"

	"shayarihub/internal/models"
	"shayarihub/internal/observability"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	FindFirstByUsernameContains(ctx context.Context, fragment string) (*models.User, error)
	SuggestUsernames(ctx context.Context, fragment string, limit int) ([]models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateProfile(ctx context.Context, id uint, username, bio, photo string) (*models.User, error)
	SetActive(ctx context.Context, id uint, active bool) error
	SetRole(ctx context.Context, id uint, role models.Role) error
	DeleteCascade(ctx context.Context, id uint) error
	ListWithStats(ctx context.Context, search string, page, limit int) ([]models.UserWithStats, int64, error)
	ListStaff(ctx context.Context) ([]models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	defer observability.TrackQuery("get", "users")()

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFoundOr(err, "User", id)
	}
	return &user, nil
}

// GetByEmail returns nil, nil when no account uses email.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

// GetByUsername matches the canonical username; nil, nil when absent.
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("username_lower = ?", models.CanonicalUsername(username)).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

// FindFirstByUsernameContains resolves an author filter to the oldest user
// whose username contains fragment. Returns nil, nil when nobody matches.
func (r *userRepository) FindFirstByUsernameContains(ctx context.Context, fragment string) (*models.User, error) {
	defer observability.TrackQuery("find_author", "users")()

	var user models.User
	err := r.db.WithContext(ctx).
		Where(`username_lower LIKE ? ESCAPE '\'`, containsPattern(fragment)).
		Order("id ASC").
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) SuggestUsernames(ctx context.Context, fragment string, limit int) ([]models.User, error) {
	defer observability.TrackQuery("suggest", "users")()

	var users []models.User
	err := r.db.WithContext(ctx).
		Select("id", "username", "profile_photo").
		Where("is_active = ?", true).
		Where(`username_lower LIKE ? ESCAPE '\'`, containsPattern(fragment)).
		Order("id ASC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	user.UsernameLower = models.CanonicalUsername(user.Username)
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return models.NewConflictError("User already exists", err)
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id uint, username, bio, photo string) (*models.User, error) {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"username":       username,
		"username_lower": models.CanonicalUsername(username),
		"bio":            bio,
		"profile_photo":  photo,
	})
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return nil, models.NewConflictError("Username is already taken", res.Error)
		}
		return nil, models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, models.NewNotFoundError("User", id)
	}
	return r.GetByID(ctx, id)
}

func (r *userRepository) SetActive(ctx context.Context, id uint, active bool) error {
	return r.updateColumn(ctx, id, "is_active", active)
}

func (r *userRepository) SetRole(ctx context.Context, id uint, role models.Role) error {
	return r.updateColumn(ctx, id, "role", role)
}

// updateColumn writes one column and stamps updated_at.
func (r *userRepository) updateColumn(ctx context.Context, id uint, column string, value interface{}) error {
	defer observability.TrackQuery("update", "users")()

	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{column: value, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", id)
	}
	return nil
}

// DeleteCascade removes the user with everything they own or that points at
// them, in a single transaction.
func (r *userRepository) DeleteCascade(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete_cascade", "users")()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owned := func() *gorm.DB {
			return tx.Model(&models.Shayari{}).Select("id").Where("author_id = ?", id)
		}

		if err := tx.Where("user_id = ? OR shayari_id IN (?)", id, owned()).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("reporter_id = ? OR shayari_id IN (?)", id, owned()).Delete(&models.Report{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", id).Delete(&models.Shayari{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return notFoundOr(err, "User", id)
	}
	return nil
}

// ListWithStats pages through users newest first, with per-user shayari and
// received-like counts.
func (r *userRepository) ListWithStats(ctx context.Context, search string, page, limit int) ([]models.UserWithStats, int64, error) {
	defer observability.TrackQuery("list_stats", "users")()

	scope := func(db *gorm.DB) *gorm.DB {
		if search == "" {
			return db
		}
		p := containsPattern(search)
		return db.Where(`(LOWER(users.username) LIKE ? ESCAPE '\' OR LOWER(users.email) LIKE ? ESCAPE '\')`, p, p)
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var rows []models.UserWithStats
	err := r.db.WithContext(ctx).Model(&models.User{}).Scopes(scope).
		Select(`users.*,
			(SELECT COUNT(*) FROM shayaris WHERE shayaris.author_id = users.id) AS shayari_count,
			(SELECT COUNT(*) FROM likes JOIN shayaris ON shayaris.id = likes.shayari_id WHERE shayaris.author_id = users.id) AS likes_count`).
		Order("users.created_at DESC").
		Order("users.id DESC").
		Limit(limit).Offset(offset(page, limit)).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return rows, total, nil
}

func (r *userRepository) ListStaff(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("role IN ?", []models.Role{models.RoleAdmin, models.RoleSuperAdmin}).
		Order("role DESC").Order("username_lower ASC").
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
