package repositories

import (
	"context"
	"errors"
	"time"

	"safetrade/internal/models"
	"safetrade/internal/repositories/cache"
	"safetrade/internal/utils/pagination"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserFilter narrows admin user listings.
type UserFilter struct {
	Role   models.Role
	Active *bool
	Search string
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	IncrementTokenVersion(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter UserFilter, page pagination.Params) ([]models.User, int64, error)
	Recent(ctx context.Context, limit int) ([]models.User, error)
	CountByRole(ctx context.Context) (map[models.Role]int64, error)
	CountActive(ctx context.Context) (int64, error)
}

type userRepository struct {
	db    *gorm.DB
	cache *cache.CacheService
	log   *zap.Logger
}

// NewUserRepository creates a new instance of UserRepository
func NewUserRepository(db *gorm.DB, cache *cache.CacheService, log *zap.Logger) UserRepository {
	return &userRepository{db: db, cache: cache, log: log}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return translate(GetTx(ctx, r.db).Create(user).Error)
}

// GetByID reads through the redis cache. Reads inside a transaction go
// straight to the database and are never cached.
func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if InTx(ctx) {
		var user models.User
		if err := GetTx(ctx, r.db).First(&user, "id = ?", id).Error; err != nil {
			return nil, translate(err)
		}
		return &user, nil
	}

	if user, err := r.cache.GetUser(ctx, id); err == nil {
		return user, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		r.log.Warn("user cache read failed", zap.String("user_id", id.String()), zap.Error(err))
	}

	var user models.User
	if err := GetTx(ctx, r.db).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}

	if err := r.cache.CacheUser(ctx, &user); err != nil {
		r.log.Warn("failed to cache user", zap.String("user_id", id.String()), zap.Error(err))
	}
	return &user, nil
}

func (r *userRepository) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	var user models.User
	if err := GetTx(ctx, r.db).Where("phone = ?", phone).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := GetTx(ctx, r.db).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// UpdateProfile writes the self-editable columns only.
func (r *userRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	res := GetTx(ctx, r.db).Model(user).
		Select("name", "email", "avatar_url", "updated_at").
		Updates(user)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	r.invalidate(ctx, user.ID)
	return nil
}

// UpdatePassword stores hash and revokes every token issued so far.
func (r *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	res := GetTx(ctx, r.db).Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"password_hash": hash,
		"token_version": gorm.Expr("token_version + 1"),
		"updated_at":    time.Now(),
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *userRepository) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	err := GetTx(ctx, r.db).Model(&models.User{}).Where("id = ?", id).Update("last_login_at", at).Error
	r.invalidate(ctx, id)
	return translate(err)
}

func (r *userRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	res := GetTx(ctx, r.db).Model(&models.User{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *userRepository) IncrementTokenVersion(ctx context.Context, id uuid.UUID) error {
	res := GetTx(ctx, r.db).Model(&models.User{}).Where("id = ?", id).
		Update("token_version", gorm.Expr("token_version + 1"))
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *userRepository) List(ctx context.Context, filter UserFilter, page pagination.Params) ([]models.User, int64, error) {
	q := GetTx(ctx, r.db).Model(&models.User{})
	if filter.Role != "" {
		q = q.Where("role = ?", filter.Role)
	}
	if filter.Active != nil {
		q = q.Where("is_active = ?", *filter.Active)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("name ILIKE ? OR phone ILIKE ? OR email ILIKE ?", like, like, like)
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := q.Order(page.OrderBy()).Limit(page.Limit).Offset(page.Offset).Find(&users).Error
	return users, total, err
}

func (r *userRepository) Recent(ctx context.Context, limit int) ([]models.User, error) {
	var users []models.User
	err := GetTx(ctx, r.db).Order("created_at DESC").Limit(limit).Find(&users).Error
	return users, err
}

func (r *userRepository) CountByRole(ctx context.Context) (map[models.Role]int64, error) {
	var rows []struct {
		Role  models.Role
		Count int64
	}
	err := GetTx(ctx, r.db).Model(&models.User{}).
		Select("role, COUNT(*) AS count").
		Group("role").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.Role]int64, len(rows))
	for _, row := range rows {
		counts[row.Role] = row.Count
	}
	return counts, nil
}

func (r *userRepository) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := GetTx(ctx, r.db).Model(&models.User{}).Where("is_active = ?", true).Count(&n).Error
	return n, err
}

// invalidate drops the cached row once the write is committed.
func (r *userRepository) invalidate(ctx context.Context, id uuid.UUID) {
	AfterCommit(ctx, func(ctx context.Context) {
		if err := r.cache.InvalidateUser(ctx, id); err != nil {
			r.log.Warn("failed to invalidate user cache", zap.String("user_id", id.String()), zap.Error(err))
		}
	})
}
