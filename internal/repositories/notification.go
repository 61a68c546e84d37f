package repositories

import (
	"context"
	"time"

	"safetrade/internal/models"
	"safetrade/internal/utils/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(ctx context.Context, notifications ...*models.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, page pagination.Params) ([]models.Notification, int64, error)
	RecentUnread(ctx context.Context, userID uuid.UUID, limit int) ([]models.Notification, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID, at time.Time) error
	MarkAllRead(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notifications ...*models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return translate(GetTx(ctx, r.db).Create(notifications).Error)
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, page pagination.Params) ([]models.Notification, int64, error) {
	q := GetTx(ctx, r.db).Model(&models.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Notification
	err := q.Order("created_at DESC").Limit(page.Limit).Offset(page.Offset).Find(&items).Error
	return items, total, err
}

func (r *notificationRepository) RecentUnread(ctx context.Context, userID uuid.UUID, limit int) ([]models.Notification, error) {
	var items []models.Notification
	err := GetTx(ctx, r.db).
		Where("user_id = ? AND is_read = ?", userID, false).
		Order("created_at DESC").
		Limit(limit).
		Find(&items).Error
	return items, err
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := GetTx(ctx, r.db).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&n).Error
	return n, err
}

// MarkRead returns ErrNotFound when the notification does not belong to userID.
func (r *notificationRepository) MarkRead(ctx context.Context, id, userID uuid.UUID, at time.Time) error {
	res := GetTx(ctx, r.db).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{"is_read": true, "read_at": at})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error) {
	res := GetTx(ctx, r.db).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": at})
	return res.RowsAffected, res.Error
}

func (r *notificationRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	res := GetTx(ctx, r.db).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Notification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
