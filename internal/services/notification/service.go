package notification

import (
	"context"
	"errors"
	"time"

	apperrors "safetrade/internal/errors"
	"safetrade/internal/models"
	"safetrade/internal/repositories"
	"safetrade/internal/utils/pagination"

	"github.com/google/uuid"
)

var ErrNotificationNotFound = apperrors.NotFound("Notification not found")

type Service interface {
	// Notify stores notifications inside the transaction carried by ctx, if any.
	Notify(ctx context.Context, notifications ...*models.Notification) error
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, page pagination.Params) ([]models.Notification, int64, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	RecentUnread(ctx context.Context, userID uuid.UUID, limit int) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type service struct {
	repo repositories.NotificationRepository
	now  func() time.Time
}

func NewService(repo repositories.NotificationRepository) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) Notify(ctx context.Context, notifications ...*models.Notification) error {
	return s.repo.Create(ctx, notifications...)
}

func (s *service) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, page pagination.Params) ([]models.Notification, int64, error) {
	return s.repo.ListByUser(ctx, userID, unreadOnly, page)
}

func (s *service) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *service) RecentUnread(ctx context.Context, userID uuid.UUID, limit int) ([]models.Notification, error) {
	return s.repo.RecentUnread(ctx, userID, limit)
}

func (s *service) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	return notFound(s.repo.MarkRead(ctx, id, userID, s.now()))
}

func (s *service) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID, s.now())
}

func (s *service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return notFound(s.repo.Delete(ctx, id, userID))
}

// notFound hides whether the notification exists for another user.
func notFound(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrNotificationNotFound
	}
	return err
}
