package mocks

import (
	"context"
	"time"

	"safetrade/internal/models"
	"safetrade/internal/utils/pagination"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type NotificationRepository struct {
	mock.Mock
}

func (m *NotificationRepository) Create(ctx context.Context, notifications ...*models.Notification) error {
	args := m.Called(ctx, notifications)
	return args.Error(0)
}

func (m *NotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, page pagination.Params) ([]models.Notification, int64, error) {
	args := m.Called(ctx, userID, unreadOnly, page)
	items, _ := args.Get(0).([]models.Notification)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *NotificationRepository) RecentUnread(ctx context.Context, userID uuid.UUID, limit int) ([]models.Notification, error) {
	args := m.Called(ctx, userID, limit)
	items, _ := args.Get(0).([]models.Notification)
	return items, args.Error(1)
}

func (m *NotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *NotificationRepository) MarkRead(ctx context.Context, id, userID uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, userID, at)
	return args.Error(0)
}

func (m *NotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error) {
	args := m.Called(ctx, userID, at)
	return args.Get(0).(int64), args.Error(1)
}

func (m *NotificationRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}
