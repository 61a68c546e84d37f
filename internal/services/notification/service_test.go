package notification_test

import (
	"context"
	"testing"

	"safetrade/internal/mocks"
	"safetrade/internal/repositories"
	"safetrade/internal/services/notification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestService_MarkRead_OtherUsersNotification(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.NotificationRepository{}
	userID, id := uuid.New(), uuid.New()
	repo.On("MarkRead", ctx, id, userID, mock.AnythingOfType("time.Time")).Return(repositories.ErrNotFound)

	err := notification.NewService(repo).MarkRead(ctx, userID, id)

	assert.ErrorIs(t, err, notification.ErrNotificationNotFound)
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.NotificationRepository{}
	userID, id := uuid.New(), uuid.New()
	repo.On("Delete", ctx, id, userID).Return(nil)

	require.NoError(t, notification.NewService(repo).Delete(ctx, userID, id))
	repo.AssertExpectations(t)
}

func TestService_MarkAllRead(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.NotificationRepository{}
	userID := uuid.New()
	repo.On("MarkAllRead", ctx, userID, mock.AnythingOfType("time.Time")).Return(int64(4), nil)

	n, err := notification.NewService(repo).MarkAllRead(ctx, userID)

	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}
