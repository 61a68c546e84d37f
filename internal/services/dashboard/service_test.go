package dashboard_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"safetrade/internal/mocks"
	"safetrade/internal/models"
	"safetrade/internal/services/dashboard"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Stats(t *testing.T) {
	ctx := context.Background()
	users := &mocks.UserRepository{}
	txns := &mocks.TransactionRepository{}
	disputes := &mocks.DisputeRepository{}
	rooms := &mocks.RoomRepository{}

	users.On("CountByRole", ctx).Return(map[models.Role]int64{
		models.RoleBuyer:  8,
		models.RoleSeller: 3,
		models.RoleAdmin:  1,
	}, nil)
	users.On("CountActive", ctx).Return(int64(11), nil)
	rooms.On("Count", ctx).Return(int64(4), nil)
	txns.On("Statistics", ctx, (*time.Time)(nil), (*time.Time)(nil)).Return(&models.TransactionStats{
		TotalTransactions: 20,
		TotalAmount:       decimal.NewFromInt(500000000),
	}, nil)
	disputes.On("Statistics", ctx).Return(&models.DisputeStats{Total: 2, Pending: 2}, nil)
	txns.On("Recent", ctx, 5).Return([]models.Transaction{{ProductName: "Phone"}}, nil)
	users.On("Recent", ctx, 5).Return([]models.User{{Name: "A"}, {Name: "B"}}, nil)

	stats, err := dashboard.NewService(users, txns, disputes, rooms).Stats(ctx)

	require.NoError(t, err)
	assert.Equal(t, models.Overview{
		TotalUsers:        12,
		ActiveUsers:       11,
		TotalBuyers:       8,
		TotalSellers:      3,
		TotalRooms:        4,
		TotalTransactions: 20,
		TotalDisputes:     2,
	}, stats.Overview)
	assert.Len(t, stats.RecentTransactions, 1)
	assert.Len(t, stats.RecentUsers, 2)
	assert.Equal(t, int64(2), stats.DisputeStats.Pending)
}

func TestService_Stats_PropagatesErrors(t *testing.T) {
	ctx := context.Background()
	users := &mocks.UserRepository{}
	users.On("CountByRole", ctx).Return(nil, errors.New("db down"))

	_, err := dashboard.NewService(users, &mocks.TransactionRepository{}, &mocks.DisputeRepository{}, &mocks.RoomRepository{}).Stats(ctx)

	assert.EqualError(t, err, "db down")
}
