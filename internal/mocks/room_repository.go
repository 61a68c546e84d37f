package mocks

import (
	"context"

	"safetrade/internal/models"
	"safetrade/internal/repositories"
	"safetrade/internal/utils/pagination"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type RoomRepository struct {
	mock.Mock
}

func (m *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

func (m *RoomRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	args := m.Called(ctx, id)
	room, _ := args.Get(0).(*models.Room)
	return room, args.Error(1)
}

func (m *RoomRepository) UpdateDetails(ctx context.Context, room *models.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

func (m *RoomRepository) List(ctx context.Context, filter repositories.RoomFilter, page pagination.Params) ([]models.Room, int64, error) {
	args := m.Called(ctx, filter, page)
	rooms, _ := args.Get(0).([]models.Room)
	return rooms, args.Get(1).(int64), args.Error(2)
}

func (m *RoomRepository) ListByMember(ctx context.Context, userID uuid.UUID) ([]models.Room, error) {
	args := m.Called(ctx, userID)
	rooms, _ := args.Get(0).([]models.Room)
	return rooms, args.Error(1)
}

func (m *RoomRepository) AddMember(ctx context.Context, member *models.RoomMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *RoomRepository) RemoveMember(ctx context.Context, roomID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, roomID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *RoomRepository) IsMember(ctx context.Context, roomID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, roomID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *RoomRepository) AdjustMemberCount(ctx context.Context, roomID uuid.UUID, delta int) error {
	args := m.Called(ctx, roomID, delta)
	return args.Error(0)
}

func (m *RoomRepository) IncrementTransactionCount(ctx context.Context, roomID uuid.UUID) error {
	args := m.Called(ctx, roomID)
	return args.Error(0)
}

func (m *RoomRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
