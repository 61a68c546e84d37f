package mocks

import (
	"context"
	"time"

	"safetrade/internal/models"
	"safetrade/internal/repositories"
	"safetrade/internal/utils/pagination"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *UserRepository) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	args := m.Called(ctx, phone)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *UserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	args := m.Called(ctx, id, hash)
	return args.Error(0)
}

func (m *UserRepository) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *UserRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *UserRepository) IncrementTokenVersion(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *UserRepository) List(ctx context.Context, filter repositories.UserFilter, page pagination.Params) ([]models.User, int64, error) {
	args := m.Called(ctx, filter, page)
	users, _ := args.Get(0).([]models.User)
	return users, args.Get(1).(int64), args.Error(2)
}

func (m *UserRepository) Recent(ctx context.Context, limit int) ([]models.User, error) {
	args := m.Called(ctx, limit)
	users, _ := args.Get(0).([]models.User)
	return users, args.Error(1)
}

func (m *UserRepository) CountByRole(ctx context.Context) (map[models.Role]int64, error) {
	args := m.Called(ctx)
	counts, _ := args.Get(0).(map[models.Role]int64)
	return counts, args.Error(1)
}

func (m *UserRepository) CountActive(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func userOrNil(v interface{}) *models.User {
	u, _ := v.(*models.User)
	return u
}
