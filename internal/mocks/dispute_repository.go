package mocks

import (
	"context"

	"safetrade/internal/models"
	"safetrade/internal/repositories"
	"safetrade/internal/utils/pagination"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type DisputeRepository struct {
	mock.Mock
}

func (m *DisputeRepository) Create(ctx context.Context, d *models.Dispute) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *DisputeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Dispute, error) {
	args := m.Called(ctx, id)
	d, _ := args.Get(0).(*models.Dispute)
	return d, args.Error(1)
}

func (m *DisputeRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Dispute, error) {
	args := m.Called(ctx, id)
	d, _ := args.Get(0).(*models.Dispute)
	return d, args.Error(1)
}

func (m *DisputeRepository) ExistsForTransaction(ctx context.Context, transactionID uuid.UUID) (bool, error) {
	args := m.Called(ctx, transactionID)
	return args.Bool(0), args.Error(1)
}

func (m *DisputeRepository) Save(ctx context.Context, d *models.Dispute) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *DisputeRepository) List(ctx context.Context, filter repositories.DisputeFilter, page pagination.Params) ([]models.Dispute, int64, error) {
	args := m.Called(ctx, filter, page)
	ds, _ := args.Get(0).([]models.Dispute)
	return ds, args.Get(1).(int64), args.Error(2)
}

func (m *DisputeRepository) Statistics(ctx context.Context) (*models.DisputeStats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).(*models.DisputeStats)
	return stats, args.Error(1)
}

func (m *DisputeRepository) CountByParty(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}
