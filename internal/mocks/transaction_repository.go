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

type TransactionRepository struct {
	mock.Mock
}

func (m *TransactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	args := m.Called(ctx, id)
	tx, _ := args.Get(0).(*models.Transaction)
	return tx, args.Error(1)
}

func (m *TransactionRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	args := m.Called(ctx, id)
	tx, _ := args.Get(0).(*models.Transaction)
	return tx, args.Error(1)
}

func (m *TransactionRepository) Save(ctx context.Context, tx *models.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *TransactionRepository) AppendHistory(ctx context.Context, entry *models.TransactionHistory) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *TransactionRepository) List(ctx context.Context, filter repositories.TransactionFilter, page pagination.Params) ([]models.Transaction, int64, error) {
	args := m.Called(ctx, filter, page)
	txs, _ := args.Get(0).([]models.Transaction)
	return txs, args.Get(1).(int64), args.Error(2)
}

func (m *TransactionRepository) Statistics(ctx context.Context, from, to *time.Time) (*models.TransactionStats, error) {
	args := m.Called(ctx, from, to)
	stats, _ := args.Get(0).(*models.TransactionStats)
	return stats, args.Error(1)
}

func (m *TransactionRepository) Recent(ctx context.Context, limit int) ([]models.Transaction, error) {
	args := m.Called(ctx, limit)
	txs, _ := args.Get(0).([]models.Transaction)
	return txs, args.Error(1)
}

func (m *TransactionRepository) CountByParty(ctx context.Context, userID uuid.UUID, status models.TransactionStatus) (int64, error) {
	args := m.Called(ctx, userID, status)
	return args.Get(0).(int64), args.Error(1)
}
