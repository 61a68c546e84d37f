package mocks

import (
	"context"

	"safetrade/internal/events"
	"safetrade/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type Notifier struct {
	mock.Mock
}

func (m *Notifier) Notify(ctx context.Context, notifications ...*models.Notification) error {
	args := m.Called(ctx, notifications)
	return args.Error(0)
}

type LimitsProvider struct {
	mock.Mock
}

func (m *LimitsProvider) TransactionLimits(ctx context.Context) (models.TransactionLimits, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.TransactionLimits), args.Error(1)
}

type Verifier struct {
	mock.Mock
}

func (m *Verifier) Verify(ctx context.Context, reference string, amount decimal.Decimal) error {
	args := m.Called(ctx, reference, amount)
	return args.Error(0)
}

type Publisher struct {
	mock.Mock
}

func (m *Publisher) Publish(ctx context.Context, evs ...events.Event) error {
	args := m.Called(ctx, evs)
	return args.Error(0)
}

func (m *Publisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

type StatusApplier struct {
	mock.Mock
}

func (m *StatusApplier) ApplyStatus(ctx context.Context, txn *models.Transaction, to models.TransactionStatus, changedBy uuid.UUID, notes *string) error {
	args := m.Called(ctx, txn, to, changedBy, notes)
	return args.Error(0)
}
