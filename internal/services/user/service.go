package user

import (
	"context"
	"errors"

	apperrors "safetrade/internal/errors"
	"safetrade/internal/models"
	"safetrade/internal/repositories"
	"safetrade/internal/utils/pagination"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrUserNotFound     = apperrors.NotFound("User not found")
	ErrAccessDenied     = apperrors.Forbidden("Access denied")
	ErrSelfDeactivation = apperrors.InvalidState("Administrators cannot deactivate their own account")
)

type Service interface {
	List(ctx context.Context, filter repositories.UserFilter, page pagination.Params) ([]models.User, int64, error)
	// Get is limited to administrators and the user themselves.
	Get(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.User, error)
	SetStatus(ctx context.Context, actor models.Actor, id uuid.UUID, active bool) (*models.User, error)
}

type service struct {
	repo      repositories.UserRepository
	txManager repositories.TxManager
	log       *zap.Logger
}

func NewService(repo repositories.UserRepository, txManager repositories.TxManager, log *zap.Logger) Service {
	return &service{repo: repo, txManager: txManager, log: log}
}

func (s *service) List(ctx context.Context, filter repositories.UserFilter, page pagination.Params) ([]models.User, int64, error) {
	return s.repo.List(ctx, filter, page)
}

func (s *service) Get(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.User, error) {
	if !actor.IsAdmin() && actor.UserID != id {
		return nil, ErrAccessDenied
	}
	return s.get(ctx, id)
}

func (s *service) SetStatus(ctx context.Context, actor models.Actor, id uuid.UUID, active bool) (*models.User, error) {
	if !actor.IsAdmin() {
		return nil, ErrAccessDenied
	}
	if !active && actor.UserID == id {
		return nil, ErrSelfDeactivation
	}

	err := s.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := s.repo.SetActive(ctx, id, active); err != nil {
			return err
		}
		// Deactivation revokes every session
		if !active {
			return s.repo.IncrementTokenVersion(ctx, id)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	s.log.Info("user status changed",
		zap.String("user_id", id.String()),
		zap.Bool("active", active),
		zap.String("admin_id", actor.UserID.String()),
	)
	return s.get(ctx, id)
}

func (s *service) get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
