package room

import (
	"context"
	"errors"
	"strings"

	"safetrade/internal/models"
	"safetrade/internal/repositories"
	"safetrade/internal/utils/pagination"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CreateInput struct {
	Name        string
	Description *string
	Category    models.RoomCategory
	Rules       *string
}

type UpdateInput struct {
	Name        *string
	Description *string
	Rules       *string
	Status      *models.RoomStatus
}

type Service interface {
	Create(ctx context.Context, actor models.Actor, in CreateInput) (*models.Room, error)
	List(ctx context.Context, filter repositories.RoomFilter, page pagination.Params) ([]models.Room, int64, error)
	// Mine lists the rooms the caller is a member of, owned rooms included.
	Mine(ctx context.Context, actor models.Actor) ([]models.Room, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Room, error)
	Update(ctx context.Context, actor models.Actor, id uuid.UUID, in UpdateInput) (*models.Room, error)
	Join(ctx context.Context, actor models.Actor, id uuid.UUID) error
	Leave(ctx context.Context, actor models.Actor, id uuid.UUID) error
}

type service struct {
	repo      repositories.RoomRepository
	txManager repositories.TxManager
	log       *zap.Logger
}

func NewService(repo repositories.RoomRepository, txManager repositories.TxManager, log *zap.Logger) Service {
	return &service{repo: repo, txManager: txManager, log: log}
}

func (s *service) Create(ctx context.Context, actor models.Actor, in CreateInput) (*models.Room, error) {
	if actor.Role != models.RoleSeller {
		return nil, ErrSellerOnly
	}

	room := &models.Room{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Category:    in.Category,
		OwnerID:     actor.UserID,
		Rules:       in.Rules,
		Status:      models.RoomActive,
		MemberCount: 1,
	}
	err := s.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, room); err != nil {
			return err
		}
		return s.repo.AddMember(ctx, &models.RoomMember{RoomID: room.ID, UserID: actor.UserID})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("room created", zap.String("room_id", room.ID.String()), zap.String("owner_id", actor.UserID.String()))
	return s.Get(ctx, room.ID)
}

func (s *service) List(ctx context.Context, filter repositories.RoomFilter, page pagination.Params) ([]models.Room, int64, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	return s.repo.List(ctx, filter, page)
}

func (s *service) Mine(ctx context.Context, actor models.Actor) ([]models.Room, error) {
	return s.repo.ListByMember(ctx, actor.UserID)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	room, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return room, nil
}

func (s *service) Update(ctx context.Context, actor models.Actor, id uuid.UUID, in UpdateInput) (*models.Room, error) {
	room, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if room.OwnerID != actor.UserID && !actor.IsAdmin() {
		return nil, ErrNotOwner
	}

	if in.Name != nil {
		room.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		room.Description = in.Description
	}
	if in.Rules != nil {
		room.Rules = in.Rules
	}
	if in.Status != nil {
		room.Status = *in.Status
	}
	if err := s.repo.UpdateDetails(ctx, room); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *service) Join(ctx context.Context, actor models.Actor, id uuid.UUID) error {
	room, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if room.Status != models.RoomActive {
		return ErrRoomInactive
	}

	member, err := s.repo.IsMember(ctx, id, actor.UserID)
	if err != nil {
		return err
	}
	if member {
		return ErrAlreadyMember
	}

	return s.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := s.repo.AddMember(ctx, &models.RoomMember{RoomID: id, UserID: actor.UserID}); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return ErrAlreadyMember
			}
			return err
		}
		return s.repo.AdjustMemberCount(ctx, id, 1)
	})
}

func (s *service) Leave(ctx context.Context, actor models.Actor, id uuid.UUID) error {
	room, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if room.OwnerID == actor.UserID {
		return ErrOwnerLeave
	}

	return s.txManager.WithTx(ctx, func(ctx context.Context) error {
		removed, err := s.repo.RemoveMember(ctx, id, actor.UserID)
		if err != nil {
			return err
		}
		if !removed {
			return ErrNotMember
		}
		return s.repo.AdjustMemberCount(ctx, id, -1)
	})
}
