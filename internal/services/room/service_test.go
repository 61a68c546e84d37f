package room_test

import (
	"context"
	"testing"

	"safetrade/internal/mocks"
	"safetrade/internal/models"
	"safetrade/internal/repositories"
	"safetrade/internal/services/room"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService() (*mocks.RoomRepository, room.Service) {
	repo := &mocks.RoomRepository{}
	txManager := &mocks.TxManager{}
	txManager.On("WithTx", mock.Anything, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	return repo, room.NewService(repo, txManager, zap.NewNop())
}

func roomFixture(status models.RoomStatus) *models.Room {
	r := &models.Room{Name: "Phones", Category: models.CategoryElectronics, OwnerID: uuid.New(), Status: status, MemberCount: 1}
	r.ID = uuid.New()
	return r
}

func member() models.Actor {
	return models.Actor{UserID: uuid.New(), Role: models.RoleBuyer}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("owner becomes first member", func(t *testing.T) {
		repo, svc := newService()
		seller := models.Actor{UserID: uuid.New(), Role: models.RoleSeller}
		var created *models.Room
		repo.On("Create", mock.Anything, mock.AnythingOfType("*models.Room")).
			Run(func(args mock.Arguments) {
				created = args.Get(1).(*models.Room)
				created.ID = uuid.New()
			}).Return(nil)
		repo.On("AddMember", mock.Anything, mock.MatchedBy(func(m *models.RoomMember) bool {
			return m.UserID == seller.UserID && m.RoomID == created.ID
		})).Return(nil)
		repo.On("GetByID", ctx, mock.AnythingOfType("uuid.UUID")).Return(&models.Room{OwnerID: seller.UserID}, nil)

		got, err := svc.Create(ctx, seller, room.CreateInput{Name: "  Phones ", Category: models.CategoryElectronics})

		require.NoError(t, err)
		assert.Equal(t, seller.UserID, got.OwnerID)
		assert.Equal(t, "Phones", created.Name)
		assert.Equal(t, 1, created.MemberCount)
		repo.AssertExpectations(t)
	})

	t.Run("buyer cannot create", func(t *testing.T) {
		_, svc := newService()
		_, err := svc.Create(ctx, member(), room.CreateInput{Name: "x"})
		assert.ErrorIs(t, err, room.ErrSellerOnly)
	})
}

func TestService_Join(t *testing.T) {
	ctx := context.Background()

	t.Run("missing room", func(t *testing.T) {
		repo, svc := newService()
		id := uuid.New()
		repo.On("GetByID", ctx, id).Return(nil, repositories.ErrNotFound)

		assert.ErrorIs(t, svc.Join(ctx, member(), id), room.ErrRoomNotFound)
	})

	t.Run("inactive room", func(t *testing.T) {
		repo, svc := newService()
		r := roomFixture(models.RoomInactive)
		repo.On("GetByID", ctx, r.ID).Return(r, nil)

		assert.ErrorIs(t, svc.Join(ctx, member(), r.ID), room.ErrRoomInactive)
	})

	t.Run("already member", func(t *testing.T) {
		repo, svc := newService()
		r := roomFixture(models.RoomActive)
		a := member()
		repo.On("GetByID", ctx, r.ID).Return(r, nil)
		repo.On("IsMember", ctx, r.ID, a.UserID).Return(true, nil)

		assert.ErrorIs(t, svc.Join(ctx, a, r.ID), room.ErrAlreadyMember)
	})

	t.Run("joins and counts", func(t *testing.T) {
		repo, svc := newService()
		r := roomFixture(models.RoomActive)
		a := member()
		repo.On("GetByID", ctx, r.ID).Return(r, nil)
		repo.On("IsMember", ctx, r.ID, a.UserID).Return(false, nil)
		repo.On("AddMember", mock.Anything, mock.AnythingOfType("*models.RoomMember")).Return(nil)
		repo.On("AdjustMemberCount", mock.Anything, r.ID, 1).Return(nil).Once()

		require.NoError(t, svc.Join(ctx, a, r.ID))
		repo.AssertExpectations(t)
	})
}

func TestService_Leave(t *testing.T) {
	ctx := context.Background()

	t.Run("owner cannot leave", func(t *testing.T) {
		repo, svc := newService()
		r := roomFixture(models.RoomActive)
		repo.On("GetByID", ctx, r.ID).Return(r, nil)

		err := svc.Leave(ctx, models.Actor{UserID: r.OwnerID, Role: models.RoleSeller}, r.ID)

		assert.ErrorIs(t, err, room.ErrOwnerLeave)
	})

	t.Run("not a member", func(t *testing.T) {
		repo, svc := newService()
		r := roomFixture(models.RoomActive)
		a := member()
		repo.On("GetByID", ctx, r.ID).Return(r, nil)
		repo.On("RemoveMember", mock.Anything, r.ID, a.UserID).Return(false, nil)

		assert.ErrorIs(t, svc.Leave(ctx, a, r.ID), room.ErrNotMember)
		repo.AssertNotCalled(t, "AdjustMemberCount", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("member leaves", func(t *testing.T) {
		repo, svc := newService()
		r := roomFixture(models.RoomActive)
		a := member()
		repo.On("GetByID", ctx, r.ID).Return(r, nil)
		repo.On("RemoveMember", mock.Anything, r.ID, a.UserID).Return(true, nil)
		repo.On("AdjustMemberCount", mock.Anything, r.ID, -1).Return(nil)

		require.NoError(t, svc.Leave(ctx, a, r.ID))
	})
}

func TestService_Update_OwnerOrAdmin(t *testing.T) {
	ctx := context.Background()
	name := "Second-hand phones"

	t.Run("stranger", func(t *testing.T) {
		repo, svc := newService()
		r := roomFixture(models.RoomActive)
		repo.On("GetByID", ctx, r.ID).Return(r, nil)

		_, err := svc.Update(ctx, member(), r.ID, room.UpdateInput{Name: &name})

		assert.ErrorIs(t, err, room.ErrNotOwner)
	})

	t.Run("admin", func(t *testing.T) {
		repo, svc := newService()
		r := roomFixture(models.RoomActive)
		status := models.RoomInactive
		repo.On("GetByID", ctx, r.ID).Return(r, nil)
		repo.On("UpdateDetails", ctx, r).Return(nil)

		got, err := svc.Update(ctx, models.Actor{UserID: uuid.New(), Role: models.RoleAdmin}, r.ID,
			room.UpdateInput{Name: &name, Status: &status})

		require.NoError(t, err)
		assert.Equal(t, name, got.Name)
		assert.Equal(t, models.RoomInactive, got.Status)
	})

	t.Run("returns counters moved by a concurrent join", func(t *testing.T) {
		repo, svc := newService()
		r := roomFixture(models.RoomActive)
		r.MemberCount = 3
		fresh := *r
		fresh.Name = name
		fresh.MemberCount = 4
		repo.On("GetByID", ctx, r.ID).Return(r, nil).Once()
		repo.On("UpdateDetails", ctx, r).Return(nil)
		repo.On("GetByID", ctx, r.ID).Return(&fresh, nil).Once()

		got, err := svc.Update(ctx, models.Actor{UserID: r.OwnerID, Role: models.RoleSeller}, r.ID, room.UpdateInput{Name: &name})

		require.NoError(t, err)
		assert.Equal(t, 4, got.MemberCount)
		repo.AssertNotCalled(t, "AdjustMemberCount", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("room deleted before the write", func(t *testing.T) {
		repo, svc := newService()
		r := roomFixture(models.RoomActive)
		repo.On("GetByID", ctx, r.ID).Return(r, nil)
		repo.On("UpdateDetails", ctx, r).Return(repositories.ErrNotFound)

		_, err := svc.Update(ctx, models.Actor{UserID: r.OwnerID, Role: models.RoleSeller}, r.ID, room.UpdateInput{Name: &name})

		assert.ErrorIs(t, err, room.ErrRoomNotFound)
	})
}
