package auth_test

import (
	"context"
	"testing"
	"time"

	"safetrade/internal/config"
	"safetrade/internal/mocks"
	"safetrade/internal/models"
	"safetrade/internal/repositories"
	"safetrade/internal/services/auth"
	"safetrade/internal/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	users         *mocks.UserRepository
	transactions  *mocks.TransactionRepository
	disputes      *mocks.DisputeRepository
	notifications *mocks.NotificationRepository
	txManager     *mocks.TxManager
	tokens        *utils.TokenManager
	svc           auth.Service
}

func newFixture() *fixture {
	cfg := &config.Config{JWT: config.JWTConfig{
		Secret:        "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    time.Hour,
		Issuer:        "safetrade-test",
	}}
	f := &fixture{
		users:         &mocks.UserRepository{},
		transactions:  &mocks.TransactionRepository{},
		disputes:      &mocks.DisputeRepository{},
		notifications: &mocks.NotificationRepository{},
		txManager:     &mocks.TxManager{},
		tokens:        utils.NewTokenManager(cfg),
	}
	f.svc = auth.NewService(f.users, f.transactions, f.disputes, f.notifications, f.txManager, f.tokens, zap.NewNop())
	return f
}

func existingUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	u := &models.User{
		Name:         "Nguyen Van A",
		Phone:        "0901234567",
		PasswordHash: hash,
		Role:         models.RoleBuyer,
		IsActive:     true,
		TokenVersion: 2,
	}
	u.ID = uuid.New()
	return u
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates buyer with welcome notification", func(t *testing.T) {
		f := newFixture()
		email := " Buyer@Example.com "
		f.users.On("GetByPhone", ctx, "0901234567").Return(nil, repositories.ErrNotFound)
		f.users.On("GetByEmail", ctx, "buyer@example.com").Return(nil, repositories.ErrNotFound)
		f.txManager.On("WithTx", mock.Anything, mock.AnythingOfType("func(context.Context) error")).Return(nil)
		f.users.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).
			Run(func(args mock.Arguments) { args.Get(1).(*models.User).ID = uuid.New() }).
			Return(nil)
		f.notifications.On("Create", mock.Anything, mock.MatchedBy(func(ns []*models.Notification) bool {
			return len(ns) == 1 && ns[0].Type == models.NotificationWelcome
		})).Return(nil)

		user, tokens, err := f.svc.Register(ctx, auth.RegisterInput{
			Name: "Buyer", Phone: "0901234567", Email: &email, Password: "123456",
		})

		require.NoError(t, err)
		assert.Equal(t, models.RoleBuyer, user.Role)
		assert.Equal(t, "buyer@example.com", *user.Email)
		assert.NotEqual(t, "123456", user.PasswordHash)
		assert.NotEmpty(t, tokens.AccessToken)
		f.notifications.AssertExpectations(t)
	})

	t.Run("duplicate phone", func(t *testing.T) {
		f := newFixture()
		f.users.On("GetByPhone", ctx, "0901234567").Return(&models.User{}, nil)

		_, _, err := f.svc.Register(ctx, auth.RegisterInput{Name: "B", Phone: "0901234567", Password: "123456"})

		assert.ErrorIs(t, err, auth.ErrPhoneTaken)
	})

	t.Run("duplicate email", func(t *testing.T) {
		f := newFixture()
		email := "taken@example.com"
		f.users.On("GetByPhone", ctx, "0900000000").Return(nil, repositories.ErrNotFound)
		f.users.On("GetByEmail", ctx, email).Return(&models.User{Base: models.Base{ID: uuid.New()}}, nil)

		_, _, err := f.svc.Register(ctx, auth.RegisterInput{Name: "B", Phone: "0900000000", Email: &email, Password: "123456"})

		assert.ErrorIs(t, err, auth.ErrEmailTaken)
	})

	t.Run("admin role rejected", func(t *testing.T) {
		f := newFixture()
		_, _, err := f.svc.Register(ctx, auth.RegisterInput{Name: "B", Phone: "1", Password: "123456", Role: models.RoleAdmin})
		assert.ErrorIs(t, err, auth.ErrRoleNotAllowed)
	})
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		f := newFixture()
		u := existingUser(t, "123456")
		f.users.On("GetByPhone", ctx, u.Phone).Return(u, nil)
		f.users.On("TouchLastLogin", ctx, u.ID, mock.AnythingOfType("time.Time")).Return(nil)

		got, tokens, err := f.svc.Login(ctx, u.Phone, "123456")

		require.NoError(t, err)
		assert.NotNil(t, got.LastLoginAt)
		claims, err := f.tokens.ParseAccessToken(tokens.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, 2, claims.TokenVersion)
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newFixture()
		u := existingUser(t, "123456")
		f.users.On("GetByPhone", ctx, u.Phone).Return(u, nil)

		_, _, err := f.svc.Login(ctx, u.Phone, "654321")

		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown phone", func(t *testing.T) {
		f := newFixture()
		f.users.On("GetByPhone", ctx, "0999999999").Return(nil, repositories.ErrNotFound)

		_, _, err := f.svc.Login(ctx, "0999999999", "123456")

		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("inactive account", func(t *testing.T) {
		f := newFixture()
		u := existingUser(t, "123456")
		u.IsActive = false
		f.users.On("GetByPhone", ctx, u.Phone).Return(u, nil)

		_, _, err := f.svc.Login(ctx, u.Phone, "123456")

		assert.ErrorIs(t, err, auth.ErrAccountInactive)
	})
}

func TestService_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("issues new pair", func(t *testing.T) {
		f := newFixture()
		u := existingUser(t, "123456")
		pair, err := f.tokens.GenerateTokens(u)
		require.NoError(t, err)
		f.users.On("GetByID", ctx, u.ID).Return(u, nil)

		next, err := f.svc.Refresh(ctx, pair.RefreshToken)

		require.NoError(t, err)
		assert.NotEmpty(t, next.AccessToken)
	})

	t.Run("revoked after logout", func(t *testing.T) {
		f := newFixture()
		u := existingUser(t, "123456")
		pair, err := f.tokens.GenerateTokens(u)
		require.NoError(t, err)

		bumped := *u
		bumped.TokenVersion++
		f.users.On("GetByID", ctx, u.ID).Return(&bumped, nil)

		_, err = f.svc.Refresh(ctx, pair.RefreshToken)

		assert.ErrorIs(t, err, auth.ErrSessionRevoked)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		f := newFixture()
		pair, err := f.tokens.GenerateTokens(existingUser(t, "123456"))
		require.NoError(t, err)

		_, err = f.svc.Refresh(ctx, pair.AccessToken)

		assert.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
	})
}

func TestService_Logout_BumpsTokenVersion(t *testing.T) {
	f := newFixture()
	id := uuid.New()
	f.users.On("IncrementTokenVersion", mock.Anything, id).Return(nil)

	require.NoError(t, f.svc.Logout(context.Background(), id))
	f.users.AssertExpectations(t)
}

func TestService_ChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("wrong current password", func(t *testing.T) {
		f := newFixture()
		u := existingUser(t, "123456")
		f.users.On("GetByID", ctx, u.ID).Return(u, nil)

		_, err := f.svc.ChangePassword(ctx, u.ID, "nope", "abcdef")

		assert.ErrorIs(t, err, auth.ErrWrongPassword)
		f.users.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rehashes and revokes old tokens", func(t *testing.T) {
		f := newFixture()
		u := existingUser(t, "123456")
		reloaded := *u
		reloaded.TokenVersion = 3

		var stored string
		f.users.On("GetByID", ctx, u.ID).Return(u, nil).Once()
		f.users.On("UpdatePassword", ctx, u.ID, mock.AnythingOfType("string")).
			Run(func(args mock.Arguments) { stored = args.String(2) }).
			Return(nil)
		f.users.On("GetByID", ctx, u.ID).Return(&reloaded, nil).Once()

		pair, err := f.svc.ChangePassword(ctx, u.ID, "123456", "abcdef")

		require.NoError(t, err)
		assert.True(t, utils.CheckPassword(stored, "abcdef"))
		claims, err := f.tokens.ParseAccessToken(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, 3, claims.TokenVersion)
		f.users.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything)
	})

	t.Run("user removed before the write", func(t *testing.T) {
		f := newFixture()
		u := existingUser(t, "123456")
		f.users.On("GetByID", ctx, u.ID).Return(u, nil)
		f.users.On("UpdatePassword", ctx, u.ID, mock.AnythingOfType("string")).Return(repositories.ErrNotFound)

		_, err := f.svc.ChangePassword(ctx, u.ID, "123456", "abcdef")

		assert.ErrorIs(t, err, auth.ErrUserNotFound)
	})
}

func TestService_Profile(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	u := existingUser(t, "123456")
	unread := []models.Notification{{Title: "a"}, {Title: "b"}}
	f.users.On("GetByID", ctx, u.ID).Return(u, nil)
	f.notifications.On("RecentUnread", ctx, u.ID, 5).Return(unread, nil)
	f.notifications.On("CountUnread", ctx, u.ID).Return(int64(12), nil)

	p, err := f.svc.Profile(ctx, u.ID)

	require.NoError(t, err)
	assert.Equal(t, u, p.User)
	assert.Len(t, p.Notifications, 2)
	assert.Equal(t, int64(12), p.UnreadCount)
}

func TestService_UpdateProfile_EmailOwnedByOther(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	u := existingUser(t, "123456")
	email := "other@example.com"
	f.users.On("GetByID", ctx, u.ID).Return(u, nil)
	f.users.On("GetByEmail", ctx, email).Return(&models.User{Base: models.Base{ID: uuid.New()}}, nil)

	_, err := f.svc.UpdateProfile(ctx, u.ID, auth.ProfileInput{Email: &email})

	assert.ErrorIs(t, err, auth.ErrEmailTaken)
}

func TestService_UpdateProfile_WritesProfileOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	u := existingUser(t, "123456")
	name := "Tran Thi B"
	f.users.On("GetByID", ctx, u.ID).Return(u, nil)
	f.users.On("UpdateProfile", ctx, u).Return(nil)

	got, err := f.svc.UpdateProfile(ctx, u.ID, auth.ProfileInput{Name: &name})

	require.NoError(t, err)
	assert.Equal(t, name, got.Name)
	f.users.AssertNotCalled(t, "SetActive", mock.Anything, mock.Anything, mock.Anything)
	f.users.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Stats(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	id := uuid.New()
	f.transactions.On("CountByParty", ctx, id, models.TransactionStatus("")).Return(int64(7), nil)
	f.transactions.On("CountByParty", ctx, id, models.StatusCompleted).Return(int64(4), nil)
	f.disputes.On("CountByParty", ctx, id).Return(int64(1), nil)
	f.notifications.On("CountUnread", ctx, id).Return(int64(3), nil)

	stats, err := f.svc.Stats(ctx, id)

	require.NoError(t, err)
	assert.Equal(t, models.UserStats{
		TotalTransactions:     7,
		CompletedTransactions: 4,
		TotalDisputes:         1,
		UnreadNotifications:   3,
	}, *stats)
}
