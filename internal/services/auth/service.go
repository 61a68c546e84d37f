package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"safetrade/internal/models"
	"safetrade/internal/repositories"
	"safetrade/internal/services/notification"
	"safetrade/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const profileNotifications = 5

type RegisterInput struct {
	Name     string
	Phone    string
	Email    *string
	Password string
	Role     models.Role
}

type ProfileInput struct {
	Name      *string
	Email     *string
	AvatarURL *string
}

// Profile is the authenticated user with their latest unread notifications.
type Profile struct {
	User          *models.User          `json:"user"`
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int64                 `json:"unreadCount"`
}

type Service interface {
	Register(ctx context.Context, in RegisterInput) (*models.User, utils.TokenPair, error)
	Login(ctx context.Context, phone, password string) (*models.User, utils.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (utils.TokenPair, error)
	// Logout revokes every outstanding token of the user.
	Logout(ctx context.Context, userID uuid.UUID) error
	Profile(ctx context.Context, userID uuid.UUID) (*Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, in ProfileInput) (*models.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) (utils.TokenPair, error)
	Stats(ctx context.Context, userID uuid.UUID) (*models.UserStats, error)
}

type service struct {
	users         repositories.UserRepository
	transactions  repositories.TransactionRepository
	disputes      repositories.DisputeRepository
	notifications repositories.NotificationRepository
	txManager     repositories.TxManager
	tokens        *utils.TokenManager
	log           *zap.Logger
	now           func() time.Time
}

func NewService(
	users repositories.UserRepository,
	transactions repositories.TransactionRepository,
	disputes repositories.DisputeRepository,
	notifications repositories.NotificationRepository,
	txManager repositories.TxManager,
	tokens *utils.TokenManager,
	log *zap.Logger,
) Service {
	return &service{
		users:         users,
		transactions:  transactions,
		disputes:      disputes,
		notifications: notifications,
		txManager:     txManager,
		tokens:        tokens,
		log:           log,
		now:           time.Now,
	}
}

func (s *service) Register(ctx context.Context, in RegisterInput) (*models.User, utils.TokenPair, error) {
	role := in.Role
	if role == "" {
		role = models.RoleBuyer
	}
	if role != models.RoleBuyer && role != models.RoleSeller {
		return nil, utils.TokenPair{}, ErrRoleNotAllowed
	}

	phone := strings.TrimSpace(in.Phone)
	if _, err := s.users.GetByPhone(ctx, phone); err == nil {
		return nil, utils.TokenPair{}, ErrPhoneTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, utils.TokenPair{}, err
	}
	email := normalizeEmail(in.Email)
	if err := s.checkEmailFree(ctx, email, uuid.Nil); err != nil {
		return nil, utils.TokenPair{}, err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, utils.TokenPair{}, err
	}

	user := &models.User{
		Name:         strings.TrimSpace(in.Name),
		Phone:        phone,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		TokenVersion: 1,
	}
	err = s.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := s.users.Create(ctx, user); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return ErrPhoneTaken
			}
			return err
		}
		return s.notifications.Create(ctx, notification.Welcome(user))
	})
	if err != nil {
		return nil, utils.TokenPair{}, err
	}

	tokens, err := s.tokens.GenerateTokens(user)
	if err != nil {
		return nil, utils.TokenPair{}, err
	}

	s.log.Info("user registered", zap.String("user_id", user.ID.String()), zap.String("role", string(role)))
	return user, tokens, nil
}

func (s *service) Login(ctx context.Context, phone, password string) (*models.User, utils.TokenPair, error) {
	user, err := s.users.GetByPhone(ctx, strings.TrimSpace(phone))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, utils.TokenPair{}, ErrInvalidCredentials
		}
		return nil, utils.TokenPair{}, err
	}

	// Check the password before revealing account state
	if !utils.CheckPassword(user.PasswordHash, password) {
		s.log.Info("login failed", zap.String("user_id", user.ID.String()))
		return nil, utils.TokenPair{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, utils.TokenPair{}, ErrAccountInactive
	}

	now := s.now()
	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		s.log.Warn("failed to record last login", zap.String("user_id", user.ID.String()), zap.Error(err))
	}
	user.LastLoginAt = &now

	tokens, err := s.tokens.GenerateTokens(user)
	if err != nil {
		return nil, utils.TokenPair{}, err
	}
	return user, tokens, nil
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (utils.TokenPair, error) {
	if refreshToken == "" {
		return utils.TokenPair{}, ErrInvalidRefreshToken
	}
	claims, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return utils.TokenPair{}, ErrInvalidRefreshToken.Wrap(err)
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return utils.TokenPair{}, ErrInvalidRefreshToken
		}
		return utils.TokenPair{}, err
	}
	if !user.IsActive {
		return utils.TokenPair{}, ErrAccountInactive
	}
	if user.TokenVersion != claims.TokenVersion {
		return utils.TokenPair{}, ErrSessionRevoked
	}
	return s.tokens.GenerateTokens(user)
}

func (s *service) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.users.IncrementTokenVersion(ctx, userID); err != nil {
		s.log.Warn("failed to revoke tokens on logout", zap.String("user_id", userID.String()), zap.Error(err))
	}
	return nil
}

func (s *service) Profile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	user, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	recent, err := s.notifications.RecentUnread(ctx, userID, profileNotifications)
	if err != nil {
		return nil, err
	}
	unread, err := s.notifications.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Profile{User: user, Notifications: recent, UnreadCount: unread}, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, in ProfileInput) (*models.User, error) {
	user, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		email := normalizeEmail(in.Email)
		if err := s.checkEmailFree(ctx, email, user.ID); err != nil {
			return nil, err
		}
		user.Email = email
	}
	if in.AvatarURL != nil {
		user.AvatarURL = in.AvatarURL
	}

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

func (s *service) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) (utils.TokenPair, error) {
	user, err := s.user(ctx, userID)
	if err != nil {
		return utils.TokenPair{}, err
	}
	if !utils.CheckPassword(user.PasswordHash, current) {
		return utils.TokenPair{}, ErrWrongPassword
	}

	hash, err := utils.HashPassword(next)
	if err != nil {
		return utils.TokenPair{}, err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return utils.TokenPair{}, ErrUserNotFound
		}
		return utils.TokenPair{}, err
	}

	// Reload for the bumped token version.
	user, err = s.user(ctx, userID)
	if err != nil {
		return utils.TokenPair{}, err
	}

	s.log.Info("password changed", zap.String("user_id", user.ID.String()))
	return s.tokens.GenerateTokens(user)
}

func (s *service) Stats(ctx context.Context, userID uuid.UUID) (*models.UserStats, error) {
	var (
		stats models.UserStats
		err   error
	)
	if stats.TotalTransactions, err = s.transactions.CountByParty(ctx, userID, ""); err != nil {
		return nil, err
	}
	if stats.CompletedTransactions, err = s.transactions.CountByParty(ctx, userID, models.StatusCompleted); err != nil {
		return nil, err
	}
	if stats.TotalDisputes, err = s.disputes.CountByParty(ctx, userID); err != nil {
		return nil, err
	}
	if stats.UnreadNotifications, err = s.notifications.CountUnread(ctx, userID); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *service) user(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// checkEmailFree fails when email belongs to a user other than self.
func (s *service) checkEmailFree(ctx context.Context, email *string, self uuid.UUID) error {
	if email == nil {
		return nil
	}
	existing, err := s.users.GetByEmail(ctx, *email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != self {
		return ErrEmailTaken
	}
	return nil
}

func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	e := strings.ToLower(strings.TrimSpace(*email))
	if e == "" {
		return nil
	}
	return &e
}
