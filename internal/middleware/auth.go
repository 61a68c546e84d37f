// Package middleware provides the fiber middleware shared by the API routes:
// authentication, role checks, maintenance mode and error translation.
package middleware

import (
	"errors"
	"strings"

	apperrors "safetrade/internal/errors"
	"safetrade/internal/models"
	"safetrade/internal/repositories"
	"safetrade/internal/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	localsClaims = "claims"
	localsUser   = "user"

	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

var (
	errTokenMissing   = apperrors.Unauthorized("Access token is required")
	errTokenInvalid   = apperrors.Unauthorized("Invalid or expired token")
	errUserMissing    = apperrors.Unauthorized("User not found")
	errUserInactive   = apperrors.Unauthorized("Account is deactivated")
	errSessionExpired = apperrors.Unauthorized("Session expired, please log in again")
	errForbidden      = apperrors.Forbidden("Insufficient permissions")
)

// AuthMiddleware resolves the access token of a request to an active user.
type AuthMiddleware struct {
	tokens *utils.TokenManager
	users  repositories.UserRepository
	log    *zap.Logger
}

func NewAuthMiddleware(tokens *utils.TokenManager, users repositories.UserRepository, log *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users, log: log}
}

// Handler validates the token and stores the claims and user in the request locals.
// The token is read from the Authorization header, then from the access_token cookie.
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	raw := bearerToken(c)
	if raw == "" {
		return errTokenMissing
	}

	claims, err := m.tokens.ParseAccessToken(raw)
	if err != nil {
		return errTokenInvalid.Wrap(err)
	}

	user, err := m.users.GetByID(c.UserContext(), claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return errUserMissing
		}
		return err
	}
	if !user.IsActive {
		return errUserInactive
	}

	// Check if the token was issued before the last logout
	if claims.TokenVersion != user.TokenVersion {
		m.log.Debug("token version mismatch",
			zap.String("user_id", user.ID.String()),
			zap.Int("token_version", claims.TokenVersion),
			zap.Int("current_version", user.TokenVersion),
		)
		return errSessionExpired
	}

	c.Locals(localsClaims, claims)
	c.Locals(localsUser, user)
	return c.Next()
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return c.Cookies(AccessTokenCookie)
}

// RequireRole rejects authenticated callers whose role is not one of roles.
func RequireRole(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := ClaimsFrom(c)
		if !ok {
			return errTokenMissing
		}
		if !claims.HasRole(roles...) {
			return errForbidden
		}
		return c.Next()
	}
}

func ClaimsFrom(c *fiber.Ctx) (*models.UserClaims, bool) {
	claims, ok := c.Locals(localsClaims).(*models.UserClaims)
	return claims, ok && claims != nil
}

// ActorFrom returns the authenticated caller. Only call it behind AuthMiddleware.
func ActorFrom(c *fiber.Ctx) models.Actor {
	claims, ok := ClaimsFrom(c)
	if !ok {
		return models.Actor{}
	}
	return claims.Actor()
}

func UserFrom(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(localsUser).(*models.User)
	return user, ok && user != nil
}
