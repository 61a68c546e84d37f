package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"safetrade/internal/config"
	apperrors "safetrade/internal/errors"
	"safetrade/internal/middleware"
	"safetrade/internal/mocks"
	"safetrade/internal/models"
	"safetrade/internal/repositories"
	"safetrade/internal/utils"
	"safetrade/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(env string) *config.Config {
	return &config.Config{
		Env: env,
		JWT: config.JWTConfig{
			Secret:        "access-secret",
			RefreshSecret: "refresh-secret",
			AccessTTL:     15 * time.Minute,
			RefreshTTL:    time.Hour,
			Issuer:        "safetrade-test",
		},
	}
}

func newApp(cfg *config.Config) *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(cfg, zap.NewNop())})
}

func decode(t *testing.T, resp *http.Response) response.Envelope {
	t.Helper()
	var env response.Envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env
}

func activeUser(role models.Role) *models.User {
	u := &models.User{Phone: "0901234567", Role: role, IsActive: true, TokenVersion: 1}
	u.ID = uuid.New()
	return u
}

func TestAuthMiddleware(t *testing.T) {
	cfg := testConfig("test")
	tokens := utils.NewTokenManager(cfg)

	setup := func(users *mocks.UserRepository) *fiber.App {
		app := newApp(cfg)
		auth := middleware.NewAuthMiddleware(tokens, users, zap.NewNop())
		app.Get("/me", auth.Handler, func(c *fiber.Ctx) error {
			return c.SendString(middleware.ActorFrom(c).UserID.String())
		})
		app.Get("/admin", auth.Handler, middleware.RequireRole(models.RoleAdmin), func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusNoContent)
		})
		return app
	}

	t.Run("missing token", func(t *testing.T) {
		resp, err := setup(&mocks.UserRepository{}).Test(httptest.NewRequest(http.MethodGet, "/me", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		assert.False(t, decode(t, resp).Success)
	})

	t.Run("valid bearer token", func(t *testing.T) {
		users := &mocks.UserRepository{}
		u := activeUser(models.RoleBuyer)
		users.On("GetByID", mock.Anything, u.ID).Return(u, nil)
		pair, err := tokens.GenerateTokens(u)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		resp, err := setup(users).Test(req)

		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("cookie token", func(t *testing.T) {
		users := &mocks.UserRepository{}
		u := activeUser(models.RoleSeller)
		users.On("GetByID", mock.Anything, u.ID).Return(u, nil)
		pair, err := tokens.GenerateTokens(u)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: middleware.AccessTokenCookie, Value: pair.AccessToken})
		resp, err := setup(users).Test(req)

		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("revoked token", func(t *testing.T) {
		users := &mocks.UserRepository{}
		u := activeUser(models.RoleBuyer)
		pair, err := tokens.GenerateTokens(u)
		require.NoError(t, err)
		bumped := *u
		bumped.TokenVersion = 2
		users.On("GetByID", mock.Anything, u.ID).Return(&bumped, nil)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		resp, err := setup(users).Test(req)

		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("deactivated user", func(t *testing.T) {
		users := &mocks.UserRepository{}
		u := activeUser(models.RoleBuyer)
		pair, err := tokens.GenerateTokens(u)
		require.NoError(t, err)
		inactive := *u
		inactive.IsActive = false
		users.On("GetByID", mock.Anything, u.ID).Return(&inactive, nil)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		resp, err := setup(users).Test(req)

		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("role required", func(t *testing.T) {
		users := &mocks.UserRepository{}
		u := activeUser(models.RoleSeller)
		users.On("GetByID", mock.Anything, u.ID).Return(u, nil)
		pair, err := tokens.GenerateTokens(u)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		resp, err := setup(users).Test(req)

		require.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})
}

type maintenanceFlag bool

func (m maintenanceFlag) MaintenanceMode(context.Context) bool { return bool(m) }

func TestMaintenance(t *testing.T) {
	setup := func(on bool, role models.Role) *fiber.App {
		app := newApp(testConfig("test"))
		withClaims := func(c *fiber.Ctx) error {
			if role != "" {
				c.Locals("claims", &models.UserClaims{UserID: uuid.New(), Role: role})
			}
			return c.Next()
		}
		ok := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) }
		app.Use(withClaims, middleware.Maintenance(maintenanceFlag(on)))
		app.Get("/api/transactions", ok)
		app.Post("/api/transactions", ok)
		app.Post("/api/auth/login", ok)
		return app
	}

	tests := []struct {
		name   string
		on     bool
		role   models.Role
		method string
		path   string
		want   int
	}{
		{"off", false, models.RoleBuyer, http.MethodPost, "/api/transactions", fiber.StatusNoContent},
		{"buyer write blocked", true, models.RoleBuyer, http.MethodPost, "/api/transactions", fiber.StatusServiceUnavailable},
		{"reads allowed", true, models.RoleBuyer, http.MethodGet, "/api/transactions", fiber.StatusNoContent},
		{"admin write allowed", true, models.RoleAdmin, http.MethodPost, "/api/transactions", fiber.StatusNoContent},
		{"login allowed", true, "", http.MethodPost, "/api/auth/login", fiber.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := setup(tt.on, tt.role).Test(httptest.NewRequest(tt.method, tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		err     error
		status  int
		message string
		detail  bool
	}{
		{"app error", "production", apperrors.InvalidTransition("PAID", "PENDING_SELLER"), 400, "Cannot change status from PAID to PENDING_SELLER", false},
		{"fiber error", "production", fiber.NewError(fiber.StatusMethodNotAllowed, "nope"), 405, "nope", false},
		{"not found", "production", repositories.ErrNotFound, 404, "Resource not found", false},
		{"duplicate", "production", repositories.ErrDuplicate, 409, "Resource already exists", false},
		{"unexpected hides detail", "production", errors.New("pq: connection reset"), 500, "Internal server error", false},
		{"unexpected in development", "development", errors.New("pq: connection reset"), 500, "Internal server error", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newApp(testConfig(tt.env))
			app.Get("/", func(c *fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)

			assert.Equal(t, tt.status, resp.StatusCode)
			env := decode(t, resp)
			assert.False(t, env.Success)
			assert.Equal(t, tt.message, env.Message)
			assert.Equal(t, tt.detail, env.Error != "")
		})
	}
}

func TestErrorHandler_FieldErrors(t *testing.T) {
	app := newApp(testConfig("production"))
	app.Post("/", func(c *fiber.Ctx) error {
		return apperrors.Validation("Validation error", apperrors.FieldError{Field: "amount", Message: "amount is required"})
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/", nil))
	require.NoError(t, err)

	env := decode(t, resp)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "amount", env.Errors[0].Field)
}
