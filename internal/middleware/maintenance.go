package middleware

import (
	"context"
	"strings"

	apperrors "safetrade/internal/errors"

	"github.com/gofiber/fiber/v2"
)

var errMaintenance = apperrors.Unavailable("The system is under maintenance, please try again later")

// maintenanceExempt paths stay writable so administrators can sign in.
var maintenanceExempt = []string{
	"/api/auth/login",
	"/api/auth/refresh",
	"/api/auth/logout",
}

type MaintenanceChecker interface {
	MaintenanceMode(ctx context.Context) bool
}

// Maintenance rejects mutating requests from non-admin callers while
// maintenance mode is on. Mount it after AuthMiddleware on protected routes.
func Maintenance(checker MaintenanceChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch c.Method() {
		case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
			return c.Next()
		}
		if claims, ok := ClaimsFrom(c); ok && claims.IsAdmin() {
			return c.Next()
		}
		for _, p := range maintenanceExempt {
			if strings.HasPrefix(c.Path(), p) {
				return c.Next()
			}
		}
		if checker.MaintenanceMode(c.UserContext()) {
			return errMaintenance
		}
		return c.Next()
	}
}
