package middleware

import (
	"errors"

	"safetrade/internal/config"
	apperrors "safetrade/internal/errors"
	"safetrade/internal/repositories"
	"safetrade/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler renders every error returned by a handler as the failure envelope.
// The underlying error text is only exposed in development.
func ErrorHandler(cfg *config.Config, log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, message, fields := classify(err)

		if status >= fiber.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Int("status", status),
				zap.Error(err),
			)
		}

		var detail string
		if cfg.IsDevelopment() {
			detail = err.Error()
		}
		return response.Error(c, status, message, fields, detail)
	}
}

func classify(err error) (int, string, []apperrors.FieldError) {
	if appErr, ok := apperrors.As(err); ok {
		return appErr.Status, appErr.Message, appErr.Fields
	}

	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code, fiberErr.Message, nil
	case errors.Is(err, repositories.ErrNotFound):
		return fiber.StatusNotFound, "Resource not found", nil
	case errors.Is(err, repositories.ErrDuplicate):
		return fiber.StatusConflict, "Resource already exists", nil
	}
	return fiber.StatusInternalServerError, "Internal server error", nil
}
