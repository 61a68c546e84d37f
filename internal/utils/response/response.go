package response

import (
	apperrors "safetrade/internal/errors"
	"safetrade/internal/utils/pagination"

	"github.com/gofiber/fiber/v2"
)

// Envelope is the shape of every API response.
type Envelope struct {
	Success    bool                   `json:"success"`
	Message    string                 `json:"message,omitempty"`
	Data       interface{}            `json:"data,omitempty"`
	Errors     []apperrors.FieldError `json:"errors,omitempty"`
	Pagination *pagination.Meta       `json:"pagination,omitempty"`
	Error      string                 `json:"error,omitempty"`
}

func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(Envelope{Success: true, Message: message, Data: data})
}

func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(Envelope{Success: true, Message: message, Data: data})
}

func Paginated(c *fiber.Ctx, data interface{}, meta *pagination.Meta) error {
	return c.Status(fiber.StatusOK).JSON(Envelope{Success: true, Data: data, Pagination: meta})
}

// Error writes a failure envelope. detail is only set by the error handler in development.
func Error(c *fiber.Ctx, status int, message string, fields []apperrors.FieldError, detail string) error {
	return c.Status(status).JSON(Envelope{
		Success: false,
		Message: message,
		Errors:  fields,
		Error:   detail,
	})
}
