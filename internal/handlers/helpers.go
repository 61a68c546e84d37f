package handlers

import (
	"strconv"
	"time"

	apperrors "safetrade/internal/errors"
	"safetrade/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// bind parses the JSON body into dest and runs its validate tags.
func bind(c *fiber.Ctx, v *validation.Validator, dest interface{}) error {
	if err := c.BodyParser(dest); err != nil {
		return apperrors.Validation("Invalid request body").Wrap(err)
	}
	return v.Struct(dest)
}

func paramID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	raw := c.Params(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperrors.Validation("Invalid ID",
			apperrors.FieldError{Field: name, Message: name + " must be a valid GUID", Value: raw})
	}
	return id, nil
}

// queryTime accepts RFC 3339 timestamps and plain dates.
func queryTime(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, dateLayout} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, apperrors.Validation("Validation error",
		apperrors.FieldError{Field: name, Message: name + " must be a valid date", Value: raw})
}

func queryDecimal(c *fiber.Ctx, name string) (*decimal.Decimal, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return nil, apperrors.Validation("Validation error",
			apperrors.FieldError{Field: name, Message: name + " must be a non-negative number", Value: raw})
	}
	return &d, nil
}

func queryBool(c *fiber.Ctx, name string) (*bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperrors.Validation("Validation error",
			apperrors.FieldError{Field: name, Message: name + " must be true or false", Value: raw})
	}
	return &b, nil
}

// queryOneOf checks an optional enum query parameter.
func queryOneOf(c *fiber.Ctx, name string, allowed ...string) (string, error) {
	raw := c.Query(name)
	if raw == "" {
		return "", nil
	}
	for _, a := range allowed {
		if raw == a {
			return raw, nil
		}
	}
	return "", apperrors.Validation("Validation error",
		apperrors.FieldError{Field: name, Message: name + " is not an accepted value", Value: raw})
}
