package validation

import (
	"testing"

	apperrors "safetrade/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerInput struct {
	Name     string  `json:"name" validate:"required,min=2,max=255"`
	Phone    string  `json:"phone" validate:"required,phone"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password string  `json:"password" validate:"required,min=6"`
	Role     string  `json:"role" validate:"omitempty,oneof=buyer seller"`
}

func TestValidator_Struct(t *testing.T) {
	v := New()

	t.Run("valid input", func(t *testing.T) {
		err := v.Struct(registerInput{Name: "Nguyen Van A", Phone: "+84 (90) 123-4567", Password: "123456"})
		assert.NoError(t, err)
	})

	t.Run("collects every failed field by json name", func(t *testing.T) {
		bad := "not-an-email"
		err := v.Struct(registerInput{Name: "A", Phone: "09x", Email: &bad, Password: "123", Role: "admin"})
		require.Error(t, err)

		appErr, ok := apperrors.As(err)
		require.True(t, ok)
		assert.Equal(t, 400, appErr.Status)

		byField := map[string]apperrors.FieldError{}
		for _, f := range appErr.Fields {
			byField[f.Field] = f
		}
		assert.Len(t, byField, 5)
		assert.Equal(t, "name must be at least 2 characters long", byField["name"].Message)
		assert.Equal(t, "phone must be a valid phone number", byField["phone"].Message)
		assert.Equal(t, "role must be one of [buyer, seller]", byField["role"].Message)
		assert.Equal(t, "123", byField["password"].Value)
	})

	t.Run("required", func(t *testing.T) {
		err := v.Struct(registerInput{})
		appErr, ok := apperrors.As(err)
		require.True(t, ok)
		assert.Equal(t, "name is required", appErr.Fields[0].Message)
	})
}
