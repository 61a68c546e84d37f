package auth

import apperrors "safetrade/internal/errors"

var (
	ErrInvalidCredentials  = apperrors.Unauthorized("Invalid phone number or password")
	ErrAccountInactive     = apperrors.Unauthorized("Account is deactivated")
	ErrInvalidRefreshToken = apperrors.Unauthorized("Invalid refresh token")
	ErrSessionRevoked      = apperrors.Unauthorized("Session has been revoked, please log in again")
	ErrPhoneTaken          = apperrors.Conflict("Phone number is already registered")
	ErrEmailTaken          = apperrors.Conflict("Email is already registered")
	ErrUserNotFound        = apperrors.NotFound("User not found")
	ErrRoleNotAllowed      = apperrors.Validation("Role must be buyer or seller",
		apperrors.FieldError{Field: "role", Message: "role must be one of buyer seller"})
	ErrWrongPassword = apperrors.Validation("Current password is incorrect",
		apperrors.FieldError{Field: "currentPassword", Message: "currentPassword is incorrect"})
)
