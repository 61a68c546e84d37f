package handlers

import (
	"safetrade/internal/config"
	"safetrade/internal/middleware"
	"safetrade/internal/models"
	"safetrade/internal/services/auth"
	"safetrade/internal/utils"
	"safetrade/internal/utils/response"
	"safetrade/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService auth.Service
	validator   *validation.Validator
	cfg         *config.Config
}

func NewAuthHandler(authService auth.Service, validator *validation.Validator, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   validator,
		cfg:         cfg,
	}
}

type registerRequest struct {
	Name     string  `json:"name" validate:"required,min=2,max=255"`
	Phone    string  `json:"phone" validate:"required,min=8,max=20,phone"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Password string  `json:"password" validate:"required,min=6,max=128"`
	Role     string  `json:"role" validate:"omitempty,oneof=buyer seller"`
}

type loginRequest struct {
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type profileRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=2,max=255"`
	Email     *string `json:"email" validate:"omitempty,email,max=255"`
	AvatarURL *string `json:"avatarUrl" validate:"omitempty,url,max=500"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=128"`
}

// Register creates an account and signs the user in
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	user, tokens, err := h.authService.Register(c.UserContext(), auth.RegisterInput{
		Name:     req.Name,
		Phone:    req.Phone,
		Email:    req.Email,
		Password: req.Password,
		Role:     models.Role(req.Role),
	})
	if err != nil {
		return err
	}

	h.setAuthCookies(c, tokens)
	return response.Created(c, "User registered successfully", authPayload(user, tokens))
}

// Login handles user authentication and returns JWT tokens
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	user, tokens, err := h.authService.Login(c.UserContext(), req.Phone, req.Password)
	if err != nil {
		return err
	}

	h.setAuthCookies(c, tokens)
	return response.Success(c, "Login successful", authPayload(user, tokens))
}

// Refresh exchanges a refresh token from the body or the refresh_token cookie for a new pair
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return auth.ErrInvalidRefreshToken
		}
	}
	token := req.RefreshToken
	if token == "" {
		token = c.Cookies(middleware.RefreshTokenCookie)
	}

	tokens, err := h.authService.Refresh(c.UserContext(), token)
	if err != nil {
		return err
	}

	h.setAuthCookies(c, tokens)
	return response.Success(c, "Token refreshed successfully", tokens)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.authService.Logout(c.UserContext(), middleware.ActorFrom(c).UserID); err != nil {
		return err
	}
	h.clearAuthCookies(c)
	return response.Success(c, "Logout successful", nil)
}

func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	profile, err := h.authService.Profile(c.UserContext(), middleware.ActorFrom(c).UserID)
	if err != nil {
		return err
	}
	return response.Success(c, "", profile)
}

func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	var req profileRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	user, err := h.authService.UpdateProfile(c.UserContext(), middleware.ActorFrom(c).UserID, auth.ProfileInput{
		Name:      req.Name,
		Email:     req.Email,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		return err
	}
	return response.Success(c, "Profile updated successfully", fiber.Map{"user": user})
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var req changePasswordRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	tokens, err := h.authService.ChangePassword(c.UserContext(), middleware.ActorFrom(c).UserID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		return err
	}

	h.setAuthCookies(c, tokens)
	return response.Success(c, "Password changed successfully", tokens)
}

func (h *AuthHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.authService.Stats(c.UserContext(), middleware.ActorFrom(c).UserID)
	if err != nil {
		return err
	}
	return response.Success(c, "", fiber.Map{"stats": stats})
}

func authPayload(user *models.User, tokens utils.TokenPair) fiber.Map {
	return fiber.Map{
		"user":         user,
		"token":        tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
		"expiresIn":    tokens.ExpiresIn,
	}
}

func (h *AuthHandler) setAuthCookies(c *fiber.Ctx, tokens utils.TokenPair) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    tokens.AccessToken,
		HTTPOnly: true,
		Secure:   h.cfg.IsProduction(),
		Path:     "/",
		SameSite: fiber.CookieSameSiteStrictMode,
		MaxAge:   int(h.cfg.JWT.AccessTTL.Seconds()),
	})

	c.Cookie(&fiber.Cookie{
		Name:     middleware.RefreshTokenCookie,
		Value:    tokens.RefreshToken,
		HTTPOnly: true,
		Secure:   h.cfg.IsProduction(),
		Path:     "/",
		SameSite: fiber.CookieSameSiteStrictMode,
		MaxAge:   int(h.cfg.JWT.RefreshTTL.Seconds()),
	})
}

func (h *AuthHandler) clearAuthCookies(c *fiber.Ctx) {
	c.ClearCookie(middleware.AccessTokenCookie, middleware.RefreshTokenCookie)
}
