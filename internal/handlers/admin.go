package handlers

import (
	"safetrade/internal/middleware"
	"safetrade/internal/services/settings"
	"safetrade/internal/utils/response"
	"safetrade/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler serves the system settings pages of the admin console.
type AdminHandler struct {
	settingsService settings.Service
	validator       *validation.Validator
}

func NewAdminHandler(settingsService settings.Service, validator *validation.Validator) *AdminHandler {
	return &AdminHandler{settingsService: settingsService, validator: validator}
}

type updateSettingRequest struct {
	SettingValue string  `json:"settingValue" validate:"required,max=5000"`
	Description  *string `json:"description" validate:"omitempty,max=1000"`
}

func (h *AdminHandler) ListSettings(c *fiber.Ctx) error {
	items, err := h.settingsService.List(c.UserContext())
	if err != nil {
		return err
	}
	return response.Success(c, "", fiber.Map{"settings": items})
}

func (h *AdminHandler) UpdateSetting(c *fiber.Ctx) error {
	var req updateSettingRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	s, err := h.settingsService.Set(c.UserContext(), c.Params("key"), req.SettingValue, req.Description, middleware.ActorFrom(c).UserID)
	if err != nil {
		return err
	}
	return response.Success(c, "Setting updated successfully", fiber.Map{"setting": s})
}
