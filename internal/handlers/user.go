package handlers

import (
	"safetrade/internal/middleware"
	"safetrade/internal/models"
	"safetrade/internal/repositories"
	"safetrade/internal/services/user"
	"safetrade/internal/utils/pagination"
	"safetrade/internal/utils/response"
	"safetrade/internal/validation"

	"github.com/gofiber/fiber/v2"
)

var userPaging = pagination.Options{
	DefaultSort: "createdAt",
	Sortable: map[string]string{
		"createdAt": "created_at",
		"name":      "name",
		"role":      "role",
	},
}

// UserHandler serves the admin user management endpoints.
type UserHandler struct {
	userService user.Service
	validator   *validation.Validator
}

func NewUserHandler(userService user.Service, validator *validation.Validator) *UserHandler {
	return &UserHandler{userService: userService, validator: validator}
}

type setUserStatusRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	page, err := pagination.ParseFromRequest(c, userPaging)
	if err != nil {
		return err
	}
	role, err := queryOneOf(c, "role", "buyer", "seller", "admin")
	if err != nil {
		return err
	}
	status, err := queryOneOf(c, "status", "active", "inactive")
	if err != nil {
		return err
	}

	filter := repositories.UserFilter{Role: models.Role(role), Search: c.Query("search")}
	if status != "" {
		active := status == "active"
		filter.Active = &active
	}

	users, total, err := h.userService.List(c.UserContext(), filter, page)
	if err != nil {
		return err
	}
	return response.Paginated(c, users, pagination.NewMeta(page, total))
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	u, err := h.userService.Get(c.UserContext(), middleware.ActorFrom(c), id)
	if err != nil {
		return err
	}
	return response.Success(c, "", fiber.Map{"user": u})
}

func (h *UserHandler) SetStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req setUserStatusRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	u, err := h.userService.SetStatus(c.UserContext(), middleware.ActorFrom(c), id, *req.IsActive)
	if err != nil {
		return err
	}
	msg := "User deactivated successfully"
	if u.IsActive {
		msg = "User activated successfully"
	}
	return response.Success(c, msg, fiber.Map{"user": u})
}
