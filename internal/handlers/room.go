package handlers

import (
	"safetrade/internal/middleware"
	"safetrade/internal/models"
	"safetrade/internal/repositories"
	"safetrade/internal/services/room"
	"safetrade/internal/utils/pagination"
	"safetrade/internal/utils/response"
	"safetrade/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// Rooms are always ordered by popularity, so no other sort key is offered.
var roomPaging = pagination.Options{
	DefaultSort: "memberCount",
	Sortable:    map[string]string{"memberCount": "member_count"},
}

type RoomHandler struct {
	roomService room.Service
	validator   *validation.Validator
}

func NewRoomHandler(roomService room.Service, validator *validation.Validator) *RoomHandler {
	return &RoomHandler{roomService: roomService, validator: validator}
}

type createRoomRequest struct {
	Name        string  `json:"name" validate:"required,min=3,max=255"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	Category    string  `json:"category" validate:"required,oneof=electronics fashion home books sports other"`
	Rules       *string `json:"rules" validate:"omitempty,max=5000"`
}

type updateRoomRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=3,max=255"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	Rules       *string `json:"rules" validate:"omitempty,max=5000"`
	Status      *string `json:"status" validate:"omitempty,oneof=active inactive"`
}

func (h *RoomHandler) Create(c *fiber.Ctx) error {
	var req createRoomRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	r, err := h.roomService.Create(c.UserContext(), middleware.ActorFrom(c), room.CreateInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    models.RoomCategory(req.Category),
		Rules:       req.Rules,
	})
	if err != nil {
		return err
	}
	return response.Created(c, "Room created successfully", fiber.Map{"room": r})
}

func (h *RoomHandler) List(c *fiber.Ctx) error {
	page, err := pagination.ParseFromRequest(c, roomPaging)
	if err != nil {
		return err
	}
	category, err := queryOneOf(c, "category", "electronics", "fashion", "home", "books", "sports", "other")
	if err != nil {
		return err
	}
	status, err := queryOneOf(c, "status", "active", "inactive")
	if err != nil {
		return err
	}

	items, total, err := h.roomService.List(c.UserContext(), repositories.RoomFilter{
		Status:   models.RoomStatus(status),
		Category: models.RoomCategory(category),
		Search:   c.Query("search"),
	}, page)
	if err != nil {
		return err
	}
	return response.Paginated(c, items, pagination.NewMeta(page, total))
}

func (h *RoomHandler) Mine(c *fiber.Ctx) error {
	rooms, err := h.roomService.Mine(c.UserContext(), middleware.ActorFrom(c))
	if err != nil {
		return err
	}
	return response.Success(c, "", fiber.Map{"rooms": rooms})
}

func (h *RoomHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	r, err := h.roomService.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return response.Success(c, "", fiber.Map{"room": r})
}

func (h *RoomHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req updateRoomRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	in := room.UpdateInput{Name: req.Name, Description: req.Description, Rules: req.Rules}
	if req.Status != nil {
		s := models.RoomStatus(*req.Status)
		in.Status = &s
	}
	r, err := h.roomService.Update(c.UserContext(), middleware.ActorFrom(c), id, in)
	if err != nil {
		return err
	}
	return response.Success(c, "Room updated successfully", fiber.Map{"room": r})
}

func (h *RoomHandler) Join(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.roomService.Join(c.UserContext(), middleware.ActorFrom(c), id); err != nil {
		return err
	}
	return response.Success(c, "Joined room successfully", nil)
}

func (h *RoomHandler) Leave(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.roomService.Leave(c.UserContext(), middleware.ActorFrom(c), id); err != nil {
		return err
	}
	return response.Success(c, "Left room successfully", nil)
}
