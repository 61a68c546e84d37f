package handlers

import (
	"strings"

	"safetrade/internal/middleware"
	"safetrade/internal/models"
	"safetrade/internal/repositories"
	"safetrade/internal/services/dispute"
	"safetrade/internal/utils/pagination"
	"safetrade/internal/utils/response"
	"safetrade/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var disputePaging = pagination.Options{
	DefaultSort: "createdAt",
	Sortable: map[string]string{
		"createdAt": "disputes.created_at",
		"updatedAt": "disputes.updated_at",
		"status":    "disputes.status",
	},
}

// adminDisputePaging lists the oldest open disputes first.
var adminDisputePaging = pagination.Options{
	DefaultSort:  disputePaging.DefaultSort,
	DefaultOrder: "ASC",
	Sortable:     disputePaging.Sortable,
}

type DisputeHandler struct {
	disputeService dispute.Service
	validator      *validation.Validator
}

func NewDisputeHandler(disputeService dispute.Service, validator *validation.Validator) *DisputeHandler {
	return &DisputeHandler{disputeService: disputeService, validator: validator}
}

type createDisputeRequest struct {
	TransactionID     string `json:"transactionId" validate:"required,uuid"`
	Type              string `json:"type" validate:"required,oneof=not_received wrong_item damaged fake other"`
	Title             string `json:"title" validate:"required,min=5,max=500"`
	Description       string `json:"description" validate:"required,min=20,max=5000"`
	ResolutionRequest string `json:"resolutionRequest" validate:"required,oneof=refund exchange partial_refund other"`
}

type updateDisputeRequest struct {
	Type              *string `json:"type" validate:"omitempty,oneof=not_received wrong_item damaged fake other"`
	Title             *string `json:"title" validate:"omitempty,min=5,max=500"`
	Description       *string `json:"description" validate:"omitempty,min=20,max=5000"`
	ResolutionRequest *string `json:"resolutionRequest" validate:"omitempty,oneof=refund exchange partial_refund other"`
	Status            *string `json:"status" validate:"omitempty,oneof=pending investigating resolved rejected"`
	Winner            *string `json:"winner" validate:"omitempty,oneof=buyer seller"`
	AdminResponse     *string `json:"adminResponse" validate:"omitempty,max=5000"`
}

func (r updateDisputeRequest) input() dispute.UpdateInput {
	in := dispute.UpdateInput{
		Title:         r.Title,
		Description:   r.Description,
		AdminResponse: r.AdminResponse,
	}
	if r.Type != nil {
		t := models.DisputeType(*r.Type)
		in.Type = &t
	}
	if r.ResolutionRequest != nil {
		rr := models.ResolutionRequest(*r.ResolutionRequest)
		in.ResolutionRequest = &rr
	}
	if r.Status != nil {
		s := models.DisputeStatus(*r.Status)
		in.Status = &s
	}
	if r.Winner != nil {
		w := models.DisputeWinner(*r.Winner)
		in.Winner = &w
	}
	return in
}

func (h *DisputeHandler) Create(c *fiber.Ctx) error {
	var req createDisputeRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	d, err := h.disputeService.Create(c.UserContext(), middleware.ActorFrom(c), dispute.CreateInput{
		TransactionID:     uuid.MustParse(req.TransactionID),
		Type:              models.DisputeType(req.Type),
		Title:             strings.TrimSpace(req.Title),
		Description:       strings.TrimSpace(req.Description),
		ResolutionRequest: models.ResolutionRequest(req.ResolutionRequest),
	})
	if err != nil {
		return err
	}
	return response.Created(c, "Dispute created successfully", fiber.Map{"dispute": d})
}

// List is scoped to the caller's own disputes unless the caller is an admin
func (h *DisputeHandler) List(c *fiber.Ctx) error {
	return h.list(c, disputePaging)
}

func (h *DisputeHandler) ListAll(c *fiber.Ctx) error {
	return h.list(c, adminDisputePaging)
}

func (h *DisputeHandler) list(c *fiber.Ctx, opts pagination.Options) error {
	page, err := pagination.ParseFromRequest(c, opts)
	if err != nil {
		return err
	}
	status, err := queryOneOf(c, "status", "pending", "investigating", "resolved", "rejected")
	if err != nil {
		return err
	}
	typ, err := queryOneOf(c, "type", "not_received", "wrong_item", "damaged", "fake", "other")
	if err != nil {
		return err
	}
	priority, err := queryOneOf(c, "priority", "low", "medium", "high")
	if err != nil {
		return err
	}

	filter := repositories.DisputeFilter{
		Status:   models.DisputeStatus(status),
		Type:     models.DisputeType(typ),
		Priority: models.DisputePriority(priority),
	}
	items, total, err := h.disputeService.List(c.UserContext(), middleware.ActorFrom(c), filter, page)
	if err != nil {
		return err
	}
	return response.Paginated(c, items, pagination.NewMeta(page, total))
}

func (h *DisputeHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	d, err := h.disputeService.Get(c.UserContext(), middleware.ActorFrom(c), id)
	if err != nil {
		return err
	}
	return response.Success(c, "", fiber.Map{"dispute": d})
}

func (h *DisputeHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req updateDisputeRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	d, err := h.disputeService.Update(c.UserContext(), middleware.ActorFrom(c), id, req.input())
	if err != nil {
		return err
	}
	return response.Success(c, "Dispute updated successfully", fiber.Map{"dispute": d})
}

func (h *DisputeHandler) Assign(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	d, err := h.disputeService.Assign(c.UserContext(), middleware.ActorFrom(c), id)
	if err != nil {
		return err
	}
	return response.Success(c, "Dispute assigned successfully", fiber.Map{"dispute": d})
}

func (h *DisputeHandler) Statistics(c *fiber.Ctx) error {
	stats, err := h.disputeService.Statistics(c.UserContext())
	if err != nil {
		return err
	}
	return response.Success(c, "", fiber.Map{"statistics": stats})
}
