package handlers

import (
	"strings"

	apperrors "safetrade/internal/errors"
	"safetrade/internal/middleware"
	"safetrade/internal/models"
	"safetrade/internal/repositories"
	"safetrade/internal/services/transaction"
	"safetrade/internal/utils/pagination"
	"safetrade/internal/utils/response"
	"safetrade/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const transactionStatuses = "PENDING_SELLER PENDING_PAYMENT PAID SHIPPING COMPLETED DISPUTED CANCELLED REFUNDED"

var transactionPaging = pagination.Options{
	DefaultSort: "createdAt",
	Sortable: map[string]string{
		"createdAt": "created_at",
		"updatedAt": "updated_at",
		"amount":    "amount",
		"status":    "status",
	},
}

type TransactionHandler struct {
	transactionService transaction.Service
	validator          *validation.Validator
}

func NewTransactionHandler(transactionService transaction.Service, validator *validation.Validator) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		validator:          validator,
	}
}

type createTransactionRequest struct {
	SellerID           string          `json:"sellerId" validate:"required,uuid"`
	RoomID             *string         `json:"roomId" validate:"omitempty,uuid"`
	ProductName        string          `json:"productName" validate:"required,min=1,max=500"`
	ProductDescription *string         `json:"productDescription" validate:"omitempty,max=5000"`
	Amount             decimal.Decimal `json:"amount"`
	Notes              *string         `json:"notes" validate:"omitempty,max=1000"`
}

type updateTransactionRequest struct {
	Status           *string           `json:"status" validate:"omitempty,oneof=PENDING_SELLER PENDING_PAYMENT PAID SHIPPING COMPLETED DISPUTED CANCELLED REFUNDED"`
	Notes            *string           `json:"notes" validate:"omitempty,max=1000"`
	PaymentMethod    *string           `json:"paymentMethod" validate:"omitempty,max=50"`
	PaymentReference *string           `json:"paymentReference" validate:"omitempty,max=255"`
	ShippingInfo     datatypes.JSONMap `json:"shippingInfo"`
}

type cancelTransactionRequest struct {
	Reason *string `json:"reason" validate:"omitempty,max=1000"`
}

func (h *TransactionHandler) Create(c *fiber.Ctx) error {
	var req createTransactionRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}
	if !req.Amount.IsPositive() {
		return apperrors.Validation("Validation error",
			apperrors.FieldError{Field: "amount", Message: "amount must be a positive number", Value: req.Amount})
	}

	in := transaction.CreateInput{
		SellerID:           uuid.MustParse(req.SellerID),
		ProductName:        strings.TrimSpace(req.ProductName),
		ProductDescription: req.ProductDescription,
		Amount:             req.Amount,
		Notes:              req.Notes,
	}
	if req.RoomID != nil {
		roomID := uuid.MustParse(*req.RoomID)
		in.RoomID = &roomID
	}

	txn, err := h.transactionService.Create(c.UserContext(), middleware.ActorFrom(c), in)
	if err != nil {
		return err
	}
	return response.Created(c, "Transaction created successfully", fiber.Map{"transaction": txn})
}

// List returns the caller's transactions, optionally restricted to one side with role=buyer|seller
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	filter, page, err := transactionQuery(c)
	if err != nil {
		return err
	}

	items, total, err := h.transactionService.List(c.UserContext(), middleware.ActorFrom(c), filter, page)
	if err != nil {
		return err
	}
	return response.Paginated(c, items, pagination.NewMeta(page, total))
}

// ListAll is the admin listing over every transaction
func (h *TransactionHandler) ListAll(c *fiber.Ctx) error {
	filter, page, err := transactionQuery(c)
	if err != nil {
		return err
	}

	items, total, err := h.transactionService.ListAll(c.UserContext(), filter, page)
	if err != nil {
		return err
	}
	return response.Paginated(c, items, pagination.NewMeta(page, total))
}

func (h *TransactionHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	actor := middleware.ActorFrom(c)
	txn, err := h.transactionService.Get(c.UserContext(), actor, id)
	if err != nil {
		return err
	}
	return response.Success(c, "", fiber.Map{
		"transaction":     txn,
		"allowedStatuses": transaction.NextStatuses(txn, actor),
	})
}

func (h *TransactionHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req updateTransactionRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	in := transaction.UpdateInput{
		Notes:            req.Notes,
		PaymentMethod:    req.PaymentMethod,
		PaymentReference: req.PaymentReference,
		ShippingInfo:     req.ShippingInfo,
	}
	if req.Status != nil {
		status := models.TransactionStatus(*req.Status)
		in.Status = &status
	}

	txn, err := h.transactionService.Update(c.UserContext(), middleware.ActorFrom(c), id, in)
	if err != nil {
		return err
	}
	return response.Success(c, "Transaction updated successfully", fiber.Map{"transaction": txn})
}

func (h *TransactionHandler) Cancel(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req cancelTransactionRequest
	if len(c.Body()) > 0 {
		if err := bind(c, h.validator, &req); err != nil {
			return err
		}
	}

	var reason string
	if req.Reason != nil {
		reason = strings.TrimSpace(*req.Reason)
	}
	txn, err := h.transactionService.Cancel(c.UserContext(), middleware.ActorFrom(c), id, reason)
	if err != nil {
		return err
	}
	return response.Success(c, "Transaction cancelled successfully", fiber.Map{"transaction": txn})
}

func (h *TransactionHandler) Statistics(c *fiber.Ctx) error {
	from, err := queryTime(c, "startDate")
	if err != nil {
		return err
	}
	to, err := queryTime(c, "endDate")
	if err != nil {
		return err
	}

	stats, err := h.transactionService.Statistics(c.UserContext(), transaction.StatisticsRange{From: from, To: to})
	if err != nil {
		return err
	}
	return response.Success(c, "", fiber.Map{"statistics": stats})
}

func transactionQuery(c *fiber.Ctx) (repositories.TransactionFilter, pagination.Params, error) {
	var filter repositories.TransactionFilter

	page, err := pagination.ParseFromRequest(c, transactionPaging)
	if err != nil {
		return filter, page, err
	}

	role, err := queryOneOf(c, "role", string(models.RoleBuyer), string(models.RoleSeller))
	if err != nil {
		return filter, page, err
	}
	status, err := queryOneOf(c, "status", strings.Fields(transactionStatuses)...)
	if err != nil {
		return filter, page, err
	}
	filter.Role = models.Role(role)
	filter.Status = models.TransactionStatus(status)
	filter.Search = strings.TrimSpace(c.Query("search"))

	if filter.StartDate, err = queryTime(c, "startDate"); err != nil {
		return filter, page, err
	}
	if filter.EndDate, err = queryTime(c, "endDate"); err != nil {
		return filter, page, err
	}
	if filter.MinAmount, err = queryDecimal(c, "minAmount"); err != nil {
		return filter, page, err
	}
	if filter.MaxAmount, err = queryDecimal(c, "maxAmount"); err != nil {
		return filter, page, err
	}
	return filter, page, nil
}
