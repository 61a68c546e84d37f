package transaction

import (
	"time"

	"safetrade/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type CreateInput struct {
	SellerID           uuid.UUID
	RoomID             *uuid.UUID
	ProductName        string
	ProductDescription *string
	Amount             decimal.Decimal
	Notes              *string
}

// UpdateInput carries the optional fields of a transaction update. Nil fields are left unchanged.
type UpdateInput struct {
	Status           *models.TransactionStatus
	Notes            *string
	PaymentMethod    *string
	PaymentReference *string
	ShippingInfo     datatypes.JSONMap
}

func (in UpdateInput) empty() bool {
	return in.Status == nil && in.Notes == nil && in.PaymentMethod == nil &&
		in.PaymentReference == nil && in.ShippingInfo == nil
}

type StatisticsRange struct {
	From *time.Time
	To   *time.Time
}
