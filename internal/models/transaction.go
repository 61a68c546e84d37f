package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type TransactionStatus string

const (
	StatusPendingSeller  TransactionStatus = "PENDING_SELLER"
	StatusPendingPayment TransactionStatus = "PENDING_PAYMENT"
	StatusPaid           TransactionStatus = "PAID"
	StatusShipping       TransactionStatus = "SHIPPING"
	StatusCompleted      TransactionStatus = "COMPLETED"
	StatusDisputed       TransactionStatus = "DISPUTED"
	StatusCancelled      TransactionStatus = "CANCELLED"
	StatusRefunded       TransactionStatus = "REFUNDED"
)

// TransactionStatuses lists every status in lifecycle order.
var TransactionStatuses = []TransactionStatus{
	StatusPendingSeller,
	StatusPendingPayment,
	StatusPaid,
	StatusShipping,
	StatusCompleted,
	StatusDisputed,
	StatusCancelled,
	StatusRefunded,
}

func (s TransactionStatus) Valid() bool {
	for _, st := range TransactionStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// Terminal statuses accept no further changes.
func (s TransactionStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusRefunded
}

type Transaction struct {
	Base
	BuyerID            uuid.UUID         `gorm:"type:uuid;not null;index" json:"buyerId"`
	Buyer              *User             `gorm:"foreignKey:BuyerID" json:"buyer,omitempty"`
	SellerID           uuid.UUID         `gorm:"type:uuid;not null;index" json:"sellerId"`
	Seller             *User             `gorm:"foreignKey:SellerID" json:"seller,omitempty"`
	RoomID             *uuid.UUID        `gorm:"type:uuid;index" json:"roomId"`
	Room               *Room             `gorm:"foreignKey:RoomID" json:"room,omitempty"`
	ProductName        string            `gorm:"size:500;not null" json:"productName"`
	ProductDescription *string           `gorm:"type:text" json:"productDescription"`
	Amount             decimal.Decimal   `gorm:"type:numeric(15,2);not null" json:"amount"`
	FeePercentage      decimal.Decimal   `gorm:"type:numeric(5,2);not null" json:"feePercentage"`
	FeeAmount          decimal.Decimal   `gorm:"type:numeric(15,2);not null" json:"feeAmount"`
	SellerAmount       decimal.Decimal   `gorm:"type:numeric(15,2);not null" json:"sellerAmount"`
	Status             TransactionStatus `gorm:"type:varchar(32);not null;default:'PENDING_SELLER';index" json:"status"`
	Notes              *string           `gorm:"type:text" json:"notes"`
	PaymentMethod      *string           `gorm:"size:50" json:"paymentMethod"`
	PaymentReference   *string           `gorm:"size:255" json:"paymentReference"`
	ShippingInfo       datatypes.JSONMap `gorm:"type:jsonb" json:"shippingInfo"`
	CompletedAt        *time.Time        `json:"completedAt"`

	History []TransactionHistory `gorm:"foreignKey:TransactionID" json:"history,omitempty"`
}

// PartyRole returns the role userID plays in the transaction, or "" when it is not a party.
func (t *Transaction) PartyRole(userID uuid.UUID) Role {
	switch userID {
	case t.BuyerID:
		return RoleBuyer
	case t.SellerID:
		return RoleSeller
	}
	return ""
}

func (t *Transaction) IsParty(userID uuid.UUID) bool {
	return t.PartyRole(userID) != ""
}

// Counterparty returns the other side of userID.
func (t *Transaction) Counterparty(userID uuid.UUID) uuid.UUID {
	if userID == t.BuyerID {
		return t.SellerID
	}
	return t.BuyerID
}
