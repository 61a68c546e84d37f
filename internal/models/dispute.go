package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DisputeType string

const (
	DisputeNotReceived DisputeType = "not_received"
	DisputeWrongItem   DisputeType = "wrong_item"
	DisputeDamaged     DisputeType = "damaged"
	DisputeFake        DisputeType = "fake"
	DisputeOther       DisputeType = "other"
)

type ResolutionRequest string

const (
	ResolutionRefund        ResolutionRequest = "refund"
	ResolutionExchange      ResolutionRequest = "exchange"
	ResolutionPartialRefund ResolutionRequest = "partial_refund"
	ResolutionOther         ResolutionRequest = "other"
)

type DisputeStatus string

const (
	DisputePending       DisputeStatus = "pending"
	DisputeInvestigating DisputeStatus = "investigating"
	DisputeResolved      DisputeStatus = "resolved"
	DisputeRejected      DisputeStatus = "rejected"
)

func (s DisputeStatus) Valid() bool {
	switch s {
	case DisputePending, DisputeInvestigating, DisputeResolved, DisputeRejected:
		return true
	}
	return false
}

func (s DisputeStatus) Closed() bool {
	return s == DisputeResolved || s == DisputeRejected
}

type DisputeWinner string

const (
	WinnerBuyer  DisputeWinner = "buyer"
	WinnerSeller DisputeWinner = "seller"
)

type DisputePriority string

const (
	PriorityLow    DisputePriority = "low"
	PriorityMedium DisputePriority = "medium"
	PriorityHigh   DisputePriority = "high"
)

var (
	HighPriorityAmount   = decimal.NewFromInt(50_000_000)
	MediumPriorityAmount = decimal.NewFromInt(20_000_000)
)

const (
	HighPriorityAge   = 7 * 24 * time.Hour
	MediumPriorityAge = 3 * 24 * time.Hour
)

// PriorityFor ranks a dispute by the disputed amount and how long it has been open.
func PriorityFor(amount decimal.Decimal, openedAt, now time.Time) DisputePriority {
	age := now.Sub(openedAt)
	switch {
	case amount.GreaterThanOrEqual(HighPriorityAmount) || age >= HighPriorityAge:
		return PriorityHigh
	case amount.GreaterThanOrEqual(MediumPriorityAmount) || age >= MediumPriorityAge:
		return PriorityMedium
	}
	return PriorityLow
}

type Dispute struct {
	Base
	TransactionID     uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex" json:"transactionId"`
	Transaction       *Transaction      `gorm:"foreignKey:TransactionID" json:"transaction,omitempty"`
	ComplainantID     uuid.UUID         `gorm:"type:uuid;not null;index" json:"complainantId"`
	Complainant       *User             `gorm:"foreignKey:ComplainantID" json:"complainant,omitempty"`
	RespondentID      uuid.UUID         `gorm:"type:uuid;not null;index" json:"respondentId"`
	Respondent        *User             `gorm:"foreignKey:RespondentID" json:"respondent,omitempty"`
	Type              DisputeType       `gorm:"type:varchar(32);not null" json:"type"`
	Title             string            `gorm:"size:500;not null" json:"title"`
	Description       string            `gorm:"type:text;not null" json:"description"`
	ResolutionRequest ResolutionRequest `gorm:"type:varchar(32);not null" json:"resolutionRequest"`
	Status            DisputeStatus     `gorm:"type:varchar(32);not null;default:'pending';index" json:"status"`
	AdminID           *uuid.UUID        `gorm:"type:uuid" json:"adminId"`
	Admin             *User             `gorm:"foreignKey:AdminID" json:"admin,omitempty"`
	AdminResponse     *string           `gorm:"type:text" json:"adminResponse"`
	Winner            *DisputeWinner    `gorm:"type:varchar(16)" json:"winner"`
	ResolvedAt        *time.Time        `json:"resolvedAt"`

	Evidence []DisputeEvidence `gorm:"foreignKey:DisputeID" json:"evidence,omitempty"`
	Priority DisputePriority   `gorm:"-" json:"priority,omitempty"`
}

// IsParty reports whether userID filed or answers the dispute.
func (d *Dispute) IsParty(userID uuid.UUID) bool {
	return d.ComplainantID == userID || d.RespondentID == userID
}
