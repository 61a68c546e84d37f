package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransactionHistory rows are written once per status change and never updated.
type TransactionHistory struct {
	ID            uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	TransactionID uuid.UUID          `gorm:"type:uuid;not null;index" json:"transactionId"`
	StatusFrom    *TransactionStatus `gorm:"type:varchar(32)" json:"statusFrom"`
	StatusTo      TransactionStatus  `gorm:"type:varchar(32);not null" json:"statusTo"`
	ChangedBy     uuid.UUID          `gorm:"type:uuid;not null" json:"changedBy"`
	Changer       *User              `gorm:"foreignKey:ChangedBy" json:"changer,omitempty"`
	Notes         *string            `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time          `json:"createdAt"`
}

func (TransactionHistory) TableName() string {
	return "transaction_history"
}

func (h *TransactionHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}
