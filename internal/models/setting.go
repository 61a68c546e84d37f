package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	SettingDefaultFeePercentage   = "default_fee_percentage"
	SettingMinTransactionAmount   = "min_transaction_amount"
	SettingMaxTransactionAmount   = "max_transaction_amount"
	SettingDisputeAutoResolveDays = "dispute_auto_resolve_days"
	SettingMaintenanceMode        = "maintenance_mode"
)

type SystemSetting struct {
	Base
	SettingKey   string     `gorm:"size:100;uniqueIndex;not null" json:"settingKey"`
	SettingValue string     `gorm:"type:text;not null" json:"settingValue"`
	Description  *string    `gorm:"type:text" json:"description"`
	UpdatedBy    *uuid.UUID `gorm:"type:uuid" json:"updatedBy"`
}

// TransactionLimits are the effective amount bounds and fee for new transactions.
type TransactionLimits struct {
	MinAmount     decimal.Decimal
	MaxAmount     decimal.Decimal
	FeePercentage decimal.Decimal
}

// DefaultSettings are seeded on first start.
func DefaultSettings() []SystemSetting {
	desc := func(s string) *string { return &s }
	return []SystemSetting{
		{SettingKey: SettingDefaultFeePercentage, SettingValue: "2.00", Description: desc("Default platform fee percentage")},
		{SettingKey: SettingMinTransactionAmount, SettingValue: "10000", Description: desc("Minimum transaction amount")},
		{SettingKey: SettingMaxTransactionAmount, SettingValue: "1000000000", Description: desc("Maximum transaction amount")},
		{SettingKey: SettingDisputeAutoResolveDays, SettingValue: "7", Description: desc("Days before a dispute is escalated")},
		{SettingKey: SettingMaintenanceMode, SettingValue: "false", Description: desc("Reject non-admin writes while enabled")},
	}
}
