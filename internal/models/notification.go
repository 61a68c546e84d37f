package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type NotificationType string

const (
	NotificationWelcome              NotificationType = "welcome"
	NotificationNewTransaction       NotificationType = "new_transaction"
	NotificationTransactionConfirmed NotificationType = "transaction_confirmed"
	NotificationPaymentReceived      NotificationType = "payment_received"
	NotificationItemShipped          NotificationType = "item_shipped"
	NotificationTransactionCompleted NotificationType = "transaction_completed"
	NotificationTransactionCancelled NotificationType = "transaction_cancelled"
	NotificationDisputeOpened        NotificationType = "dispute_opened"
	NotificationDisputeResolved      NotificationType = "dispute_resolved"
)

type Notification struct {
	Base
	UserID  uuid.UUID         `gorm:"type:uuid;not null;index:idx_notification_user_read" json:"userId"`
	Type    NotificationType  `gorm:"type:varchar(50);not null" json:"type"`
	Title   string            `gorm:"size:255;not null" json:"title"`
	Message string            `gorm:"type:text;not null" json:"message"`
	Data    datatypes.JSONMap `gorm:"type:jsonb" json:"data"`
	IsRead  bool              `gorm:"not null;default:false;index:idx_notification_user_read" json:"isRead"`
	ReadAt  *time.Time        `json:"readAt"`
}
