package transaction

import (
	"context"

	"safetrade/internal/models"
)

// Notifier stores notifications in the database transaction carried by ctx.
type Notifier interface {
	Notify(ctx context.Context, notifications ...*models.Notification) error
}

// LimitsProvider supplies the effective amount bounds and default fee.
type LimitsProvider interface {
	TransactionLimits(ctx context.Context) (models.TransactionLimits, error)
}
