package dispute

import (
	"context"

	"safetrade/internal/models"

	"github.com/google/uuid"
)

// StatusApplier moves the parent transaction inside the caller's database transaction.
type StatusApplier interface {
	ApplyStatus(ctx context.Context, txn *models.Transaction, to models.TransactionStatus, changedBy uuid.UUID, notes *string) error
}

type Notifier interface {
	Notify(ctx context.Context, notifications ...*models.Notification) error
}

type CreateInput struct {
	TransactionID     uuid.UUID
	Type              models.DisputeType
	Title             string
	Description       string
	ResolutionRequest models.ResolutionRequest
}

// UpdateInput holds complainant edits (Type, Title, Description, ResolutionRequest)
// and admin decisions (Status, Winner, AdminResponse).
type UpdateInput struct {
	Type              *models.DisputeType
	Title             *string
	Description       *string
	ResolutionRequest *models.ResolutionRequest

	Status        *models.DisputeStatus
	Winner        *models.DisputeWinner
	AdminResponse *string
}

func (in UpdateInput) hasDecision() bool {
	return in.Status != nil || in.Winner != nil || in.AdminResponse != nil
}

func (in UpdateInput) hasEdit() bool {
	return in.Type != nil || in.Title != nil || in.Description != nil || in.ResolutionRequest != nil
}
