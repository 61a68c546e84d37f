package transaction

import (
	apperrors "safetrade/internal/errors"
	"safetrade/internal/models"
)

// nextStatuses is the legal successor table. DISPUTED successors are admin-only.
var nextStatuses = map[models.TransactionStatus][]models.TransactionStatus{
	models.StatusPendingSeller:  {models.StatusPendingPayment, models.StatusCancelled},
	models.StatusPendingPayment: {models.StatusPaid, models.StatusCancelled},
	models.StatusPaid:           {models.StatusShipping, models.StatusDisputed},
	models.StatusShipping:       {models.StatusCompleted, models.StatusDisputed},
	models.StatusDisputed:       {models.StatusCompleted, models.StatusRefunded},
}

// actingParty names the party whose turn it is in each status.
var actingParty = map[models.TransactionStatus]models.Role{
	models.StatusPendingSeller:  models.RoleSeller,
	models.StatusPendingPayment: models.RoleBuyer,
	models.StatusPaid:           models.RoleSeller,
	models.StatusShipping:       models.RoleBuyer,
}

// cancellable statuses accept the cancel entry point.
var cancellable = map[models.TransactionStatus]bool{
	models.StatusPendingSeller:  true,
	models.StatusPendingPayment: true,
}

// CanAct reports whether actor may update txn in its current status.
func CanAct(txn *models.Transaction, actor models.Actor) bool {
	if actor.IsAdmin() {
		return true
	}
	role, ok := actingParty[txn.Status]
	return ok && txn.PartyRole(actor.UserID) == role
}

// NextStatuses returns the statuses actor may set from txn's current status.
func NextStatuses(txn *models.Transaction, actor models.Actor) []models.TransactionStatus {
	if !CanAct(txn, actor) {
		return nil
	}
	if txn.Status == models.StatusDisputed && !actor.IsAdmin() {
		return nil
	}
	return nextStatuses[txn.Status]
}

// ValidateTransition checks that actor may move txn to status.
func ValidateTransition(txn *models.Transaction, actor models.Actor, status models.TransactionStatus) error {
	if !status.Valid() {
		return apperrors.Validation("Invalid status",
			apperrors.FieldError{Field: "status", Message: "status is not a known transaction status", Value: status})
	}
	if txn.Status.Terminal() {
		return apperrors.InvalidTransition(string(txn.Status), string(status))
	}
	if !CanAct(txn, actor) {
		return ErrCannotUpdate
	}
	for _, next := range NextStatuses(txn, actor) {
		if next == status {
			return nil
		}
	}
	return apperrors.InvalidTransition(string(txn.Status), string(status))
}

// validateEdit guards updates that change fields other than status.
func validateEdit(txn *models.Transaction, actor models.Actor) error {
	if txn.Status.Terminal() {
		return apperrors.InvalidState("Transaction is " + string(txn.Status) + " and can no longer be updated")
	}
	if !CanAct(txn, actor) {
		return ErrCannotUpdate
	}
	return nil
}
