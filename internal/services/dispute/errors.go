package dispute

import apperrors "safetrade/internal/errors"

var (
	ErrDisputeNotFound     = apperrors.NotFound("Dispute not found")
	ErrTransactionNotFound = apperrors.NotFound("Transaction not found")
	ErrBuyerOnly           = apperrors.Forbidden("Only buyers can open disputes")
	ErrNotTransactionBuyer = apperrors.Forbidden("Only the buyer of this transaction can open a dispute")
	ErrAccessDenied        = apperrors.Forbidden("Access denied")
	ErrAdminOnly           = apperrors.Forbidden("Only administrators can change the dispute status")
	ErrNotDisputable       = apperrors.InvalidState("Disputes can only be opened for paid, shipping or completed transactions")
	ErrDisputeExists       = apperrors.Conflict("A dispute already exists for this transaction")
	ErrNotEditable         = apperrors.InvalidState("Dispute can only be edited while pending")
	ErrDisputeClosed       = apperrors.InvalidState("Dispute is already closed")
	ErrNothingToUpdate     = apperrors.Validation("No changes supplied")
)

var (
	ErrWinnerRequired = apperrors.Validation("Winner is required to resolve a dispute",
		apperrors.FieldError{Field: "winner", Message: "winner is required"})
	ErrResponseRequired = apperrors.Validation("Admin response is required",
		apperrors.FieldError{Field: "adminResponse", Message: "adminResponse is required"})
	ErrWinnerNotAllowed = apperrors.Validation("Winner can only be set when resolving",
		apperrors.FieldError{Field: "winner", Message: "winner is only accepted with status resolved"})
)
