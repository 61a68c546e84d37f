package transaction

import apperrors "safetrade/internal/errors"

// Service errors
var (
	ErrTransactionNotFound = apperrors.NotFound("Transaction not found")
	ErrSellerNotFound      = apperrors.NotFound("Seller not found")
	ErrRoomNotFound        = apperrors.NotFound("Room not found")
	ErrNotASeller          = apperrors.Validation("User is not a seller")
	ErrSellerInactive      = apperrors.Validation("Seller account is inactive")
	ErrSelfTransaction     = apperrors.Validation("You cannot create a transaction with yourself")
	ErrRoomInactive        = apperrors.Validation("Room is not active")
	ErrBuyerOnly           = apperrors.Forbidden("Only buyers can create transactions")
	ErrAccessDenied        = apperrors.Forbidden("Access denied")
	ErrCannotUpdate        = apperrors.Forbidden("You cannot update this transaction")
	ErrNotCancellable      = apperrors.InvalidState("Transaction cannot be cancelled at this stage")
	ErrNothingToUpdate     = apperrors.Validation("No changes supplied")
)
