package dispute

import (
	"strings"

	apperrors "safetrade/internal/errors"
	"safetrade/internal/models"
)

var nextStatuses = map[models.DisputeStatus][]models.DisputeStatus{
	models.DisputePending:       {models.DisputeInvestigating, models.DisputeResolved, models.DisputeRejected},
	models.DisputeInvestigating: {models.DisputeResolved, models.DisputeRejected},
}

var disputable = map[models.TransactionStatus]bool{
	models.StatusPaid:      true,
	models.StatusShipping:  true,
	models.StatusCompleted: true,
}

// validateDecision checks an admin decision against d's current state.
func validateDecision(d *models.Dispute, in UpdateInput) error {
	if d.Status.Closed() {
		return ErrDisputeClosed
	}
	if in.Status == nil {
		if in.Winner != nil {
			return ErrWinnerNotAllowed
		}
		return nil
	}

	to := *in.Status
	if !to.Valid() {
		return apperrors.Validation("Invalid status",
			apperrors.FieldError{Field: "status", Message: "status is not a known dispute status", Value: to})
	}
	legal := false
	for _, next := range nextStatuses[d.Status] {
		if next == to {
			legal = true
			break
		}
	}
	if !legal {
		return apperrors.InvalidTransition(string(d.Status), string(to))
	}

	response := in.AdminResponse
	if response == nil {
		response = d.AdminResponse
	}
	hasResponse := response != nil && strings.TrimSpace(*response) != ""

	switch to {
	case models.DisputeResolved:
		if in.Winner == nil {
			return ErrWinnerRequired
		}
		if !hasResponse {
			return ErrResponseRequired
		}
	case models.DisputeRejected:
		if in.Winner != nil {
			return ErrWinnerNotAllowed
		}
		if !hasResponse {
			return ErrResponseRequired
		}
	default:
		if in.Winner != nil {
			return ErrWinnerNotAllowed
		}
	}
	return nil
}

// settlement is the status the parent transaction takes when d closes.
func settlement(d *models.Dispute) models.TransactionStatus {
	if d.Status == models.DisputeResolved && d.Winner != nil && *d.Winner == models.WinnerBuyer {
		return models.StatusRefunded
	}
	return models.StatusCompleted
}
