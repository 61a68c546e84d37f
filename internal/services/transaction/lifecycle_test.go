package transaction

import (
	"testing"

	apperrors "safetrade/internal/errors"
	"safetrade/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTxn(status models.TransactionStatus) *models.Transaction {
	return &models.Transaction{BuyerID: uuid.New(), SellerID: uuid.New(), Status: status}
}

func TestValidateTransition(t *testing.T) {
	admin := models.Actor{UserID: uuid.New(), Role: models.RoleAdmin}

	tests := []struct {
		name  string
		from  models.TransactionStatus
		party models.Role
		to    models.TransactionStatus
		want  string
	}{
		{"seller confirms", models.StatusPendingSeller, models.RoleSeller, models.StatusPendingPayment, ""},
		{"seller declines", models.StatusPendingSeller, models.RoleSeller, models.StatusCancelled, ""},
		{"seller skips to shipping", models.StatusPendingSeller, models.RoleSeller, models.StatusShipping, apperrors.CodeInvalidTransition},
		{"buyer acts out of turn", models.StatusPendingSeller, models.RoleBuyer, models.StatusPendingPayment, apperrors.CodeForbidden},
		{"buyer pays", models.StatusPendingPayment, models.RoleBuyer, models.StatusPaid, ""},
		{"seller cannot mark paid", models.StatusPendingPayment, models.RoleSeller, models.StatusPaid, apperrors.CodeForbidden},
		{"seller ships", models.StatusPaid, models.RoleSeller, models.StatusShipping, ""},
		{"buyer confirms receipt", models.StatusShipping, models.RoleBuyer, models.StatusCompleted, ""},
		{"buyer disputes shipment", models.StatusShipping, models.RoleBuyer, models.StatusDisputed, ""},
		{"buyer cannot refund shipment", models.StatusShipping, models.RoleBuyer, models.StatusRefunded, apperrors.CodeInvalidTransition},
		{"party cannot settle dispute", models.StatusDisputed, models.RoleBuyer, models.StatusRefunded, apperrors.CodeForbidden},
		{"admin refunds dispute", models.StatusDisputed, models.RoleAdmin, models.StatusRefunded, ""},
		{"admin completes dispute", models.StatusDisputed, models.RoleAdmin, models.StatusCompleted, ""},
		{"admin follows table", models.StatusPendingSeller, models.RoleAdmin, models.StatusCompleted, apperrors.CodeInvalidTransition},
		{"completed is terminal", models.StatusCompleted, models.RoleAdmin, models.StatusRefunded, apperrors.CodeInvalidTransition},
		{"cancelled is terminal", models.StatusCancelled, models.RoleBuyer, models.StatusPendingSeller, apperrors.CodeInvalidTransition},
		{"unknown status", models.StatusPaid, models.RoleSeller, models.TransactionStatus("LOST"), apperrors.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := newTxn(tt.from)
			actor := admin
			switch tt.party {
			case models.RoleBuyer:
				actor = models.Actor{UserID: txn.BuyerID, Role: models.RoleBuyer}
			case models.RoleSeller:
				actor = models.Actor{UserID: txn.SellerID, Role: models.RoleSeller}
			}

			err := ValidateTransition(txn, actor, tt.to)
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			appErr, ok := apperrors.As(err)
			require.True(t, ok, "expected app error, got %v", err)
			assert.Equal(t, tt.want, appErr.Code)
		})
	}
}

func TestValidateTransition_MessageNamesPair(t *testing.T) {
	txn := newTxn(models.StatusPendingSeller)
	err := ValidateTransition(txn, models.Actor{UserID: txn.SellerID, Role: models.RoleSeller}, models.StatusShipping)
	require.Error(t, err)
	assert.Equal(t, "Cannot change status from PENDING_SELLER to SHIPPING", err.Error())
}

func TestNextStatuses_StrangerGetsNothing(t *testing.T) {
	txn := newTxn(models.StatusPaid)
	assert.Empty(t, NextStatuses(txn, models.Actor{UserID: uuid.New(), Role: models.RoleSeller}))
	assert.Equal(t,
		[]models.TransactionStatus{models.StatusShipping, models.StatusDisputed},
		NextStatuses(txn, models.Actor{UserID: txn.SellerID, Role: models.RoleSeller}))
}

func TestCalculateFee(t *testing.T) {
	tests := []struct {
		amount, pct, fee, seller string
	}{
		{"25000000", "2.00", "500000", "24500000"},
		{"10001", "2.5", "250.03", "9750.97"},
		{"10000", "0", "0", "10000"},
		{"10000", "100", "10000", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.amount+"@"+tt.pct, func(t *testing.T) {
			fee, seller := CalculateFee(decimal.RequireFromString(tt.amount), decimal.RequireFromString(tt.pct))
			assert.True(t, fee.Equal(decimal.RequireFromString(tt.fee)), "fee %s", fee)
			assert.True(t, seller.Equal(decimal.RequireFromString(tt.seller)), "seller %s", seller)
		})
	}
}
