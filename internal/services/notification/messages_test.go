package notification

import (
	"testing"

	"safetrade/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForStatus(t *testing.T) {
	txn := &models.Transaction{BuyerID: uuid.New(), SellerID: uuid.New()}
	txn.ID = uuid.New()

	tests := []struct {
		status     models.TransactionStatus
		recipients []uuid.UUID
		typ        models.NotificationType
	}{
		{models.StatusPendingPayment, []uuid.UUID{txn.BuyerID}, models.NotificationTransactionConfirmed},
		{models.StatusPaid, []uuid.UUID{txn.SellerID}, models.NotificationPaymentReceived},
		{models.StatusShipping, []uuid.UUID{txn.BuyerID}, models.NotificationItemShipped},
		{models.StatusCompleted, []uuid.UUID{txn.BuyerID, txn.SellerID}, models.NotificationTransactionCompleted},
		{models.StatusDisputed, nil, ""},
		{models.StatusRefunded, nil, ""},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			got := ForStatus(txn, tt.status)
			require.Len(t, got, len(tt.recipients))
			for i, n := range got {
				assert.Equal(t, tt.recipients[i], n.UserID)
				assert.Equal(t, tt.typ, n.Type)
				assert.Equal(t, txn.ID.String(), n.Data["transactionId"])
			}
		})
	}
}

func TestCancelled_DefaultReason(t *testing.T) {
	txn := &models.Transaction{}
	txn.ID = uuid.New()
	recipient := uuid.New()

	n := Cancelled(txn, recipient, "")
	assert.Equal(t, recipient, n.UserID)
	assert.Equal(t, models.NotificationTransactionCancelled, n.Type)
	assert.Contains(t, n.Message, defaultCancelReason)
}

func TestDisputeClosed_NotifiesBothParties(t *testing.T) {
	d := &models.Dispute{ComplainantID: uuid.New(), RespondentID: uuid.New(), Status: models.DisputeRejected, Title: "Broken screen"}
	got := DisputeClosed(d)
	require.Len(t, got, 2)
	assert.Equal(t, d.ComplainantID, got[0].UserID)
	assert.Equal(t, d.RespondentID, got[1].UserID)
	assert.Equal(t, "Dispute rejected", got[0].Title)
}
