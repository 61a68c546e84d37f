package transaction

import (
	"safetrade/internal/events"
	"safetrade/internal/models"

	"github.com/google/uuid"
)

func createdEvent(txn *models.Transaction) events.Event {
	var roomID *string
	if txn.RoomID != nil {
		id := txn.RoomID.String()
		roomID = &id
	}
	return events.Event{
		Type: events.TypeTransactionCreated,
		Key:  txn.ID.String(),
		Payload: events.TransactionCreatedPayload{
			TransactionID: txn.ID.String(),
			BuyerID:       txn.BuyerID.String(),
			SellerID:      txn.SellerID.String(),
			RoomID:        roomID,
			Amount:        txn.Amount.String(),
			FeeAmount:     txn.FeeAmount.String(),
			Status:        string(txn.Status),
		},
	}
}

// StatusChangedEvent describes one accepted status transition.
func StatusChangedEvent(id uuid.UUID, from, to models.TransactionStatus, changedBy uuid.UUID, notes *string) events.Event {
	return events.Event{
		Type: events.TypeTransactionStatusChanged,
		Key:  id.String(),
		Payload: events.StatusChangedPayload{
			TransactionID: id.String(),
			From:          string(from),
			To:            string(to),
			ChangedBy:     changedBy.String(),
			Notes:         notes,
		},
	}
}
