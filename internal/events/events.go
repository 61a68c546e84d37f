// Package events publishes domain events about transactions and disputes
// after the database work that produced them has committed.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	TypeTransactionCreated       = "transaction.created"
	TypeTransactionStatusChanged = "transaction.status_changed"
	TypeDisputeOpened            = "dispute.opened"
	TypeDisputeResolved          = "dispute.resolved"

	envelopeVersion = 1
	producerName    = "safetrade-api"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// Event is what services hand to a Publisher. Key selects the partition and is
// the transaction id for every event type so one transaction stays ordered.
type Event struct {
	Type    string
	Key     string
	Payload any
}

type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
	Close() error
}

type TransactionCreatedPayload struct {
	TransactionID string  `json:"transaction_id"`
	BuyerID       string  `json:"buyer_id"`
	SellerID      string  `json:"seller_id"`
	RoomID        *string `json:"room_id,omitempty"`
	Amount        string  `json:"amount"`
	FeeAmount     string  `json:"fee_amount"`
	Status        string  `json:"status"`
}

type StatusChangedPayload struct {
	TransactionID string  `json:"transaction_id"`
	From          string  `json:"from"`
	To            string  `json:"to"`
	ChangedBy     string  `json:"changed_by"`
	Notes         *string `json:"notes,omitempty"`
}

type DisputeOpenedPayload struct {
	DisputeID     string `json:"dispute_id"`
	TransactionID string `json:"transaction_id"`
	ComplainantID string `json:"complainant_id"`
	RespondentID  string `json:"respondent_id"`
	Type          string `json:"type"`
}

type DisputeResolvedPayload struct {
	DisputeID         string  `json:"dispute_id"`
	TransactionID     string  `json:"transaction_id"`
	Status            string  `json:"status"`
	Winner            *string `json:"winner,omitempty"`
	TransactionStatus string  `json:"transaction_status"`
	AdminID           string  `json:"admin_id"`
}

// NewEnvelope wraps e with a fresh event id.
func NewEnvelope(e Event, now time.Time) (Envelope, error) {
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     e.Type,
		EventVersion:  envelopeVersion,
		OccurredAt:    now.UTC(),
		Producer:      producerName,
		CorrelationID: e.Key,
		Payload:       payload,
	}, nil
}
