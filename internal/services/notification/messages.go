package notification

import (
	"fmt"

	"safetrade/internal/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const defaultCancelReason = "No reason given"

func newNotification(userID uuid.UUID, typ models.NotificationType, title, message string, data datatypes.JSONMap) *models.Notification {
	return &models.Notification{
		UserID:  userID,
		Type:    typ,
		Title:   title,
		Message: message,
		Data:    data,
	}
}

func transactionData(txn *models.Transaction) datatypes.JSONMap {
	return datatypes.JSONMap{"transactionId": txn.ID.String()}
}

func Welcome(user *models.User) *models.Notification {
	return newNotification(user.ID, models.NotificationWelcome,
		"Welcome to SafeTrade",
		fmt.Sprintf("Hi %s, your account is ready. Every payment you make is held in escrow until you confirm delivery.", user.Name),
		nil)
}

func NewTransaction(txn *models.Transaction, buyerName string) *models.Notification {
	return newNotification(txn.SellerID, models.NotificationNewTransaction,
		"New transaction awaiting confirmation",
		fmt.Sprintf("%s opened a transaction of %s VND for \"%s\".", buyerName, txn.Amount.StringFixed(0), txn.ProductName),
		transactionData(txn))
}

// ForStatus returns the notifications sent when txn enters status.
func ForStatus(txn *models.Transaction, status models.TransactionStatus) []*models.Notification {
	data := transactionData(txn)
	switch status {
	case models.StatusPendingPayment:
		return []*models.Notification{newNotification(txn.BuyerID, models.NotificationTransactionConfirmed,
			"Transaction confirmed",
			"The seller confirmed the transaction. Please pay to continue.", data)}
	case models.StatusPaid:
		return []*models.Notification{newNotification(txn.SellerID, models.NotificationPaymentReceived,
			"Payment received",
			"The buyer has paid. Please ship the item.", data)}
	case models.StatusShipping:
		return []*models.Notification{newNotification(txn.BuyerID, models.NotificationItemShipped,
			"Item shipped",
			"The seller shipped the item. Confirm once you receive it.", data)}
	case models.StatusCompleted:
		return []*models.Notification{
			newNotification(txn.BuyerID, models.NotificationTransactionCompleted,
				"Transaction completed",
				"The transaction completed successfully. Thank you for using SafeTrade.", data),
			newNotification(txn.SellerID, models.NotificationTransactionCompleted,
				"Transaction completed",
				"The transaction is complete. The funds have been released to your account.", data),
		}
	}
	return nil
}

func Cancelled(txn *models.Transaction, recipient uuid.UUID, reason string) *models.Notification {
	if reason == "" {
		reason = defaultCancelReason
	}
	return newNotification(recipient, models.NotificationTransactionCancelled,
		"Transaction cancelled",
		fmt.Sprintf("Transaction #%s was cancelled. Reason: %s", txn.ID, reason),
		transactionData(txn))
}

func DisputeOpened(d *models.Dispute) *models.Notification {
	return newNotification(d.RespondentID, models.NotificationDisputeOpened,
		"New dispute",
		fmt.Sprintf("A dispute was opened against your transaction: %s", d.Title),
		datatypes.JSONMap{"disputeId": d.ID.String(), "transactionId": d.TransactionID.String()})
}

// DisputeClosed notifies both parties that an admin resolved or rejected d.
func DisputeClosed(d *models.Dispute) []*models.Notification {
	outcome := "resolved"
	if d.Status == models.DisputeRejected {
		outcome = "rejected"
	}
	data := datatypes.JSONMap{"disputeId": d.ID.String(), "transactionId": d.TransactionID.String(), "status": string(d.Status)}
	msg := fmt.Sprintf("The dispute \"%s\" was %s by an administrator.", d.Title, outcome)
	return []*models.Notification{
		newNotification(d.ComplainantID, models.NotificationDisputeResolved, "Dispute "+outcome, msg, data),
		newNotification(d.RespondentID, models.NotificationDisputeResolved, "Dispute "+outcome, msg, data),
	}
}
