package transaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "safetrade/internal/errors"
	"safetrade/internal/events"
	"safetrade/internal/metrics"
	"safetrade/internal/models"
	"safetrade/internal/repositories"
	"safetrade/internal/services/notification"
	"safetrade/internal/services/payment"
	"safetrade/internal/utils/pagination"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultCancelNote = "Transaction cancelled by user"

type Service interface {
	Create(ctx context.Context, actor models.Actor, in CreateInput) (*models.Transaction, error)
	// List returns the transactions actor is a party to.
	List(ctx context.Context, actor models.Actor, filter repositories.TransactionFilter, page pagination.Params) ([]models.Transaction, int64, error)
	// ListAll is the admin view over every transaction.
	ListAll(ctx context.Context, filter repositories.TransactionFilter, page pagination.Params) ([]models.Transaction, int64, error)
	Get(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Transaction, error)
	Update(ctx context.Context, actor models.Actor, id uuid.UUID, in UpdateInput) (*models.Transaction, error)
	Cancel(ctx context.Context, actor models.Actor, id uuid.UUID, reason string) (*models.Transaction, error)
	Statistics(ctx context.Context, rng StatisticsRange) (*models.TransactionStats, error)
	// ApplyStatus writes an already validated status change together with its
	// history row and notifications. It must run inside a TxManager transaction.
	ApplyStatus(ctx context.Context, txn *models.Transaction, to models.TransactionStatus, changedBy uuid.UUID, notes *string) error
}

type service struct {
	repo      repositories.TransactionRepository
	users     repositories.UserRepository
	rooms     repositories.RoomRepository
	txManager repositories.TxManager
	notifier  Notifier
	limits    LimitsProvider
	verifier  payment.Verifier
	publisher events.Publisher
	metrics   *metrics.Metrics
	log       *zap.Logger
	now       func() time.Time
}

func NewService(
	repo repositories.TransactionRepository,
	users repositories.UserRepository,
	rooms repositories.RoomRepository,
	txManager repositories.TxManager,
	notifier Notifier,
	limits LimitsProvider,
	verifier payment.Verifier,
	publisher events.Publisher,
	m *metrics.Metrics,
	log *zap.Logger,
) Service {
	return &service{
		repo:      repo,
		users:     users,
		rooms:     rooms,
		txManager: txManager,
		notifier:  notifier,
		limits:    limits,
		verifier:  verifier,
		publisher: publisher,
		metrics:   m,
		log:       log,
		now:       time.Now,
	}
}

func (s *service) Create(ctx context.Context, actor models.Actor, in CreateInput) (*models.Transaction, error) {
	if actor.Role != models.RoleBuyer {
		return nil, ErrBuyerOnly
	}
	if in.SellerID == actor.UserID {
		return nil, ErrSelfTransaction
	}

	// Validate seller
	seller, err := s.users.GetByID(ctx, in.SellerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSellerNotFound
		}
		return nil, err
	}
	if seller.Role != models.RoleSeller {
		return nil, ErrNotASeller
	}
	if !seller.IsActive {
		return nil, ErrSellerInactive
	}

	// Validate room if provided
	if in.RoomID != nil {
		room, err := s.rooms.GetByID(ctx, *in.RoomID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, ErrRoomNotFound
			}
			return nil, err
		}
		if room.Status != models.RoomActive {
			return nil, ErrRoomInactive
		}
	}

	limits, err := s.limits.TransactionLimits(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkAmount(in, limits); err != nil {
		return nil, err
	}

	buyer, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	fee, sellerAmount := CalculateFee(in.Amount, limits.FeePercentage)
	txn := &models.Transaction{
		BuyerID:            actor.UserID,
		SellerID:           in.SellerID,
		RoomID:             in.RoomID,
		ProductName:        in.ProductName,
		ProductDescription: in.ProductDescription,
		Amount:             in.Amount,
		FeePercentage:      limits.FeePercentage,
		FeeAmount:          fee,
		SellerAmount:       sellerAmount,
		Status:             models.StatusPendingSeller,
		Notes:              in.Notes,
	}

	err = s.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, txn); err != nil {
			return err
		}
		if err := s.repo.AppendHistory(ctx, &models.TransactionHistory{
			TransactionID: txn.ID,
			StatusTo:      txn.Status,
			ChangedBy:     actor.UserID,
			Notes:         in.Notes,
		}); err != nil {
			return err
		}
		if txn.RoomID != nil {
			if err := s.rooms.IncrementTransactionCount(ctx, *txn.RoomID); err != nil {
				return err
			}
		}
		return s.notifier.Notify(ctx, notification.NewTransaction(txn, buyer.Name))
	})
	if err != nil {
		return nil, err
	}

	amount, _ := txn.Amount.Float64()
	s.metrics.RecordTransactionCreated(amount)
	s.publish(ctx, createdEvent(txn))

	s.log.Info("transaction created",
		zap.String("transaction_id", txn.ID.String()),
		zap.String("buyer_id", txn.BuyerID.String()),
		zap.String("seller_id", txn.SellerID.String()),
		zap.String("amount", txn.Amount.String()),
	)
	return s.repo.GetByID(ctx, txn.ID)
}

func checkAmount(in CreateInput, limits models.TransactionLimits) error {
	if in.Amount.LessThan(limits.MinAmount) || !in.Amount.IsPositive() {
		return apperrors.Validation(fmt.Sprintf("Minimum transaction amount is %s VND", limits.MinAmount.StringFixed(0)),
			apperrors.FieldError{Field: "amount", Message: "amount is below the minimum", Value: in.Amount.String()})
	}
	if limits.MaxAmount.IsPositive() && in.Amount.GreaterThan(limits.MaxAmount) {
		return apperrors.Validation(fmt.Sprintf("Maximum transaction amount is %s VND", limits.MaxAmount.StringFixed(0)),
			apperrors.FieldError{Field: "amount", Message: "amount is above the maximum", Value: in.Amount.String()})
	}
	return nil
}

func (s *service) List(ctx context.Context, actor models.Actor, filter repositories.TransactionFilter, page pagination.Params) ([]models.Transaction, int64, error) {
	filter.PartyID = actor.UserID
	return s.repo.List(ctx, filter, page)
}

func (s *service) ListAll(ctx context.Context, filter repositories.TransactionFilter, page pagination.Params) ([]models.Transaction, int64, error) {
	return s.repo.List(ctx, filter, page)
}

func (s *service) Get(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Transaction, error) {
	txn, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !txn.IsParty(actor.UserID) {
		return nil, ErrAccessDenied
	}
	return txn, nil
}

func (s *service) Update(ctx context.Context, actor models.Actor, id uuid.UUID, in UpdateInput) (*models.Transaction, error) {
	if in.empty() {
		return nil, ErrNothingToUpdate
	}

	txn, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := checkUpdate(txn, actor, in); err != nil {
		return nil, err
	}

	// The provider call stays outside the row lock.
	if in.Status != nil && *in.Status == models.StatusPaid && paymentMethod(txn, in) == payment.MethodStripe {
		if err := s.verifier.Verify(ctx, paymentReference(txn, in), txn.Amount); err != nil {
			return nil, err
		}
	}

	var from models.TransactionStatus
	err = s.txManager.WithTx(ctx, func(ctx context.Context) error {
		locked, err := s.repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		// Re-validate against the locked row; another writer may have moved it.
		if err := checkUpdate(locked, actor, in); err != nil {
			return err
		}
		from = locked.Status

		if in.Notes != nil {
			locked.Notes = in.Notes
		}
		if in.PaymentMethod != nil {
			locked.PaymentMethod = in.PaymentMethod
		}
		if in.PaymentReference != nil {
			locked.PaymentReference = in.PaymentReference
		}
		if in.ShippingInfo != nil {
			locked.ShippingInfo = in.ShippingInfo
		}

		if in.Status == nil {
			return s.repo.Save(ctx, locked)
		}
		return s.ApplyStatus(ctx, locked, *in.Status, actor.UserID, in.Notes)
	})
	if err != nil {
		return nil, err
	}

	if in.Status != nil {
		s.metrics.RecordTransition(string(from), string(*in.Status))
		s.publish(ctx, StatusChangedEvent(id, from, *in.Status, actor.UserID, in.Notes))
		s.log.Info("transaction status changed",
			zap.String("transaction_id", id.String()),
			zap.String("from", string(from)),
			zap.String("to", string(*in.Status)),
			zap.String("changed_by", actor.UserID.String()),
		)
	}
	return s.repo.GetByID(ctx, id)
}

func checkUpdate(txn *models.Transaction, actor models.Actor, in UpdateInput) error {
	if in.Status != nil {
		return ValidateTransition(txn, actor, *in.Status)
	}
	return validateEdit(txn, actor)
}

func paymentMethod(txn *models.Transaction, in UpdateInput) string {
	if in.PaymentMethod != nil {
		return *in.PaymentMethod
	}
	if txn.PaymentMethod != nil {
		return *txn.PaymentMethod
	}
	return ""
}

func paymentReference(txn *models.Transaction, in UpdateInput) string {
	if in.PaymentReference != nil {
		return *in.PaymentReference
	}
	if txn.PaymentReference != nil {
		return *txn.PaymentReference
	}
	return ""
}

func (s *service) Cancel(ctx context.Context, actor models.Actor, id uuid.UUID, reason string) (*models.Transaction, error) {
	txn, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	// Only buyer or seller can cancel, and only in certain statuses
	if !txn.IsParty(actor.UserID) {
		return nil, ErrAccessDenied
	}
	if !cancellable[txn.Status] {
		return nil, ErrNotCancellable
	}

	note := reason
	if note == "" {
		note = defaultCancelNote
	}

	var from models.TransactionStatus
	err = s.txManager.WithTx(ctx, func(ctx context.Context) error {
		locked, err := s.repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !cancellable[locked.Status] {
			return ErrNotCancellable
		}
		from = locked.Status
		locked.Notes = &note
		if err := s.ApplyStatus(ctx, locked, models.StatusCancelled, actor.UserID, &note); err != nil {
			return err
		}
		return s.notifier.Notify(ctx, notification.Cancelled(locked, locked.Counterparty(actor.UserID), reason))
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordTransition(string(from), string(models.StatusCancelled))
	s.publish(ctx, StatusChangedEvent(id, from, models.StatusCancelled, actor.UserID, &note))
	return s.repo.GetByID(ctx, id)
}

func (s *service) Statistics(ctx context.Context, rng StatisticsRange) (*models.TransactionStats, error) {
	return s.repo.Statistics(ctx, rng.From, rng.To)
}

func (s *service) ApplyStatus(ctx context.Context, txn *models.Transaction, to models.TransactionStatus, changedBy uuid.UUID, notes *string) error {
	from := txn.Status
	if from == to {
		return nil
	}

	txn.Status = to
	if to == models.StatusCompleted && txn.CompletedAt == nil {
		now := s.now()
		txn.CompletedAt = &now
	}
	if err := s.repo.Save(ctx, txn); err != nil {
		return err
	}

	if err := s.repo.AppendHistory(ctx, &models.TransactionHistory{
		TransactionID: txn.ID,
		StatusFrom:    &from,
		StatusTo:      to,
		ChangedBy:     changedBy,
		Notes:         notes,
	}); err != nil {
		return err
	}

	if ns := notification.ForStatus(txn, to); len(ns) > 0 {
		return s.notifier.Notify(ctx, ns...)
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	txn, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return txn, nil
}

// publish is best effort; the database state is already committed.
func (s *service) publish(ctx context.Context, evs ...events.Event) {
	if err := s.publisher.Publish(ctx, evs...); err != nil {
		s.log.Warn("failed to publish transaction event", zap.Error(err))
	}
}
