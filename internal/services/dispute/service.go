package dispute

import (
	"context"
	"errors"
	"time"

	"safetrade/internal/events"
	"safetrade/internal/metrics"
	"safetrade/internal/models"
	"safetrade/internal/repositories"
	"safetrade/internal/services/notification"
	"safetrade/internal/services/transaction"
	"safetrade/internal/utils/pagination"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	Create(ctx context.Context, actor models.Actor, in CreateInput) (*models.Dispute, error)
	// List scopes non-admin callers to disputes they filed or answer.
	List(ctx context.Context, actor models.Actor, filter repositories.DisputeFilter, page pagination.Params) ([]models.Dispute, int64, error)
	Get(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Dispute, error)
	Update(ctx context.Context, actor models.Actor, id uuid.UUID, in UpdateInput) (*models.Dispute, error)
	// Assign moves a pending dispute to investigating under actor.
	Assign(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Dispute, error)
	Statistics(ctx context.Context) (*models.DisputeStats, error)
}

type service struct {
	repo      repositories.DisputeRepository
	txns      repositories.TransactionRepository
	txManager repositories.TxManager
	applier   StatusApplier
	notifier  Notifier
	publisher events.Publisher
	metrics   *metrics.Metrics
	log       *zap.Logger
	now       func() time.Time
}

func NewService(
	repo repositories.DisputeRepository,
	txns repositories.TransactionRepository,
	txManager repositories.TxManager,
	applier StatusApplier,
	notifier Notifier,
	publisher events.Publisher,
	m *metrics.Metrics,
	log *zap.Logger,
) Service {
	return &service{
		repo:      repo,
		txns:      txns,
		txManager: txManager,
		applier:   applier,
		notifier:  notifier,
		publisher: publisher,
		metrics:   m,
		log:       log,
		now:       time.Now,
	}
}

func (s *service) Create(ctx context.Context, actor models.Actor, in CreateInput) (*models.Dispute, error) {
	if actor.Role != models.RoleBuyer {
		return nil, ErrBuyerOnly
	}

	txn, err := s.txns.GetByID(ctx, in.TransactionID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	if txn.BuyerID != actor.UserID {
		return nil, ErrNotTransactionBuyer
	}
	if !disputable[txn.Status] {
		return nil, ErrNotDisputable
	}
	exists, err := s.repo.ExistsForTransaction(ctx, txn.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDisputeExists
	}

	d := &models.Dispute{
		TransactionID:     txn.ID,
		ComplainantID:     txn.BuyerID,
		RespondentID:      txn.SellerID,
		Type:              in.Type,
		Title:             in.Title,
		Description:       in.Description,
		ResolutionRequest: in.ResolutionRequest,
		Status:            models.DisputePending,
	}

	var from models.TransactionStatus
	err = s.txManager.WithTx(ctx, func(ctx context.Context) error {
		locked, err := s.txns.GetForUpdate(ctx, txn.ID)
		if err != nil {
			return err
		}
		if !disputable[locked.Status] {
			return ErrNotDisputable
		}
		from = locked.Status

		if err := s.repo.Create(ctx, d); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return ErrDisputeExists
			}
			return err
		}
		note := "Dispute opened: " + d.Title
		if err := s.applier.ApplyStatus(ctx, locked, models.StatusDisputed, actor.UserID, &note); err != nil {
			return err
		}
		return s.notifier.Notify(ctx, notification.DisputeOpened(d))
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordDisputeOpened()
	s.metrics.RecordTransition(string(from), string(models.StatusDisputed))
	s.publish(ctx,
		events.Event{
			Type: events.TypeDisputeOpened,
			Key:  d.TransactionID.String(),
			Payload: events.DisputeOpenedPayload{
				DisputeID:     d.ID.String(),
				TransactionID: d.TransactionID.String(),
				ComplainantID: d.ComplainantID.String(),
				RespondentID:  d.RespondentID.String(),
				Type:          string(d.Type),
			},
		},
		transaction.StatusChangedEvent(d.TransactionID, from, models.StatusDisputed, actor.UserID, nil),
	)

	s.log.Info("dispute opened",
		zap.String("dispute_id", d.ID.String()),
		zap.String("transaction_id", d.TransactionID.String()),
		zap.String("type", string(d.Type)),
	)
	return s.load(ctx, d.ID)
}

func (s *service) List(ctx context.Context, actor models.Actor, filter repositories.DisputeFilter, page pagination.Params) ([]models.Dispute, int64, error) {
	if !actor.IsAdmin() {
		filter.PartyID = actor.UserID
	}
	now := s.now()
	filter.Now = now

	disputes, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, 0, err
	}
	for i := range disputes {
		s.prioritize(&disputes[i], now)
	}
	return disputes, total, nil
}

func (s *service) Get(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Dispute, error) {
	d, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !d.IsParty(actor.UserID) {
		return nil, ErrAccessDenied
	}
	return d, nil
}

func (s *service) Update(ctx context.Context, actor models.Actor, id uuid.UUID, in UpdateInput) (*models.Dispute, error) {
	if !in.hasDecision() && !in.hasEdit() {
		return nil, ErrNothingToUpdate
	}

	d, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		return s.edit(ctx, actor, d, in)
	}
	if in.hasEdit() {
		return nil, ErrNotEditable
	}
	if err := validateDecision(d, in); err != nil {
		return nil, err
	}

	var (
		decided   *models.Dispute
		from      models.TransactionStatus
		settledTo models.TransactionStatus
	)
	err = s.txManager.WithTx(ctx, func(ctx context.Context) error {
		locked, err := s.repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := validateDecision(locked, in); err != nil {
			return err
		}

		if in.AdminResponse != nil {
			locked.AdminResponse = in.AdminResponse
		}
		if in.Status != nil {
			locked.Status = *in.Status
			locked.AdminID = &actor.UserID
		}
		if in.Winner != nil {
			locked.Winner = in.Winner
		}
		if locked.Status.Closed() && locked.ResolvedAt == nil {
			now := s.now()
			locked.ResolvedAt = &now
		}
		if err := s.repo.Save(ctx, locked); err != nil {
			return err
		}
		decided = locked

		if !locked.Status.Closed() {
			return nil
		}

		txn, err := s.txns.GetForUpdate(ctx, locked.TransactionID)
		if err != nil {
			return err
		}
		// Only a still-disputed transaction is settled; anything else was already moved.
		if txn.Status == models.StatusDisputed {
			from = txn.Status
			settledTo = settlement(locked)
			note := "Dispute " + string(locked.Status)
			if err := s.applier.ApplyStatus(ctx, txn, settledTo, actor.UserID, &note); err != nil {
				return err
			}
		}
		return s.notifier.Notify(ctx, notification.DisputeClosed(locked)...)
	})
	if err != nil {
		return nil, err
	}

	if decided.Status.Closed() {
		s.onClosed(ctx, decided, actor, from, settledTo)
	}
	return s.load(ctx, id)
}

// edit applies complainant changes to a pending dispute.
func (s *service) edit(ctx context.Context, actor models.Actor, d *models.Dispute, in UpdateInput) (*models.Dispute, error) {
	if in.hasDecision() {
		return nil, ErrAdminOnly
	}
	if err := checkEditable(d, actor); err != nil {
		return nil, err
	}

	err := s.txManager.WithTx(ctx, func(ctx context.Context) error {
		locked, err := s.repo.GetForUpdate(ctx, d.ID)
		if err != nil {
			return err
		}
		// An admin may have picked the dispute up since it was read.
		if err := checkEditable(locked, actor); err != nil {
			return err
		}

		if in.Type != nil {
			locked.Type = *in.Type
		}
		if in.Title != nil {
			locked.Title = *in.Title
		}
		if in.Description != nil {
			locked.Description = *in.Description
		}
		if in.ResolutionRequest != nil {
			locked.ResolutionRequest = *in.ResolutionRequest
		}
		return s.repo.Save(ctx, locked)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrDisputeNotFound
		}
		return nil, err
	}
	return s.load(ctx, d.ID)
}

func checkEditable(d *models.Dispute, actor models.Actor) error {
	if d.ComplainantID != actor.UserID {
		return ErrAccessDenied
	}
	if d.Status != models.DisputePending {
		return ErrNotEditable
	}
	return nil
}

func (s *service) Assign(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Dispute, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}
	status := models.DisputeInvestigating
	return s.Update(ctx, actor, id, UpdateInput{Status: &status})
}

func (s *service) Statistics(ctx context.Context) (*models.DisputeStats, error) {
	return s.repo.Statistics(ctx)
}

func (s *service) onClosed(ctx context.Context, d *models.Dispute, actor models.Actor, from, settledTo models.TransactionStatus) {
	s.metrics.RecordDisputeClosed(string(d.Status))

	var winner *string
	if d.Winner != nil {
		w := string(*d.Winner)
		winner = &w
	}
	payload := events.DisputeResolvedPayload{
		DisputeID:         d.ID.String(),
		TransactionID:     d.TransactionID.String(),
		Status:            string(d.Status),
		Winner:            winner,
		TransactionStatus: string(settledTo),
		AdminID:           actor.UserID.String(),
	}
	evs := []events.Event{{Type: events.TypeDisputeResolved, Key: d.TransactionID.String(), Payload: payload}}
	if settledTo != "" {
		s.metrics.RecordTransition(string(from), string(settledTo))
		evs = append(evs, transaction.StatusChangedEvent(d.TransactionID, from, settledTo, actor.UserID, nil))
	}
	s.publish(ctx, evs...)

	s.log.Info("dispute closed",
		zap.String("dispute_id", d.ID.String()),
		zap.String("status", string(d.Status)),
		zap.String("transaction_status", string(settledTo)),
	)
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Dispute, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrDisputeNotFound
		}
		return nil, err
	}
	s.prioritize(d, s.now())
	return d, nil
}

func (s *service) prioritize(d *models.Dispute, now time.Time) {
	if d.Transaction == nil {
		return
	}
	d.Priority = models.PriorityFor(d.Transaction.Amount, d.CreatedAt, now)
}

func (s *service) publish(ctx context.Context, evs ...events.Event) {
	if err := s.publisher.Publish(ctx, evs...); err != nil {
		s.log.Warn("failed to publish dispute event", zap.Error(err))
	}
}
