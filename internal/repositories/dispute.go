package repositories

import (
	"context"
	"time"

	"safetrade/internal/models"
	"safetrade/internal/utils/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DisputeFilter narrows dispute listings. A zero PartyID lists every dispute.
type DisputeFilter struct {
	PartyID  uuid.UUID
	Status   models.DisputeStatus
	Type     models.DisputeType
	Priority models.DisputePriority
	Now      time.Time
}

type DisputeRepository interface {
	Create(ctx context.Context, d *models.Dispute) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Dispute, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Dispute, error)
	ExistsForTransaction(ctx context.Context, transactionID uuid.UUID) (bool, error)
	Save(ctx context.Context, d *models.Dispute) error
	List(ctx context.Context, filter DisputeFilter, page pagination.Params) ([]models.Dispute, int64, error)
	Statistics(ctx context.Context) (*models.DisputeStats, error)
	CountByParty(ctx context.Context, userID uuid.UUID) (int64, error)
}

type disputeRepository struct {
	db *gorm.DB
}

func NewDisputeRepository(db *gorm.DB) DisputeRepository {
	return &disputeRepository{db: db}
}

func (r *disputeRepository) Create(ctx context.Context, d *models.Dispute) error {
	return translate(GetTx(ctx, r.db).Omit(clause.Associations).Create(d).Error)
}

func (r *disputeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Dispute, error) {
	var d models.Dispute
	err := GetTx(ctx, r.db).
		Preload("Transaction").
		Preload("Complainant").
		Preload("Respondent").
		Preload("Admin").
		Preload("Evidence", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&d, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &d, nil
}

func (r *disputeRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Dispute, error) {
	var d models.Dispute
	err := GetTx(ctx, r.db).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		First(&d, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &d, nil
}

func (r *disputeRepository) ExistsForTransaction(ctx context.Context, transactionID uuid.UUID) (bool, error) {
	var n int64
	err := GetTx(ctx, r.db).Model(&models.Dispute{}).Where("transaction_id = ?", transactionID).Count(&n).Error
	return n > 0, err
}

func (r *disputeRepository) Save(ctx context.Context, d *models.Dispute) error {
	return translate(GetTx(ctx, r.db).Omit(clause.Associations).Save(d).Error)
}

func (r *disputeRepository) List(ctx context.Context, filter DisputeFilter, page pagination.Params) ([]models.Dispute, int64, error) {
	q := GetTx(ctx, r.db).Model(&models.Dispute{})
	if filter.PartyID != uuid.Nil {
		q = q.Where("disputes.complainant_id = ? OR disputes.respondent_id = ?", filter.PartyID, filter.PartyID)
	}
	if filter.Status != "" {
		q = q.Where("disputes.status = ?", filter.Status)
	}
	if filter.Type != "" {
		q = q.Where("disputes.type = ?", filter.Type)
	}
	if filter.Priority != "" {
		q = q.Joins("JOIN transactions ON transactions.id = disputes.transaction_id").
			Where(priorityExpr+" = ?", priorityArgs(filter.Now, filter.Priority)...)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var disputes []models.Dispute
	err := q.Select("disputes.*").
		Preload("Transaction").
		Preload("Complainant").
		Preload("Respondent").
		Order(page.OrderBy()).
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&disputes).Error
	return disputes, total, err
}

const priorityExpr = `CASE
	WHEN transactions.amount >= ? OR disputes.created_at <= ? THEN 'high'
	WHEN transactions.amount >= ? OR disputes.created_at <= ? THEN 'medium'
	ELSE 'low' END`

func priorityArgs(now time.Time, priority models.DisputePriority) []interface{} {
	return []interface{}{
		models.HighPriorityAmount, now.Add(-models.HighPriorityAge),
		models.MediumPriorityAmount, now.Add(-models.MediumPriorityAge),
		priority,
	}
}

func (r *disputeRepository) Statistics(ctx context.Context) (*models.DisputeStats, error) {
	var rows []struct {
		Status models.DisputeStatus
		Count  int64
	}
	err := GetTx(ctx, r.db).Model(&models.Dispute{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := &models.DisputeStats{}
	for _, row := range rows {
		stats.Total += row.Count
		switch row.Status {
		case models.DisputePending:
			stats.Pending = row.Count
		case models.DisputeInvestigating:
			stats.Investigating = row.Count
		case models.DisputeResolved:
			stats.Resolved = row.Count
		case models.DisputeRejected:
			stats.Rejected = row.Count
		}
	}
	return stats, nil
}

func (r *disputeRepository) CountByParty(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := GetTx(ctx, r.db).Model(&models.Dispute{}).
		Where("complainant_id = ? OR respondent_id = ?", userID, userID).
		Count(&n).Error
	return n, err
}
