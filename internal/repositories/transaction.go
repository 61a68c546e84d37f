package repositories

import (
	"context"
	"time"

	"safetrade/internal/models"
	"safetrade/internal/utils/pagination"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TransactionFilter narrows transaction listings. A zero PartyID lists every transaction.
type TransactionFilter struct {
	PartyID   uuid.UUID
	Role      models.Role
	Status    models.TransactionStatus
	StartDate *time.Time
	EndDate   *time.Time
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
	Search    string
}

type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	Save(ctx context.Context, tx *models.Transaction) error
	AppendHistory(ctx context.Context, entry *models.TransactionHistory) error
	List(ctx context.Context, filter TransactionFilter, page pagination.Params) ([]models.Transaction, int64, error)
	Statistics(ctx context.Context, from, to *time.Time) (*models.TransactionStats, error)
	Recent(ctx context.Context, limit int) ([]models.Transaction, error)
	CountByParty(ctx context.Context, userID uuid.UUID, status models.TransactionStatus) (int64, error)
}

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	return translate(GetTx(ctx, r.db).Omit(clause.Associations).Create(tx).Error)
}

func (r *transactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	var tx models.Transaction
	err := GetTx(ctx, r.db).
		Preload("Buyer").
		Preload("Seller").
		Preload("Room").
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("History.Changer").
		First(&tx, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &tx, nil
}

// GetForUpdate locks the row until the surrounding transaction ends.
func (r *transactionRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	var tx models.Transaction
	err := GetTx(ctx, r.db).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		First(&tx, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &tx, nil
}

func (r *transactionRepository) Save(ctx context.Context, tx *models.Transaction) error {
	return translate(GetTx(ctx, r.db).Omit(clause.Associations).Save(tx).Error)
}

func (r *transactionRepository) AppendHistory(ctx context.Context, entry *models.TransactionHistory) error {
	return translate(GetTx(ctx, r.db).Omit(clause.Associations).Create(entry).Error)
}

func (r *transactionRepository) List(ctx context.Context, filter TransactionFilter, page pagination.Params) ([]models.Transaction, int64, error) {
	q := applyTransactionFilter(GetTx(ctx, r.db).Model(&models.Transaction{}), filter).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var txs []models.Transaction
	err := q.
		Preload("Buyer").
		Preload("Seller").
		Preload("Room").
		Order(page.OrderBy()).
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&txs).Error
	return txs, total, err
}

func applyTransactionFilter(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.PartyID != uuid.Nil {
		switch f.Role {
		case models.RoleBuyer:
			q = q.Where("buyer_id = ?", f.PartyID)
		case models.RoleSeller:
			q = q.Where("seller_id = ?", f.PartyID)
		default:
			q = q.Where("buyer_id = ? OR seller_id = ?", f.PartyID, f.PartyID)
		}
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.StartDate != nil {
		q = q.Where("created_at >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("created_at <= ?", *f.EndDate)
	}
	if f.MinAmount != nil {
		q = q.Where("amount >= ?", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		q = q.Where("amount <= ?", *f.MaxAmount)
	}
	if f.Search != "" {
		q = q.Where("product_name ILIKE ?", "%"+f.Search+"%")
	}
	return q
}

// Statistics aggregates transactions created inside the optional [from, to] range.
func (r *transactionRepository) Statistics(ctx context.Context, from, to *time.Time) (*models.TransactionStats, error) {
	var rows []struct {
		Status models.TransactionStatus
		Count  int64
		Amount decimal.Decimal
		Fees   decimal.Decimal
	}
	q := GetTx(ctx, r.db).Model(&models.Transaction{})
	if from != nil {
		q = q.Where("created_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("created_at <= ?", *to)
	}
	err := q.
		Select("status, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS amount, COALESCE(SUM(fee_amount), 0) AS fees").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := &models.TransactionStats{
		TotalAmount: decimal.Zero,
		TotalFees:   decimal.Zero,
		ByStatus:    make(map[models.TransactionStatus]int64, len(models.TransactionStatuses)),
	}
	for _, s := range models.TransactionStatuses {
		stats.ByStatus[s] = 0
	}
	for _, row := range rows {
		stats.TotalTransactions += row.Count
		stats.TotalAmount = stats.TotalAmount.Add(row.Amount)
		stats.TotalFees = stats.TotalFees.Add(row.Fees)
		stats.ByStatus[row.Status] = row.Count
	}
	stats.CompletedTransactions = stats.ByStatus[models.StatusCompleted]
	stats.DisputedTransactions = stats.ByStatus[models.StatusDisputed]
	return stats, nil
}

func (r *transactionRepository) Recent(ctx context.Context, limit int) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := GetTx(ctx, r.db).
		Preload("Buyer").
		Preload("Seller").
		Order("created_at DESC").
		Limit(limit).
		Find(&txs).Error
	return txs, err
}

// CountByParty counts transactions where userID is buyer or seller. An empty status counts all.
func (r *transactionRepository) CountByParty(ctx context.Context, userID uuid.UUID, status models.TransactionStatus) (int64, error) {
	q := GetTx(ctx, r.db).Model(&models.Transaction{}).Where("buyer_id = ? OR seller_id = ?", userID, userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}
