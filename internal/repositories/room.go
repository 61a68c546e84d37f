package repositories

import (
	"context"

	"safetrade/internal/models"
	"safetrade/internal/utils/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RoomFilter narrows room listings. An empty Status lists only active rooms.
type RoomFilter struct {
	Status   models.RoomStatus
	Category models.RoomCategory
	Search   string
}

type RoomRepository interface {
	Create(ctx context.Context, room *models.Room) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Room, error)
	UpdateDetails(ctx context.Context, room *models.Room) error
	List(ctx context.Context, filter RoomFilter, page pagination.Params) ([]models.Room, int64, error)
	ListByMember(ctx context.Context, userID uuid.UUID) ([]models.Room, error)
	AddMember(ctx context.Context, member *models.RoomMember) error
	RemoveMember(ctx context.Context, roomID, userID uuid.UUID) (bool, error)
	IsMember(ctx context.Context, roomID, userID uuid.UUID) (bool, error)
	AdjustMemberCount(ctx context.Context, roomID uuid.UUID, delta int) error
	IncrementTransactionCount(ctx context.Context, roomID uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type roomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) RoomRepository {
	return &roomRepository{db: db}
}

func (r *roomRepository) Create(ctx context.Context, room *models.Room) error {
	return translate(GetTx(ctx, r.db).Omit(clause.Associations).Create(room).Error)
}

func (r *roomRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	var room models.Room
	err := GetTx(ctx, r.db).
		Preload("Owner").
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("joined_at ASC")
		}).
		Preload("Members.User").
		First(&room, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &room, nil
}

// UpdateDetails writes the owner-editable columns. The member and transaction
// counters only move through their atomic increments.
func (r *roomRepository) UpdateDetails(ctx context.Context, room *models.Room) error {
	res := GetTx(ctx, r.db).Model(room).Omit(clause.Associations).
		Select("name", "description", "rules", "status", "updated_at").
		Updates(room)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *roomRepository) List(ctx context.Context, filter RoomFilter, page pagination.Params) ([]models.Room, int64, error) {
	status := filter.Status
	if status == "" {
		status = models.RoomActive
	}

	q := GetTx(ctx, r.db).Model(&models.Room{}).Where("status = ?", status)
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("name ILIKE ? OR description ILIKE ?", like, like)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rooms []models.Room
	err := q.Preload("Owner").
		Order("member_count DESC").
		Order("created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&rooms).Error
	return rooms, total, err
}

func (r *roomRepository) ListByMember(ctx context.Context, userID uuid.UUID) ([]models.Room, error) {
	var rooms []models.Room
	err := GetTx(ctx, r.db).
		Select("rooms.*").
		Preload("Owner").
		Joins("JOIN room_members ON room_members.room_id = rooms.id").
		Where("room_members.user_id = ?", userID).
		Order("room_members.joined_at DESC").
		Find(&rooms).Error
	return rooms, err
}

func (r *roomRepository) AddMember(ctx context.Context, member *models.RoomMember) error {
	return translate(GetTx(ctx, r.db).Omit(clause.Associations).Create(member).Error)
}

// RemoveMember reports whether a membership row was deleted.
func (r *roomRepository) RemoveMember(ctx context.Context, roomID, userID uuid.UUID) (bool, error) {
	res := GetTx(ctx, r.db).Where("room_id = ? AND user_id = ?", roomID, userID).Delete(&models.RoomMember{})
	return res.RowsAffected > 0, res.Error
}

func (r *roomRepository) IsMember(ctx context.Context, roomID, userID uuid.UUID) (bool, error) {
	var n int64
	err := GetTx(ctx, r.db).Model(&models.RoomMember{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Count(&n).Error
	return n > 0, err
}

func (r *roomRepository) AdjustMemberCount(ctx context.Context, roomID uuid.UUID, delta int) error {
	return GetTx(ctx, r.db).Model(&models.Room{}).Where("id = ?", roomID).
		Update("member_count", gorm.Expr("GREATEST(member_count + ?, 0)", delta)).Error
}

func (r *roomRepository) IncrementTransactionCount(ctx context.Context, roomID uuid.UUID) error {
	return GetTx(ctx, r.db).Model(&models.Room{}).Where("id = ?", roomID).
		Update("transaction_count", gorm.Expr("transaction_count + 1")).Error
}

func (r *roomRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := GetTx(ctx, r.db).Model(&models.Room{}).Count(&n).Error
	return n, err
}
