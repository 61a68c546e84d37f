package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RoomCategory string

const (
	CategoryElectronics RoomCategory = "electronics"
	CategoryFashion     RoomCategory = "fashion"
	CategoryHome        RoomCategory = "home"
	CategoryBooks       RoomCategory = "books"
	CategorySports      RoomCategory = "sports"
	CategoryOther       RoomCategory = "other"
)

type RoomStatus string

const (
	RoomActive   RoomStatus = "active"
	RoomInactive RoomStatus = "inactive"
)

type Room struct {
	Base
	Name             string       `gorm:"size:255;not null" json:"name"`
	Description      *string      `gorm:"type:text" json:"description"`
	Category         RoomCategory `gorm:"type:varchar(32);not null;index" json:"category"`
	OwnerID          uuid.UUID    `gorm:"type:uuid;not null;index" json:"ownerId"`
	Owner            *User        `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Rules            *string      `gorm:"type:text" json:"rules"`
	Status           RoomStatus   `gorm:"type:varchar(16);not null;default:'active';index" json:"status"`
	MemberCount      int          `gorm:"not null;default:1" json:"memberCount"`
	TransactionCount int          `gorm:"not null;default:0" json:"transactionCount"`

	Members []RoomMember `gorm:"foreignKey:RoomID" json:"members,omitempty"`
}

type RoomMember struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RoomID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_room_member" json:"roomId"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_room_member;index" json:"userId"`
	User     *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	JoinedAt time.Time `gorm:"not null" json:"joinedAt"`
}

func (m *RoomMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now()
	}
	return nil
}
