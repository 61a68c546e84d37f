package models

import "time"

type User struct {
	Base
	Name         string     `gorm:"size:255;not null" json:"name"`
	Phone        string     `gorm:"size:20;uniqueIndex;not null" json:"phone"`
	Email        *string    `gorm:"size:255;uniqueIndex" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Role         Role       `gorm:"type:varchar(16);not null;default:'buyer';index" json:"role"`
	AvatarURL    *string    `gorm:"size:500" json:"avatarUrl"`
	IsVerified   bool       `gorm:"not null;default:false" json:"isVerified"`
	IsActive     bool       `gorm:"not null;default:true" json:"isActive"`
	LastLoginAt  *time.Time `json:"lastLoginAt"`
	TokenVersion int        `gorm:"not null;default:1" json:"-"`
}
