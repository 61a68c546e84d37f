package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DisputeEvidence is a file attached to a dispute. Rows are never updated.
type DisputeEvidence struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DisputeID  uuid.UUID `gorm:"type:uuid;not null;index" json:"disputeId"`
	FileName   string    `gorm:"size:255;not null" json:"fileName"`
	FilePath   string    `gorm:"size:500;not null" json:"filePath"`
	FileType   string    `gorm:"size:50;not null" json:"fileType"`
	FileSize   int64     `gorm:"not null" json:"fileSize"`
	UploadedBy uuid.UUID `gorm:"type:uuid;not null" json:"uploadedBy"`
	Uploader   *User     `gorm:"foreignKey:UploadedBy" json:"uploader,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (DisputeEvidence) TableName() string {
	return "dispute_evidence"
}

func (e *DisputeEvidence) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
