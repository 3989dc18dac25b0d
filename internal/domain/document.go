package domain

import (
	"time"

	"gorm.io/gorm"
)

// Document stores uploaded files as base64 text. Data is excluded from list
// responses by the repository, not by the model.
type Document struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:256;not null" json:"name"`
	MimeType  string         `gorm:"size:128" json:"mime_type"`
	Data      string         `gorm:"type:text" json:"data,omitempty"`
	SizeBytes int64          `gorm:"not null;default:0" json:"size_bytes"`
	OwnerID   uint           `gorm:"index;not null" json:"owner_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
