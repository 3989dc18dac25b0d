package domain

import (
	"time"

	"gorm.io/gorm"
)

// Article is a knowledge-base entry. ViewCount is best effort; increments are
// deduplicated per viewer session with a short-TTL marker store.
type Article struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Title     string         `gorm:"size:256;not null" json:"title"`
	Body      string         `gorm:"type:text" json:"body"`
	Tags      string         `gorm:"size:512" json:"tags"`
	Published bool           `gorm:"not null;default:false" json:"published"`
	AuthorID  uint           `gorm:"index;not null" json:"author_id"`
	ViewCount int64          `gorm:"not null;default:0" json:"view_count"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
