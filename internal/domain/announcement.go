package domain

import (
	"time"

	"gorm.io/gorm"
)

type AnnouncementKind string

const (
	AnnouncementKindGeneral AnnouncementKind = "general"
	AnnouncementKindNews    AnnouncementKind = "news"
	AnnouncementKindEvent   AnnouncementKind = "event"
)

// Announcement covers announcements, news items and events; Kind tells them
// apart. StartsAt/EndsAt are only meaningful for events.
type Announcement struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	Kind      AnnouncementKind `gorm:"size:32;not null;default:general" json:"kind"`
	Title     string           `gorm:"size:256;not null" json:"title"`
	Body      string           `gorm:"type:text" json:"body"`
	AuthorID  uint             `gorm:"index;not null" json:"author_id"`
	StartsAt  *time.Time       `json:"starts_at,omitempty"`
	EndsAt    *time.Time       `json:"ends_at,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	DeletedAt gorm.DeletedAt   `gorm:"index" json:"-"`
}
