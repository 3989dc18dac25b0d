package domain

import (
	"time"

	"gorm.io/gorm"
)

// Account is a person who can sign in. The password hash never leaves the
// persistence layer through JSON.
type Account struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	FirstName    string         `gorm:"size:128;not null" json:"first_name"`
	LastName     string         `gorm:"size:128" json:"last_name"`
	Email        string         `gorm:"size:256;uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"size:128;not null" json:"-"`
	Role         Role           `gorm:"size:32;not null;default:basic" json:"role"`
	Department   string         `gorm:"size:128" json:"department"`
	Active       bool           `gorm:"not null;default:true" json:"active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (a *Account) FullName() string {
	if a.LastName == "" {
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}
