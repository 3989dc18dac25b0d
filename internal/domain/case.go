package domain

import (
	"time"

	"gorm.io/gorm"
)

type CaseStatus string

const (
	CaseStatusOpen       CaseStatus = "open"
	CaseStatusInProgress CaseStatus = "in_progress"
	CaseStatusOnHold     CaseStatus = "on_hold"
	CaseStatusResolved   CaseStatus = "resolved"
	CaseStatusClosed     CaseStatus = "closed"
)

type CasePriority string

const (
	CasePriorityLow      CasePriority = "low"
	CasePriorityMedium   CasePriority = "medium"
	CasePriorityHigh     CasePriority = "high"
	CasePriorityCritical CasePriority = "critical"
)

// Case is a support ticket. Number is a ksuid minted at creation and is the
// value surfaced to end users.
type Case struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Number      string         `gorm:"size:32;uniqueIndex;not null" json:"number"`
	Title       string         `gorm:"size:256;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Status      CaseStatus     `gorm:"size:32;not null;default:open" json:"status"`
	Priority    CasePriority   `gorm:"size:32;not null;default:medium" json:"priority"`
	ReporterID  uint           `gorm:"index;not null" json:"reporter_id"`
	AssigneeID  *uint          `gorm:"index" json:"assignee_id,omitempty"`
	ResolvedAt  *time.Time     `json:"resolved_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
