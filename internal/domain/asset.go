package domain

import (
	"time"

	"gorm.io/gorm"
)

type AssetCondition string

const (
	AssetConditionNew      AssetCondition = "new"
	AssetConditionGood     AssetCondition = "good"
	AssetConditionFair     AssetCondition = "fair"
	AssetConditionRetired  AssetCondition = "retired"
	AssetConditionInRepair AssetCondition = "in_repair"
)

// Asset is one inventory item. Allocation history lives in AssetAllocation
// rows; at most one allocation per asset is open (ReturnedAt IS NULL).
type Asset struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Tag          string         `gorm:"size:64;uniqueIndex;not null" json:"tag"`
	Name         string         `gorm:"size:256;not null" json:"name"`
	Category     string         `gorm:"size:128" json:"category"`
	SerialNumber string         `gorm:"size:128" json:"serial_number"`
	Condition    AssetCondition `gorm:"size:32;not null;default:good" json:"condition"`
	Location     string         `gorm:"size:256" json:"location"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

type AssetAllocation struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	AssetID     uint       `gorm:"index;not null" json:"asset_id"`
	AccountID   uint       `gorm:"index;not null" json:"account_id"`
	AllocatedAt time.Time  `gorm:"not null" json:"allocated_at"`
	ReturnedAt  *time.Time `gorm:"index" json:"returned_at,omitempty"`
}
