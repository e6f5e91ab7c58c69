package models

import (
	"time"
)

// Cosmetic item types sold in the store.
const (
	ItemTypeFrame  = "frame"
	ItemTypeBubble = "bubble"
	ItemTypeEntry  = "entry"
)

// DefaultOwnershipDays applies when item metadata leaves OwnershipDays unset.
const DefaultOwnershipDays = 30

// MaxEarnedItems bounds the per-user earned-items list; oldest entries are
// evicted first.
const MaxEarnedItems = 15

// ItemMetadata describes a store item at purchase time. It arrives from the
// admin-controlled configuration feed, not from users.
type ItemMetadata struct {
	Name          string
	Type          string
	URL           string
	Price         int64
	OwnershipDays int
	Duration      int
}

// ExpiryFrom resolves the ownership expiry for a purchase made at now.
func (m ItemMetadata) ExpiryFrom(now time.Time) time.Time {
	days := m.OwnershipDays
	if days <= 0 {
		days = DefaultOwnershipDays
	}
	return now.Add(time.Duration(days) * 24 * time.Hour)
}

// OwnedItem marks that a user owns a store item. Rows behave as a set:
// repeat purchases of the same item do not duplicate the row.
type OwnedItem struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;index:idx_owned_unique,unique"`
	ItemID    string    `gorm:"type:varchar(100);not null;index:idx_owned_unique,unique"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (OwnedItem) TableName() string {
	return "owned_items"
}

// EarnedItem is one timestamped ownership record. At most MaxEarnedItems
// rows are kept per user.
type EarnedItem struct {
	ID         uint      `gorm:"primaryKey"`
	UserID     uint      `gorm:"not null;index"`
	InstanceID string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	OriginalID string    `gorm:"type:varchar(100);not null"`
	Name       string    `gorm:"type:varchar(255)"`
	Type       string    `gorm:"type:varchar(20)"`
	URL        string    `gorm:"type:varchar(500)"`
	Price      int64     `gorm:"default:0;not null"`
	Duration   int       `gorm:"default:6;not null"`
	ExpiresAt  time.Time `gorm:"not null;index"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index"`
}

func (EarnedItem) TableName() string {
	return "earned_items"
}
