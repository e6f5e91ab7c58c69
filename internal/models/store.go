package models

import (
	"time"
)

// StoreItem is an admin-managed catalog entry. Prices and ownership
// durations are configuration, edited through the admin API.
type StoreItem struct {
	ID            uint      `gorm:"primaryKey"`
	ItemID        string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	Name          string    `gorm:"type:varchar(255);not null"`
	Type          string    `gorm:"type:varchar(20);not null"`
	URL           string    `gorm:"type:varchar(500)"`
	Price         int64     `gorm:"not null"`
	OwnershipDays int       `gorm:"default:30;not null"`
	Duration      int       `gorm:"default:6;not null"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (StoreItem) TableName() string {
	return "store_items"
}

// Metadata converts the catalog row into purchase-time item metadata.
func (i *StoreItem) Metadata() ItemMetadata {
	return ItemMetadata{
		Name:          i.Name,
		Type:          i.Type,
		URL:           i.URL,
		Price:         i.Price,
		OwnershipDays: i.OwnershipDays,
		Duration:      i.Duration,
	}
}

// VIPPackage is an admin-managed VIP tier.
type VIPPackage struct {
	ID        uint      `gorm:"primaryKey"`
	Level     int       `gorm:"uniqueIndex;not null"`
	Name      string    `gorm:"type:varchar(100)"`
	Cost      int64     `gorm:"not null"`
	FrameURL  string    `gorm:"type:varchar(500)"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (VIPPackage) TableName() string {
	return "vip_packages"
}

// VIPDuration is the fixed VIP validity window from purchase.
const VIPDuration = 30 * 24 * time.Hour
