package models

import (
	"math"
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID             uint   `gorm:"primaryKey"`
	PublicID       string `gorm:"uniqueIndex;type:varchar(8)"`
	Name           string `gorm:"type:varchar(255);not null"`
	Coins          int64  `gorm:"default:0;not null"`
	Diamonds       int64  `gorm:"default:0;not null"`
	Wealth         int64  `gorm:"default:0;not null"`
	RechargePoints int64  `gorm:"default:0;not null"`
	AgencyBalance  int64  `gorm:"default:0;not null"`
	IsAgent        bool   `gorm:"default:false;not null"`
	IsVip          bool   `gorm:"default:false;not null"`
	VipLevel       int    `gorm:"default:0;not null"`
	VipExpiresAt   time.Time
	Frame          string    `gorm:"type:varchar(500)"`
	ActiveBubble   string    `gorm:"type:varchar(500)"`
	ActiveEntry    string    `gorm:"type:varchar(500)"`
	TribeID        uint      `gorm:"default:0;index"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

// Balance field names accepted by the ledger. Every durable balance change
// goes through a relative increment on one of these columns.
const (
	FieldCoins          = "coins"
	FieldDiamonds       = "diamonds"
	FieldWealth         = "wealth"
	FieldRechargePoints = "recharge_points"
	FieldAgencyBalance  = "agency_balance"
)

// Snapshot is the balance view the economy operations work from. Operations
// take it as an explicit argument; they never read ambient state.
type Snapshot struct {
	UserID         uint
	Coins          int64
	Diamonds       int64
	Wealth         int64
	RechargePoints int64
	AgencyBalance  int64
}

func (u *User) Snapshot() Snapshot {
	return Snapshot{
		UserID:         u.ID,
		Coins:          u.Coins,
		Diamonds:       u.Diamonds,
		Wealth:         u.Wealth,
		RechargePoints: u.RechargePoints,
		AgencyBalance:  u.AgencyBalance,
	}
}

// Field returns the named balance, used when folding pending deltas into a view.
func (s Snapshot) Field(name string) int64 {
	switch name {
	case FieldCoins:
		return s.Coins
	case FieldDiamonds:
		return s.Diamonds
	case FieldWealth:
		return s.Wealth
	case FieldRechargePoints:
		return s.RechargePoints
	case FieldAgencyBalance:
		return s.AgencyBalance
	}
	return 0
}

// AddField returns a copy with the named balance shifted by delta.
func (s Snapshot) AddField(name string, delta int64) Snapshot {
	switch name {
	case FieldCoins:
		s.Coins += delta
	case FieldDiamonds:
		s.Diamonds += delta
	case FieldWealth:
		s.Wealth += delta
	case FieldRechargePoints:
		s.RechargePoints += delta
	case FieldAgencyBalance:
		s.AgencyBalance += delta
	}
	return s
}

// ProgressLevel converts an accumulated point total (wealth or recharge
// points) into the 1..200 display level.
func ProgressLevel(points int64) int {
	if points <= 0 {
		return 1
	}
	l := int(math.Sqrt(float64(points) / 50000))
	if l < 1 {
		return 1
	}
	if l > 200 {
		return 200
	}
	return l
}

func (u *User) WealthLevel() int {
	return ProgressLevel(u.Wealth)
}

func (u *User) RechargeLevel() int {
	return ProgressLevel(u.RechargePoints)
}

// BeforeSave hook rejects writes that would persist a negative balance.
func (u *User) BeforeSave(tx *gorm.DB) error {
	if u.Coins < 0 || u.Diamonds < 0 || u.AgencyBalance < 0 {
		return gorm.ErrInvalidData
	}
	if u.Wealth < 0 || u.RechargePoints < 0 {
		return gorm.ErrInvalidData
	}
	return nil
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}
