package models

import (
	"time"
)

// AgencyTransferLog is the append-only audit record of agency grants.
// Rows are created inside the transfer transaction and never updated.
type AgencyTransferLog struct {
	ID        uint      `gorm:"primaryKey"`
	LogID     string    `gorm:"type:varchar(36);uniqueIndex;not null"`
	AgentID   uint      `gorm:"not null;index"`
	TargetID  uint      `gorm:"not null;index"`
	Amount    int64     `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}

func (AgencyTransferLog) TableName() string {
	return "agency_transfer_logs"
}

// Salary exchange terms: every 70,000 diamonds yields 80,000 agency coins.
const (
	SalaryExchangeFloor = 70000
	SalaryExchangeYield = 80000
)

// SalaryToAgencyCoins converts a diamond amount into agency-coin credit,
// truncating toward zero so rounding never creates currency.
func SalaryToAgencyCoins(amount int64) int64 {
	return amount * SalaryExchangeYield / SalaryExchangeFloor
}

// DiamondsToCoins applies the fixed 2:1 diamond-to-coin rate, truncated.
func DiamondsToCoins(amount int64) int64 {
	return amount / 2
}
