package models

import (
	"time"
)

type Tribe struct {
	ID          uint      `gorm:"primaryKey"`
	Name        string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	Image       string    `gorm:"type:varchar(500)"`
	LeaderID    uint      `gorm:"not null;index"`
	LeaderName  string    `gorm:"type:varchar(255)"`
	MemberCount int       `gorm:"default:1;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Tribe) TableName() string {
	return "tribes"
}

type TribeMember struct {
	ID       uint      `gorm:"primaryKey"`
	TribeID  uint      `gorm:"not null;index:idx_tribe_member,unique"`
	UserID   uint      `gorm:"not null;index:idx_tribe_member,unique"`
	Role     string    `gorm:"type:varchar(20);default:'member';not null"`
	JoinedAt time.Time `gorm:"autoCreateTime"`
}

func (TribeMember) TableName() string {
	return "tribe_members"
}

// Tribe member roles
const (
	TribeRoleLeader = "leader"
	TribeRoleMember = "member"
)

// MaxTribeMembers caps tribe size.
const MaxTribeMembers = 50
