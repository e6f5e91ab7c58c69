package models

import (
	"encoding/json"
	"time"
)

// GameSettings is the admin-controlled configuration feed for the chance
// games and the economy. A single row holds the live values; chips are
// stored as JSON arrays. Values are trusted configuration input.
type GameSettings struct {
	ID                uint   `gorm:"primaryKey"`
	SlotsWinRate      int    `gorm:"default:35;not null"`
	WheelWinRate      int    `gorm:"default:45;not null"`
	LionWinRate       int    `gorm:"default:35;not null"`
	SlotsSevenX       int64  `gorm:"default:20;not null"`
	SlotsFruitX       int64  `gorm:"default:5;not null"`
	WheelJackpotX     int64  `gorm:"default:8;not null"`
	WheelNormalX      int64  `gorm:"default:2;not null"`
	SlotsChips        string `gorm:"type:text;default:'[]'"`
	LionChips         string `gorm:"type:text;default:'[]'"`
	TribeCreationCost int64  `gorm:"default:50000;not null"`
	UpdatedAt         time.Time
}

func (GameSettings) TableName() string {
	return "game_settings"
}

// Defaults used when a settings row or field is absent.
var (
	DefaultSlotsChips = []int64{10000, 1000000, 5000000, 20000000}
	DefaultLionChips  = []int64{100, 1000, 10000, 100000}
)

const (
	DefaultSlotsWinRate      = 35
	DefaultWheelWinRate      = 45
	DefaultLionWinRate       = 35
	DefaultSlotsSevenX       = 20
	DefaultSlotsFruitX       = 5
	DefaultWheelJackpotX     = 8
	DefaultWheelNormalX      = 2
	DefaultTribeCreationCost = 50000
)

// Normalize fills zero-valued fields with the documented defaults.
func (s *GameSettings) Normalize() {
	if s.SlotsWinRate == 0 {
		s.SlotsWinRate = DefaultSlotsWinRate
	}
	if s.WheelWinRate == 0 {
		s.WheelWinRate = DefaultWheelWinRate
	}
	if s.LionWinRate == 0 {
		s.LionWinRate = DefaultLionWinRate
	}
	if s.SlotsSevenX == 0 {
		s.SlotsSevenX = DefaultSlotsSevenX
	}
	if s.SlotsFruitX == 0 {
		s.SlotsFruitX = DefaultSlotsFruitX
	}
	if s.WheelJackpotX == 0 {
		s.WheelJackpotX = DefaultWheelJackpotX
	}
	if s.WheelNormalX == 0 {
		s.WheelNormalX = DefaultWheelNormalX
	}
	if s.TribeCreationCost == 0 {
		s.TribeCreationCost = DefaultTribeCreationCost
	}
	if chips := decodeChips(s.SlotsChips); len(chips) == 0 {
		s.SlotsChips = encodeChips(DefaultSlotsChips)
	}
	if chips := decodeChips(s.LionChips); len(chips) == 0 {
		s.LionChips = encodeChips(DefaultLionChips)
	}
}

// SlotsChipValues decodes the slots chip denominations.
func (s *GameSettings) SlotsChipValues() []int64 {
	if chips := decodeChips(s.SlotsChips); len(chips) > 0 {
		return chips
	}
	return DefaultSlotsChips
}

// LionChipValues decodes the lion-wheel chip denominations.
func (s *GameSettings) LionChipValues() []int64 {
	if chips := decodeChips(s.LionChips); len(chips) > 0 {
		return chips
	}
	return DefaultLionChips
}

func decodeChips(raw string) []int64 {
	if raw == "" {
		return nil
	}
	var chips []int64
	if err := json.Unmarshal([]byte(raw), &chips); err != nil {
		return nil
	}
	return chips
}

func encodeChips(chips []int64) string {
	b, err := json.Marshal(chips)
	if err != nil {
		return "[]"
	}
	return string(b)
}
