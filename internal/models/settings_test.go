package models

import (
	"reflect"
	"testing"
)

func TestGameSettings_NormalizeFillsDefaults(t *testing.T) {
	var s GameSettings
	s.Normalize()

	if s.SlotsWinRate != DefaultSlotsWinRate {
		t.Errorf("SlotsWinRate = %d, want %d", s.SlotsWinRate, DefaultSlotsWinRate)
	}
	if s.WheelWinRate != DefaultWheelWinRate {
		t.Errorf("WheelWinRate = %d, want %d", s.WheelWinRate, DefaultWheelWinRate)
	}
	if s.LionWinRate != DefaultLionWinRate {
		t.Errorf("LionWinRate = %d, want %d", s.LionWinRate, DefaultLionWinRate)
	}
	if s.SlotsSevenX != DefaultSlotsSevenX || s.SlotsFruitX != DefaultSlotsFruitX {
		t.Errorf("slots multipliers = (%d, %d), want (%d, %d)", s.SlotsSevenX, s.SlotsFruitX, DefaultSlotsSevenX, DefaultSlotsFruitX)
	}
	if s.WheelJackpotX != DefaultWheelJackpotX || s.WheelNormalX != DefaultWheelNormalX {
		t.Errorf("wheel multipliers = (%d, %d), want (%d, %d)", s.WheelJackpotX, s.WheelNormalX, DefaultWheelJackpotX, DefaultWheelNormalX)
	}
	if s.TribeCreationCost != DefaultTribeCreationCost {
		t.Errorf("TribeCreationCost = %d, want %d", s.TribeCreationCost, DefaultTribeCreationCost)
	}
	if !reflect.DeepEqual(s.SlotsChipValues(), DefaultSlotsChips) {
		t.Errorf("SlotsChipValues = %v, want %v", s.SlotsChipValues(), DefaultSlotsChips)
	}
	if !reflect.DeepEqual(s.LionChipValues(), DefaultLionChips) {
		t.Errorf("LionChipValues = %v, want %v", s.LionChipValues(), DefaultLionChips)
	}
}

func TestGameSettings_NormalizeKeepsExplicitValues(t *testing.T) {
	s := GameSettings{
		SlotsWinRate: 70,
		SlotsChips:   "[100,200]",
	}
	s.Normalize()

	if s.SlotsWinRate != 70 {
		t.Errorf("SlotsWinRate = %d, want 70 kept", s.SlotsWinRate)
	}
	if want := []int64{100, 200}; !reflect.DeepEqual(s.SlotsChipValues(), want) {
		t.Errorf("SlotsChipValues = %v, want %v", s.SlotsChipValues(), want)
	}
}

func TestGameSettings_ChipValuesOnMalformedJSON(t *testing.T) {
	s := GameSettings{LionChips: "not json"}
	if !reflect.DeepEqual(s.LionChipValues(), DefaultLionChips) {
		t.Errorf("LionChipValues = %v, want defaults on malformed input", s.LionChipValues())
	}
}
