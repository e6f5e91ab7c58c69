package models

import "testing"

func TestProgressLevel(t *testing.T) {
	tests := []struct {
		name   string
		points int64
		want   int
	}{
		{"zero points", 0, 1},
		{"negative points", -500, 1},
		{"below first threshold", 49999, 1},
		{"first threshold", 50000, 1},
		{"level two", 200000, 2},
		{"level ten", 5000000, 10},
		{"capped at 200", 1 << 62, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ProgressLevel(tt.points); got != tt.want {
				t.Errorf("ProgressLevel(%d) = %d, want %d", tt.points, got, tt.want)
			}
		})
	}
}

func TestSnapshot_AddField(t *testing.T) {
	snap := Snapshot{UserID: 1, Coins: 100, Diamonds: 50}

	moved := snap.AddField(FieldCoins, -30).AddField(FieldWealth, 30)
	if moved.Coins != 70 || moved.Wealth != 30 {
		t.Errorf("moved = %+v, want Coins 70, Wealth 30", moved)
	}

	// AddField is a value operation; the original is untouched.
	if snap.Coins != 100 || snap.Wealth != 0 {
		t.Errorf("original mutated: %+v", snap)
	}

	// Unknown fields are ignored.
	if got := snap.AddField("unknown", 999); got != snap {
		t.Errorf("unknown field changed snapshot: %+v", got)
	}
}

func TestSnapshot_Field(t *testing.T) {
	snap := Snapshot{Coins: 1, Diamonds: 2, Wealth: 3, RechargePoints: 4, AgencyBalance: 5}

	for name, want := range map[string]int64{
		FieldCoins:          1,
		FieldDiamonds:       2,
		FieldWealth:         3,
		FieldRechargePoints: 4,
		FieldAgencyBalance:  5,
		"unknown":           0,
	} {
		if got := snap.Field(name); got != want {
			t.Errorf("Field(%q) = %d, want %d", name, got, want)
		}
	}
}

func TestUser_BeforeSaveRejectsNegativeBalances(t *testing.T) {
	valid := &User{Name: "player", Coins: 100}
	if err := valid.BeforeSave(nil); err != nil {
		t.Errorf("BeforeSave() error = %v for valid user", err)
	}

	for _, u := range []*User{
		{Name: "a", Coins: -1},
		{Name: "b", Diamonds: -1},
		{Name: "c", AgencyBalance: -1},
		{Name: "d", Wealth: -1},
		{Name: "e", RechargePoints: -1},
	} {
		if err := u.BeforeSave(nil); err == nil {
			t.Errorf("BeforeSave() = nil for %+v, want error", u)
		}
	}
}
