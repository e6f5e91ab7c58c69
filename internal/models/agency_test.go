package models

import "testing"

func TestSalaryToAgencyCoins(t *testing.T) {
	tests := []struct {
		amount int64
		want   int64
	}{
		{70000, 80000},
		{140000, 160000},
		{70001, 80001}, // 70001*80000/70000 truncates to 80001
		{105000, 120000},
	}
	for _, tt := range tests {
		if got := SalaryToAgencyCoins(tt.amount); got != tt.want {
			t.Errorf("SalaryToAgencyCoins(%d) = %d, want %d", tt.amount, got, tt.want)
		}
	}
}

func TestDiamondsToCoins(t *testing.T) {
	tests := []struct {
		amount int64
		want   int64
	}{
		{2, 1},
		{101, 50},
		{1, 0},
		{1000000, 500000},
	}
	for _, tt := range tests {
		if got := DiamondsToCoins(tt.amount); got != tt.want {
			t.Errorf("DiamondsToCoins(%d) = %d, want %d", tt.amount, got, tt.want)
		}
	}
}
