package game

import (
	"context"
	"math/rand"
	"testing"

	"github.com/mroshb/liveroom/internal/models"
	"github.com/mroshb/liveroom/pkg/errors"
)

func slotsConfig(winRate int) SlotsConfig {
	settings := &models.GameSettings{}
	settings.Normalize()
	settings.SlotsWinRate = winRate
	return SlotsConfigFrom(settings)
}

func TestSlotsEngine_GuaranteedWin(t *testing.T) {
	wallet := &memWallet{balance: 100000}
	engine := NewSlotsEngine(slotsConfig(100), wallet, rand.New(rand.NewSource(1)))

	result, err := engine.Spin(context.Background(), 1000)
	if err != nil {
		t.Fatalf("Spin() error = %v", err)
	}

	if !result.IsWin {
		t.Fatal("IsWin = false with a 100% win rate")
	}
	if result.Reels[0].ID != result.Reels[1].ID || result.Reels[1].ID != result.Reels[2].ID {
		t.Errorf("winning reels = %v, want three of a kind", result.Reels)
	}
	if result.Payout != 1000*result.Reels[0].Multiplier {
		t.Errorf("Payout = %d, want %d", result.Payout, 1000*result.Reels[0].Multiplier)
	}
	if result.Credited != result.Payout+1000 {
		t.Errorf("Credited = %d, want payout plus returned stake %d", result.Credited, result.Payout+1000)
	}
	if wallet.balance != 100000-1000+result.Credited {
		t.Errorf("balance = %d, want %d", wallet.balance, 100000-1000+result.Credited)
	}
}

func TestSlotsEngine_LossNeverShowsTriple(t *testing.T) {
	wallet := &memWallet{balance: 1 << 40}
	engine := NewSlotsEngine(slotsConfig(0), wallet, rand.New(rand.NewSource(5)))

	for i := 0; i < 2000; i++ {
		result, err := engine.Spin(context.Background(), 100)
		if err != nil {
			t.Fatalf("Spin() error = %v", err)
		}
		if result.IsWin {
			t.Fatal("IsWin = true with a 0% win rate")
		}
		if result.Reels[0].ID == result.Reels[1].ID && result.Reels[1].ID == result.Reels[2].ID {
			t.Fatalf("losing reels = %v, want no three of a kind", result.Reels)
		}
		if result.Payout != 0 || result.Credited != 0 {
			t.Fatalf("loss payout = (%d, %d), want zero", result.Payout, result.Credited)
		}
	}
	if wallet.balance != 1<<40-2000*100 {
		t.Errorf("balance = %d, want every wager debited", wallet.balance)
	}
}

func TestSlotsEngine_BetValidation(t *testing.T) {
	wallet := &memWallet{balance: 50}
	engine := NewSlotsEngine(slotsConfig(50), wallet, rand.New(rand.NewSource(1)))

	if _, err := engine.Spin(context.Background(), 0); errors.Code(err) != errors.ErrCodeInvalidAmount {
		t.Errorf("zero bet error code = %q, want %q", errors.Code(err), errors.ErrCodeInvalidAmount)
	}
	if _, err := engine.Spin(context.Background(), 51); errors.Code(err) != errors.ErrCodeInsufficientFunds {
		t.Errorf("overdraft error code = %q, want %q", errors.Code(err), errors.ErrCodeInsufficientFunds)
	}
	if wallet.balance != 50 {
		t.Errorf("balance = %d, want 50 untouched", wallet.balance)
	}
}

func TestSlotsSymbolsFrom_Multipliers(t *testing.T) {
	settings := &models.GameSettings{}
	settings.Normalize()

	symbols := SlotsSymbolsFrom(settings)
	if len(symbols) != 6 {
		t.Fatalf("symbols = %d, want 6", len(symbols))
	}
	for _, s := range symbols {
		switch s.ID {
		case "seven", "diamond":
			if s.Multiplier != int64(models.DefaultSlotsSevenX) {
				t.Errorf("%s multiplier = %d, want %d", s.ID, s.Multiplier, models.DefaultSlotsSevenX)
			}
		default:
			if s.Multiplier != int64(models.DefaultSlotsFruitX) {
				t.Errorf("%s multiplier = %d, want %d", s.ID, s.Multiplier, models.DefaultSlotsFruitX)
			}
		}
	}
}
