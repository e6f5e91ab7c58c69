package game

import (
	"context"
	"math/rand"
	"testing"

	"github.com/mroshb/liveroom/internal/models"
	"github.com/mroshb/liveroom/pkg/errors"
)

// memWallet settles wagers against an in-memory balance.
type memWallet struct {
	balance int64
	debits  int
	credits int
}

func (w *memWallet) Debit(ctx context.Context, amount int64) error {
	if w.balance < amount {
		return errors.New(errors.ErrCodeInsufficientFunds, "insufficient coins")
	}
	w.balance -= amount
	w.debits++
	return nil
}

func (w *memWallet) Credit(ctx context.Context, amount int64) error {
	w.balance += amount
	w.credits++
	return nil
}

func lionConfig(winRate int) WheelConfig {
	settings := &models.GameSettings{LionWinRate: winRate}
	settings.Normalize()
	settings.LionWinRate = winRate
	return LionConfigFrom(settings)
}

func TestWheelEngine_GuaranteedWinLandsOnCoveredSlot(t *testing.T) {
	wallet := &memWallet{balance: 100000}
	engine := NewWheelEngine(lionConfig(100), wallet, rand.New(rand.NewSource(1)))

	if err := engine.PlaceBet(context.Background(), "fish", 1000); err != nil {
		t.Fatalf("PlaceBet() error = %v", err)
	}
	if err := engine.PlaceBet(context.Background(), "meat", 1000); err != nil {
		t.Fatalf("PlaceBet() error = %v", err)
	}

	result, err := engine.Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if result.Winner.ID != "fish" && result.Winner.ID != "meat" {
		t.Errorf("Winner = %q, want a covered slot", result.Winner.ID)
	}
	if result.Payout != result.BetOnSlot*result.Winner.Multiplier {
		t.Errorf("Payout = %d, want %d", result.Payout, result.BetOnSlot*result.Winner.Multiplier)
	}
	if result.Credited != result.Payout+result.BetOnSlot {
		t.Errorf("Credited = %d, want payout plus returned stake %d", result.Credited, result.Payout+result.BetOnSlot)
	}
}

func TestWheelEngine_ZeroWinRateIsUniform(t *testing.T) {
	wallet := &memWallet{balance: 1 << 40}
	engine := NewWheelEngine(lionConfig(0), wallet, rand.New(rand.NewSource(7)))

	const rounds = 6000
	hits := make(map[string]int)
	for i := 0; i < rounds; i++ {
		if err := engine.PlaceBet(context.Background(), "chicken", 100); err != nil {
			t.Fatalf("PlaceBet() error = %v", err)
		}
		result, err := engine.Resolve(context.Background())
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		hits[result.Winner.ID]++
		engine.Reset()
	}

	// Six slots: each should land near rounds/6 regardless of where the
	// bet sits.
	want := rounds / len(LionSlots)
	for _, s := range LionSlots {
		got := hits[s.ID]
		if got < want/2 || got > want*2 {
			t.Errorf("slot %q hit %d times, want within [%d, %d]", s.ID, got, want/2, want*2)
		}
	}
}

func TestWheelEngine_NoBetsStillDrawsHistory(t *testing.T) {
	wallet := &memWallet{balance: 1000}
	engine := NewWheelEngine(lionConfig(100), wallet, rand.New(rand.NewSource(3)))

	result, err := engine.Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if result.Payout != 0 || result.Credited != 0 {
		t.Errorf("payout = (%d, %d), want zero with no bets", result.Payout, result.Credited)
	}
	if len(result.History) != 1 {
		t.Errorf("history length = %d, want 1", len(result.History))
	}
	if wallet.credits != 0 {
		t.Errorf("wallet credits = %d, want 0", wallet.credits)
	}
}

func TestWheelEngine_BetValidation(t *testing.T) {
	wallet := &memWallet{balance: 500}
	engine := NewWheelEngine(lionConfig(50), wallet, rand.New(rand.NewSource(1)))

	if err := engine.PlaceBet(context.Background(), "dragon", 100); errors.Code(err) != errors.ErrCodeValidationFailed {
		t.Errorf("unknown slot error code = %q, want %q", errors.Code(err), errors.ErrCodeValidationFailed)
	}
	if err := engine.PlaceBet(context.Background(), "fish", 0); errors.Code(err) != errors.ErrCodeInvalidAmount {
		t.Errorf("zero chip error code = %q, want %q", errors.Code(err), errors.ErrCodeInvalidAmount)
	}
	if err := engine.PlaceBet(context.Background(), "fish", 501); errors.Code(err) != errors.ErrCodeInsufficientFunds {
		t.Errorf("overdraft error code = %q, want %q", errors.Code(err), errors.ErrCodeInsufficientFunds)
	}
	if wallet.balance != 500 {
		t.Errorf("balance = %d, want 500 untouched after rejected bets", wallet.balance)
	}

	if _, err := engine.Resolve(context.Background()); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if err := engine.PlaceBet(context.Background(), "fish", 100); errors.Code(err) != errors.ErrCodeValidationFailed {
		t.Errorf("closed-window error code = %q, want %q", errors.Code(err), errors.ErrCodeValidationFailed)
	}
	if _, err := engine.Resolve(context.Background()); errors.Code(err) != errors.ErrCodeValidationFailed {
		t.Errorf("double resolve error code = %q, want %q", errors.Code(err), errors.ErrCodeValidationFailed)
	}
}

func TestWheelEngine_WinSettlement(t *testing.T) {
	// 10,000 coins, a 1,000 wager on a 20x jackpot slot and a guaranteed
	// win must settle at 30,000: 9,000 after the debit, plus 20,000 payout
	// plus the returned 1,000 stake.
	settings := &models.GameSettings{}
	settings.Normalize()
	settings.WheelWinRate = 100
	settings.WheelJackpotX = 20
	cfg := WheelConfigFrom(settings)

	wallet := &memWallet{balance: 10000}
	engine := NewWheelEngine(cfg, wallet, rand.New(rand.NewSource(1)))

	if err := engine.PlaceBet(context.Background(), "jackpot", 1000); err != nil {
		t.Fatalf("PlaceBet() error = %v", err)
	}
	if wallet.balance != 9000 {
		t.Fatalf("balance after debit = %d, want 9000", wallet.balance)
	}

	result, err := engine.Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if result.Winner.ID != "jackpot" {
		t.Fatalf("Winner = %q, want jackpot (only covered slot)", result.Winner.ID)
	}
	if wallet.balance != 30000 {
		t.Errorf("final balance = %d, want 30000", wallet.balance)
	}
}

func TestWheelEngine_HistoryBounded(t *testing.T) {
	wallet := &memWallet{balance: 1 << 30}
	engine := NewWheelEngine(lionConfig(0), wallet, rand.New(rand.NewSource(9)))

	for i := 0; i < 10; i++ {
		if _, err := engine.Resolve(context.Background()); err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		engine.Reset()
	}
	if got := len(engine.History()); got != 4 {
		t.Errorf("history length = %d, want 4", got)
	}
}
