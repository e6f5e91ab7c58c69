package game

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/mroshb/liveroom/internal/models"
	"github.com/mroshb/liveroom/pkg/errors"
)

// Symbol is one reel face.
type Symbol struct {
	ID         string
	Icon       string
	Multiplier int64
}

// SlotsConfig parameterizes the slots machine from the admin settings feed.
type SlotsConfig struct {
	Symbols      []Symbol
	Chips        []int64
	WinRate      int
	SpinDuration time.Duration
}

// SlotsSymbolsFrom builds the reel faces: seven and diamond pay the high
// multiplier, fruit pays the low one.
func SlotsSymbolsFrom(settings *models.GameSettings) []Symbol {
	return []Symbol{
		{ID: "seven", Icon: "7️⃣", Multiplier: settings.SlotsSevenX},
		{ID: "diamond", Icon: "💎", Multiplier: settings.SlotsSevenX},
		{ID: "cherry", Icon: "🍒", Multiplier: settings.SlotsFruitX},
		{ID: "lemon", Icon: "🍋", Multiplier: settings.SlotsFruitX},
		{ID: "grapes", Icon: "🍇", Multiplier: settings.SlotsFruitX},
		{ID: "watermelon", Icon: "🍉", Multiplier: settings.SlotsFruitX},
	}
}

// SlotsConfigFrom builds the machine config from live settings.
func SlotsConfigFrom(settings *models.GameSettings) SlotsConfig {
	return SlotsConfig{
		Symbols:      SlotsSymbolsFrom(settings),
		Chips:        settings.SlotsChipValues(),
		WinRate:      settings.SlotsWinRate,
		SpinDuration: 2 * time.Second,
	}
}

// SpinResult is the settled outcome of one spin.
type SpinResult struct {
	Reels    [3]Symbol
	Bet      int64
	IsWin    bool
	Payout   int64
	Credited int64
}

// SlotsEngine is the single-spin machine: each spin is its own round, the
// wager debits immediately and a win credits the multiplied payout plus the
// original stake.
type SlotsEngine struct {
	mu     sync.Mutex
	cfg    SlotsConfig
	wallet Wallet
	rng    *rand.Rand
}

func NewSlotsEngine(cfg SlotsConfig, wallet Wallet, rng *rand.Rand) *SlotsEngine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &SlotsEngine{cfg: cfg, wallet: wallet, rng: rng}
}

// Spin wagers bet and settles immediately. On a win all three reels show a
// uniformly drawn symbol and the payout is bet times its multiplier; on a
// loss the reels never show three of a kind.
func (e *SlotsEngine) Spin(ctx context.Context, bet int64) (*SpinResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if bet <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidAmount, "bet must be positive")
	}
	if err := e.wallet.Debit(ctx, bet); err != nil {
		return nil, err
	}

	result := &SpinResult{Bet: bet}
	symbols := e.cfg.Symbols

	if e.rng.Intn(100) < e.cfg.WinRate {
		s := symbols[e.rng.Intn(len(symbols))]
		result.Reels = [3]Symbol{s, s, s}
		result.IsWin = true
		result.Payout = bet * s.Multiplier
		result.Credited = result.Payout + bet // stake returned
		if err := e.wallet.Credit(ctx, result.Credited); err != nil {
			return result, err
		}
		return result, nil
	}

	r1 := symbols[e.rng.Intn(len(symbols))]
	r2 := symbols[e.rng.Intn(len(symbols))]
	r3 := symbols[e.rng.Intn(len(symbols))]
	for r1.ID == r2.ID && r2.ID == r3.ID {
		r3 = symbols[e.rng.Intn(len(symbols))]
	}
	result.Reels = [3]Symbol{r1, r2, r3}
	return result, nil
}
