package game

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/mroshb/liveroom/internal/models"
	"github.com/mroshb/liveroom/pkg/errors"
	"github.com/mroshb/liveroom/pkg/logger"
)

// WheelConfig parameterizes a wheel-style round. Values come from the
// admin settings feed and are trusted configuration input.
type WheelConfig struct {
	Slots         []Slot
	Chips         []int64
	WinRate       int
	BettingWindow time.Duration
	SpinDuration  time.Duration
	ResultDelay   time.Duration
	HistorySize   int
}

// LionSlots is the lion-wheel segment layout.
var LionSlots = []Slot{
	{ID: "chicken", Label: "Chicken", Icon: "🍗", Multiplier: 45},
	{ID: "octopus", Label: "Octopus", Icon: "🐙", Multiplier: 25},
	{ID: "fish", Label: "Fish", Icon: "🐟", Multiplier: 15},
	{ID: "meat", Label: "Meat", Icon: "🥩", Multiplier: 10},
	{ID: "grapes", Label: "Grapes", Icon: "🍇", Multiplier: 5},
	{ID: "salad", Label: "Salad", Icon: "🥗", Multiplier: 5},
}

// LionConfigFrom builds the lion-wheel round config from live settings.
func LionConfigFrom(settings *models.GameSettings) WheelConfig {
	return WheelConfig{
		Slots:         LionSlots,
		Chips:         settings.LionChipValues(),
		WinRate:       settings.LionWinRate,
		BettingWindow: 15 * time.Second,
		SpinDuration:  5500 * time.Millisecond,
		ResultDelay:   4 * time.Second,
		HistorySize:   4,
	}
}

// WheelConfigFrom builds the classic-wheel config: one jackpot segment,
// the rest paying the normal multiplier.
func WheelConfigFrom(settings *models.GameSettings) WheelConfig {
	slots := []Slot{
		{ID: "jackpot", Label: "Jackpot", Icon: "👑", Multiplier: settings.WheelJackpotX},
	}
	for _, id := range []string{"red", "blue", "green", "gold", "purple"} {
		slots = append(slots, Slot{ID: id, Label: id, Multiplier: settings.WheelNormalX})
	}
	return WheelConfig{
		Slots:         slots,
		Chips:         settings.LionChipValues(),
		WinRate:       settings.WheelWinRate,
		BettingWindow: 15 * time.Second,
		SpinDuration:  5500 * time.Millisecond,
		ResultDelay:   4 * time.Second,
		HistorySize:   4,
	}
}

// RoundResult is the outcome of one resolved round.
type RoundResult struct {
	Winner    Slot
	BetOnSlot int64
	Payout    int64
	Credited  int64
	History   []Slot
}

// WheelEngine runs the betting -> spinning -> result cycle for one player's
// session. Bets are collected only from the local player; wagers debit the
// wallet immediately and winnings (multiplied payout plus the original
// stake) credit it back on resolution.
type WheelEngine struct {
	mu      sync.Mutex
	cfg     WheelConfig
	wallet  Wallet
	rng     *rand.Rand
	state   State
	bets    map[string]int64
	history *history
}

func NewWheelEngine(cfg WheelConfig, wallet Wallet, rng *rand.Rand) *WheelEngine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &WheelEngine{
		cfg:     cfg,
		wallet:  wallet,
		rng:     rng,
		state:   StateBetting,
		bets:    make(map[string]int64),
		history: newHistory(cfg.HistorySize),
	}
}

// State returns the current round phase.
func (e *WheelEngine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Bets returns a copy of the current wager map.
func (e *WheelEngine) Bets() map[string]int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]int64, len(e.bets))
	for k, v := range e.bets {
		out[k] = v
	}
	return out
}

// History returns past winning slots, most recent first.
func (e *WheelEngine) History() []Slot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.list()
}

// PlaceBet wagers one chip on a slot during the betting window. The chip
// value debits the wallet immediately; the wager accumulates on the slot.
func (e *WheelEngine) PlaceBet(ctx context.Context, slotID string, chip int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateBetting {
		return errors.New(errors.ErrCodeValidationFailed, "betting is closed")
	}
	if chip <= 0 {
		return errors.New(errors.ErrCodeInvalidAmount, "chip value must be positive")
	}
	if e.slotIndex(slotID) < 0 {
		return errors.New(errors.ErrCodeValidationFailed, fmt.Sprintf("unknown slot: %s", slotID))
	}

	if err := e.wallet.Debit(ctx, chip); err != nil {
		return err
	}
	e.bets[slotID] += chip
	return nil
}

// Resolve closes betting and settles the round. The winning slot lands on
// a covered slot when the win-rate draw favors the player and at least one
// bet exists; otherwise it is drawn uniformly from all slots. With no bets
// at all a winner is still drawn for history continuity, with no payout.
func (e *WheelEngine) Resolve(ctx context.Context) (*RoundResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateBetting {
		return nil, errors.New(errors.ErrCodeValidationFailed, "round already resolved")
	}
	e.state = StateSpinning

	winner := e.pickWinner()
	e.history.push(winner)

	result := &RoundResult{
		Winner:    winner,
		BetOnSlot: e.bets[winner.ID],
		History:   e.history.list(),
	}

	if result.BetOnSlot > 0 {
		result.Payout = result.BetOnSlot * winner.Multiplier
		result.Credited = result.Payout + result.BetOnSlot // stake returned
		if err := e.wallet.Credit(ctx, result.Credited); err != nil {
			// The wager was already debited; surface the failed credit
			// instead of retrying here.
			e.state = StateResult
			return result, err
		}
	}

	e.state = StateResult
	return result, nil
}

// Reset clears the round back to a fresh betting window.
func (e *WheelEngine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.bets = make(map[string]int64)
	e.state = StateBetting
}

// Run drives the round cycle on wall-clock timers until ctx is done:
// betting window, spin, result display, reset.
func (e *WheelEngine) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(e.cfg.BettingWindow):
		}

		if _, err := e.Resolve(ctx); err != nil {
			logger.Warn("wheel round settled with error", "error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(e.cfg.SpinDuration + e.cfg.ResultDelay):
		}
		e.Reset()
	}
}

// pickWinner implements the two-tier win-rate selection. Caller holds the lock.
func (e *WheelEngine) pickWinner() Slot {
	// Walk slots in layout order so the draw is reproducible under a
	// seeded source.
	var covered []string
	for _, s := range e.cfg.Slots {
		if e.bets[s.ID] > 0 {
			covered = append(covered, s.ID)
		}
	}

	if e.rng.Intn(100) < e.cfg.WinRate && len(covered) > 0 {
		id := covered[e.rng.Intn(len(covered))]
		return e.cfg.Slots[e.slotIndex(id)]
	}
	return e.cfg.Slots[e.rng.Intn(len(e.cfg.Slots))]
}

func (e *WheelEngine) slotIndex(id string) int {
	for i, s := range e.cfg.Slots {
		if s.ID == id {
			return i
		}
	}
	return -1
}
