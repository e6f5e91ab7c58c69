package game

import (
	"context"
)

// State is a round's lifecycle phase. Rounds cycle
// Betting -> Spinning -> Result -> Betting.
type State string

const (
	StateBetting  State = "betting"
	StateSpinning State = "spinning"
	StateResult   State = "result"
)

// Slot is one outcome segment of a wheel-style game.
type Slot struct {
	ID         string
	Label      string
	Icon       string
	Multiplier int64
}

// Wallet is the balance surface the engines settle against. Debits fail
// when the covered balance is insufficient; both calls apply optimistically
// and sync durably behind the scenes.
type Wallet interface {
	Debit(ctx context.Context, amount int64) error
	Credit(ctx context.Context, amount int64) error
}

// history is a bounded most-recent-first list of past winning slots,
// kept purely for display.
type history struct {
	slots []Slot
	cap   int
}

func newHistory(capacity int) *history {
	if capacity <= 0 {
		capacity = 4
	}
	return &history{cap: capacity}
}

func (h *history) push(s Slot) {
	h.slots = append([]Slot{s}, h.slots...)
	if len(h.slots) > h.cap {
		h.slots = h.slots[:h.cap]
	}
}

func (h *history) list() []Slot {
	out := make([]Slot, len(h.slots))
	copy(out, h.slots)
	return out
}
