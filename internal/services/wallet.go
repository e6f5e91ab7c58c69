package services

import (
	"context"

	"github.com/mroshb/liveroom/pkg/errors"
)

// Wallet binds one user's projected balance to the game engines' settle
// surface: debits validate against the optimistic view, credits always
// land. Both flow through the ledger as deltas.
type Wallet struct {
	econ   *EconomyService
	userID uint
}

func NewWallet(econ *EconomyService, userID uint) *Wallet {
	return &Wallet{econ: econ, userID: userID}
}

func (w *Wallet) Debit(ctx context.Context, amount int64) error {
	view, ok := w.econ.Projector().View(w.userID)
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "no balance snapshot for user")
	}
	_, err := w.econ.DebitCoins(ctx, view, amount)
	return err
}

func (w *Wallet) Credit(ctx context.Context, amount int64) error {
	_, err := w.econ.CreditCoins(ctx, w.userID, amount)
	return err
}
