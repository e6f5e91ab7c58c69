package repositories

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/mroshb/liveroom/internal/models"
	"github.com/mroshb/liveroom/pkg/errors"
	"gorm.io/gorm"
)

// Delta is one relative change to a named balance field.
type Delta struct {
	Field  string
	Amount int64
}

// TransferEntry is one leg of a multi-account atomic batch.
type TransferEntry struct {
	UserID uint
	Field  string
	Amount int64
}

// balanceFields is the whitelist of columns the ledger may touch.
var balanceFields = map[string]bool{
	models.FieldCoins:          true,
	models.FieldDiamonds:       true,
	models.FieldWealth:         true,
	models.FieldRechargePoints: true,
	models.FieldAgencyBalance:  true,
}

// guardedFields may never go negative; decrements on them carry a floor guard.
var guardedFields = map[string]bool{
	models.FieldCoins:         true,
	models.FieldDiamonds:      true,
	models.FieldAgencyBalance: true,
}

type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// applyDelta issues a single relative UPDATE on one balance column. It never
// reads the current value first, so concurrent deltas from other sessions
// accumulate instead of clobbering each other.
func applyDelta(ctx context.Context, tx *gorm.DB, userID uint, field string, amount int64) error {
	if !balanceFields[field] {
		return errors.New(errors.ErrCodeValidation, fmt.Sprintf("unknown balance field: %s", field))
	}

	q := tx.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID)
	if amount < 0 && guardedFields[field] {
		q = q.Where(field+" >= ?", -amount)
	}

	result := q.UpdateColumn(field, gorm.Expr(field+" + ?", amount))
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to apply balance delta")
	}
	if result.RowsAffected == 0 {
		// Either the row is missing or the guard refused to go negative.
		var count int64
		if err := tx.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to check user")
		}
		if count == 0 {
			return errors.New(errors.ErrCodeNotFound, "user not found")
		}
		return errors.New(errors.ErrCodeInsufficientFunds, fmt.Sprintf("insufficient %s for delta %d", field, amount))
	}
	return nil
}

// ApplyDelta durably adds amount to one balance field.
func (r *LedgerRepository) ApplyDelta(ctx context.Context, userID uint, field string, amount int64) error {
	return applyDelta(ctx, r.db, userID, field, amount)
}

// ApplyDeltas applies a set of deltas to one account atomically.
func (r *LedgerRepository) ApplyDeltas(ctx context.Context, userID uint, deltas []Delta) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, d := range deltas {
			if err := applyDelta(ctx, tx, userID, d.Field, d.Amount); err != nil {
				return err
			}
		}
		return nil
	})
}

// Transfer applies a multi-account batch plus an optional transfer-log
// insertion as one transaction. Every leg commits or none does; a missing
// target account fails the whole batch.
func (r *LedgerRepository) Transfer(ctx context.Context, entries []TransferEntry, log *models.AgencyTransferLog) error {
	if len(entries) == 0 {
		return errors.New(errors.ErrCodeValidation, "empty transfer batch")
	}

	// Lock rows in user-id order so concurrent transfers cannot deadlock.
	ordered := make([]TransferEntry, len(entries))
	copy(ordered, entries)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].UserID < ordered[j].UserID
	})

	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, e := range ordered {
			if err := applyDelta(ctx, tx, e.UserID, e.Field, e.Amount); err != nil {
				return err
			}
		}
		if log != nil {
			if log.LogID == "" {
				log.LogID = uuid.NewString()
			}
			if err := tx.WithContext(ctx).Create(log).Error; err != nil {
				return errors.Wrap(err, errors.ErrCodeInternalError, "failed to append transfer log")
			}
		}
		return nil
	})
}

// ValidateField reports whether name is a ledger-managed balance column.
func ValidateField(name string) bool {
	return balanceFields[name]
}
