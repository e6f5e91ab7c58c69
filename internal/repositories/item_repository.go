package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/mroshb/liveroom/internal/models"
	"github.com/mroshb/liveroom/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ItemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// RecordPurchase commits the durable side of a store purchase in one
// transaction: coin debit, wealth credit, cosmetic activation, owned-items
// set union and the capped earned-items append.
func (r *ItemRepository) RecordPurchase(ctx context.Context, userID uint, price int64, itemID string, meta models.ItemMetadata, now time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := applyDelta(ctx, tx, userID, models.FieldCoins, -price); err != nil {
			return err
		}
		if err := applyDelta(ctx, tx, userID, models.FieldWealth, price); err != nil {
			return err
		}

		if itemID == "" {
			return nil
		}

		if col := cosmeticColumn(meta.Type); col != "" {
			result := tx.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).
				UpdateColumn(col, meta.URL)
			if result.Error != nil {
				return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to activate cosmetic")
			}
		}

		owned := models.OwnedItem{UserID: userID, ItemID: itemID}
		err := tx.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&owned).Error
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to record ownership")
		}

		earned := models.EarnedItem{
			UserID:     userID,
			InstanceID: fmt.Sprintf("%s_buy_%d", itemID, now.UnixMilli()),
			OriginalID: itemID,
			Name:       meta.Name,
			Type:       meta.Type,
			URL:        meta.URL,
			Price:      meta.Price,
			Duration:   durationOrDefault(meta.Duration),
			ExpiresAt:  meta.ExpiryFrom(now),
		}
		if err := tx.WithContext(ctx).Create(&earned).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to append earned item")
		}

		return trimEarnedItems(ctx, tx, userID)
	})
}

// trimEarnedItems evicts the oldest rows beyond the cap. Entries are never
// touched after creation, so insertion order is eviction order.
func trimEarnedItems(ctx context.Context, tx *gorm.DB, userID uint) error {
	sub := tx.WithContext(ctx).Model(&models.EarnedItem{}).
		Select("id").
		Where("user_id = ?", userID).
		Order("id DESC").
		Limit(models.MaxEarnedItems)

	result := tx.WithContext(ctx).
		Where("user_id = ? AND id NOT IN (?)", userID, sub).
		Delete(&models.EarnedItem{})
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to trim earned items")
	}
	return nil
}

// GetEarnedItems returns the user's earned items, most recent first.
func (r *ItemRepository) GetEarnedItems(ctx context.Context, userID uint) ([]models.EarnedItem, error) {
	var items []models.EarnedItem
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&items)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get earned items")
	}
	return items, nil
}

// OwnsItem reports whether the user already owns a store item.
func (r *ItemRepository) OwnsItem(ctx context.Context, userID uint, itemID string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.OwnedItem{}).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Count(&count)
	if result.Error != nil {
		return false, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to check ownership")
	}
	return count > 0, nil
}

// PurgeExpired removes earned items whose ownership window has passed.
func (r *ItemRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&models.EarnedItem{})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to purge expired items")
	}
	return result.RowsAffected, nil
}

func cosmeticColumn(itemType string) string {
	switch itemType {
	case models.ItemTypeFrame:
		return "frame"
	case models.ItemTypeBubble:
		return "active_bubble"
	case models.ItemTypeEntry:
		return "active_entry"
	}
	return ""
}

func durationOrDefault(d int) int {
	if d <= 0 {
		return 6
	}
	return d
}
