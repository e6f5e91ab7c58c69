package repositories

import (
	"context"

	"github.com/mroshb/liveroom/internal/models"
	"github.com/mroshb/liveroom/pkg/errors"
	"gorm.io/gorm"
)

type TribeRepository struct {
	db *gorm.DB
}

func NewTribeRepository(db *gorm.DB) *TribeRepository {
	return &TribeRepository{db: db}
}

// CreateTribeWithSpend founds a tribe in one transaction: the creation cost
// leaves coins and lands in wealth, the tribe and leader-membership rows are
// created, and the founder's tribe_id is set.
func (r *TribeRepository) CreateTribeWithSpend(ctx context.Context, tribe *models.Tribe, cost int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := applyDelta(ctx, tx, tribe.LeaderID, models.FieldCoins, -cost); err != nil {
			return err
		}
		if err := applyDelta(ctx, tx, tribe.LeaderID, models.FieldWealth, cost); err != nil {
			return err
		}

		tribe.MemberCount = 1
		if err := tx.WithContext(ctx).Create(tribe).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create tribe")
		}

		member := models.TribeMember{
			TribeID: tribe.ID,
			UserID:  tribe.LeaderID,
			Role:    models.TribeRoleLeader,
		}
		if err := tx.WithContext(ctx).Create(&member).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create leader membership")
		}

		result := tx.WithContext(ctx).Model(&models.User{}).
			Where("id = ?", tribe.LeaderID).
			UpdateColumn("tribe_id", tribe.ID)
		if result.Error != nil {
			return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to set tribe id")
		}
		return nil
	})
}

// GetTribeByID retrieves a tribe
func (r *TribeRepository) GetTribeByID(id uint) (*models.Tribe, error) {
	var tribe models.Tribe
	result := r.db.First(&tribe, id)
	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "tribe not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get tribe")
	}
	return &tribe, nil
}

// GetUserTribe returns the tribe a user belongs to, or nil.
func (r *TribeRepository) GetUserTribe(userID uint) (*models.Tribe, error) {
	var member models.TribeMember
	result := r.db.Where("user_id = ?", userID).First(&member)
	if result.Error == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get membership")
	}
	return r.GetTribeByID(member.TribeID)
}

// AddMember joins a user to a tribe and bumps the member count.
func (r *TribeRepository) AddMember(ctx context.Context, tribeID, userID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		member := models.TribeMember{
			TribeID: tribeID,
			UserID:  userID,
			Role:    models.TribeRoleMember,
		}
		if err := tx.WithContext(ctx).Create(&member).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to add member")
		}

		result := tx.WithContext(ctx).Model(&models.Tribe{}).
			Where("id = ?", tribeID).
			UpdateColumn("member_count", gorm.Expr("member_count + 1"))
		if result.Error != nil {
			return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to bump member count")
		}

		result = tx.WithContext(ctx).Model(&models.User{}).
			Where("id = ?", userID).
			UpdateColumn("tribe_id", tribeID)
		if result.Error != nil {
			return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to set tribe id")
		}
		return nil
	})
}

// RemoveMember removes a user from a tribe and decrements the member count.
func (r *TribeRepository) RemoveMember(ctx context.Context, tribeID, userID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.WithContext(ctx).
			Where("tribe_id = ? AND user_id = ?", tribeID, userID).
			Delete(&models.TribeMember{})
		if result.Error != nil {
			return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to remove member")
		}
		if result.RowsAffected == 0 {
			return errors.New(errors.ErrCodeNotFound, "membership not found")
		}

		result = tx.WithContext(ctx).Model(&models.Tribe{}).
			Where("id = ? AND member_count > 0", tribeID).
			UpdateColumn("member_count", gorm.Expr("member_count - 1"))
		if result.Error != nil {
			return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to drop member count")
		}

		result = tx.WithContext(ctx).Model(&models.User{}).
			Where("id = ?", userID).
			UpdateColumn("tribe_id", 0)
		if result.Error != nil {
			return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to clear tribe id")
		}
		return nil
	})
}

// GetMembers lists a tribe's memberships.
func (r *TribeRepository) GetMembers(tribeID uint) ([]models.TribeMember, error) {
	var members []models.TribeMember
	result := r.db.Where("tribe_id = ?", tribeID).Find(&members)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get members")
	}
	return members, nil
}
