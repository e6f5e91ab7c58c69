package repositories

import (
	"context"
	"time"

	"github.com/mroshb/liveroom/internal/models"
	"github.com/mroshb/liveroom/pkg/errors"
	"github.com/mroshb/liveroom/pkg/utils"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser creates a new user
func (r *UserRepository) CreateUser(user *models.User) error {
	if user.PublicID == "" {
		user.PublicID = utils.GenerateRandomID(8)
	}

	result := r.db.Create(user)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to create user")
	}
	return nil
}

// GetUserByID retrieves a user by primary key
func (r *UserRepository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	result := r.db.First(&user, id)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "user not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get user")
	}

	return &user, nil
}

// GetUserByPublicID retrieves a user by Public ID
func (r *UserRepository) GetUserByPublicID(publicID string) (*models.User, error) {
	var user models.User
	result := r.db.Where("public_id = ?", publicID).First(&user)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "user not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get user")
	}

	return &user, nil
}

// GetSnapshot reads the authoritative balance view for one user.
func (r *UserRepository) GetSnapshot(ctx context.Context, userID uint) (models.Snapshot, error) {
	var user models.User
	result := r.db.WithContext(ctx).
		Select("id", "coins", "diamonds", "wealth", "recharge_points", "agency_balance").
		First(&user, userID)

	if result.Error == gorm.ErrRecordNotFound {
		return models.Snapshot{}, errors.New(errors.ErrCodeNotFound, "user not found")
	}
	if result.Error != nil {
		return models.Snapshot{}, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to read snapshot")
	}

	return user.Snapshot(), nil
}

// ApplyVIPPurchase debits coins, credits wealth and activates the VIP tier
// in one transaction. The balance changes go through ledger deltas; the VIP
// columns are absolute because they are owned by this single operation.
func (r *UserRepository) ApplyVIPPurchase(ctx context.Context, userID uint, pkg *models.VIPPackage, expiresAt time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := applyDelta(ctx, tx, userID, models.FieldCoins, -pkg.Cost); err != nil {
			return err
		}
		if err := applyDelta(ctx, tx, userID, models.FieldWealth, pkg.Cost); err != nil {
			return err
		}

		result := tx.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).
			UpdateColumns(map[string]interface{}{
				"is_vip":         true,
				"vip_level":      pkg.Level,
				"frame":          pkg.FrameURL,
				"vip_expires_at": expiresAt,
			})
		if result.Error != nil {
			return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to activate vip")
		}
		return nil
	})
}

// ExpireVIPs reverts VIP status for users whose window has passed.
// Called from the scheduled sweep.
func (r *UserRepository) ExpireVIPs(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("is_vip = ? AND vip_expires_at < ?", true, now).
		UpdateColumns(map[string]interface{}{
			"is_vip":    false,
			"vip_level": 0,
		})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to expire vips")
	}
	return result.RowsAffected, nil
}

// AdjustBalance applies an admin-issued delta to one balance field.
func (r *UserRepository) AdjustBalance(ctx context.Context, userID uint, field string, amount int64) error {
	return applyDelta(ctx, r.db, userID, field, amount)
}
