package repositories

import (
	"context"

	"github.com/mroshb/liveroom/internal/models"
	"github.com/mroshb/liveroom/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetGameSettings returns the live settings row, normalized with defaults.
// A missing row yields pure defaults rather than an error.
func (r *SettingsRepository) GetGameSettings(ctx context.Context) (*models.GameSettings, error) {
	var settings models.GameSettings
	result := r.db.WithContext(ctx).First(&settings)
	if result.Error != nil && result.Error != gorm.ErrRecordNotFound {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to load game settings")
	}
	settings.Normalize()
	return &settings, nil
}

// SaveGameSettings persists admin edits to the settings row.
func (r *SettingsRepository) SaveGameSettings(ctx context.Context, settings *models.GameSettings) error {
	settings.Normalize()
	if settings.ID == 0 {
		settings.ID = 1
	}
	err := r.db.WithContext(ctx).Save(settings).Error
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to save game settings")
	}
	return nil
}

// GetStoreItem looks up one catalog entry.
func (r *SettingsRepository) GetStoreItem(ctx context.Context, itemID string) (*models.StoreItem, error) {
	var item models.StoreItem
	result := r.db.WithContext(ctx).Where("item_id = ?", itemID).First(&item)
	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "store item not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get store item")
	}
	return &item, nil
}

// ListStoreItems returns the full catalog.
func (r *SettingsRepository) ListStoreItems(ctx context.Context) ([]models.StoreItem, error) {
	var items []models.StoreItem
	result := r.db.WithContext(ctx).Order("price ASC").Find(&items)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to list store items")
	}
	return items, nil
}

// UpsertStoreItem creates or replaces a catalog entry by item_id.
func (r *SettingsRepository) UpsertStoreItem(ctx context.Context, item *models.StoreItem) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "item_id"}},
		UpdateAll: true,
	}).Create(item).Error
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to upsert store item")
	}
	return nil
}

// GetVIPPackage looks up one VIP tier by level.
func (r *SettingsRepository) GetVIPPackage(ctx context.Context, level int) (*models.VIPPackage, error) {
	var pkg models.VIPPackage
	result := r.db.WithContext(ctx).Where("level = ?", level).First(&pkg)
	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "vip package not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get vip package")
	}
	return &pkg, nil
}

// ListVIPPackages returns all VIP tiers ordered by level.
func (r *SettingsRepository) ListVIPPackages(ctx context.Context) ([]models.VIPPackage, error) {
	var pkgs []models.VIPPackage
	result := r.db.WithContext(ctx).Order("level ASC").Find(&pkgs)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to list vip packages")
	}
	return pkgs, nil
}

// UpsertVIPPackage creates or replaces a VIP tier by level.
func (r *SettingsRepository) UpsertVIPPackage(ctx context.Context, pkg *models.VIPPackage) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "level"}},
		UpdateAll: true,
	}).Create(pkg).Error
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to upsert vip package")
	}
	return nil
}
