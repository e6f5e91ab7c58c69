package repositories

import (
	"context"
	"time"

	"github.com/mroshb/liveroom/internal/models"
	"github.com/mroshb/liveroom/pkg/errors"
	"gorm.io/gorm"
)

// AgencyRepository reads the append-only transfer log. Writes happen only
// inside LedgerRepository.Transfer batches.
type AgencyRepository struct {
	db *gorm.DB
}

func NewAgencyRepository(db *gorm.DB) *AgencyRepository {
	return &AgencyRepository{db: db}
}

// ListLogs returns transfer logs, most recent first.
func (r *AgencyRepository) ListLogs(ctx context.Context, limit int) ([]models.AgencyTransferLog, error) {
	var logs []models.AgencyTransferLog
	result := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to list transfer logs")
	}
	return logs, nil
}

// ListLogsByAgent returns one agent's transfer logs, most recent first.
func (r *AgencyRepository) ListLogsByAgent(ctx context.Context, agentID uint, limit int) ([]models.AgencyTransferLog, error) {
	var logs []models.AgencyTransferLog
	result := r.db.WithContext(ctx).
		Where("agent_id = ?", agentID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to list agent logs")
	}
	return logs, nil
}

// ListLogsSince returns logs created on or after the cutoff, oldest first,
// for report export.
func (r *AgencyRepository) ListLogsSince(ctx context.Context, since time.Time) ([]models.AgencyTransferLog, error) {
	var logs []models.AgencyTransferLog
	result := r.db.WithContext(ctx).
		Where("created_at >= ?", since).
		Order("created_at ASC").
		Find(&logs)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to list logs since cutoff")
	}
	return logs, nil
}
