package jobs

import (
	"context"
	"time"

	"github.com/mroshb/liveroom/internal/repositories"
	"github.com/mroshb/liveroom/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Scheduler runs the background sweeps: reverting expired VIP status and
// purging expired earned items.
type Scheduler struct {
	cron  *cron.Cron
	users *repositories.UserRepository
	items *repositories.ItemRepository
}

func NewScheduler(users *repositories.UserRepository, items *repositories.ItemRepository) *Scheduler {
	return &Scheduler{
		cron:  cron.New(),
		users: users,
		items: items,
	}
}

// Start registers and launches the sweeps.
func (s *Scheduler) Start(ctx context.Context) {
	s.cron.AddFunc("@hourly", func() {
		expired, err := s.users.ExpireVIPs(ctx, time.Now().UTC())
		if err != nil {
			logger.Error("vip expiry sweep failed", "error", err)
			return
		}
		if expired > 0 {
			logger.Info("vip expiry sweep", "reverted", expired)
		}
	})

	s.cron.AddFunc("@hourly", func() {
		purged, err := s.items.PurgeExpired(ctx, time.Now().UTC())
		if err != nil {
			logger.Error("earned item purge failed", "error", err)
			return
		}
		if purged > 0 {
			logger.Info("earned item purge", "removed", purged)
		}
	})

	s.cron.Start()
	logger.Info("background sweeps scheduled")
}

// Stop halts the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("background sweeps stopped")
}
