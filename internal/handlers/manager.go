package handlers

import (
	"context"
	"sync"

	"github.com/mroshb/liveroom/internal/config"
	"github.com/mroshb/liveroom/internal/middleware"
	"github.com/mroshb/liveroom/internal/models"
	"github.com/mroshb/liveroom/internal/notify"
	"github.com/mroshb/liveroom/internal/repositories"
	"github.com/mroshb/liveroom/internal/services"
	"github.com/mroshb/liveroom/internal/subscriptions"
	"gorm.io/gorm"
)

type HandlerManager struct {
	Config       *config.Config
	DB           *gorm.DB
	UserRepo     *repositories.UserRepository
	ItemRepo     *repositories.ItemRepository
	AgencyRepo   *repositories.AgencyRepository
	SettingsRepo *repositories.SettingsRepository
	Economy      *services.EconomyService
	Tribes       *services.TribeService
	Hub          *subscriptions.Hub
	RateLimiter  *middleware.RateLimiter
	Notifier     *notify.Notifier

	wheelSessions sync.Map // userID -> *wheelSession
	slotsSessions sync.Map // userID -> *slotsSession
}

func NewHandlerManager(
	cfg *config.Config,
	db *gorm.DB,
	userRepo *repositories.UserRepository,
	itemRepo *repositories.ItemRepository,
	agencyRepo *repositories.AgencyRepository,
	settingsRepo *repositories.SettingsRepository,
	economy *services.EconomyService,
	tribes *services.TribeService,
	hub *subscriptions.Hub,
	rateLimiter *middleware.RateLimiter,
	notifier *notify.Notifier,
) *HandlerManager {
	return &HandlerManager{
		Config:       cfg,
		DB:           db,
		UserRepo:     userRepo,
		ItemRepo:     itemRepo,
		AgencyRepo:   agencyRepo,
		SettingsRepo: settingsRepo,
		Economy:      economy,
		Tribes:       tribes,
		Hub:          hub,
		RateLimiter:  rateLimiter,
		Notifier:     notifier,
	}
}

// snapshotFor returns the caller's projected balance view, seeding the
// projector from the store on first contact.
func (m *HandlerManager) snapshotFor(ctx context.Context, userID uint) (models.Snapshot, error) {
	if view, ok := m.Economy.Projector().View(userID); ok {
		return view, nil
	}
	snap, err := m.UserRepo.GetSnapshot(ctx, userID)
	if err != nil {
		return models.Snapshot{}, err
	}
	m.Economy.Projector().Seed(snap)
	return snap, nil
}
