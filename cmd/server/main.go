package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mroshb/liveroom/internal/config"
	"github.com/mroshb/liveroom/internal/database"
	"github.com/mroshb/liveroom/internal/handlers"
	"github.com/mroshb/liveroom/internal/jobs"
	"github.com/mroshb/liveroom/internal/middleware"
	"github.com/mroshb/liveroom/internal/notify"
	"github.com/mroshb/liveroom/internal/repositories"
	"github.com/mroshb/liveroom/internal/services"
	"github.com/mroshb/liveroom/internal/subscriptions"
	"github.com/mroshb/liveroom/pkg/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Initialize logger
	logger.Init()
	defer logger.Sync()

	logger.Info("Starting live room economy server...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load config", err)
	}

	// Validate production security settings
	if cfg.AppEnv == "production" {
		if err := cfg.ValidateProductionSecurity(); err != nil {
			logger.Fatal("Production security validation failed", err)
		}
		logger.Info("Production security validation passed")
	}

	// Connect to database with TLS
	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", err)
	}

	// Run GORM auto-migration
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	itemRepo := repositories.NewItemRepository(db)
	ledgerRepo := repositories.NewLedgerRepository(db)
	agencyRepo := repositories.NewAgencyRepository(db)
	settingsRepo := repositories.NewSettingsRepository(db)

	// Ops notifier (no-op when unconfigured)
	notifier, err := notify.New(cfg.OpsBotToken, cfg.OpsChatID)
	if err != nil {
		logger.Warn("Ops notifier disabled", "error", err)
	}

	// Live snapshot hub
	hub := subscriptions.NewHub()

	// Economy engine: optimistic projections over async durable writes.
	// Acked writes re-read the authoritative row and fan the reconciled
	// view out to subscribers; failed writes roll the projection back
	// and page the ops channel.
	projector := services.NewProjector()
	economy := services.NewEconomyService(ledgerRepo, itemRepo, userRepo, projector)
	economy.SetSyncHandler(func(result services.SyncResult) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if result.Err != nil {
			notifier.SyncFailure(result.Op.Kind, result.Op.Ref, result.Op.UserID, result.Err)
		}

		snap, err := userRepo.GetSnapshot(ctx, result.Op.UserID)
		if err != nil {
			logger.Error("reconciliation read failed", "user_id", result.Op.UserID, "error", err)
			return
		}
		hub.Publish(ctx, projector.ApplySnapshot(snap))
	})

	tribeRepo := repositories.NewTribeRepository(db)
	tribes := services.NewTribeService(tribeRepo, projector)

	// Background sweeps: VIP expiry and cosmetic ownership purge
	scheduler := jobs.NewScheduler(userRepo, itemRepo)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	scheduler.Start(ctx)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitPerUser, cfg.RateLimitPerIP, time.Minute)

	manager := handlers.NewHandlerManager(
		cfg, db,
		userRepo, itemRepo, agencyRepo, settingsRepo,
		economy, tribes,
		hub, rateLimiter, notifier,
	)

	server := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      handlers.NewRouter(manager),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("Server listening", "port", cfg.AppPort, "env", cfg.AppEnv)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
	}

	scheduler.Stop()
	economy.Flush()
	logger.Info("Server stopped")
}
