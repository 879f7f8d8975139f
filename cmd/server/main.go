package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hinata/kanaflash/internal/api"
	"github.com/hinata/kanaflash/internal/config"
	"github.com/hinata/kanaflash/internal/db"
	"github.com/hinata/kanaflash/internal/logger"
	"github.com/hinata/kanaflash/internal/repository/sqlite"
	"github.com/hinata/kanaflash/internal/scheduler"
	"github.com/hinata/kanaflash/internal/security"
	"github.com/hinata/kanaflash/internal/services"
	"github.com/hinata/kanaflash/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("KanaFlash Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("session_ttl=%s", cfg.SessionTTL)
	log.Debug("session_idle_timeout=%s", cfg.SessionIdleTimeout)
	log.Debug("cleanup_interval=%s", cfg.CleanupInterval)
	log.Debug("retry_worker_count=%d", cfg.RetryWorkerCount)
	log.Debug("retry_queue_size=%d", cfg.RetryQueueSize)
	log.Debug("choice_count=%d", cfg.ChoiceCount)

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Initialize repositories
	characterRepo := sqlite.NewCharacterRepository(database.DB)
	accuracyRepo := sqlite.NewAccuracyRepository(database.DB)
	userRepo := sqlite.NewUserRepository(database.DB)
	statsRepo := sqlite.NewStatsRepository(database.DB)

	// Initialize worker pool for accuracy persistence retries
	retryPool := worker.NewPool(cfg.RetryWorkerCount, cfg.RetryQueueSize)

	// Initialize services
	issuer := security.NewTokenIssuer(cfg.AuthTokenSecret, cfg.AuthTokenTTL)
	authService := services.NewAuthService(userRepo, issuer, cfg.SessionTTL)
	practiceService := services.NewPracticeService(characterRepo, accuracyRepo, retryPool, cfg.ChoiceCount)
	statsService := services.NewStatsService(statsRepo)

	srv := &api.Server{
		DB:              database,
		AuthService:     authService,
		PracticeService: practiceService,
		StatsService:    statsService,
	}

	ctx, cancel := context.WithCancel(context.Background())
	retryPool.Start(ctx)

	// Housekeeping: expired auth sessions and idle practice sessions
	housekeeping := scheduler.New(userRepo, practiceService, cfg.CleanupInterval, cfg.SessionIdleTimeout)
	housekeeping.Start()

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("stopping scheduler")
	housekeeping.Stop()

	log.Debug("stopping worker pool")
	cancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	retryPool.Stop()

	log.Info("===========================================")
	log.Info("KanaFlash Server Stopped")
	log.Info("===========================================")
}
