package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/api"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/config"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/database"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/logger"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/repository"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/scheduler"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/service"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/strategy"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/version"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	appLog := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	logger.SetGlobalLogger(appLog)

	if cfg.Database.Path != database.MemoryPath {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
			appLog.Fatal().Err(err).Str("path", cfg.Database.Path).Msg("Failed to create database directory")
		}
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		appLog.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	schemaVersion, err := database.Migrate(context.Background(), db)
	if err != nil {
		appLog.Fatal().Err(err).Msg("Failed to migrate database")
	}

	appLog.Info().
		Str("path", cfg.Database.Path).
		Int64("schema_version", schemaVersion).
		Msg("Connected to database")

	// Create repositories
	holdingRepo := repository.NewHoldingRepository(db)
	fundRepo := repository.NewFundRepository(db)
	portfolioRepo := repository.NewPortfolioRepository(db)
	positionRepo := repository.NewPositionRepository(db)

	// Create services
	registry := strategy.DefaultRegistry()
	dataLoader := service.NewDataLoaderService(holdingRepo, fundRepo)
	positionService := service.NewPositionService(db, positionRepo, dataLoader, registry, appLog)
	services := api.Services{
		System:    service.NewSystemService(db, registry),
		Holding:   service.NewHoldingService(db, holdingRepo, fundRepo, dataLoader),
		Fund:      service.NewFundService(db, fundRepo),
		Portfolio: service.NewPortfolioService(portfolioRepo, dataLoader, appLog),
		Position:  positionService,
		Dashboard: service.NewDashboardService(positionService),
	}

	// Background jobs
	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched = scheduler.New(appLog)
		if err := sched.AddJob(cfg.Scheduler.SnapshotSchedule, scheduler.NewSnapshotJob(services.Portfolio)); err != nil {
			appLog.Fatal().Err(err).Str("schedule", cfg.Scheduler.SnapshotSchedule).Msg("Invalid snapshot schedule")
		}
		sched.Start()
	}

	// Create router
	router := api.NewRouter(services, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		appLog.Info().
			Str("addr", cfg.Server.Addr).
			Str("version", version.Version).
			Msg("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLog.Info().Msg("Shutting down server...")

	if sched != nil {
		sched.Stop()
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLog.Error().Err(err).Msg("Server forced to shutdown")
	}

	appLog.Info().Msg("Server exited")
}
