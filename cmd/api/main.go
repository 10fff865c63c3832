package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"statuspulse/config"
	"statuspulse/internals/app"
	"statuspulse/internals/server"
	"statuspulse/pkg/db"
	"statuspulse/pkg/logger"
)

const defaultConfigPath = "config.yaml"

func main() {
	path := os.Getenv("STATUSPULSE_CONFIG")
	if path == "" {
		path = defaultConfigPath
	}

	// Load config
	cfg, err := config.LoadConfig(path)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	// Done closes on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize Base/global logger
	log := logger.Init(cfg)
	log.Info().Int("monitors", len(cfg.Monitors)).Msg("config loaded")

	// Initialize DB Pool
	dbPool, err := db.ConnectToDB(ctx, &cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize db pool")
	}
	defer dbPool.Close()

	// Inject Dependencies
	container, err := app.NewContainer(ctx, dbPool, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize dependencies")
	}
	log.Info().Msg("dependencies initialized")

	// background workers get their own context so shutdown can stop them in order
	workersCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	// the mail consumer outlives the producers so drained alerts still go out
	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	defer stopConsumer()

	container.AlertSvc.Start(workersCtx)
	app.StartConsumer(consumerCtx, container)
	go container.Janitor.Run(workersCtx)
	go container.Scheduler.Run(workersCtx)
	log.Info().Msg("background workers started")

	// Register Routes
	router := app.RegisterRoutes(container)

	srv := server.New(fmt.Sprintf(":%d", cfg.Port), router, log)
	srv.Start()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	// 1. Stop HTTP server (no more pushes or subscriptions)
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}

	// 2. Stop monitor units so no new incident events are produced
	stopWorkers()
	container.Scheduler.Wait()

	// 3. Drain queued alerts
	container.AlertSvc.Close()
	container.AlertSvc.WorkerClosingWait()
	stopConsumer()

	// 4. Consumer, brokers, caches, telemetry
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := container.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("dependencies shutdown failed")
	}

	log.Info().Msg("graceful shutdown complete")
}
