package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/damon-houk/emission-decay/internal/application/service"
	"github.com/damon-houk/emission-decay/internal/config"
	"github.com/damon-houk/emission-decay/internal/domain/clock"
	"github.com/damon-houk/emission-decay/internal/domain/repository"
	"github.com/damon-houk/emission-decay/internal/infrastructure/cache"
	"github.com/damon-houk/emission-decay/internal/infrastructure/db"
	"github.com/damon-houk/emission-decay/internal/infrastructure/handler"
	"github.com/damon-houk/emission-decay/internal/infrastructure/logger"
	"github.com/damon-houk/emission-decay/internal/scheduler"
)

func main() {
	cfgPath := config.DefaultPath
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Fatal("Failed to load config", map[string]interface{}{"path": cfgPath, "error": err.Error()})
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid config", map[string]interface{}{"path": cfgPath, "error": err.Error()})
	}

	level, _ := logger.ParseLevel(cfg.Log.Level)
	log := logger.NewJSONLogger(os.Stdout, level).WithField("app", "emission-decay")
	logger.SetDefaultLogger(log)

	log.Info("Starting emission decay service", map[string]interface{}{"config": cfgPath})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg, log)
	stop()
	if err != nil {
		// run has already released storage and cache by the time we exit
		log.Fatal("Service failed", map[string]interface{}{"error": err.Error()})
	}
}

// run serves the API until ctx is cancelled. Every resource it opens is
// closed before it returns, including on error.
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	// Storage
	var repo repository.CalculationRepository
	if cfg.Storage.Path != "" {
		if err := os.MkdirAll(cfg.Storage.Path, 0755); err != nil {
			return fmt.Errorf("create database directory: %w", err)
		}

		badgerDB, err := db.OpenBadger(cfg.Storage.Path, cfg.Storage.SyncWrites)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer func() {
			if err := badgerDB.Close(); err != nil {
				log.Error("Error closing BadgerDB", map[string]interface{}{"error": err.Error()})
			}
		}()
		repo = db.NewBadgerCalculationRepository(badgerDB)
	} else {
		log.Warn("No storage path configured, calculations are kept in memory", nil)
		repo = db.NewMemoryCalculationRepository()
	}

	// Quote cache
	var quotes repository.QuoteCache
	if cfg.Cache.RedisAddr != "" {
		rc := cache.NewRedisQuoteCache(cfg.Cache.RedisAddr, cfg.Cache.TTL)
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := rc.Ping(pingCtx)
		cancel()
		if err != nil {
			log.Warn("Redis unavailable, using in-memory quote cache", map[string]interface{}{"error": err.Error()})
			rc.Close()
			quotes = cache.NewMemoryQuoteCache(cfg.Cache.TTL)
		} else {
			defer rc.Close()
			quotes = rc
		}
	} else {
		quotes = cache.NewMemoryQuoteCache(cfg.Cache.TTL)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	clk := clock.RealClock{}
	decayService := service.NewDecayService(repo, quotes, clk, log)

	// Snapshot schedules
	sched := scheduler.NewScheduler(ctx, decayService, clk, log)
	if err := sched.Register(cfg.Schedules); err != nil {
		return fmt.Errorf("register schedules: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	router := handler.NewRouter(handler.NewDecayHandler(decayService, log), log)
	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server listening", map[string]interface{}{"addr": cfg.Server.Addr})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
	case <-ctx.Done():
		log.Info("Shutdown signal received", nil)
	}

	// Give in-flight requests time to finish
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", map[string]interface{}{"error": err.Error()})
	}
	log.Info("Server stopped", nil)
	return nil
}
