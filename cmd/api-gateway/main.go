package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/room-session-api/internal/repository"
	"github.com/noah-isme/room-session-api/internal/service"
	"github.com/noah-isme/room-session-api/pkg/cache"
	"github.com/noah-isme/room-session-api/pkg/config"
	"github.com/noah-isme/room-session-api/pkg/database"
	"github.com/noah-isme/room-session-api/pkg/jobs"
	"github.com/noah-isme/room-session-api/pkg/logger"
	"github.com/noah-isme/room-session-api/pkg/storage"
)

// @title Room Session API
// @version 0.1.0
// @description Room session planning: draft generation, conflict checks, rebalancing and saved plans.
// @BasePath /api/v1
// @schemes http

const (
	shutdownTimeout = 15 * time.Second
	draftSweepEvery = time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	if cfg.Database.AutoMigrate {
		if err := database.RunMigrations(db.DB, logr); err != nil {
			logr.Fatal("failed to migrate database", zap.Error(err))
		}
	}

	var redisClient *redis.Client
	if client, err := cache.NewRedis(ctx, cfg.Redis); err != nil {
		logr.Warn("redis unavailable, analytics cache disabled", zap.Error(err))
	} else {
		redisClient = client
	}

	metrics := service.NewMetricsService()

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Analytics.CacheTTL, logr, redisClient != nil)

	analyticsSvc := service.NewAnalyticsService(repository.NewAnalyticsRepository(db), cacheSvc, metrics, logr)
	var plannerAnalytics service.PlannerAnalytics
	if cfg.Analytics.Enabled {
		plannerAnalytics = analyticsSvc
	}

	planner := service.NewPlannerService(
		repository.NewDirectoryRepository(db),
		repository.NewSessionPlanRepository(db),
		repository.NewSessionPlanSlotRepository(db),
		func(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
			return database.WithTx(ctx, db, fn)
		},
		plannerAnalytics,
		metrics,
		nil,
		logr,
		service.PlannerConfig{
			DraftTTL:          cfg.Scheduler.ProposalTTL,
			DefaultIterations: cfg.Scheduler.DefaultIterations,
			MaxIterations:     cfg.Scheduler.MaxIterations,
		},
	)
	planner.StartCleanup(ctx, draftSweepEvery)

	rebalanceJobs := service.NewRebalanceJobService(planner, nil, metrics, logr, service.RebalanceJobConfig{ResultTTL: cfg.Rebalance.JobTTL})
	queue := jobs.NewQueue("rebalance", rebalanceJobs.Handle, jobs.QueueConfig{
		Workers:    cfg.Rebalance.Workers,
		BufferSize: cfg.Rebalance.QueueSize,
		Logger:     logr,
	})
	rebalanceJobs.SetQueue(queue)
	queue.Start(ctx)

	files, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Fatal("failed to prepare export storage", zap.Error(err))
	}
	exports := service.NewExportService(
		planner,
		files,
		storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL),
		service.ExportConfig{APIPrefix: cfg.APIPrefix, CleanupInterval: cfg.Exports.CleanupInterval},
		logr,
	)
	exports.StartCleanup(ctx)

	engine := newRouter(cfg, logr, routerDeps{
		planner:       planner,
		rebalanceJobs: rebalanceJobs,
		exports:       exports,
		metrics:       metrics,
		db:            db,
		cache:         cacheRepo,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "analytics", cfg.Analytics.Enabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("server shutdown failed", zap.Error(err))
	}
	queue.Stop()
	logr.Info("server stopped")
}
