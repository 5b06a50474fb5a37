package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/room-session-api/api/swagger"
	"github.com/noah-isme/room-session-api/internal/handler"
	internalmiddleware "github.com/noah-isme/room-session-api/internal/middleware"
	"github.com/noah-isme/room-session-api/internal/repository"
	"github.com/noah-isme/room-session-api/internal/service"
	"github.com/noah-isme/room-session-api/pkg/config"
	"github.com/noah-isme/room-session-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/room-session-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/room-session-api/pkg/middleware/requestid"
)

type routerDeps struct {
	planner       *service.PlannerService
	rebalanceJobs *service.RebalanceJobService
	exports       *service.ExportService
	metrics       *service.MetricsService
	db            *sqlx.DB
	cache         *repository.CacheRepository
}

func newRouter(cfg *config.Config, logr *zap.Logger, deps routerDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(deps.metrics, "/metrics", "/health", "/ready"))

	checks := map[string]handler.ReadinessCheck{
		"postgres": deps.db.PingContext,
	}
	if deps.cache.Enabled() {
		checks["redis"] = func(ctx context.Context) error { return deps.cache.Ping(ctx) }
	}
	ops := handler.NewMetricsHandler(deps.metrics, checks)
	r.GET("/health", ops.Health)
	r.GET("/ready", ops.Ready)
	r.GET("/metrics", ops.Prometheus)

	if !cfg.IsProduction() {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	planner := handler.NewPlannerHandler(deps.planner)
	jobs := handler.NewRebalanceJobHandler(deps.rebalanceJobs)
	exports := handler.NewExportHandler(deps.exports)

	rebalanceLimit := internalmiddleware.RateLimit(internalmiddleware.NewLimiter(cfg.Rebalance.RatePerSecond, cfg.Rebalance.RateBurst))

	api := r.Group(cfg.APIPrefix)

	drafts := api.Group("/drafts")
	drafts.POST("", planner.Generate)
	drafts.GET("/:id", planner.Get)
	drafts.POST("/:id/regenerate", planner.Regenerate)
	drafts.PUT("/:id/slots", planner.UpdateSlots)
	drafts.PUT("/:id/rooms/:roomId/juries", planner.AssignRoomJuries)
	drafts.GET("/:id/conflicts", planner.Conflicts)
	drafts.POST("/:id/evaluate", planner.Evaluate)
	drafts.POST("/:id/rebalance", rebalanceLimit, planner.Rebalance)
	drafts.POST("/:id/rebalance/accept", planner.AcceptRebalance)
	drafts.POST("/:id/rebalance/undo", planner.UndoRebalance)
	drafts.DELETE("/:id/rebalance", planner.DiscardRebalance)
	drafts.POST("/:id/save", planner.Save)
	drafts.POST("/:id/exports", exports.Export)
	drafts.POST("/:id/rebalance-jobs", rebalanceLimit, jobs.Submit)

	api.GET("/exports/:token", exports.Download)
	api.GET("/rebalance-jobs/:id", jobs.Status)
	api.DELETE("/rebalance-jobs/:id", jobs.Cancel)
	api.POST("/labels/next", planner.NextLabel)

	plans := api.Group("/session-plans")
	plans.GET("", planner.ListPlans)
	plans.GET("/:id/slots", planner.PlanSlots)
	plans.DELETE("/:id", planner.DeletePlan)
	plans.POST("/:id/publish", planner.PublishPlan)

	return r
}
