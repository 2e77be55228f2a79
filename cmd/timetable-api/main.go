package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/deptsched/timetable-api/api/swagger"
	"github.com/deptsched/timetable-api/internal/handler"
	"github.com/deptsched/timetable-api/internal/middleware"
	"github.com/deptsched/timetable-api/internal/repository"
	"github.com/deptsched/timetable-api/internal/service"
	"github.com/deptsched/timetable-api/internal/timetable"
	"github.com/deptsched/timetable-api/pkg/cache"
	"github.com/deptsched/timetable-api/pkg/config"
	"github.com/deptsched/timetable-api/pkg/logger"
	corsmiddleware "github.com/deptsched/timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/deptsched/timetable-api/pkg/middleware/requestid"
	"github.com/deptsched/timetable-api/pkg/storage"
)

// @title Department Timetable API
// @version 1.0.0
// @description Weekly department timetable generation and distribution service
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close() //nolint:errcheck

	var archive *storage.LocalStorage
	if cfg.Exports.StorageDir != "" {
		archive, err = storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to prepare export storage", "error", err)
		}
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	validate := validator.New()

	store := repository.NewTimetableRepository(redisClient, logr)
	metricsSvc := service.NewMetricsService()
	engine := timetable.NewEngine(logr)

	timetableSvc := service.NewTimetableService(engine, store, metricsSvc, cfg.Generator, logr)
	facultySvc := service.NewFacultyService(store, logr)
	var exportSvc *service.ExportService
	if archive != nil {
		exportSvc = service.NewExportService(store, facultySvc, archive, logr)
	} else {
		exportSvc = service.NewExportService(store, facultySvc, nil, logr)
	}
	authSvc := service.NewAuthService(validate, logr, service.AuthConfig{
		AccessTokenSecret:       cfg.JWT.Secret,
		AccessTokenExpiry:       cfg.JWT.Expiration,
		Issuer:                  cfg.JWT.Issuer,
		CoordinatorPasswordHash: cfg.Auth.CoordinatorPasswordHash,
		FacultyPasswordHashes:   cfg.Auth.FacultyPasswordHashes,
	})

	r := buildRouter(cfg, logr, redisClient, authSvc, timetableSvc, facultySvc, exportSvc, metricsSvc)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func buildRouter(
	cfg *config.Config,
	logr *zap.Logger,
	redisClient *redis.Client,
	authSvc *service.AuthService,
	timetableSvc *service.TimetableService,
	facultySvc *service.FacultyService,
	exportSvc *service.ExportService,
	metricsSvc *service.MetricsService,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	authHandler := handler.NewAuthHandler(authSvc)
	timetableHandler := handler.NewTimetableHandler(timetableSvc)
	facultyHandler := handler.NewFacultyHandler(facultySvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "redis": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("", middleware.JWT(authSvc))
	{
		authed.GET("/timetable", timetableHandler.Current)
		authed.GET("/timetable/conflicts", timetableHandler.Conflicts)
		authed.GET("/timetable/workloads", timetableHandler.Workloads)
		authed.GET("/timetable/export", exportHandler.Timetable)
		authed.GET("/faculty", facultyHandler.List)

		coordinator := authed.Group("", middleware.RequireCoordinator())
		coordinator.POST("/timetable/generate", timetableHandler.Generate)

		faculty := authed.Group("", middleware.RequireFacultySelf())
		faculty.GET("/faculty/:id/schedule", facultyHandler.Schedule)
		faculty.GET("/faculty/:id/export", exportHandler.FacultySchedule)
	}

	return r
}
