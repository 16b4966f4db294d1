package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/opencampus/timetable-api/api/swagger"
	"github.com/opencampus/timetable-api/internal/handler"
	"github.com/opencampus/timetable-api/internal/middleware"
	"github.com/opencampus/timetable-api/internal/repository"
	"github.com/opencampus/timetable-api/internal/service"
	"github.com/opencampus/timetable-api/pkg/cache"
	"github.com/opencampus/timetable-api/pkg/config"
	"github.com/opencampus/timetable-api/pkg/database"
	"github.com/opencampus/timetable-api/pkg/jobs"
	"github.com/opencampus/timetable-api/pkg/logger"
	corsmiddleware "github.com/opencampus/timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/opencampus/timetable-api/pkg/middleware/requestid"
)

// @title Campus Timetable API
// @version 1.0.0
// @description Constraint-based course section timetabling service
// @BasePath /
// @schemes http

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, run results will not be cached", "error", err)
		redisClient = nil
	}

	metricsSvc := service.NewMetricsService()

	sectionRepo := repository.NewSectionRepository(db)
	classroomRepo := repository.NewClassroomRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	schedulerSvc := service.NewSchedulerService(
		sectionRepo,
		classroomRepo,
		enrollmentRepo,
		assignmentRepo,
		cacheRepo,
		metricsSvc,
		nil,
		logr,
		service.SchedulerConfig{
			MaxNodes:      cfg.Scheduler.MaxNodes,
			CommitPartial: cfg.Scheduler.CommitPartial,
			ResultTTL:     cfg.Scheduler.ResultTTL,
		},
	)

	queue := jobs.NewQueue("scheduler", schedulerSvc.HandleRunJob, jobs.QueueConfig{
		Workers:    cfg.Scheduler.AsyncWorkers,
		BufferSize: cfg.Scheduler.AsyncQueueSize,
		Logger:     logr,
	})
	queue.Start(context.Background())
	defer queue.Stop()
	schedulerSvc.AttachQueue(queue)
	metricsSvc.RegisterQueueDepth("scheduler", queue.Depth)

	schedulerHandler := handler.NewSchedulerHandler(schedulerSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	if cfg.Scheduler.Enabled {
		api := r.Group(cfg.APIPrefix)
		schedule := api.Group("/schedule")
		schedule.POST("/runs", middleware.Auth(cfg.JWT.Secret, "ADMIN", "REGISTRAR"), schedulerHandler.Run)
		schedule.POST("/runs/async", middleware.Auth(cfg.JWT.Secret, "ADMIN", "REGISTRAR"), schedulerHandler.RunAsync)
		schedule.GET("/runs/:term", schedulerHandler.LatestRun)
		schedule.DELETE("/runs/:term", middleware.Auth(cfg.JWT.Secret, "ADMIN", "REGISTRAR"), schedulerHandler.Clear)
		schedule.GET("/runs/:term/export", schedulerHandler.Export)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "scheduler_enabled", cfg.Scheduler.Enabled)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
