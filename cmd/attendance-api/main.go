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
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/scanpoint/attendance-api/api/swagger"
	"github.com/scanpoint/attendance-api/internal/handler"
	"github.com/scanpoint/attendance-api/internal/middleware"
	"github.com/scanpoint/attendance-api/internal/repository"
	"github.com/scanpoint/attendance-api/internal/service"
	"github.com/scanpoint/attendance-api/internal/sms"
	"github.com/scanpoint/attendance-api/pkg/cache"
	"github.com/scanpoint/attendance-api/pkg/config"
	"github.com/scanpoint/attendance-api/pkg/database"
	"github.com/scanpoint/attendance-api/pkg/logger"
	corsmiddleware "github.com/scanpoint/attendance-api/pkg/middleware/cors"
	reqidmiddleware "github.com/scanpoint/attendance-api/pkg/middleware/requestid"
)

// @title Attendance API
// @version 1.0.0
// @description Barcode-driven school attendance tracker with guardian SMS notifications
// @BasePath /api/v1
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
	defer db.Close()

	metrics := service.NewMetricsService()

	// Redis is optional. Reports fall back to live queries when it is down.
	var cacheSvc *service.CacheService
	if redisClient, err := cache.NewRedis(cfg.Redis); err != nil {
		logr.Sugar().Warnw("redis unavailable, report caching disabled", "error", err)
		cacheSvc = service.NewCacheService(nil, metrics, cfg.Reports.CacheTTL, logr, false)
	} else {
		defer redisClient.Close()
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metrics, cfg.Reports.CacheTTL, logr, cfg.Reports.CacheEnabled)
	}

	transport, err := sms.New(cfg.SMS)
	if err != nil {
		logr.Sugar().Fatalw("failed to init sms transport", "error", err, "provider", cfg.SMS.Provider)
	}

	studentRepo := repository.NewStudentRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	reportRepo := repository.NewReportRepository(db)
	schemaRepo := repository.NewSchemaRepository(db)

	validate := validator.New()

	readiness := service.NewReadinessService(schemaRepo, logr)
	notifier := service.NewNotifierService(service.NotifierParams{
		Logs:        notificationRepo,
		Transport:   transport,
		Metrics:     metrics,
		Logger:      logr,
		Enabled:     cfg.SMS.Enabled,
		SendTimeout: cfg.SMS.SendTimeout,
	})

	queueCtx, stopQueue := context.WithCancel(context.Background())
	defer stopQueue()
	notifier.StartQueue(queueCtx, cfg.Notifications)
	defer notifier.StopQueue()

	scanSvc := service.NewScanService(service.ScanServiceParams{
		Students:   studentRepo,
		Attendance: attendanceRepo,
		Notifier:   notifier,
		Readiness:  readiness,
		Metrics:    metrics,
		Logger:     logr,
	})
	studentSvc := service.NewStudentService(studentRepo, validate, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, logr)
	reportSvc := service.NewReportService(service.ReportServiceParams{
		Aggregates: reportRepo,
		Students:   studentRepo,
		Attendance: attendanceRepo,
		Cache:      cacheSvc,
		Logger:     logr,
		TrendDays:  cfg.Reports.TrendDays,
	})

	scanHandler := handler.NewScanHandler(scanSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	smsHandler := handler.NewSMSHandler(cfg.SMS, notifier)
	metricsHandler := handler.NewMetricsHandler(metrics, readiness)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/attendance/scan", scanHandler.Scan)
		api.GET("/attendance", attendanceHandler.List)

		api.GET("/students", studentHandler.List)
		api.POST("/students", studentHandler.Create)
		api.GET("/students/:id", studentHandler.Get)
		api.PUT("/students/:id", studentHandler.Update)
		api.DELETE("/students/:id", studentHandler.Delete)

		api.GET("/reports/stats", reportHandler.Stats)
		api.GET("/reports/by-grade", reportHandler.ByGrade)
		api.GET("/reports/daily", reportHandler.Daily)
		api.GET("/reports/export", reportHandler.Export)

		api.GET("/sms/config", smsHandler.Config)
		api.POST("/sms/test", smsHandler.Test)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "sms_provider", cfg.SMS.Provider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
