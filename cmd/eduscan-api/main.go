package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/eduscan-api/api/swagger"
	"github.com/noah-isme/eduscan-api/internal/handler"
	internalmiddleware "github.com/noah-isme/eduscan-api/internal/middleware"
	"github.com/noah-isme/eduscan-api/internal/records"
	"github.com/noah-isme/eduscan-api/internal/repository"
	"github.com/noah-isme/eduscan-api/internal/service"
	"github.com/noah-isme/eduscan-api/pkg/config"
	"github.com/noah-isme/eduscan-api/pkg/jobs"
	"github.com/noah-isme/eduscan-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/eduscan-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/eduscan-api/pkg/middleware/requestid"
	"github.com/noah-isme/eduscan-api/pkg/storage"
	"github.com/noah-isme/eduscan-api/pkg/summary"
)

// @title EduScan Records API
// @version 1.0.0
// @description Student roster, attendance scanning, grades and report cards
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

	if err := run(cfg, logr); err != nil {
		logr.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, err := openRedis(ctx, cfg, logr)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close() //nolint:errcheck
	}

	persister, closePersister, err := openPersister(ctx, cfg, redisClient)
	if err != nil {
		return err
	}
	defer closePersister()

	metrics := service.NewMetricsService()
	store := records.NewStore(persister, records.Options{
		Logger:   logr.Named("records"),
		Observer: metrics,
		SeedDemo: cfg.Snapshot.SeedDemo,
	})
	if err := store.Init(ctx); err != nil {
		return err
	}

	var cacheRepo service.CacheRepository = repository.NewMemoryCacheRepository()
	if redisClient != nil {
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Summary.CacheTTL, logr, cfg.Summary.CacheEnabled)

	var generator summary.Generator
	if cfg.Summary.APIKey != "" {
		gemini, err := summary.NewGeminiClient(ctx, cfg.Summary.APIKey, cfg.Summary.Model)
		if err != nil {
			return err
		}
		defer gemini.Close() //nolint:errcheck
		generator = gemini
	} else {
		logr.Warn("GEMINI_API_KEY not set, summary generation disabled")
	}

	files, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
	if err != nil {
		return err
	}
	signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)

	validate := validator.New()
	authSvc, err := service.NewAuthService(store, validate, logr, service.AuthConfig{
		AccessCode:        cfg.Access.Code,
		AccessTokenSecret: cfg.Access.JWTSecret,
		AccessTokenExpiry: cfg.Access.JWTExpiration,
		Issuer:            cfg.Access.Issuer,
	})
	if err != nil {
		return err
	}
	studentSvc := service.NewStudentService(store, validate, logr)
	attendanceSvc := service.NewAttendanceService(store, validate, metrics, logr)
	gradeSvc := service.NewGradeService(store, validate, logr)
	behaviorSvc := service.NewBehaviorService(store, validate, logr)
	reportSvc := service.NewReportService(store, files, signer, service.ReportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Reports.SignedURLTTL,
	}, validate, logr)
	summarySvc := service.NewSummaryService(store, generator, cacheSvc, metrics, service.SummaryConfig{
		Timeout:  cfg.Summary.Timeout,
		CacheTTL: cfg.Summary.CacheTTL,
	}, logr)
	snapshotSvc := service.NewSnapshotService(store, logr)

	scanQueue := jobs.NewQueue("scan", attendanceSvc.HandleScan, jobs.QueueConfig{
		Workers:    1,
		BufferSize: cfg.Scan.BufferSize,
		MaxRetries: 3,
		RetryDelay: 500 * time.Millisecond,
		Logger:     logr,
	})
	scanQueue.Start(context.Background())
	attendanceSvc.UseScanQueue(scanQueue)

	scheduler := jobs.NewScheduler(logr, time.Minute)
	if err := scheduler.Add("report_cleanup", cfg.Reports.CleanupSchedule, reportSvc.Cleanup); err != nil {
		return err
	}
	scheduler.Start()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, cfg.APIPrefix+"/attendance/scan", "/health", "/ready", "/metrics"))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics))

	handler.RegisterRoutes(r, cfg.APIPrefix, internalmiddleware.JWT(authSvc), handler.Handlers{
		Auth:       handler.NewAuthHandler(authSvc),
		Students:   handler.NewStudentHandler(studentSvc),
		Attendance: handler.NewAttendanceHandler(attendanceSvc),
		Assessment: handler.NewAssessmentHandler(gradeSvc, behaviorSvc),
		Reports:    handler.NewReportHandler(reportSvc),
		Summaries:  handler.NewSummaryHandler(summarySvc),
		Snapshot:   handler.NewSnapshotHandler(snapshotSvc),
		Metrics:    handler.NewMetricsHandler(metrics.Handler(), store),
	})
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env), zap.String("snapshot_backend", cfg.Snapshot.Backend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		logr.Info("shutdown requested")
	case err := <-serveErr:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("http shutdown incomplete", zap.Error(err))
	}
	scanQueue.Stop()
	scheduler.Stop(shutdownCtx)
	if err := store.Close(shutdownCtx); err != nil {
		logr.Error("final snapshot flush failed", zap.Error(err))
		return err
	}
	logr.Info("shutdown complete")
	return nil
}
