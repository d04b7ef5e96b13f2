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
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/mun-club-api/api/swagger"
	"github.com/noah-isme/mun-club-api/internal/handler"
	"github.com/noah-isme/mun-club-api/internal/middleware"
	"github.com/noah-isme/mun-club-api/internal/repository"
	"github.com/noah-isme/mun-club-api/internal/service"
	"github.com/noah-isme/mun-club-api/pkg/cache"
	"github.com/noah-isme/mun-club-api/pkg/config"
	"github.com/noah-isme/mun-club-api/pkg/database"
	"github.com/noah-isme/mun-club-api/pkg/jobs"
	"github.com/noah-isme/mun-club-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/mun-club-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/mun-club-api/pkg/middleware/requestid"
	"github.com/noah-isme/mun-club-api/pkg/storage"
	"github.com/noah-isme/mun-club-api/pkg/validation"
)

// @title MUN Club API
// @version 1.0.0
// @description Topics, lessons, attendance and delegations for a Model United Nations club.
// @BasePath /api/v1
// @schemes http https
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("connect database", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, caching disabled", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := service.NewMetricsService()
	if !cfg.Metrics.Enabled {
		metrics = nil
	}
	validator := validation.New()
	loc := cfg.Lessons.Location()

	topicRepo := repository.NewTopicRepository(db)
	lessonRepo := repository.NewLessonRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	userRepo := repository.NewUserRepository(db)
	countryRepo := repository.NewCountryRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	reportRepo := repository.NewReportRepository(db)

	var cacheRepo service.CacheRepository
	checks := map[string]handler.Pinger{"database": db.PingContext}
	if redisClient != nil {
		redisRepo := repository.NewCacheRepository(redisClient, "mun")
		defer redisRepo.Close() //nolint:errcheck
		cacheRepo = redisRepo
		checks["redis"] = redisRepo.Ping
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Redis.CacheTTL, logr, redisClient != nil)

	authSvc := service.NewAuthService(userRepo, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Issuer:     cfg.JWT.Issuer,
		Expiration: cfg.JWT.Expiration,
	})
	topicSvc := service.NewTopicService(topicRepo, cacheSvc, validator, logr)
	lessonSvc := service.NewLessonService(lessonRepo, topicRepo, cacheSvc, metrics, validator, logr, loc)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, lessonRepo, userRepo, metrics, logr, loc)
	countrySvc := service.NewCountryService(countryRepo, topicRepo, userRepo, validator, logr)
	documentSvc := service.NewDocumentService(documentRepo, countryRepo, validator, logr)
	userSvc := service.NewUserService(userRepo, validator, logr)

	exportCfg := service.ExportConfig{APIPrefix: cfg.APIPrefix, ResultTTL: cfg.Reports.SignedURLTTL}
	exportSvc := service.NewExportService(nil, nil, metrics, exportCfg, logr)

	var exports *service.ReportService
	if cfg.Reports.Enabled {
		store, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
		if err != nil {
			logr.Fatal("init report storage", zap.Error(err))
		}
		signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
		exportSvc = service.NewExportService(store, signer, metrics, exportCfg, logr)

		exports = service.NewReportService(reportRepo, attendanceSvc, exportSvc, logr, service.ReportServiceConfig{
			ResultTTL:       cfg.Reports.SignedURLTTL,
			CleanupInterval: cfg.Reports.CleanupInterval,
		})
		queue := jobs.NewQueue("reports", exports.Process, jobs.Config{
			Workers:     cfg.Reports.WorkerConcurrency,
			MaxRetries:  cfg.Reports.WorkerRetries,
			RetryDelay:  2 * time.Second,
			OnExhausted: exports.MarkExhausted,
			Logger:      logr,
		})
		exports.UseQueue(queue)
		queue.Start(ctx)
		defer queue.Stop()
		if _, err := exports.Recover(ctx); err != nil {
			logr.Warn("requeue unfinished exports", zap.Error(err))
		}
		exports.StartCleanup(ctx)
	}

	var attendanceHandler *handler.AttendanceHandler
	if exports != nil {
		attendanceHandler = handler.NewAttendanceHandler(attendanceSvc, exportSvc, exports, loc, logr)
	} else {
		attendanceHandler = handler.NewAttendanceHandler(attendanceSvc, exportSvc, nil, loc, logr)
	}
	metricsHandler := handler.NewMetricsHandler(metrics, checks)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.WithResponseMeta())
	r.Use(middleware.OptionalJWT(authSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	if metrics != nil {
		r.GET("/metrics", metricsHandler.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r.Group(cfg.APIPrefix), handler.Handlers{
		Topics:     handler.NewTopicHandler(topicSvc),
		Lessons:    handler.NewLessonHandler(lessonSvc),
		Attendance: attendanceHandler,
		Countries:  handler.NewCountryHandler(countrySvc),
		Documents:  handler.NewDocumentHandler(documentSvc),
		Users:      handler.NewUserHandler(userSvc),
		Metrics:    metricsHandler,
	}, func(resource string) gin.HandlerFunc {
		return middleware.Audit(userRepo, resource, logr)
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
