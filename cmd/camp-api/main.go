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
	"github.com/jmoiron/sqlx"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/sahaya-relief/camp-api/api/swagger"
	"github.com/sahaya-relief/camp-api/internal/handler"
	"github.com/sahaya-relief/camp-api/internal/middleware"
	"github.com/sahaya-relief/camp-api/internal/repository"
	"github.com/sahaya-relief/camp-api/internal/service"
	"github.com/sahaya-relief/camp-api/pkg/cache"
	"github.com/sahaya-relief/camp-api/pkg/config"
	"github.com/sahaya-relief/camp-api/pkg/database"
	"github.com/sahaya-relief/camp-api/pkg/jobs"
	"github.com/sahaya-relief/camp-api/pkg/logger"
	"github.com/sahaya-relief/camp-api/pkg/mailer"
	corsmiddleware "github.com/sahaya-relief/camp-api/pkg/middleware/cors"
	reqidmiddleware "github.com/sahaya-relief/camp-api/pkg/middleware/requestid"
	"github.com/sahaya-relief/camp-api/pkg/ratelimit"
)

// @title Sahaya Camp API
// @version 1.0.0
// @description Relief camp coordination: supply requests, donations, inventory and residents.
// @BasePath /api
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			logr.Fatal("failed to migrate database", zap.Error(err))
		}
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// the API still works uncached
		logr.Warn("redis unavailable, caching disabled", zap.Error(err))
	}
	cacheRepo := repository.NewCacheRepository(redisClient)
	defer cacheRepo.Close()

	metrics := service.NewMetricsService()
	notifications := newNotificationService(cfg, metrics, logr)
	notifications.Start(ctx)
	defer notifications.Stop()

	handlers, auth := buildHandlers(cfg, db, cacheRepo, metrics, notifications, logr)

	var donorLimit gin.HandlerFunc
	if cfg.RateLimit.Enabled {
		donorLimit, err = ratelimit.Middleware(cfg.RateLimit.Rate)
		if err != nil {
			logr.Fatal("invalid donation rate limit", zap.String("rate", cfg.RateLimit.Rate), zap.Error(err))
		}
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.WithResponseMeta())

	ops := handler.NewMetricsHandler(metrics, db, cacheRepo)
	r.GET("/health", ops.Health)
	r.GET("/ready", ops.Ready)
	r.GET("/metrics", ops.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r.Group(cfg.APIPrefix), handlers, auth, donorLimit)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env), zap.String("db_driver", cfg.Database.Driver))
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

func newNotificationService(cfg *config.Config, metrics *service.MetricsService, logr *zap.Logger) *service.NotificationService {
	var sender mailer.Sender
	if cfg.Mail.Enabled {
		sender = mailer.NewSMTPSender(cfg.Mail)
	} else {
		sender = mailer.NewLogSender(logr)
	}
	return service.NewNotificationService(sender, metrics, logr, jobs.QueueConfig{
		Workers:    cfg.Jobs.MailWorkers,
		MaxRetries: cfg.Jobs.MailRetries,
		RetryDelay: cfg.Jobs.MailRetryDelay,
	})
}

func buildHandlers(
	cfg *config.Config,
	db *sqlx.DB,
	cacheRepo *repository.CacheRepository,
	metrics *service.MetricsService,
	notifications *service.NotificationService,
	logr *zap.Logger,
) (handler.Handlers, *service.AuthService) {
	validate := validator.New()

	camps := repository.NewCampRepository(db)
	sequences := repository.NewSequenceRepository(db)
	disasters := repository.NewDisasterRepository(db)
	requests := repository.NewCampRequestRepository(db)
	donations := repository.NewDonationRepository(db)
	inventory := repository.NewInventoryRepository(db)
	ledger := repository.NewLedgerRepository(db)
	inmates := repository.NewInmateRepository(db)

	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Inventory.CacheTTL, logr, cacheRepo.Enabled())

	authSvc := service.NewAuthService(camps, validate, logr, service.AuthConfig{
		Secret:        cfg.JWT.Secret,
		Expiry:        cfg.JWT.Expiration,
		Issuer:        cfg.JWT.Issuer,
		AdminUsername: cfg.Admin.Username,
		AdminPassword: cfg.Admin.Password,
	})
	reconciliation := service.NewReconciliationService(ledger, donations, cacheSvc, metrics, validate, logr, service.ReconciliationConfig{
		MaxAttempts:  cfg.Reconciliation.MaxAttempts,
		RetryBackoff: cfg.Reconciliation.RetryBackoff,
	})
	inventorySvc := service.NewInventoryService(inventory, requests, donations, cacheSvc, cfg.Inventory.CacheTTL, logr)
	dashboard := service.NewDashboardService(service.DashboardServiceParams{
		Camps:     camps,
		Requests:  requests,
		Donations: donations,
		Inmates:   inmates,
		Disasters: disasters,
		Cache:     cacheSvc,
		Logger:    logr,
	})

	return handler.Handlers{
		Auth:      handler.NewAuthHandler(authSvc),
		Camps:     handler.NewCampHandler(service.NewCampService(camps, sequences, notifications, validate, logr)),
		Disasters: handler.NewDisasterHandler(service.NewDisasterService(disasters, sequences, validate, logr)),
		Requests:  handler.NewCampRequestHandler(service.NewRequestService(requests, camps, cacheSvc, validate, logr)),
		Donations: handler.NewDonationHandler(reconciliation, service.NewDonationService(donations, camps, validate, logr)),
		Inventory: handler.NewInventoryHandler(inventorySvc, reconciliation),
		Inmates:   handler.NewInmateHandler(service.NewInmateService(inmates, camps, validate, logr)),
		Dashboard: handler.NewDashboardHandler(dashboard),
	}, authSvc
}
