package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/stockroom-app/stockroom/internal/app"
	"github.com/stockroom-app/stockroom/internal/auth"
	"github.com/stockroom-app/stockroom/internal/inventory"
	"github.com/stockroom-app/stockroom/internal/observability"
	"github.com/stockroom-app/stockroom/internal/platform/cache"
	"github.com/stockroom-app/stockroom/internal/platform/db"
	"github.com/stockroom-app/stockroom/internal/shared"
	"github.com/stockroom-app/stockroom/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	if err := db.Migrate(ctx, dbpool); err != nil {
		logger.Error("migrate schema", slog.Any("error", err))
		os.Exit(1)
	}

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		// Sessions need Redis eventually, but startup should not; listing
		// degrades to direct store reads until it comes back.
		logger.Warn("redis unavailable", slog.Any("error", err))
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "stockroom_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, sessionManager, csrfManager)

	var alerter *jobs.Alerter
	if cfg.LowStockAlerts {
		asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
		defer func() {
			if err := asynqClient.Close(); err != nil {
				logger.Warn("asynq client close", slog.Any("error", err))
			}
		}()
		alerter = jobs.NewAlerter(asynqClient, logger)
	}

	itemCache := inventory.NewListCache(redisClient, cfg.ItemCacheTTL)
	inventoryRepo := inventory.NewRepository(dbpool)
	inventoryService := inventory.NewService(inventoryRepo, itemCache, alertPortOrNil(alerter))

	metrics := observability.NewMetrics()
	authMiddleware := shared.AuthMiddleware{Logger: logger}
	inventoryHandler := inventory.NewHandler(logger, inventoryService, metrics, authMiddleware)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		SessionManager:   sessionManager,
		CSRFManager:      csrfManager,
		AuthHandler:      authHandler,
		InventoryHandler: inventoryHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}

// alertPortOrNil avoids handing the service a typed nil interface.
func alertPortOrNil(alerter *jobs.Alerter) inventory.AlertPort {
	if alerter == nil {
		return nil
	}
	return alerter
}
