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

	"github.com/lalith-99/almoftah/internal/api"
	"github.com/lalith-99/almoftah/internal/cache"
	"github.com/lalith-99/almoftah/internal/chat"
	"github.com/lalith-99/almoftah/internal/config"
	"github.com/lalith-99/almoftah/internal/db"
	"github.com/lalith-99/almoftah/internal/middleware"
	"github.com/lalith-99/almoftah/internal/observ"
	"github.com/lalith-99/almoftah/internal/repository/postgres"
	"github.com/lalith-99/almoftah/internal/service"
	"github.com/lalith-99/almoftah/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---------------------------------------------------------------
	// 1. Config, logger, tracing
	// ---------------------------------------------------------------
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	shutdownTracing, err := observ.InitTracing(ctx, logger)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn("tracer shutdown failed", zap.Error(err))
		}
	}()

	// ---------------------------------------------------------------
	// 2. Postgres: schema first, then the request pool
	// ---------------------------------------------------------------
	if err := migrate(ctx, cfg.DatabaseURL, logger); err != nil {
		return err
	}

	database, err := db.New(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer database.Close()

	stores := postgres.NewStores(database.Pool())

	// ---------------------------------------------------------------
	// 3. Redis and MinIO. Both are optional: without Redis the listing
	//    cache is off and chat fan-out stays in this process; without
	//    MinIO photo upload and serving fail with 500.
	// ---------------------------------------------------------------
	healthChecks := map[string]api.HealthCheck{
		"postgres": database.Health,
	}

	var (
		listings service.ListingCache
		hub      chat.Hub = chat.NewLocalHub()
	)
	rdb, err := cache.NewRedis(ctx, cfg.RedisURL, logger)
	if err != nil {
		logger.Warn("redis unavailable, listing cache disabled and chat is single-instance", zap.Error(err))
	} else {
		defer rdb.Close()
		listings = cache.NewListingCache(rdb, cfg.ListingCacheTTL)
		hub = chat.NewRedisHub(rdb, logger)
		healthChecks["redis"] = func(ctx context.Context) error { return pingRedis(ctx, rdb) }
	}

	var photos storage.Storage
	if store, err := storage.NewMinIO(ctx, cfg.MinIO); err != nil {
		logger.Warn("object storage unavailable, photo uploads disabled", zap.Error(err))
		photos = storage.Unavailable(err)
	} else {
		photos = store
		healthChecks["minio"] = store.Health
	}

	// ---------------------------------------------------------------
	// 4. Services
	// ---------------------------------------------------------------
	adminSvc := service.NewAdminService(stores.Admins, stores.Users, cfg.Bootstrap.Email, logger)
	if _, err := adminSvc.EnsureBootstrap(ctx, cfg.Bootstrap); err != nil {
		return fmt.Errorf("ensure bootstrap admin: %w", err)
	}

	unitSvc := service.NewUnitService(stores.Units, stores.Clients, stores.Brokers, stores.Admins, photos, listings, logger)
	handlers := api.Handlers{
		Auth:      api.NewAuthHandler(service.NewAuthService(stores.Admins, stores.Users, cfg.JWTSecret, cfg.JWTTTL), logger),
		Units:     api.NewUnitHandler(unitSvc, logger),
		Leads:     api.NewLeadHandler(service.NewLeadService(stores.Leads, stores.Admins), logger),
		Contacts:  api.NewContactHandler(service.NewContactService(stores.Clients, stores.Brokers, stores.Units), logger),
		Admins:    api.NewAdminHandler(adminSvc, logger),
		Chat:      api.NewChatHandler(service.NewChatService(stores.Chats, stores.Units, stores.Admins, hub, logger), cfg.AllowedOrigins, logger),
		Photos:    api.NewPhotoHandler(service.NewPhotoService(photos), logger),
		Dashboard: api.NewDashboardHandler(service.NewDashboardService(stores.Units, stores.Leads, stores.Clients, stores.Brokers, stores.Admins), logger),
	}

	// ---------------------------------------------------------------
	// 5. HTTP
	// ---------------------------------------------------------------
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := middleware.NewMetrics(reg)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	router := api.NewRouter(api.RouterConfig{
		JWTSecret:      cfg.JWTSecret,
		Admins:         stores.Admins,
		Metrics:        metrics,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		RateLimiter:    middleware.NewRateLimiter(cfg.RateLimit, cfg.RateLimitBurst),
		HealthChecks:   healthChecks,
		Logger:         logger,
	}, handlers)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           otelhttp.NewHandler(router, "almoftah"),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting almoftah",
			zap.String("port", cfg.Port),
			zap.String("env", cfg.Env),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	sctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// migrate applies the schema over a short-lived database/sql handle.
func migrate(ctx context.Context, databaseURL string, logger *zap.Logger) error {
	sqlDB, err := db.OpenSQL(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer sqlDB.Close()

	if err := db.Migrate(ctx, sqlDB, logger); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func pingRedis(ctx context.Context, rdb *redis.Client) error {
	return rdb.Ping(ctx).Err()
}
