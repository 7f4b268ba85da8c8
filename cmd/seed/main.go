// seed loads demo admins, units and leads from a YAML fixture.
//
// It runs the schema migration and ensures the bootstrap superadmin
// first, so it can be pointed at an empty database.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lalith-99/almoftah/internal/cache"
	"github.com/lalith-99/almoftah/internal/config"
	"github.com/lalith-99/almoftah/internal/db"
	"github.com/lalith-99/almoftah/internal/observ"
	"github.com/lalith-99/almoftah/internal/repository/postgres"
	"github.com/lalith-99/almoftah/internal/service"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		fixturePath string
		adminsOnly  bool
	)
	flagSet := pflag.NewFlagSet("seed", pflag.ContinueOnError)
	flagSet.StringVarP(&fixturePath, "file", "f", "cmd/seed/testdata/fixture.yaml", "path to the YAML fixture")
	flagSet.BoolVar(&adminsOnly, "admins-only", false, "create admin accounts but skip units and leads")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	fixture, err := LoadFixture(fixturePath)
	if err != nil {
		return err
	}

	sqlDB, err := db.OpenSQL(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	err = db.Migrate(ctx, sqlDB, logger)
	sqlDB.Close()
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	database, err := db.New(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer database.Close()
	stores := postgres.NewStores(database.Pool())

	// Seeded units must show up in public search right away.
	var listings service.ListingCache
	if rdb, err := cache.NewRedis(ctx, cfg.RedisURL, logger); err != nil {
		logger.Warn("redis unavailable, cached listings will expire on their own", zap.Error(err))
	} else {
		defer rdb.Close()
		listings = cache.NewListingCache(rdb, cfg.ListingCacheTTL)
	}

	adminSvc := service.NewAdminService(stores.Admins, stores.Users, cfg.Bootstrap.Email, logger)
	if _, err := adminSvc.EnsureBootstrap(ctx, cfg.Bootstrap); err != nil {
		return fmt.Errorf("ensure bootstrap admin: %w", err)
	}

	seeder := &Seeder{
		Admins:   stores.Admins,
		AdminSvc: adminSvc,
		Units:    service.NewUnitService(stores.Units, stores.Clients, stores.Brokers, stores.Admins, nil, listings, logger),
		Leads:    service.NewLeadService(stores.Leads, stores.Admins),
		Logger:   logger,
	}
	res, err := seeder.Apply(ctx, fixture, !adminsOnly)
	if err != nil {
		return err
	}

	logger.Info("seed complete",
		zap.String("fixture", fixturePath),
		zap.Int("admins", res.Admins),
		zap.Int("units", res.Units),
		zap.Int("leads", res.Leads),
	)
	return nil
}
