package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/JonMunkholm/facilitydesk/internal/cache"
	"github.com/JonMunkholm/facilitydesk/internal/config"
	"github.com/JonMunkholm/facilitydesk/internal/core"
	_ "github.com/JonMunkholm/facilitydesk/internal/core/tables" // Register equipment and supplies
	"github.com/JonMunkholm/facilitydesk/internal/database"
	"github.com/JonMunkholm/facilitydesk/internal/logging"
	"github.com/JonMunkholm/facilitydesk/internal/store"
	"github.com/JonMunkholm/facilitydesk/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"db_max_conns", cfg.Database.MaxConns,
		"import_max_concurrent", cfg.Import.MaxConcurrent,
		"rate_limit_enabled", cfg.Rate.Enabled,
		"token_required", cfg.Security.RequireToken,
	)

	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		slog.Error("failed to parse database URL", "error", err)
		os.Exit(1)
	}
	poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	poolConfig.MinConns = int32(cfg.Database.MinConns)
	poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

	ctx := context.Background()
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		slog.Error("failed to ping database", "error", err)
		os.Exit(1)
	}

	if u, err := url.Parse(cfg.Database.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to database")
	}

	if cfg.Database.MigrateOnStart {
		if err := database.Migrate(ctx, pool); err != nil {
			slog.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
	}

	opts := core.Options{
		Limiter:       core.NewImportLimiter(cfg.Import.MaxConcurrent, cfg.Import.MaxWaitTime),
		ImportTimeout: cfg.Import.Timeout,
		ImageDir:      cfg.Import.ImageDir,
		MaxImageSize:  cfg.Import.MaxImageSize,
	}

	// Facility cache is optional; without Redis every lookup hits Postgres
	if cfg.Cache.RedisAddr != "" {
		facilities, closeCache, err := cache.Connect(ctx, cache.Options{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
			TTL:      cfg.Cache.FacilityTTL,
		})
		if err != nil {
			slog.Warn("redis unavailable, facility cache disabled", "addr", cfg.Cache.RedisAddr, "error", err)
		} else {
			defer closeCache()
			opts.Cache = facilities
			slog.Info("facility cache enabled", "addr", cfg.Cache.RedisAddr, "ttl", cfg.Cache.FacilityTTL)
		}
	}

	service := core.NewService(store.New(pool), opts)

	slog.Info("kinds registered", "count", core.KindCount())

	server := web.NewServer(service, cfg)

	jobCtx, cancelJobs := context.WithCancel(context.Background())
	defer cancelJobs()

	var watch *core.StockWatch
	if cfg.Stock.Enabled {
		watch = core.NewStockWatch(service, cfg.Stock.Schedule)
		if err := watch.Start(jobCtx); err != nil {
			slog.Error("failed to start stock watch", "schedule", cfg.Stock.Schedule, "error", err)
			os.Exit(1)
		}
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		cancelJobs()
		if watch != nil {
			watch.Stop()
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Let in-flight imports finish before closing connections
		limiter := service.Limiter()
		if active := limiter.ActiveCount(); active > 0 {
			slog.Info("waiting for imports to complete", "active", active)
			if err := limiter.WaitForDrain(shutdownCtx); err != nil {
				slog.Warn("imports did not complete in time", "error", err)
			} else {
				slog.Info("all imports completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}
