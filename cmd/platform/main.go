package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/nordlayer/printing-platform/internal/cache"
	"github.com/nordlayer/printing-platform/internal/catalog"
	"github.com/nordlayer/printing-platform/internal/config"
	"github.com/nordlayer/printing-platform/internal/contact"
	"github.com/nordlayer/printing-platform/internal/content"
	"github.com/nordlayer/printing-platform/internal/database"
	"github.com/nordlayer/printing-platform/internal/identities"
	"github.com/nordlayer/printing-platform/internal/notification"
	"github.com/nordlayer/printing-platform/internal/orders"
	"github.com/nordlayer/printing-platform/internal/reviews"
	"github.com/nordlayer/printing-platform/internal/server"
	"github.com/nordlayer/printing-platform/internal/storage"
	"github.com/nordlayer/printing-platform/pkg/logger"
	"github.com/nordlayer/printing-platform/pkg/metrics"
)

// @title Printing Platform API
// @version 1.0.0
// @description REST API for the 3D printing service platform
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @host localhost:8000
// @BasePath /api/v1
// @schemes http https
func main() {
	// .env is optional; real deployments use the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.LogLevel, cfg.IsDevelopment())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	db, err := database.New(
		cfg.Database.Driver,
		cfg.Database.DSN,
		cfg.Database.MaxOpenConns,
		cfg.Database.MaxIdleConns,
		cfg.Database.ConnMaxLifetime,
	)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	log.Info("database ready", zap.String("driver", cfg.Database.Driver))

	// Redis is optional: without it the cache layer no-ops.
	appCache := cache.New(nil, log)
	if cfg.Redis.Address != "" {
		redisClient, err := database.NewRedisClient(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn("redis unavailable, caching disabled", zap.Error(err))
		} else {
			appCache = cache.New(redisClient, log)
			log.Info("redis cache enabled", zap.String("address", cfg.Redis.Address))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if sqlDB, err := db.DB(); err == nil {
		go reportPoolStats(ctx, sqlDB)
	}

	var backend storage.Backend
	if cfg.S3.UseS3 {
		backend, err = storage.NewMinIOBackend(ctx, cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to init s3 storage: %w", err)
		}
		log.Info("s3 storage enabled", zap.String("bucket", cfg.S3.Bucket))
	} else {
		backend, err = storage.NewLocalBackend(cfg.Upload.Dir)
		if err != nil {
			return fmt.Errorf("failed to init local storage: %w", err)
		}
		log.Info("local storage enabled", zap.String("dir", cfg.Upload.Dir))
	}
	files := storage.NewService(log, backend, cfg.Upload.MaxFileSize, cfg.Upload.MaxImageSize)

	notifier := notification.NewService(log, cfg.Notify)

	identitySvc, err := identities.NewService(log, db, cfg.JWT.Secret, cfg.JWT.ExpireMinutes)
	if err != nil {
		return fmt.Errorf("failed to init identities: %w", err)
	}
	catalogSvc, err := catalog.NewService(log, db, appCache)
	if err != nil {
		return fmt.Errorf("failed to init catalog: %w", err)
	}
	contentSvc, err := content.NewService(log, db, appCache)
	if err != nil {
		return fmt.Errorf("failed to init content: %w", err)
	}
	orderSvc, err := orders.NewService(log, db, notifier)
	if err != nil {
		return fmt.Errorf("failed to init orders: %w", err)
	}
	reviewSvc, err := reviews.NewService(log, db)
	if err != nil {
		return fmt.Errorf("failed to init reviews: %w", err)
	}
	contactSvc, err := contact.NewService(log, db, notifier)
	if err != nil {
		return fmt.Errorf("failed to init contact: %w", err)
	}

	// Best-effort warm-up of the hot public listings.
	if appCache.Enabled() {
		warmCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		if _, err := catalogSvc.ListFeaturedProjects(warmCtx, 6); err != nil {
			log.Warn("cache warm-up failed", zap.Error(err))
		}
		_, _ = catalogSvc.ListServices(warmCtx, true)
		_, _ = catalogSvc.ListColors(warmCtx, true)
		_, _ = contentSvc.PublicSettings(warmCtx)
		cancel()
	}

	srv := server.NewServer(log, cfg, db, identitySvc, catalogSvc, contentSvc, orderSvc, reviewSvc, contactSvc, files, appCache)
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      srv.Router(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info("server stopped")
	return nil
}

// reportPoolStats publishes the connection pool gauges until shutdown.
func reportPoolStats(ctx context.Context, sqlDB *sql.DB) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := sqlDB.Stats()
			metrics.DBOpenConns.WithLabelValues("platform").Set(float64(stats.OpenConnections))
			metrics.DBIdleConns.WithLabelValues("platform").Set(float64(stats.Idle))
			metrics.DBInUseConns.WithLabelValues("platform").Set(float64(stats.InUse))
		}
	}
}
