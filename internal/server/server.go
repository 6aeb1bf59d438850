// Package server assembles storage, cache, service and router into a
// runnable HTTP application.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Lixing-Zhang/productos-api/internal/cache"
	"github.com/Lixing-Zhang/productos-api/internal/config"
	"github.com/Lixing-Zhang/productos-api/internal/database"
	"github.com/Lixing-Zhang/productos-api/internal/metrics"
	"github.com/Lixing-Zhang/productos-api/internal/repository"
	"github.com/Lixing-Zhang/productos-api/internal/service"
	"gorm.io/gorm"
)

// App owns every long-lived resource of the process.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	db         *gorm.DB
	cache      *cache.RedisListCache
	handler    http.Handler
	httpServer *http.Server
}

// NewApp opens storage (creating the productos table if needed), connects
// the optional cache and builds the HTTP handler.
func NewApp(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	app := &App{cfg: cfg, logger: log}

	repo, db, err := OpenRepository(ctx, cfg.Database, m)
	if err != nil {
		return nil, err
	}
	app.db = db

	if err := repo.Initialize(ctx); err != nil {
		_ = app.close()
		return nil, err
	}

	opts := []service.Option{service.WithLogger(log), service.WithMetrics(m)}
	if cfg.Cache.Enabled() {
		c, err := cache.Connect(ctx, cfg.Cache)
		if err != nil {
			_ = app.close()
			return nil, err
		}
		app.cache = c
		opts = append(opts, service.WithCache(c))
		log.Info("product list cache enabled", "redis_addr", cfg.Cache.RedisAddr, "ttl", cfg.Cache.TTL)
	}

	svc := service.NewProductService(repo, opts...)
	app.handler = NewRouter(cfg, svc, m, log)

	app.httpServer = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      app.handler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	return app, nil
}

// OpenRepository returns the repository for the configured driver. The
// returned *gorm.DB is nil for the in-memory driver.
func OpenRepository(ctx context.Context, cfg config.DatabaseConfig, m *metrics.Metrics) (repository.ProductRepository, *gorm.DB, error) {
	if cfg.Driver == "memory" {
		return repository.NewInMemoryProductRepository(), nil, nil
	}

	db, err := database.Open(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return repository.NewGormProductRepository(db, m), db, nil
}

// InitStorage opens the configured database, creates the productos table
// if needed and closes the connection again.
func InitStorage(ctx context.Context, cfg config.DatabaseConfig) error {
	repo, db, err := OpenRepository(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer database.Close(db)

	return repo.Initialize(ctx)
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler {
	return a.handler
}

// ListenAndServe blocks serving HTTP until Shutdown is called.
func (a *App) ListenAndServe() error {
	a.logger.Info("server listening", "address", a.httpServer.Addr)
	if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests, then releases the cache and the
// database pool, in that order.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if err := a.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http server shutdown: %w", err))
	}
	if err := a.close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (a *App) close() error {
	var errs []error
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("cache close: %w", err))
		}
		a.cache = nil
	}
	if a.db != nil {
		if err := database.Close(a.db); err != nil {
			errs = append(errs, err)
		}
		a.db = nil
	}
	return errors.Join(errs...)
}
