// Package app wires the cache backend, the upstream client and the services
// from a Config. It is shared by the HTTP server and the bsconv CLI.
package app

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/api"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/bsapi"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/cache"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/config"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/database"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/metrics"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/repository"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/service"
)

// App holds the wired services and the resources that must be closed on exit.
type App struct {
	Services api.Services
	BsMonth  *service.BsMonthService
	// Pruner is nil for backends that expire entries themselves.
	Pruner cache.Pruner

	closers []func() error
}

// Build opens the configured cache backend and constructs every service.
// m may be nil.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) (*App, error) {
	a := &App{}

	var (
		monthCache cache.MonthCache
		db         *sql.DB
		pinger     service.Pinger
	)

	switch cfg.Cache.Backend {
	case config.CacheBackendSQLite:
		var err error
		db, err = database.Open(cfg.Database.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		a.closers = append(a.closers, db.Close)

		if err := database.Migrate(ctx, db); err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		repo := repository.NewCacheRepository(db, nil)
		monthCache, a.Pruner = repo, repo
		logger.Info("Using sqlite month cache", zap.String("path", cfg.Database.Path))

	case config.CacheBackendRedis:
		rc, err := cache.NewRedis(ctx, cache.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, rc.Close)
		monthCache, pinger = rc, rc
		logger.Info("Using redis month cache", zap.String("addr", cfg.Redis.Addr))

	default:
		mem := cache.NewMemory(nil)
		monthCache, a.Pruner = mem, mem
		logger.Info("Using in-memory month cache")
	}

	client := bsapi.NewHTTPClient(bsapi.Options{
		BaseURL:   cfg.Upstream.BaseURL,
		Timeout:   cfg.Upstream.Timeout,
		RateLimit: cfg.Upstream.RateLimit,
		Burst:     cfg.Upstream.Burst,
	})

	a.BsMonth = service.NewBsMonthService(client, monthCache, service.BsMonthConfig{
		Attempts:     cfg.Upstream.FetchAttempts,
		RetryDelay:   cfg.Upstream.RetryDelay,
		TTL:          cfg.Cache.TTL,
		FetchTimeout: cfg.Upstream.FetchTimeout,
	}, logger, m)

	a.Services = api.Services{
		System:    service.NewSystemService(db, cfg.Cache.Backend, pinger),
		BsMonth:   a.BsMonth,
		AdMonth:   service.NewAdMonthService(a.BsMonth, logger, cfg.Server.FanoutLimit),
		Converter: service.NewConverterService(a.BsMonth, nil, logger, m, cfg.Server.FanoutLimit),
		Export:    service.NewExportService(a.BsMonth, nil, logger),
	}

	return a, nil
}

// Close releases the cache backend in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
	a.closers = nil
}
