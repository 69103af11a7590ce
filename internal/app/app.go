// Copyright (c) 2026 Yardmap. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package app opens the infrastructure selected by [config.Config] and builds the
yard services on top of it.

It is shared by the API server and the yardctl operator CLI, so both run the
same storage and broadcast drivers against the same configuration.
*/
package app

import (
	stdctx "context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/yardmap/internal/api"
	"github.com/taibuivan/yardmap/internal/platform/broadcast"
	"github.com/taibuivan/yardmap/internal/platform/config"
	"github.com/taibuivan/yardmap/internal/platform/metrics"
	"github.com/taibuivan/yardmap/internal/platform/migration"
	pgstore "github.com/taibuivan/yardmap/internal/platform/postgres"
	redisstore "github.com/taibuivan/yardmap/internal/platform/redis"
	"github.com/taibuivan/yardmap/internal/yard/cellinfo"
	"github.com/taibuivan/yardmap/internal/yard/layout"
)

// Deps is the opened infrastructure and the services built on it.
type Deps struct {
	Broker   broadcast.Broker
	Metrics  *metrics.Registry
	Layout   *layout.Service
	CellInfo *cellinfo.Service

	// Checks are the readiness probes of every opened dependency.
	Checks []api.HealthCheck

	closers []func()
	logger  *slog.Logger
}

// Open connects storage and broadcasting according to cfg, runs migrations when
// cfg.AutoMigrate is set, and wires the services.
//
// On error everything opened so far is closed again.
func Open(context stdctx.Context, cfg *config.Config, logger *slog.Logger) (deps *Deps, err error) {
	deps = &Deps{Metrics: metrics.NewRegistry(), logger: logger}
	defer func() {
		if err != nil {
			deps.Close()
			deps = nil
		}
	}()

	// ── 1. Storage ─────────────────────────────────────────────────────────
	var (
		store      layout.Store
		repository cellinfo.Repository
	)

	switch cfg.StorageDriver {
	case config.StoragePostgres:
		pool, err := openPostgres(context, cfg, logger)
		if err != nil {
			return nil, err
		}
		deps.onClose(func() {
			logger.Info("closing_postgres_pool")
			pool.Close()
		})
		deps.Checks = append(deps.Checks, api.HealthCheck{Name: "postgres", Check: func(context stdctx.Context) error {
			return pgstore.Ping(context, pool)
		}})

		store = layout.NewPostgresStore(pool)
		repository = cellinfo.NewPostgresRepository(pool)

	case config.StorageMemory:
		memory := layout.NewMemoryStore()
		store = memory
		repository = cellinfo.NewMemoryRepository(memory)
		logger.Warn("memory_storage_selected")

	default:
		return nil, fmt.Errorf("app: unknown storage driver %q", cfg.StorageDriver)
	}

	// ── 2. Broadcasting ───────────────────────────────────────────────────
	switch cfg.BroadcastDriver {
	case config.BroadcastRedis:
		client, err := redisstore.NewClient(context, cfg.RedisURL, logger)
		if err != nil {
			return nil, err
		}
		deps.onClose(func() {
			logger.Info("closing_redis_client")
			if cerr := client.Close(); cerr != nil {
				logger.Error("redis_close_failed", slog.Any("error", cerr))
			}
		})
		deps.Checks = append(deps.Checks, redisCheck(client))
		deps.Broker = broadcast.NewRedisBroker(client, cfg.BroadcastPrefix, logger)

	case config.BroadcastNATS:
		broker, err := broadcast.ConnectNATS(cfg.NATSURL, cfg.BroadcastPrefix, logger)
		if err != nil {
			return nil, err
		}
		deps.Checks = append(deps.Checks, api.HealthCheck{Name: "nats", Check: broker.Ping})
		deps.Broker = broker

	case config.BroadcastMemory:
		deps.Broker = broadcast.NewHub()

	default:
		return nil, fmt.Errorf("app: unknown broadcast driver %q", cfg.BroadcastDriver)
	}

	broker := deps.Broker
	deps.onClose(func() {
		if cerr := broker.Close(); cerr != nil {
			logger.Error("broker_close_failed", slog.Any("error", cerr))
		}
	})

	// ── 3. Services ───────────────────────────────────────────────────────
	limits := layout.Limits{MaxLength: cfg.MaxMapLength, MaxWidth: cfg.MaxMapWidth}
	deps.Layout = layout.NewService(store, deps.Broker, deps.Metrics, limits, logger)
	deps.CellInfo = cellinfo.NewService(repository, deps.Broker, deps.Metrics, logger)

	return deps, nil
}

func openPostgres(context stdctx.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	if cfg.AutoMigrate {
		if err := migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, logger); err != nil {
			return nil, err
		}
	}
	return pgstore.NewPool(context, cfg.DatabaseURL, logger)
}

func redisCheck(client *goredis.Client) api.HealthCheck {
	return api.HealthCheck{Name: "redis", Check: func(context stdctx.Context) error {
		return redisstore.Ping(context, client)
	}}
}

func (deps *Deps) onClose(fn func()) {
	deps.closers = append(deps.closers, fn)
}

// Close releases every opened dependency in reverse order. It is safe to call twice.
func (deps *Deps) Close() {
	for i := len(deps.closers) - 1; i >= 0; i-- {
		deps.closers[i]()
	}
	deps.closers = nil
}
