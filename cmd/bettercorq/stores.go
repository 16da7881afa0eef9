package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"bettercorq/config"
	"bettercorq/internal/domain"
	"bettercorq/internal/repository/memory"
	"bettercorq/internal/repository/postgres"
	"bettercorq/internal/repository/redis"
	"bettercorq/internal/repository/sqlite"
)

// stores bundles the record store and event catalog of one backend.
type stores struct {
	records domain.RecordStore
	events  domain.EventRepository
	close   func() error
}

// openStores opens the backend selected by cfg.StoreBackend. The redis backend keeps the
// event catalog in memory; it is rebuilt from the sources on every refresh.
func openStores(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*stores, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		m := memory.NewStore()
		return &stores{records: m, events: m, close: func() error { return nil }}, nil

	case config.BackendSQLite:
		st, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		logger.Info("sqlite store opened", "path", cfg.SQLitePath)
		return &stores{records: st, events: st, close: st.Close}, nil

	case config.BackendPostgres:
		db, err := sql.Open("postgres", cfg.DBUrl)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		logger.Info("postgres store ready")
		return &stores{
			records: postgres.NewRecordRepository(db),
			events:  postgres.NewEventRepository(db),
			close:   db.Close,
		}, nil

	case config.BackendRedis:
		client := redis.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		logger.Info("redis store ready", "addr", cfg.RedisAddr, "db", cfg.RedisDB)
		return &stores{
			records: redis.NewRecordStore(client, redis.DefaultPrefix),
			events:  memory.NewStore(),
			close:   client.Close,
		}, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}
