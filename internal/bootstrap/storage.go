// README: Storage wiring; opens the KV backend selected by QUOTE_STORE.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"movequote/internal/config"
	"movequote/internal/infra"
)

// Storage is the opened KV plus whatever must be closed with it.
type Storage struct {
	KV infra.KV
	// Redis is set only for the redis backend; the geocode cache reuses it.
	Redis   *redis.Client
	closers []func() error
}

func OpenStorage(ctx context.Context, cfg config.StoreConfig) (*Storage, error) {
	switch cfg.Backend {
	case config.StoreMemory, "":
		return &Storage{KV: infra.NewMemoryKV()}, nil

	case config.StoreRedis:
		client := infra.NewRedis(cfg.RedisAddr)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		return &Storage{
			KV:      infra.NewRedisKV(client, cfg.RedisPrefix),
			Redis:   client,
			closers: []func() error{client.Close},
		}, nil

	case config.StorePostgres:
		pool, err := infra.NewDB(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		kv := infra.NewPostgresKV(pool)
		if err := kv.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return &Storage{
			KV: kv,
			closers: []func() error{func() error {
				pool.Close()
				return nil
			}},
		}, nil

	case config.StoreSQLite:
		kv, err := infra.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &Storage{KV: kv, closers: []func() error{kv.Close}}, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
}

func (s *Storage) Close() error {
	var errList []error
	for _, c := range s.closers {
		errList = append(errList, c())
	}
	return errors.Join(errList...)
}
