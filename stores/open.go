// Package stores opens the workflow.Store backend named by a config.
package stores

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/meikuraledutech/workflow"
	"github.com/meikuraledutech/workflow/config"
	"github.com/meikuraledutech/workflow/memory"
	"github.com/meikuraledutech/workflow/postgres"
	"github.com/meikuraledutech/workflow/redis"
)

// Open connects the backend selected by cfg.Store. The returned func releases it.
// The postgres backend creates its table if needed.
func Open(ctx context.Context, cfg *config.Config) (workflow.Store, func(), error) {
	switch cfg.Store {
	case config.StoreRedis:
		s := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := s.Ping(ctx); err != nil {
			s.Close()
			return nil, nil, fmt.Errorf("redis: ping %s: %w", cfg.RedisAddr, err)
		}
		return s, func() { s.Close() }, nil

	case config.StorePostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect: %w", err)
		}
		s := postgres.New(pool)
		if err := s.CreateSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("schema: %w", err)
		}
		return s, pool.Close, nil

	case config.StoreMemory, "":
		return memory.New(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("stores: unknown store %q", cfg.Store)
	}
}
