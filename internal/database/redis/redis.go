package redis

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/matrooslabs/shadow-world/internal/config"
)

// Connect establishes and verifies a Redis connection. The caller owns the
// returned client and closes it at shutdown.
func Connect(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return rdb, nil
}

// HealthCheck verifies the connection is alive.
func HealthCheck(ctx context.Context, client *redis.Client) error {
	if client == nil {
		return fmt.Errorf("redis client is not initialized")
	}
	return client.Ping(ctx).Err()
}
