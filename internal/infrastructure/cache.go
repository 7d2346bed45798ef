package infrastructure

import (
	"context"
	"fmt"

	"github.com/architeacher/svc-health-gate/internal/config"
	"github.com/architeacher/svc-health-gate/internal/domain"
	"github.com/redis/go-redis/v9"
)

type (
	KeydbClient struct {
		client *redis.Client
		logger Logger
	}
)

func NewKeyDBClient(cfg config.CacheConfig, logger Logger) *KeydbClient {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolTimeout:  cfg.PoolTimeout,
		MaxRetries:   cfg.MaxRetries,
	})

	return &KeydbClient{
		client: client,
		logger: logger,
	}
}

// Ping performs one PING round-trip. A transport error and an unexpected
// reply are both reported as errors, so callers see a single failure shape.
func (c *KeydbClient) Ping(ctx context.Context) error {
	if c == nil || c.client == nil {
		return domain.ErrCacheUnavailable
	}

	reply, err := c.client.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("cache ping failed: %w", err)
	}

	if reply != "PONG" {
		return fmt.Errorf("cache ping returned %q, expected PONG", reply)
	}

	return nil
}

func (c *KeydbClient) Close() error {
	if c == nil || c.client == nil {
		return nil
	}

	return c.client.Close()
}
