package main

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// newRedisClient connects to the Redis instance backing the record stores.
func newRedisClient(cfg *Config) (*redis.Client, error) {
	opt, err := redis.ParseURL(fmt.Sprintf("redis://%s", cfg.RedisURL))
	if err != nil {
		// Fallback to simple connection
		opt = &redis.Options{
			Addr: cfg.RedisURL,
		}
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}
