package config

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// NewRedis connects to Redis and pings it once.
func NewRedis(ctx context.Context, conf Redis) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", conf.Addr, err)
	}
	return client, nil
}
