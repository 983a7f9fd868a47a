package redis

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	flashKeyPrefix = "postbot:flash:"
	flashTTL       = 5 * time.Minute
)

// FlashRepositoryRedis stores one-line notices shown on the next page view.
type FlashRepositoryRedis struct {
	Client *redis.Client
}

func NewFlashRepositoryRedis(client *redis.Client) *FlashRepositoryRedis {
	return &FlashRepositoryRedis{Client: client}
}

func (r *FlashRepositoryRedis) Push(ctx context.Context, key, message string) error {
	k := flashKeyPrefix + key
	_, err := r.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, k, message)
		pipe.Expire(ctx, k, flashTTL)
		return nil
	})
	return err
}

// Pop returns all queued notices for key in push order and clears them.
func (r *FlashRepositoryRedis) Pop(ctx context.Context, key string) ([]string, error) {
	k := flashKeyPrefix + key
	var messages *redis.StringSliceCmd
	_, err := r.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		messages = pipe.LRange(ctx, k, 0, -1)
		pipe.Del(ctx, k)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return messages.Val(), nil
}
