package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

const pendingKeyPrefix = "postbot:pending:"

// PendingActionRepositoryRedis keeps one pending menu action per chat with a
// TTL, so an abandoned menu choice expires on its own.
type PendingActionRepositoryRedis struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewPendingActionRepositoryRedis(client *redis.Client, ttl time.Duration) *PendingActionRepositoryRedis {
	return &PendingActionRepositoryRedis{
		Client: client,
		TTL:    ttl,
	}
}

func (r *PendingActionRepositoryRedis) Set(ctx context.Context, chatID int64, action string) error {
	return r.Client.Set(ctx, pendingKey(chatID), action, r.TTL).Err()
}

// Pop returns and clears the pending action; "" when there is none.
func (r *PendingActionRepositoryRedis) Pop(ctx context.Context, chatID int64) (string, error) {
	action, err := r.Client.GetDel(ctx, pendingKey(chatID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return action, nil
}

func pendingKey(chatID int64) string {
	return pendingKeyPrefix + strconv.FormatInt(chatID, 10)
}
