package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestPendingActionRepository(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestClient(t)
	repo := NewPendingActionRepositoryRedis(client, time.Minute)

	action, err := repo.Pop(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, action)

	require.NoError(t, repo.Set(ctx, 42, "create"))
	require.NoError(t, repo.Set(ctx, 43, "delete"))

	action, err = repo.Pop(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "create", action)

	action, err = repo.Pop(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, action, "pop consumes the action")

	mr.FastForward(2 * time.Minute)
	action, err = repo.Pop(ctx, 43)
	require.NoError(t, err)
	assert.Empty(t, action, "pending action expires")
}

func TestFlashRepository(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestClient(t)
	repo := NewFlashRepositoryRedis(client)

	require.NoError(t, repo.Push(ctx, "7", "first"))
	require.NoError(t, repo.Push(ctx, "7", "second"))
	assert.True(t, mr.Exists(flashKeyPrefix+"7"))

	messages, err := repo.Pop(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, messages)

	messages, err = repo.Pop(ctx, "7")
	require.NoError(t, err)
	assert.Empty(t, messages)
}
