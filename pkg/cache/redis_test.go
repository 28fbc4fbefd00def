package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	require.NoError(t, client.Ping(context.Background()).Err())

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return client, mr
}

func TestRedisCache_SetGetDelete(t *testing.T) {
	client, mr := setupTestRedis(t)
	c := NewFromClient(client, "zapway:")
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "ids", []string{"duel", "stake"}, time.Minute))
	assert.True(t, mr.Exists("zapway:ids"))

	var ids []string
	require.NoError(t, c.Get(ctx, "ids", &ids))
	assert.Equal(t, []string{"duel", "stake"}, ids)

	ok, err := c.Exists(ctx, "ids")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, c.Delete(ctx, "ids"))
	assert.ErrorIs(t, c.Get(ctx, "ids", &ids), ErrMiss)
}

func TestRedisCache_Expiry(t *testing.T) {
	client, mr := setupTestRedis(t)
	c := NewFromClient(client, "")
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", 1, time.Second))
	mr.FastForward(2 * time.Second)

	var v int
	assert.ErrorIs(t, c.Get(ctx, "k", &v), ErrMiss)
}
