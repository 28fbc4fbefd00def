package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisRevoker(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	r := NewRedisRevoker(client)
	ctx := context.Background()
	sid := uuid.New()

	revoked, err := r.IsRevoked(ctx, sid)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, r.Revoke(ctx, sid, time.Minute))
	revoked, err = r.IsRevoked(ctx, sid)
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(2 * time.Minute)
	revoked, err = r.IsRevoked(ctx, sid)
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestMemoryRevoker(t *testing.T) {
	r := NewMemoryRevoker()
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }
	ctx := context.Background()
	sid := uuid.New()

	require.NoError(t, r.Revoke(ctx, sid, time.Minute))
	revoked, _ := r.IsRevoked(ctx, sid)
	assert.True(t, revoked)

	now = now.Add(time.Minute)
	revoked, _ = r.IsRevoked(ctx, sid)
	assert.False(t, revoked)
}
