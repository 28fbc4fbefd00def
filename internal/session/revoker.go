package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Revoker records session ids that must no longer authenticate.
type Revoker interface {
	Revoke(ctx context.Context, sessionID uuid.UUID, ttl time.Duration) error
	IsRevoked(ctx context.Context, sessionID uuid.UUID) (bool, error)
}

// RedisRevoker implements Revoker using Redis.
type RedisRevoker struct {
	client *redis.Client
}

// NewRedisRevoker creates a new RedisRevoker.
func NewRedisRevoker(client *redis.Client) *RedisRevoker {
	return &RedisRevoker{client: client}
}

// Revoke adds a session to the revocation list until its token would expire anyway.
func (b *RedisRevoker) Revoke(ctx context.Context, sessionID uuid.UUID, ttl time.Duration) error {
	return b.client.Set(ctx, "revoked:session:"+sessionID.String(), "revoked", ttl).Err()
}

// IsRevoked checks if a session is on the revocation list.
func (b *RedisRevoker) IsRevoked(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	exists, err := b.client.Exists(ctx, "revoked:session:"+sessionID.String()).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

// MemoryRevoker is the in-process Revoker used when Redis is not configured.
type MemoryRevoker struct {
	mu      sync.Mutex
	now     func() time.Time
	revoked map[uuid.UUID]time.Time
}

func NewMemoryRevoker() *MemoryRevoker {
	return &MemoryRevoker{now: time.Now, revoked: make(map[uuid.UUID]time.Time)}
}

func (m *MemoryRevoker) Revoke(_ context.Context, sessionID uuid.UUID, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[sessionID] = m.now().Add(ttl)
	return nil
}

func (m *MemoryRevoker) IsRevoked(_ context.Context, sessionID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	until, ok := m.revoked[sessionID]
	if !ok {
		return false, nil
	}
	if !m.now().Before(until) {
		delete(m.revoked, sessionID)
		return false, nil
	}
	return true, nil
}
