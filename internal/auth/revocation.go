package auth

import (
	"context"
	"sync"
	"time"

	"github.com/redis/rueidis"
)

// Revoker remembers logged-out token ids until the tokens would have expired.
type Revoker interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type MemoryRevoker struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewMemoryRevoker() *MemoryRevoker {
	return &MemoryRevoker{revoked: make(map[string]time.Time), now: time.Now}
}

func (m *MemoryRevoker) Revoke(_ context.Context, tokenID string, until time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for id, exp := range m.revoked {
		if now.After(exp) {
			delete(m.revoked, id)
		}
	}
	m.revoked[tokenID] = until
	return nil
}

func (m *MemoryRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	exp, ok := m.revoked[tokenID]
	return ok && !m.now().After(exp), nil
}

type RedisRevoker struct {
	client rueidis.Client
	prefix string
}

func NewRedisRevoker(client rueidis.Client, prefix string) *RedisRevoker {
	return &RedisRevoker{client: client, prefix: prefix}
}

func (r *RedisRevoker) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := int64(time.Until(until).Seconds())
	if ttl <= 0 {
		return nil
	}
	cmd := r.client.B().Set().Key(r.prefix + tokenID).Value("1").ExSeconds(ttl).Build()
	return r.client.Do(ctx, cmd).Error()
}

func (r *RedisRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Do(ctx, r.client.B().Exists().Key(r.prefix+tokenID).Build()).AsInt64()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
