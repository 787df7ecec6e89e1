package relay

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"resume-builder/internal/shared/util"
)

// NonceStore issues and verifies per-principal relay tokens. The host page
// receives one nonce when it loads and sends it with every suggestion request
// until the page is reloaded, the way a WordPress nonce works. Verification
// therefore does not consume a nonce; the TTL bounds its reuse, and a nonce
// issued to one principal never verifies for another.
type NonceStore interface {
	Issue(ctx context.Context, principal string) (string, error)
	Verify(ctx context.Context, principal, nonce string) (bool, error)
}

func newNonce() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

type nonceEntry struct {
	principal string
	expires   time.Time
}

// MemoryNonces keeps nonces in process memory.
type MemoryNonces struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	nonces map[string]nonceEntry
}

// NewMemoryNonces creates an in-memory store. A nil now uses time.Now.
func NewMemoryNonces(ttl time.Duration, now func() time.Time) *MemoryNonces {
	if now == nil {
		now = time.Now
	}
	return &MemoryNonces{
		ttl:    ttl,
		now:    now,
		nonces: make(map[string]nonceEntry),
	}
}

func (m *MemoryNonces) Issue(ctx context.Context, principal string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	nonce := newNonce()
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepLocked(now)
	m.nonces[nonce] = nonceEntry{principal: principal, expires: now.Add(m.ttl)}
	return nonce, nil
}

func (m *MemoryNonces) Verify(ctx context.Context, principal, nonce string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if strings.TrimSpace(nonce) == "" {
		return false, nil
	}
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.nonces[nonce]
	if !ok {
		return false, nil
	}
	if !now.Before(entry.expires) {
		delete(m.nonces, nonce)
		return false, nil
	}
	return entry.principal == principal, nil
}

func (m *MemoryNonces) sweepLocked(now time.Time) {
	for k, e := range m.nonces {
		if !now.Before(e.expires) {
			delete(m.nonces, k)
		}
	}
}

// redisKV is the subset of the redis client used for nonces.
type redisKV interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisNonces keeps nonces in Redis with a key expiry, so every API
// instance behind a load balancer accepts the same tokens.
type RedisNonces struct {
	client redisKV
	ttl    time.Duration
	prefix string
}

// NewRedisNonces wraps a redis client.
func NewRedisNonces(client redisKV, ttl time.Duration) *RedisNonces {
	return &RedisNonces{client: client, ttl: ttl, prefix: "relay:nonce:"}
}

func (r *RedisNonces) key(principal, nonce string) string {
	return r.prefix + util.HashUserKey(principal) + ":" + nonce
}

func (r *RedisNonces) Issue(ctx context.Context, principal string) (string, error) {
	nonce := newNonce()
	if err := r.client.Set(ctx, r.key(principal, nonce), "1", r.ttl).Err(); err != nil {
		return "", fmt.Errorf("store nonce: %w", err)
	}
	return nonce, nil
}

func (r *RedisNonces) Verify(ctx context.Context, principal, nonce string) (bool, error) {
	if strings.TrimSpace(nonce) == "" {
		return false, nil
	}
	n, err := r.client.Exists(ctx, r.key(principal, nonce)).Result()
	if err != nil {
		return false, fmt.Errorf("check nonce: %w", err)
	}
	return n == 1, nil
}

var (
	_ NonceStore = (*MemoryNonces)(nil)
	_ NonceStore = (*RedisNonces)(nil)
)
