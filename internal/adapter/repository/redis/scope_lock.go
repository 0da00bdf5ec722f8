package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/iho/goholdings/internal/infrastructure/metrics"
)

// unlockScript deletes the key only while it still holds the caller's token,
// so an expired lock that was taken over is never released by its old owner.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// extendScript resets the expiry only while the caller still owns the key.
var extendScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// ScopeLocker implements usecase.ScopeLocker using Redis.
type ScopeLocker struct {
	client  *redis.Client
	prefix  string
	metrics *metrics.Metrics
}

// NewScopeLocker creates a new ScopeLocker. m may be nil.
func NewScopeLocker(client *redis.Client, m *metrics.Metrics) *ScopeLocker {
	return &ScopeLocker{
		client:  client,
		prefix:  "scope_lock:",
		metrics: m,
	}
}

// TryLock takes the lock for key if nobody holds it.
func (l *ScopeLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, l.prefix+key, token, ttl).Result()
	l.observe("lock", err)
	if err != nil {
		return "", false, fmt.Errorf("lock %s: %w", key, err)
	}
	if !ok {
		return "", false, nil
	}

	return token, true, nil
}

// Unlock releases key if it is still held with token.
func (l *ScopeLocker) Unlock(ctx context.Context, key, token string) error {
	err := unlockScript.Run(ctx, l.client, []string{l.prefix + key}, token).Err()
	l.observe("unlock", err)
	if err != nil {
		return fmt.Errorf("unlock %s: %w", key, err)
	}

	return nil
}

// Extend pushes the expiry of key to ttl from now if token still owns it.
func (l *ScopeLocker) Extend(ctx context.Context, key, token string, ttl time.Duration) (bool, error) {
	n, err := extendScript.Run(ctx, l.client, []string{l.prefix + key}, token, ttl.Milliseconds()).Int()
	l.observe("extend", err)
	if err != nil {
		return false, fmt.Errorf("extend %s: %w", key, err)
	}

	return n == 1, nil
}

// IsLocked reports whether key is held by anyone.
func (l *ScopeLocker) IsLocked(ctx context.Context, key string) (bool, error) {
	n, err := l.client.Exists(ctx, l.prefix+key).Result()
	l.observe("exists", err)
	if err != nil {
		return false, fmt.Errorf("check lock %s: %w", key, err)
	}

	return n > 0, nil
}

func (l *ScopeLocker) observe(op string, err error) {
	if l.metrics == nil {
		return
	}
	l.metrics.RedisOperations.WithLabelValues(op).Inc()
	if err != nil {
		l.metrics.RedisErrors.WithLabelValues(op).Inc()
	}
}
