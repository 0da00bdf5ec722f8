package redis

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/iho/goholdings/internal/infrastructure/metrics"
)

func TestScopeLocker_TryLockExclusive(t *testing.T) {
	client, _ := newTestRedisClient(t)

	locker := NewScopeLocker(client, nil)
	ctx := context.Background()

	token, ok, err := locker.TryLock(ctx, "cash:ca-1", time.Minute)
	if err != nil || !ok || token == "" {
		t.Fatalf("expected first lock to succeed, got token=%q ok=%v err=%v", token, ok, err)
	}

	_, ok, err = locker.TryLock(ctx, "cash:ca-1", time.Minute)
	if err != nil {
		t.Fatalf("TryLock failed: %v", err)
	}
	if ok {
		t.Fatalf("expected second lock to be rejected while held")
	}

	if _, ok, _ := locker.TryLock(ctx, "cash:ca-2", time.Minute); !ok {
		t.Fatalf("expected unrelated key to lock")
	}
}

func TestScopeLocker_UnlockReleases(t *testing.T) {
	client, mr := newTestRedisClient(t)

	locker := NewScopeLocker(client, nil)
	ctx := context.Background()

	token, _, err := locker.TryLock(ctx, "tenant:t1", time.Minute)
	if err != nil {
		t.Fatalf("TryLock failed: %v", err)
	}

	if err := locker.Unlock(ctx, "tenant:t1", token); err != nil {
		t.Fatalf("unlock failed: %v", err)
	}

	if mr.Exists(locker.prefix + "tenant:t1") {
		t.Fatalf("expected lock key to be deleted")
	}
}

func TestScopeLocker_UnlockIgnoresForeignToken(t *testing.T) {
	client, mr := newTestRedisClient(t)

	locker := NewScopeLocker(client, nil)
	ctx := context.Background()

	if _, _, err := locker.TryLock(ctx, "tenant:t1", time.Minute); err != nil {
		t.Fatalf("TryLock failed: %v", err)
	}

	if err := locker.Unlock(ctx, "tenant:t1", "someone-else"); err != nil {
		t.Fatalf("unlock failed: %v", err)
	}

	if !mr.Exists(locker.prefix + "tenant:t1") {
		t.Fatalf("expected lock to survive an unlock with the wrong token")
	}
}

func TestScopeLocker_ExpiresAfterTTL(t *testing.T) {
	client, mr := newTestRedisClient(t)

	locker := NewScopeLocker(client, nil)
	ctx := context.Background()

	if _, ok, _ := locker.TryLock(ctx, "instrument:i1", time.Second); !ok {
		t.Fatalf("expected lock")
	}

	mr.FastForward(2 * time.Second)

	if _, ok, _ := locker.TryLock(ctx, "instrument:i1", time.Second); !ok {
		t.Fatalf("expected expired lock to be reusable")
	}
}

func TestScopeLocker_ExtendRenewsTTL(t *testing.T) {
	client, mr := newTestRedisClient(t)

	locker := NewScopeLocker(client, nil)
	ctx := context.Background()

	token, _, err := locker.TryLock(ctx, "cash:ca-1", 3*time.Second)
	if err != nil {
		t.Fatalf("TryLock failed: %v", err)
	}

	mr.FastForward(2 * time.Second)
	ok, err := locker.Extend(ctx, "cash:ca-1", token, 3*time.Second)
	if err != nil || !ok {
		t.Fatalf("expected extend to succeed, got ok=%v err=%v", ok, err)
	}
	if ttl := mr.TTL(locker.prefix + "cash:ca-1"); ttl != 3*time.Second {
		t.Fatalf("expected ttl reset to 3s, got %v", ttl)
	}

	mr.FastForward(2 * time.Second)
	if _, ok, _ := locker.TryLock(ctx, "cash:ca-1", time.Minute); ok {
		t.Fatalf("expected extended lock to still be held")
	}
}

func TestScopeLocker_ExtendAfterTakeover(t *testing.T) {
	client, mr := newTestRedisClient(t)

	locker := NewScopeLocker(client, nil)
	ctx := context.Background()

	stale, _, err := locker.TryLock(ctx, "tenant:t1", time.Second)
	if err != nil {
		t.Fatalf("TryLock failed: %v", err)
	}
	mr.FastForward(2 * time.Second)
	fresh, ok, _ := locker.TryLock(ctx, "tenant:t1", time.Minute)
	if !ok {
		t.Fatalf("expected expired lock to be taken over")
	}

	ok, err = locker.Extend(ctx, "tenant:t1", stale, time.Minute)
	if err != nil {
		t.Fatalf("Extend failed: %v", err)
	}
	if ok {
		t.Fatalf("expected extend with a stale token to fail")
	}
	if got, _ := mr.Get(locker.prefix + "tenant:t1"); got != fresh {
		t.Fatalf("expected new owner to keep the lock, got %q", got)
	}

	if ok, _ := locker.Extend(ctx, "cash:gone", stale, time.Minute); ok {
		t.Fatalf("expected extend of a missing key to fail")
	}
}

func TestScopeLocker_IsLocked(t *testing.T) {
	client, _ := newTestRedisClient(t)

	locker := NewScopeLocker(client, nil)
	ctx := context.Background()

	held, err := locker.IsLocked(ctx, "tenant:t1")
	if err != nil || held {
		t.Fatalf("expected free key, got held=%v err=%v", held, err)
	}
	token, _, _ := locker.TryLock(ctx, "tenant:t1", time.Minute)
	if held, _ := locker.IsLocked(ctx, "tenant:t1"); !held {
		t.Fatalf("expected key to be reported as held")
	}
	_ = locker.Unlock(ctx, "tenant:t1", token)
	if held, _ := locker.IsLocked(ctx, "tenant:t1"); held {
		t.Fatalf("expected released key to be free")
	}
}

func TestScopeLocker_ErrorsAreCounted(t *testing.T) {
	client, mr := newTestRedisClient(t)

	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	locker := NewScopeLocker(client, m)
	mr.Close()

	if _, _, err := locker.TryLock(context.Background(), "cash:ca-1", time.Minute); err == nil {
		t.Fatalf("expected error when redis is down")
	}

	if got := testutil.ToFloat64(m.RedisErrors.WithLabelValues("lock")); got != 1 {
		t.Fatalf("expected 1 lock error, got %v", got)
	}
	if got := testutil.ToFloat64(m.RedisOperations.WithLabelValues("lock")); got != 1 {
		t.Fatalf("expected 1 lock operation, got %v", got)
	}
}
