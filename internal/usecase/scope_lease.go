package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/goholdings/internal/domain"
)

// scopeLease is a set of scope locks taken together and renewed until it is
// released. A zero lease with no locker is a no-op.
type scopeLease struct {
	locker ScopeLocker
	ttl    time.Duration
	logger zerolog.Logger
	keys   []string
	tokens map[string]string

	stop chan struct{}
	done chan struct{}
}

// acquireLease takes every key in order and then checks that no guard is
// held. On any miss the keys already taken are given back.
func acquireLease(ctx context.Context, locker ScopeLocker, keys, guards []string, ttl time.Duration, logger zerolog.Logger) (*scopeLease, error) {
	l := &scopeLease{
		locker: locker,
		ttl:    ttl,
		logger: logger,
		tokens: make(map[string]string, len(keys)),
	}
	if locker == nil {
		return l, nil
	}

	for _, key := range keys {
		token, ok, err := locker.TryLock(ctx, key, ttl)
		if err != nil {
			l.release(ctx)
			return nil, fmt.Errorf("lock %s: %w", key, err)
		}
		if !ok {
			l.release(ctx)
			return nil, fmt.Errorf("%w: %s", domain.ErrScopeLocked, key)
		}
		l.keys = append(l.keys, key)
		l.tokens[key] = token
	}

	for _, key := range guards {
		held, err := locker.IsLocked(ctx, key)
		if err != nil {
			l.release(ctx)
			return nil, fmt.Errorf("check lock %s: %w", key, err)
		}
		if held {
			l.release(ctx)
			return nil, fmt.Errorf("%w: %s", domain.ErrScopeLocked, key)
		}
	}
	return l, nil
}

// keepAlive extends every key each third of the ttl until release. A key
// that can no longer be extended cancels ctx with domain.ErrScopeLocked.
func (l *scopeLease) keepAlive(ctx context.Context, cancel context.CancelCauseFunc) {
	if l.locker == nil || len(l.keys) == 0 {
		return
	}
	l.stop = make(chan struct{})
	l.done = make(chan struct{})

	go func() {
		defer close(l.done)
		ticker := time.NewTicker(max(l.ttl/3, time.Millisecond))
		defer ticker.Stop()

		for {
			select {
			case <-l.stop:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			for _, key := range l.keys {
				ok, err := l.locker.Extend(ctx, key, l.tokens[key], l.ttl)
				if err != nil {
					l.logger.Warn().Err(err).Str("scope", key).Msg("failed to extend scope lock")
					continue
				}
				if !ok {
					cancel(fmt.Errorf("%w: lease on %s expired", domain.ErrScopeLocked, key))
					return
				}
			}
		}
	}()
}

// release stops renewal and unlocks every key taken, last first.
func (l *scopeLease) release(ctx context.Context) {
	if l.stop != nil {
		close(l.stop)
		<-l.done
		l.stop = nil
	}

	// The task context may already be cancelled; release regardless.
	ctx = context.WithoutCancel(ctx)
	for i := len(l.keys) - 1; i >= 0; i-- {
		key := l.keys[i]
		if err := l.locker.Unlock(ctx, key, l.tokens[key]); err != nil {
			l.logger.Warn().Err(err).Str("scope", key).Msg("failed to release scope lock")
		}
	}
	l.keys = nil
}
