package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iho/goholdings/internal/domain"
	"github.com/iho/goholdings/internal/infrastructure/metrics"
	"github.com/iho/goholdings/internal/usecase"
)

// CurrencyRepository caches currency pair ids in front of another
// usecase.CurrencyRepository. Pair ids never change once created, so only
// the TTL bounds the cache. Rates are always read from the next layer.
type CurrencyRepository struct {
	next    usecase.CurrencyRepository
	client  *redis.Client
	prefix  string
	ttl     time.Duration
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewCurrencyRepository wraps next with a Redis pair cache.
func NewCurrencyRepository(
	next usecase.CurrencyRepository,
	client *redis.Client,
	ttl time.Duration,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *CurrencyRepository {
	return &CurrencyRepository{
		next:    next,
		client:  client,
		prefix:  "currency_pair:",
		ttl:     ttl,
		metrics: m,
		logger:  logger,
	}
}

// EnsurePair returns the cached id or resolves it through the next layer.
// Cache failures are logged and never fail the call.
func (r *CurrencyRepository) EnsurePair(ctx context.Context, from, to string) (int64, error) {
	key := r.prefix + from + ":" + to

	cached, err := r.client.Get(ctx, key).Result()
	r.observe("get", err)
	switch {
	case err == nil:
		id, perr := strconv.ParseInt(cached, 10, 64)
		if perr == nil {
			return id, nil
		}
		r.logger.Warn().Str("key", key).Str("value", cached).Msg("discarding malformed cached pair id")
	case !errors.Is(err, redis.Nil):
		r.logger.Warn().Err(err).Str("key", key).Msg("currency pair cache read failed")
	}

	id, err := r.next.EnsurePair(ctx, from, to)
	if err != nil {
		return 0, err
	}

	err = r.client.Set(ctx, key, strconv.FormatInt(id, 10), r.ttl).Err()
	r.observe("set", err)
	if err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("currency pair cache write failed")
	}

	return id, nil
}

// ListRates passes through to the next layer.
func (r *CurrencyRepository) ListRates(ctx context.Context, pairs []domain.PairKey) ([]domain.Rate, error) {
	return r.next.ListRates(ctx, pairs)
}

func (r *CurrencyRepository) observe(op string, err error) {
	if r.metrics == nil {
		return
	}
	r.metrics.RedisOperations.WithLabelValues(op).Inc()
	if err != nil && !errors.Is(err, redis.Nil) {
		r.metrics.RedisErrors.WithLabelValues(op).Inc()
	}
}
