package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/iho/goholdings/internal/infrastructure/metrics"
)

// PostgreSQL error codes a snapshot replacement may hit when two writers
// race on the same rows.
const (
	pgErrDeadlock             = "40P01"
	pgErrSerializationFailure = "40001"
	pgErrLockNotAvailable     = "55P03"
)

// RetryPolicy bounds how long a failed snapshot write is retried.
type RetryPolicy struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
}

// DefaultRetryPolicy returns the policy used by the server.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:      3,
		InitialInterval: 50 * time.Millisecond,
		MaxInterval:     time.Second,
		MaxElapsedTime:  10 * time.Second,
	}
}

// Retrier re-runs a whole transaction with exponential backoff when
// PostgreSQL reports a transient conflict.
type Retrier struct {
	policy  RetryPolicy
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewRetrier creates a Retrier. m may be nil.
func NewRetrier(policy RetryPolicy, m *metrics.Metrics, logger zerolog.Logger) *Retrier {
	return &Retrier{
		policy:  policy,
		metrics: m,
		logger:  logger.With().Str("component", "pg_retrier").Logger(),
	}
}

// Retry runs operation until it succeeds, fails permanently or the policy is
// exhausted. table labels the logs and the retry counter.
func (r *Retrier) Retry(ctx context.Context, table string, operation func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.policy.InitialInterval
	b.MaxInterval = r.policy.MaxInterval
	b.MaxElapsedTime = r.policy.MaxElapsedTime

	attempt := 0

	return backoff.Retry(func() error {
		err := operation()
		if err == nil {
			return nil
		}

		code, ok := retryableCode(err)
		if !ok {
			return backoff.Permanent(err)
		}

		attempt++
		if attempt > r.policy.MaxRetries {
			return backoff.Permanent(err)
		}

		if r.metrics != nil {
			r.metrics.SnapshotWriteRetries.WithLabelValues(table, code).Inc()
		}
		r.logger.Warn().
			Err(err).
			Str("table", table).
			Str("pg_code", code).
			Int("retry", attempt).
			Msg("transient write conflict, retrying")

		return err
	}, backoff.WithContext(b, ctx))
}

// retryableCode reports the PostgreSQL error code of err when a retry may
// succeed.
func retryableCode(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return "", false
	}
	switch pgErr.Code {
	case pgErrDeadlock, pgErrSerializationFailure, pgErrLockNotAvailable:
		return pgErr.Code, true
	}
	return "", false
}
