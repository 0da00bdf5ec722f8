package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iho/goholdings/internal/domain"
)

// CurrencyRepository resolves currency pairs and reads historical rates.
type CurrencyRepository struct {
	pool pgxPool
}

// NewCurrencyRepository creates a new CurrencyRepository.
func NewCurrencyRepository(pool pgxPool) *CurrencyRepository {
	return &CurrencyRepository{pool: pool}
}

// EnsurePair returns the pair id, inserting the pair when it is missing.
// The no-op update makes RETURNING yield the existing row on conflict.
func (r *CurrencyRepository) EnsurePair(ctx context.Context, from, to string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO currency_pairs (from_currency, to_currency)
		VALUES ($1, $2)
		ON CONFLICT (from_currency, to_currency)
		DO UPDATE SET from_currency = EXCLUDED.from_currency
		RETURNING id
	`, from, to).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ensure currency pair %s/%s: %w", from, to, err)
	}
	return id, nil
}

// ListRates returns every stored rate of the given pairs.
func (r *CurrencyRepository) ListRates(ctx context.Context, pairs []domain.PairKey) ([]domain.Rate, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	froms := make([]string, len(pairs))
	tos := make([]string, len(pairs))
	for i, p := range pairs {
		froms[i], tos[i] = p.From, p.To
	}

	rows, err := r.pool.Query(ctx, `
		SELECT cp.from_currency, cp.to_currency, er.rate_date, er.rate
		FROM exchange_rates er
		JOIN currency_pairs cp ON cp.id = er.pair_id
		JOIN unnest($1::text[], $2::text[]) AS wanted(from_currency, to_currency)
		  ON wanted.from_currency = cp.from_currency AND wanted.to_currency = cp.to_currency
		ORDER BY cp.from_currency, cp.to_currency, er.rate_date
	`, froms, tos)
	if err != nil {
		return nil, fmt.Errorf("list rates: %w", err)
	}
	defer rows.Close()

	var rates []domain.Rate
	for rows.Next() {
		var (
			rate domain.Rate
			date pgtype.Date
			val  pgtype.Numeric
		)
		if err := rows.Scan(&rate.From, &rate.To, &date, &val); err != nil {
			return nil, fmt.Errorf("scan rate: %w", err)
		}
		rate.Date = pgToDate(date)
		rate.Rate = numericToDecimal(val)
		rates = append(rates, rate)
	}
	return rates, rows.Err()
}
