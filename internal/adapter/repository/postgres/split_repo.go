package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iho/goholdings/internal/domain"
)

// SplitRepository reads instrument split history.
type SplitRepository struct {
	pool pgxPool
}

// NewSplitRepository creates a new SplitRepository.
func NewSplitRepository(pool pgxPool) *SplitRepository {
	return &SplitRepository{pool: pool}
}

// ListByInstrument returns the instrument's splits by date.
func (r *SplitRepository) ListByInstrument(ctx context.Context, instrumentID string) ([]domain.Split, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, instrument_id, split_date, from_factor, to_factor
		FROM splits
		WHERE instrument_id = $1
		ORDER BY split_date, id
	`, instrumentID)
	if err != nil {
		return nil, fmt.Errorf("list splits: %w", err)
	}
	defer rows.Close()

	var splits []domain.Split
	for rows.Next() {
		var (
			s        domain.Split
			date     pgtype.Date
			from, to pgtype.Numeric
		)
		if err := rows.Scan(&s.ID, &s.InstrumentID, &date, &from, &to); err != nil {
			return nil, fmt.Errorf("scan split: %w", err)
		}
		s.SplitDate = pgToDate(date)
		s.FromFactor = numericToDecimal(from)
		s.ToFactor = numericToDecimal(to)
		splits = append(splits, s)
	}
	return splits, rows.Err()
}
