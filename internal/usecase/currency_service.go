package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/iho/goholdings/internal/domain"
)

// CurrencyService resolves currency pair ids and loads rate tables for the
// builders. It has no dependency on any builder.
type CurrencyService struct {
	repo CurrencyRepository
}

// NewCurrencyService creates a new CurrencyService.
func NewCurrencyService(repo CurrencyRepository) *CurrencyService {
	return &CurrencyService{repo: repo}
}

// NewPairResolver returns a resolver whose cache lives for one run.
func (s *CurrencyService) NewPairResolver() *PairResolver {
	return &PairResolver{repo: s.repo, ids: make(map[domain.PairKey]int64)}
}

// LoadRates loads the full rate history of the given pairs in both
// directions.
func (s *CurrencyService) LoadRates(ctx context.Context, pairs []domain.PairKey) (*domain.RateTable, error) {
	seen := make(map[domain.PairKey]bool)
	var query []domain.PairKey
	for _, p := range pairs {
		if p.From == p.To {
			continue
		}
		for _, k := range []domain.PairKey{p, p.Inverse()} {
			if !seen[k] {
				seen[k] = true
				query = append(query, k)
			}
		}
	}
	if len(query) == 0 {
		return domain.NewRateTable(nil), nil
	}

	rates, err := s.repo.ListRates(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load rates: %w", err)
	}
	return domain.NewRateTable(rates), nil
}

// PairResolver caches pair ids for the duration of a run. It is safe for
// use by parallel scope passes.
type PairResolver struct {
	repo CurrencyRepository
	mu   sync.Mutex
	ids  map[domain.PairKey]int64
}

// Resolve returns the pair id for from/to, or nil when no conversion is
// needed.
func (r *PairResolver) Resolve(ctx context.Context, from, to string) (*int64, error) {
	if from == "" || to == "" || from == to {
		return nil, nil
	}
	key := domain.PairKey{From: from, To: to}

	r.mu.Lock()
	id, ok := r.ids[key]
	r.mu.Unlock()
	if ok {
		return &id, nil
	}

	id, err := r.repo.EnsurePair(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("ensure pair %s: %w", key, err)
	}

	r.mu.Lock()
	r.ids[key] = id
	r.mu.Unlock()
	return &id, nil
}

// pairRefs are the portfolio and tenant pair ids stamped on snapshots.
type pairRefs struct {
	portfolio *int64
	tenant    *int64
}

func (r *PairResolver) resolveRefs(ctx context.Context, from, portfolioCcy, tenantCcy string) (pairRefs, error) {
	portfolio, err := r.Resolve(ctx, from, portfolioCcy)
	if err != nil {
		return pairRefs{}, err
	}
	tenant, err := r.Resolve(ctx, from, tenantCcy)
	if err != nil {
		return pairRefs{}, err
	}
	return pairRefs{portfolio: portfolio, tenant: tenant}, nil
}
