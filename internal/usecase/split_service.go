package usecase

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/iho/goholdings/internal/domain"
)

// SplitService loads split tables.
type SplitService struct {
	repo    SplitRepository
	workers int
}

// NewSplitService creates a new SplitService.
func NewSplitService(repo SplitRepository, workers int) *SplitService {
	if workers <= 0 {
		workers = DefaultRebuildWorkers
	}
	return &SplitService{repo: repo, workers: workers}
}

// LoadTable loads the split table of one instrument.
func (s *SplitService) LoadTable(ctx context.Context, instrumentID string) (domain.SplitTable, error) {
	splits, err := s.repo.ListByInstrument(ctx, instrumentID)
	if err != nil {
		return domain.SplitTable{}, fmt.Errorf("load splits of %s: %w", instrumentID, err)
	}
	for i := range splits {
		if err := splits[i].Validate(); err != nil {
			return domain.SplitTable{}, fmt.Errorf("split %s: %w", splits[i].ID, err)
		}
	}
	return domain.NewSplitTable(splits), nil
}

// LoadTables loads split tables for several instruments in parallel.
func (s *SplitService) LoadTables(ctx context.Context, instrumentIDs []string) (map[string]domain.SplitTable, error) {
	var mu sync.Mutex
	tables := make(map[string]domain.SplitTable, len(instrumentIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, id := range uniqueStrings(instrumentIDs) {
		id := id
		g.Go(func() error {
			table, err := s.LoadTable(gctx, id)
			if err != nil {
				return err
			}
			mu.Lock()
			tables[id] = table
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tables, nil
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
