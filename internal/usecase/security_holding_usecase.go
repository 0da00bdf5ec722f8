package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/iho/goholdings/internal/domain"
	"github.com/iho/goholdings/internal/infrastructure/metrics"
)

// SecurityHoldingUseCase builds security holding timelines.
type SecurityHoldingUseCase struct {
	accountRepo  AccountRepository
	txRepo       TransactionRepository
	holdingRepo  SecurityHoldingRepository
	splitService *SplitService
	currencies   *CurrencyService
	workers      int
	metrics      *metrics.Metrics
	logger       zerolog.Logger
}

// NewSecurityHoldingUseCase creates a new SecurityHoldingUseCase.
func NewSecurityHoldingUseCase(
	accountRepo AccountRepository,
	txRepo TransactionRepository,
	holdingRepo SecurityHoldingRepository,
	splitService *SplitService,
	currencies *CurrencyService,
	workers int,
	metrics *metrics.Metrics,
	logger zerolog.Logger,
) *SecurityHoldingUseCase {
	if workers <= 0 {
		workers = DefaultRebuildWorkers
	}
	return &SecurityHoldingUseCase{
		accountRepo:  accountRepo,
		txRepo:       txRepo,
		holdingRepo:  holdingRepo,
		splitService: splitService,
		currencies:   currencies,
		workers:      workers,
		metrics:      metrics,
		logger:       logger.With().Str("builder", builderSecurity).Logger(),
	}
}

// RebuildAll recomputes every security scope of the tenant from scratch.
func (uc *SecurityHoldingUseCase) RebuildAll(ctx context.Context, tenantID string) error {
	scopes, err := uc.accountRepo.ListSecurityScopes(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("list security scopes: %w", err)
	}
	return uc.rebuildScopes(ctx, scopes)
}

// RebuildScope recomputes one scope from scratch.
func (uc *SecurityHoldingUseCase) RebuildScope(ctx context.Context, accountID, instrumentID string) error {
	scope, err := uc.accountRepo.GetSecurityScope(ctx, accountID, instrumentID)
	if err != nil {
		return err
	}
	return uc.rebuildScopes(ctx, []domain.SecurityScope{*scope})
}

// RebuildInstrument recomputes every scope holding the instrument. It is
// used after the instrument's split history changed.
func (uc *SecurityHoldingUseCase) RebuildInstrument(ctx context.Context, instrumentID string) error {
	scopes, err := uc.accountRepo.ListSecurityScopesByInstrument(ctx, instrumentID)
	if err != nil {
		return fmt.Errorf("list scopes of instrument %s: %w", instrumentID, err)
	}
	return uc.rebuildScopes(ctx, scopes)
}

func (uc *SecurityHoldingUseCase) rebuildScopes(ctx context.Context, scopes []domain.SecurityScope) error {
	if len(scopes) == 0 {
		return nil
	}
	instruments := make([]string, 0, len(scopes))
	for _, s := range scopes {
		instruments = append(instruments, s.InstrumentID)
	}
	tables, err := uc.splitService.LoadTables(ctx, instruments)
	if err != nil {
		return err
	}

	resolver := uc.currencies.NewPairResolver()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.workers)
	for _, scope := range scopes {
		scope := scope
		g.Go(func() error {
			return uc.rebuild(gctx, scope, tables[scope.InstrumentID], resolver)
		})
	}
	return g.Wait()
}

func (uc *SecurityHoldingUseCase) rebuild(ctx context.Context, scope domain.SecurityScope, splits domain.SplitTable, resolver *PairResolver) (err error) {
	start := time.Now()
	defer func() { observeRun(uc.metrics, builderSecurity, modeFull, start, err) }()

	txs, err := uc.txRepo.ListSecurityTransactions(ctx, scope.SecurityScopeKey, domain.MinDate)
	if err != nil {
		return fmt.Errorf("list transactions of %s: %w", scope, err)
	}

	fold, err := uc.newFold(ctx, scope, splits, txs, resolver)
	if err != nil {
		return err
	}
	acc := fold.run(securityAccumulator{}, mergeHoldingEvents(txs, splits.Splits()))

	return uc.persist(ctx, scope.SecurityScopeKey, domain.MinDate, acc.holdings)
}

// AdjustForTransaction recomputes the scopes touched by a ledger mutation
// from the mutation date onwards.
func (uc *SecurityHoldingUseCase) AdjustForTransaction(ctx context.Context, change domain.TransactionChange) error {
	start := change.StartDate()
	seen := make(map[string]bool)
	for _, tx := range []*domain.Transaction{change.Before, change.After} {
		if tx == nil || !tx.Type.IsTrade() || tx.InstrumentID == nil {
			continue
		}
		key := tx.SecurityAccountID + "|" + *tx.InstrumentID
		if seen[key] {
			continue
		}
		seen[key] = true

		scope, err := uc.accountRepo.GetSecurityScope(ctx, tx.SecurityAccountID, *tx.InstrumentID)
		if err != nil {
			return err
		}
		if err := uc.AdjustFrom(ctx, *scope, start); err != nil {
			return err
		}
	}
	return nil
}

// AdjustFrom recomputes a scope from date onwards, seeded from the last
// holding that starts before date.
func (uc *SecurityHoldingUseCase) AdjustFrom(ctx context.Context, scope domain.SecurityScope, date domain.Date) (err error) {
	started := time.Now()
	defer func() { observeRun(uc.metrics, builderSecurity, modeIncremental, started, err) }()

	var (
		seed   *domain.SecurityHolding
		splits domain.SplitTable
		txs    []*domain.Transaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		seed, err = uc.holdingRepo.LastBefore(gctx, scope.SecurityScopeKey, date)
		return err
	})
	g.Go(func() error {
		var err error
		splits, err = uc.splitService.LoadTable(gctx, scope.InstrumentID)
		return err
	})
	g.Go(func() error {
		var err error
		txs, err = uc.txRepo.ListSecurityTransactions(gctx, scope.SecurityScopeKey, date)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load %s from %s: %w", scope, date, err)
	}

	fold, err := uc.newFold(ctx, scope, splits, txs, uc.currencies.NewPairResolver())
	if err != nil {
		return err
	}

	// Without a seed covering the day before, the position was flat then.
	acc := securityAccumulator{}
	replaceFrom := date
	splitsAfter := date.Add(-1)
	if seed != nil && seed.Covers(date.Add(-1)) {
		acc = fold.seed(seed)
		replaceFrom = seed.FromDate
		splitsAfter = seed.FromDate
	}
	acc = fold.run(acc, mergeHoldingEvents(txs, splits.After(splitsAfter)))

	uc.logger.Debug().
		Str("scope", scope.String()).
		Str("from", replaceFrom.String()).
		Bool("seeded", replaceFrom != date).
		Int("holdings", len(acc.holdings)).
		Msg("adjusted security scope")

	return uc.persist(ctx, scope.SecurityScopeKey, replaceFrom, acc.holdings)
}

// newFold resolves the pair ids and connected opening trades a pass needs.
func (uc *SecurityHoldingUseCase) newFold(
	ctx context.Context,
	scope domain.SecurityScope,
	splits domain.SplitTable,
	txs []*domain.Transaction,
	resolver *PairResolver,
) (securityFold, error) {
	fold := securityFold{scope: scope, splits: splits}
	if len(txs) == 0 {
		return fold, nil
	}

	pairs, err := resolver.resolveRefs(ctx, scope.InstrumentCurrency, scope.PortfolioCurrency, scope.TenantCurrency)
	if err != nil {
		return fold, err
	}
	fold.pairs = pairs

	if scope.Margin {
		opens, err := uc.loadOpens(ctx, txs)
		if err != nil {
			return fold, err
		}
		fold.opens = opens
	}
	return fold, nil
}

func (uc *SecurityHoldingUseCase) loadOpens(ctx context.Context, txs []*domain.Transaction) (map[string]*domain.Transaction, error) {
	byID := make(map[string]*domain.Transaction, len(txs))
	for _, tx := range txs {
		byID[tx.ID] = tx
	}

	var missing []string
	for _, tx := range txs {
		if tx.IsMarginClose() {
			if _, ok := byID[*tx.ConnectedID]; !ok {
				missing = append(missing, *tx.ConnectedID)
			}
		}
	}
	missing = uniqueStrings(missing)
	if len(missing) == 0 {
		return byID, nil
	}

	opens, err := uc.txRepo.GetByIDs(ctx, missing)
	if err != nil {
		return nil, fmt.Errorf("load opening trades: %w", err)
	}
	for _, tx := range opens {
		byID[tx.ID] = tx
	}
	if len(opens) < len(missing) {
		uc.logger.Warn().Int("missing", len(missing)-len(opens)).Msg("margin closes reference unknown opening trades")
	}
	return byID, nil
}

func (uc *SecurityHoldingUseCase) persist(ctx context.Context, key domain.SecurityScopeKey, from domain.Date, holdings []domain.SecurityHolding) error {
	if err := domain.ValidateLifetimes(domain.SecurityPeriods(holdings)); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if err := uc.holdingRepo.ReplaceFrom(ctx, key, from, holdings); err != nil {
		return fmt.Errorf("save holdings of %s: %w", key, err)
	}
	if uc.metrics != nil {
		uc.metrics.SnapshotsWritten.WithLabelValues(builderSecurity).Add(float64(len(holdings)))
	}
	return nil
}

func runStatus(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
