package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/iho/goholdings/internal/domain"
	"github.com/iho/goholdings/internal/infrastructure/metrics"
)

// CashDepositUseCase builds cumulative deposit timelines valued in the
// account, portfolio and tenant currency.
type CashDepositUseCase struct {
	accountRepo AccountRepository
	txRepo      TransactionRepository
	depositRepo CashDepositRepository
	currencies  *CurrencyService
	workers     int
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

// NewCashDepositUseCase creates a new CashDepositUseCase.
func NewCashDepositUseCase(
	accountRepo AccountRepository,
	txRepo TransactionRepository,
	depositRepo CashDepositRepository,
	currencies *CurrencyService,
	workers int,
	metrics *metrics.Metrics,
	logger zerolog.Logger,
) *CashDepositUseCase {
	if workers <= 0 {
		workers = DefaultRebuildWorkers
	}
	return &CashDepositUseCase{
		accountRepo: accountRepo,
		txRepo:      txRepo,
		depositRepo: depositRepo,
		currencies:  currencies,
		workers:     workers,
		metrics:     metrics,
		logger:      logger.With().Str("builder", builderCashDeposit).Logger(),
	}
}

// RebuildAll recomputes the deposits of every cash account of the tenant.
func (uc *CashDepositUseCase) RebuildAll(ctx context.Context, tenantID string) error {
	accounts, err := uc.accountRepo.ListCashAccounts(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("list cash accounts: %w", err)
	}

	resolver := uc.currencies.NewPairResolver()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.workers)
	for _, account := range accounts {
		account := account
		g.Go(func() error {
			return uc.rebuild(gctx, account, resolver)
		})
	}
	return g.Wait()
}

// RebuildScope recomputes one cash account from scratch.
func (uc *CashDepositUseCase) RebuildScope(ctx context.Context, cashAccountID string) error {
	account, err := uc.accountRepo.GetCashAccount(ctx, cashAccountID)
	if err != nil {
		return err
	}
	return uc.rebuild(ctx, *account, uc.currencies.NewPairResolver())
}

func (uc *CashDepositUseCase) rebuild(ctx context.Context, account domain.CashAccount, resolver *PairResolver) (err error) {
	start := time.Now()
	defer func() { observeRun(uc.metrics, builderCashDeposit, modeFull, start, err) }()

	txs, err := uc.txRepo.ListDepositTransactions(ctx, account.ID, domain.MinDate)
	if err != nil {
		return fmt.Errorf("list deposits of cash account %s: %w", account.ID, err)
	}
	fold, err := uc.newFold(ctx, account, txs, resolver)
	if err != nil {
		return err
	}
	acc, err := fold.run(cashDepositAccumulator{}, txs)
	if err != nil {
		return err
	}
	uc.recordFallbacks(acc.fallbacks)
	return uc.persist(ctx, account.ID, domain.MinDate, acc.deposits)
}

// AdjustForTransaction recomputes the deposits of every cash account
// touched by a deposit or withdrawal change and its related change.
func (uc *CashDepositUseCase) AdjustForTransaction(ctx context.Context, change domain.TransactionChange, related *domain.TransactionChange) error {
	starts := make(map[string]domain.Date)
	var order []string
	collect := func(c domain.TransactionChange) {
		for _, tx := range []*domain.Transaction{c.Before, c.After} {
			if tx == nil || !tx.Type.IsCashFlow() || tx.CashAccountID == "" {
				continue
			}
			if _, ok := starts[tx.CashAccountID]; !ok {
				order = append(order, tx.CashAccountID)
			}
			starts[tx.CashAccountID] = domain.MinOf(starts[tx.CashAccountID], c.StartDate())
		}
	}
	collect(change)
	if related != nil {
		collect(*related)
	}

	for _, id := range order {
		if err := uc.AdjustFrom(ctx, id, starts[id]); err != nil {
			return err
		}
	}
	return nil
}

// RecomputeForRateCorrection recomputes the deposits affected by corrected
// rates of the given currencies on or after since. A deposit dated after the
// last quote preceding since may now resolve to a corrected quote, so each
// account is replayed from its earliest such deposit.
func (uc *CashDepositUseCase) RecomputeForRateCorrection(ctx context.Context, tenantID string, currencies []string, since domain.Date) error {
	var (
		txs      []*domain.Transaction
		accounts []domain.CashAccount
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = uc.txRepo.ListDepositsByCurrencies(gctx, tenantID, currencies, domain.MinDate)
		if err != nil {
			return fmt.Errorf("list deposits affected by rates: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		accounts, err = uc.accountRepo.ListCashAccounts(gctx, tenantID)
		if err != nil {
			return fmt.Errorf("list cash accounts: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	starts, err := uc.correctionStarts(ctx, accounts, txs, currencies, since)
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(starts))
	for id := range starts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	uc.logger.Info().
		Str("tenant_id", tenantID).
		Strs("currencies", currencies).
		Str("since", since.String()).
		Int("accounts", len(ids)).
		Msg("recomputing deposits after rate correction")

	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(uc.workers)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			return uc.AdjustFrom(gctx, id, starts[id])
		})
	}
	return g.Wait()
}

// correctionStarts returns, per cash account, the date of the earliest
// deposit whose conversion may use a quote dated on or after since.
func (uc *CashDepositUseCase) correctionStarts(ctx context.Context, accounts []domain.CashAccount, txs []*domain.Transaction, currencies []string, since domain.Date) (map[string]domain.Date, error) {
	byID := make(map[string]domain.CashAccount, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}
	corrected := make(map[string]bool, len(currencies))
	for _, c := range currencies {
		corrected[c] = true
	}
	targets := func(tx *domain.Transaction) []string {
		a, ok := byID[tx.CashAccountID]
		if !ok {
			return nil
		}
		var out []string
		for _, to := range uniqueStrings([]string{a.PortfolioCurrency, a.TenantCurrency}) {
			if to != "" && to != tx.Currency && (corrected[to] || corrected[tx.Currency]) {
				out = append(out, to)
			}
		}
		return out
	}

	var pairs []domain.PairKey
	for _, tx := range txs {
		for _, to := range targets(tx) {
			pairs = append(pairs, domain.PairKey{From: tx.Currency, To: to})
		}
	}
	rates, err := uc.currencies.LoadRates(ctx, pairs)
	if err != nil {
		return nil, err
	}

	starts := make(map[string]domain.Date)
	for _, tx := range txs {
		hit := !tx.Date().Before(since)
		for _, to := range targets(tx) {
			if hit {
				break
			}
			last, ok := rates.QuotedBefore(tx.Currency, to, since)
			hit = !ok || tx.Date().After(last)
		}
		if hit {
			starts[tx.CashAccountID] = domain.MinOf(starts[tx.CashAccountID], tx.Date())
		}
	}
	return starts, nil
}

// AdjustFrom recomputes a cash account's deposits from date onwards.
func (uc *CashDepositUseCase) AdjustFrom(ctx context.Context, cashAccountID string, date domain.Date) (err error) {
	started := time.Now()
	defer func() { observeRun(uc.metrics, builderCashDeposit, modeIncremental, started, err) }()

	var (
		account *domain.CashAccount
		seed    *domain.CashDeposit
		txs     []*domain.Transaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		account, err = uc.accountRepo.GetCashAccount(gctx, cashAccountID)
		return err
	})
	g.Go(func() error {
		var err error
		seed, err = uc.depositRepo.LastBefore(gctx, cashAccountID, date)
		return err
	})
	g.Go(func() error {
		var err error
		txs, err = uc.txRepo.ListDepositTransactions(gctx, cashAccountID, date)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load deposits of %s from %s: %w", cashAccountID, date, err)
	}

	fold, err := uc.newFold(ctx, *account, txs, uc.currencies.NewPairResolver())
	if err != nil {
		return err
	}

	acc := cashDepositAccumulator{}
	replaceFrom := date
	if seed != nil {
		acc = fold.seed(seed)
		replaceFrom = seed.FromDate
	}
	acc, err = fold.run(acc, txs)
	if err != nil {
		return err
	}
	uc.recordFallbacks(acc.fallbacks)

	uc.logger.Debug().
		Str("cash_account_id", cashAccountID).
		Str("from", replaceFrom.String()).
		Int("deposits", len(acc.deposits)).
		Msg("adjusted cash deposits")

	return uc.persist(ctx, cashAccountID, replaceFrom, acc.deposits)
}

// newFold loads the rates and transfer legs one pass needs.
func (uc *CashDepositUseCase) newFold(ctx context.Context, account domain.CashAccount, txs []*domain.Transaction, resolver *PairResolver) (cashDepositFold, error) {
	if len(txs) == 0 {
		return newCashDepositFold(account, nil, nil), nil
	}

	var (
		pairs pairRefs
		rates *domain.RateTable
		legs  map[string]*domain.Transaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		pairs, err = resolver.resolveRefs(gctx, account.Currency, account.PortfolioCurrency, account.TenantCurrency)
		return err
	})
	g.Go(func() error {
		var err error
		rates, err = uc.currencies.LoadRates(gctx, ratePairs(account, txs))
		return err
	})
	g.Go(func() error {
		var err error
		legs, err = uc.loadLegs(gctx, txs)
		return err
	})
	if err := g.Wait(); err != nil {
		return cashDepositFold{}, err
	}

	fold := newCashDepositFold(account, rates, legs)
	fold.pairs = pairs
	return fold, nil
}

func ratePairs(account domain.CashAccount, txs []*domain.Transaction) []domain.PairKey {
	currencies := []string{account.Currency}
	for _, tx := range txs {
		currencies = append(currencies, tx.Currency)
	}
	var pairs []domain.PairKey
	for _, from := range uniqueStrings(currencies) {
		for _, to := range uniqueStrings([]string{account.PortfolioCurrency, account.TenantCurrency}) {
			if from != to {
				pairs = append(pairs, domain.PairKey{From: from, To: to})
			}
		}
	}
	return pairs
}

func (uc *CashDepositUseCase) loadLegs(ctx context.Context, txs []*domain.Transaction) (map[string]*domain.Transaction, error) {
	var ids []string
	for _, tx := range txs {
		if tx.ConnectedID != nil {
			ids = append(ids, *tx.ConnectedID)
		}
	}
	ids = uniqueStrings(ids)
	legs := make(map[string]*domain.Transaction, len(ids))
	if len(ids) == 0 {
		return legs, nil
	}

	found, err := uc.txRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load transfer legs: %w", err)
	}
	for _, tx := range found {
		legs[tx.ID] = tx
	}
	return legs, nil
}

func (uc *CashDepositUseCase) recordFallbacks(n int) {
	if n == 0 {
		return
	}
	uc.logger.Debug().Int("conversions", n).Msg("used rates from other days")
	if uc.metrics != nil {
		uc.metrics.RateFallbacks.WithLabelValues("nearest").Add(float64(n))
	}
}

func (uc *CashDepositUseCase) persist(ctx context.Context, cashAccountID string, from domain.Date, deposits []domain.CashDeposit) error {
	if len(deposits) > 0 {
		if err := domain.ValidateTimeline(domain.CashDepositPeriods(deposits)); err != nil {
			return fmt.Errorf("cash account %s: %w", cashAccountID, err)
		}
	}
	if err := uc.depositRepo.ReplaceFrom(ctx, cashAccountID, from, deposits); err != nil {
		return fmt.Errorf("save deposits of %s: %w", cashAccountID, err)
	}
	if uc.metrics != nil {
		uc.metrics.SnapshotsWritten.WithLabelValues(builderCashDeposit).Add(float64(len(deposits)))
	}
	return nil
}
