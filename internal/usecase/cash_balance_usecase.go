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

// CashBalanceUseCase builds cash balance timelines.
type CashBalanceUseCase struct {
	accountRepo AccountRepository
	txRepo      TransactionRepository
	balanceRepo CashBalanceRepository
	currencies  *CurrencyService
	workers     int
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

// NewCashBalanceUseCase creates a new CashBalanceUseCase.
func NewCashBalanceUseCase(
	accountRepo AccountRepository,
	txRepo TransactionRepository,
	balanceRepo CashBalanceRepository,
	currencies *CurrencyService,
	workers int,
	metrics *metrics.Metrics,
	logger zerolog.Logger,
) *CashBalanceUseCase {
	if workers <= 0 {
		workers = DefaultRebuildWorkers
	}
	return &CashBalanceUseCase{
		accountRepo: accountRepo,
		txRepo:      txRepo,
		balanceRepo: balanceRepo,
		currencies:  currencies,
		workers:     workers,
		metrics:     metrics,
		logger:      logger.With().Str("builder", builderCashBalance).Logger(),
	}
}

// RebuildAll recomputes every cash account of the tenant from scratch.
func (uc *CashBalanceUseCase) RebuildAll(ctx context.Context, tenantID string) error {
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
func (uc *CashBalanceUseCase) RebuildScope(ctx context.Context, cashAccountID string) error {
	account, err := uc.accountRepo.GetCashAccount(ctx, cashAccountID)
	if err != nil {
		return err
	}
	return uc.rebuild(ctx, *account, uc.currencies.NewPairResolver())
}

func (uc *CashBalanceUseCase) rebuild(ctx context.Context, account domain.CashAccount, resolver *PairResolver) (err error) {
	start := time.Now()
	defer func() { observeRun(uc.metrics, builderCashBalance, modeFull, start, err) }()

	txs, err := uc.txRepo.ListCashTransactions(ctx, account.ID, domain.MinDate)
	if err != nil {
		return fmt.Errorf("list transactions of cash account %s: %w", account.ID, err)
	}
	fold, err := uc.newFold(ctx, account, txs, resolver)
	if err != nil {
		return err
	}
	acc := fold.run(cashBalanceAccumulator{}, txs)
	return uc.persist(ctx, account.ID, domain.MinDate, acc.balances)
}

// AdjustForTransaction recomputes every cash account touched by the change
// and by a related change, such as the other leg of a transfer.
func (uc *CashBalanceUseCase) AdjustForTransaction(ctx context.Context, change domain.TransactionChange, related *domain.TransactionChange) error {
	starts := make(map[string]domain.Date)
	var order []string
	collect := func(c domain.TransactionChange) {
		for _, id := range c.CashAccountIDs() {
			if _, ok := starts[id]; !ok {
				order = append(order, id)
			}
			starts[id] = domain.MinOf(starts[id], c.StartDate())
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

// AdjustFrom recomputes a cash account from date onwards, seeded from the
// last balance that starts before date.
func (uc *CashBalanceUseCase) AdjustFrom(ctx context.Context, cashAccountID string, date domain.Date) (err error) {
	started := time.Now()
	defer func() { observeRun(uc.metrics, builderCashBalance, modeIncremental, started, err) }()

	var (
		account *domain.CashAccount
		seed    *domain.CashBalance
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
		seed, err = uc.balanceRepo.LastBefore(gctx, cashAccountID, date)
		return err
	})
	g.Go(func() error {
		var err error
		txs, err = uc.txRepo.ListCashTransactions(gctx, cashAccountID, date)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load cash account %s from %s: %w", cashAccountID, date, err)
	}

	fold, err := uc.newFold(ctx, *account, txs, uc.currencies.NewPairResolver())
	if err != nil {
		return err
	}

	acc := cashBalanceAccumulator{}
	replaceFrom := date
	if seed != nil {
		acc = fold.seed(seed)
		replaceFrom = seed.FromDate
	}
	acc = fold.run(acc, txs)

	uc.logger.Debug().
		Str("cash_account_id", cashAccountID).
		Str("from", replaceFrom.String()).
		Int("balances", len(acc.balances)).
		Msg("adjusted cash balance")

	return uc.persist(ctx, cashAccountID, replaceFrom, acc.balances)
}

func (uc *CashBalanceUseCase) newFold(ctx context.Context, account domain.CashAccount, txs []*domain.Transaction, resolver *PairResolver) (cashBalanceFold, error) {
	fold := cashBalanceFold{account: account}
	if len(txs) == 0 {
		return fold, nil
	}
	pairs, err := resolver.resolveRefs(ctx, account.Currency, account.PortfolioCurrency, account.TenantCurrency)
	if err != nil {
		return fold, err
	}
	fold.pairs = pairs
	return fold, nil
}

func (uc *CashBalanceUseCase) persist(ctx context.Context, cashAccountID string, from domain.Date, balances []domain.CashBalance) error {
	if len(balances) > 0 {
		if err := domain.ValidateTimeline(domain.CashBalancePeriods(balances)); err != nil {
			return fmt.Errorf("cash account %s: %w", cashAccountID, err)
		}
	}
	if err := uc.balanceRepo.ReplaceFrom(ctx, cashAccountID, from, balances); err != nil {
		return fmt.Errorf("save balances of %s: %w", cashAccountID, err)
	}
	if uc.metrics != nil {
		uc.metrics.SnapshotsWritten.WithLabelValues(builderCashBalance).Add(float64(len(balances)))
	}
	return nil
}

func observeRun(m *metrics.Metrics, builder, mode string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.RebuildRuns.WithLabelValues(builder, mode, runStatus(err)).Inc()
	m.RebuildDuration.WithLabelValues(builder, mode).Observe(time.Since(start).Seconds())
}
