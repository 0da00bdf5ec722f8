package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/goholdings/internal/domain"
	"github.com/iho/goholdings/internal/infrastructure/metrics"
)

// RebuildDispatcher routes rebuild tasks to the builders. It holds the scope
// locks of every timeline a task writes for the duration of the task so that
// no two processes rebuild the same scope at once.
type RebuildDispatcher struct {
	accounts   AccountRepository
	securities *SecurityHoldingUseCase
	balances   *CashBalanceUseCase
	deposits   *CashDepositUseCase
	locker     ScopeLocker
	lockTTL    time.Duration
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

// NewRebuildDispatcher creates a new RebuildDispatcher. A nil locker
// disables locking.
func NewRebuildDispatcher(
	accounts AccountRepository,
	securities *SecurityHoldingUseCase,
	balances *CashBalanceUseCase,
	deposits *CashDepositUseCase,
	locker ScopeLocker,
	lockTTL time.Duration,
	metrics *metrics.Metrics,
	logger zerolog.Logger,
) *RebuildDispatcher {
	if lockTTL <= 0 {
		lockTTL = DefaultScopeLockTTL
	}
	return &RebuildDispatcher{
		accounts:   accounts,
		securities: securities,
		balances:   balances,
		deposits:   deposits,
		locker:     locker,
		lockTTL:    lockTTL,
		metrics:    metrics,
		logger:     logger.With().Str("component", "dispatcher").Logger(),
	}
}

// Dispatch runs the task. It returns domain.ErrScopeLocked when another
// worker holds one of the task's scopes or when the lease is lost midway.
func (d *RebuildDispatcher) Dispatch(ctx context.Context, task *domain.RebuildTask) error {
	if err := task.Validate(); err != nil {
		return err
	}

	lease, err := d.lock(ctx, task)
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancelCause(ctx)
	lease.keepAlive(runCtx, cancel)

	start := time.Now()
	err = d.run(runCtx, task)
	lease.release(ctx)
	if cause := context.Cause(runCtx); errors.Is(cause, domain.ErrScopeLocked) {
		err = cause
	}
	cancel(nil)

	log := d.logger.Info()
	if err != nil {
		log = d.logger.Error().Err(err)
	}
	log.Str("task_id", task.ID).
		Str("kind", string(task.Kind)).
		Str("scope", task.ScopeKey()).
		Int("locks", len(lease.tokens)).
		Dur("duration", time.Since(start)).
		Msg("rebuild task finished")

	return err
}

func (d *RebuildDispatcher) run(ctx context.Context, task *domain.RebuildTask) error {
	switch task.Kind {
	case domain.TaskTenantFull:
		return d.rebuildTenant(ctx, task.TenantID)

	case domain.TaskSecurityScope:
		return d.securities.RebuildScope(ctx, task.AccountID, task.InstrumentID)

	case domain.TaskInstrumentSplit:
		return d.securities.RebuildInstrument(ctx, task.InstrumentID)

	case domain.TaskCashAccount:
		if err := d.balances.RebuildScope(ctx, task.CashAccountID); err != nil {
			return err
		}
		return d.deposits.RebuildScope(ctx, task.CashAccountID)

	case domain.TaskSecurityTransaction, domain.TaskCashTransaction:
		return d.adjustForTransaction(ctx, *task.Change, task.Related)

	case domain.TaskRateCorrection:
		return d.deposits.RecomputeForRateCorrection(ctx, task.TenantID, task.Currencies, task.FromDate)
	}
	return fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidTask, task.Kind)
}

// rebuildTenant runs the three full builders in turn. A tenant currency
// change is handled the same way since every pair reference may move.
func (d *RebuildDispatcher) rebuildTenant(ctx context.Context, tenantID string) error {
	if err := d.securities.RebuildAll(ctx, tenantID); err != nil {
		return fmt.Errorf("rebuild securities: %w", err)
	}
	if err := d.balances.RebuildAll(ctx, tenantID); err != nil {
		return fmt.Errorf("rebuild cash balances: %w", err)
	}
	if err := d.deposits.RebuildAll(ctx, tenantID); err != nil {
		return fmt.Errorf("rebuild cash deposits: %w", err)
	}
	return nil
}

// adjustForTransaction applies a ledger mutation to every timeline it
// touches: the security scope for trades, the cash balance always and the
// deposits for cash flows.
func (d *RebuildDispatcher) adjustForTransaction(ctx context.Context, change domain.TransactionChange, related *domain.TransactionChange) error {
	if touches(change, related, domain.TransactionType.IsTrade) {
		if err := d.securities.AdjustForTransaction(ctx, change); err != nil {
			return fmt.Errorf("adjust securities: %w", err)
		}
	}
	if err := d.balances.AdjustForTransaction(ctx, change, related); err != nil {
		return fmt.Errorf("adjust cash balances: %w", err)
	}
	if touches(change, related, domain.TransactionType.IsCashFlow) {
		if err := d.deposits.AdjustForTransaction(ctx, change, related); err != nil {
			return fmt.Errorf("adjust cash deposits: %w", err)
		}
	}
	return nil
}

func touches(change domain.TransactionChange, related *domain.TransactionChange, match func(domain.TransactionType) bool) bool {
	changes := []domain.TransactionChange{change}
	if related != nil {
		changes = append(changes, *related)
	}
	for _, c := range changes {
		for _, tx := range []*domain.Transaction{c.Before, c.After} {
			if tx != nil && match(tx.Type) {
				return true
			}
		}
	}
	return false
}

func (d *RebuildDispatcher) lock(ctx context.Context, task *domain.RebuildTask) (*scopeLease, error) {
	if d.locker == nil {
		return acquireLease(ctx, nil, nil, nil, d.lockTTL, d.logger)
	}

	keys, guards, err := d.lockPlan(ctx, task)
	if err != nil {
		return nil, err
	}
	lease, err := acquireLease(ctx, d.locker, keys, guards, d.lockTTL, d.logger)
	if errors.Is(err, domain.ErrScopeLocked) && d.metrics != nil {
		d.metrics.ScopeLockContention.WithLabelValues(string(task.Kind)).Inc()
	}
	return lease, err
}

// lockPlan expands the task's own keys with the scopes a tenant or
// instrument wide task rebuilds, and adds the tenant guard of scope tasks
// that do not name their tenant.
func (d *RebuildDispatcher) lockPlan(ctx context.Context, task *domain.RebuildTask) (keys, guards []string, err error) {
	keys, guards = task.LockKeys(), task.GuardKeys()

	switch task.Kind {
	case domain.TaskTenantFull, domain.TaskRateCorrection:
		accounts, err := d.accounts.ListCashAccounts(ctx, task.TenantID)
		if err != nil {
			return nil, nil, fmt.Errorf("list cash accounts: %w", err)
		}
		for _, a := range accounts {
			keys = append(keys, a.ScopeKey())
		}
		if task.Kind == domain.TaskTenantFull {
			scopes, err := d.accounts.ListSecurityScopes(ctx, task.TenantID)
			if err != nil {
				return nil, nil, fmt.Errorf("list security scopes: %w", err)
			}
			for _, s := range scopes {
				keys = append(keys, s.String())
			}
		}

	case domain.TaskInstrumentSplit:
		scopes, err := d.accounts.ListSecurityScopesByInstrument(ctx, task.InstrumentID)
		if err != nil {
			return nil, nil, fmt.Errorf("list security scopes: %w", err)
		}
		for _, s := range scopes {
			keys = append(keys, s.String())
			guards = append(guards, domain.TenantScopeKey(s.TenantID))
		}

	case domain.TaskSecurityScope:
		if task.TenantID == "" {
			scope, err := d.accounts.GetSecurityScope(ctx, task.AccountID, task.InstrumentID)
			switch {
			case err == nil:
				guards = append(guards, domain.TenantScopeKey(scope.TenantID))
			case !errors.Is(err, domain.ErrScopeNotFound):
				return nil, nil, err
			}
		}

	case domain.TaskCashAccount:
		if task.TenantID == "" {
			account, err := d.accounts.GetCashAccount(ctx, task.CashAccountID)
			switch {
			case err == nil:
				guards = append(guards, domain.TenantScopeKey(account.TenantID))
			case !errors.Is(err, domain.ErrCashAccountNotFound):
				return nil, nil, err
			}
		}
	}
	return domain.SortKeys(keys), domain.SortKeys(guards), nil
}
