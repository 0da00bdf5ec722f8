package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/goholdings/internal/domain"
	"github.com/iho/goholdings/internal/usecase"
	"github.com/iho/goholdings/internal/usecase/mocks"
)

func newDispatcher(e *engine, locker usecase.ScopeLocker) *usecase.RebuildDispatcher {
	return usecase.NewRebuildDispatcher(e.accounts, e.security, e.cash, e.deposit, locker, time.Minute, nil, zerolog.Nop())
}

func TestDispatcher_TenantFull(t *testing.T) {
	e := newEngine(t)
	scope := e.addScope(false, 0)
	e.addCashAccount("EUR", "EUR", "EUR")
	e.txs.Put(trade("t1", "2024-01-02", domain.TransactionAccumulate, "10", "10"))
	e.txs.Put(cashTx("d1", "2024-01-01", domain.TransactionDeposit, "EUR", "500"))
	locker := mocks.NewMemoryScopeLocker()

	err := newDispatcher(e, locker).Dispatch(context.Background(), &domain.RebuildTask{
		ID:       "task-1",
		Kind:     domain.TaskTenantFull,
		TenantID: tenantID,
	})
	require.NoError(t, err)

	assert.Len(t, e.holdingsOf(t, scope), 1)
	assert.Len(t, e.balancesOf(t), 2)
	assert.Len(t, e.depositsOf(t), 1)
	for _, key := range []string{domain.TenantScopeKey(tenantID), scope.String(), domain.CashScopeKey(cashAcc)} {
		assert.False(t, locker.Held(key), "lock %s must be released", key)
	}
}

func TestDispatcher_TradeTouchesSecurityAndCash(t *testing.T) {
	e := newEngine(t)
	scope := e.addScope(false, 0)
	e.addCashAccount("USD", "USD", "USD")
	tx := trade("t1", "2024-01-02", domain.TransactionAccumulate, "10", "10")
	e.txs.Put(tx)

	err := newDispatcher(e, nil).Dispatch(context.Background(), &domain.RebuildTask{
		ID:     "task-1",
		Kind:   domain.TaskSecurityTransaction,
		Change: &domain.TransactionChange{After: tx},
	})
	require.NoError(t, err)

	require.Len(t, e.holdingsOf(t, scope), 1)
	bs := e.balancesOf(t)
	require.Len(t, bs, 1)
	requireDecimal(t, "-100", bs[0].AccumulateReduce)
	assert.Empty(t, e.depositsOf(t))
}

func TestDispatcher_CashFlowTouchesDeposits(t *testing.T) {
	e := newEngine(t)
	e.addCashAccount("EUR", "EUR", "EUR")
	tx := cashTx("d1", "2024-01-02", domain.TransactionDeposit, "EUR", "300")
	e.txs.Put(tx)

	err := newDispatcher(e, nil).Dispatch(context.Background(), &domain.RebuildTask{
		ID:     "task-1",
		Kind:   domain.TaskCashTransaction,
		Change: &domain.TransactionChange{After: tx},
	})
	require.NoError(t, err)

	assert.Len(t, e.balancesOf(t), 1)
	require.Len(t, e.depositsOf(t), 1)
	requireDecimal(t, "300", e.depositsOf(t)[0].Deposit)
}

func TestDispatcher_ScopeLocked(t *testing.T) {
	ctrl := gomock.NewController(t)
	locker := mocks.NewMockScopeLocker(ctrl)
	locker.EXPECT().TryLock(gomock.Any(), "cash:ca-1", time.Minute).Return("", false, nil)

	e := newEngine(t)
	err := newDispatcher(e, locker).Dispatch(context.Background(), &domain.RebuildTask{
		Kind:          domain.TaskCashAccount,
		CashAccountID: cashAcc,
	})
	assert.True(t, errors.Is(err, domain.ErrScopeLocked))
}

func TestDispatcher_ReleasesLockOnFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	locker := mocks.NewMockScopeLocker(ctrl)
	gomock.InOrder(
		locker.EXPECT().TryLock(gomock.Any(), "cash:missing", time.Minute).Return("tok", true, nil),
		locker.EXPECT().Unlock(gomock.Any(), "cash:missing", "tok").Return(nil),
	)

	e := newEngine(t)
	err := newDispatcher(e, locker).Dispatch(context.Background(), &domain.RebuildTask{
		Kind:          domain.TaskCashAccount,
		CashAccountID: "missing",
	})
	assert.True(t, errors.Is(err, domain.ErrCashAccountNotFound))
}

func TestDispatcher_LockerError(t *testing.T) {
	ctrl := gomock.NewController(t)
	locker := mocks.NewMockScopeLocker(ctrl)
	boom := errors.New("redis down")
	locker.EXPECT().TryLock(gomock.Any(), gomock.Any(), gomock.Any()).Return("", false, boom)

	e := newEngine(t)
	err := newDispatcher(e, locker).Dispatch(context.Background(), &domain.RebuildTask{
		Kind:         domain.TaskInstrumentSplit,
		InstrumentID: instrument,
	})
	assert.ErrorIs(t, err, boom)
}

func TestDispatcher_InvalidTask(t *testing.T) {
	ctrl := gomock.NewController(t)
	// No expectations: an invalid task must not take a lock.
	locker := mocks.NewMockScopeLocker(ctrl)

	e := newEngine(t)
	err := newDispatcher(e, locker).Dispatch(context.Background(), &domain.RebuildTask{Kind: domain.TaskSecurityScope})
	assert.ErrorIs(t, err, domain.ErrInvalidTask)
}

func TestDispatcher_TradeWaitsForItsCashAccount(t *testing.T) {
	e := newEngine(t)
	scope := e.addScope(false, 0)
	e.addCashAccount("USD", "USD", "USD")
	tx := trade("t1", "2024-01-02", domain.TransactionAccumulate, "10", "10")
	e.txs.Put(tx)
	locker := mocks.NewMemoryScopeLocker()
	locker.Hold(domain.CashScopeKey(cashAcc))

	err := newDispatcher(e, locker).Dispatch(context.Background(), &domain.RebuildTask{
		Kind:   domain.TaskSecurityTransaction,
		Change: &domain.TransactionChange{After: tx},
	})
	require.ErrorIs(t, err, domain.ErrScopeLocked)

	assert.Empty(t, e.holdingsOf(t, scope))
	assert.Empty(t, e.balancesOf(t))
	assert.False(t, locker.Held(scope.String()), "keys taken before the miss must be released")
}

func TestDispatcher_TenantFullWaitsForScopes(t *testing.T) {
	e := newEngine(t)
	scope := e.addScope(false, 0)
	e.addCashAccount("EUR", "EUR", "EUR")
	e.txs.Put(trade("t1", "2024-01-02", domain.TransactionAccumulate, "10", "10"))
	locker := mocks.NewMemoryScopeLocker()
	locker.Hold(domain.CashScopeKey(cashAcc))

	err := newDispatcher(e, locker).Dispatch(context.Background(), &domain.RebuildTask{
		Kind:     domain.TaskTenantFull,
		TenantID: tenantID,
	})
	require.ErrorIs(t, err, domain.ErrScopeLocked)

	assert.Empty(t, e.holdingsOf(t, scope))
	assert.Empty(t, e.balancesOf(t))
	assert.False(t, locker.Held(domain.TenantScopeKey(tenantID)))
	assert.False(t, locker.Held(scope.String()))
}

func TestDispatcher_ScopeTaskYieldsToTenantWork(t *testing.T) {
	e := newEngine(t)
	e.addCashAccount("EUR", "EUR", "EUR")
	tx := cashTx("d1", "2024-01-02", domain.TransactionDeposit, "EUR", "300")
	e.txs.Put(tx)
	locker := mocks.NewMemoryScopeLocker()
	locker.Hold(domain.TenantScopeKey(tenantID))

	err := newDispatcher(e, locker).Dispatch(context.Background(), &domain.RebuildTask{
		Kind:   domain.TaskCashTransaction,
		Change: &domain.TransactionChange{After: tx},
	})
	require.ErrorIs(t, err, domain.ErrScopeLocked)
	assert.Empty(t, e.depositsOf(t))
	assert.False(t, locker.Held(domain.CashScopeKey(cashAcc)))

	err = newDispatcher(e, locker).Dispatch(context.Background(), &domain.RebuildTask{
		Kind:          domain.TaskCashAccount,
		CashAccountID: cashAcc,
	})
	require.ErrorIs(t, err, domain.ErrScopeLocked, "tenant is looked up when the task does not carry it")
}

func TestDispatcher_TransferLocksBothLegs(t *testing.T) {
	e := newEngine(t)
	e.addCashAccount("EUR", "EUR", "EUR")
	e.accounts.AddCashAccount(domain.CashAccount{
		ID: "ca-2", TenantID: tenantID, PortfolioID: portfolioID,
		Currency: "EUR", PortfolioCurrency: "EUR", TenantCurrency: "EUR",
	})
	out := cashTx("w1", "2024-01-02", domain.TransactionWithdrawal, "EUR", "-100")
	in := cashTx("d1", "2024-01-02", domain.TransactionDeposit, "EUR", "100")
	in.CashAccountID = "ca-2"
	e.txs.Put(out)
	e.txs.Put(in)
	locker := mocks.NewMemoryScopeLocker()
	locker.Hold(domain.CashScopeKey("ca-2"))

	err := newDispatcher(e, locker).Dispatch(context.Background(), &domain.RebuildTask{
		Kind:    domain.TaskCashTransaction,
		Change:  &domain.TransactionChange{After: out},
		Related: &domain.TransactionChange{After: in},
	})
	require.ErrorIs(t, err, domain.ErrScopeLocked)
	assert.Empty(t, e.balancesOf(t))
	assert.False(t, locker.Held(domain.CashScopeKey(cashAcc)))
}

func TestDispatcher_EditLocksPreviousScope(t *testing.T) {
	e := newEngine(t)
	scope := e.addScope(false, 0)
	e.addCashAccount("USD", "USD", "USD")
	before := trade("t1", "2024-01-02", domain.TransactionAccumulate, "10", "10")
	after := trade("t1", "2024-01-02", domain.TransactionAccumulate, "10", "10")
	other := "OTHER"
	after.InstrumentID = &other
	locker := mocks.NewMemoryScopeLocker()
	locker.Hold(scope.String())

	err := newDispatcher(e, locker).Dispatch(context.Background(), &domain.RebuildTask{
		Kind:   domain.TaskSecurityTransaction,
		Change: &domain.TransactionChange{Before: before, After: after},
	})
	require.ErrorIs(t, err, domain.ErrScopeLocked)
	assert.Empty(t, e.balancesOf(t))
}

func TestDispatcher_SplitWaitsForSecurityScopes(t *testing.T) {
	e := newEngine(t)
	scope := e.addScope(false, 0)
	locker := mocks.NewMemoryScopeLocker()
	locker.Hold(scope.String())

	err := newDispatcher(e, locker).Dispatch(context.Background(), &domain.RebuildTask{
		Kind:         domain.TaskInstrumentSplit,
		InstrumentID: instrument,
	})
	require.ErrorIs(t, err, domain.ErrScopeLocked)
	assert.False(t, locker.Held(domain.InstrumentScopeKey(instrument)))
}

func TestDispatcher_LostLeaseStopsTask(t *testing.T) {
	e := newEngine(t)
	scope := e.addScope(false, 0)
	e.txs.Put(trade("t1", "2024-01-02", domain.TransactionAccumulate, "10", "10"))
	locker := mocks.NewMemoryScopeLocker()
	e.txs.ListSecurityTransactionsFunc = func(ctx context.Context, key domain.SecurityScopeKey, from domain.Date) ([]*domain.Transaction, error) {
		locker.Expire(scope.String())
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(2 * time.Second):
			return nil, errors.New("task kept running without its lease")
		}
	}
	dispatcher := usecase.NewRebuildDispatcher(e.accounts, e.security, e.cash, e.deposit, locker, 30*time.Millisecond, nil, zerolog.Nop())

	err := dispatcher.Dispatch(context.Background(), &domain.RebuildTask{
		Kind:         domain.TaskSecurityScope,
		AccountID:    securityAcc,
		InstrumentID: instrument,
	})
	require.ErrorIs(t, err, domain.ErrScopeLocked)
	assert.Empty(t, e.holdingsOf(t, scope))
}
