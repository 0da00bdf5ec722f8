package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/iho/goholdings/internal/domain"
	"github.com/iho/goholdings/internal/usecase"
	"github.com/iho/goholdings/internal/usecase/mocks"
)

const (
	tenantID    = "tenant-1"
	portfolioID = "pf-1"
	securityAcc = "sa-1"
	cashAcc     = "ca-1"
	instrument  = "ACME"
)

// engine wires the three builders over in-memory repositories.
type engine struct {
	accounts   *mocks.MemoryAccountRepository
	txs        *mocks.MemoryTransactionRepository
	splits     *mocks.MemorySplitRepository
	currencies *mocks.MemoryCurrencyRepository
	holdings   *mocks.MemorySecurityHoldingRepository
	balances   *mocks.MemoryCashBalanceRepository
	deposits   *mocks.MemoryCashDepositRepository

	security *usecase.SecurityHoldingUseCase
	cash     *usecase.CashBalanceUseCase
	deposit  *usecase.CashDepositUseCase
}

func newEngine(t *testing.T) *engine {
	t.Helper()

	e := &engine{
		accounts:   mocks.NewMemoryAccountRepository(),
		txs:        mocks.NewMemoryTransactionRepository(),
		splits:     mocks.NewMemorySplitRepository(),
		currencies: mocks.NewMemoryCurrencyRepository(),
		holdings:   mocks.NewMemorySecurityHoldingRepository(),
		balances:   mocks.NewMemoryCashBalanceRepository(),
		deposits:   mocks.NewMemoryCashDepositRepository(),
	}
	e.txs.UseAccounts(e.accounts)
	fx := usecase.NewCurrencyService(e.currencies)
	splitService := usecase.NewSplitService(e.splits, 2)
	logger := zerolog.Nop()

	e.security = usecase.NewSecurityHoldingUseCase(e.accounts, e.txs, e.holdings, splitService, fx, 2, nil, logger)
	e.cash = usecase.NewCashBalanceUseCase(e.accounts, e.txs, e.balances, fx, 2, nil, logger)
	e.deposit = usecase.NewCashDepositUseCase(e.accounts, e.txs, e.deposits, fx, 2, nil, logger)
	return e
}

func (e *engine) addScope(margin bool, valuePerPoint int64) domain.SecurityScope {
	scope := domain.SecurityScope{
		SecurityScopeKey: domain.SecurityScopeKey{
			TenantID:     tenantID,
			PortfolioID:  portfolioID,
			AccountID:    securityAcc,
			InstrumentID: instrument,
		},
		InstrumentCurrency: "USD",
		PortfolioCurrency:  "EUR",
		TenantCurrency:     "EUR",
		Margin:             margin,
		ValuePerPoint:      decimal.NewFromInt(valuePerPoint),
	}
	e.accounts.AddSecurityScope(scope)
	return scope
}

func (e *engine) addCashAccount(currency, portfolioCcy, tenantCcy string) domain.CashAccount {
	account := domain.CashAccount{
		ID:                cashAcc,
		TenantID:          tenantID,
		PortfolioID:       portfolioID,
		Currency:          currency,
		PortfolioCurrency: portfolioCcy,
		TenantCurrency:    tenantCcy,
	}
	e.accounts.AddCashAccount(account)
	return account
}

func (e *engine) holdingsOf(t *testing.T, scope domain.SecurityScope) []domain.SecurityHolding {
	t.Helper()
	hs, err := e.holdings.ListByScope(context.Background(), scope.SecurityScopeKey)
	require.NoError(t, err)
	return hs
}

func (e *engine) balancesOf(t *testing.T) []domain.CashBalance {
	t.Helper()
	bs, err := e.balances.ListByAccount(context.Background(), cashAcc)
	require.NoError(t, err)
	return bs
}

func (e *engine) depositsOf(t *testing.T) []domain.CashDeposit {
	t.Helper()
	ds, err := e.deposits.ListByAccount(context.Background(), cashAcc)
	require.NoError(t, err)
	return ds
}

func day(s string) domain.Date { return domain.MustParseDate(s) }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func at(date string, hour int) time.Time {
	return day(date).Time().Add(time.Duration(hour) * time.Hour)
}

func trade(id, date string, typ domain.TransactionType, units, price string) *domain.Transaction {
	instr := instrument
	cash := dec(units).Mul(dec(price))
	if typ == domain.TransactionAccumulate {
		cash = cash.Neg()
	}
	return &domain.Transaction{
		Time:              at(date, 10),
		ID:                id,
		TenantID:          tenantID,
		PortfolioID:       portfolioID,
		CashAccountID:     cashAcc,
		SecurityAccountID: securityAcc,
		InstrumentID:      &instr,
		Type:              typ,
		Currency:          "USD",
		CashAmount:        cash,
		Units:             dec(units),
		Quotation:         dec(price),
	}
}

func closeTrade(id, date, units, price, opens string) *domain.Transaction {
	tx := trade(id, date, domain.TransactionReduce, units, price)
	tx.ConnectedID = &opens
	return tx
}

func cashTx(id, date string, typ domain.TransactionType, currency, amount string) *domain.Transaction {
	return &domain.Transaction{
		Time:          at(date, 12),
		ID:            id,
		TenantID:      tenantID,
		PortfolioID:   portfolioID,
		CashAccountID: cashAcc,
		Type:          typ,
		Currency:      currency,
		CashAmount:    dec(amount),
	}
}

func split(id, date string, from, to int64) domain.Split {
	return domain.Split{
		ID:           id,
		InstrumentID: instrument,
		SplitDate:    day(date),
		FromFactor:   decimal.NewFromInt(from),
		ToFactor:     decimal.NewFromInt(to),
	}
}

// requireDecimal compares decimals by value so that 1.50 equals 1.5.
func requireDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	require.True(t, dec(want).Equal(got), append([]any{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

// normalizeHoldings makes holdings comparable with require.Equal regardless
// of decimal exponent or pointer identity.
func normalizeHoldings(hs []domain.SecurityHolding) []string {
	out := make([]string, len(hs))
	for i, h := range hs {
		avg := "nil"
		if h.MarginAveragePrice.Valid {
			avg = h.MarginAveragePrice.Decimal.String()
		}
		out[i] = periodString(h.Period) +
			" q=" + h.Quantity.String() +
			" real=" + h.MarginRealHoldings.String() +
			" avg=" + avg +
			" cost=" + h.MarginOpenCostBasis.String() +
			" f=" + h.SplitPriceFactor.String()
	}
	return out
}

func normalizeBalances(bs []domain.CashBalance) []string {
	out := make([]string, len(bs))
	for i, b := range bs {
		out[i] = periodString(b.Period) +
			" bal=" + b.Balance.String() +
			" div=" + b.Dividends.String() +
			" ar=" + b.AccumulateReduce.String() +
			" wd=" + b.WithdrawalDeposit.String() +
			" int=" + b.Interest.String() +
			" fee=" + b.Fees.String()
	}
	return out
}

func normalizeDeposits(ds []domain.CashDeposit) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = periodString(d.Period) +
			" dep=" + d.Deposit.String() +
			" pf=" + d.DepositPortfolio.String() +
			" tn=" + d.DepositTenant.String()
	}
	return out
}

func periodString(p domain.Period) string {
	to := "open"
	if p.ToDate != nil {
		to = p.ToDate.String()
	}
	return p.FromDate.String() + ".." + to
}
