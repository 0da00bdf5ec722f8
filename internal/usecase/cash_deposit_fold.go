package usecase

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iho/goholdings/internal/domain"
)

type depositTotals struct {
	deposit   decimal.Decimal
	portfolio decimal.Decimal
	tenant    decimal.Decimal
}

type cashDepositAccumulator struct {
	totals   depositTotals
	deposits []domain.CashDeposit
	// fallbacks counts conversions that used a rate from another day.
	fallbacks int
}

type cashDepositFold struct {
	account domain.CashAccount
	rates   *domain.RateTable
	// legs are the connected legs of transfers, by id.
	legs  map[string]*domain.Transaction
	pairs pairRefs
	// transferRates caches the agreed rate of a transfer leg into the
	// currency of its connected leg.
	transferRates map[string]decimal.Decimal
}

func newCashDepositFold(account domain.CashAccount, rates *domain.RateTable, legs map[string]*domain.Transaction) cashDepositFold {
	if rates == nil {
		rates = domain.NewRateTable(nil)
	}
	return cashDepositFold{
		account:       account,
		rates:         rates,
		legs:          legs,
		transferRates: make(map[string]decimal.Decimal),
	}
}

func (f cashDepositFold) seed(d *domain.CashDeposit) cashDepositAccumulator {
	seed := *d
	seed.Reopen()
	return cashDepositAccumulator{
		totals: depositTotals{
			deposit:   d.Deposit,
			portfolio: d.DepositPortfolio,
			tenant:    d.DepositTenant,
		},
		deposits: []domain.CashDeposit{seed},
	}
}

func (f cashDepositFold) run(acc cashDepositAccumulator, txs []*domain.Transaction) (cashDepositAccumulator, error) {
	for i := 0; i < len(txs); {
		day := txs[i].Date()
		for ; i < len(txs) && txs[i].Date() == day; i++ {
			var err error
			if acc, err = f.apply(acc, txs[i]); err != nil {
				return acc, err
			}
		}
		acc.deposits = emitCashDeposit(acc.deposits, f.snapshot(acc.totals, day))
	}
	return acc, nil
}

func (f cashDepositFold) apply(acc cashDepositAccumulator, tx *domain.Transaction) (cashDepositAccumulator, error) {
	amount := domain.RoundCash(tx.CashAmount, f.account.Currency)
	acc.totals.deposit = acc.totals.deposit.Add(amount)

	portfolio, exact, err := f.convert(tx, f.account.PortfolioCurrency)
	if err != nil {
		return acc, err
	}
	if !exact {
		acc.fallbacks++
	}
	tenant, exact, err := f.convert(tx, f.account.TenantCurrency)
	if err != nil {
		return acc, err
	}
	if !exact {
		acc.fallbacks++
	}

	acc.totals.portfolio = acc.totals.portfolio.Add(portfolio)
	acc.totals.tenant = acc.totals.tenant.Add(tenant)
	return acc, nil
}

// convert values tx in the target currency, rounded to its precision. A
// transfer whose other leg is already in the target currency uses the
// transfer's own rate. Everything else uses the historical rate.
func (f cashDepositFold) convert(tx *domain.Transaction, target string) (decimal.Decimal, bool, error) {
	if target == "" || tx.Currency == target {
		return domain.RoundCash(tx.CashAmount, tx.Currency), true, nil
	}
	if rate, ok := f.transferRate(tx, target); ok {
		return domain.RoundCash(tx.CashAmount.Mul(rate), target), true, nil
	}

	res, err := f.rates.RateOn(tx.Currency, target, tx.Date())
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("convert %s %s to %s on %s: %w", tx.ID, tx.Currency, target, tx.Date(), err)
	}
	return domain.RoundCash(tx.CashAmount.Mul(res.Rate), target), res.Exact, nil
}

func (f cashDepositFold) transferRate(tx *domain.Transaction, target string) (decimal.Decimal, bool) {
	if tx.ConnectedID == nil {
		return decimal.Zero, false
	}
	other, ok := f.legs[*tx.ConnectedID]
	if !ok || other.Currency != target {
		return decimal.Zero, false
	}
	if rate, ok := f.transferRates[tx.ID]; ok {
		return rate, true
	}

	var rate decimal.Decimal
	switch {
	case tx.ExchangeRate != nil && tx.ExchangeRate.IsPositive():
		rate = *tx.ExchangeRate
	case other.ExchangeRate != nil && other.ExchangeRate.IsPositive():
		rate = decimal.NewFromInt(1).Div(*other.ExchangeRate)
	case !tx.CashAmount.IsZero() && !other.CashAmount.IsZero():
		rate = other.CashAmount.Abs().Div(tx.CashAmount.Abs())
	default:
		return decimal.Zero, false
	}

	f.transferRates[tx.ID] = rate
	f.transferRates[other.ID] = decimal.NewFromInt(1).Div(rate)
	return rate, true
}

func (f cashDepositFold) snapshot(t depositTotals, day domain.Date) domain.CashDeposit {
	return domain.CashDeposit{
		Period:                  domain.Period{FromDate: day},
		TenantID:                f.account.TenantID,
		PortfolioID:             f.account.PortfolioID,
		CashAccountID:           f.account.ID,
		Deposit:                 t.deposit,
		DepositPortfolio:        t.portfolio,
		DepositTenant:           t.tenant,
		CurrencyPairPortfolioID: f.pairs.portfolio,
		CurrencyPairTenantID:    f.pairs.tenant,
	}
}

func emitCashDeposit(deposits []domain.CashDeposit, d domain.CashDeposit) []domain.CashDeposit {
	n := len(deposits)
	if n == 0 {
		return append(deposits, d)
	}
	last := &deposits[n-1]
	if last.FromDate == d.FromDate {
		deposits[n-1] = d
		return deposits
	}
	last.CloseBefore(d.FromDate)
	return append(deposits, d)
}
