package usecase

import (
	"github.com/shopspring/decimal"

	"github.com/iho/goholdings/internal/domain"
)

// cashTotals are the running sums of a cash account, rounded to the
// account currency after every day.
type cashTotals struct {
	balance           decimal.Decimal
	dividends         decimal.Decimal
	accumulateReduce  decimal.Decimal
	withdrawalDeposit decimal.Decimal
	interest          decimal.Decimal
	fees              decimal.Decimal
}

func (t cashTotals) add(tx *domain.Transaction) cashTotals {
	amount := tx.CashAmount
	t.balance = t.balance.Add(amount)
	switch tx.Type {
	case domain.TransactionDividend:
		t.dividends = t.dividends.Add(amount)
	case domain.TransactionAccumulate, domain.TransactionReduce:
		t.accumulateReduce = t.accumulateReduce.Add(amount)
	case domain.TransactionDeposit, domain.TransactionWithdrawal:
		t.withdrawalDeposit = t.withdrawalDeposit.Add(amount)
	case domain.TransactionInterest, domain.TransactionFinanceCost:
		t.interest = t.interest.Add(amount)
	case domain.TransactionFee:
		t.fees = t.fees.Add(amount)
	}
	return t
}

func (t cashTotals) round(currency string) cashTotals {
	return cashTotals{
		balance:           domain.RoundCash(t.balance, currency),
		dividends:         domain.RoundCash(t.dividends, currency),
		accumulateReduce:  domain.RoundCash(t.accumulateReduce, currency),
		withdrawalDeposit: domain.RoundCash(t.withdrawalDeposit, currency),
		interest:          domain.RoundCash(t.interest, currency),
		fees:              domain.RoundCash(t.fees, currency),
	}
}

type cashBalanceAccumulator struct {
	totals   cashTotals
	balances []domain.CashBalance
}

type cashBalanceFold struct {
	account domain.CashAccount
	pairs   pairRefs
}

func (f cashBalanceFold) seed(b *domain.CashBalance) cashBalanceAccumulator {
	seed := *b
	seed.Reopen()
	return cashBalanceAccumulator{
		totals: cashTotals{
			balance:           b.Balance,
			dividends:         b.Dividends,
			accumulateReduce:  b.AccumulateReduce,
			withdrawalDeposit: b.WithdrawalDeposit,
			interest:          b.Interest,
			fees:              b.Fees,
		},
		balances: []domain.CashBalance{seed},
	}
}

// run folds transactions grouped by day. One snapshot is emitted per day
// with at least one transaction.
func (f cashBalanceFold) run(acc cashBalanceAccumulator, txs []*domain.Transaction) cashBalanceAccumulator {
	for i := 0; i < len(txs); {
		day := txs[i].Date()
		for ; i < len(txs) && txs[i].Date() == day; i++ {
			acc.totals = acc.totals.add(txs[i])
		}
		acc.totals = acc.totals.round(f.account.Currency)
		acc.balances = emitCashBalance(acc.balances, f.snapshot(acc.totals, day))
	}
	return acc
}

func (f cashBalanceFold) snapshot(t cashTotals, day domain.Date) domain.CashBalance {
	return domain.CashBalance{
		Period:                  domain.Period{FromDate: day},
		TenantID:                f.account.TenantID,
		PortfolioID:             f.account.PortfolioID,
		CashAccountID:           f.account.ID,
		Balance:                 t.balance,
		Dividends:               t.dividends,
		AccumulateReduce:        t.accumulateReduce,
		WithdrawalDeposit:       t.withdrawalDeposit,
		Interest:                t.interest,
		Fees:                    t.fees,
		CurrencyPairPortfolioID: f.pairs.portfolio,
		CurrencyPairTenantID:    f.pairs.tenant,
	}
}

func emitCashBalance(balances []domain.CashBalance, b domain.CashBalance) []domain.CashBalance {
	n := len(balances)
	if n == 0 {
		return append(balances, b)
	}
	last := &balances[n-1]
	if last.FromDate == b.FromDate {
		balances[n-1] = b
		return balances
	}
	last.CloseBefore(b.FromDate)
	return append(balances, b)
}
