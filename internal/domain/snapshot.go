package domain

import (
	"github.com/shopspring/decimal"
)

// Period is the inclusive validity range of a snapshot. A nil ToDate means
// the snapshot is valid until the next change.
type Period struct {
	FromDate Date
	ToDate   *Date
}

// IsOpen reports whether the period has no end.
func (p Period) IsOpen() bool { return p.ToDate == nil }

// Covers reports whether d falls inside the period.
func (p Period) Covers(d Date) bool {
	if d.Before(p.FromDate) {
		return false
	}
	return p.ToDate == nil || !d.After(*p.ToDate)
}

// CloseBefore ends the period on the day before d.
func (p *Period) CloseBefore(d Date) {
	end := d.Add(-1)
	p.ToDate = &end
}

// Reopen clears the end date.
func (p *Period) Reopen() { p.ToDate = nil }

// SecurityHolding is the holding of one instrument in one security account
// over a period. Quantity is expressed in the units valid on FromDate;
// SplitPriceFactor converts it into today's units.
type SecurityHolding struct {
	Period
	Scope                   SecurityScopeKey
	Quantity                decimal.Decimal
	MarginRealHoldings      decimal.Decimal
	MarginAveragePrice      decimal.NullDecimal
	MarginOpenCostBasis     decimal.Decimal
	SplitPriceFactor        decimal.Decimal
	CurrencyPairPortfolioID *int64
	CurrencyPairTenantID    *int64
}

// AdjustedQuantity returns the quantity in today's units.
func (h *SecurityHolding) AdjustedQuantity() decimal.Decimal {
	if h.SplitPriceFactor.IsZero() {
		return h.Quantity
	}
	return h.Quantity.Mul(h.SplitPriceFactor)
}

// CashBalance is the running balance of a cash account over a period,
// with category sub-totals. All amounts are in the account currency.
type CashBalance struct {
	Period
	TenantID                string
	PortfolioID             string
	CashAccountID           string
	Balance                 decimal.Decimal
	Dividends               decimal.Decimal
	AccumulateReduce        decimal.Decimal
	WithdrawalDeposit       decimal.Decimal
	Interest                decimal.Decimal
	Fees                    decimal.Decimal
	CurrencyPairPortfolioID *int64
	CurrencyPairTenantID    *int64
}

// CashDeposit is the cumulative external cash flow of a cash account over a
// period, valued in the account, portfolio and tenant currency.
type CashDeposit struct {
	Period
	TenantID                string
	PortfolioID             string
	CashAccountID           string
	Deposit                 decimal.Decimal
	DepositPortfolio        decimal.Decimal
	DepositTenant           decimal.Decimal
	CurrencyPairPortfolioID *int64
	CurrencyPairTenantID    *int64
}
