package usecase

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/iho/goholdings/internal/domain"
)

// holdingEvent is either a trade or a split of the scope's instrument.
type holdingEvent struct {
	date  domain.Date
	split *domain.Split
	tx    *domain.Transaction
}

// mergeHoldingEvents interleaves trades and splits by date. A split dated D
// applies before any trade dated D, so trades on a split day are already in
// post-split units. Trades keep their time and id order.
func mergeHoldingEvents(txs []*domain.Transaction, splits []domain.Split) []holdingEvent {
	events := make([]holdingEvent, 0, len(txs)+len(splits))
	for i := range splits {
		events = append(events, holdingEvent{date: splits[i].SplitDate, split: &splits[i]})
	}
	for _, tx := range txs {
		events = append(events, holdingEvent{date: tx.Date(), tx: tx})
	}
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if a.date != b.date {
			return a.date.Before(b.date)
		}
		return a.split != nil && b.split == nil
	})
	return events
}

// securityState is the running position of one scope.
type securityState struct {
	units         decimal.Decimal
	realHoldings  decimal.Decimal
	openCostBasis decimal.Decimal
	averagePrice  decimal.NullDecimal
}

// securityAccumulator is threaded through the fold. holdings is the
// timeline built so far; only its last element may still change.
type securityAccumulator struct {
	state    securityState
	holdings []domain.SecurityHolding
}

// securityFold holds the read-only inputs of one scope pass.
type securityFold struct {
	scope  domain.SecurityScope
	splits domain.SplitTable
	// opens are margin opening trades by id, for closes that reference them.
	opens map[string]*domain.Transaction
	pairs pairRefs
}

// seedSecurity restarts a fold from a persisted holding. The seed is
// reopened and carried as the first element of the new timeline.
func (f securityFold) seed(h *domain.SecurityHolding) securityAccumulator {
	seed := *h
	seed.Reopen()
	seed.SplitPriceFactor = f.splits.FactorAfter(seed.FromDate)
	return securityAccumulator{
		state: securityState{
			units:         h.Quantity,
			realHoldings:  h.MarginRealHoldings,
			openCostBasis: h.MarginOpenCostBasis,
			averagePrice:  h.MarginAveragePrice,
		},
		holdings: []domain.SecurityHolding{seed},
	}
}

func (f securityFold) run(acc securityAccumulator, events []holdingEvent) securityAccumulator {
	for _, ev := range events {
		acc = f.apply(acc, ev)
	}
	return acc
}

func (f securityFold) apply(acc securityAccumulator, ev holdingEvent) securityAccumulator {
	if ev.split != nil {
		acc.state = f.applySplit(acc.state, ev.split)
		// A split of a flat position leaves nothing to report.
		if acc.state.units.Round(UnitsPrecision).IsZero() {
			return acc
		}
		acc.holdings = emitHolding(acc.holdings, f.snapshot(acc.state, ev.date))
		return acc
	}

	acc.state = f.applyTrade(acc.state, ev.tx)
	if acc.state.units.Round(UnitsPrecision).IsZero() {
		acc.state = closedState()
		acc.holdings = endHolding(acc.holdings, ev.date)
		return acc
	}
	acc.holdings = emitHolding(acc.holdings, f.snapshot(acc.state, ev.date))
	return acc
}

func (f securityFold) applySplit(st securityState, s *domain.Split) securityState {
	ratio := s.Ratio()
	st.units = st.units.Mul(ratio)
	st.realHoldings = st.realHoldings.Mul(ratio)
	if f.scope.Margin && !st.units.IsZero() {
		st.averagePrice = decimal.NewNullDecimal(st.openCostBasis.Div(st.units))
	}
	return st
}

func (f securityFold) applyTrade(st securityState, tx *domain.Transaction) securityState {
	signed := tx.SignedUnits()
	notional := signed.Mul(f.scope.Multiplier())
	st.units = st.units.Add(notional)
	if !f.scope.Margin {
		return st
	}

	st.realHoldings = st.realHoldings.Add(signed)
	st.openCostBasis = st.openCostBasis.Add(notional.Mul(f.costPrice(st, tx)))
	if st.units.IsZero() {
		st.averagePrice = decimal.NullDecimal{}
		st.openCostBasis = decimal.Zero
	} else {
		st.averagePrice = decimal.NewNullDecimal(st.openCostBasis.Div(st.units))
	}
	return st
}

// costPrice is the price at which a trade moves the open cost basis. Opens
// use their own quotation. Closes use the quotation of the trade they
// close, expressed in the units valid on the close date.
func (f securityFold) costPrice(st securityState, tx *domain.Transaction) decimal.Decimal {
	if !tx.IsMarginClose() {
		return tx.Quotation
	}
	open, ok := f.opens[*tx.ConnectedID]
	if !ok {
		// The opening trade is gone; release cost at the running average.
		if st.averagePrice.Valid {
			return st.averagePrice.Decimal
		}
		return tx.Quotation
	}
	openFactor := f.splits.FactorAfter(open.Date())
	if openFactor.IsZero() {
		return open.Quotation
	}
	return open.Quotation.Mul(f.splits.FactorAfter(tx.Date())).Div(openFactor)
}

func (f securityFold) snapshot(st securityState, date domain.Date) domain.SecurityHolding {
	h := domain.SecurityHolding{
		Period:                  domain.Period{FromDate: date},
		Scope:                   f.scope.SecurityScopeKey,
		Quantity:                st.units,
		SplitPriceFactor:        f.splits.FactorAfter(date),
		CurrencyPairPortfolioID: f.pairs.portfolio,
		CurrencyPairTenantID:    f.pairs.tenant,
	}
	if f.scope.Margin {
		h.MarginRealHoldings = st.realHoldings
		h.MarginAveragePrice = st.averagePrice
		h.MarginOpenCostBasis = st.openCostBasis
	}
	return h
}

func closedState() securityState {
	return securityState{}
}

// emitHolding appends h, closing the previous open holding the day before.
// A holding already started on the same day is overwritten.
func emitHolding(holdings []domain.SecurityHolding, h domain.SecurityHolding) []domain.SecurityHolding {
	n := len(holdings)
	if n == 0 {
		return append(holdings, h)
	}
	last := &holdings[n-1]
	if last.FromDate == h.FromDate {
		holdings[n-1] = h
		return holdings
	}
	if last.IsOpen() {
		last.CloseBefore(h.FromDate)
	}
	return append(holdings, h)
}

// endHolding ends the position on date. A holding started that same day
// never became visible and is dropped.
func endHolding(holdings []domain.SecurityHolding, date domain.Date) []domain.SecurityHolding {
	n := len(holdings)
	if n == 0 {
		return holdings
	}
	last := &holdings[n-1]
	if last.FromDate == date {
		return holdings[:n-1]
	}
	if last.IsOpen() {
		last.CloseBefore(date)
	}
	return holdings
}
