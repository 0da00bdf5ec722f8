package domain

import (
	"sort"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCashPrecision is used for currencies unknown to ISO 4217 tables.
const DefaultCashPrecision = 2

// CurrencyPrecision returns the number of minor-unit digits of a currency.
func CurrencyPrecision(code string) int32 {
	c := money.GetCurrency(strings.ToUpper(code))
	if c == nil {
		return DefaultCashPrecision
	}
	return int32(c.Fraction)
}

// RoundCash rounds an amount to the precision of its currency.
func RoundCash(amount decimal.Decimal, currency string) decimal.Decimal {
	return amount.Round(CurrencyPrecision(currency))
}

// CurrencyPair identifies a from/to conversion. Rates are quoted as units
// of To per unit of From.
type CurrencyPair struct {
	ID   int64
	From string
	To   string
}

// PairKey is the lookup key of a pair.
type PairKey struct {
	From string
	To   string
}

func (k PairKey) String() string { return k.From + "/" + k.To }

// Inverse swaps from and to.
func (k PairKey) Inverse() PairKey { return PairKey{From: k.To, To: k.From} }

// Rate is the closing rate of a pair on one day.
type Rate struct {
	From string
	To   string
	Date Date
	Rate decimal.Decimal
}

type ratePoint struct {
	date Date
	rate decimal.Decimal
}

// RateTable holds historical rates for a set of pairs. It is loaded once
// per run and shared read-only between scope passes.
type RateTable struct {
	series map[PairKey][]ratePoint
}

// NewRateTable indexes rates by pair and date.
func NewRateTable(rates []Rate) *RateTable {
	t := &RateTable{series: make(map[PairKey][]ratePoint)}
	for _, r := range rates {
		if !r.Rate.IsPositive() {
			continue
		}
		key := PairKey{From: r.From, To: r.To}
		t.series[key] = append(t.series[key], ratePoint{date: r.Date, rate: r.Rate})
	}
	for key := range t.series {
		s := t.series[key]
		sort.SliceStable(s, func(i, j int) bool { return s[i].date.Before(s[j].date) })
	}
	return t
}

// RateResult carries a looked-up rate and whether it was a fallback.
type RateResult struct {
	Rate    decimal.Decimal
	Date    Date
	Exact   bool
	Inverse bool
}

// RateOn returns the rate converting from into to on date. When no rate
// exists for the day the nearest day is used, earlier winning a tie. If the
// pair is only quoted the other way round the inverse rate is returned.
func (t *RateTable) RateOn(from, to string, date Date) (RateResult, error) {
	if from == to {
		return RateResult{Rate: decimal.NewFromInt(1), Date: date, Exact: true}, nil
	}
	key := PairKey{From: from, To: to}
	if s := t.series[key]; len(s) > 0 {
		p := nearest(s, date)
		return RateResult{Rate: p.rate, Date: p.date, Exact: p.date == date}, nil
	}
	if s := t.series[key.Inverse()]; len(s) > 0 {
		p := nearest(s, date)
		return RateResult{
			Rate:    decimal.NewFromInt(1).Div(p.rate),
			Date:    p.date,
			Exact:   p.date == date,
			Inverse: true,
		}, nil
	}
	return RateResult{}, ErrRateUnavailable
}

// QuotedBefore returns the latest quote strictly before date in the series
// RateOn consults for the pair.
func (t *RateTable) QuotedBefore(from, to string, date Date) (Date, bool) {
	key := PairKey{From: from, To: to}
	s := t.series[key]
	if len(s) == 0 {
		s = t.series[key.Inverse()]
	}
	i := sort.Search(len(s), func(i int) bool { return !s[i].date.Before(date) })
	if i == 0 {
		return Date{}, false
	}
	return s[i-1].date, true
}

func nearest(s []ratePoint, date Date) ratePoint {
	i := sort.Search(len(s), func(i int) bool { return !s[i].date.Before(date) })
	switch {
	case i < len(s) && s[i].date == date:
		return s[i]
	case i == 0:
		return s[0]
	case i == len(s):
		return s[len(s)-1]
	}
	prev, next := s[i-1], s[i]
	if prev.date.DaysUntil(date) <= date.DaysUntil(next.date) {
		return prev
	}
	return next
}
