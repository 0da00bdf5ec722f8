package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Split is a corporate split of an instrument. A 2-for-1 split has
// FromFactor 1 and ToFactor 2.
type Split struct {
	ID           string
	InstrumentID string
	SplitDate    Date
	FromFactor   decimal.Decimal
	ToFactor     decimal.Decimal
}

// Ratio is the multiplier applied to quantities held before the split.
func (s *Split) Ratio() decimal.Decimal {
	return s.ToFactor.Div(s.FromFactor)
}

// Validate rejects splits whose ratio is undefined or zero.
func (s *Split) Validate() error {
	if !s.FromFactor.IsPositive() || !s.ToFactor.IsPositive() {
		return ErrInvalidSplit
	}
	return nil
}

// SplitTable is the ordered split history of one instrument. It is built
// once per run and only read afterwards.
type SplitTable struct {
	splits []Split
}

// NewSplitTable sorts splits by date.
func NewSplitTable(splits []Split) SplitTable {
	sorted := make([]Split, len(splits))
	copy(sorted, splits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SplitDate.Before(sorted[j].SplitDate)
	})
	return SplitTable{splits: sorted}
}

// Splits returns the splits in date order.
func (t SplitTable) Splits() []Split { return t.splits }

// FactorAfter is the cumulative ratio of all splits strictly after date.
// Multiplying a quantity held on date by this factor expresses it in
// today's units.
func (t SplitTable) FactorAfter(date Date) decimal.Decimal {
	factor := decimal.NewFromInt(1)
	for i := len(t.splits) - 1; i >= 0; i-- {
		if !t.splits[i].SplitDate.After(date) {
			break
		}
		factor = factor.Mul(t.splits[i].Ratio())
	}
	return factor
}

// Between returns splits with from < SplitDate <= to.
func (t SplitTable) Between(from, to Date) []Split {
	var out []Split
	for _, s := range t.splits {
		if s.SplitDate.After(from) && !s.SplitDate.After(to) {
			out = append(out, s)
		}
	}
	return out
}

// After returns splits dated strictly after date.
func (t SplitTable) After(date Date) []Split {
	i := sort.Search(len(t.splits), func(i int) bool { return t.splits[i].SplitDate.After(date) })
	return t.splits[i:]
}
