package domain

import (
	"fmt"
)

// ValidateTimeline checks that periods, in FromDate order, are contiguous,
// non-overlapping and end with exactly one open period.
func ValidateTimeline(periods []Period) error {
	return validatePeriods(periods, false)
}

// ValidateLifetimes is ValidateTimeline for series that may pause. A gap is
// allowed between a closed period and the next one, and a series whose last
// period is closed has ended.
func ValidateLifetimes(periods []Period) error {
	return validatePeriods(periods, true)
}

func validatePeriods(periods []Period, allowGaps bool) error {
	for i, p := range periods {
		if p.ToDate != nil && p.ToDate.Before(p.FromDate) {
			return fmt.Errorf("%w: period %s ends on %s", ErrTimelineOverlap, p.FromDate, *p.ToDate)
		}
		if i == len(periods)-1 {
			if p.ToDate != nil && !allowGaps {
				return fmt.Errorf("%w: last period starting %s is closed", ErrTimelineGap, p.FromDate)
			}
			break
		}
		next := periods[i+1]
		if p.ToDate == nil {
			return fmt.Errorf("%w: open period %s is followed by %s", ErrTimelineOverlap, p.FromDate, next.FromDate)
		}
		want := p.ToDate.Add(1)
		switch {
		case next.FromDate.Before(want):
			return fmt.Errorf("%w: %s overlaps %s", ErrTimelineOverlap, p.FromDate, next.FromDate)
		case next.FromDate.After(want) && !allowGaps:
			return fmt.Errorf("%w: nothing covers %s", ErrTimelineGap, want)
		}
	}
	return nil
}

// SecurityPeriods extracts the periods of holdings.
func SecurityPeriods(hs []SecurityHolding) []Period {
	out := make([]Period, len(hs))
	for i := range hs {
		out[i] = hs[i].Period
	}
	return out
}

// CashBalancePeriods extracts the periods of balances.
func CashBalancePeriods(bs []CashBalance) []Period {
	out := make([]Period, len(bs))
	for i := range bs {
		out[i] = bs[i].Period
	}
	return out
}

// CashDepositPeriods extracts the periods of deposits.
func CashDepositPeriods(ds []CashDeposit) []Period {
	out := make([]Period, len(ds))
	for i := range ds {
		out[i] = ds[i].Period
	}
	return out
}
