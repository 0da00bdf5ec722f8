package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestCurrencyPrecision(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code string
		want int32
	}{
		{"EUR", 2},
		{"jpy", 0},
		{"BHD", 3},
		{"XYZ", DefaultCashPrecision},
	}
	for _, tt := range tests {
		if got := CurrencyPrecision(tt.code); got != tt.want {
			t.Errorf("CurrencyPrecision(%s) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestRoundCash_Idempotent(t *testing.T) {
	t.Parallel()

	amount := decimal.RequireFromString("10.005")
	once := RoundCash(amount, "EUR")
	if !once.Equal(decimal.RequireFromString("10.01")) {
		t.Fatalf("expected 10.01, got %s", once)
	}
	if !RoundCash(once, "EUR").Equal(once) {
		t.Fatal("rounding twice changed the value")
	}
}

func rateTable() *RateTable {
	return NewRateTable([]Rate{
		{From: "USD", To: "EUR", Date: MustParseDate("2024-01-10"), Rate: decimal.RequireFromString("0.90")},
		{From: "USD", To: "EUR", Date: MustParseDate("2024-01-14"), Rate: decimal.RequireFromString("0.92")},
		{From: "USD", To: "EUR", Date: MustParseDate("2024-01-01"), Rate: decimal.RequireFromString("0.88")},
		{From: "GBP", To: "EUR", Date: MustParseDate("2024-01-10"), Rate: decimal.Zero},
	})
}

func TestRateTable_RateOn(t *testing.T) {
	t.Parallel()

	table := rateTable()
	tests := []struct {
		name     string
		from, to string
		date     string
		want     string
		exact    bool
		inverse  bool
	}{
		{name: "exact", from: "USD", to: "EUR", date: "2024-01-10", want: "0.90", exact: true},
		{name: "nearest earlier", from: "USD", to: "EUR", date: "2024-01-11", want: "0.90"},
		{name: "tie prefers earlier", from: "USD", to: "EUR", date: "2024-01-12", want: "0.90"},
		{name: "nearest later", from: "USD", to: "EUR", date: "2024-01-13", want: "0.92"},
		{name: "before history", from: "USD", to: "EUR", date: "2023-06-01", want: "0.88"},
		{name: "after history", from: "USD", to: "EUR", date: "2024-12-31", want: "0.92"},
		{name: "same currency", from: "EUR", to: "EUR", date: "2024-01-10", want: "1", exact: true},
		{name: "inverse", from: "EUR", to: "USD", date: "2024-01-10", want: "1.1111111111111111", exact: true, inverse: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := table.RateOn(tt.from, tt.to, MustParseDate(tt.date))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Rate.Equal(decimal.RequireFromString(tt.want)) {
				t.Fatalf("rate = %s, want %s", got.Rate, tt.want)
			}
			if got.Exact != tt.exact || got.Inverse != tt.inverse {
				t.Fatalf("exact=%v inverse=%v, want %v %v", got.Exact, got.Inverse, tt.exact, tt.inverse)
			}
		})
	}
}

func TestRateTable_Unavailable(t *testing.T) {
	t.Parallel()

	_, err := rateTable().RateOn("GBP", "EUR", MustParseDate("2024-01-10"))
	if !errors.Is(err, ErrRateUnavailable) {
		t.Fatalf("expected ErrRateUnavailable for non-positive rates, got %v", err)
	}
	_, err = rateTable().RateOn("CHF", "JPY", MustParseDate("2024-01-10"))
	if !errors.Is(err, ErrRateUnavailable) {
		t.Fatalf("expected ErrRateUnavailable, got %v", err)
	}
}

func TestRateTable_QuotedBefore(t *testing.T) {
	t.Parallel()

	table := rateTable()
	tests := []struct {
		name     string
		from, to string
		date     string
		want     string
	}{
		{name: "strictly before", from: "USD", to: "EUR", date: "2024-01-14", want: "2024-01-10"},
		{name: "between quotes", from: "USD", to: "EUR", date: "2024-01-12", want: "2024-01-10"},
		{name: "inverse series", from: "EUR", to: "USD", date: "2024-02-01", want: "2024-01-14"},
		{name: "first quote", from: "USD", to: "EUR", date: "2024-01-01"},
		{name: "unquoted", from: "CHF", to: "JPY", date: "2024-01-10"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, ok := table.QuotedBefore(tt.from, tt.to, MustParseDate(tt.date))
			if tt.want == "" {
				if ok {
					t.Fatalf("expected no quote, got %s", got)
				}
				return
			}
			if !ok || got != MustParseDate(tt.want) {
				t.Fatalf("quote = %s (%v), want %s", got, ok, tt.want)
			}
		})
	}
}
