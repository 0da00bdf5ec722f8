package domain

import (
	"github.com/shopspring/decimal"
)

// SecurityScopeKey owns one security holding timeline.
type SecurityScopeKey struct {
	TenantID     string
	PortfolioID  string
	AccountID    string
	InstrumentID string
}

func (k SecurityScopeKey) String() string {
	return "security:" + k.AccountID + ":" + k.InstrumentID
}

// SecurityScope is a scope key together with the currencies and contract
// terms the builder needs.
type SecurityScope struct {
	SecurityScopeKey
	InstrumentCurrency string
	PortfolioCurrency  string
	TenantCurrency     string
	Margin             bool
	// ValuePerPoint converts contracts into notional units for margin
	// instruments. Zero is treated as one.
	ValuePerPoint decimal.Decimal
}

// Multiplier returns the contract multiplier.
func (s SecurityScope) Multiplier() decimal.Decimal {
	if !s.Margin || s.ValuePerPoint.IsZero() {
		return decimal.NewFromInt(1)
	}
	return s.ValuePerPoint
}

// CashAccount owns the cash balance and deposit timelines.
type CashAccount struct {
	ID                string
	TenantID          string
	PortfolioID       string
	Currency          string
	PortfolioCurrency string
	TenantCurrency    string
}

// ScopeKey returns the lock key of the cash account.
func (a CashAccount) ScopeKey() string { return CashScopeKey(a.ID) }

// CashScopeKey returns the lock key of a cash account id.
func CashScopeKey(cashAccountID string) string { return "cash:" + cashAccountID }

// InstrumentScopeKey returns the lock key for instrument-wide work.
func InstrumentScopeKey(instrumentID string) string { return "instrument:" + instrumentID }

// TenantScopeKey returns the lock key for tenant-wide work.
func TenantScopeKey(tenantID string) string { return "tenant:" + tenantID }
