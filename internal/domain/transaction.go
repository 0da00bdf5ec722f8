package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a ledger transaction.
type TransactionType string

const (
	TransactionAccumulate  TransactionType = "ACCUMULATE"
	TransactionReduce      TransactionType = "REDUCE"
	TransactionDividend    TransactionType = "DIVIDEND"
	TransactionFee         TransactionType = "FEE"
	TransactionInterest    TransactionType = "INTEREST"
	TransactionDeposit     TransactionType = "DEPOSIT"
	TransactionWithdrawal  TransactionType = "WITHDRAWAL"
	TransactionFinanceCost TransactionType = "FINANCE_COST"
)

var validTransactionTypes = map[TransactionType]bool{
	TransactionAccumulate:  true,
	TransactionReduce:      true,
	TransactionDividend:    true,
	TransactionFee:         true,
	TransactionInterest:    true,
	TransactionDeposit:     true,
	TransactionWithdrawal:  true,
	TransactionFinanceCost: true,
}

// IsValid reports whether t is a known transaction type.
func (t TransactionType) IsValid() bool { return validTransactionTypes[t] }

// IsTrade reports whether the type moves security units.
func (t TransactionType) IsTrade() bool {
	return t == TransactionAccumulate || t == TransactionReduce
}

// IsCashFlow reports whether the type is an external deposit or withdrawal.
func (t TransactionType) IsCashFlow() bool {
	return t == TransactionDeposit || t == TransactionWithdrawal
}

// Transaction is an immutable ledger event as seen by the holdings engine.
//
// CashAmount is signed from the cash account's point of view. Units are always
// positive; the direction comes from Type. ConnectedID links a margin close to
// its opening transaction, or a withdrawal to its paired deposit. ExchangeRate,
// when set on a transfer leg, converts this leg's currency into the connected
// leg's currency.
type Transaction struct {
	Time              time.Time        `json:"time"`
	ID                string           `json:"id"`
	TenantID          string           `json:"tenant_id"`
	PortfolioID       string           `json:"portfolio_id"`
	CashAccountID     string           `json:"cash_account_id"`
	SecurityAccountID string           `json:"security_account_id,omitempty"`
	InstrumentID      *string          `json:"instrument_id,omitempty"`
	ConnectedID       *string          `json:"connected_id,omitempty"`
	Type              TransactionType  `json:"type"`
	Currency          string           `json:"currency"`
	CashAmount        decimal.Decimal  `json:"cash_amount"`
	Units             decimal.Decimal  `json:"units"`
	Quotation         decimal.Decimal  `json:"quotation"`
	ExchangeRate      *decimal.Decimal `json:"exchange_rate,omitempty"`
}

// Date returns the calendar day of the transaction.
func (t *Transaction) Date() Date { return DateOf(t.Time) }

// SignedUnits returns units with the trade direction applied.
func (t *Transaction) SignedUnits() decimal.Decimal {
	if t.Type == TransactionReduce {
		return t.Units.Neg()
	}
	return t.Units
}

// IsMarginClose reports whether the transaction closes an earlier margin open.
func (t *Transaction) IsMarginClose() bool { return t.ConnectedID != nil }

// Validate checks the fields the engine relies on.
func (t *Transaction) Validate() error {
	if !t.Type.IsValid() {
		return ErrInvalidTransactionType
	}
	if t.Currency == "" {
		return ErrMissingCurrency
	}
	if t.Type.IsTrade() && (t.InstrumentID == nil || t.SecurityAccountID == "") {
		return ErrMissingInstrument
	}
	return nil
}

// SortTransactions orders transactions by time and then by id. The id
// tie-break keeps repeated runs deterministic.
func SortTransactions(txs []*Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		if !txs[i].Time.Equal(txs[j].Time) {
			return txs[i].Time.Before(txs[j].Time)
		}
		return txs[i].ID < txs[j].ID
	})
}

// TransactionChange describes one ledger mutation. Before is nil for a
// create and After is nil for a delete.
type TransactionChange struct {
	Before *Transaction `json:"before,omitempty"`
	After  *Transaction `json:"after,omitempty"`
}

// Current returns the transaction that identifies the change.
func (c TransactionChange) Current() *Transaction {
	if c.After != nil {
		return c.After
	}
	return c.Before
}

// StartDate is the earliest date the change can affect.
func (c TransactionChange) StartDate() Date {
	var before, after Date
	if c.Before != nil {
		before = c.Before.Date()
	}
	if c.After != nil {
		after = c.After.Date()
	}
	return MinOf(before, after)
}

// CashAccountIDs returns the distinct cash accounts touched by the change.
func (c TransactionChange) CashAccountIDs() []string {
	var ids []string
	seen := make(map[string]bool)
	for _, tx := range []*Transaction{c.Before, c.After} {
		if tx == nil || tx.CashAccountID == "" || seen[tx.CashAccountID] {
			continue
		}
		seen[tx.CashAccountID] = true
		ids = append(ids, tx.CashAccountID)
	}
	return ids
}
