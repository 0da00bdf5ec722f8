package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"

	"github.com/iho/goholdings/internal/domain"
)

var txColumns = []string{
	"id", "tenant_id", "portfolio_id", "cash_account_id", "security_account_id",
	"instrument_id", "connected_id", "type", "currency", "cash_amount",
	"units", "quotation", "exchange_rate", "executed_at",
}

func TestTransactionRepositoryListSecurityTransactions(t *testing.T) {
	mockPool := newMockPool(t)
	executed := time.Date(2024, 1, 2, 15, 30, 0, 0, time.UTC)
	mockPool.ExpectQuery("FROM transactions t").
		WithArgs("sa-1", "ACME", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(txColumns).
			AddRow("t1", "tenant-a", "pf-1", "ca-1", "sa-1", "ACME", nil, "ACCUMULATE", "USD", "-1000", "100", "10", nil, executed).
			AddRow("t2", "tenant-a", "pf-1", "ca-1", "sa-1", "ACME", "t1", "REDUCE", "USD", "600", "50", "12", "0.9", executed.Add(24*time.Hour)))

	key := domain.SecurityScopeKey{TenantID: "tenant-a", PortfolioID: "pf-1", AccountID: "sa-1", InstrumentID: "ACME"}
	txs, err := NewTransactionRepository(mockPool).ListSecurityTransactions(context.Background(), key, domain.MinDate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txs))
	}

	first := txs[0]
	if first.InstrumentID == nil || *first.InstrumentID != "ACME" || first.ConnectedID != nil || first.ExchangeRate != nil {
		t.Fatalf("unexpected optional fields on %+v", first)
	}
	if first.Date().String() != "2024-01-02" || first.SignedUnits().String() != "100" {
		t.Fatalf("unexpected trade %+v", first)
	}

	second := txs[1]
	if second.ConnectedID == nil || *second.ConnectedID != "t1" || !second.IsMarginClose() {
		t.Fatalf("expected margin close, got %+v", second)
	}
	if second.SignedUnits().String() != "-50" || second.ExchangeRate.String() != "0.9" {
		t.Fatalf("unexpected close %+v", second)
	}
	assertExpectations(t, mockPool)
}

func TestTransactionRepositoryGetByIDsEmpty(t *testing.T) {
	mockPool := newMockPool(t)

	txs, err := NewTransactionRepository(mockPool).GetByIDs(context.Background(), nil)
	if err != nil || txs != nil {
		t.Fatalf("expected no query for empty ids, got %v %v", txs, err)
	}
	assertExpectations(t, mockPool)
}

func TestTransactionRepositoryListDepositsByCurrencies(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectQuery("ANY\\(\\$2\\)").
		WithArgs("tenant-a", []string{"EUR"}, pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(txColumns).
			AddRow("d1", "tenant-a", "pf-1", "ca-1", nil, nil, nil, "DEPOSIT", "EUR", "1000", "0", "0", nil, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)))

	txs, err := NewTransactionRepository(mockPool).ListDepositsByCurrencies(context.Background(), "tenant-a", []string{"EUR"}, domain.MustParseDate("2024-01-01"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(txs) != 1 || !txs[0].Type.IsCashFlow() || txs[0].SecurityAccountID != "" {
		t.Fatalf("unexpected deposits %+v", txs)
	}
	assertExpectations(t, mockPool)
}
