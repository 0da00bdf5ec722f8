package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"

	"github.com/iho/goholdings/internal/domain"
)

var (
	holdingScope = domain.SecurityScopeKey{TenantID: "tenant-a", PortfolioID: "pf-1", AccountID: "sa-1", InstrumentID: "ACME"}

	holdingRowColumns = []string{
		"tenant_id", "portfolio_id", "security_account_id", "instrument_id",
		"from_date", "to_date", "quantity", "margin_real_holdings",
		"margin_average_price", "margin_open_cost_basis", "split_price_factor",
		"currency_pair_portfolio_id", "currency_pair_tenant_id",
	}
)

func newSnapshotTx(pool pgxPool) *TxManager {
	return NewTxManager(pool, newFastRetrier())
}

func date(s string) domain.Date { return domain.MustParseDate(s) }

func TestSecurityHoldingRepositoryReplaceFrom(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBegin()
	mockPool.ExpectExec("DELETE FROM security_holdings").
		WithArgs("sa-1", "ACME", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))
	mockPool.ExpectCopyFrom(pgx.Identifier{"security_holdings"}, securityHoldingColumns).
		WillReturnResult(2)
	mockPool.ExpectCommit()

	end := date("2024-01-09")
	holdings := []domain.SecurityHolding{
		{Period: domain.Period{FromDate: date("2024-01-02"), ToDate: &end}, Quantity: decimal.NewFromInt(100), SplitPriceFactor: decimal.NewFromInt(2)},
		{Period: domain.Period{FromDate: date("2024-01-10")}, Quantity: decimal.NewFromInt(200), SplitPriceFactor: decimal.NewFromInt(1)},
	}

	repo := NewSecurityHoldingRepository(mockPool, newSnapshotTx(mockPool))
	if err := repo.ReplaceFrom(context.Background(), holdingScope, date("2024-01-02"), holdings); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertExpectations(t, mockPool)
}

func TestSecurityHoldingRepositoryReplaceFromDeleteOnly(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBegin()
	mockPool.ExpectExec("DELETE FROM security_holdings").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mockPool.ExpectCommit()

	repo := NewSecurityHoldingRepository(mockPool, newSnapshotTx(mockPool))
	if err := repo.ReplaceFrom(context.Background(), holdingScope, domain.MinDate, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertExpectations(t, mockPool)
}

func TestSecurityHoldingRepositoryReplaceFromRetriesDeadlock(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBegin()
	mockPool.ExpectExec("DELETE FROM security_holdings").
		WillReturnError(&pgconn.PgError{Code: pgErrDeadlock})
	mockPool.ExpectRollback()
	mockPool.ExpectBegin()
	mockPool.ExpectExec("DELETE FROM security_holdings").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mockPool.ExpectCopyFrom(pgx.Identifier{"security_holdings"}, securityHoldingColumns).
		WillReturnResult(1)
	mockPool.ExpectCommit()

	holdings := []domain.SecurityHolding{{Period: domain.Period{FromDate: date("2024-01-02")}, Quantity: decimal.NewFromInt(1)}}
	repo := NewSecurityHoldingRepository(mockPool, newSnapshotTx(mockPool))
	if err := repo.ReplaceFrom(context.Background(), holdingScope, date("2024-01-02"), holdings); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertExpectations(t, mockPool)
}

func TestSecurityHoldingRepositoryReplaceFromRollsBackShortCopy(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBegin()
	mockPool.ExpectExec("DELETE FROM security_holdings").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mockPool.ExpectCopyFrom(pgx.Identifier{"security_holdings"}, securityHoldingColumns).
		WillReturnResult(0)
	mockPool.ExpectRollback()

	holdings := []domain.SecurityHolding{{Period: domain.Period{FromDate: date("2024-01-02")}, Quantity: decimal.NewFromInt(1)}}
	repo := NewSecurityHoldingRepository(mockPool, newSnapshotTx(mockPool))
	if err := repo.ReplaceFrom(context.Background(), holdingScope, date("2024-01-02"), holdings); err == nil {
		t.Fatal("expected short copy error")
	}
	assertExpectations(t, mockPool)
}

func TestSecurityHoldingRepositoryLastBefore(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		mockPool := newMockPool(t)
		mockPool.ExpectQuery("FROM security_holdings").
			WithArgs("sa-1", "ACME", pgxmock.AnyArg()).
			WillReturnRows(pgxmock.NewRows(holdingRowColumns).AddRow(
				"tenant-a", "pf-1", "sa-1", "ACME",
				time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), nil,
				"10", "2", "105.5", "211", "1", int64(3), nil,
			))

		repo := NewSecurityHoldingRepository(mockPool, newSnapshotTx(mockPool))
		h, err := repo.LastBefore(context.Background(), holdingScope, date("2024-02-01"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if h == nil || !h.IsOpen() || h.FromDate != date("2024-01-02") {
			t.Fatalf("unexpected holding %+v", h)
		}
		if !h.MarginAveragePrice.Valid || h.MarginAveragePrice.Decimal.String() != "105.5" {
			t.Fatalf("unexpected average price %+v", h.MarginAveragePrice)
		}
		if h.CurrencyPairPortfolioID == nil || *h.CurrencyPairPortfolioID != 3 || h.CurrencyPairTenantID != nil {
			t.Fatalf("unexpected pair refs %+v", h)
		}
	})

	t.Run("none", func(t *testing.T) {
		mockPool := newMockPool(t)
		mockPool.ExpectQuery("FROM security_holdings").
			WillReturnRows(pgxmock.NewRows(holdingRowColumns))

		repo := NewSecurityHoldingRepository(mockPool, newSnapshotTx(mockPool))
		h, err := repo.LastBefore(context.Background(), holdingScope, date("2024-02-01"))
		if err != nil || h != nil {
			t.Fatalf("expected no holding, got %+v %v", h, err)
		}
	})
}

func TestCashBalanceRepositoryListByAccount(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectQuery("FROM cash_balances").
		WithArgs("ca-1").
		WillReturnRows(pgxmock.NewRows(cashBalanceColumns).
			AddRow("tenant-a", "pf-1", "ca-1", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
				"1000", "0", "0", "1000", "0", "0", nil, nil).
			AddRow("tenant-a", "pf-1", "ca-1", time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), nil,
				"500", "0", "-500", "1000", "0", "0", nil, nil))

	repo := NewCashBalanceRepository(mockPool, newSnapshotTx(mockPool))
	bs, err := repo.ListByAccount(context.Background(), "ca-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := domain.ValidateTimeline(domain.CashBalancePeriods(bs)); err != nil {
		t.Fatalf("stored timeline must be contiguous: %v", err)
	}
	if bs[1].AccumulateReduce.String() != "-500" {
		t.Fatalf("unexpected balance %+v", bs[1])
	}
	assertExpectations(t, mockPool)
}

func TestCashBalanceRepositoryReplaceFromDeleteError(t *testing.T) {
	mockPool := newMockPool(t)
	boom := errors.New("disk full")
	mockPool.ExpectBegin()
	mockPool.ExpectExec("DELETE FROM cash_balances").WillReturnError(boom)
	mockPool.ExpectRollback()

	repo := NewCashBalanceRepository(mockPool, newSnapshotTx(mockPool))
	err := repo.ReplaceFrom(context.Background(), "ca-1", date("2024-01-01"), []domain.CashBalance{{}})
	if !errors.Is(err, boom) {
		t.Fatalf("expected delete error, got %v", err)
	}
	assertExpectations(t, mockPool)
}

func TestCashDepositRepositoryReplaceFromAndLastBefore(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBegin()
	mockPool.ExpectExec("DELETE FROM cash_deposits").
		WithArgs("ca-1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mockPool.ExpectCopyFrom(pgx.Identifier{"cash_deposits"}, cashDepositColumns).
		WillReturnResult(1)
	mockPool.ExpectCommit()
	mockPool.ExpectQuery("FROM cash_deposits").
		WithArgs("ca-1", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(cashDepositColumns).
			AddRow("tenant-a", "pf-1", "ca-1", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), nil,
				"1000", "1100", "1000", int64(1), int64(2)))

	repo := NewCashDepositRepository(mockPool, newSnapshotTx(mockPool))
	ctx := context.Background()
	deposits := []domain.CashDeposit{{
		Period:           domain.Period{FromDate: date("2024-01-02")},
		TenantID:         "tenant-a",
		PortfolioID:      "pf-1",
		CashAccountID:    "ca-1",
		Deposit:          decimal.NewFromInt(1000),
		DepositPortfolio: decimal.NewFromInt(1100),
		DepositTenant:    decimal.NewFromInt(1000),
	}}
	if err := repo.ReplaceFrom(ctx, "ca-1", date("2024-01-02"), deposits); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	last, err := repo.LastBefore(ctx, "ca-1", date("2024-01-05"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if last == nil || last.DepositPortfolio.String() != "1100" || *last.CurrencyPairTenantID != 2 {
		t.Fatalf("unexpected deposit %+v", last)
	}
	assertExpectations(t, mockPool)
}
