package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iho/goholdings/internal/domain"
)

var (
	securityHoldingColumns = []string{
		"tenant_id", "portfolio_id", "security_account_id", "instrument_id",
		"from_date", "to_date", "quantity", "margin_real_holdings",
		"margin_average_price", "margin_open_cost_basis", "split_price_factor",
		"currency_pair_portfolio_id", "currency_pair_tenant_id",
	}
	cashBalanceColumns = []string{
		"tenant_id", "portfolio_id", "cash_account_id", "from_date", "to_date",
		"balance", "dividends", "accumulate_reduce", "withdrawal_deposit",
		"interest", "fees", "currency_pair_portfolio_id", "currency_pair_tenant_id",
	}
	cashDepositColumns = []string{
		"tenant_id", "portfolio_id", "cash_account_id", "from_date", "to_date",
		"deposit", "deposit_portfolio", "deposit_tenant",
		"currency_pair_portfolio_id", "currency_pair_tenant_id",
	}
)

// replaceFrom deletes a scope's snapshots from a date on and bulk-inserts
// the replacement rows in the same transaction.
func replaceFrom(ctx context.Context, tm *TxManager, table string, columns []string, deleteSQL string, deleteArgs []any, rows [][]any) error {
	return tm.InTx(ctx, table, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, deleteSQL, deleteArgs...); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
		if len(rows) == 0 {
			return nil
		}
		n, err := tx.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows))
		if err != nil {
			return fmt.Errorf("copy %s: %w", table, err)
		}
		if n != int64(len(rows)) {
			return fmt.Errorf("copy %s: wrote %d of %d rows", table, n, len(rows))
		}
		return nil
	})
}

// SecurityHoldingRepository stores security holding timelines.
type SecurityHoldingRepository struct {
	pool pgxPool
	tx   *TxManager
}

// NewSecurityHoldingRepository creates a new SecurityHoldingRepository.
func NewSecurityHoldingRepository(pool pgxPool, tx *TxManager) *SecurityHoldingRepository {
	return &SecurityHoldingRepository{pool: pool, tx: tx}
}

const securityHoldingSelect = `
	SELECT tenant_id, portfolio_id, security_account_id, instrument_id,
	       from_date, to_date, quantity, margin_real_holdings,
	       margin_average_price, margin_open_cost_basis, split_price_factor,
	       currency_pair_portfolio_id, currency_pair_tenant_id
	FROM security_holdings
`

// LastBefore returns the latest holding starting before date, or nil.
func (r *SecurityHoldingRepository) LastBefore(ctx context.Context, key domain.SecurityScopeKey, date domain.Date) (*domain.SecurityHolding, error) {
	h, err := scanSecurityHolding(r.pool.QueryRow(ctx, securityHoldingSelect+`
		WHERE security_account_id = $1 AND instrument_id = $2 AND from_date < $3
		ORDER BY from_date DESC
		LIMIT 1
	`, key.AccountID, key.InstrumentID, dateToPg(date)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("last security holding: %w", err)
	}
	return &h, nil
}

// ListByScope returns the scope's timeline ordered by from_date.
func (r *SecurityHoldingRepository) ListByScope(ctx context.Context, key domain.SecurityScopeKey) ([]domain.SecurityHolding, error) {
	rows, err := r.pool.Query(ctx, securityHoldingSelect+`
		WHERE security_account_id = $1 AND instrument_id = $2
		ORDER BY from_date
	`, key.AccountID, key.InstrumentID)
	if err != nil {
		return nil, fmt.Errorf("list security holdings: %w", err)
	}
	defer rows.Close()

	var out []domain.SecurityHolding
	for rows.Next() {
		h, err := scanSecurityHolding(rows)
		if err != nil {
			return nil, fmt.Errorf("scan security holding: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// ReplaceFrom swaps the scope's holdings starting on or after from.
func (r *SecurityHoldingRepository) ReplaceFrom(ctx context.Context, key domain.SecurityScopeKey, from domain.Date, holdings []domain.SecurityHolding) error {
	rows := make([][]any, len(holdings))
	for i, h := range holdings {
		rows[i] = []any{
			key.TenantID, key.PortfolioID, key.AccountID, key.InstrumentID,
			dateToPg(h.FromDate), optionalDateToPg(h.ToDate),
			decimalToNumeric(h.Quantity),
			decimalToNumeric(h.MarginRealHoldings),
			nullDecimalToNumeric(h.MarginAveragePrice),
			decimalToNumeric(h.MarginOpenCostBasis),
			decimalToNumeric(h.SplitPriceFactor),
			optionalInt64ToPg(h.CurrencyPairPortfolioID),
			optionalInt64ToPg(h.CurrencyPairTenantID),
		}
	}
	return replaceFrom(ctx, r.tx, "security_holdings", securityHoldingColumns, `
		DELETE FROM security_holdings
		WHERE security_account_id = $1 AND instrument_id = $2 AND from_date >= $3
	`, []any{key.AccountID, key.InstrumentID, dateToPg(from)}, rows)
}

func scanSecurityHolding(row rowScanner) (domain.SecurityHolding, error) {
	var (
		h                            domain.SecurityHolding
		fromDate, toDate             pgtype.Date
		qty, held, avg, cost, factor pgtype.Numeric
		pairPortfolio, pairTenant    pgtype.Int8
	)
	err := row.Scan(
		&h.Scope.TenantID, &h.Scope.PortfolioID, &h.Scope.AccountID, &h.Scope.InstrumentID,
		&fromDate, &toDate, &qty, &held, &avg, &cost, &factor,
		&pairPortfolio, &pairTenant,
	)
	if err != nil {
		return domain.SecurityHolding{}, err
	}
	h.FromDate = pgToDate(fromDate)
	h.ToDate = pgToOptionalDate(toDate)
	h.Quantity = numericToDecimal(qty)
	h.MarginRealHoldings = numericToDecimal(held)
	h.MarginAveragePrice = numericToNullDecimal(avg)
	h.MarginOpenCostBasis = numericToDecimal(cost)
	h.SplitPriceFactor = numericToDecimal(factor)
	h.CurrencyPairPortfolioID = pgToOptionalInt64(pairPortfolio)
	h.CurrencyPairTenantID = pgToOptionalInt64(pairTenant)
	return h, nil
}

// CashBalanceRepository stores cash balance timelines.
type CashBalanceRepository struct {
	pool pgxPool
	tx   *TxManager
}

// NewCashBalanceRepository creates a new CashBalanceRepository.
func NewCashBalanceRepository(pool pgxPool, tx *TxManager) *CashBalanceRepository {
	return &CashBalanceRepository{pool: pool, tx: tx}
}

const cashBalanceSelect = `
	SELECT tenant_id, portfolio_id, cash_account_id, from_date, to_date,
	       balance, dividends, accumulate_reduce, withdrawal_deposit,
	       interest, fees, currency_pair_portfolio_id, currency_pair_tenant_id
	FROM cash_balances
`

// LastBefore returns the latest balance starting before date, or nil.
func (r *CashBalanceRepository) LastBefore(ctx context.Context, cashAccountID string, date domain.Date) (*domain.CashBalance, error) {
	b, err := scanCashBalance(r.pool.QueryRow(ctx, cashBalanceSelect+`
		WHERE cash_account_id = $1 AND from_date < $2
		ORDER BY from_date DESC
		LIMIT 1
	`, cashAccountID, dateToPg(date)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("last cash balance: %w", err)
	}
	return &b, nil
}

// ListByAccount returns the account's timeline ordered by from_date.
func (r *CashBalanceRepository) ListByAccount(ctx context.Context, cashAccountID string) ([]domain.CashBalance, error) {
	rows, err := r.pool.Query(ctx, cashBalanceSelect+`
		WHERE cash_account_id = $1
		ORDER BY from_date
	`, cashAccountID)
	if err != nil {
		return nil, fmt.Errorf("list cash balances: %w", err)
	}
	defer rows.Close()

	var out []domain.CashBalance
	for rows.Next() {
		b, err := scanCashBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cash balance: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ReplaceFrom swaps the account's balances starting on or after from.
func (r *CashBalanceRepository) ReplaceFrom(ctx context.Context, cashAccountID string, from domain.Date, balances []domain.CashBalance) error {
	rows := make([][]any, len(balances))
	for i, b := range balances {
		rows[i] = []any{
			b.TenantID, b.PortfolioID, cashAccountID,
			dateToPg(b.FromDate), optionalDateToPg(b.ToDate),
			decimalToNumeric(b.Balance),
			decimalToNumeric(b.Dividends),
			decimalToNumeric(b.AccumulateReduce),
			decimalToNumeric(b.WithdrawalDeposit),
			decimalToNumeric(b.Interest),
			decimalToNumeric(b.Fees),
			optionalInt64ToPg(b.CurrencyPairPortfolioID),
			optionalInt64ToPg(b.CurrencyPairTenantID),
		}
	}
	return replaceFrom(ctx, r.tx, "cash_balances", cashBalanceColumns, `
		DELETE FROM cash_balances
		WHERE cash_account_id = $1 AND from_date >= $2
	`, []any{cashAccountID, dateToPg(from)}, rows)
}

func scanCashBalance(row rowScanner) (domain.CashBalance, error) {
	var (
		b                                          domain.CashBalance
		fromDate, toDate                           pgtype.Date
		balance, dividends, ar, wd, interest, fees pgtype.Numeric
		pairPortfolio, pairTenant                  pgtype.Int8
	)
	err := row.Scan(
		&b.TenantID, &b.PortfolioID, &b.CashAccountID, &fromDate, &toDate,
		&balance, &dividends, &ar, &wd, &interest, &fees,
		&pairPortfolio, &pairTenant,
	)
	if err != nil {
		return domain.CashBalance{}, err
	}
	b.FromDate = pgToDate(fromDate)
	b.ToDate = pgToOptionalDate(toDate)
	b.Balance = numericToDecimal(balance)
	b.Dividends = numericToDecimal(dividends)
	b.AccumulateReduce = numericToDecimal(ar)
	b.WithdrawalDeposit = numericToDecimal(wd)
	b.Interest = numericToDecimal(interest)
	b.Fees = numericToDecimal(fees)
	b.CurrencyPairPortfolioID = pgToOptionalInt64(pairPortfolio)
	b.CurrencyPairTenantID = pgToOptionalInt64(pairTenant)
	return b, nil
}

// CashDepositRepository stores cash deposit timelines.
type CashDepositRepository struct {
	pool pgxPool
	tx   *TxManager
}

// NewCashDepositRepository creates a new CashDepositRepository.
func NewCashDepositRepository(pool pgxPool, tx *TxManager) *CashDepositRepository {
	return &CashDepositRepository{pool: pool, tx: tx}
}

const cashDepositSelect = `
	SELECT tenant_id, portfolio_id, cash_account_id, from_date, to_date,
	       deposit, deposit_portfolio, deposit_tenant,
	       currency_pair_portfolio_id, currency_pair_tenant_id
	FROM cash_deposits
`

// LastBefore returns the latest deposit snapshot starting before date, or nil.
func (r *CashDepositRepository) LastBefore(ctx context.Context, cashAccountID string, date domain.Date) (*domain.CashDeposit, error) {
	d, err := scanCashDeposit(r.pool.QueryRow(ctx, cashDepositSelect+`
		WHERE cash_account_id = $1 AND from_date < $2
		ORDER BY from_date DESC
		LIMIT 1
	`, cashAccountID, dateToPg(date)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("last cash deposit: %w", err)
	}
	return &d, nil
}

// ListByAccount returns the account's timeline ordered by from_date.
func (r *CashDepositRepository) ListByAccount(ctx context.Context, cashAccountID string) ([]domain.CashDeposit, error) {
	rows, err := r.pool.Query(ctx, cashDepositSelect+`
		WHERE cash_account_id = $1
		ORDER BY from_date
	`, cashAccountID)
	if err != nil {
		return nil, fmt.Errorf("list cash deposits: %w", err)
	}
	defer rows.Close()

	var out []domain.CashDeposit
	for rows.Next() {
		d, err := scanCashDeposit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cash deposit: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ReplaceFrom swaps the account's deposit snapshots starting on or after from.
func (r *CashDepositRepository) ReplaceFrom(ctx context.Context, cashAccountID string, from domain.Date, deposits []domain.CashDeposit) error {
	rows := make([][]any, len(deposits))
	for i, d := range deposits {
		rows[i] = []any{
			d.TenantID, d.PortfolioID, cashAccountID,
			dateToPg(d.FromDate), optionalDateToPg(d.ToDate),
			decimalToNumeric(d.Deposit),
			decimalToNumeric(d.DepositPortfolio),
			decimalToNumeric(d.DepositTenant),
			optionalInt64ToPg(d.CurrencyPairPortfolioID),
			optionalInt64ToPg(d.CurrencyPairTenantID),
		}
	}
	return replaceFrom(ctx, r.tx, "cash_deposits", cashDepositColumns, `
		DELETE FROM cash_deposits
		WHERE cash_account_id = $1 AND from_date >= $2
	`, []any{cashAccountID, dateToPg(from)}, rows)
}

func scanCashDeposit(row rowScanner) (domain.CashDeposit, error) {
	var (
		d                          domain.CashDeposit
		fromDate, toDate           pgtype.Date
		deposit, portfolio, tenant pgtype.Numeric
		pairPortfolio, pairTenant  pgtype.Int8
	)
	err := row.Scan(
		&d.TenantID, &d.PortfolioID, &d.CashAccountID, &fromDate, &toDate,
		&deposit, &portfolio, &tenant, &pairPortfolio, &pairTenant,
	)
	if err != nil {
		return domain.CashDeposit{}, err
	}
	d.FromDate = pgToDate(fromDate)
	d.ToDate = pgToOptionalDate(toDate)
	d.Deposit = numericToDecimal(deposit)
	d.DepositPortfolio = numericToDecimal(portfolio)
	d.DepositTenant = numericToDecimal(tenant)
	d.CurrencyPairPortfolioID = pgToOptionalInt64(pairPortfolio)
	d.CurrencyPairTenantID = pgToOptionalInt64(pairTenant)
	return d, nil
}
