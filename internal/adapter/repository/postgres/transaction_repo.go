package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iho/goholdings/internal/domain"
)

const transactionColumns = `
	t.id, t.tenant_id, t.portfolio_id, t.cash_account_id, t.security_account_id,
	t.instrument_id, t.connected_id, t.type, t.currency, t.cash_amount,
	t.units, t.quotation, t.exchange_rate, t.executed_at
`

// TransactionRepository reads ledger transactions. The ledger owns the
// table; the engine never writes to it.
type TransactionRepository struct {
	pool pgxPool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool pgxPool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// ListSecurityTransactions returns the scope's trades executed on or after from.
func (r *TransactionRepository) ListSecurityTransactions(ctx context.Context, key domain.SecurityScopeKey, from domain.Date) ([]*domain.Transaction, error) {
	return r.list(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions t
		WHERE t.security_account_id = $1
		  AND t.instrument_id = $2
		  AND t.type IN ('ACCUMULATE', 'REDUCE')
		  AND t.executed_at >= $3
		ORDER BY t.executed_at, t.id
	`, key.AccountID, key.InstrumentID, timeToPgTimestamptz(from.Time()))
}

// ListCashTransactions returns every transaction of the cash account executed on or after from.
func (r *TransactionRepository) ListCashTransactions(ctx context.Context, cashAccountID string, from domain.Date) ([]*domain.Transaction, error) {
	return r.list(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions t
		WHERE t.cash_account_id = $1
		  AND t.executed_at >= $2
		ORDER BY t.executed_at, t.id
	`, cashAccountID, timeToPgTimestamptz(from.Time()))
}

// ListDepositTransactions returns deposits and withdrawals of the cash account.
func (r *TransactionRepository) ListDepositTransactions(ctx context.Context, cashAccountID string, from domain.Date) ([]*domain.Transaction, error) {
	return r.list(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions t
		WHERE t.cash_account_id = $1
		  AND t.type IN ('DEPOSIT', 'WITHDRAWAL')
		  AND t.executed_at >= $2
		ORDER BY t.executed_at, t.id
	`, cashAccountID, timeToPgTimestamptz(from.Time()))
}

// ListDepositsByCurrencies returns the tenant's cash flows since a date that
// involve one of the currencies, either as transaction currency or as the
// account's portfolio or tenant currency.
func (r *TransactionRepository) ListDepositsByCurrencies(ctx context.Context, tenantID string, currencies []string, since domain.Date) ([]*domain.Transaction, error) {
	return r.list(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions t
		JOIN cash_accounts ca ON ca.id = t.cash_account_id
		JOIN portfolios p ON p.id = ca.portfolio_id
		JOIN tenants tn ON tn.id = p.tenant_id
		WHERE t.tenant_id = $1
		  AND t.type IN ('DEPOSIT', 'WITHDRAWAL')
		  AND t.executed_at >= $3
		  AND (t.currency = ANY($2) OR p.currency = ANY($2) OR tn.currency = ANY($2))
		ORDER BY t.executed_at, t.id
	`, tenantID, currencies, timeToPgTimestamptz(since.Time()))
}

// GetByIDs returns the transactions that exist among ids.
func (r *TransactionRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.Transaction, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.list(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions t
		WHERE t.id = ANY($1)
		ORDER BY t.executed_at, t.id
	`, ids)
}

func (r *TransactionRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []*domain.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return txs, nil
}

func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	var (
		tx                                       domain.Transaction
		securityAccount, instrument, connectedID pgtype.Text
		txType                                   string
		cashAmount, units, quotation, rate       pgtype.Numeric
		executedAt                               pgtype.Timestamptz
	)
	err := row.Scan(
		&tx.ID,
		&tx.TenantID,
		&tx.PortfolioID,
		&tx.CashAccountID,
		&securityAccount,
		&instrument,
		&connectedID,
		&txType,
		&tx.Currency,
		&cashAmount,
		&units,
		&quotation,
		&rate,
		&executedAt,
	)
	if err != nil {
		return nil, err
	}

	tx.SecurityAccountID = securityAccount.String
	tx.InstrumentID = pgToOptionalString(instrument)
	tx.ConnectedID = pgToOptionalString(connectedID)
	tx.Type = domain.TransactionType(txType)
	tx.CashAmount = numericToDecimal(cashAmount)
	tx.Units = numericToDecimal(units)
	tx.Quotation = numericToDecimal(quotation)
	tx.ExchangeRate = numericToOptionalDecimal(rate)
	tx.Time = executedAt.Time.UTC()
	return &tx, nil
}
