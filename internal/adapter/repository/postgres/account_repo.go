package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iho/goholdings/internal/domain"
)

// rowScanner is implemented by pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// A scope exists while it has trades or stored holdings, so a scope whose
// last trade was deleted is still rebuilt and cleared.
const securityScopeQuery = `
	WITH scopes AS (
		SELECT security_account_id, instrument_id
		FROM transactions
		WHERE security_account_id IS NOT NULL AND instrument_id IS NOT NULL
		UNION
		SELECT security_account_id, instrument_id
		FROM security_holdings
	)
	SELECT p.tenant_id, sa.portfolio_id, s.security_account_id, s.instrument_id,
	       i.currency, p.currency, tn.currency, i.margin, i.value_per_point
	FROM scopes s
	JOIN security_accounts sa ON sa.id = s.security_account_id
	JOIN portfolios p ON p.id = sa.portfolio_id
	JOIN tenants tn ON tn.id = p.tenant_id
	JOIN instruments i ON i.id = s.instrument_id
`

const cashAccountQuery = `
	SELECT ca.id, p.tenant_id, ca.portfolio_id, ca.currency, p.currency, tn.currency
	FROM cash_accounts ca
	JOIN portfolios p ON p.id = ca.portfolio_id
	JOIN tenants tn ON tn.id = p.tenant_id
`

// AccountRepository reads tenants, portfolios, accounts and instruments.
type AccountRepository struct {
	pool pgxPool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool pgxPool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// ListTenants returns every tenant id.
func (r *AccountRepository) ListTenants(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM tenants ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GetSecurityScope returns the scope of an account and instrument, whether
// or not it has trades yet.
func (r *AccountRepository) GetSecurityScope(ctx context.Context, accountID, instrumentID string) (*domain.SecurityScope, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT p.tenant_id, sa.portfolio_id, sa.id, i.id,
		       i.currency, p.currency, tn.currency, i.margin, i.value_per_point
		FROM security_accounts sa
		JOIN portfolios p ON p.id = sa.portfolio_id
		JOIN tenants tn ON tn.id = p.tenant_id
		CROSS JOIN instruments i
		WHERE sa.id = $1 AND i.id = $2
	`, accountID, instrumentID)

	scope, err := scanSecurityScope(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s/%s", domain.ErrScopeNotFound, accountID, instrumentID)
	}
	if err != nil {
		return nil, fmt.Errorf("get security scope: %w", err)
	}
	return &scope, nil
}

// ListSecurityScopes returns the tenant's scopes.
func (r *AccountRepository) ListSecurityScopes(ctx context.Context, tenantID string) ([]domain.SecurityScope, error) {
	return r.listSecurityScopes(ctx, securityScopeQuery+`WHERE p.tenant_id = $1 ORDER BY s.security_account_id, s.instrument_id`, tenantID)
}

// ListSecurityScopesByInstrument returns every scope holding the instrument,
// across tenants.
func (r *AccountRepository) ListSecurityScopesByInstrument(ctx context.Context, instrumentID string) ([]domain.SecurityScope, error) {
	return r.listSecurityScopes(ctx, securityScopeQuery+`WHERE s.instrument_id = $1 ORDER BY s.security_account_id`, instrumentID)
}

func (r *AccountRepository) listSecurityScopes(ctx context.Context, query string, arg string) ([]domain.SecurityScope, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list security scopes: %w", err)
	}
	defer rows.Close()

	var scopes []domain.SecurityScope
	for rows.Next() {
		scope, err := scanSecurityScope(rows)
		if err != nil {
			return nil, err
		}
		scopes = append(scopes, scope)
	}
	return scopes, rows.Err()
}

// GetCashAccount returns a cash account with its portfolio and tenant currencies.
func (r *AccountRepository) GetCashAccount(ctx context.Context, id string) (*domain.CashAccount, error) {
	account, err := scanCashAccount(r.pool.QueryRow(ctx, cashAccountQuery+`WHERE ca.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrCashAccountNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get cash account: %w", err)
	}
	return &account, nil
}

// ListCashAccounts returns the tenant's cash accounts.
func (r *AccountRepository) ListCashAccounts(ctx context.Context, tenantID string) ([]domain.CashAccount, error) {
	rows, err := r.pool.Query(ctx, cashAccountQuery+`WHERE p.tenant_id = $1 ORDER BY ca.id`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list cash accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.CashAccount
	for rows.Next() {
		account, err := scanCashAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

func scanSecurityScope(row rowScanner) (domain.SecurityScope, error) {
	var (
		scope domain.SecurityScope
		vpp   pgtype.Numeric
	)
	err := row.Scan(
		&scope.TenantID,
		&scope.PortfolioID,
		&scope.AccountID,
		&scope.InstrumentID,
		&scope.InstrumentCurrency,
		&scope.PortfolioCurrency,
		&scope.TenantCurrency,
		&scope.Margin,
		&vpp,
	)
	if err != nil {
		return domain.SecurityScope{}, err
	}
	scope.ValuePerPoint = numericToDecimal(vpp)
	return scope, nil
}

func scanCashAccount(row rowScanner) (domain.CashAccount, error) {
	var a domain.CashAccount
	err := row.Scan(&a.ID, &a.TenantID, &a.PortfolioID, &a.Currency, &a.PortfolioCurrency, &a.TenantCurrency)
	return a, err
}
