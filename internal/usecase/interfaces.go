package usecase

import (
	"context"
	"time"

	"github.com/iho/goholdings/internal/domain"
)

// AccountRepository reads the reference data that defines rebuild scopes.
type AccountRepository interface {
	ListTenants(ctx context.Context) ([]string, error)
	GetSecurityScope(ctx context.Context, accountID, instrumentID string) (*domain.SecurityScope, error)
	ListSecurityScopes(ctx context.Context, tenantID string) ([]domain.SecurityScope, error)
	ListSecurityScopesByInstrument(ctx context.Context, instrumentID string) ([]domain.SecurityScope, error)
	GetCashAccount(ctx context.Context, id string) (*domain.CashAccount, error)
	ListCashAccounts(ctx context.Context, tenantID string) ([]domain.CashAccount, error)
}

// TransactionRepository reads ledger transactions. Every list is sorted by
// time and id.
type TransactionRepository interface {
	// ListSecurityTransactions returns trades of the scope dated on or after from.
	ListSecurityTransactions(ctx context.Context, key domain.SecurityScopeKey, from domain.Date) ([]*domain.Transaction, error)
	// ListCashTransactions returns all transactions of the cash account dated on or after from.
	ListCashTransactions(ctx context.Context, cashAccountID string, from domain.Date) ([]*domain.Transaction, error)
	// ListDepositTransactions returns deposits and withdrawals of the cash account dated on or after from.
	ListDepositTransactions(ctx context.Context, cashAccountID string, from domain.Date) ([]*domain.Transaction, error)
	// ListDepositsByCurrencies returns the tenant's deposits and withdrawals on or
	// after since whose currency, or whose account's target currencies, are listed.
	ListDepositsByCurrencies(ctx context.Context, tenantID string, currencies []string, since domain.Date) ([]*domain.Transaction, error)
	GetByIDs(ctx context.Context, ids []string) ([]*domain.Transaction, error)
}

// SplitRepository reads split history.
type SplitRepository interface {
	ListByInstrument(ctx context.Context, instrumentID string) ([]domain.Split, error)
}

// CurrencyRepository resolves currency pairs and historical rates.
type CurrencyRepository interface {
	// EnsurePair returns the id of the pair, creating it if absent.
	EnsurePair(ctx context.Context, from, to string) (int64, error)
	ListRates(ctx context.Context, pairs []domain.PairKey) ([]domain.Rate, error)
}

// SecurityHoldingRepository persists security holding timelines.
type SecurityHoldingRepository interface {
	// LastBefore returns the latest holding starting before date, or nil.
	LastBefore(ctx context.Context, key domain.SecurityScopeKey, date domain.Date) (*domain.SecurityHolding, error)
	ListByScope(ctx context.Context, key domain.SecurityScopeKey) ([]domain.SecurityHolding, error)
	// ReplaceFrom atomically deletes holdings starting on or after from and
	// inserts holdings in their place.
	ReplaceFrom(ctx context.Context, key domain.SecurityScopeKey, from domain.Date, holdings []domain.SecurityHolding) error
}

// CashBalanceRepository persists cash balance timelines.
type CashBalanceRepository interface {
	LastBefore(ctx context.Context, cashAccountID string, date domain.Date) (*domain.CashBalance, error)
	ListByAccount(ctx context.Context, cashAccountID string) ([]domain.CashBalance, error)
	ReplaceFrom(ctx context.Context, cashAccountID string, from domain.Date, balances []domain.CashBalance) error
}

// CashDepositRepository persists cash deposit timelines.
type CashDepositRepository interface {
	LastBefore(ctx context.Context, cashAccountID string, date domain.Date) (*domain.CashDeposit, error)
	ListByAccount(ctx context.Context, cashAccountID string) ([]domain.CashDeposit, error)
	ReplaceFrom(ctx context.Context, cashAccountID string, from domain.Date, deposits []domain.CashDeposit) error
}

// TaskRepository defines data access for the rebuild task outbox.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.RebuildTask) error
	GetByID(ctx context.Context, id string) (*domain.RebuildTask, error)
	GetPending(ctx context.Context, limit int) ([]*domain.RebuildTask, error)
	MarkDone(ctx context.Context, id string, processedAt time.Time) error
	MarkFailed(ctx context.Context, id string, reason string, processedAt time.Time) error
	DeleteProcessed(ctx context.Context, before time.Time) error
}

// ScopeLocker serializes rebuilds of the same scope across processes.
type ScopeLocker interface {
	// TryLock returns ok=false when the key is held by someone else.
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error)
	// Extend resets the ttl of a lock still held with token. It returns
	// false once the lock has expired or been taken over.
	Extend(ctx context.Context, key, token string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key, token string) error
	// IsLocked reports whether anyone holds key.
	IsLocked(ctx context.Context, key string) (bool, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}
