package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/iho/goholdings/internal/domain"
)

// MemoryAccountRepository is an in-memory implementation of AccountRepository.
type MemoryAccountRepository struct {
	mu           sync.RWMutex
	scopes       []domain.SecurityScope
	cashAccounts []domain.CashAccount

	GetSecurityScopeFunc func(ctx context.Context, accountID, instrumentID string) (*domain.SecurityScope, error)
	GetCashAccountFunc   func(ctx context.Context, id string) (*domain.CashAccount, error)
}

func NewMemoryAccountRepository() *MemoryAccountRepository {
	return &MemoryAccountRepository{}
}

func (m *MemoryAccountRepository) AddSecurityScope(scope domain.SecurityScope) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scopes = append(m.scopes, scope)
}

func (m *MemoryAccountRepository) AddCashAccount(account domain.CashAccount) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cashAccounts = append(m.cashAccounts, account)
}

func (m *MemoryAccountRepository) ListTenants(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := make(map[string]bool)
	var tenants []string
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			tenants = append(tenants, id)
		}
	}
	for _, s := range m.scopes {
		add(s.TenantID)
	}
	for _, a := range m.cashAccounts {
		add(a.TenantID)
	}
	sort.Strings(tenants)
	return tenants, nil
}

func (m *MemoryAccountRepository) GetSecurityScope(ctx context.Context, accountID, instrumentID string) (*domain.SecurityScope, error) {
	if m.GetSecurityScopeFunc != nil {
		return m.GetSecurityScopeFunc(ctx, accountID, instrumentID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.scopes {
		if s.AccountID == accountID && s.InstrumentID == instrumentID {
			scope := s
			return &scope, nil
		}
	}
	return nil, domain.ErrScopeNotFound
}

func (m *MemoryAccountRepository) ListSecurityScopes(ctx context.Context, tenantID string) ([]domain.SecurityScope, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.SecurityScope
	for _, s := range m.scopes {
		if s.TenantID == tenantID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *MemoryAccountRepository) ListSecurityScopesByInstrument(ctx context.Context, instrumentID string) ([]domain.SecurityScope, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.SecurityScope
	for _, s := range m.scopes {
		if s.InstrumentID == instrumentID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *MemoryAccountRepository) GetCashAccount(ctx context.Context, id string) (*domain.CashAccount, error) {
	if m.GetCashAccountFunc != nil {
		return m.GetCashAccountFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.cashAccounts {
		if a.ID == id {
			account := a
			return &account, nil
		}
	}
	return nil, domain.ErrCashAccountNotFound
}

func (m *MemoryAccountRepository) ListCashAccounts(ctx context.Context, tenantID string) ([]domain.CashAccount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.CashAccount
	for _, a := range m.cashAccounts {
		if a.TenantID == tenantID {
			out = append(out, a)
		}
	}
	return out, nil
}

// MemoryTransactionRepository is an in-memory implementation of
// TransactionRepository.
type MemoryTransactionRepository struct {
	mu       sync.RWMutex
	txs      map[string]*domain.Transaction
	accounts *MemoryAccountRepository

	ListSecurityTransactionsFunc func(ctx context.Context, key domain.SecurityScopeKey, from domain.Date) ([]*domain.Transaction, error)
}

func NewMemoryTransactionRepository() *MemoryTransactionRepository {
	return &MemoryTransactionRepository{txs: make(map[string]*domain.Transaction)}
}

// UseAccounts lets currency queries match the portfolio and tenant
// currency of a deposit's cash account.
func (m *MemoryTransactionRepository) UseAccounts(accounts *MemoryAccountRepository) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts = accounts
}

// Put inserts or replaces a transaction.
func (m *MemoryTransactionRepository) Put(tx *domain.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *tx
	m.txs[tx.ID] = &cp
}

// Delete removes a transaction.
func (m *MemoryTransactionRepository) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.txs, id)
}

func (m *MemoryTransactionRepository) filter(match func(tx *domain.Transaction) bool) []*domain.Transaction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Transaction
	for _, tx := range m.txs {
		if match(tx) {
			cp := *tx
			out = append(out, &cp)
		}
	}
	domain.SortTransactions(out)
	return out
}

func (m *MemoryTransactionRepository) ListSecurityTransactions(ctx context.Context, key domain.SecurityScopeKey, from domain.Date) ([]*domain.Transaction, error) {
	if m.ListSecurityTransactionsFunc != nil {
		return m.ListSecurityTransactionsFunc(ctx, key, from)
	}
	return m.filter(func(tx *domain.Transaction) bool {
		return tx.Type.IsTrade() &&
			tx.SecurityAccountID == key.AccountID &&
			tx.InstrumentID != nil && *tx.InstrumentID == key.InstrumentID &&
			!tx.Date().Before(from)
	}), nil
}

func (m *MemoryTransactionRepository) ListCashTransactions(ctx context.Context, cashAccountID string, from domain.Date) ([]*domain.Transaction, error) {
	return m.filter(func(tx *domain.Transaction) bool {
		return tx.CashAccountID == cashAccountID && !tx.Date().Before(from)
	}), nil
}

func (m *MemoryTransactionRepository) ListDepositTransactions(ctx context.Context, cashAccountID string, from domain.Date) ([]*domain.Transaction, error) {
	return m.filter(func(tx *domain.Transaction) bool {
		return tx.Type.IsCashFlow() && tx.CashAccountID == cashAccountID && !tx.Date().Before(from)
	}), nil
}

func (m *MemoryTransactionRepository) ListDepositsByCurrencies(ctx context.Context, tenantID string, currencies []string, since domain.Date) ([]*domain.Transaction, error) {
	wanted := make(map[string]bool, len(currencies))
	for _, c := range currencies {
		wanted[c] = true
	}
	m.mu.RLock()
	accounts := m.accounts
	m.mu.RUnlock()
	touches := func(tx *domain.Transaction) bool {
		if wanted[tx.Currency] {
			return true
		}
		if accounts == nil {
			return false
		}
		account, err := accounts.GetCashAccount(ctx, tx.CashAccountID)
		if err != nil {
			return false
		}
		return wanted[account.PortfolioCurrency] || wanted[account.TenantCurrency]
	}
	return m.filter(func(tx *domain.Transaction) bool {
		return tx.Type.IsCashFlow() && tx.TenantID == tenantID && !tx.Date().Before(since) && touches(tx)
	}), nil
}

func (m *MemoryTransactionRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.Transaction, error) {
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	return m.filter(func(tx *domain.Transaction) bool { return wanted[tx.ID] }), nil
}

// MemorySplitRepository is an in-memory implementation of SplitRepository.
type MemorySplitRepository struct {
	mu     sync.RWMutex
	splits map[string][]domain.Split
}

func NewMemorySplitRepository() *MemorySplitRepository {
	return &MemorySplitRepository{splits: make(map[string][]domain.Split)}
}

func (m *MemorySplitRepository) Add(s domain.Split) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.splits[s.InstrumentID] = append(m.splits[s.InstrumentID], s)
}

func (m *MemorySplitRepository) ListByInstrument(ctx context.Context, instrumentID string) ([]domain.Split, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.Split(nil), m.splits[instrumentID]...), nil
}

// MemoryCurrencyRepository is an in-memory implementation of
// CurrencyRepository. Pair ids are assigned in creation order.
type MemoryCurrencyRepository struct {
	mu    sync.Mutex
	pairs map[domain.PairKey]int64
	rates []domain.Rate

	EnsurePairCalls int
}

func NewMemoryCurrencyRepository() *MemoryCurrencyRepository {
	return &MemoryCurrencyRepository{pairs: make(map[domain.PairKey]int64)}
}

func (m *MemoryCurrencyRepository) AddRate(r domain.Rate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rates = append(m.rates, r)
}

func (m *MemoryCurrencyRepository) EnsurePair(ctx context.Context, from, to string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EnsurePairCalls++
	key := domain.PairKey{From: from, To: to}
	if id, ok := m.pairs[key]; ok {
		return id, nil
	}
	id := int64(len(m.pairs) + 1)
	m.pairs[key] = id
	return id, nil
}

func (m *MemoryCurrencyRepository) ListRates(ctx context.Context, pairs []domain.PairKey) ([]domain.Rate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wanted := make(map[domain.PairKey]bool, len(pairs))
	for _, p := range pairs {
		wanted[p] = true
	}
	var out []domain.Rate
	for _, r := range m.rates {
		if wanted[domain.PairKey{From: r.From, To: r.To}] {
			out = append(out, r)
		}
	}
	return out, nil
}

// MemorySecurityHoldingRepository is an in-memory implementation of
// SecurityHoldingRepository.
type MemorySecurityHoldingRepository struct {
	mu       sync.RWMutex
	holdings map[domain.SecurityScopeKey][]domain.SecurityHolding

	ReplaceFromCalls int
	ReplaceFromFunc  func(ctx context.Context, key domain.SecurityScopeKey, from domain.Date, holdings []domain.SecurityHolding) error
}

func NewMemorySecurityHoldingRepository() *MemorySecurityHoldingRepository {
	return &MemorySecurityHoldingRepository{holdings: make(map[domain.SecurityScopeKey][]domain.SecurityHolding)}
}

func (m *MemorySecurityHoldingRepository) LastBefore(ctx context.Context, key domain.SecurityScopeKey, date domain.Date) (*domain.SecurityHolding, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	hs := m.holdings[key]
	for i := len(hs) - 1; i >= 0; i-- {
		if hs[i].FromDate.Before(date) {
			h := hs[i]
			return &h, nil
		}
	}
	return nil, nil
}

func (m *MemorySecurityHoldingRepository) ListByScope(ctx context.Context, key domain.SecurityScopeKey) ([]domain.SecurityHolding, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.SecurityHolding(nil), m.holdings[key]...), nil
}

func (m *MemorySecurityHoldingRepository) ReplaceFrom(ctx context.Context, key domain.SecurityScopeKey, from domain.Date, holdings []domain.SecurityHolding) error {
	if m.ReplaceFromFunc != nil {
		return m.ReplaceFromFunc(ctx, key, from, holdings)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReplaceFromCalls++
	kept := keepBefore(m.holdings[key], from, func(h domain.SecurityHolding) domain.Date { return h.FromDate })
	m.holdings[key] = append(kept, holdings...)
	return nil
}

// MemoryCashBalanceRepository is an in-memory implementation of
// CashBalanceRepository.
type MemoryCashBalanceRepository struct {
	mu       sync.RWMutex
	balances map[string][]domain.CashBalance
}

func NewMemoryCashBalanceRepository() *MemoryCashBalanceRepository {
	return &MemoryCashBalanceRepository{balances: make(map[string][]domain.CashBalance)}
}

func (m *MemoryCashBalanceRepository) LastBefore(ctx context.Context, cashAccountID string, date domain.Date) (*domain.CashBalance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	bs := m.balances[cashAccountID]
	for i := len(bs) - 1; i >= 0; i-- {
		if bs[i].FromDate.Before(date) {
			b := bs[i]
			return &b, nil
		}
	}
	return nil, nil
}

func (m *MemoryCashBalanceRepository) ListByAccount(ctx context.Context, cashAccountID string) ([]domain.CashBalance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.CashBalance(nil), m.balances[cashAccountID]...), nil
}

func (m *MemoryCashBalanceRepository) ReplaceFrom(ctx context.Context, cashAccountID string, from domain.Date, balances []domain.CashBalance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := keepBefore(m.balances[cashAccountID], from, func(b domain.CashBalance) domain.Date { return b.FromDate })
	m.balances[cashAccountID] = append(kept, balances...)
	return nil
}

// MemoryCashDepositRepository is an in-memory implementation of
// CashDepositRepository.
type MemoryCashDepositRepository struct {
	mu       sync.RWMutex
	deposits map[string][]domain.CashDeposit
}

func NewMemoryCashDepositRepository() *MemoryCashDepositRepository {
	return &MemoryCashDepositRepository{deposits: make(map[string][]domain.CashDeposit)}
}

func (m *MemoryCashDepositRepository) LastBefore(ctx context.Context, cashAccountID string, date domain.Date) (*domain.CashDeposit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ds := m.deposits[cashAccountID]
	for i := len(ds) - 1; i >= 0; i-- {
		if ds[i].FromDate.Before(date) {
			d := ds[i]
			return &d, nil
		}
	}
	return nil, nil
}

func (m *MemoryCashDepositRepository) ListByAccount(ctx context.Context, cashAccountID string) ([]domain.CashDeposit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.CashDeposit(nil), m.deposits[cashAccountID]...), nil
}

func (m *MemoryCashDepositRepository) ReplaceFrom(ctx context.Context, cashAccountID string, from domain.Date, deposits []domain.CashDeposit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := keepBefore(m.deposits[cashAccountID], from, func(d domain.CashDeposit) domain.Date { return d.FromDate })
	m.deposits[cashAccountID] = append(kept, deposits...)
	return nil
}

func keepBefore[T any](items []T, from domain.Date, fromDate func(T) domain.Date) []T {
	var kept []T
	for _, it := range items {
		if fromDate(it).Before(from) {
			kept = append(kept, it)
		}
	}
	return kept
}

// MemoryTaskRepository is an in-memory implementation of TaskRepository.
type MemoryTaskRepository struct {
	mu    sync.RWMutex
	tasks []*domain.RebuildTask

	GetPendingFunc func(ctx context.Context, limit int) ([]*domain.RebuildTask, error)
}

func NewMemoryTaskRepository() *MemoryTaskRepository {
	return &MemoryTaskRepository{}
}

func (m *MemoryTaskRepository) Create(ctx context.Context, task *domain.RebuildTask) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *task
	m.tasks = append(m.tasks, &cp)
	return nil
}

func (m *MemoryTaskRepository) GetByID(ctx context.Context, id string) (*domain.RebuildTask, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.tasks {
		if t.ID == id {
			cp := *t
			return &cp, nil
		}
	}
	return nil, domain.ErrTaskNotFound
}

func (m *MemoryTaskRepository) GetPending(ctx context.Context, limit int) ([]*domain.RebuildTask, error) {
	if m.GetPendingFunc != nil {
		return m.GetPendingFunc(ctx, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.RebuildTask
	for _, t := range m.tasks {
		if t.Status == domain.TaskStatusPending && len(out) < limit {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MemoryTaskRepository) MarkDone(ctx context.Context, id string, processedAt time.Time) error {
	return m.update(id, func(t *domain.RebuildTask) {
		t.Status = domain.TaskStatusDone
		t.ProcessedAt = &processedAt
		t.Attempts++
	})
}

func (m *MemoryTaskRepository) MarkFailed(ctx context.Context, id string, reason string, processedAt time.Time) error {
	return m.update(id, func(t *domain.RebuildTask) {
		t.Status = domain.TaskStatusFailed
		t.Error = reason
		t.ProcessedAt = &processedAt
		t.Attempts++
	})
}

func (m *MemoryTaskRepository) DeleteProcessed(ctx context.Context, before time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []*domain.RebuildTask
	for _, t := range m.tasks {
		if t.Status != domain.TaskStatusPending && t.ProcessedAt != nil && t.ProcessedAt.Before(before) {
			continue
		}
		kept = append(kept, t)
	}
	m.tasks = kept
	return nil
}

func (m *MemoryTaskRepository) update(id string, fn func(t *domain.RebuildTask)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tasks {
		if t.ID == id {
			fn(t)
			return nil
		}
	}
	return domain.ErrTaskNotFound
}

// MemoryScopeLocker is an in-memory implementation of ScopeLocker. Expiry
// is not modelled.
type MemoryScopeLocker struct {
	mu         sync.Mutex
	held       map[string]string
	extensions map[string]int
	counter    int
}

func NewMemoryScopeLocker() *MemoryScopeLocker {
	return &MemoryScopeLocker{held: make(map[string]string), extensions: make(map[string]int)}
}

func (m *MemoryScopeLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.held[key]; ok {
		return "", false, nil
	}
	m.counter++
	token := fmt.Sprintf("token-%d", m.counter)
	m.held[key] = token
	return token, true, nil
}

func (m *MemoryScopeLocker) Unlock(ctx context.Context, key, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held[key] == token {
		delete(m.held, key)
	}
	return nil
}

// Held reports whether key is currently locked.
func (m *MemoryScopeLocker) Held(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.held[key]
	return ok
}

func (m *MemoryScopeLocker) Extend(ctx context.Context, key, token string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held[key] != token {
		return false, nil
	}
	m.extensions[key]++
	return true, nil
}

func (m *MemoryScopeLocker) IsLocked(ctx context.Context, key string) (bool, error) {
	return m.Held(key), nil
}

// Hold takes key on behalf of another owner and returns its token.
func (m *MemoryScopeLocker) Hold(key string) string {
	token, _, _ := m.TryLock(context.Background(), key, 0)
	return token
}

// Expire drops key as if its ttl had run out.
func (m *MemoryScopeLocker) Expire(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.held, key)
}

// Extensions returns how often key was extended.
func (m *MemoryScopeLocker) Extensions(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.extensions[key]
}

// MemoryIDGenerator returns sequential ids.
type MemoryIDGenerator struct {
	mu      sync.Mutex
	counter int
}

func NewMemoryIDGenerator() *MemoryIDGenerator {
	return &MemoryIDGenerator{}
}

func (m *MemoryIDGenerator) Generate() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%d", m.counter)
}
