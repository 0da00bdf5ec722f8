package domain

import (
	"fmt"
	"slices"
	"time"
)

// TaskKind selects the rebuild operation of a task.
type TaskKind string

const (
	TaskTenantFull          TaskKind = "tenant_full"
	TaskSecurityScope       TaskKind = "security_scope"
	TaskSecurityTransaction TaskKind = "security_transaction"
	TaskInstrumentSplit     TaskKind = "instrument_split"
	TaskCashAccount         TaskKind = "cash_account"
	TaskCashTransaction     TaskKind = "cash_transaction"
	TaskRateCorrection      TaskKind = "rate_correction"
)

// TaskStatus is the processing state of a task.
type TaskStatus string

const (
	TaskStatusPending TaskStatus = "pending"
	TaskStatusDone    TaskStatus = "done"
	TaskStatusFailed  TaskStatus = "failed"
)

// RebuildTask is a request, written by the ledger side, to recompute
// snapshots. Only the fields relevant to Kind are set.
type RebuildTask struct {
	CreatedAt     time.Time
	ProcessedAt   *time.Time
	ID            string
	Kind          TaskKind
	Status        TaskStatus
	Error         string
	TenantID      string
	AccountID     string
	InstrumentID  string
	CashAccountID string
	// Change and Related carry the ledger mutation for transaction tasks.
	Change     *TransactionChange
	Related    *TransactionChange
	FromDate   Date
	Currencies []string
	Attempts   int
}

// Validate checks that the fields Kind needs are present and well formed.
func (t *RebuildTask) Validate() error {
	switch t.Kind {
	case TaskTenantFull:
		if t.TenantID == "" {
			return fmt.Errorf("%w: %s needs tenant_id", ErrInvalidTask, t.Kind)
		}
		return t.validateIDs(t.TenantID)
	case TaskSecurityScope:
		if t.AccountID == "" || t.InstrumentID == "" {
			return fmt.Errorf("%w: %s needs account_id and instrument_id", ErrInvalidTask, t.Kind)
		}
		return t.validateIDs(t.AccountID, t.InstrumentID)
	case TaskInstrumentSplit:
		if t.InstrumentID == "" {
			return fmt.Errorf("%w: %s needs instrument_id", ErrInvalidTask, t.Kind)
		}
		return t.validateIDs(t.InstrumentID)
	case TaskCashAccount:
		if t.CashAccountID == "" {
			return fmt.Errorf("%w: %s needs cash_account_id", ErrInvalidTask, t.Kind)
		}
		return t.validateIDs(t.CashAccountID)
	case TaskSecurityTransaction, TaskCashTransaction:
		if t.Change == nil || t.Change.Current() == nil {
			return fmt.Errorf("%w: %s needs a transaction change", ErrInvalidTask, t.Kind)
		}
	case TaskRateCorrection:
		if t.TenantID == "" || len(t.Currencies) == 0 || t.FromDate.IsZero() {
			return fmt.Errorf("%w: %s needs tenant_id, currencies and from_date", ErrInvalidTask, t.Kind)
		}
		for _, c := range t.Currencies {
			if err := ValidateCurrency(c); err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidTask, err)
			}
		}
		return t.validateIDs(t.TenantID)
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidTask, t.Kind)
	}
	return nil
}

func (t *RebuildTask) validateIDs(ids ...string) error {
	for _, id := range ids {
		if err := ValidateID(id); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidTask, err)
		}
	}
	return nil
}

// ScopeKey returns the key a task is displayed under.
func (t *RebuildTask) ScopeKey() string {
	switch t.Kind {
	case TaskSecurityScope:
		return SecurityScopeKey{AccountID: t.AccountID, InstrumentID: t.InstrumentID}.String()
	case TaskSecurityTransaction:
		tx := t.Change.Current()
		if tx.InstrumentID != nil {
			return SecurityScopeKey{AccountID: tx.SecurityAccountID, InstrumentID: *tx.InstrumentID}.String()
		}
		return CashScopeKey(tx.CashAccountID)
	case TaskInstrumentSplit:
		return InstrumentScopeKey(t.InstrumentID)
	case TaskCashAccount:
		return CashScopeKey(t.CashAccountID)
	case TaskCashTransaction:
		return CashScopeKey(t.Change.Current().CashAccountID)
	default:
		return TenantScopeKey(t.TenantID)
	}
}

// LockKeys returns the keys of every timeline the task writes that can be
// named from the task alone, sorted. Tenant and instrument wide tasks also
// need the keys of the scopes below them.
func (t *RebuildTask) LockKeys() []string {
	var keys []string
	switch t.Kind {
	case TaskTenantFull, TaskRateCorrection:
		keys = append(keys, TenantScopeKey(t.TenantID))
	case TaskSecurityScope:
		keys = append(keys, SecurityScopeKey{AccountID: t.AccountID, InstrumentID: t.InstrumentID}.String())
	case TaskInstrumentSplit:
		keys = append(keys, InstrumentScopeKey(t.InstrumentID))
	case TaskCashAccount:
		keys = append(keys, CashScopeKey(t.CashAccountID))
	case TaskSecurityTransaction, TaskCashTransaction:
		for _, tx := range t.transactions() {
			if tx.Type.IsTrade() && tx.InstrumentID != nil {
				keys = append(keys, SecurityScopeKey{AccountID: tx.SecurityAccountID, InstrumentID: *tx.InstrumentID}.String())
			}
			if tx.CashAccountID != "" {
				keys = append(keys, CashScopeKey(tx.CashAccountID))
			}
		}
	}
	return SortKeys(keys)
}

// GuardKeys returns the keys of wider tasks that must not run while this
// one writes. Guards are checked after the lock keys are taken, never held.
func (t *RebuildTask) GuardKeys() []string {
	var keys []string
	switch t.Kind {
	case TaskTenantFull, TaskRateCorrection:
		return nil
	case TaskSecurityScope:
		keys = append(keys, InstrumentScopeKey(t.InstrumentID))
	case TaskSecurityTransaction, TaskCashTransaction:
		for _, tx := range t.transactions() {
			if tx.TenantID != "" {
				keys = append(keys, TenantScopeKey(tx.TenantID))
			}
			if tx.Type.IsTrade() && tx.InstrumentID != nil {
				keys = append(keys, InstrumentScopeKey(*tx.InstrumentID))
			}
		}
	}
	if t.TenantID != "" {
		keys = append(keys, TenantScopeKey(t.TenantID))
	}
	return SortKeys(keys)
}

func (t *RebuildTask) transactions() []*Transaction {
	changes := []*TransactionChange{t.Change, t.Related}
	var out []*Transaction
	for _, c := range changes {
		if c == nil {
			continue
		}
		for _, tx := range []*Transaction{c.Before, c.After} {
			if tx != nil {
				out = append(out, tx)
			}
		}
	}
	return out
}

// SortKeys sorts lock keys and drops duplicates and blanks.
func SortKeys(keys []string) []string {
	out := slices.DeleteFunc(slices.Clone(keys), func(k string) bool { return k == "" })
	slices.Sort(out)
	return slices.Compact(out)
}
