package dto

import (
	"github.com/iho/goholdings/internal/domain"
)

// EnqueueTaskRequest is the generic task submission used by the ledger side.
type EnqueueTaskRequest struct {
	Kind          domain.TaskKind           `json:"kind"`
	TenantID      string                    `json:"tenant_id,omitempty"`
	AccountID     string                    `json:"account_id,omitempty"`
	InstrumentID  string                    `json:"instrument_id,omitempty"`
	CashAccountID string                    `json:"cash_account_id,omitempty"`
	Change        *domain.TransactionChange `json:"change,omitempty"`
	Related       *domain.TransactionChange `json:"related,omitempty"`
	FromDate      domain.Date               `json:"from_date"`
	Currencies    []string                  `json:"currencies,omitempty"`
}

// ToDomain converts the request to a task. Validation is left to the use case.
func (r *EnqueueTaskRequest) ToDomain() domain.RebuildTask {
	return domain.RebuildTask{
		Kind:          r.Kind,
		TenantID:      r.TenantID,
		AccountID:     r.AccountID,
		InstrumentID:  r.InstrumentID,
		CashAccountID: r.CashAccountID,
		Change:        r.Change,
		Related:       r.Related,
		FromDate:      r.FromDate,
		Currencies:    r.Currencies,
	}
}

// RebuildSecurityRequest selects one (account, instrument) scope.
type RebuildSecurityRequest struct {
	AccountID    string `json:"account_id"`
	InstrumentID string `json:"instrument_id"`
}

// ToDomain converts the request to a security scope task.
func (r *RebuildSecurityRequest) ToDomain() domain.RebuildTask {
	return domain.RebuildTask{
		Kind:         domain.TaskSecurityScope,
		AccountID:    r.AccountID,
		InstrumentID: r.InstrumentID,
	}
}

// RateCorrectionRequest reports corrected exchange rates for a tenant.
type RateCorrectionRequest struct {
	Currencies []string    `json:"currencies"`
	FromDate   domain.Date `json:"from_date"`
}

// ToDomain converts the request to a rate correction task for tenantID.
func (r *RateCorrectionRequest) ToDomain(tenantID string) domain.RebuildTask {
	return domain.RebuildTask{
		Kind:       domain.TaskRateCorrection,
		TenantID:   tenantID,
		Currencies: r.Currencies,
		FromDate:   r.FromDate,
	}
}
