package dto

import (
	"time"

	"github.com/iho/goholdings/internal/domain"
)

// TaskResponse represents a rebuild task in API responses.
type TaskResponse struct {
	ID            string            `json:"id"`
	Kind          domain.TaskKind   `json:"kind"`
	Status        domain.TaskStatus `json:"status"`
	ScopeKey      string            `json:"scope_key,omitempty"`
	TenantID      string            `json:"tenant_id,omitempty"`
	AccountID     string            `json:"account_id,omitempty"`
	InstrumentID  string            `json:"instrument_id,omitempty"`
	CashAccountID string            `json:"cash_account_id,omitempty"`
	Currencies    []string          `json:"currencies,omitempty"`
	FromDate      *domain.Date      `json:"from_date,omitempty"`
	Error         string            `json:"error,omitempty"`
	Attempts      int               `json:"attempts"`
	CreatedAt     time.Time         `json:"created_at"`
	ProcessedAt   *time.Time        `json:"processed_at,omitempty"`
}

// TaskFromDomain converts a domain task to a response.
func TaskFromDomain(t *domain.RebuildTask) *TaskResponse {
	resp := &TaskResponse{
		ID:            t.ID,
		Kind:          t.Kind,
		Status:        t.Status,
		TenantID:      t.TenantID,
		AccountID:     t.AccountID,
		InstrumentID:  t.InstrumentID,
		CashAccountID: t.CashAccountID,
		Currencies:    t.Currencies,
		Error:         t.Error,
		Attempts:      t.Attempts,
		CreatedAt:     t.CreatedAt,
		ProcessedAt:   t.ProcessedAt,
	}
	if t.Validate() == nil {
		resp.ScopeKey = t.ScopeKey()
	}
	if !t.FromDate.IsZero() {
		from := t.FromDate
		resp.FromDate = &from
	}
	return resp
}

// TasksFromDomain converts domain tasks to responses.
func TasksFromDomain(tasks []*domain.RebuildTask) []*TaskResponse {
	result := make([]*TaskResponse, len(tasks))
	for i, t := range tasks {
		result[i] = TaskFromDomain(t)
	}
	return result
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
