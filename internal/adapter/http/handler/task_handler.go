package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/goholdings/internal/adapter/http/dto"
	"github.com/iho/goholdings/internal/domain"
)

// TaskService is the part of usecase.TaskUseCase the handlers need.
type TaskService interface {
	Enqueue(ctx context.Context, task domain.RebuildTask) (*domain.RebuildTask, error)
	EnqueueTenantRebuilds(ctx context.Context, tenantIDs []string) ([]*domain.RebuildTask, error)
	GetTask(ctx context.Context, id string) (*domain.RebuildTask, error)
}

// TaskHandler turns rebuild triggers into queued tasks. Every trigger
// answers 202 with the task; the work happens in the task runner.
type TaskHandler struct {
	tasks TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// Create enqueues an arbitrary task.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.EnqueueTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	h.enqueue(w, r, req.ToDomain())
}

// Get retrieves a task by ID.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing task ID", "")
		return
	}

	task, err := h.tasks.GetTask(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get task", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TaskFromDomain(task))
}

// RebuildTenant enqueues a full rebuild of one tenant.
func (h *TaskHandler) RebuildTenant(w http.ResponseWriter, r *http.Request) {
	h.enqueue(w, r, domain.RebuildTask{
		Kind:     domain.TaskTenantFull,
		TenantID: chi.URLParam(r, "tenantID"),
	})
}

// RebuildAllTenants enqueues a full rebuild of every tenant.
func (h *TaskHandler) RebuildAllTenants(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.tasks.EnqueueTenantRebuilds(r.Context(), nil)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to enqueue rebuilds", err.Error())
		return
	}

	writeJSON(w, http.StatusAccepted, dto.TasksFromDomain(tasks))
}

// RebuildSecurity enqueues a rebuild of one (account, instrument) scope.
func (h *TaskHandler) RebuildSecurity(w http.ResponseWriter, r *http.Request) {
	var req dto.RebuildSecurityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	h.enqueue(w, r, req.ToDomain())
}

// RebuildInstrument enqueues a rebuild of every scope holding an instrument.
func (h *TaskHandler) RebuildInstrument(w http.ResponseWriter, r *http.Request) {
	h.enqueue(w, r, domain.RebuildTask{
		Kind:         domain.TaskInstrumentSplit,
		InstrumentID: chi.URLParam(r, "id"),
	})
}

// RebuildCashAccount enqueues a rebuild of one cash account.
func (h *TaskHandler) RebuildCashAccount(w http.ResponseWriter, r *http.Request) {
	h.enqueue(w, r, domain.RebuildTask{
		Kind:          domain.TaskCashAccount,
		CashAccountID: chi.URLParam(r, "id"),
	})
}

// CorrectRates enqueues a deposit recomputation after rate corrections.
func (h *TaskHandler) CorrectRates(w http.ResponseWriter, r *http.Request) {
	var req dto.RateCorrectionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	h.enqueue(w, r, req.ToDomain(chi.URLParam(r, "tenantID")))
}

func (h *TaskHandler) enqueue(w http.ResponseWriter, r *http.Request, task domain.RebuildTask) {
	created, err := h.tasks.Enqueue(r.Context(), task)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to enqueue task", err.Error())
		return
	}

	writeJSON(w, http.StatusAccepted, dto.TaskFromDomain(created))
}
