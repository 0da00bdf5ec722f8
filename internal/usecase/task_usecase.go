package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/iho/goholdings/internal/domain"
)

// TaskUseCase enqueues and inspects rebuild tasks.
type TaskUseCase struct {
	taskRepo    TaskRepository
	accountRepo AccountRepository
	idGen       IDGenerator
}

// NewTaskUseCase creates a new TaskUseCase.
func NewTaskUseCase(taskRepo TaskRepository, accountRepo AccountRepository, idGen IDGenerator) *TaskUseCase {
	return &TaskUseCase{
		taskRepo:    taskRepo,
		accountRepo: accountRepo,
		idGen:       idGen,
	}
}

// Enqueue validates a task and stores it as pending.
func (uc *TaskUseCase) Enqueue(ctx context.Context, task domain.RebuildTask) (*domain.RebuildTask, error) {
	if err := task.Validate(); err != nil {
		return nil, err
	}

	task.ID = uc.idGen.Generate()
	task.Status = domain.TaskStatusPending
	task.Error = ""
	task.Attempts = 0
	task.ProcessedAt = nil
	task.CreatedAt = time.Now().UTC()

	if err := uc.taskRepo.Create(ctx, &task); err != nil {
		return nil, fmt.Errorf("enqueue %s task: %w", task.Kind, err)
	}
	return &task, nil
}

// EnqueueTenantRebuilds enqueues a full rebuild per tenant. An empty list
// means every tenant.
func (uc *TaskUseCase) EnqueueTenantRebuilds(ctx context.Context, tenantIDs []string) ([]*domain.RebuildTask, error) {
	if len(tenantIDs) == 0 {
		all, err := uc.accountRepo.ListTenants(ctx)
		if err != nil {
			return nil, fmt.Errorf("list tenants: %w", err)
		}
		tenantIDs = all
	}

	tasks := make([]*domain.RebuildTask, 0, len(tenantIDs))
	for _, tenantID := range tenantIDs {
		task, err := uc.Enqueue(ctx, domain.RebuildTask{Kind: domain.TaskTenantFull, TenantID: tenantID})
		if err != nil {
			return tasks, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// GetTask retrieves a task by ID.
func (uc *TaskUseCase) GetTask(ctx context.Context, id string) (*domain.RebuildTask, error) {
	return uc.taskRepo.GetByID(ctx, id)
}
