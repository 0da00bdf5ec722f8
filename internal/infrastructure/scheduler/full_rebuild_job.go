package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/goholdings/internal/domain"
)

// TaskEnqueuer creates tenant rebuild tasks.
type TaskEnqueuer interface {
	EnqueueTenantRebuilds(ctx context.Context, tenantIDs []string) ([]*domain.RebuildTask, error)
}

// FullRebuildJob periodically enqueues a tenant_full task per tenant. The
// rebuild itself runs in the task runner, so a slow tenant never delays
// the schedule.
type FullRebuildJob struct {
	enqueuer TaskEnqueuer
	tenants  []string
	timeout  time.Duration
	log      zerolog.Logger
}

// NewFullRebuildJob creates the job. An empty tenant list means every tenant.
func NewFullRebuildJob(enqueuer TaskEnqueuer, tenants []string, log zerolog.Logger) *FullRebuildJob {
	return &FullRebuildJob{
		enqueuer: enqueuer,
		tenants:  tenants,
		timeout:  time.Minute,
		log:      log,
	}
}

func (j *FullRebuildJob) Name() string { return "full_rebuild" }

func (j *FullRebuildJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	tasks, err := j.enqueuer.EnqueueTenantRebuilds(ctx, j.tenants)
	if err != nil {
		return err
	}
	j.log.Info().Int("tasks", len(tasks)).Msg("enqueued full rebuilds")
	return nil
}
