package taskrunner

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/goholdings/internal/domain"
	"github.com/iho/goholdings/internal/infrastructure/metrics"
	"github.com/iho/goholdings/internal/usecase"
)

// Dispatcher runs one rebuild task.
type Dispatcher interface {
	Dispatch(ctx context.Context, task *domain.RebuildTask) error
}

// Runner polls the rebuild task outbox and dispatches pending tasks.
type Runner struct {
	tasks      usecase.TaskRepository
	dispatcher Dispatcher
	metrics    *metrics.Metrics
	logger     zerolog.Logger
	batchSize  int
	interval   time.Duration
	retention  time.Duration
	now        func() time.Time
}

// Config for Runner.
type Config struct {
	Tasks      usecase.TaskRepository
	Dispatcher Dispatcher
	Metrics    *metrics.Metrics
	Logger     zerolog.Logger
	BatchSize  int           // Number of tasks to fetch per poll
	Interval   time.Duration // Polling interval
	Retention  time.Duration // How long finished tasks are kept; zero keeps them forever
}

// New creates a new Runner.
func New(cfg Config) *Runner {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 50
	}
	if cfg.Interval == 0 {
		cfg.Interval = 2 * time.Second
	}

	return &Runner{
		tasks:      cfg.Tasks,
		dispatcher: cfg.Dispatcher,
		metrics:    cfg.Metrics,
		logger:     cfg.Logger.With().Str("component", "task_runner").Logger(),
		batchSize:  cfg.BatchSize,
		interval:   cfg.Interval,
		retention:  cfg.Retention,
		now:        time.Now,
	}
}

// Start polls until the context is cancelled.
func (r *Runner) Start(ctx context.Context) error {
	r.logger.Info().
		Int("batch_size", r.batchSize).
		Dur("interval", r.interval).
		Msg("task runner started")

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	// Process immediately on start
	if err := r.processTasks(ctx); err != nil {
		r.logger.Error().Err(err).Msg("error processing tasks on start")
	}

	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Msg("task runner shutting down")
			return ctx.Err()
		case <-ticker.C:
			if err := r.processTasks(ctx); err != nil {
				r.logger.Error().Err(err).Msg("error processing tasks")
			}
			r.cleanup(ctx)
		}
	}
}

// processTasks dispatches one batch of pending tasks in creation order.
// A failing task is marked failed and does not stop the batch.
func (r *Runner) processTasks(ctx context.Context) error {
	tasks, err := r.tasks.GetPending(ctx, r.batchSize)
	if err != nil {
		return err
	}
	if r.metrics != nil {
		r.metrics.TasksPending.Set(float64(len(tasks)))
	}
	if len(tasks) == 0 {
		return nil
	}

	r.logger.Debug().Int("count", len(tasks)).Msg("processing tasks")

	for _, task := range tasks {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		r.processTask(ctx, task)
	}
	return nil
}

func (r *Runner) processTask(ctx context.Context, task *domain.RebuildTask) {
	err := r.dispatcher.Dispatch(ctx, task)

	switch {
	case err == nil:
		if markErr := r.tasks.MarkDone(ctx, task.ID, r.now()); markErr != nil {
			r.logger.Error().Err(markErr).Str("task_id", task.ID).Msg("failed to mark task done")
		}
		r.observe("done")

	case errors.Is(err, domain.ErrScopeLocked):
		// Someone else is rebuilding the scope; the task stays pending
		// and is picked up by a later poll.
		r.logger.Debug().Str("task_id", task.ID).Str("kind", string(task.Kind)).Msg("scope locked, deferring task")
		r.observe("deferred")

	case errors.Is(err, context.Canceled):
		r.observe("deferred")

	default:
		if markErr := r.tasks.MarkFailed(ctx, task.ID, err.Error(), r.now()); markErr != nil {
			r.logger.Error().Err(markErr).Str("task_id", task.ID).Msg("failed to mark task failed")
		}
		r.observe("failed")
	}
}

func (r *Runner) cleanup(ctx context.Context) {
	if r.retention <= 0 {
		return
	}
	if err := r.tasks.DeleteProcessed(ctx, r.now().Add(-r.retention)); err != nil {
		r.logger.Warn().Err(err).Msg("failed to delete processed tasks")
	}
}

func (r *Runner) observe(status string) {
	if r.metrics != nil {
		r.metrics.TasksProcessed.WithLabelValues(status).Inc()
	}
}
