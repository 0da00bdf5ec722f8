package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iho/goholdings/internal/domain"
)

const taskSelect = `
	SELECT id, kind, status, tenant_id, account_id, instrument_id, cash_account_id,
	       change, related, from_date, currencies, error, attempts,
	       created_at, processed_at
	FROM rebuild_tasks
`

// TaskRepository stores the rebuild task outbox.
type TaskRepository struct {
	pool pgxPool
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(pool pgxPool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

// Create inserts a pending task.
func (r *TaskRepository) Create(ctx context.Context, task *domain.RebuildTask) error {
	change, err := marshalChange(task.Change)
	if err != nil {
		return err
	}
	related, err := marshalChange(task.Related)
	if err != nil {
		return err
	}
	status := task.Status
	if status == "" {
		status = domain.TaskStatusPending
	}
	var fromDate pgtype.Date
	if !task.FromDate.IsZero() {
		fromDate = dateToPg(task.FromDate)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO rebuild_tasks (
			id, kind, status, tenant_id, account_id, instrument_id, cash_account_id,
			change, related, from_date, currencies, attempts, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`,
		task.ID,
		string(task.Kind),
		string(status),
		emptyStringToPg(task.TenantID),
		emptyStringToPg(task.AccountID),
		emptyStringToPg(task.InstrumentID),
		emptyStringToPg(task.CashAccountID),
		change,
		related,
		fromDate,
		task.Currencies,
		task.Attempts,
		timeToPgTimestamptz(task.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create rebuild task: %w", err)
	}
	return nil
}

// GetByID returns a task or domain.ErrTaskNotFound.
func (r *TaskRepository) GetByID(ctx context.Context, id string) (*domain.RebuildTask, error) {
	task, err := scanTask(r.pool.QueryRow(ctx, taskSelect+`WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get rebuild task: %w", err)
	}
	return task, nil
}

// GetPending returns pending tasks in creation order.
func (r *TaskRepository) GetPending(ctx context.Context, limit int) ([]*domain.RebuildTask, error) {
	rows, err := r.pool.Query(ctx, taskSelect+`
		WHERE status = 'pending'
		ORDER BY created_at, id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.RebuildTask
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan rebuild task: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// MarkDone marks a task as processed.
func (r *TaskRepository) MarkDone(ctx context.Context, id string, processedAt time.Time) error {
	return r.finish(ctx, id, domain.TaskStatusDone, pgtype.Text{}, processedAt)
}

// MarkFailed records the failure reason of a task.
func (r *TaskRepository) MarkFailed(ctx context.Context, id string, reason string, processedAt time.Time) error {
	return r.finish(ctx, id, domain.TaskStatusFailed, pgtype.Text{String: reason, Valid: true}, processedAt)
}

func (r *TaskRepository) finish(ctx context.Context, id string, status domain.TaskStatus, reason pgtype.Text, processedAt time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE rebuild_tasks
		SET status = $2, error = $3, processed_at = $4, attempts = attempts + 1
		WHERE id = $1
	`, id, string(status), reason, timeToPgTimestamptz(processedAt))
	if err != nil {
		return fmt.Errorf("mark rebuild task %s: %w", status, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// DeleteProcessed removes finished tasks processed before the cutoff.
func (r *TaskRepository) DeleteProcessed(ctx context.Context, before time.Time) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM rebuild_tasks
		WHERE status <> 'pending' AND processed_at < $1
	`, timeToPgTimestamptz(before))
	if err != nil {
		return fmt.Errorf("delete processed tasks: %w", err)
	}
	return nil
}

func marshalChange(c *domain.TransactionChange) ([]byte, error) {
	if c == nil {
		return nil, nil
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal transaction change: %w", err)
	}
	return b, nil
}

func unmarshalChange(b []byte) (*domain.TransactionChange, error) {
	if len(b) == 0 {
		return nil, nil
	}
	var c domain.TransactionChange
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("unmarshal transaction change: %w", err)
	}
	return &c, nil
}

func scanTask(row rowScanner) (*domain.RebuildTask, error) {
	var (
		task                              domain.RebuildTask
		kind, status                      string
		tenant, account, instrument, cash pgtype.Text
		change, related                   []byte
		fromDate                          pgtype.Date
		reason                            pgtype.Text
		createdAt, processedAt            pgtype.Timestamptz
	)
	err := row.Scan(
		&task.ID, &kind, &status, &tenant, &account, &instrument, &cash,
		&change, &related, &fromDate, &task.Currencies, &reason, &task.Attempts,
		&createdAt, &processedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Kind = domain.TaskKind(kind)
	task.Status = domain.TaskStatus(status)
	task.TenantID = tenant.String
	task.AccountID = account.String
	task.InstrumentID = instrument.String
	task.CashAccountID = cash.String
	task.FromDate = pgToDate(fromDate)
	task.Error = reason.String
	task.CreatedAt = createdAt.Time
	task.ProcessedAt = pgToOptionalTime(processedAt)

	if task.Change, err = unmarshalChange(change); err != nil {
		return nil, err
	}
	if task.Related, err = unmarshalChange(related); err != nil {
		return nil, err
	}
	return &task, nil
}
