package repositories

import (
	"context"
	"encoding/json"
	"time"

	"payplan/src/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type JobRunRepository interface {
	Create(ctx context.Context, jobName string) (*models.JobRun, error)
	Complete(ctx context.Context, id uuid.UUID, status models.JobRunStatus, recordsUpdated int, errorDetail *string, breakdown []models.TenantOutcome) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.JobRun, error)
	List(ctx context.Context, limit int) ([]models.JobRun, error)
}

type jobRunRepo struct {
	db *pgxpool.Pool
}

func NewJobRunRepository(db *pgxpool.Pool) JobRunRepository {
	return &jobRunRepo{db: db}
}

func (r *jobRunRepo) Create(ctx context.Context, jobName string) (*models.JobRun, error) {
	run := models.JobRun{
		ID:      uuid.New(),
		JobName: jobName,
		Status:  models.JobRunning,
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO job_runs (id, job_name, started_at, status)
		VALUES ($1, $2, NOW(), 'running')
		RETURNING started_at`,
		run.ID, run.JobName).Scan(&run.StartedAt)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// Complete records the run outcome exactly once; the row is immutable after.
func (r *jobRunRepo) Complete(ctx context.Context, id uuid.UUID, status models.JobRunStatus, recordsUpdated int, errorDetail *string, breakdown []models.TenantOutcome) error {
	breakdownJSON, err := json.Marshal(breakdown)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, `
		UPDATE job_runs
		SET status = $1,
			completed_at = NOW(),
			records_updated = $2,
			error_detail = $3,
			tenant_breakdown = $4::jsonb
		WHERE id = $5 AND status = 'running'`,
		status, recordsUpdated, errorDetail, breakdownJSON, id)
	return err
}

func (r *jobRunRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.JobRun, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, job_name, started_at, completed_at, status,
			COALESCE(records_updated, 0), error_detail, tenant_breakdown
		FROM job_runs
		WHERE id = $1`, id)
	return scanJobRun(row)
}

func (r *jobRunRepo) List(ctx context.Context, limit int) ([]models.JobRun, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, job_name, started_at, completed_at, status,
			COALESCE(records_updated, 0), error_detail, tenant_breakdown
		FROM job_runs
		ORDER BY started_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.JobRun
	for rows.Next() {
		run, err := scanJobRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJobRun(row rowScanner) (*models.JobRun, error) {
	var run models.JobRun
	var completedAt *time.Time
	var breakdownJSON []byte

	err := row.Scan(&run.ID, &run.JobName, &run.StartedAt, &completedAt, &run.Status,
		&run.RecordsUpdated, &run.ErrorDetail, &breakdownJSON)
	if err != nil {
		return nil, err
	}
	run.CompletedAt = completedAt

	if len(breakdownJSON) > 0 {
		if err := json.Unmarshal(breakdownJSON, &run.TenantBreakdown); err != nil {
			return nil, err
		}
	}
	return &run, nil
}
