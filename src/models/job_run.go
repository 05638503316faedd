package models

import (
	"time"

	"github.com/google/uuid"
)

type JobRunStatus string

const (
	JobRunning JobRunStatus = "running"
	JobSuccess JobRunStatus = "success"
	JobFailed  JobRunStatus = "failed"
)

// TenantOutcome is the per-tenant slice of a job run, persisted as JSONB on
// the run row. Error is set when that tenant's batch failed (bad timezone,
// constraint violation) while the rest of the run proceeded.
type TenantOutcome struct {
	TenantID     uuid.UUID `json:"tenantId"`
	UpdatedCount int       `json:"updatedCount"`
	Transitions  int       `json:"transitions"`
	Error        string    `json:"error,omitempty"`
}

// JobRun is the execution ledger for job invocations. A row stuck at
// "running" past the expected window means the process died mid-run.
type JobRun struct {
	ID              uuid.UUID       `db:"id"`
	JobName         string          `db:"job_name"`
	StartedAt       time.Time       `db:"started_at"`
	CompletedAt     *time.Time      `db:"completed_at"`
	Status          JobRunStatus    `db:"status"`
	RecordsUpdated  int             `db:"records_updated"`
	ErrorDetail     *string         `db:"error_detail"`
	TenantBreakdown []TenantOutcome `db:"tenant_breakdown"`
}
