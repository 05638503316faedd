package schemas

import (
	"payplan/src/models"

	"github.com/google/uuid"
)

// TransitionResult is what one engine pass produced: the per-tenant outcomes
// and the full set of installments that changed to overdue.
type TransitionResult struct {
	TotalUpdated   int
	InstallmentIDs []uuid.UUID
	Tenants        []models.TenantOutcome
}

// DueSoonResult lists pending installments inside each tenant's lookahead
// window. Nothing is mutated by the scan.
type DueSoonResult struct {
	InstallmentIDs []uuid.UUID
}

// RunJobResponse is the envelope returned by the run-now endpoint. Callers
// must treat the job_runs ledger, not this response, as ground truth: a
// caller-side timeout does not stop the run.
type RunJobResponse struct {
	Success        bool                   `json:"success"`
	RecordsUpdated int                    `json:"recordsUpdated"`
	Tenants        []models.TenantOutcome `json:"tenants"`
	Error          string                 `json:"error,omitempty"`
}
