package models

import (
	"time"

	"github.com/google/uuid"
)

// EmailTemplate holds subject and body with {{variable}} placeholders.
// Supported variables: studentName, tenantName, amount, dueDate, planBranch,
// installmentStatus. Unknown placeholders are left as literal text.
type EmailTemplate struct {
	ID           uuid.UUID `db:"id"`
	TenantID     uuid.UUID `db:"tenant_id"`
	TemplateType string    `db:"template_type"`
	Subject      string    `db:"subject"`
	Body         string    `db:"body"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
