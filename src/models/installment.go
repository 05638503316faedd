package models

import (
	"time"

	"github.com/google/uuid"
)

type InstallmentStatus string

const (
	InstallmentPending   InstallmentStatus = "pending"
	InstallmentOverdue   InstallmentStatus = "overdue"
	InstallmentPaid      InstallmentStatus = "paid"
	InstallmentCancelled InstallmentStatus = "cancelled"
	InstallmentDraft     InstallmentStatus = "draft"
)

// Installment is one scheduled payment unit. DueDate is a tenant-local
// calendar date. Status only moves forward: once overdue, paid or cancelled
// it never reverts to pending through the transition engine.
type Installment struct {
	ID             uuid.UUID         `db:"id"`
	PaymentPlanID  uuid.UUID         `db:"payment_plan_id"`
	DueDate        time.Time         `db:"due_date"`
	Amount         float64           `db:"amount"`
	Status         InstallmentStatus `db:"status"`
	PaidDate       *time.Time        `db:"paid_date"`
	PaidAmount     *float64          `db:"paid_amount"`
	LastNotifiedAt *time.Time        `db:"last_notified_at"`
	CreatedAt      time.Time         `db:"created_at"`
	UpdatedAt      time.Time         `db:"updated_at"`
}

// InstallmentContext carries an installment together with everything the
// dispatcher needs to resolve recipients and render templates.
type InstallmentContext struct {
	Installment Installment
	Tenant      Tenant
	Plan        PaymentPlan
	Student     Student
	Partner     *PartnerOrganization
	Agent       *StaffUser
}
