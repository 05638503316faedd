package repositories

import (
	"context"
	"time"

	"payplan/src/models"
	"payplan/src/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type InstallmentRepository interface {
	// TransitionOverdueForTenant flips every qualifying pending installment of
	// the tenant to overdue in a single statement and returns the changed ids.
	// localToday is the tenant-local calendar date; includeToday adds
	// installments due today once the tenant's cutoff has passed.
	TransitionOverdueForTenant(ctx context.Context, tenantID uuid.UUID, localToday time.Time, includeToday bool) ([]uuid.UUID, error)
	DueSoonForTenant(ctx context.Context, tenantID uuid.UUID, localToday time.Time, windowDays int) ([]uuid.UUID, error)
	GetWithContext(ctx context.Context, ids []uuid.UUID) ([]models.InstallmentContext, error)
	MarkNotified(ctx context.Context, id uuid.UUID, at time.Time) error
}

type installmentRepo struct {
	db *pgxpool.Pool
}

func NewInstallmentRepository(db *pgxpool.Pool) InstallmentRepository {
	return &installmentRepo{db: db}
}

func (r *installmentRepo) TransitionOverdueForTenant(ctx context.Context, tenantID uuid.UUID, localToday time.Time, includeToday bool) ([]uuid.UUID, error) {
	// The predicate re-evaluates current state, so running this twice in a
	// row updates nothing the second time. Installments under cancelled or
	// completed plans never match.
	rows, err := r.db.Query(ctx, `
		UPDATE installments i
		SET status = 'overdue', updated_at = NOW()
		FROM payment_plans p
		WHERE i.payment_plan_id = p.id
		AND p.tenant_id = $1
		AND p.status = 'active'
		AND i.status = 'pending'
		AND (i.due_date < $2::date OR ($3 AND i.due_date = $2::date))
		RETURNING i.id`,
		tenantID, localToday.Format(utils.ShortDashDateLayout), includeToday)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanIDs(rows)
}

func (r *installmentRepo) DueSoonForTenant(ctx context.Context, tenantID uuid.UUID, localToday time.Time, windowDays int) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `
		SELECT i.id
		FROM installments i
		JOIN payment_plans p ON i.payment_plan_id = p.id
		WHERE p.tenant_id = $1
		AND p.status = 'active'
		AND i.status = 'pending'
		AND i.due_date > $2::date
		AND i.due_date <= $2::date + $3::int
		ORDER BY i.due_date ASC`,
		tenantID, localToday.Format(utils.ShortDashDateLayout), windowDays)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanIDs(rows)
}

func (r *installmentRepo) GetWithContext(ctx context.Context, ids []uuid.UUID) ([]models.InstallmentContext, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT
			i.id, i.payment_plan_id, i.due_date, i.amount, i.status,
			i.paid_date, i.paid_amount, i.last_notified_at, i.created_at, i.updated_at,
			t.id, t.name, t.timezone, t.cutoff_time, t.due_soon_days, t.created_at, t.updated_at,
			p.id, p.tenant_id, p.student_id, p.branch, p.status, p.created_at, p.updated_at,
			s.id, s.tenant_id, s.name, s.email, s.assigned_agent_id, s.created_at,
			po.id, po.tenant_id, po.name, po.contact_email, po.branch, po.created_at,
			a.id, a.tenant_id, a.name, a.email, a.notify_opt_in, a.created_at
		FROM installments i
		JOIN payment_plans p ON i.payment_plan_id = p.id
		JOIN tenants t ON p.tenant_id = t.id
		JOIN students s ON p.student_id = s.id
		LEFT JOIN partner_organizations po ON po.tenant_id = t.id AND po.branch = p.branch
		LEFT JOIN staff_users a ON a.id = s.assigned_agent_id
		WHERE i.id = ANY($1::uuid[])`,
		idStrings(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contexts []models.InstallmentContext
	for rows.Next() {
		var c models.InstallmentContext
		var po models.PartnerOrganization
		var poID, poTenantID *uuid.UUID
		var poName, poBranch *string
		var poCreatedAt *time.Time
		var ag models.StaffUser
		var agID, agTenantID *uuid.UUID
		var agName, agEmail *string
		var agOptIn *bool
		var agCreatedAt *time.Time

		err := rows.Scan(
			&c.Installment.ID, &c.Installment.PaymentPlanID, &c.Installment.DueDate, &c.Installment.Amount, &c.Installment.Status,
			&c.Installment.PaidDate, &c.Installment.PaidAmount, &c.Installment.LastNotifiedAt, &c.Installment.CreatedAt, &c.Installment.UpdatedAt,
			&c.Tenant.ID, &c.Tenant.Name, &c.Tenant.Timezone, &c.Tenant.CutoffTime, &c.Tenant.DueSoonDays, &c.Tenant.CreatedAt, &c.Tenant.UpdatedAt,
			&c.Plan.ID, &c.Plan.TenantID, &c.Plan.StudentID, &c.Plan.Branch, &c.Plan.Status, &c.Plan.CreatedAt, &c.Plan.UpdatedAt,
			&c.Student.ID, &c.Student.TenantID, &c.Student.Name, &c.Student.Email, &c.Student.AssignedAgentID, &c.Student.CreatedAt,
			&poID, &poTenantID, &poName, &po.ContactEmail, &poBranch, &poCreatedAt,
			&agID, &agTenantID, &agName, &agEmail, &agOptIn, &agCreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if poID != nil {
			po.ID = *poID
			po.TenantID = *poTenantID
			po.Name = *poName
			po.Branch = *poBranch
			po.CreatedAt = *poCreatedAt
			c.Partner = &po
		}
		if agID != nil {
			ag.ID = *agID
			ag.TenantID = *agTenantID
			ag.Name = *agName
			ag.Email = *agEmail
			ag.NotifyOptIn = *agOptIn
			ag.CreatedAt = *agCreatedAt
			c.Agent = &ag
		}
		contexts = append(contexts, c)
	}
	return contexts, rows.Err()
}

func (r *installmentRepo) MarkNotified(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.db.Exec(ctx,
		`UPDATE installments SET last_notified_at = $1 WHERE id = $2`, at, id)
	return err
}
