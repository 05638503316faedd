package repositories

import (
	"context"

	"payplan/src/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NotificationRuleRepository interface {
	GetEnabledByTenantAndEvent(ctx context.Context, tenantID uuid.UUID, event models.EventType) ([]models.NotificationRule, error)
	GetAllByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.NotificationRule, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.NotificationRule, error)
	Create(ctx context.Context, rule *models.NotificationRule) error
	Update(ctx context.Context, rule *models.NotificationRule) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type notificationRuleRepo struct {
	db *pgxpool.Pool
}

func NewNotificationRuleRepository(db *pgxpool.Pool) NotificationRuleRepository {
	return &notificationRuleRepo{db: db}
}

const ruleColumns = `id, tenant_id, recipient_type, event_type, enabled, template_id, lead_time_hours, created_at, updated_at`

func (r *notificationRuleRepo) GetEnabledByTenantAndEvent(ctx context.Context, tenantID uuid.UUID, event models.EventType) ([]models.NotificationRule, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+ruleColumns+`
		FROM notification_rules
		WHERE tenant_id = $1 AND event_type = $2 AND enabled = TRUE`,
		tenantID, event)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRules(rows)
}

func (r *notificationRuleRepo) GetAllByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.NotificationRule, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+ruleColumns+`
		FROM notification_rules
		WHERE tenant_id = $1
		ORDER BY created_at ASC`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRules(rows)
}

func (r *notificationRuleRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.NotificationRule, error) {
	var rule models.NotificationRule
	err := r.db.QueryRow(ctx, `
		SELECT `+ruleColumns+`
		FROM notification_rules
		WHERE id = $1`, id).Scan(
		&rule.ID, &rule.TenantID, &rule.RecipientType, &rule.EventType,
		&rule.Enabled, &rule.TemplateID, &rule.LeadTimeHours, &rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *notificationRuleRepo) Create(ctx context.Context, rule *models.NotificationRule) error {
	rule.ID = uuid.New()
	return r.db.QueryRow(ctx, `
		INSERT INTO notification_rules (id, tenant_id, recipient_type, event_type, enabled, template_id, lead_time_hours)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		rule.ID, rule.TenantID, rule.RecipientType, rule.EventType, rule.Enabled, rule.TemplateID, rule.LeadTimeHours).
		Scan(&rule.CreatedAt, &rule.UpdatedAt)
}

func (r *notificationRuleRepo) Update(ctx context.Context, rule *models.NotificationRule) error {
	return r.db.QueryRow(ctx, `
		UPDATE notification_rules
		SET recipient_type = $1, event_type = $2, enabled = $3, template_id = $4, lead_time_hours = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at`,
		rule.RecipientType, rule.EventType, rule.Enabled, rule.TemplateID, rule.LeadTimeHours, rule.ID).
		Scan(&rule.UpdatedAt)
}

func (r *notificationRuleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM notification_rules WHERE id = $1`, id)
	return err
}

func scanRules(rows pgx.Rows) ([]models.NotificationRule, error) {
	var rules []models.NotificationRule
	for rows.Next() {
		var rule models.NotificationRule
		if err := rows.Scan(&rule.ID, &rule.TenantID, &rule.RecipientType, &rule.EventType,
			&rule.Enabled, &rule.TemplateID, &rule.LeadTimeHours, &rule.CreatedAt, &rule.UpdatedAt); err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}
