package repositories

import (
	"context"

	"payplan/src/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EmailTemplateRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.EmailTemplate, error)
	GetAllByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.EmailTemplate, error)
	Create(ctx context.Context, tpl *models.EmailTemplate) error
	Update(ctx context.Context, tpl *models.EmailTemplate) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type emailTemplateRepo struct {
	db *pgxpool.Pool
}

func NewEmailTemplateRepository(db *pgxpool.Pool) EmailTemplateRepository {
	return &emailTemplateRepo{db: db}
}

func (r *emailTemplateRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.EmailTemplate, error) {
	var tpl models.EmailTemplate
	err := r.db.QueryRow(ctx, `
		SELECT id, tenant_id, template_type, subject, body, created_at, updated_at
		FROM email_templates
		WHERE id = $1`, id).Scan(
		&tpl.ID, &tpl.TenantID, &tpl.TemplateType, &tpl.Subject, &tpl.Body, &tpl.CreatedAt, &tpl.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (r *emailTemplateRepo) GetAllByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.EmailTemplate, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, tenant_id, template_type, subject, body, created_at, updated_at
		FROM email_templates
		WHERE tenant_id = $1
		ORDER BY created_at ASC`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []models.EmailTemplate
	for rows.Next() {
		var tpl models.EmailTemplate
		if err := rows.Scan(&tpl.ID, &tpl.TenantID, &tpl.TemplateType, &tpl.Subject, &tpl.Body, &tpl.CreatedAt, &tpl.UpdatedAt); err != nil {
			return nil, err
		}
		templates = append(templates, tpl)
	}
	return templates, rows.Err()
}

func (r *emailTemplateRepo) Create(ctx context.Context, tpl *models.EmailTemplate) error {
	tpl.ID = uuid.New()
	return r.db.QueryRow(ctx, `
		INSERT INTO email_templates (id, tenant_id, template_type, subject, body)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		tpl.ID, tpl.TenantID, tpl.TemplateType, tpl.Subject, tpl.Body).
		Scan(&tpl.CreatedAt, &tpl.UpdatedAt)
}

func (r *emailTemplateRepo) Update(ctx context.Context, tpl *models.EmailTemplate) error {
	return r.db.QueryRow(ctx, `
		UPDATE email_templates
		SET template_type = $1, subject = $2, body = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at`,
		tpl.TemplateType, tpl.Subject, tpl.Body, tpl.ID).
		Scan(&tpl.UpdatedAt)
}

func (r *emailTemplateRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM email_templates WHERE id = $1`, id)
	return err
}
