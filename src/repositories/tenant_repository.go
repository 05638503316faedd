package repositories

import (
	"context"

	"payplan/src/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TenantRepository interface {
	GetAll(ctx context.Context) ([]models.Tenant, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
}

type tenantRepo struct {
	db *pgxpool.Pool
}

func NewTenantRepository(db *pgxpool.Pool) TenantRepository {
	return &tenantRepo{db: db}
}

func (r *tenantRepo) GetAll(ctx context.Context) ([]models.Tenant, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, timezone, cutoff_time, due_soon_days, created_at, updated_at
		FROM tenants
		ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenants []models.Tenant
	for rows.Next() {
		var t models.Tenant
		if err := rows.Scan(&t.ID, &t.Name, &t.Timezone, &t.CutoffTime, &t.DueSoonDays, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tenants = append(tenants, t)
	}
	return tenants, rows.Err()
}

func (r *tenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	var t models.Tenant
	err := r.db.QueryRow(ctx, `
		SELECT id, name, timezone, cutoff_time, due_soon_days, created_at, updated_at
		FROM tenants
		WHERE id = $1`, id).Scan(&t.ID, &t.Name, &t.Timezone, &t.CutoffTime, &t.DueSoonDays, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
