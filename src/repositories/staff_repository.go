package repositories

import (
	"context"

	"payplan/src/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type StaffRepository interface {
	// GetNotifiableByTenant returns the tenant's staff users who opted into
	// notifications.
	GetNotifiableByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.StaffUser, error)
}

type staffRepo struct {
	db *pgxpool.Pool
}

func NewStaffRepository(db *pgxpool.Pool) StaffRepository {
	return &staffRepo{db: db}
}

func (r *staffRepo) GetNotifiableByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.StaffUser, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, tenant_id, name, email, notify_opt_in, created_at
		FROM staff_users
		WHERE tenant_id = $1 AND notify_opt_in = TRUE`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var staff []models.StaffUser
	for rows.Next() {
		var u models.StaffUser
		if err := rows.Scan(&u.ID, &u.TenantID, &u.Name, &u.Email, &u.NotifyOptIn, &u.CreatedAt); err != nil {
			return nil, err
		}
		staff = append(staff, u)
	}
	return staff, rows.Err()
}
