package models

import (
	"time"

	"github.com/google/uuid"
)

type StaffUser struct {
	ID          uuid.UUID `db:"id"`
	TenantID    uuid.UUID `db:"tenant_id"`
	Name        string    `db:"name"`
	Email       string    `db:"email"`
	NotifyOptIn bool      `db:"notify_opt_in"`
	CreatedAt   time.Time `db:"created_at"`
}

type Student struct {
	ID              uuid.UUID  `db:"id"`
	TenantID        uuid.UUID  `db:"tenant_id"`
	Name            string     `db:"name"`
	Email           string     `db:"email"`
	AssignedAgentID *uuid.UUID `db:"assigned_agent_id"`
	CreatedAt       time.Time  `db:"created_at"`
}

// PartnerOrganization is tied to a plan's branch; it only receives
// notifications when a contact address is configured.
type PartnerOrganization struct {
	ID           uuid.UUID `db:"id"`
	TenantID     uuid.UUID `db:"tenant_id"`
	Name         string    `db:"name"`
	ContactEmail *string   `db:"contact_email"`
	Branch       string    `db:"branch"`
	CreatedAt    time.Time `db:"created_at"`
}
