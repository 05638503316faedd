package models

import (
	"time"

	"github.com/google/uuid"
)

type RecipientType string

const (
	RecipientTenantStaff   RecipientType = "tenant_staff"
	RecipientStudent       RecipientType = "student"
	RecipientPartnerOrg    RecipientType = "partner_org"
	RecipientAssignedAgent RecipientType = "assigned_agent"
)

type EventType string

const (
	EventOverdue         EventType = "overdue"
	EventDueSoon         EventType = "due_soon"
	EventPaymentReceived EventType = "payment_received"
)

type NotificationRule struct {
	ID            uuid.UUID     `db:"id"`
	TenantID      uuid.UUID     `db:"tenant_id"`
	RecipientType RecipientType `db:"recipient_type"`
	EventType     EventType     `db:"event_type"`
	Enabled       bool          `db:"enabled"`
	TemplateID    uuid.UUID     `db:"template_id"`
	LeadTimeHours *int          `db:"lead_time_hours"`
	CreatedAt     time.Time     `db:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at"`
}
