package schemas

import (
	"payplan/src/models"

	"github.com/google/uuid"
)

type CreateNotificationRuleRequest struct {
	TenantID      uuid.UUID            `json:"tenantId"`
	RecipientType models.RecipientType `json:"recipientType"`
	EventType     models.EventType     `json:"eventType"`
	Enabled       bool                 `json:"enabled"`
	TemplateID    uuid.UUID            `json:"templateId"`
	LeadTimeHours *int                 `json:"leadTimeHours,omitempty"`
}

type UpdateNotificationRuleRequest struct {
	RecipientType *models.RecipientType `json:"recipientType,omitempty"`
	EventType     *models.EventType     `json:"eventType,omitempty"`
	Enabled       *bool                 `json:"enabled,omitempty"`
	TemplateID    *uuid.UUID            `json:"templateId,omitempty"`
	LeadTimeHours *int                  `json:"leadTimeHours,omitempty"`
}

type CreateEmailTemplateRequest struct {
	TenantID     uuid.UUID `json:"tenantId"`
	TemplateType string    `json:"templateType"`
	Subject      string    `json:"subject"`
	Body         string    `json:"body"`
}

type UpdateEmailTemplateRequest struct {
	TemplateType *string `json:"templateType,omitempty"`
	Subject      *string `json:"subject,omitempty"`
	Body         *string `json:"body,omitempty"`
}
