package controllers

import (
	"context"

	"payplan/src/models"
	"payplan/src/schemas"
	"payplan/src/utils"

	"github.com/google/uuid"
)

var validRecipientTypes = map[models.RecipientType]bool{
	models.RecipientTenantStaff:   true,
	models.RecipientStudent:       true,
	models.RecipientPartnerOrg:    true,
	models.RecipientAssignedAgent: true,
}

var validEventTypes = map[models.EventType]bool{
	models.EventOverdue:         true,
	models.EventDueSoon:         true,
	models.EventPaymentReceived: true,
}

func (c *Controller) GetRulesByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.NotificationRule, error) {
	return c.RuleRepo.GetAllByTenant(ctx, tenantID)
}

func (c *Controller) CreateRule(ctx context.Context, req *schemas.CreateNotificationRuleRequest) (*models.NotificationRule, error) {
	if !validRecipientTypes[req.RecipientType] {
		return nil, utils.UnprocessableEntity("unknown recipient type")
	}
	if !validEventTypes[req.EventType] {
		return nil, utils.UnprocessableEntity("unknown event type")
	}

	// The template must exist and belong to the same tenant.
	template, err := c.TemplateRepo.GetByID(ctx, req.TemplateID)
	if err != nil {
		return nil, utils.UnprocessableEntity("template not found")
	}
	if template.TenantID != req.TenantID {
		return nil, utils.UnprocessableEntity("template belongs to another tenant")
	}

	rule := &models.NotificationRule{
		TenantID:      req.TenantID,
		RecipientType: req.RecipientType,
		EventType:     req.EventType,
		Enabled:       req.Enabled,
		TemplateID:    req.TemplateID,
		LeadTimeHours: req.LeadTimeHours,
	}
	if err := c.RuleRepo.Create(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (c *Controller) UpdateRule(ctx context.Context, id uuid.UUID, req *schemas.UpdateNotificationRuleRequest) (*models.NotificationRule, error) {
	rule, err := c.RuleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, utils.NotFound("rule not found")
	}

	if req.RecipientType != nil {
		if !validRecipientTypes[*req.RecipientType] {
			return nil, utils.UnprocessableEntity("unknown recipient type")
		}
		rule.RecipientType = *req.RecipientType
	}
	if req.EventType != nil {
		if !validEventTypes[*req.EventType] {
			return nil, utils.UnprocessableEntity("unknown event type")
		}
		rule.EventType = *req.EventType
	}
	if req.Enabled != nil {
		rule.Enabled = *req.Enabled
	}
	if req.TemplateID != nil {
		rule.TemplateID = *req.TemplateID
	}
	if req.LeadTimeHours != nil {
		rule.LeadTimeHours = req.LeadTimeHours
	}

	if err := c.RuleRepo.Update(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (c *Controller) DeleteRule(ctx context.Context, id uuid.UUID) error {
	if _, err := c.RuleRepo.GetByID(ctx, id); err != nil {
		return utils.NotFound("rule not found")
	}
	return c.RuleRepo.Delete(ctx, id)
}
