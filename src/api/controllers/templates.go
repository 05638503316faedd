package controllers

import (
	"context"
	"strings"

	"payplan/src/models"
	"payplan/src/schemas"
	"payplan/src/utils"

	"github.com/google/uuid"
)

func (c *Controller) GetTemplatesByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.EmailTemplate, error) {
	return c.TemplateRepo.GetAllByTenant(ctx, tenantID)
}

func (c *Controller) CreateTemplate(ctx context.Context, req *schemas.CreateEmailTemplateRequest) (*models.EmailTemplate, error) {
	if strings.TrimSpace(req.Subject) == "" {
		return nil, utils.UnprocessableEntity("subject is required")
	}
	if strings.TrimSpace(req.Body) == "" {
		return nil, utils.UnprocessableEntity("body is required")
	}

	template := &models.EmailTemplate{
		TenantID:     req.TenantID,
		TemplateType: req.TemplateType,
		Subject:      req.Subject,
		Body:         req.Body,
	}
	if err := c.TemplateRepo.Create(ctx, template); err != nil {
		return nil, err
	}
	return template, nil
}

func (c *Controller) UpdateTemplate(ctx context.Context, id uuid.UUID, req *schemas.UpdateEmailTemplateRequest) (*models.EmailTemplate, error) {
	template, err := c.TemplateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, utils.NotFound("template not found")
	}

	if req.TemplateType != nil {
		template.TemplateType = *req.TemplateType
	}
	if req.Subject != nil {
		template.Subject = *req.Subject
	}
	if req.Body != nil {
		template.Body = *req.Body
	}

	if err := c.TemplateRepo.Update(ctx, template); err != nil {
		return nil, err
	}
	return template, nil
}

func (c *Controller) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	if _, err := c.TemplateRepo.GetByID(ctx, id); err != nil {
		return utils.NotFound("template not found")
	}
	return c.TemplateRepo.Delete(ctx, id)
}
