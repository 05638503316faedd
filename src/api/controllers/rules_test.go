package controllers_test

import (
	"context"
	"errors"
	"testing"

	"payplan/src/api/controllers"
	"payplan/src/models"
	"payplan/src/schemas"
	"payplan/src/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRuleRepo struct {
	rules map[uuid.UUID]*models.NotificationRule
}

func newMemRuleRepo() *memRuleRepo {
	return &memRuleRepo{rules: map[uuid.UUID]*models.NotificationRule{}}
}

func (m *memRuleRepo) GetEnabledByTenantAndEvent(_ context.Context, _ uuid.UUID, _ models.EventType) ([]models.NotificationRule, error) {
	return nil, nil
}

func (m *memRuleRepo) GetAllByTenant(_ context.Context, tenantID uuid.UUID) ([]models.NotificationRule, error) {
	var out []models.NotificationRule
	for _, rule := range m.rules {
		if rule.TenantID == tenantID {
			out = append(out, *rule)
		}
	}
	return out, nil
}

func (m *memRuleRepo) GetByID(_ context.Context, id uuid.UUID) (*models.NotificationRule, error) {
	rule, ok := m.rules[id]
	if !ok {
		return nil, errors.New("no rows in result set")
	}
	copied := *rule
	return &copied, nil
}

func (m *memRuleRepo) Create(_ context.Context, rule *models.NotificationRule) error {
	rule.ID = uuid.New()
	m.rules[rule.ID] = rule
	return nil
}

func (m *memRuleRepo) Update(_ context.Context, rule *models.NotificationRule) error {
	m.rules[rule.ID] = rule
	return nil
}

func (m *memRuleRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.rules, id)
	return nil
}

type memTemplateRepo struct {
	templates map[uuid.UUID]models.EmailTemplate
}

func (m *memTemplateRepo) GetByID(_ context.Context, id uuid.UUID) (*models.EmailTemplate, error) {
	tpl, ok := m.templates[id]
	if !ok {
		return nil, errors.New("no rows in result set")
	}
	return &tpl, nil
}

func (m *memTemplateRepo) GetAllByTenant(_ context.Context, _ uuid.UUID) ([]models.EmailTemplate, error) {
	return nil, nil
}

func (m *memTemplateRepo) Create(_ context.Context, _ *models.EmailTemplate) error { return nil }
func (m *memTemplateRepo) Update(_ context.Context, _ *models.EmailTemplate) error { return nil }
func (m *memTemplateRepo) Delete(_ context.Context, _ uuid.UUID) error             { return nil }

func newRulesController(templates map[uuid.UUID]models.EmailTemplate) (*controllers.Controller, *memRuleRepo) {
	ruleRepo := newMemRuleRepo()
	return controllers.NewController(ruleRepo, &memTemplateRepo{templates: templates}, nil, nil), ruleRepo
}

func assertHTTPCode(t *testing.T, err error, code int) {
	t.Helper()
	var httpErr *utils.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, code, httpErr.Code)
}

func TestCreateRule(t *testing.T) {
	tenantID := uuid.New()
	template := models.EmailTemplate{ID: uuid.New(), TenantID: tenantID}
	ctrl, ruleRepo := newRulesController(map[uuid.UUID]models.EmailTemplate{template.ID: template})

	rule, err := ctrl.CreateRule(context.Background(), &schemas.CreateNotificationRuleRequest{
		TenantID:      tenantID,
		RecipientType: models.RecipientStudent,
		EventType:     models.EventOverdue,
		Enabled:       true,
		TemplateID:    template.ID,
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, rule.ID)
	assert.Len(t, ruleRepo.rules, 1)
}

func TestCreateRuleValidation(t *testing.T) {
	tenantID := uuid.New()
	template := models.EmailTemplate{ID: uuid.New(), TenantID: tenantID}
	foreignTemplate := models.EmailTemplate{ID: uuid.New(), TenantID: uuid.New()}
	ctrl, _ := newRulesController(map[uuid.UUID]models.EmailTemplate{
		template.ID:        template,
		foreignTemplate.ID: foreignTemplate,
	})

	valid := func() *schemas.CreateNotificationRuleRequest {
		return &schemas.CreateNotificationRuleRequest{
			TenantID:      tenantID,
			RecipientType: models.RecipientStudent,
			EventType:     models.EventOverdue,
			Enabled:       true,
			TemplateID:    template.ID,
		}
	}

	req := valid()
	req.RecipientType = "everyone"
	_, err := ctrl.CreateRule(context.Background(), req)
	assertHTTPCode(t, err, 422)

	req = valid()
	req.EventType = "eclipse"
	_, err = ctrl.CreateRule(context.Background(), req)
	assertHTTPCode(t, err, 422)

	req = valid()
	req.TemplateID = uuid.New()
	_, err = ctrl.CreateRule(context.Background(), req)
	assertHTTPCode(t, err, 422)

	req = valid()
	req.TemplateID = foreignTemplate.ID
	_, err = ctrl.CreateRule(context.Background(), req)
	assertHTTPCode(t, err, 422)
}

func TestUpdateRulePartial(t *testing.T) {
	tenantID := uuid.New()
	template := models.EmailTemplate{ID: uuid.New(), TenantID: tenantID}
	ctrl, ruleRepo := newRulesController(map[uuid.UUID]models.EmailTemplate{template.ID: template})

	created, err := ctrl.CreateRule(context.Background(), &schemas.CreateNotificationRuleRequest{
		TenantID:      tenantID,
		RecipientType: models.RecipientStudent,
		EventType:     models.EventOverdue,
		Enabled:       true,
		TemplateID:    template.ID,
	})
	require.NoError(t, err)

	disabled := false
	updated, err := ctrl.UpdateRule(context.Background(), created.ID, &schemas.UpdateNotificationRuleRequest{
		Enabled: &disabled,
	})
	require.NoError(t, err)

	assert.False(t, updated.Enabled)
	assert.Equal(t, models.RecipientStudent, updated.RecipientType, "untouched fields survive")
	assert.False(t, ruleRepo.rules[created.ID].Enabled)

	badEvent := models.EventType("eclipse")
	_, err = ctrl.UpdateRule(context.Background(), created.ID, &schemas.UpdateNotificationRuleRequest{
		EventType: &badEvent,
	})
	assertHTTPCode(t, err, 422)

	_, err = ctrl.UpdateRule(context.Background(), uuid.New(), &schemas.UpdateNotificationRuleRequest{})
	assertHTTPCode(t, err, 404)
}

func TestDeleteRule(t *testing.T) {
	tenantID := uuid.New()
	template := models.EmailTemplate{ID: uuid.New(), TenantID: tenantID}
	ctrl, ruleRepo := newRulesController(map[uuid.UUID]models.EmailTemplate{template.ID: template})

	created, err := ctrl.CreateRule(context.Background(), &schemas.CreateNotificationRuleRequest{
		TenantID:      tenantID,
		RecipientType: models.RecipientStudent,
		EventType:     models.EventOverdue,
		Enabled:       true,
		TemplateID:    template.ID,
	})
	require.NoError(t, err)

	require.NoError(t, ctrl.DeleteRule(context.Background(), created.ID))
	assert.Empty(t, ruleRepo.rules)

	err = ctrl.DeleteRule(context.Background(), created.ID)
	assertHTTPCode(t, err, 404)
}
