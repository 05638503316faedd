package services_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"payplan/src/models"
	"payplan/src/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dispatchInstallmentRepo struct {
	contexts []models.InstallmentContext

	mu       sync.Mutex
	notified []uuid.UUID
}

func (f *dispatchInstallmentRepo) GetWithContext(_ context.Context, ids []uuid.UUID) ([]models.InstallmentContext, error) {
	wanted := map[uuid.UUID]bool{}
	for _, id := range ids {
		wanted[id] = true
	}
	var out []models.InstallmentContext
	for _, c := range f.contexts {
		if wanted[c.Installment.ID] {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *dispatchInstallmentRepo) MarkNotified(_ context.Context, id uuid.UUID, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notified = append(f.notified, id)
	return nil
}

func (f *dispatchInstallmentRepo) TransitionOverdueForTenant(_ context.Context, _ uuid.UUID, _ time.Time, _ bool) ([]uuid.UUID, error) {
	return nil, nil
}

func (f *dispatchInstallmentRepo) DueSoonForTenant(_ context.Context, _ uuid.UUID, _ time.Time, _ int) ([]uuid.UUID, error) {
	return nil, nil
}

type fakeRuleRepo struct {
	rules []models.NotificationRule
}

func (f *fakeRuleRepo) GetEnabledByTenantAndEvent(_ context.Context, tenantID uuid.UUID, event models.EventType) ([]models.NotificationRule, error) {
	var out []models.NotificationRule
	for _, rule := range f.rules {
		if rule.TenantID == tenantID && rule.EventType == event && rule.Enabled {
			out = append(out, rule)
		}
	}
	return out, nil
}

func (f *fakeRuleRepo) GetAllByTenant(_ context.Context, _ uuid.UUID) ([]models.NotificationRule, error) {
	return f.rules, nil
}

func (f *fakeRuleRepo) GetByID(_ context.Context, _ uuid.UUID) (*models.NotificationRule, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeRuleRepo) Create(_ context.Context, _ *models.NotificationRule) error { return nil }
func (f *fakeRuleRepo) Update(_ context.Context, _ *models.NotificationRule) error { return nil }
func (f *fakeRuleRepo) Delete(_ context.Context, _ uuid.UUID) error                { return nil }

type fakeTemplateRepo struct {
	templates map[uuid.UUID]models.EmailTemplate
}

func (f *fakeTemplateRepo) GetByID(_ context.Context, id uuid.UUID) (*models.EmailTemplate, error) {
	tpl, ok := f.templates[id]
	if !ok {
		return nil, errors.New("no rows in result set")
	}
	return &tpl, nil
}

func (f *fakeTemplateRepo) GetAllByTenant(_ context.Context, _ uuid.UUID) ([]models.EmailTemplate, error) {
	return nil, nil
}

func (f *fakeTemplateRepo) Create(_ context.Context, _ *models.EmailTemplate) error { return nil }
func (f *fakeTemplateRepo) Update(_ context.Context, _ *models.EmailTemplate) error { return nil }
func (f *fakeTemplateRepo) Delete(_ context.Context, _ uuid.UUID) error             { return nil }

type fakeStaffRepo struct {
	staff []models.StaffUser
}

func (f *fakeStaffRepo) GetNotifiableByTenant(_ context.Context, tenantID uuid.UUID) ([]models.StaffUser, error) {
	var out []models.StaffUser
	for _, u := range f.staff {
		if u.TenantID == tenantID && u.NotifyOptIn {
			out = append(out, u)
		}
	}
	return out, nil
}

// fakeLedger mimics the unique constraint on the notification log triple.
// forceConflict makes Create report a lost insert race even when Exists said
// the triple was free.
type fakeLedger struct {
	mu            sync.Mutex
	rows          map[string]bool
	forceConflict bool
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{rows: map[string]bool{}}
}

func ledgerKey(installmentID uuid.UUID, recipientType models.RecipientType, email string) string {
	return fmt.Sprintf("%s|%s|%s", installmentID, recipientType, email)
}

func (f *fakeLedger) Exists(_ context.Context, installmentID uuid.UUID, recipientType models.RecipientType, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows[ledgerKey(installmentID, recipientType, email)], nil
}

func (f *fakeLedger) Create(_ context.Context, installmentID uuid.UUID, recipientType models.RecipientType, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.forceConflict {
		return false, nil
	}
	key := ledgerKey(installmentID, recipientType, email)
	if f.rows[key] {
		return false, nil
	}
	f.rows[key] = true
	return true, nil
}

func (f *fakeLedger) ListByInstallment(_ context.Context, _ uuid.UUID) ([]models.NotificationLog, error) {
	return nil, nil
}

type sentMail struct {
	to      string
	subject string
	body    string
}

type fakeMailer struct {
	mu      sync.Mutex
	sent    []sentMail
	failFor map[string]error
}

func (f *fakeMailer) Send(_ context.Context, to, subject, htmlBody string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failFor[to]; ok {
		return "", err
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: htmlBody})
	return fmt.Sprintf("msg-%d", len(f.sent)), nil
}

func overdueContext(tenant models.Tenant, studentEmail string) models.InstallmentContext {
	studentID := uuid.New()
	return models.InstallmentContext{
		Installment: models.Installment{
			ID:      uuid.New(),
			DueDate: time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC),
			Amount:  350,
			Status:  models.InstallmentOverdue,
		},
		Tenant:  tenant,
		Plan:    models.PaymentPlan{ID: uuid.New(), TenantID: tenant.ID, StudentID: studentID, Branch: "Sydney", Status: models.PlanActive},
		Student: models.Student{ID: studentID, TenantID: tenant.ID, Name: "Ana", Email: studentEmail},
	}
}

func studentRule(tenantID, templateID uuid.UUID) models.NotificationRule {
	return models.NotificationRule{
		ID: uuid.New(), TenantID: tenantID,
		RecipientType: models.RecipientStudent, EventType: models.EventOverdue,
		Enabled: true, TemplateID: templateID,
	}
}

func overdueTemplate(tenantID uuid.UUID) models.EmailTemplate {
	return models.EmailTemplate{
		ID: uuid.New(), TenantID: tenantID, TemplateType: "overdue",
		Subject: "Payment overdue for {{studentName}}",
		Body:    "Dear {{studentName}}, {{amount}} was due on {{dueDate}}.",
	}
}

func TestDispatchSendsOncePerTriple(t *testing.T) {
	tenant := brisbaneTenant()
	template := overdueTemplate(tenant.ID)
	instCtx := overdueContext(tenant, "ana@example.com")

	installmentRepo := &dispatchInstallmentRepo{contexts: []models.InstallmentContext{instCtx}}
	ledger := newFakeLedger()
	mailerFake := &fakeMailer{}

	svc := services.NewDispatchService(
		installmentRepo,
		&fakeRuleRepo{rules: []models.NotificationRule{studentRule(tenant.ID, template.ID)}},
		&fakeTemplateRepo{templates: map[uuid.UUID]models.EmailTemplate{template.ID: template}},
		&fakeStaffRepo{},
		ledger,
		mailerFake,
	)

	result, err := svc.Dispatch(context.Background(), []uuid.UUID{instCtx.Installment.ID}, models.EventOverdue)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Sent)
	assert.Equal(t, 0, result.Skipped)
	assert.Equal(t, 0, result.Failed)
	require.Len(t, mailerFake.sent, 1)
	assert.Equal(t, "ana@example.com", mailerFake.sent[0].to)
	assert.Equal(t, []uuid.UUID{instCtx.Installment.ID}, installmentRepo.notified)

	// Second pass over the same installment sends nothing new.
	again, err := svc.Dispatch(context.Background(), []uuid.UUID{instCtx.Installment.ID}, models.EventOverdue)
	require.NoError(t, err)

	assert.Equal(t, 0, again.Sent)
	assert.Equal(t, 1, again.Skipped)
	assert.Len(t, mailerFake.sent, 1)
	require.Len(t, again.Entries, 1)
	assert.Equal(t, "already notified", again.Entries[0].Detail)
}

func TestDispatchRendersTemplateVariables(t *testing.T) {
	tenant := brisbaneTenant()
	template := models.EmailTemplate{
		ID: uuid.New(), TenantID: tenant.ID, TemplateType: "overdue",
		Subject: "{{tenantName}}: payment overdue",
		Body:    "{{studentName}} owes {{amount}} since {{dueDate}} ({{planBranch}}). Ref {{unknownRef}}.",
	}
	instCtx := overdueContext(tenant, "ana@example.com")
	mailerFake := &fakeMailer{}

	svc := services.NewDispatchService(
		&dispatchInstallmentRepo{contexts: []models.InstallmentContext{instCtx}},
		&fakeRuleRepo{rules: []models.NotificationRule{studentRule(tenant.ID, template.ID)}},
		&fakeTemplateRepo{templates: map[uuid.UUID]models.EmailTemplate{template.ID: template}},
		&fakeStaffRepo{},
		newFakeLedger(),
		mailerFake,
	)

	_, err := svc.Dispatch(context.Background(), []uuid.UUID{instCtx.Installment.ID}, models.EventOverdue)
	require.NoError(t, err)

	require.Len(t, mailerFake.sent, 1)
	assert.Equal(t, "Tenant A: payment overdue", mailerFake.sent[0].subject)
	assert.Equal(t, "Ana owes 350.00 since 2025-03-09 (Sydney). Ref {{unknownRef}}.", mailerFake.sent[0].body)
}

func TestDispatchSkipsUnresolvableRecipient(t *testing.T) {
	tenant := brisbaneTenant()
	template := overdueTemplate(tenant.ID)
	instCtx := overdueContext(tenant, "ana@example.com")
	// Partner rule but no partner organization on the plan's branch.
	rule := models.NotificationRule{
		ID: uuid.New(), TenantID: tenant.ID,
		RecipientType: models.RecipientPartnerOrg, EventType: models.EventOverdue,
		Enabled: true, TemplateID: template.ID,
	}
	mailerFake := &fakeMailer{}

	svc := services.NewDispatchService(
		&dispatchInstallmentRepo{contexts: []models.InstallmentContext{instCtx}},
		&fakeRuleRepo{rules: []models.NotificationRule{rule}},
		&fakeTemplateRepo{templates: map[uuid.UUID]models.EmailTemplate{template.ID: template}},
		&fakeStaffRepo{},
		newFakeLedger(),
		mailerFake,
	)

	result, err := svc.Dispatch(context.Background(), []uuid.UUID{instCtx.Installment.ID}, models.EventOverdue)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Sent)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Entries, 1)
	assert.Equal(t, "no recipient resolved", result.Entries[0].Detail)
	assert.Empty(t, mailerFake.sent)
}

func TestDispatchSendFailureIsIsolated(t *testing.T) {
	tenant := brisbaneTenant()
	template := overdueTemplate(tenant.ID)
	okCtx := overdueContext(tenant, "ana@example.com")
	failCtx := overdueContext(tenant, "bounce@example.com")

	ledger := newFakeLedger()
	mailerFake := &fakeMailer{failFor: map[string]error{
		"bounce@example.com": errors.New("smtp 550 mailbox unavailable"),
	}}

	svc := services.NewDispatchService(
		&dispatchInstallmentRepo{contexts: []models.InstallmentContext{okCtx, failCtx}},
		&fakeRuleRepo{rules: []models.NotificationRule{studentRule(tenant.ID, template.ID)}},
		&fakeTemplateRepo{templates: map[uuid.UUID]models.EmailTemplate{template.ID: template}},
		&fakeStaffRepo{},
		ledger,
		mailerFake,
	)

	result, err := svc.Dispatch(context.Background(), []uuid.UUID{okCtx.Installment.ID, failCtx.Installment.ID}, models.EventOverdue)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Sent)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, mailerFake.sent, 1)
	assert.Equal(t, "ana@example.com", mailerFake.sent[0].to)

	// No ledger row for the failed send, so the next run retries it.
	exists, err := ledger.Exists(context.Background(), failCtx.Installment.ID, models.RecipientStudent, "bounce@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDispatchLostInsertRaceCountsAsSkipped(t *testing.T) {
	tenant := brisbaneTenant()
	template := overdueTemplate(tenant.ID)
	instCtx := overdueContext(tenant, "ana@example.com")

	ledger := newFakeLedger()
	ledger.forceConflict = true

	svc := services.NewDispatchService(
		&dispatchInstallmentRepo{contexts: []models.InstallmentContext{instCtx}},
		&fakeRuleRepo{rules: []models.NotificationRule{studentRule(tenant.ID, template.ID)}},
		&fakeTemplateRepo{templates: map[uuid.UUID]models.EmailTemplate{template.ID: template}},
		&fakeStaffRepo{},
		ledger,
		&fakeMailer{},
	)

	result, err := svc.Dispatch(context.Background(), []uuid.UUID{instCtx.Installment.ID}, models.EventOverdue)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Sent)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 0, result.Failed)
}

func TestDispatchTenantStaffFansOutToOptedIn(t *testing.T) {
	tenant := brisbaneTenant()
	template := overdueTemplate(tenant.ID)
	instCtx := overdueContext(tenant, "ana@example.com")
	rule := models.NotificationRule{
		ID: uuid.New(), TenantID: tenant.ID,
		RecipientType: models.RecipientTenantStaff, EventType: models.EventOverdue,
		Enabled: true, TemplateID: template.ID,
	}
	staff := []models.StaffUser{
		{ID: uuid.New(), TenantID: tenant.ID, Name: "Sam", Email: "sam@tenant.example", NotifyOptIn: true},
		{ID: uuid.New(), TenantID: tenant.ID, Name: "Kim", Email: "kim@tenant.example", NotifyOptIn: true},
		{ID: uuid.New(), TenantID: tenant.ID, Name: "Quiet", Email: "quiet@tenant.example", NotifyOptIn: false},
	}
	mailerFake := &fakeMailer{}

	svc := services.NewDispatchService(
		&dispatchInstallmentRepo{contexts: []models.InstallmentContext{instCtx}},
		&fakeRuleRepo{rules: []models.NotificationRule{rule}},
		&fakeTemplateRepo{templates: map[uuid.UUID]models.EmailTemplate{template.ID: template}},
		&fakeStaffRepo{staff: staff},
		newFakeLedger(),
		mailerFake,
	)

	result, err := svc.Dispatch(context.Background(), []uuid.UUID{instCtx.Installment.ID}, models.EventOverdue)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Sent)
	assert.Len(t, mailerFake.sent, 2)
}

func TestDispatchDropsDuplicateContexts(t *testing.T) {
	tenant := brisbaneTenant()
	template := overdueTemplate(tenant.ID)
	instCtx := overdueContext(tenant, "ana@example.com")
	mailerFake := &fakeMailer{}

	// Two context rows for the same installment must not double-count.
	svc := services.NewDispatchService(
		&dispatchInstallmentRepo{contexts: []models.InstallmentContext{instCtx, instCtx}},
		&fakeRuleRepo{rules: []models.NotificationRule{studentRule(tenant.ID, template.ID)}},
		&fakeTemplateRepo{templates: map[uuid.UUID]models.EmailTemplate{template.ID: template}},
		&fakeStaffRepo{},
		newFakeLedger(),
		mailerFake,
	)

	result, err := svc.Dispatch(context.Background(), []uuid.UUID{instCtx.Installment.ID}, models.EventOverdue)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Sent)
	assert.Equal(t, 0, result.Skipped)
	require.Len(t, result.Entries, 1)
	assert.Len(t, mailerFake.sent, 1)
}

func TestDispatchEmptyBatch(t *testing.T) {
	svc := services.NewDispatchService(
		&dispatchInstallmentRepo{},
		&fakeRuleRepo{},
		&fakeTemplateRepo{},
		&fakeStaffRepo{},
		newFakeLedger(),
		&fakeMailer{},
	)

	result, err := svc.Dispatch(context.Background(), nil, models.EventOverdue)
	require.NoError(t, err)
	assert.Empty(t, result.Entries)
	assert.Equal(t, 0, result.Sent+result.Skipped+result.Failed)
}
