package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"payplan/src/clients/mailer"
	"payplan/src/models"
	"payplan/src/repositories"
	"payplan/src/schemas"
	"payplan/src/utils"

	"github.com/google/uuid"
)

// tenantConcurrency bounds the fan-out over tenants. Sends inside one tenant
// stay sequential so a flaky provider degrades gracefully.
const tenantConcurrency = 4

type DispatchServiceI interface {
	Dispatch(ctx context.Context, installmentIDs []uuid.UUID, event models.EventType) (*schemas.DispatchResult, error)
}

// DispatchService fans a set of changed installments out to rule-driven
// recipients. Every send is guarded by the notification_logs ledger: one row
// per (installment, recipient type, recipient address), written only after a
// successful send, checked before every attempt.
type DispatchService struct {
	installmentRepo repositories.InstallmentRepository
	ruleRepo        repositories.NotificationRuleRepository
	templateRepo    repositories.EmailTemplateRepository
	staffRepo       repositories.StaffRepository
	logRepo         repositories.NotificationLogRepository
	mailerClient    mailer.MailerClientI

	templateCache *utils.Cache[uuid.UUID, models.EmailTemplate]
	now           func() time.Time
}

func NewDispatchService(
	installmentRepo repositories.InstallmentRepository,
	ruleRepo repositories.NotificationRuleRepository,
	templateRepo repositories.EmailTemplateRepository,
	staffRepo repositories.StaffRepository,
	logRepo repositories.NotificationLogRepository,
	mailerClient mailer.MailerClientI,
) *DispatchService {
	return &DispatchService{
		installmentRepo: installmentRepo,
		ruleRepo:        ruleRepo,
		templateRepo:    templateRepo,
		staffRepo:       staffRepo,
		logRepo:         logRepo,
		mailerClient:    mailerClient,
		templateCache:   utils.NewCache[uuid.UUID, models.EmailTemplate](10 * time.Minute),
		now:             time.Now,
	}
}

// Dispatch processes the given installments for one event type. Recipient
// failures are isolated: each becomes a failed entry in the result and never
// aborts the rest of the batch.
func (s *DispatchService) Dispatch(ctx context.Context, installmentIDs []uuid.UUID, event models.EventType) (*schemas.DispatchResult, error) {
	result := &schemas.DispatchResult{Event: event}
	if len(installmentIDs) == 0 {
		return result, nil
	}

	contexts, err := s.installmentRepo.GetWithContext(ctx, installmentIDs)
	if err != nil {
		return nil, err
	}

	// The context query returns at most one row per installment (partner
	// organizations are unique per tenant and branch); a duplicated row
	// would double-count entries, so drop any here.
	byTenant := map[uuid.UUID][]models.InstallmentContext{}
	seen := map[uuid.UUID]bool{}
	for _, c := range contexts {
		if seen[c.Installment.ID] {
			continue
		}
		seen[c.Installment.ID] = true
		byTenant[c.Tenant.ID] = append(byTenant[c.Tenant.ID], c)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	sem := make(chan struct{}, tenantConcurrency)

	for tenantID, group := range byTenant {
		wg.Add(1)
		go func(tenantID uuid.UUID, group []models.InstallmentContext) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			entries := s.dispatchTenant(ctx, tenantID, group, event)

			mu.Lock()
			for _, entry := range entries {
				result.Add(entry)
			}
			mu.Unlock()
		}(tenantID, group)
	}
	wg.Wait()

	return result, nil
}

func (s *DispatchService) dispatchTenant(ctx context.Context, tenantID uuid.UUID, group []models.InstallmentContext, event models.EventType) []schemas.DispatchEntry {
	logger := utils.LoggerFromContext(ctx)

	rules, err := s.ruleRepo.GetEnabledByTenantAndEvent(ctx, tenantID, event)
	if err != nil {
		logger.WithField("tenantId", tenantID).Error("could not load notification rules: ", err)
		return nil
	}
	if len(rules) == 0 {
		return nil
	}

	// Staff recipients are shared by every installment of the tenant; load
	// them once and only when a tenant_staff rule exists.
	var staff []models.StaffUser
	for _, rule := range rules {
		if rule.RecipientType == models.RecipientTenantStaff {
			staff, err = s.staffRepo.GetNotifiableByTenant(ctx, tenantID)
			if err != nil {
				logger.WithField("tenantId", tenantID).Error("could not load staff recipients: ", err)
			}
			break
		}
	}

	var entries []schemas.DispatchEntry
	for _, rule := range rules {
		template, err := s.template(ctx, rule.TemplateID)
		if err != nil {
			logger.WithField("templateId", rule.TemplateID).Error("could not load template: ", err)
			continue
		}

		for _, instCtx := range group {
			recipients := resolveRecipients(rule.RecipientType, instCtx, staff)
			if len(recipients) == 0 {
				entries = append(entries, schemas.DispatchEntry{
					InstallmentID: instCtx.Installment.ID,
					RecipientType: rule.RecipientType,
					Status:        schemas.DispatchSkipped,
					Detail:        "no recipient resolved",
				})
				continue
			}

			for _, to := range recipients {
				entries = append(entries, s.sendOne(ctx, instCtx, rule.RecipientType, to, template))
			}
		}
	}
	return entries
}

// sendOne performs the ledger check, render, send and ledger write for a
// single (installment, recipient type, address) triple.
func (s *DispatchService) sendOne(ctx context.Context, instCtx models.InstallmentContext, recipientType models.RecipientType, to string, template *models.EmailTemplate) schemas.DispatchEntry {
	entry := schemas.DispatchEntry{
		InstallmentID:  instCtx.Installment.ID,
		RecipientType:  recipientType,
		RecipientEmail: to,
	}

	already, err := s.logRepo.Exists(ctx, instCtx.Installment.ID, recipientType, to)
	if err != nil {
		entry.Status = schemas.DispatchFailed
		entry.Detail = fmt.Sprintf("ledger check failed: %v", err)
		return entry
	}
	if already {
		entry.Status = schemas.DispatchSkipped
		entry.Detail = "already notified"
		return entry
	}

	vars := templateVars(instCtx)
	subject := utils.RenderTemplate(template.Subject, vars)
	body := utils.RenderTemplate(template.Body, vars)

	messageID, err := s.mailerClient.Send(ctx, to, subject, body)
	if err != nil {
		entry.Status = schemas.DispatchFailed
		entry.Detail = err.Error()
		return entry
	}
	entry.MessageID = messageID

	inserted, err := s.logRepo.Create(ctx, instCtx.Installment.ID, recipientType, to)
	if err != nil {
		// The mail went out but the ledger write failed; surface it so the
		// duplicate on the next run can be traced back here.
		entry.Status = schemas.DispatchFailed
		entry.Detail = fmt.Sprintf("sent but ledger write failed: %v", err)
		return entry
	}
	if !inserted {
		// A concurrent dispatch won the insert race; the unique constraint
		// makes this a harmless duplicate.
		entry.Status = schemas.DispatchSkipped
		entry.Detail = "already notified"
		return entry
	}

	if err := s.installmentRepo.MarkNotified(ctx, instCtx.Installment.ID, s.now()); err != nil {
		utils.LoggerFromContext(ctx).WithField("installmentId", instCtx.Installment.ID).
			Warn("could not stamp last_notified_at: ", err)
	}

	entry.Status = schemas.DispatchSent
	return entry
}

func (s *DispatchService) template(ctx context.Context, id uuid.UUID) (*models.EmailTemplate, error) {
	if cached, ok := s.templateCache.Get(id); ok {
		return &cached, nil
	}
	template, err := s.templateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.templateCache.Set(id, *template)
	return template, nil
}

func resolveRecipients(recipientType models.RecipientType, instCtx models.InstallmentContext, staff []models.StaffUser) []string {
	switch recipientType {
	case models.RecipientTenantStaff:
		var out []string
		for _, u := range staff {
			if u.Email != "" {
				out = append(out, u.Email)
			}
		}
		return out
	case models.RecipientStudent:
		if instCtx.Student.Email != "" {
			return []string{instCtx.Student.Email}
		}
	case models.RecipientPartnerOrg:
		if instCtx.Partner != nil && instCtx.Partner.ContactEmail != nil && *instCtx.Partner.ContactEmail != "" {
			return []string{*instCtx.Partner.ContactEmail}
		}
	case models.RecipientAssignedAgent:
		if instCtx.Agent != nil && instCtx.Agent.Email != "" {
			return []string{instCtx.Agent.Email}
		}
	}
	return nil
}

func templateVars(instCtx models.InstallmentContext) map[string]string {
	return map[string]string{
		"studentName":       instCtx.Student.Name,
		"tenantName":        instCtx.Tenant.Name,
		"amount":            fmt.Sprintf("%.2f", instCtx.Installment.Amount),
		"dueDate":           instCtx.Installment.DueDate.Format(utils.ShortDashDateLayout),
		"planBranch":        instCtx.Plan.Branch,
		"installmentStatus": string(instCtx.Installment.Status),
	}
}
