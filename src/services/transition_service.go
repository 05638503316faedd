package services

import (
	"context"
	"fmt"
	"time"

	"payplan/src/models"
	"payplan/src/repositories"
	"payplan/src/schemas"
	"payplan/src/utils"
)

type TransitionServiceI interface {
	TransitionOverdue(ctx context.Context) (*schemas.TransitionResult, error)
	DueSoon(ctx context.Context) (*schemas.DueSoonResult, error)
}

// TransitionService moves pending installments to overdue once their due
// date has passed in the owning tenant's timezone. Each tenant is one
// set-based update, so a tenant's batch either applies fully or not at all.
type TransitionService struct {
	tenantRepo      repositories.TenantRepository
	installmentRepo repositories.InstallmentRepository

	now func() time.Time
}

func NewTransitionService(tenantRepo repositories.TenantRepository, installmentRepo repositories.InstallmentRepository) *TransitionService {
	return &TransitionService{
		tenantRepo:      tenantRepo,
		installmentRepo: installmentRepo,
		now:             time.Now,
	}
}

// WithClock overrides the time source. Tests pin the clock to exercise the
// cutoff boundary.
func (s *TransitionService) WithClock(now func() time.Time) *TransitionService {
	s.now = now
	return s
}

// TransitionOverdue applies the overdue transition for every tenant.
// An installment qualifies when its plan is active, its status is pending,
// and its due date is before the tenant-local today, or equal to it once
// tenant-local time has reached the cutoff. The predicate re-reads current state, so
// immediate re-runs update nothing.
//
// Transient infrastructure errors abort the pass and propagate so the
// orchestrator can retry it; a tenant with malformed configuration is
// recorded in its outcome and skipped without affecting other tenants.
func (s *TransitionService) TransitionOverdue(ctx context.Context) (*schemas.TransitionResult, error) {
	logger := utils.LoggerFromContext(ctx)

	tenants, err := s.tenantRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	result := &schemas.TransitionResult{}

	for _, tenant := range tenants {
		outcome := models.TenantOutcome{TenantID: tenant.ID}

		loc, err := time.LoadLocation(tenant.Timezone)
		if err != nil {
			outcome.Error = fmt.Sprintf("invalid timezone %q: %v", tenant.Timezone, err)
			result.Tenants = append(result.Tenants, outcome)
			logger.WithField("tenantId", tenant.ID).Warn(outcome.Error)
			continue
		}

		includeToday, err := utils.AfterCutoff(now, loc, tenant.CutoffTime)
		if err != nil {
			outcome.Error = err.Error()
			result.Tenants = append(result.Tenants, outcome)
			logger.WithField("tenantId", tenant.ID).Warn(outcome.Error)
			continue
		}

		localToday := utils.LocalDay(now, loc)
		ids, err := s.installmentRepo.TransitionOverdueForTenant(ctx, tenant.ID, localToday, includeToday)
		if err != nil {
			if utils.IsTransientError(err) {
				return nil, err
			}
			outcome.Error = err.Error()
			result.Tenants = append(result.Tenants, outcome)
			logger.WithField("tenantId", tenant.ID).Warn("tenant batch failed: ", err)
			continue
		}

		outcome.UpdatedCount = len(ids)
		outcome.Transitions = len(ids)
		result.Tenants = append(result.Tenants, outcome)
		result.InstallmentIDs = append(result.InstallmentIDs, ids...)
		result.TotalUpdated += len(ids)
	}

	return result, nil
}

// DueSoon returns pending installments falling due within each tenant's
// lookahead window, measured from the tenant-local today. Read-only.
func (s *TransitionService) DueSoon(ctx context.Context) (*schemas.DueSoonResult, error) {
	logger := utils.LoggerFromContext(ctx)

	tenants, err := s.tenantRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	result := &schemas.DueSoonResult{}

	for _, tenant := range tenants {
		if tenant.DueSoonDays <= 0 {
			continue
		}

		loc, err := time.LoadLocation(tenant.Timezone)
		if err != nil {
			logger.WithField("tenantId", tenant.ID).Warnf("invalid timezone %q: %v", tenant.Timezone, err)
			continue
		}

		localToday := utils.LocalDay(now, loc)
		ids, err := s.installmentRepo.DueSoonForTenant(ctx, tenant.ID, localToday, tenant.DueSoonDays)
		if err != nil {
			if utils.IsTransientError(err) {
				return nil, err
			}
			logger.WithField("tenantId", tenant.ID).Warn("due-soon scan failed: ", err)
			continue
		}
		result.InstallmentIDs = append(result.InstallmentIDs, ids...)
	}

	return result, nil
}
