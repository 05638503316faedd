package services

import (
	"context"
	"time"

	"payplan/src/models"
	"payplan/src/repositories"
	"payplan/src/schemas"
	"payplan/src/utils"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
)

const OverdueJobName = "overdue_detection"

type OverdueJobServiceI interface {
	RunNow(ctx context.Context) (*schemas.RunJobResponse, error)
}

// OverdueJobService orchestrates one job invocation: ledger entry, the
// transition engine under a retry policy, ledger completion, then
// best-effort notification dispatch. Credential checking happens in the
// handler; a rejected caller never reaches this service, so auth failures
// leave no job_runs row.
type OverdueJobService struct {
	transition TransitionServiceI
	dispatcher DispatchServiceI
	jobRunRepo repositories.JobRunRepository

	// backoffBase is the first retry delay; attempts are spaced base, 2x base.
	backoffBase     time.Duration
	dispatchTimeout time.Duration
}

func NewOverdueJobService(transition TransitionServiceI, dispatcher DispatchServiceI, jobRunRepo repositories.JobRunRepository, dispatchTimeout time.Duration) *OverdueJobService {
	if dispatchTimeout <= 0 {
		dispatchTimeout = 2 * time.Minute
	}
	return &OverdueJobService{
		transition:      transition,
		dispatcher:      dispatcher,
		jobRunRepo:      jobRunRepo,
		backoffBase:     time.Second,
		dispatchTimeout: dispatchTimeout,
	}
}

// WithBackoffBase overrides the retry spacing; tests shrink it.
func (s *OverdueJobService) WithBackoffBase(base time.Duration) *OverdueJobService {
	s.backoffBase = base
	return s
}

func (s *OverdueJobService) RunNow(ctx context.Context) (*schemas.RunJobResponse, error) {
	logger := utils.LoggerFromContext(ctx)

	run, err := s.jobRunRepo.Create(ctx, OverdueJobName)
	if err != nil {
		return nil, err
	}
	logger.WithField("jobRunId", run.ID).Info("overdue detection started")

	var result *schemas.TransitionResult
	backoff := retry.WithMaxRetries(2, retry.NewExponential(s.backoffBase))

	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		res, err := s.transition.TransitionOverdue(ctx)
		if err != nil {
			if utils.IsTransientError(err) {
				logger.Warn("transition attempt failed, will retry: ", err)
				return retry.RetryableError(err)
			}
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		detail := err.Error()
		if completeErr := s.jobRunRepo.Complete(ctx, run.ID, models.JobFailed, 0, &detail, nil); completeErr != nil {
			logger.Error("could not record failed run: ", completeErr)
		}
		logger.WithField("jobRunId", run.ID).Error("overdue detection failed: ", err)
		return &schemas.RunJobResponse{Success: false, Error: detail}, err
	}

	if err := s.jobRunRepo.Complete(ctx, run.ID, models.JobSuccess, result.TotalUpdated, nil, result.Tenants); err != nil {
		logger.Error("could not record successful run: ", err)
	}
	logger.WithField("jobRunId", run.ID).
		WithField("recordsUpdated", result.TotalUpdated).
		Info("overdue detection completed")

	// Dispatch is best-effort: a dispatcher failure is logged, never turned
	// into a job failure, and the ledger check makes the next run retry any
	// recipient that was missed.
	dispatchCtx, cancel := context.WithTimeout(utils.WithLogger(context.Background(), logger), s.dispatchTimeout)
	defer cancel()

	s.dispatch(dispatchCtx, result.InstallmentIDs, models.EventOverdue)

	if dueSoon, err := s.transition.DueSoon(dispatchCtx); err != nil {
		logger.Warn("due-soon scan failed: ", err)
	} else {
		s.dispatch(dispatchCtx, dueSoon.InstallmentIDs, models.EventDueSoon)
	}

	return &schemas.RunJobResponse{
		Success:        true,
		RecordsUpdated: result.TotalUpdated,
		Tenants:        result.Tenants,
	}, nil
}

func (s *OverdueJobService) dispatch(ctx context.Context, installmentIDs []uuid.UUID, event models.EventType) {
	logger := utils.LoggerFromContext(ctx)
	if len(installmentIDs) == 0 {
		return
	}

	dispatchResult, err := s.dispatcher.Dispatch(ctx, installmentIDs, event)
	if err != nil {
		logger.WithField("event", event).Error("notification dispatch failed: ", err)
		return
	}
	logger.WithField("event", event).
		WithField("sent", dispatchResult.Sent).
		WithField("skipped", dispatchResult.Skipped).
		WithField("failed", dispatchResult.Failed).
		Info("notification dispatch completed")
}
