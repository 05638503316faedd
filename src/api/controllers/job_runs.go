package controllers

import (
	"context"

	"payplan/src/models"
	"payplan/src/utils"

	"github.com/google/uuid"
)

const defaultJobRunLimit = 50

func (c *Controller) GetJobRuns(ctx context.Context, limit int) ([]models.JobRun, error) {
	if limit <= 0 || limit > 500 {
		limit = defaultJobRunLimit
	}
	return c.JobRunRepo.List(ctx, limit)
}

func (c *Controller) GetJobRunByID(ctx context.Context, id uuid.UUID) (*models.JobRun, error) {
	run, err := c.JobRunRepo.GetByID(ctx, id)
	if err != nil {
		return nil, utils.NotFound("job run not found")
	}
	return run, nil
}

func (c *Controller) GetNotificationsByInstallment(ctx context.Context, installmentID uuid.UUID) ([]models.NotificationLog, error) {
	return c.LogRepo.ListByInstallment(ctx, installmentID)
}
