package controllers

import (
	"context"

	"payplan/src/schemas"
	"payplan/src/services"
)

type Controller struct {
	JobService services.OverdueJobServiceI
}

func NewController(jobService services.OverdueJobServiceI) *Controller {
	return &Controller{JobService: jobService}
}

func (c *Controller) RunOverdueJob(ctx context.Context) (*schemas.RunJobResponse, error) {
	return c.JobService.RunNow(ctx)
}
