package controllers

import (
	"payplan/src/repositories"
)

type Controller struct {
	RuleRepo     repositories.NotificationRuleRepository
	TemplateRepo repositories.EmailTemplateRepository
	JobRunRepo   repositories.JobRunRepository
	LogRepo      repositories.NotificationLogRepository
}

func NewController(
	ruleRepo repositories.NotificationRuleRepository,
	templateRepo repositories.EmailTemplateRepository,
	jobRunRepo repositories.JobRunRepository,
	logRepo repositories.NotificationLogRepository,
) *Controller {
	return &Controller{
		RuleRepo:     ruleRepo,
		TemplateRepo: templateRepo,
		JobRunRepo:   jobRunRepo,
		LogRepo:      logRepo,
	}
}
