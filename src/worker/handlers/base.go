package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"payplan/src/clients/mailer"
	"payplan/src/config"
	"payplan/src/database"
	"payplan/src/repositories"
	"payplan/src/services"
	"payplan/src/utils"
	aws_handler "payplan/src/utils/aws"
	"payplan/src/worker/controllers"

	"github.com/sirupsen/logrus"
)

type Handler struct {
	Controller *controllers.Controller
	Logger     *logrus.Logger

	jobSecret string
}

func NewHandler(cfg *config.Config) (*Handler, error) {
	db, err := database.SetupDB(cfg)
	if err != nil {
		return nil, err
	}

	mailerClient, err := mailer.NewClient(cfg)
	if err != nil {
		return nil, err
	}

	tenantRepo := repositories.NewTenantRepository(db)
	installmentRepo := repositories.NewInstallmentRepository(db)
	ruleRepo := repositories.NewNotificationRuleRepository(db)
	templateRepo := repositories.NewEmailTemplateRepository(db)
	staffRepo := repositories.NewStaffRepository(db)
	logRepo := repositories.NewNotificationLogRepository(db)
	jobRunRepo := repositories.NewJobRunRepository(db)

	transition := services.NewTransitionService(tenantRepo, installmentRepo)
	dispatcher := services.NewDispatchService(installmentRepo, ruleRepo, templateRepo, staffRepo, logRepo, mailerClient)
	jobService := services.NewOverdueJobService(transition, dispatcher, jobRunRepo,
		time.Duration(cfg.Job.DispatchTimeout)*time.Second)

	secret, err := resolveJobSecret(cfg)
	if err != nil {
		return nil, err
	}

	return &Handler{
		Controller: controllers.NewController(jobService),
		Logger:     utils.NewLogger(cfg.Logging),
		jobSecret:  secret,
	}, nil
}

// resolveJobSecret prefers Secrets Manager when an ARN is configured.
func resolveJobSecret(cfg *config.Config) (string, error) {
	if cfg.Job.SecretARN != "" {
		sess, err := aws_handler.NewSession(cfg.Mailer.Region)
		if err != nil {
			return "", err
		}
		return aws_handler.NewSecretManager(sess).GetSecretValue(cfg.Job.SecretARN)
	}
	if cfg.Job.Secret == "" {
		return "", errors.New("job secret is not configured")
	}
	return cfg.Job.Secret, nil
}

func (h *Handler) respond(w http.ResponseWriter, _ *http.Request, data interface{}, status int) {
	res, err := json.Marshal(data)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write(res)
}

func (h *Handler) HandleErrors(w http.ResponseWriter, err error) {
	var httpErr *utils.HTTPError
	if errors.Is(err, context.DeadlineExceeded) {
		h.respond(w, nil, map[string]string{"error": "Request timed out"}, http.StatusGatewayTimeout)
	} else if errors.As(err, &httpErr) {
		h.respond(w, nil, map[string]string{"error": httpErr.Message}, httpErr.Code)
	} else if err != nil {
		h.respond(w, nil, map[string]string{"error": err.Error()}, http.StatusInternalServerError)
	} else {
		h.respond(w, nil, map[string]string{"error": "Unhandled error"}, http.StatusInternalServerError)
	}
}
