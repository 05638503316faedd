package worker

import (
	"context"
	"net/http"
	"time"

	"payplan/src/config"
	"payplan/src/scheduler"
	"payplan/src/utils"
	handlers "payplan/src/worker/handlers"

	"github.com/go-chi/chi/v5"
)

type Server struct {
	Router  *chi.Mux
	Handler *handlers.Handler

	cronTask *scheduler.ScheduledTask
}

func NewServer(cfg *config.Config) (*Server, error) {
	handler, err := handlers.NewHandler(cfg)
	if err != nil {
		return nil, err
	}

	server := &Server{
		Router:  chi.NewRouter(),
		Handler: handler,
	}
	server.InitRoutes()

	if cfg.Job.CronTime != "" {
		task, err := scheduler.NewScheduledTask(cfg.Job.CronTime, server.runScheduledJob)
		if err != nil {
			return nil, err
		}
		server.cronTask = task
	}

	return server, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

func (s *Server) InitRoutes() {
	s.Router.Get("/alive", handlers.Healthcheck)

	s.Router.Route("/api/jobs", func(r chi.Router) {
		r.Post("/overdue", s.Handler.RunOverdueJob)
	})
}

// runScheduledJob is the in-process trigger path; it bypasses the HTTP
// credential check because it never leaves the process.
func (s *Server) runScheduledJob() {
	ctx := utils.WithLogger(context.Background(), s.Handler.Logger)
	if _, err := s.Handler.Controller.RunOverdueJob(ctx); err != nil {
		s.Handler.Logger.Error("scheduled overdue job failed: ", err)
	}
}

func (s *Server) Close() {
	if s.cronTask != nil {
		s.cronTask.Cancel()
	}
}

func NewHTTPServer(server *Server, port string) *http.Server {
	httpServer := &http.Server{
		Addr:         ":" + port,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute,
		Handler:      server,
	}
	return httpServer
}
