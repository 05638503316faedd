package api

import (
	"net/http"
	"time"

	handlers "payplan/src/api/handlers"
	"payplan/src/config"

	"github.com/go-chi/chi/v5"
)

type Server struct {
	Router  *chi.Mux
	Handler *handlers.Handler
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
	return server, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

func (s *Server) InitRoutes() {
	s.Router.Get("/alive", handlers.Healthcheck)

	s.Router.Route("/api/rules", func(r chi.Router) {
		r.Get("/", s.Handler.GetRules)
		r.Post("/", s.Handler.CreateRule)
		r.Put("/{id}", s.Handler.UpdateRule)
		r.Delete("/{id}", s.Handler.DeleteRule)
	})

	s.Router.Route("/api/templates", func(r chi.Router) {
		r.Get("/", s.Handler.GetTemplates)
		r.Post("/", s.Handler.CreateTemplate)
		r.Put("/{id}", s.Handler.UpdateTemplate)
		r.Delete("/{id}", s.Handler.DeleteTemplate)
	})

	s.Router.Route("/api/job-runs", func(r chi.Router) {
		r.Get("/", s.Handler.GetJobRuns)
		r.Get("/{id}", s.Handler.GetJobRunByID)
	})

	s.Router.Get("/api/notifications", s.Handler.GetNotifications)
}

func NewHTTPServer(server *Server, port string) *http.Server {
	httpServer := &http.Server{
		Addr:         ":" + port,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Handler:      server,
	}
	return httpServer
}
