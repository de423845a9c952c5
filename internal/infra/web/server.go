package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"apostila-generator/internal/usecase"
)

type Server struct {
	genUC usecase.GenerationUseCase
	auth  *AuthManager
	log   *zerolog.Logger
}

func NewServer(genUC usecase.GenerationUseCase, auth *AuthManager, log *zerolog.Logger) *Server {
	return &Server{genUC: genUC, auth: auth, log: log}
}

// Router builds the HTTP surface: health and metrics are open, the API is
// behind bearer auth.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.auth.Middleware)
		r.Post("/apostilas/generate", s.handleGenerate)
		r.Get("/jobs/{id}", s.handleGetJob)
		r.Get("/apostilas", s.handleListApostilas)
		r.Get("/apostilas/{id}/download", s.handleDownload)
	})
	return r
}
