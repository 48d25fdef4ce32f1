package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/LucasStill/webai-collector/internal/config"
	"github.com/LucasStill/webai-collector/internal/handler"
	"github.com/LucasStill/webai-collector/internal/metrics"
)

// IntakeServer is the local HTTP surface the page script talks to. It
// accepts interaction batches over POST and websocket and exposes health
// and metrics endpoints.
type IntakeServer struct {
	httpServer *http.Server
}

func NewIntakeServer(cfg config.IntakeConfig, h *handler.HTTPHandler) *IntakeServer {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(handler.CORSMiddleware)

	r.Get("/healthz", handler.HealthCheck)
	r.Post("/events", h.HandleEvents)
	r.Get("/stream", h.HandleStream)
	r.Handle("/metrics", metrics.Handler())

	return &IntakeServer{
		httpServer: &http.Server{
			Addr:    cfg.Addr,
			Handler: r,
		},
	}
}

// Handler exposes the route tree, mainly for tests.
func (s *IntakeServer) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *IntakeServer) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *IntakeServer) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
