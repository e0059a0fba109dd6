package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/comfythings/visaflow/internal/async"
	"github.com/comfythings/visaflow/internal/common"
	"github.com/comfythings/visaflow/internal/export"
	"github.com/comfythings/visaflow/internal/ingest"
	"github.com/comfythings/visaflow/internal/repository"
)

// Server wires the HTTP surface together.
type Server struct {
	cfg      common.ServerConfig
	service  *Service
	clients  repository.ClientRepository
	stager   *ingest.Stager
	exporter *export.Service
	queue    *async.Queue
	logger   *slog.Logger
}

func New(
	cfg common.ServerConfig,
	service *Service,
	clients repository.ClientRepository,
	stager *ingest.Stager,
	exporter *export.Service,
	queue *async.Queue,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:      cfg,
		service:  service,
		clients:  clients,
		stager:   stager,
		exporter: exporter,
		queue:    queue,
		logger:   logger,
	}
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.logRequests)
	r.Use(s.recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/extract", s.handleExtract)

		r.Route("/clients", func(r chi.Router) {
			r.Get("/", s.handleListClients)
			r.Get("/export", s.handleExportClients)
			r.Get("/{id}", s.handleGetClient)
			r.Put("/{id}", s.handleUpdateClient)
			r.Delete("/{id}", s.handleDeleteClient)
		})

		r.Get("/jobs/{id}", s.handleGetJob)
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.HTTPAddr,
		Handler:      s.Router(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.WriteTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
