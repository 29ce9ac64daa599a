package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/gamma-omg/stock-dashboard/internal/config"
	"github.com/gamma-omg/stock-dashboard/internal/dashboard"
	"github.com/gamma-omg/stock-dashboard/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed static
var staticFiles embed.FS

type Server struct {
	log     *slog.Logger
	cfg     config.Server
	dash    *dashboard.Dashboard
	metrics *metrics.Metrics
	srv     *http.Server
}

func NewServer(log *slog.Logger, cfg config.Server, dash *dashboard.Dashboard, m *metrics.Metrics) *Server {
	return &Server{
		log:     log,
		cfg:     cfg,
		dash:    dash,
		metrics: m,
	}
}

func (s *Server) Router() (http.Handler, error) {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.WriteTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/years", s.handleYears)
		r.Get("/chart/{year}", s.handleChart)
		r.Get("/chart/{year}/png", s.handleChartPNG)
		r.Post("/reload", s.handleReload)
		r.Delete("/cache", s.handleInvalidate)
	})

	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to create static file system: %w", err)
	}
	r.Handle("/*", http.FileServer(http.FS(staticFS)))

	return r, nil
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	h, err := s.Router()
	if err != nil {
		return err
	}

	s.srv = &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      h,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("dashboard listening", slog.String("addr", s.cfg.Addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("dashboard server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("dashboard graceful shutdown failed: %w", err)
	}

	s.log.Info("dashboard stopped")
	return nil
}

