package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"git.home.luguber.info/inful/postindex/internal/config"
	pierrors "git.home.luguber.info/inful/postindex/internal/errors"
	"git.home.luguber.info/inful/postindex/internal/logfields"
	"git.home.luguber.info/inful/postindex/internal/post"
)

// SnapshotSource yields the index currently served, nil before the first load.
type SnapshotSource interface {
	Current() *post.Index
}

// Server is the admin HTTP listener.
type Server struct {
	cfg       config.MonitoringConfig
	snapshots SnapshotSource
	metrics   http.Handler
	logger    *slog.Logger
	startedAt time.Time

	srv *http.Server
	ln  net.Listener
}

// New wires the admin routes. A nil metrics handler leaves the metrics path
// unregistered.
func New(cfg config.MonitoringConfig, snapshots SnapshotSource, metrics http.Handler) *Server {
	return &Server{
		cfg:       cfg,
		snapshots: snapshots,
		metrics:   metrics,
		logger:    slog.Default(),
		startedAt: time.Now(),
	}
}

// Handler returns the routed, logged and panic-guarded admin mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	if s.metrics != nil && s.cfg.MetricsPath != "" {
		mux.Handle(s.cfg.MetricsPath, s.metrics)
	}
	return chain(s.logger, mux)
}

// Start binds cfg.Addr and serves in the background. Bind errors are
// returned directly.
func (s *Server) Start(ctx context.Context) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Addr)
	if err != nil {
		return pierrors.Wrap(err, pierrors.CategoryNetwork, pierrors.SeverityFatal, "failed to bind admin listener").
			WithContext("addr", s.cfg.Addr)
	}
	s.ln = ln
	s.srv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Admin server error", logfields.Error(err))
		}
	}()
	s.logger.Info("Admin server started", logfields.Addr(ln.Addr().String()))
	return nil
}

// Addr is the bound address, or "" before Start.
func (s *Server) Addr() string {
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Stop shuts the listener down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	if err := s.srv.Shutdown(ctx); err != nil {
		return pierrors.Wrap(err, pierrors.CategoryNetwork, pierrors.SeverityError, "admin server shutdown")
	}
	return nil
}
