// Package http exposes the latest readings over a small JSON API.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"sysmon-agent/internal/auth"
	"sysmon-agent/internal/config"
	"sysmon-agent/internal/logger"
)

type Server struct {
	cfg     *config.Config
	handler http.Handler
	log     logger.Logger
	srv     *http.Server
}

// NewServer wires h behind the middleware chain. ws may be nil when no
// websocket hub is running.
func NewServer(cfg *config.Config, h *Handler, ws http.Handler, verifier *auth.Verifier, log logger.Logger) *Server {
	return &Server{
		cfg:     cfg,
		handler: NewRouter(cfg, h, ws, verifier, log),
		log:     log,
	}
}

func NewRouter(cfg *config.Config, h *Handler, ws http.Handler, verifier *auth.Verifier, log logger.Logger) http.Handler {
	mux := http.NewServeMux()

	public := NewChain(RequestLog(log), CORS(cfg.AllowedOrigins))
	protected := public.Extend(JWT(verifier, log))

	mux.Handle("GET /healthz", public.ThenFunc(h.Health))
	mux.Handle("GET /monitors", protected.ThenFunc(h.Monitors))
	mux.Handle("GET /readings", protected.ThenFunc(h.Readings))
	mux.Handle("GET /readings/{name}", protected.ThenFunc(h.Reading))
	mux.Handle("OPTIONS /", public.ThenFunc(func(w http.ResponseWriter, r *http.Request) {}))

	if ws != nil {
		// the websocket handler checks its own token so browsers can pass it
		// as a query parameter
		mux.Handle("GET /ws", RequestLog(log)(ws))
	}

	return mux
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.srv = &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http: listening", "address", s.cfg.Address)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		s.log.Info("http: server stopped")
		return nil
	case err := <-errCh:
		return err
	}
}
