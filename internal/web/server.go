// Package web serves the generated build directory for local preview and
// exposes a small JSON API for triggering and inspecting generation runs.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/JonMunkholm/sitegen/internal/config"
	"github.com/JonMunkholm/sitegen/internal/core"
	"github.com/JonMunkholm/sitegen/internal/history"
	mw "github.com/JonMunkholm/sitegen/internal/web/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Runner is the part of core.Service the server depends on.
type Runner interface {
	TryGenerate(ctx context.Context) (*core.RunResult, error)
	RecentRuns(ctx context.Context, limit int) ([]history.Run, error)
	LimiterStatus() core.RunLimiterStatus
	BuildDir() string
}

// Server is the preview HTTP server.
type Server struct {
	runner  Runner
	cfg     *config.Config
	router  *chi.Mux
	server  *http.Server
	limiter *rateLimiter
}

// NewServer creates a Server serving runner's build directory.
func NewServer(runner Runner, cfg *config.Config) *Server {
	s := &Server{
		runner: runner,
		cfg:    cfg,
		router: chi.NewRouter(),
		// Generation rewrites the whole build tree; 10 triggers per minute per client.
		limiter: newRateLimiter(10, time.Minute),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(mw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	if s.cfg.Server.RequestTimeout > 0 {
		s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
	}
	s.router.Use(securityHeaders)
}

func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleIndex)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/runs", s.handleRuns)
		r.With(s.limiter.middleware).Post("/generate", s.handleGenerate)
	})

	s.router.Get("/*", s.handleFile)
	s.router.Head("/*", s.handleFile)
}

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("serving build directory", "addr", addr, "build_dir", s.runner.BuildDir())
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.stop()
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// writeJSON encodes v as JSON and writes it to w.
// Encoding errors are only logged since headers are already sent.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err, "request_id", middleware.GetReqID(r.Context()))
	}
}
