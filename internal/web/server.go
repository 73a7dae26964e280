// Package web serves the spreadsheet import API.
package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/SamTusick/Switch4Good-DataBaseSystem/internal/config"
	"github.com/SamTusick/Switch4Good-DataBaseSystem/internal/core"
	"github.com/SamTusick/Switch4Good-DataBaseSystem/internal/storage/postgres"
	"github.com/SamTusick/Switch4Good-DataBaseSystem/internal/web/middleware"
)

// ImportLog stores and lists completed imports.
type ImportLog interface {
	RecordImport(ctx context.Context, result *core.ImportResult, actor postgres.Actor, duration time.Duration) error
	ListImports(ctx context.Context, opts postgres.ImportLogOptions) (*postgres.ImportLogPage, error)
}

// Pinger reports database reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the server wraps.
type Deps struct {
	Importer  *core.Importer
	Previewer *core.Previewer
	Limiter   *core.ImportLimiter
	ImportLog ImportLog
	DB        Pinger
}

// Server is the HTTP server for the import API.
type Server struct {
	cfg       *config.Config
	importer  *core.Importer
	previewer *core.Previewer
	limiter   *core.ImportLimiter
	importLog ImportLog
	db        Pinger
	router    *chi.Mux
	server    *http.Server
}

// NewServer wires routes and middleware. ctx bounds background work such as
// the rate limiter's sweeper.
func NewServer(ctx context.Context, cfg *config.Config, deps Deps) *Server {
	s := &Server{
		cfg:       cfg,
		importer:  deps.Importer,
		previewer: deps.Previewer,
		limiter:   deps.Limiter,
		importLog: deps.ImportLog,
		db:        deps.DB,
		router:    chi.NewRouter(),
	}
	if s.limiter == nil {
		s.limiter = core.NewImportLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWaitTime)
	}
	s.setupMiddleware(ctx)
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware(ctx context.Context) {
	s.router.Use(chimw.RequestID)
	s.router.Use(middleware.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	s.router.Use(securityHeaders)
	s.router.Use(middleware.CORS(s.cfg.Security.AllowedOrigins))

	if s.cfg.Rate.Enabled {
		limiter := middleware.NewRateLimiter(ctx, s.cfg.Rate.RequestsPerMinute, time.Minute)
		s.router.Use(limiter.Handler)
	}
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	verifier := middleware.NewTokenVerifier(s.cfg.Auth)
	s.router.Route("/api/upload", func(r chi.Router) {
		r.Use(middleware.Authenticate(verifier))

		r.Get("/tables", s.handleListTables)
		r.Post("/preview", s.handlePreview)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(s.cfg.Auth.AdminRole))

			r.Get("/history", s.handleHistory)
			r.Post("/import", s.handleImport)
			r.Post("/{table}", s.handleImportTable)
		})
	})
}

// Start listens on the configured address until Shutdown.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown stops accepting requests, then waits for running imports to
// finish or ctx to end.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			return err
		}
	}
	return s.limiter.WaitForDrain(ctx)
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
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
