// Package server sets up the HTTP server, router, and all route definitions.
//
// SERVER ARCHITECTURE:
// This package is the "wiring" layer: it connects handlers, middleware and
// routes, and decides how the server starts and stops.
//
// DEPENDENCY INJECTION FLOW:
// main.go opens the store (MongoDB or SQLite) and passes it in:
//
//	repository.Store → AuthService / ProfileService / PostService → handlers
//
// This is the "composition root" pattern: all dependencies are wired in
// one place (New/setupRoutes) rather than scattered across the codebase.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sakif/devconnector/internal/auth"
	"github.com/sakif/devconnector/internal/handler"
	"github.com/sakif/devconnector/internal/middleware"
	"github.com/sakif/devconnector/internal/repository"
	"github.com/sakif/devconnector/internal/service"
)

// Config holds server configuration.
type Config struct {
	Port      int
	SecretKey string
	// StoreName is only used in the startup log line ("mongo", "sqlite").
	StoreName string
}

// Server represents the HTTP server and all its dependencies.
//
// RESOURCE MANAGEMENT:
// The Server owns the store. Start closes it during graceful shutdown so
// pending writes are flushed and connections released.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	store  repository.Store

	tokens    *auth.TokenService
	passwords *auth.PasswordService
	registry  *prometheus.Registry
}

// Option customises a Server. Tests use it to lower the bcrypt cost.
type Option func(*Server)

// WithPasswordService replaces the default bcrypt cost.
func WithPasswordService(p *auth.PasswordService) Option {
	return func(s *Server) { s.passwords = p }
}

// New wires services and handlers over store.
//
// Each layer only receives what it needs:
//   - Services get repository interfaces (not the concrete store)
//   - Handlers get services (not the repository)
func New(cfg Config, logger *slog.Logger, store repository.Store, opts ...Option) (*Server, error) {
	tokens, err := auth.NewTokenService(cfg.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("creating token service: %w", err)
	}

	s := &Server{
		router:    chi.NewRouter(),
		config:    cfg,
		logger:    logger,
		store:     store,
		tokens:    tokens,
		passwords: auth.NewPasswordService(),
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s.setupRoutes()
	return s, nil
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	GET    /healthz                                 store ping
//	GET    /metrics                                 Prometheus exposition
//	POST   /api/users/register | /login             public
//	GET    /api/users/current                       protected
//	GET    /api/profile/all | /handle/{h} | /user/{id}  public
//	GET    POST DELETE /api/profile                 protected
//	POST   /api/profile/experience | /education     protected
//	DELETE /api/profile/experience/{exp_id} | /education/{edu_id}
//	GET    /api/posts | /api/posts/{id}             public
//	POST   /api/posts, like/unlike/comment          protected
//	DELETE /api/posts/{id}, /comment/{id}/{comment_id}
//
// MIDDLEWARE ORDER MATTERS:
// 1. RequestID  assigns a unique ID to each request (logged)
// 2. RealIP     extracts the client IP from proxy headers
// 3. Recoverer  turns panics into 500s
// 4. Logger     one structured line per request
// 5. Metrics    counters and latency by route pattern
func (s *Server) setupRoutes() {
	metrics := middleware.NewMetrics(s.registry)

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(metrics.Middleware)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	authService := service.NewAuthService(s.store, s.tokens, s.passwords, s.logger)
	profileService := service.NewProfileService(s.store, s.store, s.logger)
	postService := service.NewPostService(s.store, s.store, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	profileHandler := handler.NewProfileHandler(profileService, s.logger)
	postHandler := handler.NewPostHandler(postService, s.logger)

	requireAuth := auth.RequireAuth(s.tokens, s.store)

	s.router.Route("/api/users", func(r chi.Router) {
		r.Get("/test", authHandler.HandleTest)
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
		r.With(requireAuth).Get("/current", authHandler.HandleCurrent)
	})

	s.router.Route("/api/profile", func(r chi.Router) {
		r.Get("/test", profileHandler.HandleTest)
		r.Get("/all", profileHandler.HandleAll)
		r.Get("/handle/{handle}", profileHandler.HandleByHandle)
		r.Get("/user/{user_id}", profileHandler.HandleByUser)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", profileHandler.HandleGet)
			r.Post("/", profileHandler.HandleUpsert)
			r.Delete("/", profileHandler.HandleDelete)
			r.Post("/experience", profileHandler.HandleAddExperience)
			r.Post("/education", profileHandler.HandleAddEducation)
			r.Delete("/experience/{exp_id}", profileHandler.HandleDeleteExperience)
			r.Delete("/education/{edu_id}", profileHandler.HandleDeleteEducation)
		})
	})

	s.router.Route("/api/posts", func(r chi.Router) {
		r.Get("/test", postHandler.HandleTest)
		r.Get("/", postHandler.HandleList)
		r.Get("/{id}", postHandler.HandleGet)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", postHandler.HandleCreate)
			r.Delete("/{id}", postHandler.HandleDelete)
			r.Post("/like/{id}", postHandler.HandleLike)
			r.Post("/unlike/{id}", postHandler.HandleUnlike)
			r.Post("/comment/{id}", postHandler.HandleComment)
			r.Delete("/comment/{id}/{comment_id}", postHandler.HandleDeleteComment)
		})
	})
}

// handleHealth reports whether the store answers a ping.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	w.Header().Set("Content-Type", "application/json")
	if err := s.store.Ping(ctx); err != nil {
		s.logger.Warn("health check failed", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"unavailable"}` + "\n"))
		return
	}
	w.Write([]byte(`{"status":"ok"}` + "\n"))
}

// Start starts the HTTP server and handles graceful shutdown.
//
// GRACEFUL SHUTDOWN:
// 1. Stop accepting new HTTP connections
// 2. Wait for in-flight requests to finish (30s timeout)
// 3. Close the store (flushes writes, releases connections)
func (s *Server) Start() error {
	defer func() {
		if err := s.store.Close(); err != nil {
			s.logger.Error("closing store", slog.String("error", err.Error()))
		}
	}()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("store", s.config.StoreName),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
