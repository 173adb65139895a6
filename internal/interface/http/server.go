// Package http implements the JSON REST API of the study tracker.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/educationaltr/study-tracker/config"
	"github.com/educationaltr/study-tracker/internal/application/command"
	"github.com/educationaltr/study-tracker/internal/application/query"
	"github.com/educationaltr/study-tracker/internal/interface/http/handlers"
	"github.com/educationaltr/study-tracker/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// DEPENDENCIES
// ══════════════════════════════════════════════════════════════════════════════

// Dependencies contains everything the HTTP handlers call.
type Dependencies struct {
	// Commands (CQRS write side)
	RegisterStudent *command.RegisterStudentHandler
	Authenticate    *command.AuthenticateHandler
	RecordSession   *command.RecordSessionHandler
	AddExam         *command.AddExamHandler
	DeleteRecord    *command.DeleteRecordHandler
	Schedules       *command.ScheduleHandler

	// Queries (CQRS read side)
	Dashboard      *query.GetDashboardHandler
	Streak         *query.GetStreakHandler
	Stats          *query.GetStatsHandler
	CalculateGrade *query.CalculateGradeHandler
	Leaderboard    *query.GetLeaderboardHandler
	Admin          *query.AdminHandler
	ScheduleQuery  *query.ScheduleQueryHandler

	Tokens        TokenVerifier
	HealthChecker handlers.HealthChecker

	// Metrics may be nil when metrics are disabled.
	Metrics *Metrics
	Logger  *slog.Logger
}

// ══════════════════════════════════════════════════════════════════════════════
// SERVER
// ══════════════════════════════════════════════════════════════════════════════

// Server is the HTTP API server.
type Server struct {
	config     config.HTTPConfig
	deps       Dependencies
	router     *mux.Router
	handler    http.Handler
	httpServer *http.Server
	logger     *slog.Logger
	validator  *Validator
	limiter    *ipRateLimiter

	mu        sync.RWMutex
	running   bool
	startedAt time.Time
}

// NewServer creates a server with every route registered.
func NewServer(cfg config.HTTPConfig, deps Dependencies) *Server {
	s := &Server{
		config:    cfg,
		deps:      deps,
		router:    mux.NewRouter(),
		logger:    deps.Logger,
		validator: NewValidator(),
		startedAt: time.Now(),
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With(logger.Component("http"))

	if s.deps.HealthChecker == nil {
		s.deps.HealthChecker = handlers.NewNoopHealthChecker()
	}
	if cfg.RateLimit > 0 {
		s.limiter = newIPRateLimiter(cfg.RateLimit, cfg.RateBurst)
	}

	s.setupRoutes()
	s.handler = s.buildMiddlewareChain(s.router)

	s.httpServer = &http.Server{
		Addr:              cfg.Address(),
		Handler:           s.handler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    1 << 20,
	}
	return s
}

// ══════════════════════════════════════════════════════════════════════════════
// ROUTING
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) setupRoutes() {
	r := s.router
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		writeJSONError(w, req, http.StatusNotFound, codeNotFound, "route not found", nil)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		writeJSONError(w, req, http.StatusMethodNotAllowed, codeBadRequest, "method not allowed", nil)
	})
	if s.deps.Metrics != nil {
		r.Use(s.deps.Metrics.Middleware)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// Health & Status
	// ─────────────────────────────────────────────────────────────────────────
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/ready", s.handleReady).Methods(http.MethodGet)
	r.HandleFunc("/live", s.handleLive).Methods(http.MethodGet)
	if s.deps.Metrics != nil && s.config.MetricsEnabled {
		r.Handle("/metrics", s.deps.Metrics.Handler()).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ─────────────────────────────────────────────────────────────────────────
	// Public
	// ─────────────────────────────────────────────────────────────────────────
	api.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)

	// ─────────────────────────────────────────────────────────────────────────
	// Authenticated
	// ─────────────────────────────────────────────────────────────────────────
	protected := api.NewRoute().Subrouter()
	protected.Use(s.requireAuth)

	protected.HandleFunc("/dashboard", s.handleDashboard).Methods(http.MethodGet)
	protected.HandleFunc("/streak", s.handleStreak).Methods(http.MethodGet)
	protected.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)

	protected.HandleFunc("/sessions", s.handleRecordSession).Methods(http.MethodPost)
	protected.HandleFunc("/sessions/{id:[0-9]+}", s.handleDeleteSession).Methods(http.MethodDelete)
	protected.HandleFunc("/exams", s.handleAddExam).Methods(http.MethodPost)
	protected.HandleFunc("/exams/{id:[0-9]+}", s.handleDeleteExam).Methods(http.MethodDelete)
	protected.HandleFunc("/grade/calculate", s.handleCalculateGrade).Methods(http.MethodPost)

	protected.HandleFunc("/leaderboard", s.handleLeaderboard).Methods(http.MethodGet)

	protected.HandleFunc("/schedules", s.handleListSchedules).Methods(http.MethodGet)
	protected.HandleFunc("/schedules", s.handleCreateSchedule).Methods(http.MethodPost)
	protected.HandleFunc("/schedules/active", s.handleActiveSchedule).Methods(http.MethodGet)
	protected.HandleFunc("/schedules/{id:[0-9]+}", s.handleGetSchedule).Methods(http.MethodGet)
	protected.HandleFunc("/schedules/{id:[0-9]+}", s.handleUpdateSchedule).Methods(http.MethodPut)
	protected.HandleFunc("/schedules/{id:[0-9]+}", s.handleDeleteSchedule).Methods(http.MethodDelete)
	protected.HandleFunc("/schedule-items/{id:[0-9]+}/complete", s.handleCompleteItem).Methods(http.MethodPost)

	// ─────────────────────────────────────────────────────────────────────────
	// Admin
	// ─────────────────────────────────────────────────────────────────────────
	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(s.requireAdmin)

	admin.HandleFunc("/students", s.handleAdminStudents).Methods(http.MethodGet)
	admin.HandleFunc("/students/{id:[0-9]+}", s.handleAdminStudent).Methods(http.MethodGet)
	admin.HandleFunc("/students/{id:[0-9]+}/schedule", s.handleAdminActiveSchedule).Methods(http.MethodGet)
	admin.HandleFunc("/students/{id:[0-9]+}/sessions", s.handleAdminRecordSession).Methods(http.MethodPost)
}

// ══════════════════════════════════════════════════════════════════════════════
// MIDDLEWARE CHAIN
// ══════════════════════════════════════════════════════════════════════════════

// buildMiddlewareChain wraps the router. The outermost layer runs first:
// CORS, request ID, recovery, logging, rate limit.
func (s *Server) buildMiddlewareChain(handler http.Handler) http.Handler {
	h := handler

	if s.limiter != nil {
		h = s.rateLimitMiddleware(h)
	}
	h = s.loggingMiddleware(h)
	h = s.recoveryMiddleware(h)
	h = s.requestIDMiddleware(h)

	cors := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins(s.config.CORSOrigins),
		gorillaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Request-ID"}),
		gorillaHandlers.ExposedHeaders([]string{"X-Request-ID"}),
		gorillaHandlers.AllowCredentials(),
	)
	return cors(h)
}

// Handler returns the fully wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ══════════════════════════════════════════════════════════════════════════════
// SERVER LIFECYCLE
// ══════════════════════════════════════════════════════════════════════════════

// Start serves until Shutdown is called. It returns nil after a clean shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server already running")
	}
	s.running = true
	s.startedAt = time.Now()
	s.mu.Unlock()

	if s.limiter != nil {
		go s.limiter.cleanup(ctx)
	}

	s.logger.InfoContext(ctx, "starting HTTP server", slog.String("address", s.config.Address()))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// Uptime returns how long the server has been up.
func (s *Server) Uptime() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return time.Since(s.startedAt).Round(time.Second)
}

// Address returns the listen address.
func (s *Server) Address() string {
	return s.config.Address()
}
