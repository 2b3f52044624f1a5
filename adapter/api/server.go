// Package api provides the HTTP API for the FairShare exposure engine.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/felixgeelhaar/fairshare/pkg/observability"
	"github.com/google/uuid"
)

// Server is the HTTP API server.
type Server struct {
	mux           *http.ServeMux
	server        *http.Server
	logger        *slog.Logger
	showcase      *ShowcaseHandler
	notifications *NotificationsHandler
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultServerConfig returns the default server configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:         "0.0.0.0:8080",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// NewServer creates a new API server.
func NewServer(cfg ServerConfig, showcase *ShowcaseHandler, notifications *NotificationsHandler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	s := &Server{
		mux:           mux,
		logger:        logger,
		showcase:      showcase,
		notifications: notifications,
	}

	s.registerRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      requestContext(s.mux),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// registerRoutes sets up the API routes.
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("GET /api/v1/feed", s.showcase.Feed)
	s.mux.HandleFunc("POST /api/v1/projects", s.showcase.CreateProject)
	s.mux.HandleFunc("GET /api/v1/projects/{projectID}", s.showcase.GetProject)
	s.mux.HandleFunc("POST /api/v1/projects/{projectID}/like", s.showcase.ToggleLike)
	s.mux.HandleFunc("GET /api/v1/creators/{creatorID}/stats", s.showcase.CreatorStats)

	s.mux.HandleFunc("GET /api/v1/notifications", s.notifications.List)
	s.mux.HandleFunc("POST /api/v1/notifications/{notificationID}/read", s.notifications.MarkRead)
	s.mux.HandleFunc("POST /api/v1/notifications/read-all", s.notifications.MarkAllRead)
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Start starts the API server.
func (s *Server) Start() error {
	s.logger.Info("starting API server",
		"addr", s.server.Addr,
	)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")
	return s.server.Shutdown(ctx)
}

// requestContext tags each request with a request ID and resolves the
// caller's identity from the transport headers.
func requestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := observability.WithRequestID(r.Context(), uuid.NewString())
		ctx = resolveIdentity(ctx, r)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", "error", err)
		}
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error":   http.StatusText(status),
		"message": message,
	})
}
