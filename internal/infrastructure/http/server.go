// Package http provides the health/status HTTP server.
// Clean Architecture: Framework/driver layer - outermost circle.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// GatewayStatus reports the chat-platform connection state.
type GatewayStatus interface {
	Connected() bool
}

// Server exposes liveness and status endpoints for the bot process.
type Server struct {
	gateway    GatewayStatus
	aiProvider string
	logger     *zap.Logger
	addr       string
	started    time.Time
}

// NewServer creates a new HTTP server.
func NewServer(gateway GatewayStatus, aiProvider, addr string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		gateway:    gateway,
		aiProvider: aiProvider,
		logger:     logger.Named("http"),
		addr:       addr,
		started:    time.Now(),
	}
}

// Handler returns the routed handler; split out for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/status", s.handleStatus)
	return s.loggingMiddleware(mux)
}

// Start runs the HTTP server until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	s.logger.Info("health server starting", zap.String("addr", s.addr))

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// handleHealth returns process liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleStatus reports gateway connectivity and the AI mode.
// Returns 503 while the gateway is down so it can back a readiness check.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	gateway := "disconnected"
	code := http.StatusServiceUnavailable
	if s.gateway != nil && s.gateway.Connected() {
		gateway = "connected"
		code = http.StatusOK
	}
	writeJSON(w, code, map[string]string{
		"gateway": gateway,
		"ai":      s.aiProvider,
		"uptime":  time.Since(s.started).Round(time.Second).String(),
	})
}

func writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)))
	})
}
