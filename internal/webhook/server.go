package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mattjoyce/slashgate/internal/handler"
	"github.com/mattjoyce/slashgate/internal/metrics"
	"github.com/mattjoyce/slashgate/internal/oauth"
	"github.com/mattjoyce/slashgate/internal/payload"
)

// Server represents the webhook HTTP server.
type Server struct {
	config    Config
	commands  CommandHandler
	exchanger oauth.Exchanger
	installs  InstallationSaver
	metrics   *metrics.Metrics
	logger    *slog.Logger
	server    *http.Server
}

// Option configures optional server collaborators.
type Option func(*Server)

// WithOAuth enables the installation callback.
func WithOAuth(exchanger oauth.Exchanger, installs InstallationSaver) Option {
	return func(s *Server) {
		s.exchanger = exchanger
		s.installs = installs
	}
}

// WithMetrics records request metrics and serves them on MetricsPath.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// New creates a new webhook server instance.
func New(config Config, commands CommandHandler, logger *slog.Logger, opts ...Option) *Server {
	if config.MaxBodySize <= 0 {
		config.MaxBodySize = DefaultMaxBodySize
	}
	if config.CommandsPath == "" {
		config.CommandsPath = DefaultCommandsPath
	}
	if config.OAuthPath == "" {
		config.OAuthPath = DefaultOAuthPath
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = DefaultShutdownTimeout
	}

	s := &Server{
		config:   config,
		commands: commands,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start starts the webhook HTTP server (blocking).
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         s.config.Listen,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("webhook server starting",
		"listen", s.config.Listen,
		"commands_path", s.config.CommandsPath,
		"oauth_enabled", s.exchanger != nil,
		"signature_check", s.config.SigningSecret != "",
	)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("webhook server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("webhook server shutdown failed: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		return fmt.Errorf("webhook server error: %w", err)
	}
}

// Handler returns the configured router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
	}
	r.Use(middleware.Recoverer)

	r.Post(s.config.CommandsPath, s.handleCommand)
	if s.exchanger != nil && s.installs != nil {
		r.Get(s.config.OAuthPath, s.handleOAuthCallback)
	}
	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil && s.config.MetricsPath != "" {
		r.Method(http.MethodGet, s.config.MetricsPath, s.metrics.Handler())
	}

	return r
}

// loggingMiddleware logs HTTP requests (excludes sensitive payloads).
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Info("webhook request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
			"remote_addr", r.RemoteAddr,
		)
	})
}

// handleCommand handles slash command POST requests.
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := s.logger.With("request_id", middleware.GetReqID(ctx))

	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	if s.config.SigningSecret != "" {
		if err := verifySlackSignature(r.Header, body, s.config.SigningSecret); err != nil {
			logger.Warn("slack signature verification failed", "path", r.URL.Path)
			s.respondError(w, http.StatusForbidden, "forbidden")
			return
		}
	}

	msg, err := s.commands.Handle(ctx, handler.Event{Body: string(body)})
	if err != nil {
		var lerr *payload.LookupError
		if errors.As(err, &lerr) {
			logger.Error("slash command payload missing required field", "missing_key", lerr.Key)
		} else {
			logger.Error("slash command failed", "error", err)
		}
		s.respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.respondJSON(w, http.StatusOK, msg)
}

// handleOAuthCallback completes an app installation.
func (s *Server) handleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := s.logger.With("request_id", middleware.GetReqID(ctx))
	query := r.URL.Query()

	if reason := query.Get("error"); reason != "" {
		logger.Info("installation declined", "reason", reason)
		s.observeInstall(installDenied)
		s.respondError(w, http.StatusBadRequest, "installation cancelled: "+reason)
		return
	}

	code := query.Get("code")
	if code == "" {
		s.respondError(w, http.StatusBadRequest, "missing code")
		return
	}

	raw, err := s.exchanger.Exchange(ctx, code)
	if err != nil {
		logger.Error("oauth exchange failed", "error", err)
		s.observeInstall(installExchangeFailed)
		s.respondError(w, http.StatusBadGateway, "oauth exchange failed")
		return
	}

	inst, err := oauth.Parse(raw)
	if err != nil {
		var lerr *payload.LookupError
		if errors.As(err, &lerr) {
			logger.Error("oauth response missing required field", "missing_key", lerr.Key)
		} else {
			logger.Error("oauth response unreadable", "error", err)
		}
		s.observeInstall(installInvalidResponse)
		s.respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	id, err := s.installs.Save(ctx, inst)
	if err != nil {
		logger.Error("failed to store installation", "team_id", inst.TeamID, "error", err)
		s.observeInstall(installStoreFailed)
		s.respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	logger.Info("installation stored",
		"installation_id", id,
		"team_id", inst.TeamID,
		"channel_id", inst.ChannelID,
	)
	s.observeInstall(installStored)

	s.respondJSON(w, http.StatusOK, InstallResponse{
		TeamID:   inst.TeamID,
		TeamName: inst.TeamName,
		Channel:  inst.ChannelName,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// readBody enforces the body size limit. It writes the error response itself
// and reports whether the caller should continue.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	limitedReader := io.LimitReader(r.Body, s.config.MaxBodySize+1)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to read request body")
		return nil, false
	}
	if int64(len(body)) > s.config.MaxBodySize {
		s.respondError(w, http.StatusRequestEntityTooLarge, "payload too large")
		return nil, false
	}
	return body, true
}

func (s *Server) observeInstall(outcome string) {
	if s.metrics != nil {
		s.metrics.ObserveInstall(outcome)
	}
}

// respondJSON sends a JSON response.
func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("failed to write response", "error", err)
	}
}

// respondError sends a JSON error response.
func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, ErrorResponse{Error: message})
}
