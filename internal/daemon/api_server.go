package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"fileconverser/internal/logging"
	"fileconverser/internal/services"
)

type apiServer struct {
	bind     string
	token    string
	logger   *slog.Logger
	daemon   *Daemon
	validate *validator.Validate

	mu       sync.Mutex
	listener net.Listener
	server   *http.Server
}

func newAPIServer(bind, token string, d *Daemon, logger *slog.Logger) *apiServer {
	srv := &apiServer{
		bind:     bind,
		token:    token,
		logger:   logging.NewComponentLogger(logger, "api-server"),
		daemon:   d,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	srv.server = &http.Server{
		Handler:           srv.handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

func (s *apiServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("POST /api/intake", s.handleIntake)
	mux.HandleFunc("GET /api/queues/{kind}", s.handleQueue)
	mux.HandleFunc("DELETE /api/queues/{kind}", s.handleClear)
	mux.HandleFunc("POST /api/queues/{kind}/select", s.handleSelect)
	mux.HandleFunc("PATCH /api/queues/{kind}/jobs/{id}", s.handleConfigure)
	mux.HandleFunc("POST /api/queues/{kind}/jobs/{id}/run", s.handleRun)
	mux.HandleFunc("POST /api/queues/{kind}/jobs/{id}/reset", s.handleReset)
	mux.HandleFunc("POST /api/queues/{kind}/run-all", s.handleRunAll)
	mux.HandleFunc("POST /api/queues/{kind}/drag", s.handleDrag)
	mux.HandleFunc("POST /api/queues/{kind}/drop", s.handleDrop)
	mux.HandleFunc("GET /api/queues/{kind}/export.zip", s.handleExport)
	mux.HandleFunc("GET /api/blobs/{handle}", s.handleBlob)
	mux.HandleFunc("GET /api/events", s.handleEvents)
	mux.HandleFunc("GET /api/onboarding", s.handleOnboarding)
	mux.HandleFunc("PUT /api/onboarding/{flag}", s.handleSetOnboarding)
	return authMiddleware(s.token, mux)
}

func (s *apiServer) start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.server.Shutdown(shutdownCtx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *apiServer) addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// writeFailure maps a marked error to its status code.
func (s *apiServer) writeFailure(w http.ResponseWriter, err error) {
	status := services.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", logging.Error(err))
	}
	s.writeError(w, status, services.FailureMessage(err))
}

// decode reads a JSON body into dst and validates it.
func (s *apiServer) decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return services.Wrap(services.ErrValidation, "api", "decode body", "", err)
	}
	if err := s.validate.Struct(dst); err != nil {
		return services.Wrap(services.ErrValidation, "api", "validate body", "", err)
	}
	return nil
}
