// Package server exposes the solver over HTTP: JSON solutions, PNG plots,
// the preset catalog, a health probe and Prometheus metrics.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/netutil"

	"github.com/agbru/friedmann/internal/config"
	"github.com/agbru/friedmann/internal/logging"
	"github.com/agbru/friedmann/internal/orchestration"
)

const (
	// DefaultShutdownTimeout bounds the drain of in-flight requests.
	DefaultShutdownTimeout = 5 * time.Second
	// RequestIDHeader carries the request identifier in both directions.
	RequestIDHeader = "X-Request-ID"

	readHeaderTimeout = 5 * time.Second
	writeTimeout      = 2 * time.Minute
	idleTimeout       = time.Minute
)

type requestIDKey struct{}

// RequestID returns the identifier attached to ctx by the server, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Server answers API requests starting from a base configuration: query
// parameters edit a copy of it the way the REPL edits its own.
type Server struct {
	base     config.AppConfig
	solver   orchestration.Solver
	logger   logging.Logger
	metrics  *Metrics
	security SecurityConfig
	maxConns int
	shutdown time.Duration
	handler  http.Handler
}

// Option customises a Server.
type Option func(*Server)

// WithSolver replaces the integrator.
func WithSolver(s orchestration.Solver) Option {
	return func(srv *Server) { srv.solver = s }
}

// WithSecurityConfig replaces DefaultSecurityConfig.
func WithSecurityConfig(c SecurityConfig) Option {
	return func(srv *Server) { srv.security = c }
}

// WithMetrics shares a Metrics instance.
func WithMetrics(m *Metrics) Option {
	return func(srv *Server) { srv.metrics = m }
}

// New builds a server for cfg. With --preset all, requests without a preset
// use the first one.
func New(cfg config.AppConfig, logger logging.Logger, opts ...Option) *Server {
	if cfg.Catalog == nil {
		cfg.Catalog = config.DefaultCatalog()
	}
	if cfg.Preset == config.AllPresets {
		if names := cfg.Catalog.Names(); len(names) > 0 {
			_ = cfg.SelectPreset(names[0])
		}
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	s := &Server{
		base:     cfg,
		solver:   orchestration.DefaultSolver,
		logger:   logger,
		security: DefaultSecurityConfig(),
		maxConns: cfg.MaxConns,
		shutdown: DefaultShutdownTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}
	if s.maxConns <= 0 {
		s.maxConns = config.DefaultMaxConns
	}
	s.handler = s.routes()
	return s
}

// Handler returns the routed handler with every middleware applied.
func (s *Server) Handler() http.Handler { return s.handler }

// Metrics returns the collectors of the server.
func (s *Server) Metrics() *Metrics { return s.metrics }

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	handle := func(path string, h http.HandlerFunc) {
		mux.HandleFunc(path, s.requestIDMiddleware(SecurityMiddleware(s.security, s.metricsMiddleware(h))))
	}
	handle("/api/solve", s.handleSolve)
	handle("/api/plot.png", s.handlePlot)
	handle("/api/presets", s.handlePresets)
	handle("/healthz", s.handleHealth)
	handle("/metrics", s.handleMetrics)
	return mux
}

// ListenAndServe listens on addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts at most maxConns concurrent connections on ln. When ctx is
// cancelled, it stops accepting and waits for in-flight requests up to the
// shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}
	limited := netutil.LimitListener(ln, s.maxConns)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(limited)
	}()
	s.logger.Info("server listening",
		logging.String("addr", ln.Addr().String()),
		logging.Int("max_conns", s.maxConns))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdown)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		_ = srv.Close()
		<-errCh
		return err
	}
	<-errCh
	return nil
}

// statusRecorder remembers the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) metricsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.metrics.IncrementActiveRequests()
		defer s.metrics.DecrementActiveRequests()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next(rec, r)
		s.metrics.ObserveRequest(r.URL.Path, rec.code)
	}
}

// requestIDMiddleware keeps a client-supplied X-Request-ID or assigns a new
// one, echoes it and stores it in the request context.
func (s *Server) requestIDMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		start := time.Now()
		next(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
		s.logger.Debug("request served",
			logging.String("request_id", id),
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.String("duration", time.Since(start).String()))
	}
}

// allowGet rejects every method but GET and HEAD with 405.
func (s *Server) allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	s.logger.Debug("method not allowed",
		logging.String("method", r.Method),
		logging.String("path", r.URL.Path))
	w.Header().Set("Allow", "GET, HEAD")
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Error: msg})
}
