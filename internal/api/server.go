package api

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JakeFAU/stackdump-mirror/internal/assets"
	"github.com/JakeFAU/stackdump-mirror/internal/config"
	"github.com/JakeFAU/stackdump-mirror/internal/metrics"
	"github.com/JakeFAU/stackdump-mirror/internal/render"
	"github.com/JakeFAU/stackdump-mirror/internal/site"
)

// CacheControl is sent with every response.
const CacheControl = "public, max-age=3600"

// Server wires HTTP handlers to the site registry and renderer.
type Server struct {
	router      chi.Router
	registry    *site.Registry
	renderer    *render.Renderer
	clock       site.Clock
	static      assets.Source
	defaultSite string
	logger      *zap.Logger
}

// Option customizes a Server.
type Option func(*Server)

// WithAssets serves src under /static/.
func WithAssets(src assets.Source) Option {
	return func(s *Server) {
		s.static = src
	}
}

// NewServer constructs a Server with middleware and routes.
func NewServer(
	registry *site.Registry,
	renderer *render.Renderer,
	clock site.Clock,
	cfg config.Config,
	logger *zap.Logger,
	opts ...Option,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		registry:    registry,
		renderer:    renderer,
		clock:       clock,
		defaultSite: cfg.Site.Default,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	metrics.Init()

	timeout := cfg.RequestTimeout()
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoverMiddleware)
	r.Use(metrics.Middleware)
	r.Use(cacheMiddleware)
	r.Use(middleware.StripSlashes)
	r.Use(timeoutMiddleware(timeout))

	r.Get("/", s.index)
	r.Get("/favicon.ico", http.NotFound)
	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Handle("/metrics", metrics.Handler())
	if s.static != nil {
		r.Handle("/static/*", http.StripPrefix("/static", assets.Handler(s.static, logger.Named("assets"))))
	}

	r.Route("/{site}", func(r chi.Router) {
		r.Use(s.siteResolver)
		r.Get("/", s.siteHome)
		r.Get("/search", s.search)
		r.Get("/tag/{tag}", s.tag)
		r.Get("/user/{id}", s.user)
		r.Get("/post/{id}", s.post)
	})

	s.router = r
	return s
}

// Handler returns the Router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	for _, name := range s.registry.Names() {
		store, _ := s.registry.Lookup(name)
		if err := store.Ping(r.Context()); err != nil {
			s.logger.Warn("site not ready", zap.String("site", name), zap.Error(err))
			writeJSON(w, s.logger, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"site":   name,
			})
			return
		}
	}
	writeJSON(w, s.logger, http.StatusOK, map[string]string{"status": "ready"})
}

type siteKey struct{}

type siteContext struct {
	name  string
	store site.Store
}

// siteResolver answers 404 for unknown sites and stores the site's Store in
// the request context otherwise.
func (s *Server) siteResolver(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "site")
		store, ok := s.registry.Lookup(name)
		if !ok {
			http.NotFound(w, r)
			return
		}
		ctx := context.WithValue(r.Context(), siteKey{}, siteContext{name: name, store: store})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func siteFrom(ctx context.Context) (string, site.Store) {
	sc, _ := ctx.Value(siteKey{}).(siteContext)
	return sc.name, sc.store
}

// RequestID returns the id assigned to the request carrying ctx.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		ctx := context.WithValue(r.Context(), requestIDKey{}, reqID)
		w.Header().Set("X-Request-ID", reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)
		s.logger.Info("request completed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", RequestID(r.Context())),
		)
	})
}

func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				s.logger.Error("panic recovered",
					zap.Any("error", rec),
					zap.String("request_id", RequestID(r.Context())),
				)
				internalError(w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func cacheMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", CacheControl)
		next.ServeHTTP(w, r)
	})
}

func timeoutMiddleware(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, d, "request timed out")
	}
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	if err != nil {
		return n, fmt.Errorf("write response: %w", err)
	}
	return n, nil
}

func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if h, ok := rw.ResponseWriter.(http.Hijacker); ok {
		conn, buf, err := h.Hijack()
		if err != nil {
			return nil, nil, fmt.Errorf("hijack connection: %w", err)
		}
		return conn, buf, nil
	}
	return nil, nil, errors.New("hijacker not supported")
}

type requestIDKey struct{}

func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("write JSON failed", zap.Error(err))
	}
}

func internalError(w http.ResponseWriter) {
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
