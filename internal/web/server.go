// Package web is the browser shell: a JSON API over server-side exam
// sessions plus a small embedded page that renders them.
package web

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/kelly1311/app-simulador-examen-az-104/internal/session"
	"github.com/kelly1311/app-simulador-examen-az-104/internal/tutor"
)

// DefaultIdleTimeout is how long an untouched session survives.
const DefaultIdleTimeout = 6 * time.Hour

// Options configures a Server.
type Options struct {
	// Budget is the exam countdown. Zero means session.ExamTimeLimit.
	Budget time.Duration

	// Tutor is optional. Without it the explain endpoint answers 503.
	Tutor *tutor.Service

	Logger *slog.Logger

	// AllowedOrigins for CORS. Empty allows only same-origin requests.
	AllowedOrigins []string

	// IdleTimeout evicts sessions nobody touched for this long.
	IdleTimeout time.Duration

	Clock func() time.Time
}

// Server serves the browser shell.
type Server struct {
	selector *session.Selector
	sessions *Registry
	opts     Options
	logger   *slog.Logger
}

// New creates a Server drawing questions from selector.
func New(selector *session.Selector, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.IdleTimeout == 0 {
		opts.IdleTimeout = DefaultIdleTimeout
	}
	return &Server{
		selector: selector,
		sessions: NewRegistry(opts.IdleTimeout, opts.Clock),
		opts:     opts,
		logger:   opts.Logger,
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID, middleware.RealIP, s.requestLogger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	if len(s.opts.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.opts.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
			ExposedHeaders: []string{"Content-Length"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/bank", s.getBank)
		r.Post("/sessions", s.createSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.getSession)
			r.Delete("/", s.deleteSession)
			r.Post("/answers", s.submitAnswer)
			r.Post("/timeout", s.timeoutSession)
			r.Get("/result", s.getResult)
			r.Get("/review", s.getReview)
			r.Post("/review/{index}/explain", s.explain)
		})
	})

	static, _ := fs.Sub(staticFS, "static")
	r.Handle("/*", http.FileServer(http.FS(static)))

	return r
}

// requestLogger logs one line per request through slog.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// ServeConfig holds listener settings for Serve.
type ServeConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// Serve listens on cfg.Addr until ctx is cancelled, then shuts down
// gracefully.
func Serve(ctx context.Context, h http.Handler, cfg ServeConfig, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           h,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen on %s: %w", cfg.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
