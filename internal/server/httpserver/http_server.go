// Package httpserver wires the blog, health and metrics handlers into an
// HTTP server, and the blog handler alone into a CGI handler.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"git.home.luguber.info/inful/fsblog/internal/blog"
	ferrors "git.home.luguber.info/inful/fsblog/internal/foundation/errors"
	"git.home.luguber.info/inful/fsblog/internal/logfields"
	"git.home.luguber.info/inful/fsblog/internal/server/handlers"
	smw "git.home.luguber.info/inful/fsblog/internal/server/middleware"
)

// HealthPath serves the JSON health check.
const HealthPath = "/healthz"

// DefaultShutdownTimeout bounds graceful shutdown in Run.
const DefaultShutdownTimeout = 10 * time.Second

// Options configures optional server wiring.
type Options struct {
	// Address overrides server.address from the configuration.
	Address string
	// MetricsHandler is mounted at server.metrics_path when set.
	MetricsHandler http.Handler
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Server serves the blog over HTTP.
type Server struct {
	svc          *blog.Service
	opts         Options
	errorAdapter *ferrors.HTTPErrorAdapter
	handler      http.Handler

	mu       sync.Mutex
	srv      *http.Server
	listener net.Listener
}

// New constructs a server for svc.
func New(svc *blog.Service, opts Options) *Server {
	cfg := svc.Config()
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Address == "" {
		opts.Address = cfg.Server.Address
	}

	s := &Server{
		svc:          svc,
		opts:         opts,
		errorAdapter: ferrors.NewHTTPErrorAdapter(opts.Logger, cfg.Blog.Title),
	}

	mux := http.NewServeMux()
	monitoring := handlers.NewMonitoringHandlers(svc, s.errorAdapter)
	mux.HandleFunc(HealthPath, monitoring.HandleHealthCheck)
	if opts.MetricsHandler != nil && cfg.Server.MetricsPath != "" {
		mux.Handle(cfg.Server.MetricsPath, opts.MetricsHandler)
	}
	mux.Handle("/", handlers.NewBlogHandler(svc, s.errorAdapter))

	s.handler = smw.Mode("http")(smw.Chain(opts.Logger, s.errorAdapter)(mux))
	return s
}

// Handler returns the full middleware-wrapped handler.
func (s *Server) Handler() http.Handler { return s.handler }

// Start binds the listen address and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv != nil {
		return ferrors.RuntimeError("server already started").Build()
	}

	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.opts.Address)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "http startup failed").
			WithContext("address", s.opts.Address).
			Build()
	}

	s.listener = ln
	s.srv = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}
	srv := s.srv
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.opts.Logger.Error("HTTP server error", logfields.Error(err))
		}
	}()

	s.opts.Logger.Info("HTTP server started", logfields.Address(ln.Addr().String()))
	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.srv = nil
	s.listener = nil
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	s.opts.Logger.Info("HTTP server stopped")
	return nil
}

// Run starts the server and blocks until ctx is cancelled, then shuts down.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	return s.Stop(shutdownCtx)
}
