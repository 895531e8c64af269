package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/kedoo/internal/services"
	"github.com/desertthunder/kedoo/internal/shared"
)

const shutdownTimeout = 5 * time.Second

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Handler is an [http.Handler] that registers its own routes.
type Handler interface {
	Register(r Router)
}

// Router defines the interface for HTTP routing and middleware management.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler lets a Handler register its routes
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// Server runs the local API.
type Server struct {
	http   *http.Server
	logger *log.Logger
}

// NewAPIRouter builds the router serving the kedoo API with logging, panic recovery and rate limiting.
func NewAPIRouter(svc *services.Services, config shared.ServerConfig, logger *log.Logger) *BasicRouter {
	router := NewBasicRouter()
	router.Use(Recover(logger), Logging(logger), RateLimit(config.RateLimit, config.Burst))
	router.Handler(NewAPIHandler(svc, logger))
	return router
}

// New creates a server listening on config's address.
func New(handler http.Handler, config shared.ServerConfig, logger *log.Logger) *Server {
	return &Server{
		http: &http.Server{
			Addr:              config.Addr(),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: shared.WithLogger(logger, "component", "server"),
	}
}

// URL returns the base URL of the server.
func (s *Server) URL() string {
	return "http://" + s.http.Addr
}

// Run listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.http.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String())
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	s.logger.Info("server stopped")
	return <-errCh
}
