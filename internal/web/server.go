package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/lville-gis/internal/batch"
	"github.com/lville-gis/internal/lexicon"
	"github.com/lville-gis/internal/web/handlers"
	"github.com/lville-gis/internal/web/middleware"
)

// ErrMissingAPIKey is returned when authentication is enabled without a key
var ErrMissingAPIKey = errors.New("web: auth enabled but no api_key configured")

// Server represents the web server
type Server struct {
	config     *Config
	lexicon    *lexicon.Lexicon
	processor  *batch.Processor
	logger     *zap.Logger
	httpServer *http.Server
	router     *mux.Router
	handler    http.Handler
}

// NewServer creates a new web server instance over a loaded lexicon
func NewServer(config *Config, lex *lexicon.Lexicon, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Auth.Enabled && config.Auth.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	processor, err := batch.NewProcessor(lex, batch.Options{
		Workers:   config.Batch.Workers,
		CacheSize: config.Batch.CacheSize,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create processor: %w", err)
	}

	// Create server instance
	server := &Server{
		config:    config,
		lexicon:   lex,
		processor: processor,
		logger:    logger,
	}

	// Setup routes
	server.setupRoutes()

	// Create HTTP server
	server.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port),
		Handler:      server.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server, nil
}

// Handler exposes the router with middleware applied, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.handler
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router = mux.NewRouter()

	// Convert config for handlers (to avoid import cycle)
	handlerConfig := &handlers.Config{MaxBatch: s.config.Batch.MaxAddresses}
	handlerConfig.Features.BatchEnabled = s.config.Features.BatchEnabled

	addressHandler := &handlers.AddressHandler{
		Lexicon:   s.lexicon,
		Processor: s.processor,
		Config:    handlerConfig,
	}

	s.router.HandleFunc("/health", handlers.Health).Methods("GET")

	// API routes
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/compose", addressHandler.Compose).Methods("POST")
	api.HandleFunc("/decompose", addressHandler.Decompose).Methods("GET", "POST")
	api.HandleFunc("/lexicon", addressHandler.GetLexicon).Methods("GET")

	// Batch endpoint (if enabled)
	if s.config.Features.BatchEnabled {
		api.HandleFunc("/decompose/batch", addressHandler.DecomposeBatch).Methods("POST")
	}

	if s.config.Auth.Enabled {
		// Apply authentication middleware to API routes only
		api.Use(middleware.Authentication(s.config.Auth.APIKey))
	}

	// CORS and logging wrap the whole router so preflight requests and
	// unmatched routes pass through them too
	s.handler = s.router
	if s.config.Features.CORSEnabled {
		s.handler = middleware.CORS()(s.handler)
	}
	s.handler = middleware.RequestLogging(s.logger)(s.handler)
}

// Start serves until SIGINT/SIGTERM, then shuts down gracefully
func (s *Server) Start() error {
	// Setup graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)

	// Start server in background
	go func() {
		s.logger.Info("starting server", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	// Wait for shutdown signal
	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	s.logger.Info("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}
