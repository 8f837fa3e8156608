package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/herotrend/api/types"
	"github.com/killallgit/herotrend/pkg/config"
	"go.uber.org/zap"
)

// Server represents the HTTP server
type Server struct {
	engine             *gin.Engine
	httpServer         *http.Server
	rateLimiters       *sync.Map
	rateLimit          config.RateLimitConfig
	cleanupInitialized sync.Once
	cleanupStop        chan struct{}

	// Dependencies for handlers
	dependencies *types.Dependencies
}

// NewServer creates a new HTTP server from the server settings
func NewServer(address string, settings config.ServerConfig) *Server {
	// Create Gin engine with recovery middleware only
	engine := gin.New()
	engine.Use(gin.Recovery())

	maxHeaderBytes := settings.MaxHeaderBytes
	if maxHeaderBytes <= 0 {
		maxHeaderBytes = 1 << 20 // 1 MB
	}

	return &Server{
		engine:       engine,
		rateLimiters: &sync.Map{},
		cleanupStop:  make(chan struct{}),
		httpServer: &http.Server{
			Addr:    address,
			Handler: engine,
			// Runs can take minutes, so the write timeout is configurable and
			// zero means none
			ReadTimeout:    settings.ReadTimeout,
			WriteTimeout:   settings.WriteTimeout,
			IdleTimeout:    60 * time.Second,
			MaxHeaderBytes: maxHeaderBytes,
		},
	}
}

// SetDependencies sets all handler dependencies
func (s *Server) SetDependencies(deps *types.Dependencies) {
	s.dependencies = deps
}

// SetRateLimit configures per-client rate limiting of /api/v1
func (s *Server) SetRateLimit(limits config.RateLimitConfig) {
	s.rateLimit = limits
}

// Engine returns the Gin engine for testing
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Initialize sets up middleware and routes
func (s *Server) Initialize() error {
	if s.dependencies == nil {
		s.dependencies = &types.Dependencies{}
	}

	s.engine.Use(RequestLogger(zap.L().Named("http")))
	s.engine.Use(CORS())
	s.engine.Use(RequestSizeLimit())

	RegisterRoutes(s.engine, s.dependencies, s.rateLimit, s.rateLimiters, s.cleanupStop, &s.cleanupInitialized)
	return nil
}

// Start starts the HTTP server
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	// Stop the rate limiter cleanup goroutine
	close(s.cleanupStop)

	return s.httpServer.Shutdown(ctx)
}
