package api

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/killallgit/herotrend/api/analyses"
	"github.com/killallgit/herotrend/api/health"
	"github.com/killallgit/herotrend/api/hero"
	"github.com/killallgit/herotrend/api/types"
	"github.com/killallgit/herotrend/api/version"
	"github.com/killallgit/herotrend/pkg/config"
)

// RegisterRoutes registers all API routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies, limits config.RateLimitConfig, rateLimiters *sync.Map, cleanupStop chan struct{}, cleanupInitialized *sync.Once) {
	// Register public routes (no rate limiting)
	health.RegisterRoutes(engine, deps)
	version.RegisterRoutes(engine, deps)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Setup 404 handler
	engine.NoRoute(NotFoundHandler())

	// API v1 routes
	v1 := engine.Group("/api/v1")
	if limits.Enabled {
		v1.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, limits.RequestsPerSecond, limits.Burst))
	}

	hero.RegisterRoutes(v1, deps)
	analyses.RegisterRoutes(v1, deps)
}

// NotFoundHandler handles 404 errors
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "The requested endpoint was not found",
			"path":    c.Request.URL.Path,
		})
	}
}
