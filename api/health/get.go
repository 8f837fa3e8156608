package health

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/herotrend/api/types"
)

// Get reports whether the ledger answers and the cache directory is present
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := types.HealthResponse{
			Status:    types.StatusOK,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Ledger:    ledgerHealth(deps),
			Cache:     cacheHealth(c, deps),
		}
		if deps != nil {
			response.Version = deps.Version
		}

		code := http.StatusOK
		if response.Ledger.Status == types.ComponentUnhealthy || response.Cache.Status == types.ComponentUnhealthy {
			response.Status = "degraded"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, response)
	}
}

func ledgerHealth(deps *types.Dependencies) types.ComponentHealth {
	if deps == nil || deps.DB == nil || deps.DB.DB == nil {
		return types.ComponentHealth{Status: types.ComponentNotConfigured}
	}
	if err := deps.DB.HealthCheck(); err != nil {
		return types.ComponentHealth{Status: types.ComponentUnhealthy, Error: err.Error()}
	}
	return types.ComponentHealth{Status: types.ComponentHealthy}
}

func cacheHealth(c *gin.Context, deps *types.Dependencies) types.ComponentHealth {
	if deps == nil || deps.Pipeline == nil {
		return types.ComponentHealth{Status: types.ComponentNotConfigured}
	}

	store := deps.Pipeline.Gate().Store()
	dir := store.Path("")
	exists, err := store.Exists(c.Request.Context(), dir)
	switch {
	case err != nil:
		return types.ComponentHealth{Status: types.ComponentUnhealthy, Error: err.Error()}
	case !exists:
		return types.ComponentHealth{Status: types.ComponentUnhealthy, Error: "cache directory " + dir + " is missing"}
	}
	return types.ComponentHealth{Status: types.ComponentHealthy}
}
