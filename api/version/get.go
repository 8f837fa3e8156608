package version

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/herotrend/api/types"
)

// Get reports the build version and the cache key settings of the pipeline
func Get(deps *types.Dependencies) gin.HandlerFunc {
	response := types.VersionResponse{Name: "herotrend", Version: "dev", Status: "running"}
	if deps != nil {
		if deps.Version != "" {
			response.Version = deps.Version
		}
		if deps.Pipeline != nil {
			// Any id yields the same version segment
			response.CacheVersion = deps.Pipeline.Key("_").Version
			response.Window = string(deps.Pipeline.Window())
		}
	}

	return func(c *gin.Context) {
		c.JSON(http.StatusOK, response)
	}
}
