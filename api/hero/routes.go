package hero

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/herotrend/api/types"
)

// RegisterRoutes registers hero series routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	if deps == nil || deps.Pipeline == nil {
		return
	}
	router.GET("/hero/:id", GetHero(deps))
	router.POST("/hero/:id", PostHero(deps))
}
