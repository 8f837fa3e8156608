package analyses

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/herotrend/api/types"
)

// RegisterRoutes registers the analysis ledger routes. Nothing is registered
// when the ledger is disabled.
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	if deps == nil || deps.Analyses == nil {
		return
	}
	router.GET("/analyses", ListAnalyses(deps))
	router.GET("/analyses/:id", GetAnalysis(deps))
}
