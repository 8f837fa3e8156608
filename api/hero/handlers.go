package hero

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/herotrend/api/types"
	"github.com/killallgit/herotrend/internal/cache"
	"github.com/killallgit/herotrend/pkg/source"
	"go.uber.org/zap"
)

// GetHero returns the cached hero series of a source without running the pipeline
func GetHero(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		sourceID, err := source.ParseID(c.Param("id"))
		if err != nil {
			types.SendError(c, err)
			return
		}

		gate := deps.Pipeline.Gate()
		key := deps.Pipeline.Key(sourceID)

		decision, err := gate.Check(c.Request.Context(), key, cache.KindHeroJSON)
		if err != nil {
			zap.L().Error("hero cache check failed", zap.String("source_id", sourceID), zap.Error(err))
			types.SendInternalError(c, "Failed to check hero cache")
			return
		}
		if !decision.Reuse {
			types.SendNotFound(c, "No hero series for "+sourceID+", POST to compute it")
			return
		}

		series, err := gate.GetHeroJSON(c.Request.Context(), key)
		if err != nil {
			zap.L().Error("failed to read hero series", zap.String("path", decision.Path), zap.Error(err))
			types.SendInternalError(c, "Failed to read hero series")
			return
		}

		types.SendSuccess(c, types.FromHeroSeries(sourceID, series))
	}
}

// PostHero runs the pipeline for a source and returns the series with stage outcomes
func PostHero(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		sourceID, err := source.ParseID(c.Param("id"))
		if err != nil {
			types.SendError(c, err)
			return
		}

		out, err := deps.Pipeline.Run(c.Request.Context(), sourceID)
		if err != nil {
			types.SendError(c, err)
			return
		}

		types.SendSuccess(c, types.FromOutcome(out))
	}
}
