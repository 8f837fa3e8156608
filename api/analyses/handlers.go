package analyses

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/herotrend/api/types"
	analysesService "github.com/killallgit/herotrend/internal/services/analyses"
	"go.uber.org/zap"
)

// MaxListLimit caps the number of analyses returned by List
const MaxListLimit = 100

// GetAnalysis returns one recorded run with its stages
func GetAnalysis(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := types.ParseUintParam(c, "id")
		if !ok {
			return
		}

		analysis, err := deps.Analyses.Get(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, analysesService.ErrAnalysisNotFound) {
				types.SendNotFound(c, "Analysis not found")
				return
			}
			zap.L().Error("failed to load analysis", zap.Uint("analysis_id", id), zap.Error(err))
			types.SendInternalError(c, "Failed to load analysis")
			return
		}

		types.SendSuccess(c, types.AnalysisResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Analysis:     types.FromModelAnalysis(analysis),
		})
	}
}

// ListAnalyses returns recent runs, optionally filtered with ?source_id=
func ListAnalyses(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := types.ParseLimitQuery(c, analysesService.DefaultHistoryLimit, MaxListLimit)

		list, err := deps.Analyses.History(c.Request.Context(), c.Query("source_id"), limit)
		if err != nil {
			types.SendError(c, err)
			return
		}

		items := types.FromModelAnalysisList(list)
		types.SendSuccess(c, types.AnalysesResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Analyses:     items,
			Count:        len(items),
		})
	}
}
