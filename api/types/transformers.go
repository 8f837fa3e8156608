package types

import (
	"github.com/killallgit/herotrend/internal/hero"
	"github.com/killallgit/herotrend/internal/models"
	"github.com/killallgit/herotrend/internal/pipeline"
)

// FromOutcome converts a pipeline outcome into a hero response
func FromOutcome(out *pipeline.Outcome) *HeroResponse {
	resp := FromHeroSeries(out.SourceID, out.Hero)
	resp.RunID = out.RunID
	for _, stage := range out.Stages {
		resp.Stages = append(resp.Stages, Stage{
			Kind:       stage.Kind.String(),
			Path:       stage.Path,
			Cached:     stage.Cached,
			DurationMs: stage.Duration.Milliseconds(),
		})
	}
	return resp
}

// FromHeroSeries builds a hero response without stage information
func FromHeroSeries(sourceID string, series hero.Series) *HeroResponse {
	values := make([]int, len(series))
	copy(values, series)
	return &HeroResponse{
		BaseResponse: BaseResponse{Status: StatusOK},
		SourceID:     sourceID,
		Seconds:      len(values),
		Series:       values,
	}
}

// FromModelAnalysis converts a ledger record to its API shape
func FromModelAnalysis(a *models.Analysis) *Analysis {
	stages := make([]Stage, 0, len(a.Stages))
	for _, s := range a.Stages {
		stages = append(stages, Stage{
			Kind:       s.Kind,
			Path:       s.Path,
			Cached:     s.Cached,
			DurationMs: s.Duration.Milliseconds(),
		})
	}
	return &Analysis{
		ID:         a.ID,
		SourceID:   a.SourceID,
		Version:    a.Version,
		Window:     a.Window,
		Status:     a.Status,
		Error:      a.Error,
		ErrorCode:  a.ErrorCode,
		Seconds:    a.Seconds,
		StartedAt:  a.StartedAt,
		FinishedAt: a.FinishedAt,
		Stages:     stages,
	}
}

// FromModelAnalysisList converts a slice of ledger records
func FromModelAnalysisList(list []models.Analysis) []Analysis {
	result := make([]Analysis, 0, len(list))
	for i := range list {
		result = append(result, *FromModelAnalysis(&list[i]))
	}
	return result
}
