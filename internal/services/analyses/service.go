package analyses

import (
	"context"
	"time"

	"github.com/killallgit/herotrend/internal/models"
	apperrors "github.com/killallgit/herotrend/pkg/errors"
	"go.uber.org/zap"
)

// DefaultHistoryLimit caps History when no limit is given
const DefaultHistoryLimit = 20

// service implements Service
type service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a new analysis service
func NewService(repo Repository) Service {
	return &service{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) Start(ctx context.Context, sourceID, version, window string) (uint, error) {
	if sourceID == "" {
		return 0, ErrInvalidSourceID
	}

	analysis := &models.Analysis{
		SourceID:  sourceID,
		Version:   version,
		Window:    window,
		Status:    models.AnalysisStatusRunning,
		StartedAt: s.now(),
	}
	if err := s.repo.Create(ctx, analysis); err != nil {
		return 0, apperrors.DatabaseError("create analysis", err)
	}

	zap.L().Debug("analysis started", zap.Uint("analysis_id", analysis.ID), zap.String("source_id", sourceID))
	return analysis.ID, nil
}

func (s *service) RecordStage(ctx context.Context, runID uint, kind, path string, cached bool, duration time.Duration) error {
	stage := &models.Stage{
		AnalysisID: runID,
		Kind:       kind,
		Path:       path,
		Cached:     cached,
		Duration:   duration,
	}
	if err := s.repo.AddStage(ctx, stage); err != nil {
		return apperrors.DatabaseError("record stage", err)
	}
	return nil
}

func (s *service) Finish(ctx context.Context, runID uint, seconds int, runErr error) error {
	analysis, err := s.repo.GetByID(ctx, runID)
	if err != nil {
		return err
	}

	finished := s.now()
	analysis.FinishedAt = &finished
	analysis.Seconds = seconds
	analysis.Status = models.AnalysisStatusCompleted
	if runErr != nil {
		analysis.Status = models.AnalysisStatusFailed
		analysis.Error = runErr.Error()
		analysis.ErrorCode = string(apperrors.GetCode(runErr))
	}

	if err := s.repo.Update(ctx, analysis); err != nil {
		return apperrors.DatabaseError("finish analysis", err)
	}

	zap.L().Debug("analysis finished",
		zap.Uint("analysis_id", runID),
		zap.String("status", analysis.Status),
		zap.Duration("elapsed", analysis.Elapsed()))
	return nil
}

func (s *service) Get(ctx context.Context, runID uint) (*models.Analysis, error) {
	if runID == 0 {
		return nil, ErrAnalysisNotFound
	}
	return s.repo.GetByID(ctx, runID)
}

func (s *service) History(ctx context.Context, sourceID string, limit int) ([]models.Analysis, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	list, err := s.repo.List(ctx, sourceID, limit)
	if err != nil {
		return nil, apperrors.DatabaseError("list analyses", err)
	}
	return list, nil
}
