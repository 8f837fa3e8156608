package analyses

import (
	"context"
	"time"

	"github.com/killallgit/herotrend/internal/models"
)

// Service records pipeline runs and answers history queries
type Service interface {
	// Start opens a running analysis for a source and returns its id
	Start(ctx context.Context, sourceID, version, window string) (uint, error)

	// RecordStage appends one stage outcome to a run
	RecordStage(ctx context.Context, runID uint, kind, path string, cached bool, duration time.Duration) error

	// Finish closes a run, marking it failed when runErr is not nil
	Finish(ctx context.Context, runID uint, seconds int, runErr error) error

	// Get returns one analysis with its stages
	Get(ctx context.Context, runID uint) (*models.Analysis, error)

	// History lists the most recent analyses, optionally for one source
	History(ctx context.Context, sourceID string, limit int) ([]models.Analysis, error)
}

// Repository defines the data access for analyses
type Repository interface {
	Create(ctx context.Context, analysis *models.Analysis) error
	Update(ctx context.Context, analysis *models.Analysis) error
	AddStage(ctx context.Context, stage *models.Stage) error
	GetByID(ctx context.Context, id uint) (*models.Analysis, error)
	// List returns analyses newest first; an empty sourceID matches all
	List(ctx context.Context, sourceID string, limit int) ([]models.Analysis, error)
}
