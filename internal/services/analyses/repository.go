package analyses

import (
	"context"
	"errors"

	"github.com/killallgit/herotrend/internal/models"
	"gorm.io/gorm"
)

// repository implements Repository
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new analysis repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, analysis *models.Analysis) error {
	return r.db.WithContext(ctx).Create(analysis).Error
}

func (r *repository) Update(ctx context.Context, analysis *models.Analysis) error {
	return r.db.WithContext(ctx).Omit("Stages").Save(analysis).Error
}

func (r *repository) AddStage(ctx context.Context, stage *models.Stage) error {
	return r.db.WithContext(ctx).Create(stage).Error
}

// GetByID retrieves an analysis and its stages in production order
func (r *repository) GetByID(ctx context.Context, id uint) (*models.Analysis, error) {
	var analysis models.Analysis
	err := r.db.WithContext(ctx).
		Preload("Stages", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		First(&analysis, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnalysisNotFound
		}
		return nil, err
	}

	return &analysis, nil
}

func (r *repository) List(ctx context.Context, sourceID string, limit int) ([]models.Analysis, error) {
	query := r.db.WithContext(ctx).
		Preload("Stages", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Order("id DESC")

	if sourceID != "" {
		query = query.Where("source_id = ?", sourceID)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var list []models.Analysis
	if err := query.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
