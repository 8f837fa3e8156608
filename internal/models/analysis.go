package models

import (
	"time"

	"gorm.io/gorm"
)

// Analysis status values
const (
	AnalysisStatusRunning   = "running"
	AnalysisStatusCompleted = "completed"
	AnalysisStatusFailed    = "failed"
)

// Analysis records one pipeline run for a source
type Analysis struct {
	gorm.Model
	SourceID   string     `json:"source_id" gorm:"not null;index"`
	Version    string     `json:"version"`
	Window     string     `json:"window"`
	Status     string     `json:"status" gorm:"not null;default:running"`
	Error      string     `json:"error,omitempty" gorm:"type:text"`
	ErrorCode  string     `json:"error_code,omitempty"`
	Seconds    int        `json:"seconds"` // Length of the hero series
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Stages     []Stage    `json:"stages,omitempty" gorm:"foreignKey:AnalysisID"`
}

// Stage records the outcome of one pipeline stage within a run
type Stage struct {
	gorm.Model
	AnalysisID uint          `json:"analysis_id" gorm:"not null;index"`
	Kind       string        `json:"kind" gorm:"not null"`
	Path       string        `json:"path"`
	Cached     bool          `json:"cached"`
	Duration   time.Duration `json:"duration"`
}

// Elapsed returns the wall time of a finished run
func (a *Analysis) Elapsed() time.Duration {
	if a.FinishedAt == nil {
		return 0
	}
	return a.FinishedAt.Sub(a.StartedAt)
}
