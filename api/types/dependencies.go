package types

import (
	"github.com/killallgit/herotrend/internal/database"
	"github.com/killallgit/herotrend/internal/pipeline"
	"github.com/killallgit/herotrend/internal/services/analyses"
)

// Dependencies holds all the dependencies needed by handlers
type Dependencies struct {
	DB       *database.DB
	Pipeline *pipeline.Pipeline
	Analyses analyses.Service
	Version  string
}
