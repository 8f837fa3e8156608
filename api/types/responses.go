package types

import "time"

// Status constants for API responses
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// BaseResponse contains fields common to all API responses
type BaseResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse for error cases
type ErrorResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Error   string      `json:"error,omitempty"`   // Error code/type
	Details interface{} `json:"details,omitempty"` // Additional error details
}

// Stage describes how one artifact was obtained
type Stage struct {
	Kind       string `json:"kind"`
	Path       string `json:"path"`
	Cached     bool   `json:"cached"`
	DurationMs int64  `json:"durationMs"`
}

// HeroResponse carries a hero series and, after a run, the stage outcomes
type HeroResponse struct {
	BaseResponse
	SourceID string  `json:"sourceId"`
	Seconds  int     `json:"seconds"`
	Series   []int   `json:"series"`
	RunID    uint    `json:"runId,omitempty"`
	Stages   []Stage `json:"stages,omitempty"`
}

// Analysis is one recorded pipeline run
type Analysis struct {
	ID         uint       `json:"id"`
	SourceID   string     `json:"sourceId"`
	Version    string     `json:"version,omitempty"`
	Window     string     `json:"window"`
	Status     string     `json:"status"`
	Error      string     `json:"error,omitempty"`
	ErrorCode  string     `json:"errorCode,omitempty"`
	Seconds    int        `json:"seconds"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
	Stages     []Stage    `json:"stages"`
}

// AnalysisResponse for a single analysis
type AnalysisResponse struct {
	BaseResponse
	Analysis *Analysis `json:"analysis"`
}

// AnalysesResponse for analysis lists
type AnalysesResponse struct {
	BaseResponse
	Analyses []Analysis `json:"analyses"`
	Count    int        `json:"count"`
}

// Component health states
const (
	ComponentHealthy       = "healthy"
	ComponentUnhealthy     = "unhealthy"
	ComponentNotConfigured = "not configured"
)

// ComponentHealth reports one dependency of the server
type ComponentHealth struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// HealthResponse is returned by GET /health. Status is "degraded" when any
// configured component is unhealthy.
type HealthResponse struct {
	Status    string          `json:"status"`
	Timestamp string          `json:"timestamp"`
	Version   string          `json:"version,omitempty"`
	Ledger    ComponentHealth `json:"ledger"`
	Cache     ComponentHealth `json:"cache"`
}

// VersionResponse describes the server build and how it keys derived artifacts
type VersionResponse struct {
	Name         string `json:"name"`
	Version      string `json:"version"`
	Status       string `json:"status"`
	CacheVersion string `json:"cacheVersion,omitempty"`
	Window       string `json:"window,omitempty"`
}
