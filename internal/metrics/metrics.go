package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "herotrend_cache_lookups_total",
		Help: "Cache gate decisions per artifact kind",
	}, []string{"kind", "result"})

	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "herotrend_stage_duration_seconds",
		Help:    "Time spent producing or reusing one artifact",
		Buckets: prometheus.ExponentialBuckets(0.001, 4.0, 10), // 1ms to ~4.4m
	}, []string{"kind", "cached"})

	PipelineRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "herotrend_pipeline_runs_total",
		Help: "Pipeline runs by outcome",
	}, []string{"status"})

	SeriesSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "herotrend_series_seconds",
		Help:    "Length of produced hero series in seconds",
		Buckets: prometheus.ExponentialBuckets(1, 2.0, 14), // 1s to ~2.3h
	})
)

// Cache lookup results
const (
	ResultHit  = "hit"
	ResultMiss = "miss"
)

// Pipeline run statuses
const (
	StatusSuccess = "success"
	StatusError   = "error"
)
