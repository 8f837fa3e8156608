// Package pipeline runs the cache-gated stages that turn a source id into a
// hero series: media, audio, loudness, hero and hero JSON, in that order.
package pipeline

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/killallgit/herotrend/internal/cache"
	"github.com/killallgit/herotrend/internal/hero"
	"github.com/killallgit/herotrend/internal/loudness"
	"github.com/killallgit/herotrend/internal/metrics"
	apperrors "github.com/killallgit/herotrend/pkg/errors"
	"go.uber.org/zap"
)

// Options configures how derived artifacts are computed and named
type Options struct {
	// Version namespaces derived artifacts; empty keeps the plain names
	Version string
	Window  loudness.Window
	// Progress receives summarizer milestones; nil logs them instead
	Progress loudness.ProgressFunc
}

// StageResult describes how one artifact was obtained
type StageResult struct {
	Kind     cache.Kind
	Path     string
	Cached   bool
	Duration time.Duration
}

// Outcome is the result of a complete run
type Outcome struct {
	SourceID string
	RunID    uint
	Stages   []StageResult
	Loudness loudness.Series
	Hero     hero.Series
}

// Paths returns the artifact paths in production order
func (o *Outcome) Paths() []string {
	paths := make([]string, 0, len(o.Stages))
	for _, stage := range o.Stages {
		paths = append(paths, stage.Path)
	}
	return paths
}

// Stage returns the result for kind, if that stage ran
func (o *Outcome) Stage(kind cache.Kind) (StageResult, bool) {
	for _, stage := range o.Stages {
		if stage.Kind == kind {
			return stage, true
		}
	}
	return StageResult{}, false
}

// Pipeline wires the stage implementations to the cache gate
type Pipeline struct {
	gate       *cache.Gate
	fetcher    Fetcher
	transcoder Transcoder
	loader     Loader
	recorder   Recorder
	options    Options
	log        *zap.Logger

	// Runs within one process are serialized; separate processes still race
	mu sync.Mutex
}

// New creates a pipeline
func New(gate *cache.Gate, fetcher Fetcher, transcoder Transcoder, loader Loader, options Options) *Pipeline {
	if options.Window == "" {
		options.Window = loudness.WindowAnchored
	}
	return &Pipeline{
		gate:       gate,
		fetcher:    fetcher,
		transcoder: transcoder,
		loader:     loader,
		options:    options,
		log:        zap.L().Named("pipeline"),
	}
}

// SetRecorder enables the analysis ledger
func (p *Pipeline) SetRecorder(recorder Recorder) {
	p.recorder = recorder
}

// SetLogger replaces the logger
func (p *Pipeline) SetLogger(log *zap.Logger) {
	p.log = log
}

// Gate returns the cache gate
func (p *Pipeline) Gate() *cache.Gate {
	return p.gate
}

// Window returns the loudness window the pipeline summarizes with
func (p *Pipeline) Window() loudness.Window {
	return p.options.Window
}

// Key returns the cache key for sourceID. A non-default window joins the
// version so artifacts computed with different windows never collide.
func (p *Pipeline) Key(sourceID string) cache.Key {
	version := p.options.Version
	if version != "" && p.options.Window != loudness.WindowAnchored {
		version += "-" + string(p.options.Window)
	}
	return cache.Key{SourceID: sourceID, Version: version}
}

// Run produces or reuses every artifact for sourceID
func (p *Pipeline) Run(ctx context.Context, sourceID string) (out *Outcome, err error) {
	if sourceID == "" {
		return nil, apperrors.InvalidInput(sourceID, "empty source id")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	key := p.Key(sourceID)
	out = &Outcome{SourceID: sourceID}
	log := p.log.With(zap.String("source_id", sourceID))
	log.Info("pipeline started", zap.String("version", key.Version), zap.String("window", string(p.options.Window)))
	start := time.Now()

	out.RunID = p.startRecord(ctx, log, sourceID, key.Version)
	defer func() {
		status := metrics.StatusSuccess
		if err != nil {
			status = metrics.StatusError
			log.Error("pipeline failed", zap.Error(err))
		} else {
			metrics.SeriesSeconds.Observe(float64(len(out.Hero)))
			log.Info("pipeline finished", zap.Int("seconds", len(out.Hero)), zap.Duration("elapsed", time.Since(start)))
		}
		metrics.PipelineRuns.WithLabelValues(status).Inc()
		p.finishRecord(ctx, log, out, err)
	}()

	media, err := p.stage(ctx, log, out, key, cache.KindMedia, func(path string) error {
		if err := p.fetcher.Fetch(ctx, sourceID, path); err != nil {
			return apperrors.FetchFailure(sourceID, err)
		}
		return nil
	}, nil)
	if err != nil {
		return out, err
	}

	wav, err := p.stage(ctx, log, out, key, cache.KindAudio, func(path string) error {
		if _, err := p.transcoder.ToWAV(ctx, media.Path, path); err != nil {
			return apperrors.TranscodeFailure(media.Path, err)
		}
		return nil
	}, nil)
	if err != nil {
		return out, err
	}

	_, err = p.stage(ctx, log, out, key, cache.KindLoudness, func(path string) error {
		raw, err := p.loader.Load(wav.Path)
		if err != nil {
			return apperrors.DecodeFailure(wav.Path, err)
		}
		series, err := loudness.Summarize(ctx, raw, loudness.Options{
			Window:   p.options.Window,
			Progress: p.progress(log),
		})
		if err != nil {
			return err
		}
		out.Loudness = series
		if _, err := p.gate.PutLoudness(ctx, key, series); err != nil {
			return apperrors.StorageError("write", path, err)
		}
		return nil
	}, func(path string) error {
		series, err := p.gate.GetLoudness(ctx, key)
		if err != nil {
			return apperrors.StorageError("read", path, err)
		}
		out.Loudness = series
		return nil
	})
	if err != nil {
		return out, err
	}

	_, err = p.stage(ctx, log, out, key, cache.KindHero, func(path string) error {
		out.Hero = hero.Generate(out.Loudness)
		if _, err := p.gate.PutHero(ctx, key, out.Hero); err != nil {
			return apperrors.StorageError("write", path, err)
		}
		return nil
	}, func(path string) error {
		series, err := p.gate.GetHero(ctx, key)
		if err != nil {
			return apperrors.StorageError("read", path, err)
		}
		out.Hero = series
		return nil
	})
	if err != nil {
		return out, err
	}

	_, err = p.stage(ctx, log, out, key, cache.KindHeroJSON, func(path string) error {
		if _, err := p.gate.PutHeroJSON(ctx, key, out.Hero); err != nil {
			return apperrors.StorageError("write", path, err)
		}
		return nil
	}, nil)
	if err != nil {
		return out, err
	}

	return out, nil
}

// stage consults the gate and either reuses the artifact (calling reuse when
// set) or produces it. The result is appended to out.
func (p *Pipeline) stage(ctx context.Context, log *zap.Logger, out *Outcome, key cache.Key, kind cache.Kind,
	produce func(path string) error, reuse func(path string) error) (StageResult, error) {
	start := time.Now()

	decision, err := p.gate.Check(ctx, key, kind)
	if err != nil {
		return StageResult{}, apperrors.StorageError("check", decision.Path, err)
	}

	log = log.With(zap.Stringer("stage", kind), zap.String("path", decision.Path))

	if decision.Reuse {
		metrics.CacheLookups.WithLabelValues(kind.String(), metrics.ResultHit).Inc()
		log.Info("reusing cached artifact")
		if reuse != nil {
			err = reuse(decision.Path)
		}
	} else {
		metrics.CacheLookups.WithLabelValues(kind.String(), metrics.ResultMiss).Inc()
		log.Info("producing artifact")
		err = produce(decision.Path)
	}
	if err != nil {
		return StageResult{}, err
	}

	result := StageResult{
		Kind:     kind,
		Path:     decision.Path,
		Cached:   decision.Reuse,
		Duration: time.Since(start),
	}
	metrics.StageDuration.WithLabelValues(kind.String(), strconv.FormatBool(result.Cached)).Observe(result.Duration.Seconds())
	out.Stages = append(out.Stages, result)
	log.Info("stage finished", zap.Bool("cached", result.Cached), zap.Duration("duration", result.Duration))

	if p.recorder != nil && out.RunID != 0 {
		if err := p.recorder.RecordStage(ctx, out.RunID, kind.String(), result.Path, result.Cached, result.Duration); err != nil {
			log.Warn("failed to record stage", zap.Error(err))
		}
	}

	return result, nil
}

func (p *Pipeline) progress(log *zap.Logger) loudness.ProgressFunc {
	if p.options.Progress != nil {
		return p.options.Progress
	}
	return func(percent int) {
		log.Info("summarizing loudness", zap.Int("percent", percent))
	}
}

// Ledger failures are logged and never fail a run

func (p *Pipeline) startRecord(ctx context.Context, log *zap.Logger, sourceID, version string) uint {
	if p.recorder == nil {
		return 0
	}
	id, err := p.recorder.Start(ctx, sourceID, version, string(p.options.Window))
	if err != nil {
		log.Warn("failed to record analysis start", zap.Error(err))
		return 0
	}
	return id
}

func (p *Pipeline) finishRecord(ctx context.Context, log *zap.Logger, out *Outcome, runErr error) {
	if p.recorder == nil || out.RunID == 0 {
		return
	}
	// Record the outcome even when the run was cancelled
	if ctx.Err() != nil {
		ctx = context.WithoutCancel(ctx)
	}
	if err := p.recorder.Finish(ctx, out.RunID, len(out.Hero), runErr); err != nil {
		log.Warn("failed to record analysis finish", zap.Error(err))
	}
}
