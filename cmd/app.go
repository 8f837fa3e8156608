package cmd

import (
	"github.com/killallgit/herotrend/internal/audio"
	"github.com/killallgit/herotrend/internal/cache"
	"github.com/killallgit/herotrend/internal/database"
	"github.com/killallgit/herotrend/internal/loudness"
	"github.com/killallgit/herotrend/internal/models"
	"github.com/killallgit/herotrend/internal/pipeline"
	"github.com/killallgit/herotrend/internal/services/analyses"
	"github.com/killallgit/herotrend/pkg/config"
	"github.com/killallgit/herotrend/pkg/download"
	apperrors "github.com/killallgit/herotrend/pkg/errors"
	"github.com/killallgit/herotrend/pkg/ffmpeg"
	"go.uber.org/zap"
)

// ledgerModels are the tables owned by the analysis ledger
var ledgerModels = []any{&models.Analysis{}, &models.Stage{}}

// app holds the components shared by the commands
type app struct {
	config     *config.Config
	gate       *cache.Gate
	transcoder *ffmpeg.FFmpeg
	db         *database.DB
	analyses   analyses.Service
	progress   loudness.ProgressFunc
	pipeline   *pipeline.Pipeline
}

// newApp opens the cache directory and, when configured, the ledger. A ledger
// that fails to open only disables recording unless requireLedger is set.
func newApp(cfg *config.Config, requireLedger bool) (*app, error) {
	if cfg == nil {
		return nil, apperrors.New(apperrors.ErrCodeConfigInvalid, "configuration not loaded")
	}

	store, err := cache.NewFilesystemStorage(cfg.Storage.CacheDir)
	if err != nil {
		return nil, apperrors.StorageError("open", cfg.Storage.CacheDir, err)
	}

	a := &app{
		config: cfg,
		gate:   cache.NewGate(store),
		transcoder: ffmpeg.New(cfg.Processing.FFmpegPath, cfg.Processing.FFprobePath, ffmpeg.TranscodeOptions{
			SampleRate: cfg.Processing.SampleRate,
			Channels:   cfg.Processing.Channels,
		}),
	}

	db, err := openLedger(cfg.Database)
	switch {
	case err != nil && requireLedger:
		return nil, err
	case err != nil:
		zap.L().Warn("analysis ledger disabled", zap.Error(err))
	case db == nil && requireLedger:
		return nil, apperrors.ConfigError("database.path", "the analysis ledger is disabled")
	case db != nil:
		a.db = db
		a.analyses = analyses.NewService(analyses.NewRepository(db.DB))
	}

	return a, nil
}

// openLedger opens and migrates the ledger database; an empty path disables it
func openLedger(cfg config.DatabaseConfig) (*database.DB, error) {
	if cfg.Path == "" {
		return nil, nil
	}

	db, err := database.Initialize(cfg.Path, cfg.Verbose)
	if err != nil {
		return nil, apperrors.DatabaseError("open", err)
	}
	if err := db.AutoMigrate(ledgerModels...); err != nil {
		db.Close()
		return nil, apperrors.DatabaseError("migrate", err)
	}
	return db, nil
}

// Pipeline builds the pipeline on first use
func (a *app) Pipeline() *pipeline.Pipeline {
	if a.pipeline != nil {
		return a.pipeline
	}

	cfg := a.config
	window, err := loudness.ParseWindow(cfg.Processing.Window)
	if err != nil {
		// Rejected earlier by config validation
		window = loudness.WindowAnchored
	}

	a.pipeline = pipeline.New(a.gate, newFetcher(cfg.Fetch), a.transcoder, audio.NewWAVLoader(), pipeline.Options{
		Version:  cfg.Pipeline.Version,
		Window:   window,
		Progress: a.progress,
	})
	if a.analyses != nil {
		a.pipeline.SetRecorder(a.analyses)
	}
	return a.pipeline
}

// newFetcher selects the media fetcher for the configured backend
func newFetcher(cfg config.FetchConfig) pipeline.Fetcher {
	if cfg.Backend == config.FetchBackendHTTP {
		options := download.DefaultOptions()
		options.URLTemplate = cfg.URLTemplate
		options.UserAgent = cfg.UserAgent
		options.ValidateMedia = true
		if cfg.Timeout > 0 {
			options.Timeout = cfg.Timeout
		}
		if cfg.MaxSize > 0 {
			options.MaxSize = cfg.MaxSize
		}
		return download.NewDownloader(options)
	}

	return download.NewYTDLFetcher(download.YTDLOptions{
		BinaryPath:    cfg.YTDLPath,
		Format:        cfg.Format,
		WriteInfoJSON: cfg.WriteInfoJSON,
	})
}

// Close releases the ledger connection
func (a *app) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			zap.L().Warn("failed to close ledger", zap.Error(err))
		}
	}
}
