package pipeline

import (
	"context"
	"time"

	"github.com/killallgit/herotrend/internal/audio"
	"github.com/killallgit/herotrend/pkg/ffmpeg"
)

// Fetcher downloads the media of a source to destPath
type Fetcher interface {
	Fetch(ctx context.Context, sourceID string, destPath string) error
}

// Transcoder converts media to a loudness-normalized WAV file
type Transcoder interface {
	ToWAV(ctx context.Context, inputFile, outputFile string) (*ffmpeg.AudioMetadata, error)
}

// Loader decodes a WAV file
type Loader interface {
	Load(path string) (*audio.RawAudio, error)
}

// Recorder persists run and stage outcomes
type Recorder interface {
	Start(ctx context.Context, sourceID, version, window string) (uint, error)
	RecordStage(ctx context.Context, runID uint, kind, path string, cached bool, duration time.Duration) error
	Finish(ctx context.Context, runID uint, seconds int, runErr error) error
}
